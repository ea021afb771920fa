package vcfconv_api

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// A region of interest on one chromosome. End 0 means "to the end of the
// chromosome", Beg and End are 1-based and inclusive.
type region struct {
	chrom string
	beg   int64
	end   int64
}

// contains reports whether the position falls inside the region.
func (r region) contains(chrom string, pos int64) bool {
	if r.chrom != chrom || pos < r.beg {
		return false
	}
	return r.end == 0 || pos <= r.end
}

// parseRegion parses a single chr, chr:pos or chr:beg-end region string.
func parseRegion(str string) (region, error) {
	colon := strings.LastIndexByte(str, ':')
	if colon < 0 {
		return region{chrom: str}, nil
	}

	reg := region{chrom: str[:colon]}
	span := str[colon+1:]
	beg, end, found := strings.Cut(span, "-")

	var err error
	reg.beg, err = strconv.ParseInt(strings.ReplaceAll(beg, ",", ""), 10, 64)
	if err != nil {
		return region{}, fmt.Errorf("could not parse the region %q: %w", str, err)
	}
	if !found {
		reg.end = reg.beg
		return reg, nil
	}
	reg.end, err = strconv.ParseInt(strings.ReplaceAll(end, ",", ""), 10, 64)
	if err != nil {
		return region{}, fmt.Errorf("could not parse the region %q: %w", str, err)
	}
	return reg, nil
}

// parseRegions parses a comma-separated region list, or a file of regions
// when isFile is set. Region files may also hold TAB-separated
// "chrom pos" or "chrom beg end" lines, one region per line.
func parseRegions(list string, isFile bool) ([]region, error) {
	if !isFile {
		regions := []region{}
		for _, str := range strings.Split(list, ",") {
			reg, err := parseRegion(str)
			if err != nil {
				return nil, err
			}
			regions = append(regions, reg)
		}
		return regions, nil
	}

	file, err := os.Open(list)
	if err != nil {
		return nil, fmt.Errorf("failed to read the regions: %w", err)
	}
	defer file.Close()

	regions := []region{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch len(fields) {
		case 1:
			reg, err := parseRegion(fields[0])
			if err != nil {
				return nil, err
			}
			regions = append(regions, reg)
		case 2, 3:
			reg := region{chrom: fields[0]}
			if reg.beg, err = strconv.ParseInt(fields[1], 10, 64); err != nil {
				return nil, fmt.Errorf("failed to read the regions: %w", err)
			}
			reg.end = reg.beg
			if len(fields) == 3 {
				if reg.end, err = strconv.ParseInt(fields[2], 10, 64); err != nil {
					return nil, fmt.Errorf("failed to read the regions: %w", err)
				}
			}
			regions = append(regions, reg)
		default:
			return nil, fmt.Errorf("failed to read the regions: unexpected line %q", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read the regions: %w", err)
	}
	return regions, nil
}

// anyContains reports whether any of the regions contains the position. An
// empty region set matches everything.
func anyContains(regions []region, chrom string, pos int64) bool {
	if len(regions) == 0 {
		return true
	}
	for _, reg := range regions {
		if reg.contains(chrom, pos) {
			return true
		}
	}
	return false
}
