package vcfconv_api

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/biogo/hts/bgzf"
)

// A streaming source of variant records, yielding one record at a time from
// a plain or bgzip-compressed VCF file, restricted to the requested regions,
// targets and samples.
type recordSource struct {
	// Header holds the parsed header of the input, with the sample set
	// already restricted to the requested selection.
	Header *Header

	readLine func() (string, error)
	closers  []io.Closer

	regions   []region
	selection *sampleSelection

	// samples as declared by the #CHROM line, before selection
	allSamples  []string
	headerReady bool
}

var headerLineRegex = regexp.MustCompile(`^##(?P<headerType>[^=]*)=<(?P<content>.*)>$`)

// openRecordSource opens the input VCF of the run and prepares the region,
// target and sample restrictions.
func openRecordSource(opts *options) (*recordSource, error) {
	src := &recordSource{Header: newHeader()}

	if opts.regions != "" {
		regions, err := parseRegions(opts.regions, opts.regionsIsFile)
		if err != nil {
			return nil, err
		}
		src.regions = append(src.regions, regions...)
	}
	if opts.targets != "" {
		targets, err := parseRegions(opts.targets, opts.targetsIsFile)
		if err != nil {
			return nil, err
		}
		src.regions = append(src.regions, targets...)
	}
	if opts.sampleList != "" {
		selection, err := parseSampleList(opts.sampleList, opts.samplesIsFile)
		if err != nil {
			return nil, err
		}
		src.selection = selection
	}

	var input io.Reader = os.Stdin
	if opts.infname != "-" {
		file, err := os.Open(opts.infname)
		if err != nil {
			return nil, fmt.Errorf("failed to open or the file not indexed: %s", opts.infname)
		}
		src.closers = append(src.closers, file)
		input = file
	}

	if strings.HasSuffix(opts.infname, ".gz") {
		bgReader, err := bgzf.NewReader(input, 1)
		if err != nil {
			return nil, err
		}
		src.closers = append(src.closers, bgReader)
		src.readLine = func() (string, error) {
			b, err := readBgzipLine(bgReader)
			return string(b), err
		}
	} else {
		scanner := bufio.NewScanner(input)
		const maxCapacity = 8 * 1000000 // 8 MB
		scanner.Buffer(make([]byte, maxCapacity), maxCapacity)
		src.readLine = func() (string, error) {
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return "", err
				}
				return "", io.EOF
			}
			return scanner.Text(), nil
		}
	}

	return src, nil
}

// readBgzipLine reads a line from a bgzip file
func readBgzipLine(r *bgzf.Reader) ([]byte, error) {
	var (
		data []byte
		b    byte
		err  error
	)
	for {
		b, err = r.ReadByte()
		if err != nil {
			break
		}
		data = append(data, b)
		if b == '\n' {
			break
		}
	}
	if len(data) > 0 && err == io.EOF {
		err = nil
	}
	return data, err
}

// Next returns the next record passing the region and target restriction,
// or nil at the end of the input. The header is complete once the first
// call returns.
func (src *recordSource) Next() (*Variant, error) {
	for {
		line, err := src.readLine()
		if err == io.EOF {
			if !src.headerReady {
				if err := src.finishHeader(); err != nil {
					return nil, err
				}
			}
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			src.parseHeaderLine(line)
			continue
		}
		if !src.headerReady {
			if err := src.finishHeader(); err != nil {
				return nil, err
			}
		}

		variant, err := src.parseVariantLine(line)
		if err != nil {
			return nil, err
		}
		if !anyContains(src.regions, variant.Chromosome, variant.Pos) {
			continue
		}
		return variant, nil
	}
}

// Close releases the underlying readers.
func (src *recordSource) Close() error {
	var err error
	for i := len(src.closers) - 1; i >= 0; i-- {
		if cerr := src.closers[i].Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// finishHeader resolves the sample selection once the full header is known.
func (src *recordSource) finishHeader() error {
	src.headerReady = true
	if src.selection == nil {
		src.Header.Samples = src.allSamples
		return nil
	}
	samples, cols, err := src.selection.apply(src.allSamples)
	if err != nil {
		return err
	}
	src.Header.Samples = samples
	src.Header.sampleCols = cols
	return nil
}

// Parse a header line and add it to the Header struct
func (src *recordSource) parseHeaderLine(line string) {
	header := src.Header

	if strings.HasPrefix(line, "#CHROM") {
		fields := strings.Split(line, "\t")
		if len(fields) > 9 {
			src.allSamples = fields[9:]
		}
		return
	}

	matches := headerLineRegex.FindStringSubmatch(line)
	if len(matches) == 0 {
		header.Other = append(header.Other, line)
		return
	}

	headerType := matches[1]
	contentMap := convertLineToMap(matches[2])

	switch headerType {
	case "INFO":
		header.Info[contentMap["id"]] = HeaderLineIdNumberTypeDescription{
			Id:          contentMap["id"],
			Number:      contentMap["number"],
			Type:        contentMap["type"],
			Description: contentMap["description"],
		}
	case "FORMAT":
		header.Format[contentMap["id"]] = HeaderLineIdNumberTypeDescription{
			Id:          contentMap["id"],
			Number:      contentMap["number"],
			Type:        contentMap["type"],
			Description: contentMap["description"],
		}
	case "FILTER":
		header.Filter[contentMap["id"]] = HeaderLineIdDescription{
			Id:          contentMap["id"],
			Description: contentMap["description"],
		}
	case "contig":
		length, _ := strconv.ParseInt(contentMap["length"], 0, 64)
		header.Contig = append(header.Contig, HeaderLineIdLength{
			Id:     contentMap["id"],
			Length: length,
		})
	default:
		header.Other = append(header.Other, line)
	}
}

// Parse a record line into a Variant struct
func (src *recordSource) parseVariantLine(line string) (*Variant, error) {
	data := strings.Split(line, "\t")
	if len(data) < 8 {
		return nil, fmt.Errorf("truncated record line: %q", line)
	}

	variant := newVariant(src.Header)
	variant.Chromosome = data[0]

	var err error
	variant.Pos, err = strconv.ParseInt(data[1], 0, 64)
	if err != nil {
		return nil, fmt.Errorf("could not parse the position of record %q: %w", line, err)
	}
	variant.Id = data[2]
	variant.Ref = data[3]
	variant.Alt = data[4]
	variant.Qual = data[5]
	variant.Filter = data[6]

	for _, entry := range strings.Split(data[7], ";") {
		field, value, _ := strings.Cut(entry, "=")
		variant.Info[field] = value
	}

	if len(data) <= 9 {
		return variant, nil
	}

	formatKeys := strings.Split(data[8], ":")
	sampleData := data[9:]
	for i, sample := range src.Header.Samples {
		col := i
		if src.Header.sampleCols != nil {
			col = src.Header.sampleCols[i]
		}
		if col >= len(sampleData) {
			return nil, fmt.Errorf("too few sample columns at %s:%d", variant.Chromosome, variant.Pos)
		}

		format := VariantFormat{Sample: sample, Content: map[string][]string{}}
		for idx, value := range strings.Split(sampleData[col], ":") {
			if idx >= len(formatKeys) {
				break
			}
			format.Content[formatKeys[idx]] = strings.Split(value, ",")
		}
		variant.Format[sample] = format
	}

	return variant, nil
}

// convertLineToMap converts the header line contents to a map suitable to transform to a struct
func convertLineToMap(line string) map[string]string {
	data := map[string]string{}
	word := ""
	key := ""
	quote := ""
	for _, letter := range strings.Split(line, "") {
		if letter == "=" && key == "" {
			key = strings.ToLower(word)
			word = ""
			continue
		} else if letter == "," && quote == "" {
			data[key] = strings.Trim(word, `"'`)
			key = ""
			word = ""
			continue
		}

		word += letter

		if letter == quote {
			quote = ""
		} else if letter == "\"" || letter == "'" {
			quote = letter
		}
	}
	data[key] = strings.Trim(word, `"'`)

	return data
}
