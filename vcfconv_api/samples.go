package vcfconv_api

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// A requested sample subset, parsed from --samples or --samples-file
type sampleSelection struct {
	names  []string
	negate bool
}

// readList returns the entries of a comma-separated list, or of a file with
// one entry per line when isFile is set.
func readList(list string, isFile bool) ([]string, error) {
	if !isFile {
		return strings.Split(list, ","), nil
	}

	file, err := os.Open(list)
	if err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", list, err)
	}
	defer file.Close()

	entries := []string{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", list, err)
	}
	return entries, nil
}

// parseSampleList parses a sample list or file. A leading ^ on the list (or
// on the file name) negates the selection to "all samples except these".
func parseSampleList(list string, isFile bool) (*sampleSelection, error) {
	negate := strings.HasPrefix(list, "^")
	names, err := readList(strings.TrimPrefix(list, "^"), isFile)
	if err != nil {
		return nil, err
	}
	return &sampleSelection{names: names, negate: negate}, nil
}

// apply resolves the selection against the sample dictionary of the store.
// It returns the materialized sample names in output order together with,
// for each of them, the index of its column among the input sample columns.
//
// When the selection is not negated the requested order wins and the number
// of requested names must match the number of surviving samples exactly,
// otherwise some are present multiple times or missing.
func (sel *sampleSelection) apply(all []string) ([]string, []int, error) {
	index := make(map[string]int, len(all))
	for i, name := range all {
		index[name] = i
	}

	if sel.negate {
		drop := make(map[string]bool, len(sel.names))
		for _, name := range sel.names {
			drop[name] = true
		}
		samples := []string{}
		cols := []int{}
		for i, name := range all {
			if drop[name] {
				continue
			}
			samples = append(samples, name)
			cols = append(cols, i)
		}
		return samples, cols, nil
	}

	keep := make(map[string]bool, len(sel.names))
	for _, name := range sel.names {
		if _, ok := index[name]; !ok {
			return nil, nil, fmt.Errorf("sample %q not found in the header", name)
		}
		keep[name] = true
	}
	if len(sel.names) != len(keep) {
		return nil, nil, errors.New("the number of samples does not match, perhaps some are present multiple times?")
	}

	samples := make([]string, len(sel.names))
	cols := make([]int, len(sel.names))
	for i, name := range sel.names {
		samples[i] = name
		cols[i] = index[name]
	}
	return samples, cols, nil
}
