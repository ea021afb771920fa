package vcfconv_api

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/biogo/hts/bgzf"
)

// A writer for variant records as VCF text, plain or bgzip-compressed
// depending on the requested output type.
type vcfWriter struct {
	w       io.Writer
	closers []io.Closer
}

// openVCFWriter opens the output of a synthesis run. "-" writes to standard
// output. The output types z and b select bgzip compression; v and u write
// plain text.
func openVCFWriter(fname string, outputType byte) (*vcfWriter, error) {
	vw := &vcfWriter{}

	var out io.Writer = os.Stdout
	if fname != "-" {
		file, err := os.Create(fname)
		if err != nil {
			return nil, fmt.Errorf("failed to create the output file: %w", err)
		}
		vw.closers = append(vw.closers, file)
		out = file
	}

	switch outputType {
	case 'z', 'b':
		bgWriter := bgzf.NewWriter(out, 1)
		vw.closers = append(vw.closers, bgWriter)
		vw.w = bgWriter
	default:
		buffered := bufio.NewWriter(out)
		vw.closers = append(vw.closers, flusher{buffered})
		vw.w = buffered
	}

	return vw, nil
}

type flusher struct{ *bufio.Writer }

func (f flusher) Close() error { return f.Flush() }

// Close flushes and closes the underlying writers.
func (vw *vcfWriter) Close() error {
	var err error
	for i := len(vw.closers) - 1; i >= 0; i-- {
		if cerr := vw.closers[i].Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// WriteHeader serializes the header: contig declarations first, then the
// FILTER/INFO/FORMAT declarations and the column line.
func (vw *vcfWriter) WriteHeader(header *Header) error {
	lines := []string{"##fileformat=VCFv4.2"}

	for _, contig := range header.Contig {
		lines = append(lines, fmt.Sprintf("##contig=<ID=%s,length=%d>", contig.Id, contig.Length))
	}
	for _, id := range sortedKeys(header.Filter) {
		filter := header.Filter[id]
		lines = append(lines, fmt.Sprintf("##FILTER=<ID=%s,Description=\"%s\">", filter.Id, filter.Description))
	}
	for _, id := range sortedKeys(header.Info) {
		info := header.Info[id]
		lines = append(lines, fmt.Sprintf("##INFO=<ID=%s,Number=%s,Type=%s,Description=\"%s\">", info.Id, info.Number, info.Type, info.Description))
	}
	for _, id := range sortedKeys(header.Format) {
		format := header.Format[id]
		lines = append(lines, fmt.Sprintf("##FORMAT=<ID=%s,Number=%s,Type=%s,Description=\"%s\">", format.Id, format.Number, format.Type, format.Description))
	}
	lines = append(lines, header.Other...)

	columnHeaders := []string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO"}
	if len(header.Samples) > 0 {
		columnHeaders = append(columnHeaders, "FORMAT")
		columnHeaders = append(columnHeaders, header.Samples...)
	}
	lines = append(lines, strings.Join(columnHeaders, "\t"))

	for _, line := range lines {
		if _, err := io.WriteString(vw.w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteVariant serializes one record.
func (vw *vcfWriter) WriteVariant(v *Variant) error {
	alt := v.Alt
	if alt == "" {
		alt = "."
	}

	fields := []string{
		v.Chromosome,
		strconv.FormatInt(v.Pos, 10),
		v.Id,
		v.Ref,
		alt,
		v.Qual,
		v.Filter,
		infoString(v.Info),
	}

	if len(v.Genotypes) > 0 {
		fields = append(fields, "GT")
		for _, gt := range v.Genotypes {
			fields = append(fields, genotypeString(gt))
		}
	}

	_, err := io.WriteString(vw.w, strings.Join(fields, "\t")+"\n")
	return err
}

// genotypeString renders an unphased genotype code pair, dropping the
// second allele of haploid calls.
func genotypeString(gt [2]int) string {
	if gt[1] == noSecondAllele {
		return strconv.Itoa(gt[0])
	}
	return strconv.Itoa(gt[0]) + "/" + strconv.Itoa(gt[1])
}

func infoString(info map[string]string) string {
	if len(info) == 0 {
		return "."
	}
	entries := []string{}
	for _, field := range sortedKeys(info) {
		if value := info[field]; value == "" {
			entries = append(entries, field)
		} else {
			entries = append(entries, field+"="+value)
		}
	}
	return strings.Join(entries, ";")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
