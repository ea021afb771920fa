package vcfconv_api

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/hts/bgzf"
)

// The fixed prefix of every .gen line: site ids, position and the two
// alleles. The per-sample block is appended depending on --tag.
const genFormatPrefix = `%CHROM:%POS\_%REF\_%FIRST_ALT %_CHROM_POS_ID %POS %REF %FIRST_ALT`

// genSampleNames derives the .gen/.samples output pair: an explicit
// "gen,samples" pair split on the first comma, or a common prefix with the
// fixed suffixes. Compression of the .gen stream follows its file name.
func genSampleNames(out string) (genFname, sampleFname string, compressed bool) {
	if gen, samples, found := strings.Cut(out, ","); found {
		return gen, samples, strings.HasSuffix(strings.ToLower(gen), ".gz")
	}
	return out + ".gen.gz", out + ".samples", true
}

// writeSampleManifest writes the .samples file: a fixed two-line preamble
// and one line per materialized sample.
func writeSampleManifest(fname string, samples []string) error {
	file, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", fname, err)
	}

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "ID_1 ID_2 missing\n0 0 0\n")
	for _, sample := range samples {
		fmt.Fprintf(w, "%s %s 0\n", sample, sample)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", fname, err)
	}
	return file.Close()
}

// openGenSink opens the .gen stream, bgzip-compressed when requested.
func openGenSink(fname string, compressed bool) (io.WriteCloser, error) {
	file, err := os.Create(fname)
	if err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", fname, err)
	}
	if compressed {
		bgWriter := bgzf.NewWriter(file, 1)
		return &genSink{Writer: bgWriter, closers: []io.Closer{bgWriter, file}}, nil
	}
	buffered := bufio.NewWriter(file)
	return &genSink{Writer: buffered, closers: []io.Closer{flusher{buffered}, file}}, nil
}

// genSink closes the compression or buffering layer before the file under it.
type genSink struct {
	io.Writer
	closers []io.Closer
}

func (sink *genSink) Close() error {
	var err error
	for _, closer := range sink.closers {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// vcfToGenSample streams the input VCF through the configured filter and
// writes one .gen matrix line per passing record, plus the sample manifest.
func vcfToGenSample(opts *options) error {
	format := genFormatPrefix
	switch opts.tag {
	case "", "GT":
		format += "%_GT_TO_PROB3"
	case "PL":
		format += "%_PL_TO_PROB3"
	default:
		return fmt.Errorf("unsupported --tag %q", opts.tag)
	}
	format += `\n`

	formatter, err := newLineFormatter(format)
	if err != nil {
		return err
	}

	var filter *siteFilter
	if opts.filterStr != "" {
		if filter, err = newSiteFilter(opts.filterStr, opts.filterLogic); err != nil {
			return err
		}
	}

	src, err := openRecordSource(opts)
	if err != nil {
		return err
	}
	defer src.Close()

	genFname, sampleFname, compressed := genSampleNames(opts.genOut)

	// The manifest needs the materialized sample set, which is only known
	// once the header has been read. The first record is fetched before
	// any output file is touched.
	variant, err := src.Next()
	if err != nil {
		return err
	}

	if err := writeSampleManifest(sampleFname, src.Header.Samples); err != nil {
		return err
	}
	sink, err := openGenSink(genFname, compressed)
	if err != nil {
		return err
	}

	buf := &bytes.Buffer{}
	for ; variant != nil; variant, err = src.Next() {
		if variant.NAllele() == 1 {
			// an alternate allele is required
			continue
		}
		if filter != nil {
			pass, ferr := filter.pass(variant)
			if ferr != nil {
				sink.Close()
				return ferr
			}
			if !pass {
				continue
			}
		}

		if err := formatter.render(variant, buf); err != nil {
			sink.Close()
			return err
		}
		if buf.Len() == 0 {
			continue
		}
		if n, werr := sink.Write(buf.Bytes()); werr != nil || n != buf.Len() {
			sink.Close()
			if werr == nil {
				werr = io.ErrShortWrite
			}
			return fmt.Errorf("error writing %s: %w", genFname, werr)
		}
	}
	if err != nil {
		sink.Close()
		return err
	}

	if err := sink.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", genFname, err)
	}
	return nil
}
