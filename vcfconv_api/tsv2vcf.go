package vcfconv_api

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/hts/bgzf"
)

// recordBuilder synthesizes alleles and genotypes for one TSV row at a
// time, against a reference base fetched per row.
type recordBuilder struct {
	ref    *Reference
	counts *tally

	// number of sample columns every row must provide
	nSamples int
}

// setChrom, setPos and setId commit the row context columns the table
// parser maps to them.
func setChrom(t *tsvParser, rec *Variant) error {
	cell, err := t.cell()
	if err != nil {
		return err
	}
	rec.Chromosome = cell
	return nil
}

func setPos(t *tsvParser, rec *Variant) error {
	cell, err := t.cell()
	if err != nil {
		return err
	}
	pos, err := strconv.ParseInt(cell, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: unparseable position %q", errSiteRejected, cell)
	}
	rec.Pos = pos
	return nil
}

func setId(t *tsvParser, rec *Variant) error {
	cell, err := t.cell()
	if err != nil {
		return err
	}
	if cell == "" {
		cell = "."
	}
	rec.Id = cell
	return nil
}

// setAA drives the genotype synthesis across all sample columns of the row
// and commits the allele string and genotype matrix into the record. Any
// disqualifying sample call voids the whole row.
func (b *recordBuilder) setAA(t *tsvParser, rec *Variant) error {
	refBase, err := b.ref.FetchBase(rec.Chromosome, rec.Pos)
	if err != nil {
		return err
	}
	refBase = upperBase(refBase)
	refIndex := baseIndex(refBase)
	slots := newAlleleSlots(refIndex)

	genotypes := make([][2]int, b.nSamples)
	for i := 0; i < b.nSamples; i++ {
		cell := ""
		if i == 0 {
			cell, err = t.cell()
		} else {
			cell, err = t.next()
		}
		if errors.Is(err, errTooFewColumns) {
			return fmt.Errorf("too few columns for %d samples at %s:%d", b.nSamples, rec.Chromosome, rec.Pos)
		}
		if err != nil {
			return err
		}

		genotypes[i], err = synthesizeCall(cell, refIndex, slots, b.counts)
		if errors.Is(err, errSiteRejected) {
			return err
		}
		if err != nil {
			return fmt.Errorf("error parsing the site %s:%d: %w", rec.Chromosome, rec.Pos, err)
		}
	}

	alleles := strings.SplitN(slots.alleleString(refBase), ",", 2)
	rec.Ref = alleles[0]
	rec.Alt = "."
	if len(alleles) == 2 {
		rec.Alt = alleles[1]
	}
	rec.Genotypes = genotypes
	return nil
}

func upperBase(base byte) byte {
	if base >= 'a' && base <= 'z' {
		return base - 'a' + 'A'
	}
	return base
}

// tsvToVCF converts a TSV table of per-sample allele calls into VCF records
// with alleles and genotypes inferred against the reference.
func tsvToVCF(opts *options) error {
	if opts.refFname == "" {
		return errors.New("missing the --fasta-ref option")
	}
	if opts.sampleList == "" {
		return errors.New("missing the --samples option")
	}

	ref, err := LoadReference(opts.refFname)
	if err != nil {
		return err
	}

	samples, err := readList(opts.sampleList, opts.samplesIsFile)
	if err != nil {
		return err
	}

	// Contig declarations come first, before any sample or record
	// metadata, in the enumeration order of the reference.
	header := newHeader()
	header.Contig = ref.Sequences()
	header.Format["GT"] = HeaderLineIdNumberTypeDescription{
		Id:          "GT",
		Number:      "1",
		Type:        "String",
		Description: "Genotype",
	}
	header.Samples = samples

	builder := &recordBuilder{ref: ref, counts: &tally{}, nSamples: len(samples)}

	parser := newTSVParser(opts.columns)
	if err := parser.register("CHROM", setChrom); err != nil {
		return err
	}
	if err := parser.register("POS", setPos); err != nil {
		return err
	}
	if err := parser.register("ID", setId); err != nil {
		return err
	}
	if err := parser.register("AA", builder.setAA); err != nil {
		return err
	}

	out, err := openVCFWriter(opts.outfname, opts.outputType)
	if err != nil {
		return err
	}
	if err := out.WriteHeader(header); err != nil {
		out.Close()
		return err
	}

	if err := convertRows(opts.tsvIn, parser, header, builder.counts, out); err != nil {
		out.Close()
		return err
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("close failed: %w", err)
	}

	counts := builder.counts
	logger := log.New(os.Stderr, "", 0)
	logger.Printf("Rows total: \t%d", counts.Total)
	logger.Printf("Rows skipped: \t%d", counts.Skipped)
	logger.Printf("Hom RR: \t%d", counts.HomRR)
	logger.Printf("Het RA: \t%d", counts.HetRA)
	logger.Printf("Hom AA: \t%d", counts.HomAA)
	logger.Printf("Het AA: \t%d", counts.HetAA)
	return nil
}

// convertRows streams the TSV input line by line through the parser and
// writes one record per accepted row.
func convertRows(fname string, parser *tsvParser, header *Header, counts *tally, out *vcfWriter) error {
	var input io.Reader = os.Stdin
	if fname != "-" {
		file, err := os.Open(fname)
		if err != nil {
			return fmt.Errorf("could not read: %s", fname)
		}
		defer file.Close()
		input = file
	}
	if strings.HasSuffix(fname, ".gz") {
		bgReader, err := bgzf.NewReader(input, 1)
		if err != nil {
			return err
		}
		defer bgReader.Close()
		input = bgReader
	}

	scanner := bufio.NewScanner(input)
	const maxCapacity = 8 * 1000000 // 8 MB
	scanner.Buffer(make([]byte, maxCapacity), maxCapacity)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		counts.Total++
		rec := newVariant(header)
		if err := parser.parse(line, rec); err != nil {
			if errors.Is(err, errSiteRejected) {
				counts.Skipped++
				continue
			}
			return err
		}
		if err := out.WriteVariant(rec); err != nil {
			return err
		}
	}
	return scanner.Err()
}
