package vcfconv_api

import "strings"

// The struct representing the header of a VCF file in a parseable format
type Header struct {
	// Object containing the INFO fields with their ID, Number, Type and Description
	Info map[string]HeaderLineIdNumberTypeDescription

	// Object containing the FORMAT fields with their ID, Number, Type and Description
	Format map[string]HeaderLineIdNumberTypeDescription

	// Object containing the FILTER fields with their ID and Description
	Filter map[string]HeaderLineIdDescription

	// List of all contigs in the VCF file with their ID and Length
	Contig []HeaderLineIdLength

	// List of all other VCF header lines
	Other []string

	// List of the samples materialized from the VCF file, in output order
	Samples []string

	// For every entry of Samples, the index of its column among the
	// sample columns of the input file. Empty when no sample selection
	// was applied.
	sampleCols []int
}

// A struct representing a header line in the VCF file with its ID and Description
type HeaderLineIdDescription struct {
	Id          string
	Description string
}

// A struct representing a header line in the VCF file with its ID, Number, Type and Description
type HeaderLineIdNumberTypeDescription struct {
	Id          string
	Number      string
	Type        string
	Description string
}

// A struct representing a header line in the VCF file with its ID and Length
type HeaderLineIdLength struct {
	Id     string
	Length int64
}

// A struct representing one variant record
type Variant struct {
	// The chromosome of the variant
	Chromosome string

	// The 1-based position of the variant
	Pos int64

	// The ID of the variant
	Id string

	// The reference allele of the variant
	Ref string

	// The alternate alleles of the variant, comma separated, "." when absent
	Alt string

	// The Phred-scaled quality score of the variant
	Qual string

	// The filter status of the variant
	Filter string

	// A pointer to the header this variant belongs to
	Header *Header

	// The INFO values of the variant, raw (flags map to "")
	Info map[string]string

	// The FORMAT values of the variant, keyed by sample name
	Format map[string]VariantFormat

	// Genotype codes committed by the TSV synthesis path, one pair per
	// sample. The second code is noSecondAllele for haploid calls.
	Genotypes [][2]int
}

// A struct representing the per-sample FORMAT content of a variant
type VariantFormat struct {
	// The sample name
	Sample string

	// The content of the format field, values comma-split
	Content map[string][]string
}

// Sentinel genotype code meaning "no second allele" (haploid call).
const noSecondAllele = -1

// Create a new header struct
func newHeader() *Header {
	return &Header{
		Info:    map[string]HeaderLineIdNumberTypeDescription{},
		Format:  map[string]HeaderLineIdNumberTypeDescription{},
		Filter:  map[string]HeaderLineIdDescription{},
		Contig:  []HeaderLineIdLength{},
		Other:   []string{},
		Samples: []string{},
	}
}

// Initialize a new Variant
func newVariant(header *Header) *Variant {
	return &Variant{
		Qual:   ".",
		Filter: ".",
		Header: header,
		Info:   map[string]string{},
		Format: map[string]VariantFormat{},
	}
}

// NAllele returns the number of alleles of the variant, the reference
// allele included.
func (v *Variant) NAllele() int {
	if v.Alt == "" || v.Alt == "." {
		return 1
	}
	return 1 + strings.Count(v.Alt, ",") + 1
}

// FirstAlt returns the first alternate allele, "." for monomorphic sites.
func (v *Variant) FirstAlt() string {
	if v.Alt == "" || v.Alt == "." {
		return "."
	}
	if i := strings.IndexByte(v.Alt, ','); i >= 0 {
		return v.Alt[:i]
	}
	return v.Alt
}
