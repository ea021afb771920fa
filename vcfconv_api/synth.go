package vcfconv_api

import (
	"errors"
	"fmt"
	"sort"
)

// The fixed allele alphabet. Every base maps to one of these five symbols,
// unknown letters fold into the N bucket.
const baseSymbols = "ACGTN"

// baseIndex maps a base character to its index in the allele alphabet,
// case-insensitively. Unrecognized characters land in the N bucket.
func baseIndex(base byte) int {
	switch base {
	case 'A', 'a':
		return 0
	case 'C', 'c':
		return 1
	case 'G', 'g':
		return 2
	case 'T', 't':
		return 3
	}
	return 4
}

// errSiteRejected flags a row holding something else than a usable
// single-nucleotide call. The whole row is dropped from the output,
// counted once as skipped.
var errSiteRejected = errors.New("site rejected")

// The allele slot table of one input row: for each symbol of the alphabet,
// the allele index it was assigned, or unassigned. The reference base holds
// index 0, further indices are handed out in row-encounter order.
type alleleSlots struct {
	idx [5]int
	n   int
}

const slotUnassigned = -1

// newAlleleSlots seeds the table with the reference base at index 0.
func newAlleleSlots(refBase int) *alleleSlots {
	slots := &alleleSlots{idx: [5]int{slotUnassigned, slotUnassigned, slotUnassigned, slotUnassigned, slotUnassigned}}
	slots.idx[refBase] = 0
	slots.n = 1
	return slots
}

// assign returns the allele index of a base, handing out the next free
// index on first sight.
func (slots *alleleSlots) assign(base int) int {
	if slots.idx[base] == slotUnassigned {
		slots.idx[base] = slots.n
		slots.n++
	}
	return slots.idx[base]
}

// alleleString builds the final allele string of a row: the reference base
// first, then every other used base symbol in ascending assigned order.
func (slots *alleleSlots) alleleString(refBase byte) string {
	type used struct {
		index int
		base  byte
	}
	others := []used{}
	for i := 0; i < 5; i++ {
		if slots.idx[i] > 0 {
			others = append(others, used{index: slots.idx[i], base: baseSymbols[i]})
		}
	}
	sort.Slice(others, func(a, b int) bool { return others[a].index < others[b].index })

	alleles := []byte{refBase}
	for _, other := range others {
		alleles = append(alleles, ',', other.base)
	}
	return string(alleles)
}

// The run-scoped genotype tally, reported once at the end of a TSV run.
type tally struct {
	Total   int
	Skipped int
	HomRR   int
	HetRA   int
	HomAA   int
	HetAA   int
}

// synthesizeCall turns one 1-2 character base call into a genotype code
// pair against the row's slot table and updates the tally relative to the
// reference base.
//
// Calls starting with '-', 'I' or 'D' mark indels or missing data and void
// the row (errSiteRejected); anything longer than two characters is malformed
// input and a fatal error.
func synthesizeCall(call string, refBase int, slots *alleleSlots, counts *tally) ([2]int, error) {
	if len(call) > 2 {
		return [2]int{}, fmt.Errorf("expected two characters, got %q", call)
	}
	if len(call) == 0 {
		return [2]int{}, errSiteRejected
	}
	if call[0] == '-' || call[0] == 'I' || call[0] == 'D' {
		return [2]int{}, errSiteRejected
	}

	a0 := baseIndex(call[0])
	a1 := a0
	if len(call) == 2 {
		a1 = baseIndex(call[1])
	}

	gts := [2]int{slots.assign(a0), noSecondAllele}
	if len(call) == 2 {
		gts[1] = slots.assign(a1)
	}

	switch {
	case refBase == a0 && refBase == a1:
		counts.HomRR++
	case refBase == a0 || refBase == a1:
		counts.HetRA++
	case a0 == a1:
		counts.HomAA++
	default:
		counts.HetAA++
	}

	return gts, nil
}
