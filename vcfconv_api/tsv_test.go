package vcfconv_api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTSVParserColumnSpec(t *testing.T) {
	// column names are canonicalized to upper case, "-" skips a column
	parser := newTSVParser("id, chrom ,pos,-,aa")
	assert.Equal(t, []string{"ID", "CHROM", "POS", "-", "AA"}, parser.columns)

	require.NoError(t, parser.register("CHROM", setChrom))
	assert.Error(t, parser.register("REF", setChrom))
}

func TestTSVParserCursor(t *testing.T) {
	order := []string{}
	record := func(name string) tsvSetter {
		return func(p *tsvParser, rec *Variant) error {
			cell, err := p.cell()
			if err != nil {
				return err
			}
			order = append(order, name+"="+cell)
			return nil
		}
	}

	parser := newTSVParser("A,-,B")
	require.NoError(t, parser.register("A", record("a")))
	require.NoError(t, parser.register("B", record("b")))

	rec := newVariant(newHeader())
	require.NoError(t, parser.parse("one\ttwo\tthree", rec))
	assert.Equal(t, []string{"a=one", "b=three"}, order)
}

func TestTSVParserShortRowRejected(t *testing.T) {
	parser := newTSVParser("ID,CHROM,POS,AA")
	require.NoError(t, parser.register("CHROM", setChrom))
	require.NoError(t, parser.register("POS", setPos))
	require.NoError(t, parser.register("ID", setId))

	rec := newVariant(newHeader())
	err := parser.parse("id1\tchr1", rec)
	assert.ErrorIs(t, err, errSiteRejected)
}

func TestSetPosRejectsGarbage(t *testing.T) {
	parser := newTSVParser("POS")
	require.NoError(t, parser.register("POS", setPos))

	rec := newVariant(newHeader())
	err := parser.parse("12x4", rec)
	assert.ErrorIs(t, err, errSiteRejected)
}
