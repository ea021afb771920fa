package vcfconv_api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectRecords(t *testing.T, opts *options) (*recordSource, []*Variant) {
	t.Helper()
	src, err := openRecordSource(opts)
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	variants := []*Variant{}
	for {
		variant, err := src.Next()
		require.NoError(t, err)
		if variant == nil {
			break
		}
		variants = append(variants, variant)
	}
	return src, variants
}

func TestRecordSourceStreaming(t *testing.T) {
	src, variants := collectRecords(t, &options{infname: writeTestVCF(t)})

	assert.Equal(t, []string{"S1", "S2"}, src.Header.Samples)
	require.Len(t, src.Header.Contig, 1)
	assert.Equal(t, HeaderLineIdLength{Id: "chr1", Length: 1000}, src.Header.Contig[0])

	require.Len(t, variants, 3)
	first := variants[0]
	assert.Equal(t, "chr1", first.Chromosome)
	assert.Equal(t, int64(100), first.Pos)
	assert.Equal(t, "rs1", first.Id)
	assert.Equal(t, "A", first.Ref)
	assert.Equal(t, "C", first.Alt)
	assert.Equal(t, "10", first.Info["DP"])
	assert.Equal(t, []string{"0/1"}, first.Format["S2"].Content["GT"])

	// the monomorphic record parses with a single allele
	assert.Equal(t, 1, variants[1].NAllele())
	assert.Equal(t, 2, variants[0].NAllele())
}

func TestRecordSourceRegionRestriction(t *testing.T) {
	_, variants := collectRecords(t, &options{
		infname: writeTestVCF(t),
		regions: "chr1:150-250",
	})

	require.Len(t, variants, 1)
	assert.Equal(t, int64(200), variants[0].Pos)
}

func TestRecordSourceSampleReorder(t *testing.T) {
	_, variants := collectRecords(t, &options{
		infname:    writeTestVCF(t),
		sampleList: "S2,S1",
	})

	require.Len(t, variants, 3)
	first := variants[0]
	assert.Equal(t, []string{"S2", "S1"}, first.Header.Samples)
	assert.Equal(t, []string{"0/1"}, first.Format["S2"].Content["GT"])
	assert.Equal(t, []string{"0/0"}, first.Format["S1"].Content["GT"])
}

func TestRecordSourceUnknownSampleFatal(t *testing.T) {
	src, err := openRecordSource(&options{
		infname:    writeTestVCF(t),
		sampleList: "S1,S9",
	})
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Next()
	assert.Error(t, err)
}
