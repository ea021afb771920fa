package vcfconv_api

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleSelectionByList(t *testing.T) {
	sel, err := parseSampleList("S3,S1", false)
	require.NoError(t, err)

	samples, cols, err := sel.apply([]string{"S1", "S2", "S3"})
	require.NoError(t, err)

	// the requested order wins when the list is not negated
	assert.Equal(t, []string{"S3", "S1"}, samples)
	assert.Equal(t, []int{2, 0}, cols)
}

func TestSampleSelectionNegated(t *testing.T) {
	sel, err := parseSampleList("^S2", false)
	require.NoError(t, err)

	samples, cols, err := sel.apply([]string{"S1", "S2", "S3"})
	require.NoError(t, err)

	// store order of the survivors
	assert.Equal(t, []string{"S1", "S3"}, samples)
	assert.Equal(t, []int{0, 2}, cols)
}

func TestSampleSelectionErrors(t *testing.T) {
	sel, err := parseSampleList("S1,S9", false)
	require.NoError(t, err)
	_, _, err = sel.apply([]string{"S1", "S2"})
	assert.Error(t, err)

	// duplicates in the request are a configuration error
	sel, err = parseSampleList("S1,S1", false)
	require.NoError(t, err)
	_, _, err = sel.apply([]string{"S1", "S2"})
	assert.Error(t, err)
}

func TestSampleSelectionFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.txt")
	require.NoError(t, os.WriteFile(path, []byte("S2\nS1\n\n"), 0o644))

	sel, err := parseSampleList(path, true)
	require.NoError(t, err)

	samples, _, err := sel.apply([]string{"S1", "S2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"S2", "S1"}, samples)
}
