package vcfconv_api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseIndex(t *testing.T) {
	for base, expected := range map[byte]int{
		'A': 0, 'a': 0,
		'C': 1, 'c': 1,
		'G': 2, 'g': 2,
		'T': 3, 't': 3,
	} {
		assert.Equal(t, expected, baseIndex(base), "base %c", base)
	}

	// everything else folds into the N bucket
	for _, base := range []byte{'N', 'n', 'X', 'R', '*', '7', ' '} {
		assert.Equal(t, 4, baseIndex(base), "base %c", base)
	}
}

func TestAlleleSlotAssignmentOrder(t *testing.T) {
	slots := newAlleleSlots(baseIndex('A'))

	assert.Equal(t, 0, slots.assign(baseIndex('A')))
	assert.Equal(t, 1, slots.assign(baseIndex('T')))
	assert.Equal(t, 2, slots.assign(baseIndex('C')))

	// once assigned, a slot never changes
	assert.Equal(t, 1, slots.assign(baseIndex('T')))
	assert.Equal(t, 0, slots.assign(baseIndex('A')))

	assert.Equal(t, "A,T,C", slots.alleleString('A'))
}

func TestSynthesizeCallClassification(t *testing.T) {
	refIndex := baseIndex('A')

	tests := []struct {
		call     string
		expected [2]int
		check    func(*tally) int
	}{
		{"AA", [2]int{0, 0}, func(c *tally) int { return c.HomRR }},
		{"AC", [2]int{0, 1}, func(c *tally) int { return c.HetRA }},
		{"CA", [2]int{1, 0}, func(c *tally) int { return c.HetRA }},
		{"CC", [2]int{1, 1}, func(c *tally) int { return c.HomAA }},
		{"CT", [2]int{1, 2}, func(c *tally) int { return c.HetAA }},
	}
	for _, test := range tests {
		slots := newAlleleSlots(refIndex)
		counts := &tally{}
		gts, err := synthesizeCall(test.call, refIndex, slots, counts)
		require.NoError(t, err, "call %s", test.call)
		assert.Equal(t, test.expected, gts, "call %s", test.call)
		assert.Equal(t, 1, test.check(counts), "call %s", test.call)
	}
}

func TestSynthesizeCallSymmetry(t *testing.T) {
	// (ref,alt) and (alt,ref) both classify as het ref/alt
	refIndex := baseIndex('G')
	slots := newAlleleSlots(refIndex)
	counts := &tally{}

	_, err := synthesizeCall("GT", refIndex, slots, counts)
	require.NoError(t, err)
	_, err = synthesizeCall("TG", refIndex, slots, counts)
	require.NoError(t, err)

	assert.Equal(t, 2, counts.HetRA)
	assert.Equal(t, 0, counts.HomAA)
	assert.Equal(t, 0, counts.HetAA)
}

func TestSynthesizeCallHaploid(t *testing.T) {
	refIndex := baseIndex('A')
	slots := newAlleleSlots(refIndex)
	counts := &tally{}

	gts, err := synthesizeCall("C", refIndex, slots, counts)
	require.NoError(t, err)
	assert.Equal(t, [2]int{1, noSecondAllele}, gts)
	// a one-character call duplicates its base for classification
	assert.Equal(t, 1, counts.HomAA)
}

func TestSynthesizeCallRejections(t *testing.T) {
	refIndex := baseIndex('A')

	for _, call := range []string{"--", "-", "I", "ID", "D", "DA"} {
		slots := newAlleleSlots(refIndex)
		counts := &tally{}
		_, err := synthesizeCall(call, refIndex, slots, counts)
		assert.ErrorIs(t, err, errSiteRejected, "call %s", call)
		assert.Equal(t, tally{}, *counts, "call %s", call)
	}

	// more than two characters is malformed input, not a benign rejection
	slots := newAlleleSlots(refIndex)
	_, err := synthesizeCall("ACG", refIndex, slots, &tally{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, errSiteRejected)
}

func TestAlleleStringFollowsAssignmentOrder(t *testing.T) {
	// indices are assigned in row-encounter order, not alphabet order
	refIndex := baseIndex('A')
	slots := newAlleleSlots(refIndex)
	counts := &tally{}

	_, err := synthesizeCall("TC", refIndex, slots, counts)
	require.NoError(t, err)

	assert.Equal(t, "A,T,C", slots.alleleString('A'))
}
