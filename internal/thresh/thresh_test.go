package thresh

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeKnownGates(t *testing.T) {
	tests := []struct {
		name  string
		truth uint64
		arity int
	}{
		{"buffer", 0b10, 1},
		{"inverter", 0b01, 1},
		{"and2", 0b1000, 2},
		{"or2", 0b1110, 2},
		{"nand2", 0b0111, 2},
		{"nor2", 0b0001, 2},
		{"a and not b", 0b0010, 2},
		{"maj3", 0xE8, 3},
		{"and6", 1 << 63, 6},
		{"or6", ^uint64(1), 6},
	}
	var h Heuristic
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, thr, err := h.Synthesize(tc.truth, tc.arity)
			require.NoError(t, err)
			assert.Len(t, w, tc.arity)
			assert.True(t, Realizes(tc.truth, tc.arity, w, thr), "weights %v threshold %d", w, thr)
		})
	}
}

// TestSynthesizeAnd2Property checks the realization of a 2-input and without
// assuming a particular weight vector.
func TestSynthesizeAnd2Property(t *testing.T) {
	w, thr, err := Heuristic{}.Synthesize(0b1000, 2)
	require.NoError(t, err)
	require.Len(t, w, 2)
	assert.GreaterOrEqual(t, w[0]+w[1], thr)
	assert.Less(t, w[0], thr)
	assert.Less(t, w[1], thr)
	assert.Less(t, 0, thr)
}

func TestSynthesizeNegatedInputGetsNegativeWeight(t *testing.T) {
	w, thr, err := Heuristic{}.Synthesize(0b0010, 2) // a * !b
	require.NoError(t, err)
	assert.Greater(t, w[0], 0)
	assert.Less(t, w[1], 0)
	assert.True(t, Realizes(0b0010, 2, w, thr))
}

func TestSynthesizeConstants(t *testing.T) {
	for _, arity := range []int{0, 1, 3} {
		ones := tableMask(arity)
		w, thr, err := Heuristic{}.Synthesize(ones, arity)
		require.NoError(t, err)
		assert.Equal(t, make([]int, arity), w)
		assert.Equal(t, 0, thr)

		w, thr, err = Heuristic{}.Synthesize(0, arity)
		require.NoError(t, err)
		assert.Equal(t, make([]int, arity), w)
		assert.Equal(t, 1, thr)
	}
}

func TestSynthesizeIrrelevantInputGetsZeroWeight(t *testing.T) {
	// f = b over (a, b).
	w, thr, err := Heuristic{}.Synthesize(0b1100, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, w[0])
	assert.True(t, Realizes(0b1100, 2, w, thr))
}

func TestSynthesizeRejectsNonThreshold(t *testing.T) {
	var h Heuristic
	_, _, err := h.Synthesize(0b0110, 2) // xor
	assert.ErrorIs(t, err, ErrNotThreshold)

	// ab + cd is unate but has no threshold realization.
	var abcd uint64
	for a := 0; a < 16; a++ {
		if a&0b0011 == 0b0011 || a&0b1100 == 0b1100 {
			abcd |= 1 << uint(a)
		}
	}
	_, _, err = h.Synthesize(abcd, 4)
	assert.ErrorIs(t, err, ErrNotThreshold)
}

func TestSynthesizeArityBound(t *testing.T) {
	_, _, err := Heuristic{}.Synthesize(0, MaxArity+1)
	assert.Error(t, err)
	_, _, err = Heuristic{}.Synthesize(0, -1)
	assert.Error(t, err)
}

// TestSynthesizeAllThreeInputUnate covers every function of three inputs:
// all unate ones are threshold functions and must be realized exactly.
func TestSynthesizeAllThreeInputUnate(t *testing.T) {
	var h Heuristic
	for truth := uint64(0); truth < 256; truth++ {
		isUnate := true
		for i := 0; i < 3; i++ {
			if unateness(truth, 3, i) == binate {
				isUnate = false
			}
		}
		w, thr, err := h.Synthesize(truth, 3)
		if !isUnate {
			assert.ErrorIs(t, err, ErrNotThreshold, "truth %08b", truth)
			continue
		}
		require.NoError(t, err, "truth %08b", truth)
		assert.True(t, Realizes(truth, 3, w, thr), fmt.Sprintf("truth %08b weights %v threshold %d", truth, w, thr))
	}
}

func TestRealizes(t *testing.T) {
	assert.True(t, Realizes(0b1000, 2, []int{1, 1}, 2))
	assert.False(t, Realizes(0b1000, 2, []int{1, 1}, 1))
	assert.False(t, Realizes(0b1000, 2, []int{1}, 2))
	assert.True(t, Realizes(1, 0, nil, 0))
	assert.True(t, Realizes(0, 0, []int{}, 1))
}

func TestUnateness(t *testing.T) {
	assert.Equal(t, positive, unateness(0b1000, 2, 0))
	assert.Equal(t, negative, unateness(0b0001, 2, 1))
	assert.Equal(t, binate, unateness(0b0110, 2, 0))
	assert.Equal(t, irrelevant, unateness(0b1100, 2, 0))
}
