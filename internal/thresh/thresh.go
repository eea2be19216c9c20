// Package thresh finds integer weights and a threshold realizing a Boolean
// function given by its truth table.
//
// A realization (w, T) of f over k inputs satisfies, for every assignment x,
//
//	f(x) = 1  <=>  sum(w[i] for x[i] = 1) >= T
//
// Realizations are not unique; callers must not depend on a particular one.
package thresh

import (
	"errors"
	"fmt"
	"sort"
)

// MaxArity is the largest number of inputs a truth table can describe.
const MaxArity = 6

// DefaultMaxWeight bounds the weight search of a zero Heuristic.
const DefaultMaxWeight = 32

// ErrNotThreshold is returned for functions with no realization within the
// search bound. Binate functions (such as xor) are never threshold functions.
var ErrNotThreshold = errors.New("not a threshold function")

// Synthesizer computes a realization of a truth table.
type Synthesizer interface {
	Synthesize(truth uint64, arity int) (weights []int, threshold int, err error)
}

// Heuristic is the default Synthesizer. It normalises negative-unate inputs,
// orders inputs by their Chow parameters and enumerates non-increasing
// weight vectors by increasing maximum weight, keeping the vector with the
// smallest total weight at the first bound that admits one.
type Heuristic struct {
	// MaxWeight bounds the largest weight tried; zero means DefaultMaxWeight.
	MaxWeight int
}

// Synthesize implements Synthesizer.
func (h Heuristic) Synthesize(truth uint64, arity int) ([]int, int, error) {
	if arity < 0 || arity > MaxArity {
		return nil, 0, fmt.Errorf("thresh: %d inputs exceeds %d", arity, MaxArity)
	}
	truth &= tableMask(arity)
	weights := make([]int, arity)

	var negMask uint
	var relevant []int
	for i := 0; i < arity; i++ {
		switch unateness(truth, arity, i) {
		case binate:
			return nil, 0, fmt.Errorf("%w: input %d is binate", ErrNotThreshold, i)
		case negative:
			negMask |= 1 << uint(i)
			relevant = append(relevant, i)
		case positive:
			relevant = append(relevant, i)
		}
	}

	if len(relevant) == 0 {
		// Constant function: every weight is zero.
		if truth&1 == 1 {
			return weights, 0, nil
		}
		return weights, 1, nil
	}

	g := flipInputs(truth, arity, negMask)
	groups := chowGroups(g, arity, relevant)

	maxWeight := h.MaxWeight
	if maxWeight <= 0 {
		maxWeight = DefaultMaxWeight
	}
	gw, t, ok := search(g, arity, groups, maxWeight)
	if !ok {
		return nil, 0, fmt.Errorf("%w: no weights up to %d", ErrNotThreshold, maxWeight)
	}
	for gi, group := range groups {
		for _, i := range group {
			weights[i] = gw[gi]
		}
	}

	// x' = 1 - x for negated inputs: w*x' = w - w*x.
	for i := 0; i < arity; i++ {
		if negMask&(1<<uint(i)) != 0 {
			t -= weights[i]
			weights[i] = -weights[i]
		}
	}
	return weights, t, nil
}

// Realizes reports whether (weights, threshold) reproduces truth on all
// 2^arity assignments.
func Realizes(truth uint64, arity int, weights []int, threshold int) bool {
	if arity < 0 || arity > MaxArity || len(weights) != arity {
		return false
	}
	for a := 0; a < 1<<uint(arity); a++ {
		on := truth>>uint(a)&1 == 1
		if (weightedSum(a, weights) >= threshold) != on {
			return false
		}
	}
	return true
}

func tableMask(arity int) uint64 {
	if arity >= MaxArity {
		return ^uint64(0)
	}
	return uint64(1)<<(uint(1)<<uint(arity)) - 1
}

func weightedSum(a int, weights []int) int {
	sum := 0
	for i, w := range weights {
		if a&(1<<uint(i)) != 0 {
			sum += w
		}
	}
	return sum
}

type unate int

const (
	irrelevant unate = iota
	positive
	negative
	binate
)

// unateness classifies input i of the function by comparing every pair of
// assignments that differ only in i.
func unateness(truth uint64, arity, i int) unate {
	var rises, falls bool
	bit := 1 << uint(i)
	for a := 0; a < 1<<uint(arity); a++ {
		if a&bit != 0 {
			continue
		}
		f0 := truth>>uint(a)&1 == 1
		f1 := truth>>uint(a|bit)&1 == 1
		if !f0 && f1 {
			rises = true
		}
		if f0 && !f1 {
			falls = true
		}
	}
	switch {
	case rises && falls:
		return binate
	case rises:
		return positive
	case falls:
		return negative
	}
	return irrelevant
}

// flipInputs returns g(x) = f(x xor mask).
func flipInputs(truth uint64, arity int, mask uint) uint64 {
	if mask == 0 {
		return truth
	}
	var g uint64
	for a := 0; a < 1<<uint(arity); a++ {
		if truth>>(uint(a)^mask)&1 == 1 {
			g |= 1 << uint(a)
		}
	}
	return g
}

// chowGroups sorts the relevant inputs of the positive function g by their
// Chow parameter (on-set minterms with the input set), largest first, and
// groups inputs with equal parameters. Inputs of a group share one weight.
func chowGroups(g uint64, arity int, relevant []int) [][]int {
	chow := make(map[int]int, len(relevant))
	for a := 0; a < 1<<uint(arity); a++ {
		if g>>uint(a)&1 == 0 {
			continue
		}
		for _, i := range relevant {
			if a&(1<<uint(i)) != 0 {
				chow[i]++
			}
		}
	}
	order := append([]int(nil), relevant...)
	sort.SliceStable(order, func(x, y int) bool {
		return chow[order[x]] > chow[order[y]]
	})

	var groups [][]int
	for idx, i := range order {
		if idx > 0 && chow[i] == chow[order[idx-1]] {
			groups[len(groups)-1] = append(groups[len(groups)-1], i)
			continue
		}
		groups = append(groups, []int{i})
	}
	return groups
}

// search looks for group weights w[0] >= w[1] >= ... >= 1 realizing the
// positive function g. The bound on w[0] grows from 1 to maxWeight; within a
// bound the candidate with the smallest total input weight wins.
func search(g uint64, arity int, groups [][]int, maxWeight int) ([]int, int, bool) {
	gw := make([]int, len(groups))
	weights := make([]int, arity)

	for bound := 1; bound <= maxWeight; bound++ {
		var best []int
		bestT, bestSum := 0, 0

		var rec func(pos, limit int)
		rec = func(pos, limit int) {
			if pos == len(gw) {
				for gi, group := range groups {
					for _, i := range group {
						weights[i] = gw[gi]
					}
				}
				t, ok := thresholdFor(g, arity, weights)
				if !ok {
					return
				}
				sum := 0
				for _, w := range weights {
					sum += w
				}
				if best == nil || sum < bestSum {
					best = append(best[:0], gw...)
					bestT, bestSum = t, sum
				}
				return
			}
			lo := 1
			if pos == 0 {
				lo = limit
			}
			for w := limit; w >= lo; w-- {
				gw[pos] = w
				rec(pos+1, w)
			}
		}
		rec(0, bound)
		if best != nil {
			return best, bestT, true
		}
	}
	return nil, 0, false
}

// thresholdFor returns the smallest on-set weighted sum if it exceeds every
// off-set weighted sum.
func thresholdFor(g uint64, arity int, weights []int) (int, bool) {
	minOn, maxOff := 0, 0
	haveOn, haveOff := false, false
	for a := 0; a < 1<<uint(arity); a++ {
		s := weightedSum(a, weights)
		if g>>uint(a)&1 == 1 {
			if !haveOn || s < minOn {
				minOn, haveOn = s, true
			}
		} else if !haveOff || s > maxOff {
			maxOff, haveOff = s, true
		}
	}
	if !haveOn {
		return maxOff + 1, true
	}
	if haveOff && maxOff >= minOn {
		return 0, false
	}
	return minOn, true
}
