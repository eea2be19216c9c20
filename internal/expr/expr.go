// Package expr is the Boolean function representation shared by every gate of
// a network: a structurally hashed and-inverter graph (backed by gini's
// logic.C) whose functions are defined over numbered slot variables.
//
// Slot variable i stands for "the i-th fanin of whichever gate is being
// looked at". Gates with the same local function therefore share the same
// root literal. Display names are bound per call (see Func.Formula) and never
// stored on the graph.
package expr

import (
	"errors"
	"fmt"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// MaxArity is the largest fanin count whose truth table fits in one 64-bit word.
const MaxArity = 6

var (
	// ErrArity is returned when a truth table is requested for more than MaxArity inputs.
	ErrArity = errors.New("arity exceeds truth table capacity")
	// ErrUnbound is returned when a function references a slot the caller did not bind.
	ErrUnbound = errors.New("unbound slot variable")
)

// Function is the capability the exporter needs from a gate's Boolean function.
type Function interface {
	// Truth returns the truth table over arity inputs. Bit i holds the value
	// of the function under the assignment where slot j equals bit j of i.
	Truth(arity int) (uint64, error)

	// Formula renders the function with slot i printed as names[i]. levels is
	// a caller-owned scratch buffer; it is reset on entry.
	Formula(names []string, levels *Levels) (string, error)
}

// Manager owns the shared graph and its slot variables.
type Manager struct {
	c      *logic.C
	slots  []z.Lit
	slotOf map[z.Var]int
}

// NewManager returns an empty manager with no slot variables.
func NewManager() *Manager {
	return &Manager{
		c:      logic.NewC(),
		slotOf: make(map[z.Var]int),
	}
}

// Var returns the positive literal of slot variable i, creating slots up to i
// on first use.
func (m *Manager) Var(i int) z.Lit {
	for len(m.slots) <= i {
		lit := m.c.Lit()
		m.slotOf[lit.Var()] = len(m.slots)
		m.slots = append(m.slots, lit)
	}
	return m.slots[i]
}

// Const returns the constant literal for v.
func (m *Manager) Const(v bool) z.Lit {
	if v {
		return m.c.T
	}
	return m.c.F
}

// Not returns the complement of a.
func (m *Manager) Not(a z.Lit) z.Lit { return a.Not() }

// And returns a * b.
func (m *Manager) And(a, b z.Lit) z.Lit { return m.c.And(a, b) }

// Or returns a + b.
func (m *Manager) Or(a, b z.Lit) z.Lit { return m.c.Or(a, b) }

// Xor returns the exclusive or of a and b.
func (m *Manager) Xor(a, b z.Lit) z.Lit { return m.c.Xor(a, b) }

// Ands returns the conjunction of ms; the empty conjunction is constant 1.
func (m *Manager) Ands(ms ...z.Lit) z.Lit {
	if len(ms) == 0 {
		return m.c.T
	}
	acc := ms[0]
	for _, x := range ms[1:] {
		acc = m.c.And(acc, x)
	}
	return acc
}

// Ors returns the disjunction of ms; the empty disjunction is constant 0.
func (m *Manager) Ors(ms ...z.Lit) z.Lit {
	if len(ms) == 0 {
		return m.c.F
	}
	acc := ms[0]
	for _, x := range ms[1:] {
		acc = m.c.Or(acc, x)
	}
	return acc
}

// Xors folds Xor over ms; the empty parity is constant 0.
func (m *Manager) Xors(ms ...z.Lit) z.Lit {
	if len(ms) == 0 {
		return m.c.F
	}
	acc := ms[0]
	for _, x := range ms[1:] {
		acc = m.c.Xor(acc, x)
	}
	return acc
}

// Func wraps root as a Function bound to this manager.
func (m *Manager) Func(root z.Lit) *Func {
	return &Func{m: m, root: root}
}

// isConst reports whether v is the constant variable.
func (m *Manager) isConst(v z.Var) bool {
	return v == m.c.T.Var()
}

// leaf reports whether v has no children in the graph.
func (m *Manager) leaf(v z.Var) bool {
	if m.isConst(v) {
		return true
	}
	_, ok := m.slotOf[v]
	return ok
}

// Func is a single function of the shared graph.
type Func struct {
	m    *Manager
	root z.Lit
}

// varMasks holds the truth tables of the six slot variables.
var varMasks = [MaxArity]uint64{
	0xAAAAAAAAAAAAAAAA,
	0xCCCCCCCCCCCCCCCC,
	0xF0F0F0F0F0F0F0F0,
	0xFF00FF00FF00FF00,
	0xFFFF0000FFFF0000,
	0xFFFFFFFF00000000,
}

// Truth evaluates the cone of the root over 64 assignments at once.
func (f *Func) Truth(arity int) (uint64, error) {
	if arity < 0 || arity > MaxArity {
		return 0, fmt.Errorf("%w: %d inputs (max %d)", ErrArity, arity, MaxArity)
	}
	m := f.m
	memo := make(map[z.Var]uint64)
	var eval func(lit z.Lit) (uint64, error)
	eval = func(lit z.Lit) (uint64, error) {
		v := lit.Var()
		w, ok := memo[v]
		if !ok {
			switch slot, isSlot := m.slotOf[v]; {
			case m.isConst(v):
				w = 0
				if m.c.T.IsPos() {
					w = ^uint64(0)
				}
			case isSlot:
				if slot >= arity {
					return 0, fmt.Errorf("%w: slot %d with %d inputs", ErrUnbound, slot, arity)
				}
				w = varMasks[slot]
			default:
				a, b := m.c.Ins(v.Pos())
				wa, err := eval(a)
				if err != nil {
					return 0, err
				}
				wb, err := eval(b)
				if err != nil {
					return 0, err
				}
				w = wa & wb
			}
			memo[v] = w
		}
		if !lit.IsPos() {
			w = ^w
		}
		return w, nil
	}
	t, err := eval(f.root)
	if err != nil {
		return 0, err
	}
	if arity < MaxArity {
		t &= uint64(1)<<(uint(1)<<uint(arity)) - 1
	}
	return t, nil
}
