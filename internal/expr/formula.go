package expr

import (
	"fmt"
	"strings"

	"github.com/go-air/gini/z"
)

// Levels is the scratch buffer used while printing a formula: one operand
// list per nesting level. It is owned by the caller and may be reused across
// calls; Formula resets it on entry.
type Levels struct {
	levels [][]z.Lit
}

// Reset empties every level while keeping the allocated storage.
func (l *Levels) Reset() {
	for i := range l.levels {
		l.levels[i] = l.levels[i][:0]
	}
}

// Depth returns the number of levels allocated so far.
func (l *Levels) Depth() int { return len(l.levels) }

func (l *Levels) at(level int) []z.Lit {
	for len(l.levels) <= level {
		l.levels = append(l.levels, nil)
	}
	return l.levels[level][:0]
}

// Formula prints the function using the substitution table names.
//
// Operands of an and-supergate are joined by " * "; a complemented
// supergate is printed through De Morgan with " + ". Nested supergates are
// parenthesized, the top level is not.
func (f *Func) Formula(names []string, levels *Levels) (string, error) {
	if levels == nil {
		levels = &Levels{}
	}
	levels.Reset()
	var b strings.Builder
	if err := f.m.print(&b, f.root, names, levels, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (m *Manager) print(b *strings.Builder, lit z.Lit, names []string, lv *Levels, level int) error {
	compl := !lit.IsPos()
	v := lit.Var()
	if m.isConst(v) {
		if lit == m.c.T {
			b.WriteString("1")
		} else {
			b.WriteString("0")
		}
		return nil
	}
	if slot, ok := m.slotOf[v]; ok {
		if slot >= len(names) {
			return fmt.Errorf("%w: slot %d with %d names", ErrUnbound, slot, len(names))
		}
		if compl {
			b.WriteByte('!')
		}
		b.WriteString(names[slot])
		return nil
	}

	root := v.Pos()
	ops := m.collect(root, root, lv.at(level))
	lv.levels[level] = ops

	sep := " * "
	if compl {
		sep = " + "
	}
	if level > 0 {
		b.WriteByte('(')
	}
	for i, op := range ops {
		if compl {
			op = op.Not()
		}
		if err := m.print(b, op, names, lv, level+1); err != nil {
			return err
		}
		if i < len(ops)-1 {
			b.WriteString(sep)
		}
	}
	if level > 0 {
		b.WriteByte(')')
	}
	return nil
}

// collect gathers the operands of the and-supergate rooted at root: children
// are expanded while they are uncomplemented and-nodes.
func (m *Manager) collect(root, lit z.Lit, dst []z.Lit) []z.Lit {
	if lit != root && (!lit.IsPos() || m.leaf(lit.Var())) {
		for _, x := range dst {
			if x == lit {
				return dst
			}
		}
		return append(dst, lit)
	}
	a, b := m.c.Ins(lit)
	dst = m.collect(root, a, dst)
	return m.collect(root, b, dst)
}
