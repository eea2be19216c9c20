// Package eqn reads equation files in the same operator syntax TLCD uses for
// its formulas:
//
//	INORDER = a b c;
//	OUTORDER = y;
//	y = a * !b + c;
//
// Statements end with ';' and may span lines; '#' starts a comment. Each
// equation becomes one gate whose fanins are the distinct signals of its
// right-hand side, in order of first appearance.
package eqn

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-air/gini/z"

	"tlgen/internal/expr"
	"tlgen/internal/network"
)

// Reader implements format.Reader for .eqn files.
type Reader struct{}

func (Reader) Name() string { return "eqn" }

func (Reader) Extensions() []string { return []string{".eqn"} }

// Read parses an equation file and checks the resulting network.
func (Reader) Read(r io.Reader, name string) (*network.Network, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var text strings.Builder
	for _, line := range strings.Split(string(data), "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		text.WriteString(line)
		text.WriteByte('\n')
	}

	ntk := network.New(name)
	m := expr.NewManager()
	stmts := strings.Split(text.String(), ";")
	for i, stmt := range stmts {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if i == len(stmts)-1 {
			return nil, fmt.Errorf("%s: statement %q is missing its ';'", name, stmt)
		}
		if err := statement(ntk, m, stmt); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	if err := ntk.Check(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return ntk, nil
}

func statement(ntk *network.Network, m *expr.Manager, stmt string) error {
	lhs, rhs, ok := strings.Cut(stmt, "=")
	if !ok {
		return fmt.Errorf("statement %q has no '='", stmt)
	}
	lhs = strings.TrimSpace(lhs)
	switch lhs {
	case "INORDER":
		for _, sig := range strings.Fields(rhs) {
			if _, err := ntk.AddCI(ntk.Net(sig)); err != nil {
				return err
			}
		}
		return nil
	case "OUTORDER":
		for _, sig := range strings.Fields(rhs) {
			if _, err := ntk.AddCO(ntk.Net(sig)); err != nil {
				return err
			}
		}
		return nil
	}
	if lhs == "" || strings.IndexFunc(lhs, func(r rune) bool { return r > 0x7f || !expr.IsIdentByte(byte(r)) }) >= 0 {
		return fmt.Errorf("invalid signal name %q", lhs)
	}

	var fanins []int
	slots := make(map[string]int)
	root, err := m.Parse(rhs, func(sig string) (z.Lit, error) {
		slot, ok := slots[sig]
		if !ok {
			slot = len(fanins)
			slots[sig] = slot
			fanins = append(fanins, ntk.Net(sig))
		}
		return m.Var(slot), nil
	})
	if err != nil {
		return fmt.Errorf("equation %s: %w", lhs, err)
	}
	if _, err := ntk.AddNode(fanins, ntk.Net(lhs), m.Func(root)); err != nil {
		return fmt.Errorf("equation %s: %w", lhs, err)
	}
	return nil
}
