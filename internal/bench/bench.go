// Package bench reads ISCAS-style .bench netlists:
//
//	# comment
//	INPUT(a)
//	OUTPUT(y)
//	n1 = NAND(a, b)
//	q  = DFF(n1)
//	y  = NOT(q)
//
// Supported gates: AND, NAND, OR, NOR, XOR, XNOR, NOT, BUF, BUFF, CONST0,
// CONST1 and DFF. DFF becomes a latch of the resulting network.
package bench

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/go-air/gini/z"

	"tlgen/internal/expr"
	"tlgen/internal/network"
)

// gateRE matches "out = TYPE(in1, in2, ...)" and captures the output name,
// the gate type and the raw argument list.
var gateRE = regexp.MustCompile(`^([^\s=(),]+)\s*=\s*(\w+)\s*\(([^)]*)\)$`)

// inOutRE matches "INPUT(x)" and "OUTPUT(x)".
var inOutRE = regexp.MustCompile(`^(\w+)\s*\(\s*([^\s(),]+)\s*\)$`)

// Reader implements format.Reader for .bench files.
type Reader struct{}

func (Reader) Name() string { return "bench" }

func (Reader) Extensions() []string { return []string{".bench"} }

// Read parses a bench netlist and checks the resulting network.
func (Reader) Read(r io.Reader, name string) (*network.Network, error) {
	p := &parser{
		ntk:   network.New(name),
		m:     expr.NewManager(),
		funcs: make(map[string]*expr.Func),
	}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := p.parseLine(line); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if err := p.ntk.Check(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return p.ntk, nil
}

type parser struct {
	ntk *network.Network
	m   *expr.Manager
	// funcs caches one function per gate type and arity; gates share them.
	funcs map[string]*expr.Func
}

func (p *parser) parseLine(line string) error {
	if match := gateRE.FindStringSubmatch(line); match != nil {
		return p.gate(match[1], strings.ToUpper(match[2]), splitArgs(match[3]))
	}
	if match := inOutRE.FindStringSubmatch(line); match != nil {
		net := p.ntk.Net(match[2])
		switch strings.ToUpper(match[1]) {
		case "INPUT":
			_, err := p.ntk.AddCI(net)
			return err
		case "OUTPUT":
			_, err := p.ntk.AddCO(net)
			return err
		}
		return fmt.Errorf("unknown declaration %q", match[1])
	}
	return fmt.Errorf("cannot parse %q", line)
}

func splitArgs(raw string) []string {
	var args []string
	for _, a := range strings.Split(raw, ",") {
		if a = strings.TrimSpace(a); a != "" {
			args = append(args, a)
		}
	}
	return args
}

func (p *parser) gate(out, kind string, args []string) error {
	fanins := make([]int, len(args))
	for i, a := range args {
		fanins[i] = p.ntk.Net(a)
	}
	outNet := p.ntk.Net(out)

	if kind == "DFF" {
		if len(fanins) != 1 {
			return fmt.Errorf("DFF %s takes 1 input, got %d", out, len(fanins))
		}
		_, err := p.ntk.AddLatch(fanins[0], outNet)
		return err
	}

	fn, err := p.function(kind, len(fanins))
	if err != nil {
		return fmt.Errorf("gate %s: %w", out, err)
	}
	_, err = p.ntk.AddNode(fanins, outNet, fn)
	return err
}

// function returns the shared function of a gate type over k slots.
func (p *parser) function(kind string, k int) (*expr.Func, error) {
	key := fmt.Sprintf("%s/%d", kind, k)
	if fn, ok := p.funcs[key]; ok {
		return fn, nil
	}

	vars := make([]z.Lit, k)
	for i := range vars {
		vars[i] = p.m.Var(i)
	}
	m := p.m
	var root z.Lit
	switch kind {
	case "AND":
		root = m.Ands(vars...)
	case "NAND":
		root = m.Not(m.Ands(vars...))
	case "OR":
		root = m.Ors(vars...)
	case "NOR":
		root = m.Not(m.Ors(vars...))
	case "XOR":
		root = m.Xors(vars...)
	case "XNOR":
		root = m.Not(m.Xors(vars...))
	case "NOT", "BUF", "BUFF":
		if k != 1 {
			return nil, fmt.Errorf("%s takes 1 input, got %d", kind, k)
		}
		root = vars[0]
		if kind == "NOT" {
			root = m.Not(root)
		}
	case "CONST0", "CONST1":
		if k != 0 {
			return nil, fmt.Errorf("%s takes no inputs, got %d", kind, k)
		}
		root = m.Const(kind == "CONST1")
	default:
		return nil, fmt.Errorf("unknown gate type %q", kind)
	}
	if k == 0 && kind != "CONST0" && kind != "CONST1" {
		return nil, fmt.Errorf("%s needs at least one input", kind)
	}

	fn := m.Func(root)
	p.funcs[key] = fn
	return fn, nil
}
