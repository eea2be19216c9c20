package tlcd

import (
	"fmt"
	"strconv"
	"strings"

	"tlgen/internal/expr"
	"tlgen/internal/network"
	"tlgen/internal/thresh"
)

// gateEncoder turns internal nodes into gate lines. The leveling buffer is
// reused from gate to gate; the substitution table is rebuilt for each one.
type gateEncoder struct {
	ntk    *network.Network
	synth  thresh.Synthesizer
	levels expr.Levels
}

// encode returns the gate line of node id without the trailing newline:
//
//	<name> <w_k> ... <w_1> <threshold> <formula>
func (g *gateEncoder) encode(id int) (string, error) {
	obj := g.ntk.Obj(id)
	name := g.ntk.ObjName(g.ntk.Fanout0(id))
	fail := func(err error) (string, error) {
		return "", &GateError{Gate: name, ID: id, Err: err}
	}
	arity := len(obj.Fanins)

	truth, err := obj.Func.Truth(arity)
	if err != nil {
		return fail(err)
	}
	weights, threshold, err := g.synth.Synthesize(truth, arity)
	if err != nil {
		return fail(err)
	}
	if len(weights) != arity {
		return fail(fmt.Errorf("synthesizer returned %d weights for %d inputs", len(weights), arity))
	}

	names := make([]string, arity)
	for k, fanin := range obj.Fanins {
		names[k] = g.ntk.ObjName(fanin)
	}
	formula, err := obj.Func.Formula(names, &g.levels)
	if err != nil {
		return fail(err)
	}

	var b strings.Builder
	b.WriteString(name)
	for j := arity - 1; j >= 0; j-- {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(weights[j]))
	}
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(threshold))
	b.WriteByte(' ')
	b.WriteString(formula)
	return b.String(), nil
}
