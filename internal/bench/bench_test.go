package bench

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tlgen/internal/network"
)

const ex1 = `# two-input and
INPUT(a)
INPUT(b)
OUTPUT(y)
y = AND(a, b)
`

const seq = `INPUT(en)
OUTPUT(q)
d  = XOR(en, q)
q  = DFF(d)
nq = NOT(q)
`

func read(t *testing.T, src, name string) *network.Network {
	t.Helper()
	n, err := Reader{}.Read(strings.NewReader(src), name)
	require.NoError(t, err)
	return n
}

func TestReadEx1(t *testing.T) {
	n := read(t, ex1, "ex1")
	assert.Equal(t, "ex1", n.Name)
	assert.Equal(t, 2, n.CINum())
	assert.Equal(t, 1, n.CONum())
	assert.Equal(t, 1, n.NodeNum())

	node := n.Obj(n.Nodes()[0])
	truth, err := node.Func.Truth(len(node.Fanins))
	require.NoError(t, err)
	assert.Equal(t, uint64(0b1000), truth)
	assert.Equal(t, "y", n.ObjName(n.Fanout0(node.ID)))
	assert.Equal(t, "a", n.ObjName(node.Fanins[0]))
	assert.Equal(t, "b", n.ObjName(node.Fanins[1]))
}

func TestReadLatchesAndForwardReferences(t *testing.T) {
	n := read(t, seq, "seq")
	assert.Equal(t, 1, n.LatchNum())
	assert.Equal(t, 2, n.NodeNum())
	assert.Equal(t, 1, n.CINum())
}

func TestGateTypes(t *testing.T) {
	tests := []struct {
		gate  string
		arity int
		truth uint64
	}{
		{"AND(a, b)", 2, 0b1000},
		{"NAND(a, b)", 2, 0b0111},
		{"OR(a, b)", 2, 0b1110},
		{"NOR(a, b)", 2, 0b0001},
		{"XOR(a, b)", 2, 0b0110},
		{"XNOR(a, b)", 2, 0b1001},
		{"NOT(a)", 1, 0b01},
		{"BUFF(a)", 1, 0b10},
		{"buf(a)", 1, 0b10},
		{"AND(a, b, c)", 3, 0x80},
		{"CONST1()", 0, 1},
		{"CONST0()", 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.gate, func(t *testing.T) {
			src := "INPUT(a)\nINPUT(b)\nINPUT(c)\nOUTPUT(y)\ny = " + tc.gate + "\n"
			n := read(t, src, "g")
			node := n.Obj(n.Nodes()[0])
			require.Len(t, node.Fanins, tc.arity)
			truth, err := node.Func.Truth(tc.arity)
			require.NoError(t, err)
			assert.Equal(t, tc.truth, truth, "truth %b", truth)
		})
	}
}

func TestGatesShareFunctions(t *testing.T) {
	n := read(t, "INPUT(a)\nINPUT(b)\nOUTPUT(x)\nOUTPUT(y)\nx = AND(a, b)\ny = AND(b, a)\n", "share")
	first := n.Obj(n.Nodes()[0]).Func
	second := n.Obj(n.Nodes()[1]).Func
	assert.Same(t, first, second)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown gate", "INPUT(a)\nOUTPUT(y)\ny = MUX(a)\n", "unknown gate type"},
		{"garbage", "INPUT(a)\nthis is not bench\n", ":2:"},
		{"undriven", "OUTPUT(y)\ny = AND(a, b)\n", "never driven"},
		{"not arity", "INPUT(a)\nINPUT(b)\nOUTPUT(y)\ny = NOT(a, b)\n", "takes 1 input"},
		{"dff arity", "INPUT(a)\nINPUT(b)\nOUTPUT(y)\ny = DFF(a, b)\n", "DFF"},
		{"empty and", "OUTPUT(y)\ny = AND()\n", "at least one input"},
		{"double driver", "INPUT(a)\nOUTPUT(a)\na = NOT(a)\n", "drivers"},
		{"unknown decl", "WIRE(a)\n", "unknown declaration"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Reader{}.Read(strings.NewReader(tc.src), "bad")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestCommentsAndBlankLines(t *testing.T) {
	src := "\n# header\nINPUT(a) # trailing\n\nOUTPUT(y)\ny = NOT(a)  # inverter\n"
	n := read(t, src, "c")
	assert.Equal(t, 1, n.NodeNum())
}
