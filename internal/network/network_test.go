package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tlgen/internal/expr"
)

// and2 builds y = a * b with named inputs a, b and output y.
func and2(t *testing.T) *Network {
	t.Helper()
	m := expr.NewManager()
	n := New("ex1")
	a, b, y := n.Net("a"), n.Net("b"), n.Net("y")
	_, err := n.AddCI(a)
	require.NoError(t, err)
	_, err = n.AddCI(b)
	require.NoError(t, err)
	_, err = n.AddNode([]int{a, b}, y, m.Func(m.And(m.Var(0), m.Var(1))))
	require.NoError(t, err)
	_, err = n.AddCO(y)
	require.NoError(t, err)
	return n
}

func TestBuildAndQuery(t *testing.T) {
	n := and2(t)
	require.NoError(t, n.Check())

	assert.Equal(t, 2, n.CINum())
	assert.Equal(t, 1, n.CONum())
	assert.Equal(t, 1, n.NodeNum())
	assert.Equal(t, 0, n.LatchNum())

	var ciNames []string
	for _, ci := range n.CIs() {
		ciNames = append(ciNames, n.ObjName(n.Fanout0(ci)))
	}
	assert.Equal(t, []string{"a", "b"}, ciNames)
	assert.Equal(t, "y", n.ObjName(n.Fanin0(n.COs()[0])))

	node := n.Obj(n.Nodes()[0])
	require.NotNil(t, node)
	assert.Equal(t, KindNode, node.Kind)
	assert.Len(t, node.Fanins, 2)
	assert.Equal(t, "y", n.ObjName(n.Fanout0(node.ID)))
}

func TestNetIsSharedByName(t *testing.T) {
	n := New("x")
	assert.Equal(t, n.Net("s"), n.Net("s"))
	assert.NotEqual(t, n.Net(""), n.Net(""))
}

func TestObjNameGenerated(t *testing.T) {
	n := New("x")
	id := n.Net("")
	_, ok := n.NameByID(id)
	assert.False(t, ok)
	assert.Equal(t, "n1", n.ObjName(id))
}

func TestAddRejectsWrongKinds(t *testing.T) {
	n := New("x")
	a := n.Net("a")
	ci, err := n.AddCI(a)
	require.NoError(t, err)

	_, err = n.AddCO(ci)
	assert.Error(t, err)
	_, err = n.AddCI(99)
	assert.Error(t, err)
	_, err = n.AddNode([]int{a}, ci, expr.NewManager().Func(expr.NewManager().Const(true)))
	assert.Error(t, err)
	_, err = n.AddNode([]int{a}, n.Net("y"), nil)
	assert.Error(t, err)
}

func TestCheckUndrivenNet(t *testing.T) {
	n := New("x")
	_, err := n.AddCO(n.Net("floating"))
	require.NoError(t, err)
	err = n.Check()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floating")
}

func TestCheckMultipleDrivers(t *testing.T) {
	n := New("x")
	s := n.Net("s")
	_, _ = n.AddCI(s)
	_, _ = n.AddCI(s)
	assert.ErrorContains(t, n.Check(), "drivers")
}

func TestCheckLoop(t *testing.T) {
	m := expr.NewManager()
	n := New("loop")
	p, q := n.Net("p"), n.Net("q")
	buf := m.Func(m.Var(0))
	_, err := n.AddNode([]int{p}, q, buf)
	require.NoError(t, err)
	_, err = n.AddNode([]int{q}, p, buf)
	require.NoError(t, err)

	err = n.Check()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "combinational loop")
}

func TestCheckLatchBreaksLoop(t *testing.T) {
	m := expr.NewManager()
	n := New("counter")
	d, qn := n.Net("d"), n.Net("q")
	_, err := n.AddNode([]int{qn}, d, m.Func(m.Var(0).Not()))
	require.NoError(t, err)
	_, err = n.AddLatch(d, qn)
	require.NoError(t, err)
	_, err = n.AddCO(qn)
	require.NoError(t, err)

	require.NoError(t, n.Check())
	assert.Equal(t, 1, n.LatchNum())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "node", KindNode.String())
	assert.Equal(t, "none", Kind(42).String())
}
