// Package network holds a combinational logic netlist: terminals, nets,
// internal gates and (counted only) sequential elements.
//
// Object layout:
//
//	CI    -> net                 a combinational input drives one net
//	nets  -> Node -> net         a gate reads 0..k nets and drives one net
//	net   -> CO                  a combinational output reads one net
//	net   -> Latch -> net        sequential element, excluded from export
//
// Names live in a side table keyed by object id. A network is built once and
// is read-only afterwards.
package network

import (
	"fmt"

	"tlgen/internal/expr"
)

// Kind is the type of a network object.
type Kind int

const (
	KindNone Kind = iota
	KindCI
	KindCO
	KindNet
	KindNode
	KindLatch
)

func (k Kind) String() string {
	switch k {
	case KindCI:
		return "ci"
	case KindCO:
		return "co"
	case KindNet:
		return "net"
	case KindNode:
		return "node"
	case KindLatch:
		return "latch"
	}
	return "none"
}

// Object is a vertex of the netlist.
type Object struct {
	ID      int
	Kind    Kind
	Fanins  []int
	Fanouts []int
	// Func is set on KindNode objects only.
	Func expr.Function
}

// Network is a named netlist.
type Network struct {
	Name string

	objs    []*Object
	cis     []int
	cos     []int
	nodes   []int
	latches []int
	names   map[int]string
	byName  map[string]int
}

// New returns an empty network. Object ids start at 1, matching the usual
// convention of reserving 0 for the constant.
func New(name string) *Network {
	return &Network{
		Name:   name,
		objs:   []*Object{nil},
		names:  make(map[int]string),
		byName: make(map[string]int),
	}
}

func (n *Network) add(kind Kind) *Object {
	o := &Object{ID: len(n.objs), Kind: kind}
	n.objs = append(n.objs, o)
	return o
}

// Net returns the id of the net called name, creating it on first use.
// An empty name always creates a fresh unnamed net.
func (n *Network) Net(name string) int {
	if name != "" {
		if id, ok := n.byName[name]; ok {
			return id
		}
	}
	o := n.add(KindNet)
	if name != "" {
		n.SetName(o.ID, name)
	}
	return o.ID
}

// SetName attaches a display name to an object.
func (n *Network) SetName(id int, name string) {
	if old, ok := n.names[id]; ok {
		delete(n.byName, old)
	}
	n.names[id] = name
	n.byName[name] = id
}

// AddCI creates a combinational input driving net.
func (n *Network) AddCI(net int) (int, error) {
	if err := n.expect(net, KindNet); err != nil {
		return 0, fmt.Errorf("add ci: %w", err)
	}
	o := n.add(KindCI)
	n.connect(o.ID, net)
	n.cis = append(n.cis, o.ID)
	return o.ID, nil
}

// AddCO creates a combinational output reading net.
func (n *Network) AddCO(net int) (int, error) {
	if err := n.expect(net, KindNet); err != nil {
		return 0, fmt.Errorf("add co: %w", err)
	}
	o := n.add(KindCO)
	n.connect(net, o.ID)
	n.cos = append(n.cos, o.ID)
	return o.ID, nil
}

// AddNode creates an internal gate reading fanins (in slot order) and
// driving out. fn is defined over slots 0..len(fanins)-1.
func (n *Network) AddNode(fanins []int, out int, fn expr.Function) (int, error) {
	if fn == nil {
		return 0, fmt.Errorf("add node: nil function")
	}
	for _, f := range fanins {
		if err := n.expect(f, KindNet); err != nil {
			return 0, fmt.Errorf("add node fanin: %w", err)
		}
	}
	if err := n.expect(out, KindNet); err != nil {
		return 0, fmt.Errorf("add node fanout: %w", err)
	}
	o := n.add(KindNode)
	o.Func = fn
	for _, f := range fanins {
		n.connect(f, o.ID)
	}
	n.connect(o.ID, out)
	n.nodes = append(n.nodes, o.ID)
	return o.ID, nil
}

// AddLatch creates a sequential element from in to out.
func (n *Network) AddLatch(in, out int) (int, error) {
	if err := n.expect(in, KindNet); err != nil {
		return 0, fmt.Errorf("add latch input: %w", err)
	}
	if err := n.expect(out, KindNet); err != nil {
		return 0, fmt.Errorf("add latch output: %w", err)
	}
	o := n.add(KindLatch)
	n.connect(in, o.ID)
	n.connect(o.ID, out)
	n.latches = append(n.latches, o.ID)
	return o.ID, nil
}

func (n *Network) connect(from, to int) {
	n.objs[from].Fanouts = append(n.objs[from].Fanouts, to)
	n.objs[to].Fanins = append(n.objs[to].Fanins, from)
}

func (n *Network) expect(id int, kind Kind) error {
	o := n.Obj(id)
	if o == nil {
		return fmt.Errorf("object %d does not exist", id)
	}
	if o.Kind != kind {
		return fmt.Errorf("object %d is a %s, want %s", id, o.Kind, kind)
	}
	return nil
}

// Obj returns the object with id, or nil.
func (n *Network) Obj(id int) *Object {
	if id <= 0 || id >= len(n.objs) {
		return nil
	}
	return n.objs[id]
}

// ObjNumMax returns one past the largest object id.
func (n *Network) ObjNumMax() int { return len(n.objs) }

// Objects returns every object in ascending id order.
func (n *Network) Objects() []*Object { return n.objs[1:] }

// CIs returns combinational input ids in declaration order.
func (n *Network) CIs() []int { return n.cis }

// COs returns combinational output ids in declaration order.
func (n *Network) COs() []int { return n.cos }

// Nodes returns internal gate ids in declaration order.
func (n *Network) Nodes() []int { return n.nodes }

// CINum returns the number of combinational inputs.
func (n *Network) CINum() int { return len(n.cis) }

// CONum returns the number of combinational outputs.
func (n *Network) CONum() int { return len(n.cos) }

// NodeNum returns the number of internal gates.
func (n *Network) NodeNum() int { return len(n.nodes) }

// LatchNum returns the number of sequential elements.
func (n *Network) LatchNum() int { return len(n.latches) }

// NameByID returns the name attached to id, if any.
func (n *Network) NameByID(id int) (string, bool) {
	name, ok := n.names[id]
	return name, ok
}

// ObjName returns the display name of id: its attached name, or a generated
// "n<id>" for unnamed objects.
func (n *Network) ObjName(id int) string {
	if name, ok := n.names[id]; ok {
		return name
	}
	return fmt.Sprintf("n%d", id)
}

// Fanin0 returns the first fanin of id, or 0.
func (n *Network) Fanin0(id int) int {
	if o := n.Obj(id); o != nil && len(o.Fanins) > 0 {
		return o.Fanins[0]
	}
	return 0
}

// Fanout0 returns the first fanout of id, or 0.
func (n *Network) Fanout0(id int) int {
	if o := n.Obj(id); o != nil && len(o.Fanouts) > 0 {
		return o.Fanouts[0]
	}
	return 0
}
