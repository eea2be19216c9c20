package network

import (
	"fmt"
	"strings"
)

// Check verifies the structural invariants of the netlist: terminals and
// gates have the expected number of connections, every net has at most one
// driver, every net that is read is driven, and the combinational part has
// no loops. Latches break loops.
func (n *Network) Check() error {
	for _, o := range n.Objects() {
		switch o.Kind {
		case KindCI:
			if len(o.Fanouts) != 1 {
				return fmt.Errorf("ci %s drives %d nets, want 1", n.ObjName(o.ID), len(o.Fanouts))
			}
		case KindCO:
			if len(o.Fanins) != 1 {
				return fmt.Errorf("co %d reads %d nets, want 1", o.ID, len(o.Fanins))
			}
		case KindNode:
			if len(o.Fanouts) != 1 {
				return fmt.Errorf("node %d drives %d nets, want 1", o.ID, len(o.Fanouts))
			}
		case KindLatch:
			if len(o.Fanins) != 1 || len(o.Fanouts) != 1 {
				return fmt.Errorf("latch %d must have one input and one output", o.ID)
			}
		case KindNet:
			if len(o.Fanins) > 1 {
				return fmt.Errorf("net %s has %d drivers", n.ObjName(o.ID), len(o.Fanins))
			}
			if len(o.Fanins) == 0 && len(o.Fanouts) > 0 {
				return fmt.Errorf("net %s is used but never driven", n.ObjName(o.ID))
			}
		}
	}
	if cycle := n.findLoop(); cycle != "" {
		return fmt.Errorf("combinational loop: %s", cycle)
	}
	return nil
}

// findLoop performs DFS over gates (node -> net -> node) and returns the
// first loop found as "a → b → a" using net names, or "".
func (n *Network) findLoop() string {
	// 0=white (unvisited), 1=gray (in stack), 2=black (done).
	color := make(map[int]int)
	var path []int
	var found string

	var dfs func(node int)
	dfs = func(node int) {
		if found != "" || color[node] == 2 {
			return
		}
		if color[node] == 1 {
			for i, id := range path {
				if id == node {
					names := make([]string, 0, len(path)-i+1)
					for _, p := range append(path[i:], node) {
						names = append(names, n.ObjName(n.Fanout0(p)))
					}
					found = strings.Join(names, " → ")
					return
				}
			}
			return
		}
		color[node] = 1
		path = append(path, node)
		for _, net := range n.objs[node].Fanouts {
			for _, reader := range n.objs[net].Fanouts {
				if n.objs[reader].Kind == KindNode {
					dfs(reader)
				}
			}
		}
		path = path[:len(path)-1]
		color[node] = 2
	}

	for _, id := range n.nodes {
		if color[id] == 0 {
			dfs(id)
		}
	}
	return found
}
