package graph

import (
	"slices"

	"github.com/matzehuels/pkgcheck/pkg/catalog"
)

// sccFrame is one suspended visit of the iterative Tarjan walk.
type sccFrame struct {
	v    string
	nbs  []Neighbor
	next int
}

// StronglyConnected returns every strongly connected component with more
// than one member, considering only edges of the given kinds. Members of
// each component are sorted, and components are ordered by their smallest
// member. It uses Tarjan's algorithm with an explicit call stack, so long
// require chains cannot exhaust the goroutine stack, and visits nodes in
// name order, so the result is deterministic.
func (g *Graph) StronglyConnected(kinds ...catalog.Kind) [][]string {
	var (
		index   = make(map[string]int, len(g.nodes))
		lowlink = make(map[string]int, len(g.nodes))
		onStack = make(map[string]bool)
		stack   []string
		next    int
		result  [][]string
	)

	push := func(v string, calls []sccFrame) []sccFrame {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true
		return append(calls, sccFrame{v: v, nbs: g.Neighbors(v, kinds...)})
	}

	for _, root := range g.names {
		if _, seen := index[root]; seen {
			continue
		}
		calls := push(root, nil)
		for len(calls) > 0 {
			f := &calls[len(calls)-1]
			if f.next < len(f.nbs) {
				w := f.nbs[f.next].Name
				f.next++
				if _, seen := index[w]; !seen {
					calls = push(w, calls)
				} else if onStack[w] {
					lowlink[f.v] = min(lowlink[f.v], index[w])
				}
				continue
			}

			// Every neighbor of v is done: pop the frame, fold its lowlink
			// into the caller and emit a component if v is its root.
			v := f.v
			calls = calls[:len(calls)-1]
			if len(calls) > 0 {
				parent := calls[len(calls)-1].v
				lowlink[parent] = min(lowlink[parent], lowlink[v])
			}
			if lowlink[v] != index[v] {
				continue
			}
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			if len(scc) > 1 {
				slices.Sort(scc)
				result = append(result, scc)
			}
		}
	}

	slices.SortFunc(result, func(a, b []string) int { return slices.Compare(a, b) })
	return result
}
