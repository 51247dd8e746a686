// Package scc computes strongly connected components with an iterative
// Tarjan traversal.
//
// Nodes are dense integers 0..n-1 so callers can index their own node types
// however they like. The traversal keeps an explicit call stack, so its depth
// is bounded by heap memory rather than the goroutine stack.
package scc

// Components returns the strongly connected components of the graph with
// nodes 0..n-1 whose successors are given by succ.
//
// Components are emitted in Tarjan order: a component is emitted only after
// every component reachable from it. Roots are tried in ascending node order
// and successors in the order succ returns them, so the output is
// deterministic for a deterministic succ.
func Components(n int, succ func(v int) []int) [][]int {
	const unvisited = -1

	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = unvisited
	}

	type frame struct {
		v    int
		succ []int
		next int
	}

	var (
		stack   []int
		calls   []frame
		comps   [][]int
		counter int
	)

	visit := func(v int) {
		index[v], low[v] = counter, counter
		counter++
		stack = append(stack, v)
		onStack[v] = true
		calls = append(calls, frame{v: v, succ: succ(v)})
	}

	for root := range n {
		if index[root] != unvisited {
			continue
		}
		visit(root)

		for len(calls) > 0 {
			f := &calls[len(calls)-1]
			if f.next < len(f.succ) {
				w := f.succ[f.next]
				f.next++
				switch {
				case index[w] == unvisited:
					visit(w)
				case onStack[w]:
					low[f.v] = min(low[f.v], index[w])
				}
				continue
			}

			v := f.v
			calls = calls[:len(calls)-1]
			if len(calls) > 0 {
				parent := calls[len(calls)-1].v
				low[parent] = min(low[parent], low[v])
			}
			if low[v] != index[v] {
				continue
			}

			var comp []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			comps = append(comps, comp)
		}
	}
	return comps
}

// Cyclic reports whether comp describes a cycle: it has more than one node,
// or its single node has an edge to itself.
func Cyclic(comp []int, succ func(v int) []int) bool {
	if len(comp) > 1 {
		return true
	}
	if len(comp) == 0 {
		return false
	}
	v := comp[0]
	for _, w := range succ(v) {
		if w == v {
			return true
		}
	}
	return false
}
