package dispatch

// adjacency holds one node's out-edges both as a membership set (for
// dedup) and as an insertion-ordered slice (for deterministic traversal).
type adjacency[C any] struct {
	set      map[*HandlerRecord[C]]bool
	children []*HandlerRecord[C]
}

// orderGraph is an adjacency map over handler identities: edges[u] holds
// "u must run before" in the order those edges were first added. Pointer
// identity stands in for the source's id()-based identity comparisons
// (§4.4). Traversal always walks children in insertion order rather than
// ranging a map, so the result is deterministic across builds given the
// same input.
type orderGraph[C any] map[*HandlerRecord[C]]*adjacency[C]

func newOrderGraph[C any]() orderGraph[C] {
	return make(orderGraph[C])
}

func (g orderGraph[C]) addNode(h *HandlerRecord[C]) {
	if h == nil {
		return
	}
	if _, ok := g[h]; !ok {
		g[h] = &adjacency[C]{set: make(map[*HandlerRecord[C]]bool)}
	}
}

func (g orderGraph[C]) addEdge(u, v *HandlerRecord[C]) {
	if u == nil || v == nil || u == v {
		return
	}
	g.addNode(u)
	g.addNode(v)
	adj := g[u]
	if !adj.set[v] {
		adj.set[v] = true
		adj.children = append(adj.children, v)
	}
}

// reachable reports whether v is reachable from u by following "before"
// edges forward (u ~> v).
func (g orderGraph[C]) reachable(u, v *HandlerRecord[C]) bool {
	if u == v {
		return true
	}
	seen := map[*HandlerRecord[C]]bool{u: true}
	stack := []*HandlerRecord[C]{u}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		adj := g[n]
		if adj == nil {
			continue
		}
		for _, next := range adj.children {
			if next == v {
				return true
			}
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

// sortOrder yields a reverse-post-order DFS topological sort of the
// handlers in insertion order, detecting cycles. Ties among independent
// nodes follow the reverse of the order handlers were first seen (a
// later-seen independent handler sorts earlier), making the result
// deterministic across builds given the same input (§4.4).
func sortOrder[C any](handlers []*HandlerRecord[C], extra [][2]*HandlerRecord[C], defaultHandler *HandlerRecord[C]) ([]*HandlerRecord[C], error) {
	g := newOrderGraph[C]()
	var order []*HandlerRecord[C]
	seenNode := map[*HandlerRecord[C]]bool{}
	record := func(h *HandlerRecord[C]) {
		if h == nil || seenNode[h] {
			return
		}
		seenNode[h] = true
		order = append(order, h)
	}

	for _, h := range handlers {
		record(h)
		g.addNode(h)
		for _, b := range h.Before {
			record(b)
			g.addEdge(h, b)
		}
		for _, a := range h.After {
			record(a)
			g.addEdge(a, h)
		}
	}
	for _, pair := range extra {
		record(pair[0])
		record(pair[1])
		g.addEdge(pair[0], pair[1])
	}

	if defaultHandler != nil {
		record(defaultHandler)
		for _, n := range order {
			if n == defaultHandler {
				continue
			}
			if g.reachable(defaultHandler, n) {
				// n is already transitively constrained to run after the
				// default; adding (n, default) here would be redundant
				// at best and cyclic at worst.
				continue
			}
			g.addEdge(n, defaultHandler)
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[*HandlerRecord[C]]int, len(order))
	var sorted []*HandlerRecord[C]
	var visit func(n *HandlerRecord[C]) error
	visit = func(n *HandlerRecord[C]) error {
		color[n] = gray
		adj := g[n]
		if adj != nil {
			for _, next := range adj.children {
				switch color[next] {
				case white:
					if err := visit(next); err != nil {
						return err
					}
				case gray:
					return ErrCyclicOrder
				}
			}
		}
		color[n] = black
		sorted = append(sorted, n)
		return nil
	}
	for _, n := range order {
		if color[n] == white {
			if err := visit(n); err != nil {
				return nil, err
			}
		}
	}

	// visit appends in post-order (dependents before dependencies get
	// appended after them); reverse to get a valid "before" ordering.
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}
	return sorted, nil
}
