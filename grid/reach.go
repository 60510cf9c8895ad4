package grid

// Reachable reports whether any member of to can be reached from any
// member of from by repeatedly applying conn offsets through traversable
// cells. Source cells themselves must be traversable to seed the search.
//
// A point reached only at the seed does not count: the answer requires at
// least one hop, matching the rule that a path has two or more points.
//
// Behavior:
//  1. Seed a FIFO with every traversable member of from.
//  2. Pop, test each in-bounds traversable neighbour, stop at the first
//     member of to.
//  3. Cells are enqueued at most once.
//
// Time:   O(M·N·O·K).
// Memory: O(M·N·O) for the seen flags and the queue.
func Reachable(m *Mesh, conn Connectivity, from, to *Region) bool {
	g := m.grid
	seen := make([]bool, g.Size())
	queue := make([]int, 0, from.Len())
	for i, ok := range from.in {
		if ok && m.labels[i] != Disallowed {
			seen[i] = true
			queue = append(queue, i)
		}
	}

	for qi := 0; qi < len(queue); qi++ {
		u := g.Point(queue[qi])
		for _, d := range conn {
			v := u.Add(d)
			if !g.InBounds(v) {
				continue
			}
			vi := g.Index(v)
			if m.labels[vi] == Disallowed {
				continue
			}
			if to.in[vi] {
				return true
			}
			if !seen[vi] {
				seen[vi] = true
				queue = append(queue, vi)
			}
		}
	}

	return false
}
