package grid

import "fmt"

// Connectivity is the ordered set of offsets a path may take in one hop.
// The order is significant: it fixes the edge indices used by state ids.
type Connectivity []Offset

// NewConnectivity builds a Connectivity from K (dx,dy,dz) triples.
// Rejects an empty list, the zero offset and duplicates.
func NewConnectivity(offsets [][3]int) (Connectivity, error) {
	if len(offsets) == 0 {
		return nil, ErrEmptyConnectivity
	}
	conn := make(Connectivity, 0, len(offsets))
	seen := make(map[Offset]int, len(offsets))
	for i, t := range offsets {
		o := Offset{DX: t[0], DY: t[1], DZ: t[2]}
		if o.IsZero() {
			return nil, fmt.Errorf("%w: row %d", ErrZeroOffset, i)
		}
		if j, dup := seen[o]; dup {
			return nil, fmt.Errorf("%w: rows %d and %d", ErrDuplicateOffset, j, i)
		}
		seen[o] = i
		conn = append(conn, o)
	}

	return conn, nil
}

// Len is K, the number of offsets.
func (c Connectivity) Len() int { return len(c) }

// IndexOf returns the position of o in the stencil, or -1.
// Complexity: O(K).
func (c Connectivity) IndexOf(o Offset) int {
	for i, x := range c {
		if x == o {
			return i
		}
	}

	return -1
}

// Triples returns the offsets as (dx,dy,dz) rows.
func (c Connectivity) Triples() [][3]int {
	out := make([][3]int, len(c))
	for i, o := range c {
		out[i] = [3]int{o.DX, o.DY, o.DZ}
	}

	return out
}

// Stencil returns a preset connectivity. Offsets are listed in a fixed
// lexicographic (dz, dy, dx) order.
func Stencil(kind StencilKind) (Connectivity, error) {
	var (
		maxAbs, dzMax int
	)
	switch kind {
	case Conn4:
		maxAbs, dzMax = 1, 0
	case Conn8:
		maxAbs, dzMax = 2, 0
	case Conn6:
		maxAbs, dzMax = 1, 1
	case Conn18:
		maxAbs, dzMax = 2, 1
	case Conn26:
		maxAbs, dzMax = 3, 1
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStencil, int(kind))
	}

	// maxAbs bounds the number of non-zero components of an offset.
	var conn Connectivity
	for dz := -dzMax; dz <= dzMax; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				o := Offset{DX: dx, DY: dy, DZ: dz}
				if o.IsZero() {
					continue
				}
				if abs(dx)+abs(dy)+abs(dz) > maxAbs {
					continue
				}
				conn = append(conn, o)
			}
		}
	}

	return conn, nil
}

// ParseStencil maps a preset name ("4", "8", "6", "18", "26") to its kind.
func ParseStencil(name string) (StencilKind, error) {
	switch name {
	case "4":
		return Conn4, nil
	case "8":
		return Conn8, nil
	case "6":
		return Conn6, nil
	case "18":
		return Conn18, nil
	case "26":
		return Conn26, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownStencil, name)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
