package grid_test

import (
	"fmt"

	"github.com/katalvlaran/curvex/grid"
)

// ExampleGrid_Index shows the x-fastest linearisation and its inverse.
func ExampleGrid_Index() {
	g, _ := grid.New(4, 3, 2)
	p := grid.Point{X: 3, Y: 1, Z: 1}
	idx := g.Index(p)
	fmt.Println(idx, g.Point(idx))
	// Output: 19 (3,1,1)
}

// ExampleStencil lists the planar 8-neighbourhood.
func ExampleStencil() {
	conn, _ := grid.Stencil(grid.Conn8)
	fmt.Println(conn.Len(), conn.Triples()[0], conn.Triples()[7])
	// Output: 8 [-1 -1 0] [1 1 0]
}
