package search_test

import (
	"fmt"

	"github.com/katalvlaran/curvex/search"
)

// line is the implicit chain 0 → 1 → … → n-1 where every step costs 1.
type line int64

func (l line) Expand(id int64, dst []search.Arc) ([]search.Arc, error) {
	if id+1 < int64(l) {
		dst = append(dst, search.Arc{To: id + 1, Cost: 1})
	}

	return dst, nil
}

func (l line) IsTerminal(id int64) bool { return id == int64(l)-1 }

// ExampleShortestPath searches a lazily expanded chain.
func ExampleShortestPath() {
	res, err := search.ShortestPath(line(4), []int64{0})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(res.Path, res.Cost, res.Evaluations)
	// Output: [0 1 2 3] 3 3
}

// ExampleWithMaxQueueSize shows the resource cap failing distinctly from
// exhaustion.
func ExampleWithMaxQueueSize() {
	_, err := search.ShortestPath(line(10), []int64{0}, search.WithMaxQueueSize(3))
	fmt.Println(err)
	// Output: search: maximum queue size exceeded: 3 states
}
