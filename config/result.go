package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/curvex/cost"
	"github.com/katalvlaran/curvex/extract"
	"github.com/katalvlaran/curvex/grid"
	"github.com/katalvlaran/curvex/refine"
)

// Result is the YAML document written after a run. Its path (or refined
// points, when present) can be read back by LoadPath.
type Result struct {
	Mode           string         `yaml:"mode,omitempty"`
	Connectivity   int            `yaml:"connectivity,omitempty"`
	Cost           float64        `yaml:"cost"`
	Evaluations    int            `yaml:"evaluations"`
	RunTimeSeconds float64        `yaml:"run_time_seconds"`
	Path           [][3]int       `yaml:"path,flow"`
	Refined        *RefinedResult `yaml:"refined,omitempty"`
}

// RefinedResult is the refinement part of a Result.
type RefinedResult struct {
	Points         [][3]float64 `yaml:"points,flow"`
	Cost           float64      `yaml:"cost"`
	InitialCost    float64      `yaml:"initial_cost"`
	Iterations     int          `yaml:"iterations"`
	Status         string       `yaml:"status"`
	Converged      bool         `yaml:"converged"`
	RunTimeSeconds float64      `yaml:"run_time_seconds"`
}

// NewResult converts an extraction result.
func NewResult(r *extract.Result) *Result {
	doc := &Result{
		Mode:           r.Mode.String(),
		Connectivity:   r.Connectivity,
		Cost:           r.Cost,
		Evaluations:    r.Evaluations,
		RunTimeSeconds: r.RunTime.Seconds(),
		Path:           make([][3]int, len(r.Path)),
	}
	for i, p := range r.Path {
		doc.Path[i] = [3]int{p.X, p.Y, p.Z}
	}

	return doc
}

// WithRefined attaches a refinement result and returns doc.
func (doc *Result) WithRefined(r *refine.Result) *Result {
	ref := &RefinedResult{
		Points:         make([][3]float64, len(r.Points)),
		Cost:           r.Cost,
		InitialCost:    r.InitialCost,
		Iterations:     r.Iterations,
		Status:         r.Status,
		Converged:      r.Converged,
		RunTimeSeconds: r.RunTime.Seconds(),
	}
	for i, p := range r.Points {
		ref.Points[i] = p
	}
	doc.Refined = ref

	return doc
}

// WriteResult encodes doc as YAML.
func WriteResult(w io.Writer, doc *Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("config: encode result: %w", err)
	}

	return enc.Close()
}

// LoadPath reads a Result document and returns its refined points if any,
// else its discrete path.
func LoadPath(path string) ([]cost.Vec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	return ParsePath(data)
}

// ParsePath is LoadPath on bytes.
func ParsePath(data []byte) ([]cost.Vec, error) {
	var doc Result
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if doc.Refined != nil && len(doc.Refined.Points) > 0 {
		out := make([]cost.Vec, len(doc.Refined.Points))
		for i, p := range doc.Refined.Points {
			out[i] = p
		}
		return out, nil
	}
	if len(doc.Path) == 0 {
		return nil, fmt.Errorf("%w: document has no path", ErrInvalid)
	}
	pts := make([]grid.Point, len(doc.Path))
	for i, c := range doc.Path {
		pts[i] = grid.Point{X: c[0], Y: c[1], Z: c[2]}
	}

	return cost.FromPoints(pts), nil
}
