package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/curvex/cost"
	"github.com/katalvlaran/curvex/extract"
	"github.com/katalvlaran/curvex/grid"
	"github.com/katalvlaran/curvex/refine"
)

// ErrInvalid wraps every decoding or validation failure of a document.
var ErrInvalid = errors.New("config: invalid document")

// problemValidate checks the struct tags of every document type.
var problemValidate = validator.New()

// Problem is the YAML description of one extraction query, optionally
// followed by refinement.
type Problem struct {
	// Dims is (M, N, O); O = 1 for 2D.
	Dims []int `yaml:"dims" validate:"len=3,dive,gt=0"`
	// Mesh holds one label per cell, x fastest.
	Mesh []int `yaml:"mesh" validate:"required,dive,gte=0,lte=3"`
	// Unary holds one data cost per cell, x fastest.
	Unary []float64 `yaml:"unary" validate:"required,dive,gte=0"`
	// Connectivity lists (dx, dy, dz) offsets; Stencil names a preset
	// instead.
	Connectivity [][]int `yaml:"connectivity" validate:"required_without=Stencil,dive,len=3"`
	Stencil      string  `yaml:"stencil" validate:"omitempty,oneof=4 6 8 18 26"`

	VoxelDims      []float64      `yaml:"voxel_dims" validate:"len=3,dive,gt=0"`
	Regularization Regularization `yaml:"regularization"`
	// StartSets and EndSets are lists of point lists; a point has two or
	// three coordinates, z defaulting to 0.
	StartSets [][][]int `yaml:"start_sets" validate:"dive,dive,min=2,max=3"`
	EndSets   [][][]int `yaml:"end_sets" validate:"dive,dive,min=2,max=3"`

	Search  Search  `yaml:"search"`
	Refine  Refine  `yaml:"refine"`
	Verbose bool    `yaml:"verbose"`
}

// Regularization mirrors cost.Regularization.
type Regularization struct {
	Length         float64 `yaml:"length" validate:"gte=0"`
	Curvature      float64 `yaml:"curvature" validate:"gte=0"`
	CurvaturePower float64 `yaml:"curvature_power" validate:"gt=0"`
	Torsion        float64 `yaml:"torsion" validate:"gte=0"`
	TorsionPower   float64 `yaml:"torsion_power" validate:"gt=0"`
	Radius         float64 `yaml:"radius" validate:"gt=0"`
}

// Search holds the search limits.
type Search struct {
	Threads          int  `yaml:"threads" validate:"gte=0"`
	MaxQueueSize     int  `yaml:"max_queue_size" validate:"gt=0"`
	SegmentCacheSize int  `yaml:"segment_cache_size" validate:"gte=0"`
	StoreVisitTime   bool `yaml:"store_visit_time"`
}

// Refine holds the solver settings. Unsupported but recognised values
// parse here and are rejected by package refine.
type Refine struct {
	Method            string  `yaml:"method" validate:"oneof=lbfgs newton nelder-mead"`
	Factorization     string  `yaml:"factorization" validate:"oneof=iterative bkp"`
	Unary             string  `yaml:"unary" validate:"oneof=piecewise trilinear"`
	MaxIterations     int     `yaml:"max_iterations" validate:"gt=0"`
	FunctionTolerance float64 `yaml:"function_tolerance" validate:"gte=0"`
	ArgumentTolerance float64 `yaml:"argument_tolerance" validate:"gte=0"`
	Margin            float64 `yaml:"margin" validate:"gte=0,lt=0.5"`
}

// Default returns a Problem holding every default; Parse decodes on top of
// it so omitted keys keep these values.
func Default() Problem {
	reg := cost.DefaultRegularization()
	ro := refine.DefaultOptions()

	return Problem{
		VoxelDims: []float64{1, 1, 1},
		Regularization: Regularization{
			CurvaturePower: reg.CurvaturePower,
			TorsionPower:   reg.TorsionPower,
			Radius:         reg.Radius,
		},
		Search: Search{
			Threads:      1,
			MaxQueueSize: extract.DefaultMaxQueueSize,
		},
		Refine: Refine{
			Method:            ro.Method.String(),
			Factorization:     ro.Factorization.String(),
			Unary:             ro.Unary.String(),
			MaxIterations:     ro.MaxIterations,
			FunctionTolerance: ro.FunctionTolerance,
			ArgumentTolerance: ro.ArgumentTolerance,
			Margin:            ro.Margin,
		},
	}
}

// Load reads and parses the document at path.
func Load(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes a YAML document over Default and validates it. Unknown
// keys are rejected.
func Parse(data []byte) (*Problem, error) {
	p := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := problemValidate.Struct(&p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return &p, nil
}

// Input returns the flat arrays of the query. A named stencil takes
// precedence over explicit offsets.
func (p *Problem) Input() (extract.Input, error) {
	in := extract.Input{
		Dims:  [3]int{p.Dims[0], p.Dims[1], p.Dims[2]},
		Mesh:  p.Mesh,
		Unary: p.Unary,
	}
	if p.Stencil != "" {
		kind, err := grid.ParseStencil(p.Stencil)
		if err != nil {
			return in, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		conn, err := grid.Stencil(kind)
		if err != nil {
			return in, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		in.Connectivity = conn.Triples()
		return in, nil
	}
	in.Connectivity = make([][3]int, len(p.Connectivity))
	for i, row := range p.Connectivity {
		in.Connectivity[i] = [3]int{row[0], row[1], row[2]}
	}

	return in, nil
}

// Volume returns the unary field as a grid.Volume.
func (p *Problem) Volume() (*grid.Volume, error) {
	g, err := grid.New(p.Dims[0], p.Dims[1], p.Dims[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	vol, err := grid.NewVolume(g, p.Unary)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return vol, nil
}

// Scale returns the voxel dimensions.
func (p *Problem) Scale() cost.Scale {
	return cost.Scale{p.VoxelDims[0], p.VoxelDims[1], p.VoxelDims[2]}
}

// CostRegularization converts the regularization section.
func (p *Problem) CostRegularization() cost.Regularization {
	r := p.Regularization

	return cost.Regularization{
		Length:         r.Length,
		Curvature:      r.Curvature,
		CurvaturePower: r.CurvaturePower,
		Torsion:        r.Torsion,
		TorsionPower:   r.TorsionPower,
		Radius:         r.Radius,
	}
}

// Settings returns the extraction settings.
func (p *Problem) Settings() extract.Settings {
	s := extract.DefaultSettings()
	s.Regularization = p.CostRegularization()
	s.VoxelDims = p.Scale()
	s.StartSets = pointSets(p.StartSets)
	s.EndSets = pointSets(p.EndSets)
	s.Threads = p.Search.Threads
	s.MaxQueueSize = p.Search.MaxQueueSize
	s.SegmentCacheSize = p.Search.SegmentCacheSize
	s.StoreVisitTime = p.Search.StoreVisitTime
	s.Verbose = p.Verbose

	return s
}

func pointSets(sets [][][]int) [][]grid.Point {
	if len(sets) == 0 {
		return nil
	}
	out := make([][]grid.Point, len(sets))
	for i, set := range sets {
		out[i] = make([]grid.Point, len(set))
		for j, c := range set {
			p := grid.Point{X: c[0], Y: c[1]}
			if len(c) == 3 {
				p.Z = c[2]
			}
			out[i][j] = p
		}
	}

	return out
}

// RefineOptions converts the refine section.
func (p *Problem) RefineOptions() (refine.Options, error) {
	o := refine.DefaultOptions()
	var err error
	if o.Method, err = refine.ParseMethod(p.Refine.Method); err != nil {
		return o, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if o.Factorization, err = refine.ParseFactorization(p.Refine.Factorization); err != nil {
		return o, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if o.Unary, err = refine.ParseUnary(p.Refine.Unary); err != nil {
		return o, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	o.MaxIterations = p.Refine.MaxIterations
	o.FunctionTolerance = p.Refine.FunctionTolerance
	o.ArgumentTolerance = p.Refine.ArgumentTolerance
	o.Margin = p.Refine.Margin
	o.Verbose = p.Verbose

	return o, nil
}
