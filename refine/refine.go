package refine

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/optimize"

	"github.com/katalvlaran/curvex/cost"
	"github.com/katalvlaran/curvex/grid"
)

// Refine polishes a discrete path into a continuous one by minimizing the
// same energy the search used, over every coordinate except those of the
// first two and last two points.
//
// Steps:
//  1. Validate options (unsupported settings first) and inputs.
//  2. Build the objective; free coordinates stay inside the volume with an
//     interior margin.
//  3. Minimize with L-BFGS or Newton. Derivatives are local central finite
//     differences of each energy term. Newton's indefinite Hessians are
//     either shifted by a multiple of the identity (FactorizationIterative)
//     or eigenvalue-modified (FactorizationBKP).
//  4. Keep the seed if the minimizer did not improve on it.
//
// Hitting MaxIterations is reported through Result.Converged, not as an
// error.
func Refine(points []cost.Vec, vol *grid.Volume, scale cost.Scale, reg cost.Regularization, opts ...Option) (*Result, error) {
	// 1) Options and validation
	c := config{opts: DefaultOptions(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(&c)
	}
	o, log := c.opts, c.log
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if vol == nil {
		return nil, fmt.Errorf("%w: nil volume", ErrInvalidInput)
	}
	if err := scale.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: %d points, need at least 2", ErrInvalidInput, len(points))
	}
	for i, p := range points {
		for _, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: point %d is not finite", ErrInvalidInput, i)
			}
		}
	}
	g := vol.Grid()
	if g.Is2D() && reg.Torsion > 0 {
		log.Warn("torsion is not defined on a 2D grid; ignoring torsion penalty",
			zap.Float64("torsion", reg.Torsion))
		reg.Torsion = 0
	}

	// 2) Objective
	began := time.Now()
	model := cost.NewModel(vol, scale, reg)
	ob := newObjective(model, points, [3]int{g.M, g.N, g.O}, o.Margin)
	initial := model.PathCost(points)
	log.Debug("refinement",
		zap.Stringer("method", o.Method),
		zap.Stringer("factorization", o.Factorization),
		zap.Int("points", len(points)),
		zap.Int("variables", ob.dim()),
		zap.Float64("initial_cost", initial))

	res := &Result{
		Points:      append([]cost.Vec(nil), points...),
		Cost:        initial,
		InitialCost: initial,
		Status:      optimize.Success.String(),
		Converged:   true,
	}
	if ob.dim() == 0 {
		res.RunTime = time.Since(began)
		c.observe(o.Method, res)
		return res, nil
	}

	// 3) Minimize
	problem := optimize.Problem{Func: ob.Func, Grad: ob.Grad}
	var method optimize.Method = &optimize.LBFGS{}
	if o.Method == MethodNewton {
		problem.Hess = ob.Hess
		if o.Factorization == FactorizationBKP {
			problem.Hess = (&spectral{hess: ob.Hess}).Hess
		}
		method = &optimize.Newton{}
	}
	settings := &optimize.Settings{
		MajorIterations: o.MaxIterations,
		Converger:       newConverger(o.FunctionTolerance, o.ArgumentTolerance),
	}
	if o.Verbose {
		settings.Recorder = &logRecorder{log: log}
	}
	out, err := optimize.Minimize(problem, ob.start(), settings, method)
	if out == nil {
		return nil, fmt.Errorf("refine: %w", err)
	}
	res.Iterations = out.Stats.MajorIterations
	res.Status = out.Status.String()
	res.Converged = err == nil && converged(out.Status)
	if err != nil {
		log.Debug("minimizer stopped early", zap.Error(err))
	}

	// 4) Keep the better of seed and minimizer.
	pts := ob.points(out.X)
	if final := model.PathCost(pts); final <= initial {
		res.Points, res.Cost = pts, final
	}
	res.RunTime = time.Since(began)
	log.Debug("refinement finished",
		zap.String("status", res.Status),
		zap.Bool("converged", res.Converged),
		zap.Int("iterations", res.Iterations),
		zap.Float64("cost", res.Cost),
		zap.Duration("run_time", res.RunTime))
	c.observe(o.Method, res)

	return res, nil
}

func (c *config) observe(m Method, r *Result) {
	if c.observer != nil {
		c.observer.ObserveRefine(m, r.Status, r.Converged, r.Iterations, r.RunTime)
	}
}

// converged reports whether status is a successful termination.
func converged(s optimize.Status) bool {
	switch s {
	case optimize.Success, optimize.FunctionConvergence, optimize.StepConvergence,
		optimize.GradientThreshold, optimize.FunctionThreshold, optimize.MethodConverge:
		return true
	}

	return false
}
