package refine

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// converger stops on either a small relative change of the objective or a
// small step between major iterations.
type converger struct {
	ftol, xtol float64
	prevF      float64
	prevX      []float64
	started    bool
}

func newConverger(ftol, xtol float64) *converger {
	return &converger{ftol: ftol, xtol: xtol}
}

// Init implements optimize.Converger.
func (c *converger) Init(dim int) {
	c.prevX = make([]float64, dim)
	c.started = false
}

// Converged implements optimize.Converger.
func (c *converger) Converged(loc *optimize.Location) optimize.Status {
	if !c.started {
		c.started = true
		c.prevF = loc.F
		copy(c.prevX, loc.X)
		return optimize.NotTerminated
	}
	df := math.Abs(c.prevF - loc.F)
	dx := floats.Distance(loc.X, c.prevX, 2)
	c.prevF = loc.F
	copy(c.prevX, loc.X)

	if df <= c.ftol*math.Abs(loc.F) {
		return optimize.FunctionConvergence
	}
	if dx <= c.xtol*(floats.Norm(loc.X, 2)+c.xtol) {
		return optimize.StepConvergence
	}

	return optimize.NotTerminated
}

// logRecorder writes every major iteration at Debug.
type logRecorder struct {
	log *zap.Logger
}

// Init implements optimize.Recorder.
func (r *logRecorder) Init() error { return nil }

// Record implements optimize.Recorder.
func (r *logRecorder) Record(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
	if op != optimize.MajorIteration {
		return nil
	}
	r.log.Debug("refinement iteration",
		zap.Int("iteration", stats.MajorIterations),
		zap.Float64("f", loc.F),
		zap.Int("func_evaluations", stats.FuncEvaluations))

	return nil
}
