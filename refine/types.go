package refine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/curvex/cost"
)

// Sentinel errors for refinement.
var (
	// ErrUnsupported indicates a recognised but unsupported solver setting.
	ErrUnsupported = errors.New("refine: unsupported configuration")
	// ErrInvalidInput indicates bad points, volume or options.
	ErrInvalidInput = errors.New("refine: invalid input")
	// ErrUnknownOption indicates an unrecognised method, factorization or
	// unary model name.
	ErrUnknownOption = errors.New("refine: unknown option value")
)

// Method selects the minimizer.
type Method int

const (
	// MethodLBFGS is limited-memory quasi-Newton.
	MethodLBFGS Method = iota
	// MethodNewton uses the full Hessian.
	MethodNewton
	// MethodNelderMead is derivative-free and not supported.
	MethodNelderMead
)

func (m Method) String() string {
	switch m {
	case MethodLBFGS:
		return "lbfgs"
	case MethodNewton:
		return "newton"
	case MethodNelderMead:
		return "nelder-mead"
	default:
		return "unknown"
	}
}

// ParseMethod accepts "lbfgs", "newton" and "nelder-mead" (case-insensitive).
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "lbfgs", "l-bfgs":
		return MethodLBFGS, nil
	case "newton":
		return MethodNewton, nil
	case "nelder-mead", "neldermead", "nelder_mead":
		return MethodNelderMead, nil
	}

	return 0, fmt.Errorf("%w: method %q", ErrUnknownOption, s)
}

// Factorization selects how Newton copes with an indefinite Hessian.
type Factorization int

const (
	// FactorizationIterative adds a growing multiple of the identity until
	// the Cholesky factorization succeeds.
	FactorizationIterative Factorization = iota
	// FactorizationBKP treats the indefinite Hessian symmetrically: its
	// eigenvalues are replaced by their magnitudes (floored away from zero)
	// before the Newton solve. It only affects MethodNewton.
	FactorizationBKP
)

func (f Factorization) String() string {
	switch f {
	case FactorizationIterative:
		return "iterative"
	case FactorizationBKP:
		return "bkp"
	default:
		return "unknown"
	}
}

// ParseFactorization accepts "iterative" and "bkp".
func ParseFactorization(s string) (Factorization, error) {
	switch strings.ToLower(s) {
	case "iterative":
		return FactorizationIterative, nil
	case "bkp":
		return FactorizationBKP, nil
	}

	return 0, fmt.Errorf("%w: factorization %q", ErrUnknownOption, s)
}

// Unary selects the data-term interpolation.
type Unary int

const (
	// UnaryPiecewiseConstant samples the cell containing each sub-segment.
	UnaryPiecewiseConstant Unary = iota
	// UnaryTrilinear is not supported.
	UnaryTrilinear
)

func (u Unary) String() string {
	switch u {
	case UnaryPiecewiseConstant:
		return "piecewise"
	case UnaryTrilinear:
		return "trilinear"
	default:
		return "unknown"
	}
}

// ParseUnary accepts "piecewise" and "trilinear".
func ParseUnary(s string) (Unary, error) {
	switch strings.ToLower(s) {
	case "piecewise", "piecewise-constant":
		return UnaryPiecewiseConstant, nil
	case "trilinear":
		return UnaryTrilinear, nil
	}

	return 0, fmt.Errorf("%w: unary %q", ErrUnknownOption, s)
}

// Options configures one refinement.
type Options struct {
	Method        Method
	Factorization Factorization
	Unary         Unary
	MaxIterations int
	// FunctionTolerance stops when |Δf| ≤ tol·|f| between iterations.
	FunctionTolerance float64
	// ArgumentTolerance stops when ‖Δx‖ ≤ tol·(‖x‖ + tol).
	ArgumentTolerance float64
	// Margin keeps free coordinates in [Margin, dim-1-Margin].
	Margin  float64
	Verbose bool
}

// DefaultOptions returns L-BFGS, 1000 iterations, 1e-12 tolerances and a
// 0.1 interior margin.
func DefaultOptions() Options {
	return Options{
		Method:            MethodLBFGS,
		Factorization:     FactorizationIterative,
		Unary:             UnaryPiecewiseConstant,
		MaxIterations:     1000,
		FunctionTolerance: 1e-12,
		ArgumentTolerance: 1e-12,
		Margin:            0.1,
	}
}

// Validate rejects unsupported settings first, then bad values.
func (o Options) Validate() error {
	switch {
	case o.Method == MethodNelderMead:
		return fmt.Errorf("%w: Nelder-Mead", ErrUnsupported)
	case o.Unary == UnaryTrilinear:
		return fmt.Errorf("%w: trilinear data term", ErrUnsupported)
	case o.Method != MethodLBFGS && o.Method != MethodNewton:
		return fmt.Errorf("%w: method %d", ErrInvalidInput, int(o.Method))
	case o.Factorization != FactorizationIterative && o.Factorization != FactorizationBKP:
		return fmt.Errorf("%w: factorization %d", ErrInvalidInput, int(o.Factorization))
	case o.Unary != UnaryPiecewiseConstant:
		return fmt.Errorf("%w: unary %d", ErrInvalidInput, int(o.Unary))
	case o.MaxIterations <= 0:
		return fmt.Errorf("%w: max iterations %d", ErrInvalidInput, o.MaxIterations)
	case !(o.FunctionTolerance >= 0) || !(o.ArgumentTolerance >= 0):
		return fmt.Errorf("%w: tolerances must be non-negative", ErrInvalidInput)
	case !(o.Margin >= 0) || o.Margin >= 0.5:
		return fmt.Errorf("%w: margin %g not in [0, 0.5)", ErrInvalidInput, o.Margin)
	}

	return nil
}

// Result is the outcome of one refinement. A run stopped by the iteration
// cap is a valid result with Converged == false.
type Result struct {
	Points      []cost.Vec
	Cost        float64
	InitialCost float64
	Iterations  int
	// Status is the solver's termination reason.
	Status    string
	Converged bool
	RunTime   time.Duration
}

// Observer receives one call per finished refinement.
type Observer interface {
	ObserveRefine(method Method, status string, converged bool, iterations int, elapsed time.Duration)
}

// Option configures Refine.
type Option func(*config)

type config struct {
	opts     Options
	log      *zap.Logger
	observer Observer
}

// WithOptions replaces every solver setting at once.
func WithOptions(o Options) Option {
	return func(c *config) { c.opts = o }
}

// WithMethod selects the minimizer.
func WithMethod(m Method) Option {
	return func(c *config) { c.opts.Method = m }
}

// WithFactorization selects the Newton factorization strategy.
func WithFactorization(f Factorization) Option {
	return func(c *config) { c.opts.Factorization = f }
}

// WithUnary selects the data-term interpolation.
func WithUnary(u Unary) Option {
	return func(c *config) { c.opts.Unary = u }
}

// WithMaxIterations caps major iterations; n must be positive.
func WithMaxIterations(n int) Option {
	if n <= 0 {
		panic(fmt.Sprintf("refine: WithMaxIterations(%d): must be positive", n))
	}

	return func(c *config) { c.opts.MaxIterations = n }
}

// WithTolerances sets the function and argument tolerances.
func WithTolerances(function, argument float64) Option {
	return func(c *config) {
		c.opts.FunctionTolerance = function
		c.opts.ArgumentTolerance = argument
	}
}

// WithLogger sets the logger; nil panics.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("refine: WithLogger(nil)")
	}

	return func(c *config) { c.log = l }
}

// WithObserver registers o to receive the outcome.
func WithObserver(o Observer) Option {
	return func(c *config) { c.observer = o }
}
