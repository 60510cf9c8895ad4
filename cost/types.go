package cost

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/curvex/grid"
)

// Sentinel errors for cost model configuration.
var (
	// ErrNegativePenalty indicates a regularization weight below zero.
	ErrNegativePenalty = errors.New("cost: penalty must be non-negative")
	// ErrBadPower indicates a non-positive curvature or torsion exponent.
	ErrBadPower = errors.New("cost: power must be positive")
	// ErrBadRadius indicates a non-positive regularization radius.
	ErrBadRadius = errors.New("cost: regularization radius must be positive")
	// ErrBadScale indicates a non-positive voxel dimension.
	ErrBadScale = errors.New("cost: voxel dimensions must be positive")
)

// Vec is a real-valued position in voxel coordinates.
type Vec [3]float64

// FromPoint converts a lattice point to a Vec.
func FromPoint(p grid.Point) Vec {
	return Vec{float64(p.X), float64(p.Y), float64(p.Z)}
}

// FromPoints converts a lattice path.
func FromPoints(ps []grid.Point) []Vec {
	out := make([]Vec, len(ps))
	for i, p := range ps {
		out[i] = FromPoint(p)
	}

	return out
}

// Scale holds the physical size of one voxel along x, y and z.
type Scale [3]float64

// UnitScale is the default isotropic voxel.
func UnitScale() Scale { return Scale{1, 1, 1} }

// Validate returns ErrBadScale if any dimension is not positive.
func (s Scale) Validate() error {
	for i, v := range s {
		if !(v > 0) {
			return fmt.Errorf("%w: axis %d is %g", ErrBadScale, i, v)
		}
	}

	return nil
}

// Regularization holds the geometric weights of the energy.
type Regularization struct {
	Length         float64
	Curvature      float64
	CurvaturePower float64
	Torsion        float64
	TorsionPower   float64
	// Radius is validated to be positive; the estimators do not use it.
	Radius float64
}

// DefaultRegularization returns zero penalties with squared curvature and
// torsion and a unit radius.
func DefaultRegularization() Regularization {
	return Regularization{
		CurvaturePower: 2,
		TorsionPower:   2,
		Radius:         1,
	}
}

// Validate checks signs and exponents.
func (r Regularization) Validate() error {
	switch {
	case r.Length < 0:
		return fmt.Errorf("%w: length %g", ErrNegativePenalty, r.Length)
	case r.Curvature < 0:
		return fmt.Errorf("%w: curvature %g", ErrNegativePenalty, r.Curvature)
	case r.Torsion < 0:
		return fmt.Errorf("%w: torsion %g", ErrNegativePenalty, r.Torsion)
	case r.Curvature > 0 && !(r.CurvaturePower > 0):
		return fmt.Errorf("%w: curvature power %g", ErrBadPower, r.CurvaturePower)
	case r.Torsion > 0 && !(r.TorsionPower > 0):
		return fmt.Errorf("%w: torsion power %g", ErrBadPower, r.TorsionPower)
	case !(r.Radius > 0):
		return fmt.Errorf("%w: %g", ErrBadRadius, r.Radius)
	}

	return nil
}
