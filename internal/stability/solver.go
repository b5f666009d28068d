package stability

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gravdam/internal/geometry"
)

const (
	// SolverTolerance is the absolute tolerance on the safety factor.
	SolverTolerance = 0.001
	// SolverMaxIterations bounds the bisection.
	SolverMaxIterations = 100
	// MinBaseWidth keeps the base-width bracket off a zero-width section.
	MinBaseWidth = 0.1
	// BaseWidthBracketFactor sets the upper base-width bracket as a multiple of height.
	BaseWidthBracketFactor = 10

	MethodBisection  = "bisection"
	MethodClosedForm = "closed form"
)

// Solution is the value found for one unknown.
type Solution struct {
	Unknown    Unknown
	Value      float64
	Method     string
	Iterations int
	Converged  bool

	// Lower and Upper are the initial bisection bracket.
	Lower, Upper float64

	// History is the overturning safety factor at each bisection midpoint.
	History []float64
}

// Solve finds the value of unknown that brings the safety factor to target.
//
// The friction coefficient is solved in closed form against the sliding
// safety factor. Water level and base width are bisected against the
// overturning safety factor. Bisection never fails: if the tolerance is not
// met within SolverMaxIterations, or the target lies outside the bracket,
// the best midpoint seen is returned with Converged set to false.
func Solve(in Inputs, unknown Unknown, target float64) (Solution, error) {
	if !(target > 0) {
		return Solution{}, fmt.Errorf("%w: %v", ErrInvalidTarget, target)
	}

	switch unknown {
	case FrictionCoefficient:
		return solveFriction(in, target)
	case WaterLevel:
		// Raising the water level lowers the safety factor.
		return bisect(in, unknown, target, 0, in.Height, false)
	case BaseWidth:
		// Widening the base raises the safety factor. A trapezoid base never
		// narrows below its crest.
		lo := MinBaseWidth
		if in.Profile == geometry.Trapezoid && in.CrestWidth != nil {
			lo = math.Max(lo, *in.CrestWidth)
		}
		return bisect(in, unknown, target, lo, in.Height*BaseWidthBracketFactor, true)
	}
	return Solution{}, fmt.Errorf("%w: %s", ErrUnknownParameter, unknown)
}

func solveFriction(in Inputs, target float64) (Solution, error) {
	ev, err := compute(in)
	if err != nil {
		return Solution{}, err
	}
	if ev.VerticalReaction == 0 {
		return Solution{}, fmt.Errorf("solving friction coefficient: %w", ErrDegenerateReaction)
	}
	if ev.HorizontalReaction == 0 {
		return Solution{}, fmt.Errorf("solving friction coefficient: %w", ErrNoWaterLoad)
	}
	return Solution{
		Unknown:   FrictionCoefficient,
		Value:     target * ev.HorizontalReaction / ev.VerticalReaction,
		Method:    MethodClosedForm,
		Converged: true,
	}, nil
}

func bisect(in Inputs, unknown Unknown, target, lo, hi float64, increasing bool) (Solution, error) {
	sol := Solution{
		Unknown: unknown,
		Method:  MethodBisection,
		Lower:   lo,
		Upper:   hi,
		History: make([]float64, 0, SolverMaxIterations),
	}
	bestGap := math.Inf(1)

	for iter := 1; iter <= SolverMaxIterations; iter++ {
		mid := (lo + hi) / 2

		ev, err := compute(in.with(unknown, mid))
		if err != nil {
			return Solution{}, err
		}
		fs := ev.SafetyFactorOverturning
		sol.History = append(sol.History, fs)
		sol.Iterations = iter

		gap := math.Abs(fs - target)
		if gap < bestGap {
			bestGap = gap
			sol.Value = mid
		}
		if gap < SolverTolerance {
			sol.Converged = true
			return sol, nil
		}

		// Move the bound that keeps the target inside the bracket.
		if (fs < target) == increasing {
			lo = mid
		} else {
			hi = mid
		}
	}

	return sol, nil
}

// with returns a copy of in with unknown set to v.
func (in Inputs) with(unknown Unknown, v float64) Inputs {
	out := in
	switch unknown {
	case WaterLevel:
		out.WaterLevel = v
	case BaseWidth:
		out.BaseWidth = v
	case FrictionCoefficient:
		out.FrictionCoefficient = &v
	}
	return out
}
