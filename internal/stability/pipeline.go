package stability

import (
	"github.com/alexiusacademia/gravdam/internal/units"
)

// CalculateStability runs the full analysis: water density normalisation,
// the optional solve-for step, then statics on the final inputs.
//
// When a solve is requested the returned reactions, moments and safety
// factors are those of the substituted value. Construction errors abort
// the call; no partial Results are returned.
func CalculateStability(in Inputs) (*Results, error) {
	labels := units.LabelsFor(in.UnitSystem)
	res := &Results{Units: labels}

	work := in
	gw, err := waterWeightDensity(in)
	switch {
	case err != nil:
		res.Conditions = append(res.Conditions, ConditionUnsupportedDensityUnit)
	case in.WaterDensityUnit != "" && !in.WaterDensityUnit.IsWeight():
		res.Steps = append(res.Steps, conversionStep(in.WaterDensity, gw, in.WaterDensityUnit))
	}
	work.WaterDensity = gw
	work.WaterDensityUnit = units.KilonewtonPerCubicMeter

	if in.Solve != nil {
		sol, err := Solve(work, in.Solve.Unknown, in.Solve.Target)
		if err != nil {
			return nil, err
		}
		work = work.with(sol.Unknown, sol.Value)

		res.Steps = append(res.Steps, methodStep(sol, in.Solve.Target, labels))
		res.Solved = &SolvedParameter{
			Name:       sol.Unknown.String(),
			Value:      sol.Value,
			Target:     in.Solve.Target,
			Method:     sol.Method,
			Iterations: sol.Iterations,
			Converged:  sol.Converged,
			History:    sol.History,
		}
		if !sol.Converged {
			res.Conditions = append(res.Conditions, ConditionSolverNotConverged)
		}
	}

	ev, err := Evaluate(work)
	if err != nil {
		return nil, err
	}

	res.Intermediate = ev.Intermediate
	res.SafetyFactorSliding = ev.SafetyFactorSliding
	res.SafetyFactorOverturning = ev.SafetyFactorOverturning
	res.Steps = append(res.Steps, ev.Steps...)
	res.Conditions = append(res.Conditions, ev.Conditions...)

	res.OverturningRating = Classify(ev.SafetyFactorOverturning)
	if ev.SafetyFactorSliding != nil {
		res.SlidingRating = Classify(*ev.SafetyFactorSliding)
	}
	if loc := ev.LocationOfResultant; loc != nil {
		b := work.BaseWidth
		res.WithinMiddleThird = *loc >= b/3 && *loc <= 2*b/3
	}

	return res, nil
}

// Final returns in with the solved value substituted, or in unchanged when
// res carries no solve.
func Final(in Inputs, res *Results) Inputs {
	if res == nil || res.Solved == nil || in.Solve == nil {
		return in
	}
	return in.with(in.Solve.Unknown, res.Solved.Value)
}
