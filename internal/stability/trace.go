package stability

import (
	"fmt"

	"github.com/alexiusacademia/gravdam/internal/geometry"
	"github.com/alexiusacademia/gravdam/internal/loads"
	"github.com/alexiusacademia/gravdam/internal/units"
)

// Step titles, in trace order.
const (
	StepConversion         = "Water density conversion"
	StepNumericalMethod    = "Numerical method"
	StepVolume             = "Volume"
	StepSelfWeight         = "Self-weight"
	StepUplift             = "Hydrostatic uplift"
	StepPressure           = "Hydrostatic pressure"
	StepVerticalReaction   = "Vertical reaction"
	StepHorizontalReaction = "Horizontal reaction"
	StepCenterOfGravity    = "Centre of gravity"
	StepRightingMoment     = "Righting moment"
	StepPressureMoment     = "Pressure moment"
	StepUpliftMoment       = "Uplift moment"
	StepOverturningMoment  = "Overturning moment"
	StepResultant          = "Location of resultant"
	StepSlidingFactor      = "Safety factor against sliding"
	StepOverturningFactor  = "Safety factor against overturning"
)

func f2(v float64) string { return fmt.Sprintf("%.2f", v) }
func f3(v float64) string { return fmt.Sprintf("%.3f", v) }

// describe builds the per-step trace for one evaluation, in fixed order.
func describe(in Inputs, ev Evaluation) []Step {
	L := units.LabelsFor(in.UnitSystem)
	gw, _ := waterWeightDensity(in) // compute has already flagged an unsupported unit
	steps := make([]Step, 0, 14)
	add := func(title, formula string, value float64, unit, explanation string) {
		steps = append(steps, Step{Title: title, Formula: formula, Explanation: explanation, Value: value, Unit: unit})
	}

	// Volume
	switch in.Profile {
	case geometry.Rectangle:
		add(StepVolume, "V = B × H", ev.Volume, L.Area,
			fmt.Sprintf("Area of the rectangular section per unit length: %s × %s = %s %s.",
				f2(in.BaseWidth), f2(in.Height), f2(ev.Volume), L.Area))
	case geometry.Triangle:
		add(StepVolume, "V = B × H / 2", ev.Volume, L.Area,
			fmt.Sprintf("Area of the triangular section per unit length: %s × %s / 2 = %s %s.",
				f2(in.BaseWidth), f2(in.Height), f2(ev.Volume), L.Area))
	default:
		add(StepVolume, "V = (B + C) / 2 × H", ev.Volume, L.Area,
			fmt.Sprintf("Area of the trapezoidal section per unit length: (%s + %s) / 2 × %s = %s %s.",
				f2(in.BaseWidth), f2(*in.CrestWidth), f2(in.Height), f2(ev.Volume), L.Area))
	}

	add(StepSelfWeight, "W = γc × V", ev.SelfWeight, L.Force,
		fmt.Sprintf("Concrete unit weight %s %s acting on %s %s of section gives %s %s.",
			f2(in.ConcreteDensity), L.Density, f2(ev.Volume), L.Area, f2(ev.SelfWeight), L.Force))

	if ev.UpliftForce == 0 {
		add(StepUplift, "U = γw × (h₁ + h₂) / 2 × B", 0, L.Force,
			"No uplift head at the heel or toe, so the uplift force is zero.")
	} else {
		add(StepUplift, "U = γw × (h₁ + h₂) / 2 × B", ev.UpliftForce, L.Force,
			fmt.Sprintf("Linear uplift from %s %s at the heel to %s %s at the toe over a %s %s base: %s × %s = %s %s.",
				f2(in.HeelUplift), L.Length, f2(in.ToeUplift), L.Length, f2(in.BaseWidth), L.Length,
				f2(gw), f2(loads.UpliftArea(in.BaseWidth, in.HeelUplift, in.ToeUplift)), f2(ev.UpliftForce), L.Force))
	}

	add(StepPressure, "P = γw × h² / 2", ev.PressureForce, L.Force,
		fmt.Sprintf("Triangular pressure diagram over %s %s of water with γw = %s %s: %s × %s² / 2 = %s %s.",
			f2(in.WaterLevel), L.Length, f2(gw), L.Density, f2(gw), f2(in.WaterLevel), f2(ev.PressureForce), L.Force))

	add(StepVerticalReaction, "Rv = W − U", ev.VerticalReaction, L.Force,
		fmt.Sprintf("Self-weight less uplift: %s − %s = %s %s.",
			f2(ev.SelfWeight), f2(ev.UpliftForce), f2(ev.VerticalReaction), L.Force))

	add(StepHorizontalReaction, "Rh = P", ev.HorizontalReaction, L.Force,
		fmt.Sprintf("The base resists the full water thrust of %s %s.", f2(ev.PressureForce), L.Force))

	switch in.Profile {
	case geometry.Rectangle:
		add(StepCenterOfGravity, "x̄ = B / 2", ev.CenterOfGravity, L.Length,
			fmt.Sprintf("Centroid of the rectangle, %s / 2 = %s %s from the heel.",
				f2(in.BaseWidth), f2(ev.CenterOfGravity), L.Length))
	case geometry.Triangle:
		add(StepCenterOfGravity, "x̄ = B / 3", ev.CenterOfGravity, L.Length,
			fmt.Sprintf("Centroid of the right triangle, %s / 3 = %s %s from the vertical upstream face.",
				f2(in.BaseWidth), f2(ev.CenterOfGravity), L.Length))
	default:
		add(StepCenterOfGravity, "x̄ = (B + 2C) / 3(B + C) × B", ev.CenterOfGravity, L.Length,
			fmt.Sprintf("Centroid of the trapezoid with B = %s and C = %s: %s %s from the heel.",
				f2(in.BaseWidth), f2(*in.CrestWidth), f2(ev.CenterOfGravity), L.Length))
	}

	add(StepRightingMoment, "Mr = W × x̄", ev.RightingMoment, L.Moment,
		fmt.Sprintf("Self-weight %s %s acting at %s %s: %s %s.",
			f2(ev.SelfWeight), L.Force, f2(ev.CenterOfGravity), L.Length, f2(ev.RightingMoment), L.Moment))

	add(StepPressureMoment, "Mp = P × h / 3", ev.PressureMoment, L.Moment,
		fmt.Sprintf("Water thrust %s %s acting %s %s above the base: %s %s.",
			f2(ev.PressureForce), L.Force, f2(loads.PressureArm(in.WaterLevel)), L.Length, f2(ev.PressureMoment), L.Moment))

	if ev.UpliftForce == 0 {
		add(StepUpliftMoment, "Mu = U × x̄", 0, L.Moment, "No uplift, so no uplift moment.")
	} else {
		add(StepUpliftMoment, "Mu = U × x̄", ev.UpliftMoment, L.Moment,
			fmt.Sprintf("Uplift %s %s taken through the section centroid at %s %s (simplified lever arm): %s %s.",
				f2(ev.UpliftForce), L.Force, f2(ev.CenterOfGravity), L.Length, f2(ev.UpliftMoment), L.Moment))
	}

	add(StepOverturningMoment, "Mo = Mp + Mu", ev.OverturningMoment, L.Moment,
		fmt.Sprintf("%s + %s = %s %s.", f2(ev.PressureMoment), f2(ev.UpliftMoment), f2(ev.OverturningMoment), L.Moment))

	if ev.LocationOfResultant == nil {
		add(StepResultant, "x = (Mr − Mo) / Rv", 0, L.Length,
			"The vertical reaction is zero, so the resultant location is undefined.")
	} else {
		add(StepResultant, "x = (Mr − Mo) / Rv", *ev.LocationOfResultant, L.Length,
			fmt.Sprintf("(%s − %s) / %s = %s %s.",
				f2(ev.RightingMoment), f2(ev.OverturningMoment), f2(ev.VerticalReaction), f2(*ev.LocationOfResultant), L.Length))
	}

	if ev.SafetyFactorSliding != nil {
		add(StepSlidingFactor, "FSs = μ × Rv / Rh", *ev.SafetyFactorSliding, "",
			fmt.Sprintf("Friction %s on a vertical reaction of %s %s against a thrust of %s %s: %s.",
				f3(*in.FrictionCoefficient), f2(ev.VerticalReaction), L.Force, f2(ev.HorizontalReaction), L.Force,
				f2(*ev.SafetyFactorSliding)))
	}

	if ev.OverturningMoment == 0 {
		add(StepOverturningFactor, "FSo = Mr / 1", ev.SafetyFactorOverturning, "",
			"No overturning moment acts; by policy the righting moment is divided by 1.")
	} else {
		add(StepOverturningFactor, "FSo = Mr / Mo", ev.SafetyFactorOverturning, "",
			fmt.Sprintf("%s / %s = %s.", f2(ev.RightingMoment), f2(ev.OverturningMoment), f2(ev.SafetyFactorOverturning)))
	}

	return steps
}

func conversionStep(value, converted float64, from units.DensityUnit) Step {
	return Step{
		Title:   StepConversion,
		Formula: "γw = ρw × g / 1000",
		Explanation: fmt.Sprintf("Water density %s %s converted to unit weight with g = %.2f m/s²: %s %s.",
			f2(value), from, units.Gravity, f3(converted), units.KilonewtonPerCubicMeter),
		Value: converted,
		Unit:  string(units.KilonewtonPerCubicMeter),
	}
}

func methodStep(sol Solution, target float64, L units.Labels) Step {
	unit := L.Length
	if sol.Unknown == FrictionCoefficient {
		unit = ""
	}
	if sol.Method == MethodClosedForm {
		return Step{
			Title:   StepNumericalMethod,
			Formula: "μ = FSs × Rh / Rv",
			Explanation: fmt.Sprintf("Friction coefficient solved in closed form for a sliding safety factor of %s: %s.",
				f2(target), f3(sol.Value)),
			Value: sol.Value,
			Unit:  unit,
		}
	}
	status := "converged"
	if !sol.Converged {
		status = "stopped at the iteration limit"
	}
	return Step{
		Title:   StepNumericalMethod,
		Formula: fmt.Sprintf("bisection on %s, |FSo − %s| < %g", sol.Unknown.Label(), f2(target), SolverTolerance),
		Explanation: fmt.Sprintf("Bisection over [%s, %s] %s %s after %d iterations; %s = %s %s.",
			f2(sol.Lower), f2(sol.Upper), L.Length, status, sol.Iterations, sol.Unknown.Label(), f3(sol.Value), unit),
		Value: sol.Value,
		Unit:  unit,
	}
}
