package stability

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gravdam/internal/geometry"
	"github.com/alexiusacademia/gravdam/internal/loads"
	"github.com/alexiusacademia/gravdam/internal/units"
)

// Evaluation is the result of one statics pass over a set of inputs.
type Evaluation struct {
	Intermediate

	SafetyFactorSliding     *float64
	SafetyFactorOverturning float64

	Steps      []Step
	Conditions []Condition
}

// Evaluate runs the statics pipeline on in and records the derivation trace.
// It fails when the geometry cannot be built (unsupported profile or a
// missing dimension) and with ErrNonFiniteResult when the inputs are so
// large that a quantity overflows. Division by a zero reaction or moment is
// reported through Conditions, never as NaN or Inf.
func Evaluate(in Inputs) (Evaluation, error) {
	ev, err := compute(in)
	if err != nil {
		return Evaluation{}, err
	}
	if err := ev.checkFinite(); err != nil {
		return Evaluation{}, err
	}
	ev.Steps = describe(in, ev)
	return ev, nil
}

func (ev Evaluation) checkFinite() error {
	values := []numericInput{
		{"volume", ev.Volume},
		{"self weight", ev.SelfWeight},
		{"uplift force", ev.UpliftForce},
		{"pressure force", ev.PressureForce},
		{"vertical reaction", ev.VerticalReaction},
		{"righting moment", ev.RightingMoment},
		{"overturning moment", ev.OverturningMoment},
		{"overturning safety factor", ev.SafetyFactorOverturning},
	}
	if ev.SafetyFactorSliding != nil {
		values = append(values, numericInput{"sliding safety factor", *ev.SafetyFactorSliding})
	}
	if ev.LocationOfResultant != nil {
		values = append(values, numericInput{"location of resultant", *ev.LocationOfResultant})
	}
	for _, v := range values {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return fmt.Errorf("%w: %s = %v", ErrNonFiniteResult, v.field, v.value)
		}
	}
	return nil
}

// waterWeightDensity returns the water density as a weight density.
// An unrecognised unit passes the value through unchanged.
func waterWeightDensity(in Inputs) (float64, error) {
	from := in.WaterDensityUnit
	if from == "" {
		from = units.KilonewtonPerCubicMeter
	}
	return units.ConvertDensity(in.WaterDensity, from, units.KilonewtonPerCubicMeter)
}

// compute is Evaluate without the trace; the solver calls it in its loop.
func compute(in Inputs) (Evaluation, error) {
	var ev Evaluation

	volume, err := geometry.Volume(in.Profile, in.BaseWidth, in.Height, in.CrestWidth)
	if err != nil {
		return ev, err
	}
	cg, err := geometry.CentroidOffset(in.Profile, in.BaseWidth, in.CrestWidth)
	if err != nil {
		return ev, err
	}
	gw, err := waterWeightDensity(in)
	if err != nil {
		ev.Conditions = append(ev.Conditions, ConditionUnsupportedDensityUnit)
	}

	ev.Volume = volume
	ev.SelfWeight = in.ConcreteDensity * volume
	ev.UpliftForce = loads.UpliftForce(in.BaseWidth, in.HeelUplift, in.ToeUplift, gw)
	ev.PressureForce = loads.PressureForce(in.WaterLevel, gw)
	ev.VerticalReaction = ev.SelfWeight - ev.UpliftForce
	ev.HorizontalReaction = ev.PressureForce
	ev.CenterOfGravity = cg
	ev.RightingMoment = ev.SelfWeight * cg
	ev.PressureMoment = ev.PressureForce * loads.PressureArm(in.WaterLevel)
	// Uplift is taken through the self-weight centroid, not the centroid of
	// the heel/toe uplift diagram.
	ev.UpliftMoment = ev.UpliftForce * cg
	ev.OverturningMoment = ev.PressureMoment + ev.UpliftMoment

	if ev.VerticalReaction == 0 {
		ev.Conditions = append(ev.Conditions, ConditionDegenerateReaction)
	} else {
		loc := (ev.RightingMoment - ev.OverturningMoment) / ev.VerticalReaction
		ev.LocationOfResultant = &loc
	}

	if in.FrictionCoefficient != nil && ev.HorizontalReaction != 0 {
		fs := *in.FrictionCoefficient * ev.VerticalReaction / ev.HorizontalReaction
		ev.SafetyFactorSliding = &fs
	} else {
		ev.Conditions = append(ev.Conditions, ConditionSlidingNotApplicable)
	}

	// A zero overturning moment is divided by 1 instead; the factor is then
	// a policy value, flagged as such.
	denominator := ev.OverturningMoment
	if denominator == 0 {
		denominator = 1
		ev.Conditions = append(ev.Conditions, ConditionZeroOverturning)
	}
	ev.SafetyFactorOverturning = ev.RightingMoment / denominator

	return ev, nil
}
