package stability

import (
	"errors"
	"math"
	"testing"

	"github.com/alexiusacademia/gravdam/internal/geometry"
	"github.com/alexiusacademia/gravdam/internal/units"
)

func ptr(v float64) *float64 { return &v }

func approx(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %.6f, want %.6f (±%g)", name, got, want, tol)
	}
}

// referenceDam is a 10 m × 8 m rectangular dam holding 6 m of water.
func referenceDam() Inputs {
	return Inputs{
		Profile:             geometry.Rectangle,
		BaseWidth:           10,
		Height:              8,
		WaterLevel:          6,
		ConcreteDensity:     23.5,
		WaterDensity:        9.81,
		WaterDensityUnit:    units.KilonewtonPerCubicMeter,
		FrictionCoefficient: ptr(0.7),
		UnitSystem:          units.Metric,
	}
}

func TestEvaluateReferenceDam(t *testing.T) {
	ev, err := Evaluate(referenceDam())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	approx(t, "volume", ev.Volume, 80, 1e-9)
	approx(t, "self weight", ev.SelfWeight, 1880, 1e-9)
	approx(t, "pressure force", ev.PressureForce, 176.58, 1e-9)
	approx(t, "vertical reaction", ev.VerticalReaction, 1880, 1e-9)
	approx(t, "horizontal reaction", ev.HorizontalReaction, 176.58, 1e-9)
	approx(t, "centre of gravity", ev.CenterOfGravity, 5, 1e-12)
	approx(t, "righting moment", ev.RightingMoment, 9400, 1e-9)
	approx(t, "pressure moment", ev.PressureMoment, 353.16, 1e-9)
	approx(t, "overturning moment", ev.OverturningMoment, 353.16, 1e-9)

	if ev.SafetyFactorSliding == nil {
		t.Fatal("expected a sliding safety factor")
	}
	approx(t, "FS sliding", *ev.SafetyFactorSliding, 0.7*1880/176.58, 1e-9)
	approx(t, "FS sliding (rounded)", math.Round(*ev.SafetyFactorSliding*100)/100, 7.45, 1e-9)
	approx(t, "FS overturning", ev.SafetyFactorOverturning, 9400/353.16, 1e-9)
	approx(t, "FS overturning (rounded)", math.Round(ev.SafetyFactorOverturning*100)/100, 26.62, 1e-9)

	if ev.LocationOfResultant == nil {
		t.Fatal("expected a resultant location")
	}
	approx(t, "location of resultant", *ev.LocationOfResultant, (9400-353.16)/1880, 1e-9)

	if len(ev.Conditions) != 0 {
		t.Errorf("unexpected conditions: %v", ev.Conditions)
	}
}

func TestEvaluateNoUpliftIsExactlyZero(t *testing.T) {
	ev, err := Evaluate(referenceDam())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ev.UpliftForce != 0 {
		t.Errorf("uplift force = %v, want exactly 0", ev.UpliftForce)
	}
	if ev.UpliftMoment != 0 {
		t.Errorf("uplift moment = %v, want exactly 0", ev.UpliftMoment)
	}
}

func TestEvaluateWithUplift(t *testing.T) {
	in := referenceDam()
	in.HeelUplift = 6
	in.ToeUplift = 0

	ev, err := Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	// U = 9.81 × (6 + 0) / 2 × 10
	approx(t, "uplift force", ev.UpliftForce, 294.3, 1e-9)
	approx(t, "vertical reaction", ev.VerticalReaction, 1880-294.3, 1e-9)
	// uplift acts through the self-weight centroid
	approx(t, "uplift moment", ev.UpliftMoment, 294.3*5, 1e-9)
	approx(t, "overturning moment", ev.OverturningMoment, 353.16+294.3*5, 1e-9)
}

func TestEvaluateTraceOrder(t *testing.T) {
	want := []string{
		StepVolume,
		StepSelfWeight,
		StepUplift,
		StepPressure,
		StepVerticalReaction,
		StepHorizontalReaction,
		StepCenterOfGravity,
		StepRightingMoment,
		StepPressureMoment,
		StepUpliftMoment,
		StepOverturningMoment,
		StepResultant,
		StepSlidingFactor,
		StepOverturningFactor,
	}

	ev, err := Evaluate(referenceDam())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(ev.Steps) != len(want) {
		t.Fatalf("got %d steps, want %d", len(ev.Steps), len(want))
	}
	for i, s := range ev.Steps {
		if s.Title != want[i] {
			t.Errorf("step %d = %q, want %q", i, s.Title, want[i])
		}
		if s.Formula == "" || s.Explanation == "" {
			t.Errorf("step %q has an empty formula or explanation", s.Title)
		}
	}
	if ev.Steps[0].Unit != "m²" || ev.Steps[1].Unit != "kN" || ev.Steps[7].Unit != "kN·m" {
		t.Errorf("unexpected metric units: %q %q %q", ev.Steps[0].Unit, ev.Steps[1].Unit, ev.Steps[7].Unit)
	}
}

func TestEvaluateWithoutFriction(t *testing.T) {
	in := referenceDam()
	in.FrictionCoefficient = nil

	ev, err := Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ev.SafetyFactorSliding != nil {
		t.Errorf("sliding factor should be absent, got %v", *ev.SafetyFactorSliding)
	}
	if len(ev.Steps) != 13 {
		t.Errorf("got %d steps, want 13", len(ev.Steps))
	}
	if !hasCondition(ev.Conditions, ConditionSlidingNotApplicable) {
		t.Errorf("missing %s", ConditionSlidingNotApplicable)
	}
}

func TestEvaluateNoWaterLoad(t *testing.T) {
	in := referenceDam()
	in.WaterLevel = 0

	ev, err := Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ev.SafetyFactorSliding != nil {
		t.Error("sliding factor should be absent with no water load")
	}
	if !hasCondition(ev.Conditions, ConditionZeroOverturning) {
		t.Errorf("missing %s", ConditionZeroOverturning)
	}
	// Mr / 1 by policy
	approx(t, "FS overturning", ev.SafetyFactorOverturning, 9400, 1e-9)
	if math.IsInf(ev.SafetyFactorOverturning, 0) || math.IsNaN(ev.SafetyFactorOverturning) {
		t.Fatal("overturning factor must be finite")
	}
}

func TestEvaluateDegenerateReaction(t *testing.T) {
	in := Inputs{
		Profile:         geometry.Rectangle,
		BaseWidth:       10,
		Height:          8,
		WaterLevel:      6,
		ConcreteDensity: 20,
		WaterDensity:    10,
		HeelUplift:      16,
		ToeUplift:       16,
	}
	ev, err := Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ev.VerticalReaction != 0 {
		t.Fatalf("test setup: vertical reaction = %v, want 0", ev.VerticalReaction)
	}
	if ev.LocationOfResultant != nil {
		t.Errorf("location should be undefined, got %v", *ev.LocationOfResultant)
	}
	if !hasCondition(ev.Conditions, ConditionDegenerateReaction) {
		t.Errorf("missing %s", ConditionDegenerateReaction)
	}
	for _, s := range ev.Steps {
		if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			t.Errorf("step %q carries a non-finite value", s.Title)
		}
	}
}

func TestEvaluateOverturningFactorNonNegative(t *testing.T) {
	for _, p := range []geometry.Profile{geometry.Rectangle, geometry.Triangle, geometry.Trapezoid} {
		for _, b := range []float64{2, 6, 15} {
			for _, h := range []float64{0.5, 4, 8} {
				in := referenceDam()
				in.Profile = p
				in.BaseWidth = b
				in.WaterLevel = h
				in.CrestWidth = ptr(1)
				in.HeelUplift = h / 2
				ev, err := Evaluate(in)
				if err != nil {
					t.Fatalf("Evaluate: %v", err)
				}
				if ev.RightingMoment >= 0 && ev.OverturningMoment >= 0 && ev.SafetyFactorOverturning < 0 {
					t.Errorf("%s b=%v h=%v: negative overturning factor %v", p, b, h, ev.SafetyFactorOverturning)
				}
			}
		}
	}
}

func TestEvaluateImperialLabels(t *testing.T) {
	in := referenceDam()
	in.UnitSystem = units.Imperial
	ev, err := Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ev.Steps[1].Unit != "kip" {
		t.Errorf("self-weight unit = %q, want kip", ev.Steps[1].Unit)
	}
}

func TestEvaluateUnsupportedDensityUnit(t *testing.T) {
	in := referenceDam()
	in.WaterDensityUnit = units.DensityUnit("lb/gal")

	ev, err := Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !hasCondition(ev.Conditions, ConditionUnsupportedDensityUnit) {
		t.Errorf("missing %s", ConditionUnsupportedDensityUnit)
	}
	approx(t, "pressure force", ev.PressureForce, 176.58, 1e-9)
}

func TestEvaluateOverflowIsRejected(t *testing.T) {
	in := referenceDam()
	in.BaseWidth = 1e200
	in.Height = 1e200
	in.WaterLevel = 1e200

	_, err := Evaluate(in)
	if !errors.Is(err, ErrNonFiniteResult) {
		t.Fatalf("got %v, want ErrNonFiniteResult", err)
	}
}

func hasCondition(cs []Condition, c Condition) bool {
	for _, got := range cs {
		if got == c {
			return true
		}
	}
	return false
}
