package stability

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gravdam/internal/geometry"
	"github.com/alexiusacademia/gravdam/internal/units"
)

// Validate performs the presence and range checks a form would do before
// calling CalculateStability. CalculateStability itself does not call it.
func (in Inputs) Validate() error {
	if !in.Profile.Valid() {
		return invalid("profile", geometry.ErrUnsupportedProfile.Error())
	}
	if in.UnitSystem != "" && in.UnitSystem != units.Metric && in.UnitSystem != units.Imperial {
		return invalid("unit_system", fmt.Sprintf("unknown unit system %q", in.UnitSystem))
	}

	if err := in.checkFinite(); err != nil {
		return err
	}

	solving := func(u Unknown) bool { return in.Solve != nil && in.Solve.Unknown == u }

	if in.Height <= 0 {
		return invalid("height", "must be positive")
	}
	if !solving(BaseWidth) && in.BaseWidth <= 0 {
		return invalid("base_width", "must be positive")
	}
	if !solving(WaterLevel) {
		if in.WaterLevel <= 0 {
			return invalid("water_level", "must be positive")
		}
		if in.WaterLevel > in.Height {
			return invalid("water_level", fmt.Sprintf("%.3f exceeds dam height %.3f", in.WaterLevel, in.Height))
		}
	}

	if in.Profile == geometry.Trapezoid {
		if in.CrestWidth == nil {
			return invalid("crest_width", "required for a trapezoid profile")
		}
		if *in.CrestWidth <= 0 {
			return invalid("crest_width", "must be positive")
		}
		if !solving(BaseWidth) && *in.CrestWidth > in.BaseWidth {
			return invalid("crest_width", "must not exceed the base width")
		}
	}

	if in.ConcreteDensity <= 0 {
		return invalid("concrete_density", "must be positive")
	}
	if in.WaterDensity <= 0 {
		return invalid("water_density", "must be positive")
	}
	if in.FrictionCoefficient != nil && !solving(FrictionCoefficient) && *in.FrictionCoefficient <= 0 {
		return invalid("friction_coefficient", "must be positive")
	}
	if in.HeelUplift < 0 || in.ToeUplift < 0 {
		return invalid("uplift", "heads must not be negative")
	}

	if in.Solve != nil {
		switch in.Solve.Unknown {
		case WaterLevel, BaseWidth, FrictionCoefficient:
		default:
			return invalid("solve_for", ErrUnknownParameter.Error())
		}
		if in.Solve.Target <= 0 {
			return invalid("target_safety_factor", ErrInvalidTarget.Error())
		}
	}
	return nil
}

type numericInput struct {
	field string
	value float64
}

// checkFinite rejects NaN and ±Inf in every numeric input. The range checks
// in Validate compare with < and >, which are always false for NaN.
func (in Inputs) checkFinite() error {
	values := []numericInput{
		{"base_width", in.BaseWidth},
		{"height", in.Height},
		{"water_level", in.WaterLevel},
		{"concrete_density", in.ConcreteDensity},
		{"water_density", in.WaterDensity},
		{"uplift", in.HeelUplift},
		{"uplift", in.ToeUplift},
	}
	if in.CrestWidth != nil {
		values = append(values, numericInput{"crest_width", *in.CrestWidth})
	}
	if in.FrictionCoefficient != nil {
		values = append(values, numericInput{"friction_coefficient", *in.FrictionCoefficient})
	}
	if in.Solve != nil {
		values = append(values, numericInput{"target_safety_factor", in.Solve.Target})
	}

	for _, v := range values {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return invalid(v.field, "must be a finite number")
		}
	}
	return nil
}
