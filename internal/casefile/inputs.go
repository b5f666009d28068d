package casefile

import (
	"github.com/alexiusacademia/gravdam/internal/geometry"
	"github.com/alexiusacademia/gravdam/internal/stability"
	"github.com/alexiusacademia/gravdam/internal/units"
)

// Inputs converts the case to engine inputs, filling omitted material
// properties from d, and validates the result.
func (c *Case) Inputs(d units.Defaults) (stability.Inputs, error) {
	var in stability.Inputs

	profile, err := geometry.ParseProfile(c.Profile)
	if err != nil {
		return in, stability.NewValidationError("profile", err.Error())
	}
	system, err := units.ParseSystem(c.UnitSystem)
	if err != nil {
		return in, stability.NewValidationError("unit_system", err.Error())
	}

	in.Profile = profile
	in.UnitSystem = system
	in.Height = c.Height
	in.CrestWidth = c.CrestWidth
	in.HeelUplift = c.HeelUplift
	in.ToeUplift = c.ToeUplift
	if c.BaseWidth != nil {
		in.BaseWidth = *c.BaseWidth
	}
	if c.WaterLevel != nil {
		in.WaterLevel = *c.WaterLevel
	}

	in.WaterDensityUnit = units.KilonewtonPerCubicMeter
	if c.WaterDensityUnit != "" {
		u, err := units.ParseDensityUnit(c.WaterDensityUnit)
		if err != nil {
			return in, stability.NewValidationError("water_density_unit", err.Error())
		}
		if system == units.Imperial && !u.IsWeight() {
			return in, stability.NewValidationError("water_density_unit", "imperial cases take water density as a unit weight")
		}
		in.WaterDensityUnit = u
	}

	in.ConcreteDensity = d.ConcreteDensity(system)
	if c.ConcreteDensity != nil {
		in.ConcreteDensity = *c.ConcreteDensity
	}
	in.WaterDensity = d.WaterDensity(system, in.WaterDensityUnit)
	if c.WaterDensity != nil {
		in.WaterDensity = *c.WaterDensity
	}

	if c.SolveFor != "" {
		unknown, err := stability.ParseUnknown(c.SolveFor)
		if err != nil {
			return in, stability.NewValidationError("solve_for", err.Error())
		}
		in.Solve = &stability.SolveRequest{Unknown: unknown, Target: c.TargetSafetyFactor}
	}

	switch {
	case in.Solve != nil && in.Solve.Unknown == stability.FrictionCoefficient:
	case c.FrictionCoefficient != nil:
		mu := *c.FrictionCoefficient
		in.FrictionCoefficient = &mu
	case !c.SkipSliding:
		mu := d.Friction
		in.FrictionCoefficient = &mu
	}

	if err := in.Validate(); err != nil {
		return in, err
	}
	return in, nil
}

// FromInputs is the inverse of Inputs, used to write the final (solved)
// inputs back out.
func FromInputs(name string, in stability.Inputs) *Case {
	b, h := in.BaseWidth, in.WaterLevel
	gc, gw := in.ConcreteDensity, in.WaterDensity
	c := &Case{
		Name:                name,
		Profile:             in.Profile.String(),
		UnitSystem:          string(in.UnitSystem),
		BaseWidth:           &b,
		Height:              in.Height,
		WaterLevel:          &h,
		CrestWidth:          in.CrestWidth,
		ConcreteDensity:     &gc,
		WaterDensity:        &gw,
		WaterDensityUnit:    string(in.WaterDensityUnit),
		FrictionCoefficient: in.FrictionCoefficient,
		SkipSliding:         in.FrictionCoefficient == nil,
		HeelUplift:          in.HeelUplift,
		ToeUplift:           in.ToeUplift,
	}
	if in.Solve != nil {
		c.SolveFor = in.Solve.Unknown.String()
		c.TargetSafetyFactor = in.Solve.Target
	}
	return c
}
