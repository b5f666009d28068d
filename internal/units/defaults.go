package units

// Default seeds offered to a user who leaves a material property blank.
// Configuration may override them.

const (
	// ConcreteDensityMetric is the unit weight of mass concrete (kN/m³)
	ConcreteDensityMetric = 23.5
	// ConcreteDensityImperial is 150 pcf expressed in kip/ft³
	ConcreteDensityImperial = 0.150

	// WaterDensityMass is fresh water (kg/m³)
	WaterDensityMass = 1000.0
	// WaterDensityWeight is fresh water (kN/m³)
	WaterDensityWeight = 9.81
	// WaterDensityImperial is 62.4 pcf expressed in kip/ft³
	WaterDensityImperial = 0.0624

	// FrictionCoefficient is a typical concrete-on-rock value
	FrictionCoefficient = 0.7
)

// Defaults groups the seeds so they can be overridden from configuration.
type Defaults struct {
	ConcreteMetric   float64
	ConcreteImperial float64
	WaterMass        float64
	WaterWeight      float64
	WaterImperial    float64
	Friction         float64
}

// StandardDefaults returns the built-in seeds.
func StandardDefaults() Defaults {
	return Defaults{
		ConcreteMetric:   ConcreteDensityMetric,
		ConcreteImperial: ConcreteDensityImperial,
		WaterMass:        WaterDensityMass,
		WaterWeight:      WaterDensityWeight,
		WaterImperial:    WaterDensityImperial,
		Friction:         FrictionCoefficient,
	}
}

// ConcreteDensity returns the default concrete unit weight for s.
func (d Defaults) ConcreteDensity(s System) float64 {
	if s == Imperial {
		return d.ConcreteImperial
	}
	return d.ConcreteMetric
}

// WaterDensity returns the default water density expressed in u.
// Imperial cases are always given in weight units.
func (d Defaults) WaterDensity(s System, u DensityUnit) float64 {
	if s == Imperial {
		return d.WaterImperial
	}
	if u == KilogramPerCubicMeter {
		return d.WaterMass
	}
	return d.WaterWeight
}
