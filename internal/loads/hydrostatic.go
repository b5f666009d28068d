// Package loads computes the hydrostatic resultants acting on a dam section.
//
// All densities passed in are weight densities (force per unit volume).
// Forces are per unit length of dam.
package loads

// UpliftArea returns the area of the uplift-head diagram under the base,
// a trapezoid varying linearly from the heel head to the toe head.
func UpliftArea(baseWidth, heelUplift, toeUplift float64) float64 {
	return (heelUplift + toeUplift) / 2 * baseWidth
}

// UpliftForce returns the resultant of the uplift pressure on the base.
// It is exactly zero when both heads are zero.
func UpliftForce(baseWidth, heelUplift, toeUplift, waterWeightDensity float64) float64 {
	if heelUplift == 0 && toeUplift == 0 {
		return 0
	}
	return waterWeightDensity * UpliftArea(baseWidth, heelUplift, toeUplift)
}

// PressureForce returns the resultant of the triangular hydrostatic
// pressure diagram on the upstream face: γw·h²/2.
func PressureForce(waterLevel, waterWeightDensity float64) float64 {
	return waterWeightDensity * waterLevel * waterLevel / 2
}

// PressureArm is the height of the pressure resultant above the base,
// the centroid of the triangular diagram.
func PressureArm(waterLevel float64) float64 {
	return waterLevel / 3
}

// UpliftCentroid returns the distance from the heel to the centroid of the
// uplift diagram. The stability check does not use it (see the uplift moment
// in package stability); diagrams draw it as a reference.
func UpliftCentroid(baseWidth, heelUplift, toeUplift float64) float64 {
	sum := heelUplift + toeUplift
	if sum == 0 {
		return baseWidth / 2
	}
	return baseWidth * (heelUplift + 2*toeUplift) / (3 * sum)
}
