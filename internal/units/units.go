package units

import (
	"errors"
	"fmt"
	"strings"
)

// Gravity is the standard gravitational acceleration used to move between
// mass density and weight density (m/s²).
const Gravity = 9.81

// DensityUnit identifies how a density value is expressed.
type DensityUnit string

const (
	// KilogramPerCubicMeter is a mass density.
	KilogramPerCubicMeter DensityUnit = "kg/m³"
	// KilonewtonPerCubicMeter is a weight (unit-weight) density.
	KilonewtonPerCubicMeter DensityUnit = "kN/m³"
)

// ErrUnsupportedConversion is returned when a density conversion is asked
// for between units outside the supported pair. The value is passed through
// unchanged in that case.
var ErrUnsupportedConversion = errors.New("unsupported density conversion")

// ParseDensityUnit accepts the display symbol or an ASCII spelling.
func ParseDensityUnit(s string) (DensityUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kg/m³", "kg/m3", "kg_m3", "mass":
		return KilogramPerCubicMeter, nil
	case "kn/m³", "kn/m3", "kn_m3", "weight":
		return KilonewtonPerCubicMeter, nil
	}
	return "", fmt.Errorf("unknown density unit %q", s)
}

// IsWeight reports whether values in u are already weight densities.
func (u DensityUnit) IsWeight() bool {
	return u == KilonewtonPerCubicMeter
}

// ConvertDensity converts value from one density unit to another.
//
// Identical units return value untouched. Any pair other than
// kg/m³ <-> kN/m³ returns value unchanged together with
// ErrUnsupportedConversion so the caller can surface a warning.
func ConvertDensity(value float64, from, to DensityUnit) (float64, error) {
	if from == to {
		return value, nil
	}
	switch {
	case from == KilogramPerCubicMeter && to == KilonewtonPerCubicMeter:
		return value * Gravity / 1000, nil
	case from == KilonewtonPerCubicMeter && to == KilogramPerCubicMeter:
		return value * 1000 / Gravity, nil
	}
	return value, fmt.Errorf("%w: %s -> %s", ErrUnsupportedConversion, from, to)
}
