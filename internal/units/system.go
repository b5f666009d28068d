package units

import (
	"fmt"
	"strings"
)

// System selects display units. It never changes a formula.
type System string

const (
	Metric   System = "metric"
	Imperial System = "imperial"
)

// ParseSystem parses a unit system name. An empty string means Metric.
func ParseSystem(s string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "metric", "si":
		return Metric, nil
	case "imperial", "us":
		return Imperial, nil
	}
	return "", fmt.Errorf("unknown unit system %q", s)
}

// Labels holds the display symbols for one unit system.
// Quantities are per unit length of dam, so a "volume" is an area.
type Labels struct {
	Length  string `json:"length"`
	Area    string `json:"area"`
	Force   string `json:"force"`
	Moment  string `json:"moment"`
	Density string `json:"density"`
}

var metricLabels = Labels{
	Length:  "m",
	Area:    "m²",
	Force:   "kN",
	Moment:  "kN·m",
	Density: "kN/m³",
}

var imperialLabels = Labels{
	Length:  "ft",
	Area:    "ft²",
	Force:   "kip",
	Moment:  "kip·ft",
	Density: "kip/ft³",
}

// LabelsFor returns the display labels for s. Unknown systems fall back to metric.
func LabelsFor(s System) Labels {
	if s == Imperial {
		return imperialLabels
	}
	return metricLabels
}
