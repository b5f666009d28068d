package casefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is an on-disk case encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// ErrUnknownFormat is returned for a file extension with no decoder.
var ErrUnknownFormat = errors.New("unknown case file format")

// Case is one dam cross-section as written in a case file.
//
// Example (YAML):
//
//	name: Spillway block 4
//	profile: trapezoid
//	base_width: 12
//	height: 15
//	crest_width: 3
//	water_level: 13.5
//	heel_uplift: 13.5
//	solve_for: baseWidth
//	target_safety_factor: 1.5
type Case struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`

	Profile    string `json:"profile" yaml:"profile" toml:"profile"`
	UnitSystem string `json:"unit_system,omitempty" yaml:"unit_system,omitempty" toml:"unit_system,omitempty"`

	// Geometry, in the length unit of UnitSystem
	BaseWidth  *float64 `json:"base_width,omitempty" yaml:"base_width,omitempty" toml:"base_width,omitempty"`
	Height     float64  `json:"height" yaml:"height" toml:"height"`
	WaterLevel *float64 `json:"water_level,omitempty" yaml:"water_level,omitempty" toml:"water_level,omitempty"`
	CrestWidth *float64 `json:"crest_width,omitempty" yaml:"crest_width,omitempty" toml:"crest_width,omitempty"`

	// Materials; omitted values take the configured defaults
	ConcreteDensity     *float64 `json:"concrete_density,omitempty" yaml:"concrete_density,omitempty" toml:"concrete_density,omitempty"`
	WaterDensity        *float64 `json:"water_density,omitempty" yaml:"water_density,omitempty" toml:"water_density,omitempty"`
	WaterDensityUnit    string   `json:"water_density_unit,omitempty" yaml:"water_density_unit,omitempty" toml:"water_density_unit,omitempty"`
	FrictionCoefficient *float64 `json:"friction_coefficient,omitempty" yaml:"friction_coefficient,omitempty" toml:"friction_coefficient,omitempty"`
	SkipSliding         bool     `json:"skip_sliding,omitempty" yaml:"skip_sliding,omitempty" toml:"skip_sliding,omitempty"`

	// Uplift heads at the heel and toe
	HeelUplift float64 `json:"heel_uplift,omitempty" yaml:"heel_uplift,omitempty" toml:"heel_uplift,omitempty"`
	ToeUplift  float64 `json:"toe_uplift,omitempty" yaml:"toe_uplift,omitempty" toml:"toe_uplift,omitempty"`

	// Solve-for mode
	SolveFor           string  `json:"solve_for,omitempty" yaml:"solve_for,omitempty" toml:"solve_for,omitempty"`
	TargetSafetyFactor float64 `json:"target_safety_factor,omitempty" yaml:"target_safety_factor,omitempty" toml:"target_safety_factor,omitempty"`
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Load reads a case file, choosing the decoder by extension.
func Load(path string) (*Case, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if c.Name == "" {
		c.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return c, nil
}

// Decode reads one case in the given format from r.
func Decode(r io.Reader, format Format) (*Case, error) {
	var c Case
	switch format {
	case JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	case TOML:
		md, err := toml.NewDecoder(r).Decode(&c)
		if err != nil {
			return nil, fmt.Errorf("decoding toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("decoding toml: unknown key %q", undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return &c, nil
}

// Encode writes c in the given format.
func Encode(w io.Writer, c *Case, format Format) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	case TOML:
		return toml.NewEncoder(w).Encode(c)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
