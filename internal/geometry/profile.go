package geometry

import (
	"errors"
	"fmt"
	"strings"
)

// Profile is the cross-section shape of the dam.
// The section is described in a local coordinate system where:
// - X runs downstream from the heel (upstream edge of the base)
// - Y runs upward from the base
// - the upstream face is vertical for every profile
type Profile int

const (
	// Rectangle is a vertical-sided block, crest width equal to base width.
	Rectangle Profile = iota + 1
	// Triangle is a right triangle with the vertical face upstream and the
	// hypotenuse falling to the toe.
	Triangle
	// Trapezoid has a vertical upstream face, a flat crest and a sloping
	// downstream face.
	Trapezoid
)

// ErrUnsupportedProfile is returned for a profile tag outside the closed set.
var ErrUnsupportedProfile = errors.New("unsupported structure profile")

// ErrMissingDimension is matched by DimensionError via errors.Is.
var ErrMissingDimension = errors.New("missing required dimension")

// DimensionError reports a dimension the profile needs but was not given.
type DimensionError struct {
	Profile   Profile
	Dimension string
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s profile: %s: %s", e.Profile, ErrMissingDimension, e.Dimension)
}

func (e *DimensionError) Is(target error) bool {
	return target == ErrMissingDimension
}

func (p Profile) String() string {
	switch p {
	case Rectangle:
		return "rectangle"
	case Triangle:
		return "triangle"
	case Trapezoid:
		return "trapezoid"
	}
	return fmt.Sprintf("profile(%d)", int(p))
}

// Valid reports whether p is one of the three known shapes.
func (p Profile) Valid() bool {
	return p >= Rectangle && p <= Trapezoid
}

// ParseProfile converts a profile name to its tag.
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rectangle", "rectangular":
		return Rectangle, nil
	case "triangle", "triangular":
		return Triangle, nil
	case "trapezoid", "trapezoidal":
		return Trapezoid, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedProfile, s)
}

// MarshalText lets a Profile appear as its name in JSON, YAML and TOML.
func (p Profile) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedProfile, int(p))
	}
	return []byte(p.String()), nil
}

func (p *Profile) UnmarshalText(text []byte) error {
	parsed, err := ParseProfile(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
