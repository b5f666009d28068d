package stability

import (
	"fmt"
	"strings"

	"github.com/alexiusacademia/gravdam/internal/geometry"
	"github.com/alexiusacademia/gravdam/internal/units"
)

// Inputs describes one dam cross-section and its loading.
// Lengths, densities and forces share whatever consistent unit set the
// caller chose; UnitSystem only selects display labels.
type Inputs struct {
	Profile geometry.Profile

	// Geometry
	BaseWidth  float64  // B - width of the base, heel to toe
	Height     float64  // H - height of the dam
	WaterLevel float64  // h - upstream water depth above the base
	CrestWidth *float64 // C - crest width, trapezoid only

	// Materials
	ConcreteDensity     float64           // γc - unit weight of concrete
	WaterDensity        float64           // ρw or γw, as tagged by WaterDensityUnit
	WaterDensityUnit    units.DensityUnit // empty means weight density
	FrictionCoefficient *float64          // μ - nil skips the sliding check

	// Uplift heads at the heel and toe of the base
	HeelUplift float64
	ToeUplift  float64

	UnitSystem units.System

	// Solve names the single unknown to back-calculate, or nil.
	Solve *SolveRequest
}

// Unknown is a parameter the solver can back-calculate.
type Unknown int

const (
	WaterLevel Unknown = iota + 1
	BaseWidth
	FrictionCoefficient
)

func (u Unknown) String() string {
	switch u {
	case WaterLevel:
		return "waterLevel"
	case BaseWidth:
		return "baseWidth"
	case FrictionCoefficient:
		return "frictionCoefficient"
	}
	return fmt.Sprintf("unknown(%d)", int(u))
}

// Label is the human-readable name of the parameter.
func (u Unknown) Label() string {
	switch u {
	case WaterLevel:
		return "water level"
	case BaseWidth:
		return "base width"
	case FrictionCoefficient:
		return "friction coefficient"
	}
	return u.String()
}

// ParseUnknown accepts camelCase, kebab-case and snake_case spellings.
func ParseUnknown(s string) (Unknown, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "waterlevel":
		return WaterLevel, nil
	case "basewidth":
		return BaseWidth, nil
	case "frictioncoefficient", "friction":
		return FrictionCoefficient, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, s)
}

// SolveRequest asks for the value of one unknown that yields Target.
// For WaterLevel and BaseWidth the target is the overturning safety factor;
// for FrictionCoefficient it is the sliding safety factor.
type SolveRequest struct {
	Unknown Unknown
	Target  float64
}

// Intermediate holds every quantity derived from Inputs.
// Forces and moments are per unit length of dam.
type Intermediate struct {
	Volume             float64 `json:"volume"`
	SelfWeight         float64 `json:"self_weight"`
	CenterOfGravity    float64 `json:"center_of_gravity"`
	UpliftForce        float64 `json:"hydrostatic_uplift_force"`
	PressureForce      float64 `json:"hydrostatic_pressure_force"`
	VerticalReaction   float64 `json:"vertical_reaction"`
	HorizontalReaction float64 `json:"horizontal_reaction"`
	RightingMoment     float64 `json:"righting_moment"`
	PressureMoment     float64 `json:"pressure_moment"`
	UpliftMoment       float64 `json:"uplift_moment"`
	OverturningMoment  float64 `json:"overturning_moment"`

	// LocationOfResultant is nil when the vertical reaction is zero.
	LocationOfResultant *float64 `json:"location_of_resultant,omitempty"`
}

// Step is one line of the derivation trace.
type Step struct {
	Title       string  `json:"title"`
	Formula     string  `json:"formula"`
	Explanation string  `json:"explanation"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
}

// Condition flags a noteworthy but non-fatal outcome of a calculation.
type Condition string

const (
	ConditionDegenerateReaction     Condition = "degenerate-reaction"
	ConditionSlidingNotApplicable   Condition = "sliding-not-applicable"
	ConditionZeroOverturning        Condition = "zero-overturning"
	ConditionSolverNotConverged     Condition = "solver-not-converged"
	ConditionUnsupportedDensityUnit Condition = "unsupported-density-unit"
)

// Describe returns a sentence suitable for a warning line.
func (c Condition) Describe() string {
	switch c {
	case ConditionDegenerateReaction:
		return "vertical reaction is zero; location of resultant is undefined"
	case ConditionSlidingNotApplicable:
		return "sliding safety factor not evaluated (no friction coefficient or no water load)"
	case ConditionZeroOverturning:
		return "overturning moment is zero; safety factor uses a unit denominator by policy"
	case ConditionSolverNotConverged:
		return "solver did not reach the 0.001 tolerance; best approximation returned"
	case ConditionUnsupportedDensityUnit:
		return "water density unit not recognised; value used as a weight density without conversion"
	}
	return string(c)
}

// SolvedParameter records the outcome of a solve-for run.
type SolvedParameter struct {
	Name       string    `json:"name"`
	Value      float64   `json:"value"`
	Target     float64   `json:"target_safety_factor"`
	Method     string    `json:"method"`
	Iterations int       `json:"iterations"`
	Converged  bool      `json:"converged"`
	History    []float64 `json:"history,omitempty"`
}

// Results is the public output of CalculateStability.
type Results struct {
	Intermediate

	// SafetyFactorSliding is nil when sliding was not evaluated.
	SafetyFactorSliding     *float64 `json:"safety_factor_sliding,omitempty"`
	SafetyFactorOverturning float64  `json:"safety_factor_overturning"`

	SlidingRating     Rating `json:"sliding_rating,omitempty"`
	OverturningRating Rating `json:"overturning_rating"`
	WithinMiddleThird bool   `json:"within_middle_third"`

	Steps      []Step           `json:"steps"`
	Solved     *SolvedParameter `json:"solved,omitempty"`
	Conditions []Condition      `json:"conditions,omitempty"`
	Units      units.Labels     `json:"units"`
}

// Has reports whether c was raised.
func (r *Results) Has(c Condition) bool {
	for _, got := range r.Conditions {
		if got == c {
			return true
		}
	}
	return false
}
