package geometry

import (
	"errors"
	"math"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestVolume(t *testing.T) {
	tests := []struct {
		name  string
		p     Profile
		b, h  float64
		crest *float64
		want  float64
	}{
		{"rectangle", Rectangle, 10, 8, nil, 80},
		{"triangle", Triangle, 10, 8, nil, 40},
		{"trapezoid", Trapezoid, 10, 8, ptr(4), 56},
		{"rectangle ignores crest", Rectangle, 10, 8, ptr(3), 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Volume(tt.p, tt.b, tt.h, tt.crest)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Volume = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVolumeRelations(t *testing.T) {
	dims := [][2]float64{{1, 1}, {10, 8}, {0.5, 30}, {42, 7.25}}
	for _, d := range dims {
		b, h := d[0], d[1]
		rect, _ := Volume(Rectangle, b, h, nil)
		tri, _ := Volume(Triangle, b, h, nil)
		trapFull, _ := Volume(Trapezoid, b, h, ptr(b))
		trapZero, _ := Volume(Trapezoid, b, h, ptr(0))

		for _, v := range []float64{rect, tri, trapFull} {
			if v <= 0 {
				t.Errorf("b=%v h=%v: volume %v not positive", b, h, v)
			}
		}
		if tri != rect/2 {
			t.Errorf("b=%v h=%v: triangle %v is not half of rectangle %v", b, h, tri, rect)
		}
		if trapFull != rect {
			t.Errorf("b=%v h=%v: trapezoid with crest=base %v != rectangle %v", b, h, trapFull, rect)
		}
		if math.Abs(trapZero-tri) > 1e-12 {
			t.Errorf("b=%v h=%v: trapezoid with zero crest %v != triangle %v", b, h, trapZero, tri)
		}
	}
}

func TestCentroidOffset(t *testing.T) {
	tests := []struct {
		p     Profile
		b     float64
		crest *float64
		want  float64
	}{
		{Rectangle, 10, nil, 5},
		{Triangle, 9, nil, 3},
		{Trapezoid, 10, ptr(10), 5},
		{Trapezoid, 10, ptr(4), (10 + 8) / (3.0 * 14) * 10},
	}
	for _, tt := range tests {
		got, err := CentroidOffset(tt.p, tt.b, tt.crest)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.p, err)
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s: CentroidOffset = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestCentroidWithinBase(t *testing.T) {
	for _, b := range []float64{0.1, 1, 7, 100} {
		for _, c := range []float64{0, 0.05, 1, 7, 100} {
			for _, p := range []Profile{Rectangle, Triangle, Trapezoid} {
				x, err := CentroidOffset(p, b, ptr(c))
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if p == Trapezoid && c > b {
					// crest wider than base overhangs the toe; not a dam shape
					continue
				}
				if x < 0 || x > b {
					t.Errorf("%s b=%v c=%v: centroid %v outside [0, %v]", p, b, c, x, b)
				}
			}
		}
	}
}

// The closed-form centroid must agree with the shoelace centroid of the outline.
func TestCentroidMatchesOutline(t *testing.T) {
	cases := []struct {
		p     Profile
		crest *float64
	}{
		{Rectangle, nil},
		{Triangle, nil},
		{Trapezoid, ptr(3.5)},
	}
	const b, h = 12.0, 20.0
	for _, tc := range cases {
		outline, err := Outline(tc.p, b, h, tc.crest)
		if err != nil {
			t.Fatalf("%s: %v", tc.p, err)
		}
		area, cx, _ := AreaAndCentroid(outline)
		vol, _ := Volume(tc.p, b, h, tc.crest)
		x, _ := CentroidOffset(tc.p, b, tc.crest)
		if math.Abs(area-vol) > 1e-9 {
			t.Errorf("%s: shoelace area %v != volume %v", tc.p, area, vol)
		}
		if math.Abs(cx-x) > 1e-9 {
			t.Errorf("%s: shoelace centroid %v != closed form %v", tc.p, cx, x)
		}
	}
}

func TestTrapezoidWithoutCrest(t *testing.T) {
	_, err := Volume(Trapezoid, 10, 8, nil)
	if !errors.Is(err, ErrMissingDimension) {
		t.Fatalf("Volume: expected ErrMissingDimension, got %v", err)
	}
	var dimErr *DimensionError
	if !errors.As(err, &dimErr) || dimErr.Dimension != "crest width" {
		t.Fatalf("expected *DimensionError for crest width, got %#v", err)
	}
	if _, err := CentroidOffset(Trapezoid, 10, nil); !errors.Is(err, ErrMissingDimension) {
		t.Fatalf("CentroidOffset: expected ErrMissingDimension, got %v", err)
	}
}

func TestUnsupportedProfile(t *testing.T) {
	if _, err := Volume(Profile(0), 1, 1, nil); !errors.Is(err, ErrUnsupportedProfile) {
		t.Errorf("Volume: expected ErrUnsupportedProfile, got %v", err)
	}
	if _, err := ParseProfile("hexagon"); !errors.Is(err, ErrUnsupportedProfile) {
		t.Errorf("ParseProfile: expected ErrUnsupportedProfile, got %v", err)
	}
}

func TestProfileText(t *testing.T) {
	var p Profile
	if err := p.UnmarshalText([]byte("Trapezoidal")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if p != Trapezoid {
		t.Fatalf("got %v", p)
	}
	b, err := p.MarshalText()
	if err != nil || string(b) != "trapezoid" {
		t.Fatalf("MarshalText = %q, %v", b, err)
	}
}

func TestWidthAtHeight(t *testing.T) {
	outline, _ := Outline(Triangle, 10, 10, nil)
	if got := WidthAtHeight(outline, 5); math.Abs(got-5) > 1e-12 {
		t.Errorf("triangle width at mid-height = %v, want 5", got)
	}
	if got := WidthAtHeight(outline, 11); got != 0 {
		t.Errorf("width above crest = %v, want 0", got)
	}
}
