package geometry

import (
	"fmt"
	"math"
)

// Point represents a 2D coordinate in the section plane
type Point struct {
	X float64 `json:"x"` // distance downstream from the heel
	Y float64 `json:"y"` // height above the base
}

// crest resolves the crest width a profile needs, failing fast for a
// trapezoid without one.
func crest(p Profile, crestWidth *float64) (float64, error) {
	switch p {
	case Rectangle, Triangle:
		return 0, nil
	case Trapezoid:
		if crestWidth == nil {
			return 0, &DimensionError{Profile: p, Dimension: "crest width"}
		}
		return *crestWidth, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedProfile, p)
}

// Volume returns the cross-sectional area of the dam, i.e. its volume per
// unit length along the axis.
func Volume(p Profile, baseWidth, height float64, crestWidth *float64) (float64, error) {
	c, err := crest(p, crestWidth)
	if err != nil {
		return 0, err
	}

	switch p {
	case Rectangle:
		return baseWidth * height, nil
	case Triangle:
		return baseWidth * height / 2, nil
	default:
		return (baseWidth + c) / 2 * height, nil
	}
}

// CentroidOffset returns the horizontal distance from the heel to the
// centroid of the section.
func CentroidOffset(p Profile, baseWidth float64, crestWidth *float64) (float64, error) {
	c, err := crest(p, crestWidth)
	if err != nil {
		return 0, err
	}

	switch p {
	case Rectangle:
		return baseWidth / 2, nil
	case Triangle:
		return baseWidth / 3, nil
	default:
		// x̄ = b(b + 2c) / 3(b + c) for a trapezoid with a vertical upstream face
		return (baseWidth + 2*c) / (3 * (baseWidth + c)) * baseWidth, nil
	}
}

// Outline returns the section polygon counter-clockwise from the heel.
func Outline(p Profile, baseWidth, height float64, crestWidth *float64) ([]Point, error) {
	c, err := crest(p, crestWidth)
	if err != nil {
		return nil, err
	}

	switch p {
	case Rectangle:
		return []Point{
			{X: 0, Y: 0},
			{X: baseWidth, Y: 0},
			{X: baseWidth, Y: height},
			{X: 0, Y: height},
		}, nil
	case Triangle:
		return []Point{
			{X: 0, Y: 0},
			{X: baseWidth, Y: 0},
			{X: 0, Y: height},
		}, nil
	default:
		return []Point{
			{X: 0, Y: 0},
			{X: baseWidth, Y: 0},
			{X: c, Y: height},
			{X: 0, Y: height},
		}, nil
	}
}

// AreaAndCentroid uses the shoelace formula on a simple polygon
func AreaAndCentroid(vertices []Point) (area, cx, cy float64) {
	n := len(vertices)
	if n < 3 {
		return 0, 0, 0
	}

	var signedArea float64
	var sumX, sumY float64

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := vertices[i].X*vertices[j].Y - vertices[j].X*vertices[i].Y
		signedArea += cross
		sumX += (vertices[i].X + vertices[j].X) * cross
		sumY += (vertices[i].Y + vertices[j].Y) * cross
	}

	signedArea /= 2
	area = math.Abs(signedArea)

	if area > 0 {
		cx = sumX / (6 * signedArea)
		cy = sumY / (6 * signedArea)
	}

	return area, cx, cy
}

// WidthAtHeight returns the horizontal width of the section at height y
func WidthAtHeight(vertices []Point, y float64) float64 {
	var xs []float64
	n := len(vertices)

	for i := 0; i < n; i++ {
		v1, v2 := vertices[i], vertices[(i+1)%n]
		if (v1.Y <= y && v2.Y > y) || (v2.Y <= y && v1.Y > y) {
			t := (y - v1.Y) / (v2.Y - v1.Y)
			xs = append(xs, v1.X+t*(v2.X-v1.X))
		}
	}

	if len(xs) < 2 {
		return 0
	}
	minX, maxX := xs[0], xs[0]
	for _, x := range xs {
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
	}
	return maxX - minX
}
