package diagram

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexiusacademia/gravdam/internal/geometry"
	"github.com/alexiusacademia/gravdam/internal/loads"
	"github.com/alexiusacademia/gravdam/internal/stability"
	"github.com/alexiusacademia/gravdam/internal/units"
)

// SectionDiagramData holds what the section sketches need
type SectionDiagramData struct {
	// Section outline, counter-clockwise from the heel
	Vertices []geometry.Point

	BaseWidth  float64
	Height     float64
	WaterLevel float64

	// Uplift heads at the heel and toe
	HeelUplift float64
	ToeUplift  float64

	// Analysis results
	CenterOfGravity     float64  // from the heel
	LocationOfResultant *float64 // from the heel, nil when undefined
	WithinMiddleThird   bool

	Units units.Labels
}

// NewSectionData collects the diagram data for the final inputs of an analysis.
func NewSectionData(in stability.Inputs, res *stability.Results) (SectionDiagramData, error) {
	final := stability.Final(in, res)
	vertices, err := geometry.Outline(final.Profile, final.BaseWidth, final.Height, final.CrestWidth)
	if err != nil {
		return SectionDiagramData{}, err
	}
	return SectionDiagramData{
		Vertices:            vertices,
		BaseWidth:           final.BaseWidth,
		Height:              final.Height,
		WaterLevel:          final.WaterLevel,
		HeelUplift:          final.HeelUplift,
		ToeUplift:           final.ToeUplift,
		CenterOfGravity:     res.CenterOfGravity,
		LocationOfResultant: res.LocationOfResultant,
		WithinMiddleThird:   res.WithinMiddleThird,
		Units:               res.Units,
	}, nil
}

// DrawASCIISection draws the dam section with the reservoir, the middle
// third of the base and the resultant.
func DrawASCIISection(data SectionDiagramData) string {
	var sb strings.Builder

	widthChars := 40
	heightChars := 16
	waterChars := 10

	sb.WriteString("\n")
	sb.WriteString("  DAM SECTION\n")
	sb.WriteString("  ───────────\n\n")

	if data.BaseWidth <= 0 || data.Height <= 0 || len(data.Vertices) < 3 {
		sb.WriteString("  (no section to draw)\n")
		return sb.String()
	}

	dx := data.BaseWidth / float64(widthChars)
	dy := data.Height / float64(heightChars)
	col := func(x float64) int {
		return clamp(int(math.Round(x/dx)), 0, widthChars)
	}

	waterTop := -1
	for i := 0; i < heightChars; i++ {
		// sample at the middle of the row
		y := data.Height - (float64(i)+0.5)*dy

		water := strings.Repeat(" ", waterChars)
		if y <= data.WaterLevel {
			if waterTop < 0 {
				waterTop = i
				water = strings.Repeat(" ", waterChars-1) + "▽"
			} else {
				water = strings.Repeat("≈", waterChars)
			}
		}

		n := col(geometry.WidthAtHeight(data.Vertices, y))
		if n == 0 {
			n = 1
		}
		fill := strings.Repeat("▓", n) + strings.Repeat(" ", widthChars-n)

		sb.WriteString(fmt.Sprintf("  %s│%s", water, fill))
		switch i {
		case 0:
			sb.WriteString(fmt.Sprintf(" ◄─ H = %.2f %s", data.Height, data.Units.Length))
		case waterTop:
			sb.WriteString(fmt.Sprintf(" ◄─ h = %.2f %s", data.WaterLevel, data.Units.Length))
		}
		sb.WriteString("\n")
	}

	pad := strings.Repeat(" ", waterChars)
	sb.WriteString(fmt.Sprintf("  %s└%s┘\n", pad, strings.Repeat("─", widthChars)))

	// base markers: middle-third limits, centroid and resultant
	marks := []rune(strings.Repeat(" ", widthChars+1))
	marks[col(data.BaseWidth/3)] = '┊'
	marks[col(2*data.BaseWidth/3)] = '┊'
	marks[col(data.CenterOfGravity)] = 'G'
	if data.LocationOfResultant != nil {
		marks[col(*data.LocationOfResultant)] = '▲'
	}
	sb.WriteString(fmt.Sprintf("  %s%s\n", pad, string(marks)))

	label := "heel" + strings.Repeat(" ", widthChars-6) + "toe"
	sb.WriteString(fmt.Sprintf("  %s%s\n", pad, label))

	if data.HeelUplift > 0 || data.ToeUplift > 0 {
		sb.WriteString(fmt.Sprintf("  %s%s\n", pad, upliftRow(data, widthChars)))
	}

	// Legend
	sb.WriteString("\n")
	sb.WriteString("  Legend:\n")
	sb.WriteString("  ▓▓▓ = Concrete section\n")
	sb.WriteString("  ≈≈≈ = Reservoir\n")
	sb.WriteString(fmt.Sprintf("  G   = Centre of gravity at %.2f %s from the heel\n", data.CenterOfGravity, data.Units.Length))
	sb.WriteString(fmt.Sprintf("  ┊ ┊ = Middle third, %.2f to %.2f %s\n", data.BaseWidth/3, 2*data.BaseWidth/3, data.Units.Length))
	if loc := data.LocationOfResultant; loc != nil {
		where := "outside"
		if data.WithinMiddleThird {
			where = "within"
		}
		sb.WriteString(fmt.Sprintf("  ▲   = Resultant at %.2f %s, %s the middle third\n", *loc, data.Units.Length, where))
	} else {
		sb.WriteString("  Resultant location undefined (zero vertical reaction)\n")
	}
	if data.HeelUplift > 0 || data.ToeUplift > 0 {
		sb.WriteString(fmt.Sprintf("  ↑↑↑ = Uplift, %.2f %s at the heel to %.2f %s at the toe (centroid %.2f %s)\n",
			data.HeelUplift, data.Units.Length, data.ToeUplift, data.Units.Length,
			loads.UpliftCentroid(data.BaseWidth, data.HeelUplift, data.ToeUplift), data.Units.Length))
	}

	return sb.String()
}

// upliftRow shades the uplift diagram under the base, denser where the
// head is higher.
func upliftRow(data SectionDiagramData, widthChars int) string {
	shades := []rune(" ·↑⇑")
	peak := math.Max(data.HeelUplift, data.ToeUplift)
	row := make([]rune, widthChars+1)
	for i := range row {
		t := float64(i) / float64(widthChars)
		head := data.HeelUplift + t*(data.ToeUplift-data.HeelUplift)
		level := int(math.Ceil(head / peak * float64(len(shades)-1)))
		row[i] = shades[clamp(level, 0, len(shades)-1)]
	}
	return string(row)
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len([]rune(title))
	for _, line := range lines {
		if n := len([]rune(line)); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", padRight(title, maxLen-4)))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", padRight(line, maxLen-4)))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

// padRight pads by rune count; %-*s counts bytes and misaligns ² and ·.
func padRight(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
