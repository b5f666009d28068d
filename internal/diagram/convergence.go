package diagram

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// DrawConvergence plots the safety factor at each bisection midpoint
// against the target.
func DrawConvergence(history []float64, target float64) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("  SOLVER CONVERGENCE\n")
	sb.WriteString("  ──────────────────\n\n")

	if len(history) == 0 {
		sb.WriteString("  (closed-form solution, no iterations)\n")
		return sb.String()
	}

	series := history
	if len(series) == 1 {
		// asciigraph needs two points to draw a line
		series = []float64{history[0], history[0]}
	}
	targetLine := make([]float64, len(series))
	for i := range targetLine {
		targetLine[i] = target
	}

	width := len(series)
	if width < 30 {
		width = 30
	}
	if width > 70 {
		width = 70
	}

	graph := asciigraph.PlotMany([][]float64{series, targetLine},
		asciigraph.Height(12),
		asciigraph.Width(width),
		asciigraph.Precision(3),
		asciigraph.Offset(4),
		asciigraph.SeriesColors(asciigraph.Default, asciigraph.Red),
		asciigraph.Caption(fmt.Sprintf("FSo per iteration (target %.3f)", target)),
	)
	sb.WriteString(graph)
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("\n  %d iterations, final FSo = %.4f\n", len(history), history[len(history)-1]))

	return sb.String()
}
