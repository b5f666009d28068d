package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/alexiusacademia/gravdam/internal/geometry"
)

var (
	concreteFill = color.RGBA{R: 190, G: 190, B: 190, A: 255}
	waterFill    = color.RGBA{R: 100, G: 149, B: 237, A: 150}
	waterEdge    = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	resultantRed = color.RGBA{R: 220, G: 20, B: 60, A: 255}
	thirdOrange  = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	upliftFill   = color.RGBA{R: 139, G: 69, B: 19, A: 90}
)

// ExportSection exports the dam section to an image file. The format
// follows the extension (.png, .svg, .pdf); anything else gets .png.
func ExportSection(data SectionDiagramData, filename string) error {
	if len(data.Vertices) < 3 {
		return fmt.Errorf("export section: no section outline")
	}

	p := plot.New()
	p.Title.Text = "Gravity Dam Section"
	p.X.Label.Text = fmt.Sprintf("Distance from heel (%s)", data.Units.Length)
	p.Y.Label.Text = fmt.Sprintf("Height (%s)", data.Units.Length)

	// Reservoir against the upstream face
	reach := data.BaseWidth * 0.4
	if data.WaterLevel > 0 {
		water, err := plotter.NewPolygon(plotter.XYs{
			{X: -reach, Y: 0},
			{X: 0, Y: 0},
			{X: 0, Y: data.WaterLevel},
			{X: -reach, Y: data.WaterLevel},
		})
		if err != nil {
			return err
		}
		water.Color = waterFill
		water.LineStyle.Color = waterEdge
		p.Add(water)
	}

	section, err := plotter.NewPolygon(toXYs(data.Vertices))
	if err != nil {
		return err
	}
	section.Color = concreteFill
	section.LineStyle.Width = vg.Points(2)
	section.LineStyle.Color = color.Black
	p.Add(section)

	// Uplift diagram hanging under the base, scaled to a fifth of the height
	if peak := max(data.HeelUplift, data.ToeUplift); peak > 0 {
		scale := data.Height * 0.2 / peak
		uplift, err := plotter.NewPolygon(plotter.XYs{
			{X: 0, Y: 0},
			{X: data.BaseWidth, Y: 0},
			{X: data.BaseWidth, Y: -data.ToeUplift * scale},
			{X: 0, Y: -data.HeelUplift * scale},
		})
		if err != nil {
			return err
		}
		uplift.Color = upliftFill
		uplift.LineStyle.Color = upliftFill
		p.Add(uplift)
	}

	// Middle-third limits
	for _, x := range []float64{data.BaseWidth / 3, 2 * data.BaseWidth / 3} {
		l, err := plotter.NewLine(plotter.XYs{{X: x, Y: -data.Height * 0.05}, {X: x, Y: data.Height * 0.15}})
		if err != nil {
			return err
		}
		l.LineStyle.Color = thirdOrange
		l.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}
		p.Add(l)
	}

	_, _, cy := geometry.AreaAndCentroid(data.Vertices)
	cg, err := plotter.NewScatter(plotter.XYs{{X: data.CenterOfGravity, Y: cy}})
	if err != nil {
		return err
	}
	cg.GlyphStyle.Shape = draw.CrossGlyph{}
	cg.GlyphStyle.Radius = vg.Points(5)
	p.Add(cg)

	labels := []annotation{{data.CenterOfGravity, cy, " G"}}
	if data.WaterLevel > 0 {
		labels = append(labels, annotation{-reach, data.WaterLevel, fmt.Sprintf("h=%.2f%s", data.WaterLevel, data.Units.Length)})
	}

	if loc := data.LocationOfResultant; loc != nil {
		r, err := plotter.NewScatter(plotter.XYs{{X: *loc, Y: 0}})
		if err != nil {
			return err
		}
		r.GlyphStyle.Shape = draw.TriangleGlyph{}
		r.GlyphStyle.Color = resultantRed
		r.GlyphStyle.Radius = vg.Points(6)
		p.Add(r)
		labels = append(labels, annotation{*loc, -data.Height * 0.08, fmt.Sprintf("R at %.2f%s", *loc, data.Units.Length)})
	}

	for _, lbl := range labels {
		l, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: lbl.x, Y: lbl.y}},
			Labels: []string{lbl.text},
		})
		if err != nil {
			return err
		}
		p.Add(l)
	}

	width := 8 * vg.Inch
	height := 6 * vg.Inch

	if dir := filepath.Dir(filename); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}

type annotation struct {
	x, y float64
	text string
}

func toXYs(points []geometry.Point) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	return xys
}
