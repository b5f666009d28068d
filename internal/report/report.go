// Package report renders a stability analysis as a PDF calculation sheet.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/alexiusacademia/gravdam/internal/geometry"
	"github.com/alexiusacademia/gravdam/internal/stability"
	"github.com/alexiusacademia/gravdam/internal/units"
)

// Meta is the sheet header.
type Meta struct {
	Project string    `json:"project"`
	Author  string    `json:"author"`
	Title   string    `json:"title"`
	Case    string    `json:"case"`
	Date    time.Time `json:"date"`
}

// The core PDF fonts are cp1252; symbols outside it are spelled out.
var symbols = strings.NewReplacer(
	"γ", "g",
	"μ", "µ",
	"−", "-",
	"x̄", "x",
	"₁", "1",
	"₂", "2",
	"≈", "~",
	"◄─", "<-",
)

// Write renders the calculation sheet for in and res to w.
func Write(w io.Writer, meta Meta, in stability.Inputs, res *stability.Results) error {
	if res == nil {
		return fmt.Errorf("report: no results")
	}
	if meta.Title == "" {
		meta.Title = "Gravity Dam Stability Check"
	}
	if meta.Date.IsZero() {
		meta.Date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(symbols.Replace(s)) }

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, text(meta.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	for _, kv := range [][2]string{
		{"Project", meta.Project},
		{"Case", meta.Case},
		{"Author", meta.Author},
		{"Date", meta.Date.Format("2006-01-02")},
	} {
		if kv[1] == "" {
			continue
		}
		pdf.Cell(0, 6, text(fmt.Sprintf("%s: %s", kv[0], kv[1])))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	L := res.Units
	final := stability.Final(in, res)

	// Inputs
	heading(pdf, "Input Parameters")
	rows := [][2]string{
		{"Profile", final.Profile.String()},
		{"Base width B", fmt.Sprintf("%.3f %s", final.BaseWidth, L.Length)},
		{"Height H", fmt.Sprintf("%.3f %s", final.Height, L.Length)},
	}
	if final.Profile == geometry.Trapezoid && final.CrestWidth != nil {
		rows = append(rows, [2]string{"Crest width C", fmt.Sprintf("%.3f %s", *final.CrestWidth, L.Length)})
	}
	rows = append(rows,
		[2]string{"Water level h", fmt.Sprintf("%.3f %s", final.WaterLevel, L.Length)},
		[2]string{"Concrete unit weight", fmt.Sprintf("%.3f %s", final.ConcreteDensity, L.Density)},
		[2]string{"Water density", fmt.Sprintf("%.3f %s", in.WaterDensity, waterUnit(in, L.Density))},
		[2]string{"Uplift head, heel / toe", fmt.Sprintf("%.3f / %.3f %s", final.HeelUplift, final.ToeUplift, L.Length)},
	)
	if final.FrictionCoefficient != nil {
		rows = append(rows, [2]string{"Friction coefficient", fmt.Sprintf("%.3f", *final.FrictionCoefficient)})
	}
	table(pdf, text, rows)

	if s := res.Solved; s != nil {
		heading(pdf, "Solved Parameter")
		status := "converged"
		if !s.Converged {
			status = "not converged, best approximation"
		}
		table(pdf, text, [][2]string{
			{"Unknown", s.Name},
			{"Target safety factor", fmt.Sprintf("%.3f", s.Target)},
			{"Value", fmt.Sprintf("%.4f", s.Value)},
			{"Method", fmt.Sprintf("%s, %d iterations, %s", s.Method, s.Iterations, status)},
		})
	}

	// Derivation
	heading(pdf, "Derivation")
	for i, step := range res.Steps {
		if pdf.GetY() > 260 {
			pdf.AddPage()
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(120, 6, text(fmt.Sprintf("%d. %s", i+1, step.Title)), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, text(strings.TrimSpace(fmt.Sprintf("%.3f %s", step.Value, step.Unit))), "", 1, "R", false, 0, "")
		pdf.SetFont("Courier", "", 9)
		pdf.CellFormat(0, 5, text(step.Formula), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 4.5, text(step.Explanation), "", "L", false)
		pdf.Ln(2)
	}

	// Conditions
	if len(res.Conditions) > 0 {
		heading(pdf, "Notes")
		pdf.SetFont("Helvetica", "", 9)
		for _, c := range res.Conditions {
			pdf.MultiCell(0, 5, text("- "+c.Describe()), "", "L", false)
		}
		pdf.Ln(2)
	}

	// Verdict
	heading(pdf, "Summary")
	summary := [][2]string{}
	if res.SafetyFactorSliding != nil {
		summary = append(summary, [2]string{"FS against sliding", fmt.Sprintf("%.3f (%s)", *res.SafetyFactorSliding, res.SlidingRating)})
	} else {
		summary = append(summary, [2]string{"FS against sliding", "not evaluated"})
	}
	summary = append(summary,
		[2]string{"FS against overturning", fmt.Sprintf("%.3f (%s)", res.SafetyFactorOverturning, res.OverturningRating)},
	)
	if loc := res.LocationOfResultant; loc != nil {
		where := "outside"
		if res.WithinMiddleThird {
			where = "within"
		}
		summary = append(summary, [2]string{"Resultant", fmt.Sprintf("%.3f %s from heel, %s the middle third", *loc, L.Length, where)})
	}
	summary = append(summary, [2]string{"Verdict", strings.ToUpper(string(res.Verdict()))})
	table(pdf, text, summary)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return pdf.Output(w)
}

func heading(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 7, title, "", 1, "L", true, 0, "")
	pdf.Ln(2)
}

func table(pdf *gofpdf.Fpdf, text func(string) string, rows [][2]string) {
	pdf.SetFont("Helvetica", "", 10)
	for _, r := range rows {
		pdf.CellFormat(70, 6, text(r[0]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, text(r[1]), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

// waterUnit is the unit the water density was given in. Imperial values are
// always unit weights.
func waterUnit(in stability.Inputs, fallback string) string {
	if in.WaterDensityUnit == "" || in.UnitSystem == units.Imperial {
		return fallback
	}
	return string(in.WaterDensityUnit)
}
