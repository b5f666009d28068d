// Package batch runs stability checks over the rows of a spreadsheet.
//
// The first sheet holds one case per row. The header row names the columns
// with the case-file keys (profile, base_width, height, water_level, ...);
// column order is free and unknown columns are rejected.
package batch

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/gravdam/internal/casefile"
)

// ErrEmptySheet is returned when the workbook has no case rows.
var ErrEmptySheet = errors.New("workbook has no case rows")

// Row is one case read from the workbook.
type Row struct {
	Line int // spreadsheet row number, 1-based
	Case casefile.Case
	Err  error // parse error for this row, if any
}

type setter func(c *casefile.Case, v string) error

func floatField(dst func(*casefile.Case) *float64) setter {
	return func(c *casefile.Case, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*dst(c) = f
		return nil
	}
}

func optionalField(dst func(*casefile.Case) **float64) setter {
	return func(c *casefile.Case, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*dst(c) = &f
		return nil
	}
}

func stringField(dst func(*casefile.Case) *string) setter {
	return func(c *casefile.Case, v string) error {
		*dst(c) = v
		return nil
	}
}

var columns = map[string]setter{
	"name":                 stringField(func(c *casefile.Case) *string { return &c.Name }),
	"description":          stringField(func(c *casefile.Case) *string { return &c.Description }),
	"profile":              stringField(func(c *casefile.Case) *string { return &c.Profile }),
	"unit_system":          stringField(func(c *casefile.Case) *string { return &c.UnitSystem }),
	"base_width":           optionalField(func(c *casefile.Case) **float64 { return &c.BaseWidth }),
	"height":               floatField(func(c *casefile.Case) *float64 { return &c.Height }),
	"water_level":          optionalField(func(c *casefile.Case) **float64 { return &c.WaterLevel }),
	"crest_width":          optionalField(func(c *casefile.Case) **float64 { return &c.CrestWidth }),
	"concrete_density":     optionalField(func(c *casefile.Case) **float64 { return &c.ConcreteDensity }),
	"water_density":        optionalField(func(c *casefile.Case) **float64 { return &c.WaterDensity }),
	"water_density_unit":   stringField(func(c *casefile.Case) *string { return &c.WaterDensityUnit }),
	"friction_coefficient": optionalField(func(c *casefile.Case) **float64 { return &c.FrictionCoefficient }),
	"heel_uplift":          floatField(func(c *casefile.Case) *float64 { return &c.HeelUplift }),
	"toe_uplift":           floatField(func(c *casefile.Case) *float64 { return &c.ToeUplift }),
	"solve_for":            stringField(func(c *casefile.Case) *string { return &c.SolveFor }),
	"target_safety_factor": floatField(func(c *casefile.Case) *float64 { return &c.TargetSafetyFactor }),
	"skip_sliding": func(c *casefile.Case, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.SkipSliding = b
		return nil
	},
}

func columnKey(header string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(header)), " ", "_")
}

// ReadCases reads the case rows of the first sheet of an .xlsx workbook.
// A malformed cell marks its row with Err; it does not fail the read.
func ReadCases(r io.Reader) ([]Row, error) {
	xlsx, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer xlsx.Close()

	rows, err := xlsx.GetRows(xlsx.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	header := make([]string, len(rows[0]))
	hasProfile := false
	for i, h := range rows[0] {
		key := columnKey(h)
		if key == "" {
			continue
		}
		if _, ok := columns[key]; !ok {
			return nil, fmt.Errorf("column %d: unknown header %q", i+1, h)
		}
		header[i] = key
		hasProfile = hasProfile || key == "profile"
	}
	if !hasProfile {
		return nil, fmt.Errorf("header has no profile column")
	}

	var out []Row
	for i, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		row := Row{Line: i + 2}
		for j, cell := range cells {
			cell = strings.TrimSpace(cell)
			if j >= len(header) || header[j] == "" || cell == "" {
				continue
			}
			if err := columns[header[j]](&row.Case, cell); err != nil {
				row.Err = fmt.Errorf("row %d, %s: %w", row.Line, header[j], err)
				break
			}
		}
		if row.Case.Name == "" {
			row.Case.Name = fmt.Sprintf("row %d", row.Line)
		}
		out = append(out, row)
	}
	if len(out) == 0 {
		return nil, ErrEmptySheet
	}
	return out, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
