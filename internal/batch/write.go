package batch

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet = "Results"
	traceSheet   = "Trace"
)

var resultsHeader = []interface{}{
	"line", "name", "profile", "status",
	"solved_for", "solved_value", "converged",
	"fs_sliding", "fs_overturning", "sliding_rating", "overturning_rating", "verdict",
	"location_of_resultant", "within_middle_third", "conditions", "error",
}

var traceHeader = []interface{}{"line", "name", "step", "title", "formula", "value", "unit"}

// WriteResults writes a workbook with one results row per outcome and the
// full derivation trace of every successful row on a second sheet.
func WriteResults(w io.Writer, outcomes []Outcome) error {
	xlsx := excelize.NewFile()
	defer xlsx.Close()

	if err := xlsx.SetSheetName("Sheet1", resultsSheet); err != nil {
		return err
	}
	if _, err := xlsx.NewSheet(traceSheet); err != nil {
		return err
	}

	bold, err := xlsx.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := writeRow(xlsx, resultsSheet, 1, resultsHeader); err != nil {
		return err
	}
	if err := writeRow(xlsx, traceSheet, 1, traceHeader); err != nil {
		return err
	}
	for _, sheet := range []string{resultsSheet, traceSheet} {
		if err := xlsx.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return err
		}
	}

	traceRow := 2
	for i, o := range outcomes {
		if err := writeRow(xlsx, resultsSheet, i+2, resultRow(o)); err != nil {
			return err
		}
		if o.Failed() {
			continue
		}
		for n, s := range o.Results.Steps {
			cells := []interface{}{o.Line, o.Case.Name, n + 1, s.Title, s.Formula, s.Value, s.Unit}
			if err := writeRow(xlsx, traceSheet, traceRow, cells); err != nil {
				return err
			}
			traceRow++
		}
	}

	_, err = xlsx.WriteTo(w)
	return err
}

func resultRow(o Outcome) []interface{} {
	row := make([]interface{}, len(resultsHeader))
	row[0] = o.Line
	row[1] = o.Case.Name
	row[2] = o.Case.Profile
	if o.Failed() {
		row[3] = "error"
		if o.Err != nil {
			row[15] = o.Err.Error()
		}
		return row
	}

	res := o.Results
	row[3] = "ok"
	if s := res.Solved; s != nil {
		row[4] = s.Name
		row[5] = s.Value
		row[6] = s.Converged
	}
	if res.SafetyFactorSliding != nil {
		row[7] = *res.SafetyFactorSliding
	}
	row[8] = res.SafetyFactorOverturning
	row[9] = string(res.SlidingRating)
	row[10] = string(res.OverturningRating)
	row[11] = string(res.Verdict())
	if loc := res.LocationOfResultant; loc != nil {
		row[12] = *loc
	}
	row[13] = res.WithinMiddleThird

	conditions := make([]string, len(res.Conditions))
	for i, c := range res.Conditions {
		conditions[i] = string(c)
	}
	row[14] = strings.Join(conditions, ", ")
	return row
}

func writeRow(xlsx *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return xlsx.SetSheetRow(sheet, cell, &cells)
}
