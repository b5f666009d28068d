package batch

import (
	"github.com/alexiusacademia/gravdam/internal/stability"
	"github.com/alexiusacademia/gravdam/internal/units"
)

// Outcome is the result of one batch row.
type Outcome struct {
	Row
	Inputs  stability.Inputs
	Results *stability.Results
}

// Failed reports whether the row produced no results.
func (o Outcome) Failed() bool { return o.Err != nil || o.Results == nil }

// Run evaluates each row. A failing row records its error and the batch
// carries on.
func Run(rows []Row, d units.Defaults) []Outcome {
	out := make([]Outcome, 0, len(rows))
	for _, row := range rows {
		o := Outcome{Row: row}
		if row.Err == nil {
			o.Inputs, o.Err = row.Case.Inputs(d)
		}
		if o.Err == nil {
			o.Results, o.Err = stability.CalculateStability(o.Inputs)
		}
		out = append(out, o)
	}
	return out
}

// Summary counts outcomes by verdict; failed rows count as errors.
type Summary struct {
	Total, Safe, Marginal, Unsafe, Errors int
}

// Summarize tallies outcomes.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.Failed() {
			s.Errors++
			continue
		}
		switch o.Results.Verdict() {
		case stability.Safe:
			s.Safe++
		case stability.Marginal:
			s.Marginal++
		default:
			s.Unsafe++
		}
	}
	return s
}
