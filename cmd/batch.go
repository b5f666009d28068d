package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alexiusacademia/gravdam/internal/batch"
)

var (
	batchInput  string
	batchOutput string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze every case in an Excel workbook",
	Long: `Read dam cases from the first sheet of an .xlsx workbook, analyze each
row and write a results workbook.

The first row is the header. Column names match the case-file keys
(profile, base_width, height, water_level, crest_width, ...). A row that
fails validation is reported in the results and does not stop the run.

Examples:
  gravdam batch --input dams.xlsx
  gravdam batch -i dams.xlsx -o dams-checked.xlsx`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchInput, "input", "i", "", "Workbook of cases (.xlsx) [required]")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "Results workbook (default <input>-results.xlsx)")
	batchCmd.MarkFlagRequired("input")
}

func runBatch(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(cmd.Context())
	start := time.Now()

	in, err := os.Open(batchInput)
	if err != nil {
		return fmt.Errorf("opening workbook: %w", err)
	}
	rows, err := batch.ReadCases(in)
	in.Close()
	if err != nil {
		return err
	}
	logger.Debug("workbook read", "file", batchInput, "rows", len(rows))

	outcomes := batch.Run(rows, configuredDefaults(viper.GetViper()))
	for _, o := range outcomes {
		if o.Err != nil {
			logger.Warn("row failed", "line", o.Line, "name", o.Case.Name, "err", o.Err)
			continue
		}
		for _, cond := range o.Results.Conditions {
			logger.Debug("row condition", "line", o.Line, "condition", string(cond))
		}
	}

	outPath := batchOutput
	if outPath == "" {
		outPath = strings.TrimSuffix(batchInput, filepath.Ext(batchInput)) + "-results.xlsx"
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating results workbook: %w", err)
	}
	if err := batch.WriteResults(out, outcomes); err != nil {
		out.Close()
		return fmt.Errorf("writing results workbook: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	elapsed(logger, start, "batch complete", "cases", len(outcomes))

	sum := batch.Summarize(outcomes)
	printHeader("GRAVITY DAM BATCH ANALYSIS")
	printSection("SUMMARY")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Cases:\t%d\n", sum.Total)
	fmt.Fprintf(w, "  Safe:\t%s\n", styleSafe.Render(fmt.Sprint(sum.Safe)))
	fmt.Fprintf(w, "  Marginal:\t%s\n", styleWarning.Render(fmt.Sprint(sum.Marginal)))
	fmt.Fprintf(w, "  Unsafe:\t%s\n", styleUnsafe.Render(fmt.Sprint(sum.Unsafe)))
	fmt.Fprintf(w, "  Errors:\t%d\n", sum.Errors)
	w.Flush()
	fmt.Println()

	printSection("CASES")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Line\tName\tFS sliding\tFS overturning\tVerdict\n")
	fmt.Fprintf(w, "  ────\t────\t──────────\t──────────────\t───────\n")
	for _, o := range outcomes {
		if o.Failed() {
			fmt.Fprintf(w, "  %d\t%s\t-\t-\t%s\n", o.Line, o.Case.Name, styleUnsafe.Render("error"))
			continue
		}
		fss := "n/a"
		if o.Results.SafetyFactorSliding != nil {
			fss = fmt.Sprintf("%.3f", *o.Results.SafetyFactorSliding)
		}
		fmt.Fprintf(w, "  %d\t%s\t%s\t%.3f\t%s\n",
			o.Line, o.Case.Name, fss, o.Results.SafetyFactorOverturning, renderRating(o.Results.Verdict()))
	}
	w.Flush()
	fmt.Println()

	printSuccess("Results written to %s", outPath)
	return nil
}
