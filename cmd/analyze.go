package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alexiusacademia/gravdam/internal/casefile"
	"github.com/alexiusacademia/gravdam/internal/diagram"
	"github.com/alexiusacademia/gravdam/internal/report"
	"github.com/alexiusacademia/gravdam/internal/stability"
)

var (
	analyzeFile string

	// Section
	analyzeProfile    string
	analyzeUnits      string
	analyzeBaseWidth  float64
	analyzeHeight     float64
	analyzeWaterLevel float64
	analyzeCrestWidth float64

	// Materials
	analyzeConcreteDensity float64
	analyzeWaterDensity    float64
	analyzeWaterUnit       string
	analyzeFriction        float64
	analyzeNoSliding       bool

	// Uplift
	analyzeHeelUplift float64
	analyzeToeUplift  float64

	// Solve for
	analyzeSolveFor string
	analyzeTarget   float64

	// Output
	analyzeShowDiagram     bool
	analyzeShowConvergence bool
	analyzeExportFile      string
	analyzePDFFile         string
	analyzeProject         string
	analyzeAuthor          string
	analyzeSaveCase        string
	analyzeJSON            bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Check a dam section for sliding and overturning",
	Long: `Analyze one gravity dam cross-section.

The section is read from a case file (JSON, YAML or TOML) and/or flags.
Flags override the matching case-file values. Densities and the friction
coefficient fall back to the configured defaults when omitted.

With --solve-for the named parameter is back-calculated so that the
safety factor reaches --target (overturning for water-level and
base-width, sliding for friction-coefficient).

Examples:
  # Rectangular section, default materials
  gravdam analyze --profile rectangle -B 10 -H 8 --water-level 6

  # Trapezoid with uplift, draw the section
  gravdam analyze --profile trapezoid -B 12 -H 15 -C 3 --water-level 13.5 \
      --heel-uplift 13.5 --diagram

  # Water level that gives an overturning factor of 2
  gravdam analyze -f dam.yaml --solve-for water-level --target 2 --convergence

  # Calculation sheet and section plot
  gravdam analyze -f dam.toml --pdf dam.pdf -o dam.png`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeFile, "file", "f", "", "Case file (.json, .yaml, .yml, .toml)")

	// Section flags
	f.StringVarP(&analyzeProfile, "profile", "p", "", "Profile: rectangle, triangle or trapezoid")
	f.StringVar(&analyzeUnits, "units", "", "Unit system: metric or imperial (default metric)")
	f.Float64VarP(&analyzeBaseWidth, "base-width", "B", 0, "Base width, heel to toe")
	f.Float64VarP(&analyzeHeight, "height", "H", 0, "Dam height")
	f.Float64Var(&analyzeWaterLevel, "water-level", 0, "Upstream water depth above the base")
	f.Float64VarP(&analyzeCrestWidth, "crest-width", "C", 0, "Crest width (trapezoid only)")

	// Material flags
	f.Float64Var(&analyzeConcreteDensity, "concrete-density", 0, "Concrete unit weight")
	f.Float64Var(&analyzeWaterDensity, "water-density", 0, "Water density")
	f.StringVar(&analyzeWaterUnit, "water-density-unit", "", "Unit of --water-density: kN/m3 or kg/m3")
	f.Float64Var(&analyzeFriction, "friction", 0, "Base friction coefficient μ")
	f.BoolVar(&analyzeNoSliding, "no-sliding", false, "Skip the sliding check")

	// Uplift flags
	f.Float64Var(&analyzeHeelUplift, "heel-uplift", 0, "Uplift head at the heel")
	f.Float64Var(&analyzeToeUplift, "toe-uplift", 0, "Uplift head at the toe")

	// Solve-for flags
	f.StringVar(&analyzeSolveFor, "solve-for", "", "Back-calculate: water-level, base-width or friction-coefficient")
	f.Float64Var(&analyzeTarget, "target", 0, "Target safety factor for --solve-for")

	// Output options
	f.BoolVar(&analyzeShowDiagram, "diagram", false, "Show ASCII section diagram")
	f.BoolVar(&analyzeShowConvergence, "convergence", false, "Show solver convergence chart")
	f.StringVarP(&analyzeExportFile, "output", "o", "", "Export section plot to file (png, svg, pdf)")
	f.StringVar(&analyzePDFFile, "pdf", "", "Write a PDF calculation sheet")
	f.StringVar(&analyzeProject, "project", "", "Project name for the PDF sheet")
	f.StringVar(&analyzeAuthor, "author", "", "Author for the PDF sheet")
	f.StringVar(&analyzeSaveCase, "save-case", "", "Write the final inputs to a case file")
	f.BoolVar(&analyzeJSON, "json", false, "Print results as JSON instead of tables")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(cmd.Context())

	c, err := analyzeCase(cmd)
	if err != nil {
		return err
	}

	in, err := c.Inputs(configuredDefaults(viper.GetViper()))
	if err != nil {
		return fmt.Errorf("invalid case: %w", err)
	}

	start := time.Now()
	res, err := stability.CalculateStability(in)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	logger.Debug("analysis complete", "profile", in.Profile, "steps", len(res.Steps), "took", time.Since(start))
	for _, cond := range res.Conditions {
		logger.Warn(cond.Describe(), "condition", string(cond))
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		printAnalysis(c, in, res)
	}

	final := stability.Final(in, res)
	data, err := diagram.NewSectionData(in, res)
	if err != nil {
		logger.Warn("section diagram unavailable", "err", err)
	}

	if analyzeShowDiagram && err == nil {
		fmt.Println(diagram.DrawASCIISection(data))
	}
	if analyzeShowConvergence && res.Solved != nil {
		fmt.Println(diagram.DrawConvergence(res.Solved.History, res.Solved.Target))
	}
	if analyzeExportFile != "" && err == nil {
		if err := diagram.ExportSection(data, analyzeExportFile); err != nil {
			return fmt.Errorf("exporting diagram: %w", err)
		}
		printSuccess("Section plot written to %s", analyzeExportFile)
	}
	if analyzePDFFile != "" {
		if err := writeReport(analyzePDFFile, c.Name, in, res); err != nil {
			return err
		}
		printSuccess("Calculation sheet written to %s", analyzePDFFile)
	}
	if analyzeSaveCase != "" {
		final.Solve = nil
		if err := saveCase(analyzeSaveCase, c.Name, final); err != nil {
			return err
		}
		printSuccess("Case written to %s", analyzeSaveCase)
	}
	return nil
}

// analyzeCase loads --file when given and lays any explicitly set flags
// over it.
func analyzeCase(cmd *cobra.Command) (*casefile.Case, error) {
	c := &casefile.Case{}
	if analyzeFile != "" {
		loaded, err := casefile.Load(analyzeFile)
		if err != nil {
			return nil, err
		}
		c = loaded
	}

	set := cmd.Flags().Changed
	if set("profile") {
		c.Profile = analyzeProfile
	}
	if set("units") {
		c.UnitSystem = analyzeUnits
	}
	if set("base-width") {
		c.BaseWidth = &analyzeBaseWidth
	}
	if set("height") {
		c.Height = analyzeHeight
	}
	if set("water-level") {
		c.WaterLevel = &analyzeWaterLevel
	}
	if set("crest-width") {
		c.CrestWidth = &analyzeCrestWidth
	}
	if set("concrete-density") {
		c.ConcreteDensity = &analyzeConcreteDensity
	}
	if set("water-density") {
		c.WaterDensity = &analyzeWaterDensity
	}
	if set("water-density-unit") {
		c.WaterDensityUnit = analyzeWaterUnit
	}
	if set("friction") {
		c.FrictionCoefficient = &analyzeFriction
		c.SkipSliding = false
	}
	if set("no-sliding") {
		c.SkipSliding = analyzeNoSliding
		if analyzeNoSliding {
			c.FrictionCoefficient = nil
		}
	}
	if set("heel-uplift") {
		c.HeelUplift = analyzeHeelUplift
	}
	if set("toe-uplift") {
		c.ToeUplift = analyzeToeUplift
	}
	if set("solve-for") {
		c.SolveFor = analyzeSolveFor
	}
	if set("target") {
		c.TargetSafetyFactor = analyzeTarget
	}

	if c.Profile == "" {
		return nil, fmt.Errorf("no section given: use --file or --profile with dimensions")
	}
	return c, nil
}

func printAnalysis(c *casefile.Case, in stability.Inputs, res *stability.Results) {
	u := res.Units
	final := stability.Final(in, res)

	printHeader("GRAVITY DAM STABILITY ANALYSIS")
	if c.Name != "" {
		fmt.Printf("  Case: %s\n", c.Name)
	}
	if c.Description != "" {
		fmt.Printf("  Description: %s\n", c.Description)
	}
	if c.Name != "" || c.Description != "" {
		fmt.Println()
	}

	printSection("SECTION")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Profile:\t%s\n", in.Profile)
	fmt.Fprintf(w, "  Base width (B):\t%.3f %s\n", final.BaseWidth, u.Length)
	fmt.Fprintf(w, "  Height (H):\t%.3f %s\n", final.Height, u.Length)
	if final.CrestWidth != nil {
		fmt.Fprintf(w, "  Crest width (C):\t%.3f %s\n", *final.CrestWidth, u.Length)
	}
	fmt.Fprintf(w, "  Water level (h):\t%.3f %s\n", final.WaterLevel, u.Length)
	w.Flush()
	fmt.Println()

	printSection("MATERIALS & UPLIFT")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  γc:\t%.4g %s\n", in.ConcreteDensity, u.Density)
	if in.WaterDensityUnit != "" && !in.WaterDensityUnit.IsWeight() {
		fmt.Fprintf(w, "  ρw:\t%.4g %s\n", in.WaterDensity, in.WaterDensityUnit)
	} else {
		fmt.Fprintf(w, "  γw:\t%.4g %s\n", in.WaterDensity, u.Density)
	}
	if final.FrictionCoefficient != nil {
		fmt.Fprintf(w, "  μ:\t%.4f\n", *final.FrictionCoefficient)
	} else {
		fmt.Fprintf(w, "  μ:\t-\n")
	}
	fmt.Fprintf(w, "  Uplift head heel / toe:\t%.3f / %.3f %s\n", in.HeelUplift, in.ToeUplift, u.Length)
	w.Flush()
	fmt.Println()

	if s := res.Solved; s != nil {
		printSection("SOLVED PARAMETER")
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Parameter:\t%s\n", in.Solve.Unknown.Label())
		fmt.Fprintf(w, "  Value:\t%.4f\n", s.Value)
		fmt.Fprintf(w, "  Target FS:\t%.3f\n", s.Target)
		fmt.Fprintf(w, "  Method:\t%s\n", s.Method)
		if s.Method == stability.MethodBisection {
			fmt.Fprintf(w, "  Iterations:\t%d\n", s.Iterations)
		}
		converged := "✓"
		if !s.Converged {
			converged = "⚠ best approximation"
		}
		fmt.Fprintf(w, "  Converged:\t%s\n", converged)
		w.Flush()
		fmt.Println()
	}

	printSection("DERIVATION")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  #\tQuantity\tFormula\tValue\n")
	fmt.Fprintf(w, "  ─\t────────\t───────\t─────\n")
	for i, st := range res.Steps {
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\n", i+1, st.Title, st.Formula, stepValue(st))
	}
	w.Flush()
	fmt.Println()

	var lines []string
	if res.SafetyFactorSliding != nil {
		lines = append(lines, fmt.Sprintf("FS sliding     = %8.3f  %s", *res.SafetyFactorSliding, res.SlidingRating))
	} else {
		lines = append(lines, "FS sliding     =      n/a")
	}
	lines = append(lines, fmt.Sprintf("FS overturning = %8.3f  %s", res.SafetyFactorOverturning, res.OverturningRating))
	if loc := res.LocationOfResultant; loc != nil {
		third := "outside middle third"
		if res.WithinMiddleThird {
			third = "within middle third"
		}
		lines = append(lines, fmt.Sprintf("x̄ = %.3f %s (%s)", *loc, u.Length, third))
	} else {
		lines = append(lines, "x̄ undefined (zero vertical reaction)")
	}
	fmt.Println(diagram.DrawSummaryBox("STABILITY SUMMARY", lines))
	fmt.Println()

	printSection("STATUS")
	fmt.Printf("  Sliding:      %s\n", renderRating(res.SlidingRating))
	fmt.Printf("  Overturning:  %s\n", renderRating(res.OverturningRating))
	fmt.Printf("  Verdict:      %s\n", renderRating(res.Verdict()))
	fmt.Println()
	for _, cond := range res.Conditions {
		printWarning("%s", cond.Describe())
	}
	if len(res.Conditions) > 0 {
		fmt.Println()
	}
}

func stepValue(st stability.Step) string {
	v := fmt.Sprintf("%.4f", st.Value)
	if st.Unit != "" {
		v += " " + st.Unit
	}
	return v
}

func writeReport(path, name string, in stability.Inputs, res *stability.Results) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	meta := report.Meta{
		Project: analyzeProject,
		Author:  analyzeAuthor,
		Case:    name,
		Date:    time.Now(),
	}
	if err := report.Write(f, meta, in, res); err != nil {
		f.Close()
		return fmt.Errorf("writing report: %w", err)
	}
	return f.Close()
}

func saveCase(path, name string, in stability.Inputs) error {
	format, err := casefile.FormatOf(path)
	if err != nil {
		return err
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating case file: %w", err)
	}
	if err := casefile.Encode(f, casefile.FromInputs(name, in), format); err != nil {
		f.Close()
		return fmt.Errorf("writing case file: %w", err)
	}
	return f.Close()
}
