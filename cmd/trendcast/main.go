// Command trendcast summarizes, analyzes and forecasts monthly count records
// from a CSV file and prints the results as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sartorproj/gotrend/forecast"
	"github.com/sartorproj/gotrend/prediction"
	"github.com/sartorproj/gotrend/stats"
	"github.com/sartorproj/gotrend/timeseries"
)

// options holds the global flags.
type options struct {
	file         string
	entity       string
	verbose      bool
	periodColumn string
	entityColumn string
	valueColumn  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	defaults := timeseries.DefaultCSVOptions()

	rootCmd := &cobra.Command{
		Use:           "trendcast",
		Short:         "Trend analysis and forecasting for monthly count records",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `Reads period,entity,count records from a CSV file and reports descriptive
statistics, growth and seasonality, or forecasts with confidence intervals.`,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "CSV file of count records (required)")
	rootCmd.PersistentFlags().StringVarP(&opts.entity, "entity", "e", "", "Restrict to one entity")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.PersistentFlags().StringVar(&opts.periodColumn, "period-column", defaults.PeriodColumn, "Name of the period column")
	rootCmd.PersistentFlags().StringVar(&opts.entityColumn, "entity-column", defaults.EntityColumn, "Name of the entity column")
	rootCmd.PersistentFlags().StringVar(&opts.valueColumn, "value-column", defaults.ValueColumn, "Name of the count column")
	_ = rootCmd.MarkPersistentFlagRequired("file")

	rootCmd.AddCommand(summaryCmd(opts))
	rootCmd.AddCommand(trendCmd(opts))
	rootCmd.AddCommand(forecastCmd(opts))
	rootCmd.AddCommand(compareCmd(opts))
	rootCmd.AddCommand(validateCmd(opts))

	return rootCmd
}

// summaryCmd prints descriptive statistics of the per-period totals
func summaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Descriptive statistics of per-period totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := opts.load()
			if err != nil {
				return err
			}
			if opts.entity != "" {
				points = timeseries.FilterEntity(points, opts.entity)
			}
			series := timeseries.AggregateByPeriod(points)

			out := struct {
				Entity   string                   `json:"entity,omitempty"`
				Periods  int                      `json:"periods"`
				First    string                   `json:"first,omitempty"`
				Last     string                   `json:"last,omitempty"`
				Summary  stats.Summary            `json:"summary"`
				Entities []timeseries.EntityTotal `json:"entities,omitempty"`
			}{
				Entity:  opts.entity,
				Periods: series.Len(),
				Summary: stats.Summarize(series.Values),
			}
			if series.Len() > 0 {
				out.First, out.Last = series.Periods[0], series.LastPeriod()
			}
			if opts.entity == "" {
				out.Entities = timeseries.TopEntities(points, 0)
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

// trendCmd prints growth, moving average and seasonality
func trendCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "trend",
		Short: "Growth rates, moving average and seasonality",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, points, err := opts.setup(cmd, nil)
			if err != nil {
				return err
			}
			analysis, err := o.Analyze(points, opts.entity)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), analysis)
		},
	}
}

// forecastCmd prints a forecast with confidence intervals
func forecastCmd(opts *options) *cobra.Command {
	var (
		horizon    int
		model      string
		confidence float64
		degree     int
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast future periods with confidence intervals",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := forecast.ParseModelType(model)
			if err != nil {
				return err
			}
			config := prediction.DefaultConfig()
			config.PolynomialDegree = degree

			o, points, err := opts.setup(cmd, config)
			if err != nil {
				return err
			}
			result, err := o.GeneratePredictions(context.Background(), points, prediction.Request{
				EntityID:        opts.entity,
				Horizon:         horizon,
				ModelType:       kind,
				ConfidenceLevel: confidence,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	defaults := prediction.DefaultConfig()
	cmd.Flags().IntVarP(&horizon, "horizon", "n", defaults.DefaultHorizon, "Number of periods to forecast")
	cmd.Flags().StringVarP(&model, "model", "m", string(defaults.DefaultModel), "Model: linear, polynomial or arimaLike")
	cmd.Flags().Float64VarP(&confidence, "confidence", "c", defaults.DefaultConfidence, "Confidence level of the intervals")
	cmd.Flags().IntVar(&degree, "degree", defaults.PolynomialDegree, "Degree of the polynomial model")
	return cmd
}

// compareCmd ranks every model by cross-validation score
func compareCmd(opts *options) *cobra.Command {
	var holdout float64

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Cross-validate and rank every model",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := prediction.DefaultConfig()
			config.HoldoutFraction = holdout

			o, points, err := opts.setup(cmd, config)
			if err != nil {
				return err
			}
			result, err := o.Compare(points, prediction.Request{EntityID: opts.entity})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().Float64Var(&holdout, "holdout", prediction.DefaultConfig().HoldoutFraction, "Fraction of history held out for validation")
	return cmd
}

// validateCmd checks the records without fitting anything
func validateCmd(opts *options) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check records and report warnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := forecast.ParseModelType(model)
			if err != nil {
				return err
			}
			o, points, err := opts.setup(cmd, nil)
			if err != nil {
				return err
			}
			result := o.Validate(points, prediction.Request{EntityID: opts.entity, ModelType: kind})
			if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if !result.IsValid {
				return &prediction.ValidationError{Errors: result.Errors}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", string(prediction.DefaultConfig().DefaultModel), "Model to check history length against")
	return cmd
}

func (o *options) load() ([]timeseries.Point, error) {
	csvOpts := timeseries.DefaultCSVOptions()
	csvOpts.PeriodColumn = o.periodColumn
	csvOpts.EntityColumn = o.entityColumn
	csvOpts.ValueColumn = o.valueColumn

	points, err := timeseries.LoadPointsCSVFile(o.file, csvOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", o.file, err)
	}
	return points, nil
}

// setup loads the records and builds an orchestrator that logs to stderr.
func (o *options) setup(cmd *cobra.Command, config *prediction.Config) (*prediction.Orchestrator, []timeseries.Point, error) {
	points, err := o.load()
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	orchestrator, err := prediction.New(config, prediction.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return orchestrator, points, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitCode distinguishes invalid input (2) and too little history (3) from
// other failures (1).
func exitCode(err error) int {
	var verr *prediction.ValidationError
	var insufficient *forecast.InsufficientDataError
	switch {
	case errors.As(err, &verr):
		return 2
	case errors.As(err, &insufficient):
		return 3
	default:
		return 1
	}
}
