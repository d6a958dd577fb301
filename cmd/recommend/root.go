package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/finance-tracker/recommender/config"
	"github.com/finance-tracker/recommender/internal/application/usecase/forecast"
	domainerror "github.com/finance-tracker/recommender/internal/domain/error"
	"github.com/finance-tracker/recommender/internal/integration/entrypoint/dto"
)

// cli carries the shared state of every subcommand.
type cli struct {
	in  io.Reader
	out io.Writer

	flagFile     string
	flagRules    string
	flagStrategy string

	cfg *config.Config
}

// reportedError marks an error whose JSON body was already written.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// run executes the command line and returns the process exit code.
func run(args []string, in io.Reader, out io.Writer) int {
	root := newRootCmd(in, out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			_ = printJSON(out, dto.ErrorResponse{Error: err.Error()})
		}
		return 1
	}
	return 0
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	c := &cli{in: in, out: out}

	root := &cobra.Command{
		Use:           "recommend",
		Short:         "Personal finance recommendations",
		Long:          "Allocate a budget, suggest savings, forecast next period spending and report spending patterns.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return c.loadConfig()
		},
	}

	root.PersistentFlags().StringVarP(&c.flagFile, "file", "f", "-", "JSON array of transactions (- reads stdin)")
	root.PersistentFlags().StringVar(&c.flagRules, "rules", "", "TOML suggestion rules file (overrides RECOMMENDER_RULES_FILE)")
	root.PersistentFlags().StringVar(&c.flagStrategy, "strategy", "", "Forecast strategy: linear or average (overrides FORECAST_STRATEGY)")

	root.AddCommand(
		c.newBudgetCmd(),
		c.newSuggestCmd(),
		c.newForecastCmd(),
		c.newInsightsCmd(),
	)
	return root
}

func (c *cli) loadConfig() error {
	cfg := config.Load()
	if c.flagRules != "" {
		cfg.Recommendation.RulesFile = c.flagRules
	}
	if c.flagStrategy != "" {
		cfg.Forecast.Strategy = c.flagStrategy
	}
	if err := cfg.Validate(); err != nil {
		return c.fail(err)
	}
	c.cfg = cfg
	return nil
}

func (c *cli) strategy() (forecast.Strategy, error) {
	return forecast.NewStrategy(c.cfg.Forecast.Strategy, c.cfg.Forecast.MovingAverageWindow, c.cfg.Forecast.MovingAverageBuffer)
}

// readTransactions decodes the transaction array from --file or stdin.
func (c *cli) readTransactions() ([]dto.TransactionRequest, error) {
	var r io.Reader = c.in
	if c.flagFile != "-" {
		f, err := os.Open(c.flagFile)
		if err != nil {
			return nil, domainerror.NewInvalidInputError(domainerror.ErrCodeInvalidRequestBody,
				fmt.Sprintf("cannot open transactions file: %v", err))
		}
		defer f.Close()
		r = f
	}

	var transactions []dto.TransactionRequest
	if err := json.NewDecoder(r).Decode(&transactions); err != nil {
		return nil, domainerror.NewInvalidInputError(domainerror.ErrCodeInvalidRequestBody,
			fmt.Sprintf("transactions must be a JSON array: %v", err))
	}
	return transactions, nil
}

func (c *cli) print(v any) error {
	return printJSON(c.out, v)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fail prints the error body and returns err so the process exits non-zero.
func (c *cli) fail(err error) error {
	message := err.Error()
	var recErr *domainerror.RecommendationError
	if errors.As(err, &recErr) {
		message = recErr.Message
	}
	_ = c.print(dto.ErrorResponse{Error: message})
	return &reportedError{err: err}
}
