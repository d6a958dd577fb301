package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/finance-tracker/recommender/internal/application/usecase/advisor"
	"github.com/finance-tracker/recommender/internal/application/usecase/budget"
	"github.com/finance-tracker/recommender/internal/application/usecase/forecast"
	"github.com/finance-tracker/recommender/internal/application/usecase/insights"
	domainerror "github.com/finance-tracker/recommender/internal/domain/error"
	"github.com/finance-tracker/recommender/internal/integration/entrypoint/dto"
)

func (c *cli) newBudgetCmd() *cobra.Command {
	var income, fixed, variable, savingsRate, ceilingRate string

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Split income into savings, a variable spending ceiling and the remaining balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := dto.BudgetRequest{}
			amounts := []struct {
				flag     string
				value    string
				dst      **decimal.Decimal
				required bool
			}{
				{"income", income, &req.Income, true},
				{"fixed", fixed, &req.FixedExpenses, true},
				{"variable", variable, &req.VariableExpenses, true},
				{"savings-rate", savingsRate, &req.SavingsRate, false},
				{"ceiling-rate", ceilingRate, &req.VariableCeilingRate, false},
			}
			for _, a := range amounts {
				if !cmd.Flags().Changed(a.flag) {
					if a.required {
						return c.fail(domainerror.NewInvalidInputError(domainerror.ErrCodeInvalidRequestBody,
							fmt.Sprintf("--%s is required", a.flag)))
					}
					continue
				}
				d, err := decimal.NewFromString(a.value)
				if err != nil {
					return c.fail(domainerror.NewInvalidInputError(domainerror.ErrCodeInvalidRequestBody,
						fmt.Sprintf("--%s must be a number, got %q", a.flag, a.value)))
				}
				*a.dst = &d
			}

			plan, err := budget.NewAllocateBudgetUseCase(c.cfg.AllocationConfig()).
				Execute(cmd.Context(), req.ToAllocateBudgetInput(c.cfg.AllocationConfig()))
			if err != nil {
				return c.fail(err)
			}
			return c.print(dto.ToBudgetResponse(plan))
		},
	}

	cmd.Flags().StringVar(&income, "income", "", "Monthly income")
	cmd.Flags().StringVar(&fixed, "fixed", "", "Fixed monthly expenses")
	cmd.Flags().StringVar(&variable, "variable", "", "Variable monthly expenses")
	cmd.Flags().StringVar(&savingsRate, "savings-rate", "", "Share of income to save (0-1)")
	cmd.Flags().StringVar(&ceilingRate, "ceiling-rate", "", "Share of income allowed for variable spending (0-1)")
	return cmd
}

func (c *cli) newSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest",
		Short: "Rank categories by potential savings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			transactions, err := c.readTransactions()
			if err != nil {
				return c.fail(err)
			}
			records, err := dto.ToTransactionRecords(transactions)
			if err != nil {
				return c.fail(err)
			}
			advisorConfig, err := c.cfg.AdvisorConfig()
			if err != nil {
				return c.fail(err)
			}

			set, err := advisor.NewAdviseSpendingUseCase(advisorConfig).
				Execute(cmd.Context(), advisor.AdviseSpendingInput{Transactions: records})
			if err != nil {
				return c.fail(err)
			}
			return c.print(dto.ToSuggestionsResponse(set))
		},
	}
}

func (c *cli) newForecastCmd() *cobra.Command {
	var asOf, horizon string

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project next period spending per category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			transactions, err := c.readTransactions()
			if err != nil {
				return c.fail(err)
			}
			records, err := dto.ToTransactionRecords(transactions)
			if err != nil {
				return c.fail(err)
			}
			asOfDate, err := dto.ParseAsOf(asOf)
			if err != nil {
				return c.fail(err)
			}
			spec, err := dto.ParseHorizon(horizon)
			if err != nil {
				return c.fail(err)
			}
			strategy, err := c.strategy()
			if err != nil {
				return c.fail(err)
			}

			result, err := forecast.NewForecastSpendingUseCase(c.cfg.ForecastConfig(), strategy).
				Execute(cmd.Context(), forecast.ForecastSpendingInput{
					Transactions: records,
					AsOf:         asOfDate,
					Horizon:      spec,
				})
			if err != nil {
				return c.fail(err)
			}
			return c.print(dto.ToForecastResponse(result))
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "Reference date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&horizon, "horizon", "next month", "Forecast horizon: next week, next month or next quarter")
	return cmd
}

func (c *cli) newInsightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Report weekday and time-of-day spending patterns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			transactions, err := c.readTransactions()
			if err != nil {
				return c.fail(err)
			}
			records, err := dto.ToTransactionRecords(transactions)
			if err != nil {
				return c.fail(err)
			}

			result, err := insights.NewAnalyzeSpendingUseCase().
				Execute(cmd.Context(), insights.AnalyzeSpendingInput{Transactions: records})
			if err != nil {
				return c.fail(err)
			}
			return c.print(dto.ToInsightsResponse(result))
		},
	}
}
