package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/dvloznov/finsmart/internal/report"
	"github.com/spf13/cobra"
)

const trendMonths = 6

func reportCmd(a *app) *cobra.Command {
	var (
		userID string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the dashboard and six-month report for a user",
		Long: `Print the dashboard summary, the monthly income/expense trend and the
expense breakdown by category. Without --user the demo snapshot is used.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := loadSnapshot(cmd.Context(), a.cfg, a.log, userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeReportJSON(out, snap, time.Now())
			}
			return writeReport(out, snap, time.Now(), a.cfg.DisplayCurrency)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id whose stored snapshot to report on")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")
	return cmd
}

type reportDoc struct {
	Dashboard  report.Dashboard       `json:"dashboard"`
	Trend      []report.MonthTotal    `json:"trend"`
	ByCategory []report.CategoryTotal `json:"byCategory"`
}

func buildReport(snap domain.Snapshot, now time.Time) reportDoc {
	return reportDoc{
		Dashboard:  report.BuildDashboard(snap, now),
		Trend:      report.MonthlyTrend(snap.Transactions, now, trendMonths),
		ByCategory: report.ExpenseByCategory(snap.Transactions, snap.Categories),
	}
}

func writeReportJSON(w io.Writer, snap domain.Snapshot, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildReport(snap, now))
}

func writeReport(w io.Writer, snap domain.Snapshot, now time.Time, currency string) error {
	doc := buildReport(snap, now)
	d := doc.Dashboard

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Total balance\t%s %s\n", d.TotalBalance.StringFixed(2), currency)
	fmt.Fprintf(tw, "Accounts\t%d\n", d.AccountCount)
	fmt.Fprintf(tw, "Income this month\t%s\n", d.MonthIncome.StringFixed(2))
	fmt.Fprintf(tw, "Expense this month\t%s\n", d.MonthExpense.StringFixed(2))

	fmt.Fprintln(tw, "\nRecent transactions")
	for _, t := range d.Recent {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			t.Date.Format("2006-01-02"),
			t.Description,
			report.CategoryName(snap.Categories, t.CategoryID),
			signed(t),
		)
	}

	fmt.Fprintln(tw, "\nMonth\tIncome\tExpense")
	for _, m := range doc.Trend {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Month, m.Income.StringFixed(2), m.Expense.StringFixed(2))
	}

	fmt.Fprintln(tw, "\nCategory\tSpent")
	for _, c := range doc.ByCategory {
		fmt.Fprintf(tw, "%s\t%s\n", c.Name, c.Total.StringFixed(2))
	}

	return tw.Flush()
}

func signed(t domain.Transaction) string {
	if t.Type == domain.TransactionTypeIncome {
		return "+" + t.Amount.StringFixed(2)
	}
	return "-" + t.Amount.StringFixed(2)
}
