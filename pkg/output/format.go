// Package output provides utilities for formatting and displaying solver and
// comparison results.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/finance-planner/pkg/format"
	"github.com/iwvelando/finance-planner/pkg/mathutil"
	"github.com/iwvelando/finance-planner/pkg/simulation"
	"github.com/iwvelando/finance-planner/pkg/tvm"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CsvHeader is the column layout of the comparison table export.
var CsvHeader = []string{
	"month",
	"year",
	"balance_a",
	"balance_b",
	"investment",
	"cumulative_interest_a",
	"cumulative_interest_b",
}

// SolutionLine renders the solved quantity as a single human-readable line.
func SolutionLine(solution tvm.Solution) string {
	switch solution.Mode {
	case tvm.ModePayment:
		return "Monthly payment: " + format.Amount(solution.Payment)
	case tvm.ModePrincipal:
		return "Maximum principal: " + format.Amount(solution.Principal)
	case tvm.ModeTerm:
		return "Repayment term: " + format.Term(solution.TermMonths)
	default:
		return "Annual rate: " + format.Rate(solution.AnnualRatePct)
	}
}

// PrettySolution writes a human-readable solver result.
func PrettySolution(w io.Writer, solution tvm.Solution) {
	fmt.Fprintf(w, "--- Solving for %s ---\n", solution.Mode)
	fmt.Fprintf(w, "Principal       | %s\n", format.Amount(solution.Principal))
	fmt.Fprintf(w, "Monthly payment | %s\n", format.Amount(solution.Payment))
	fmt.Fprintf(w, "Annual rate     | %s\n", format.Rate(solution.AnnualRatePct))
	fmt.Fprintf(w, "Term            | %s\n", format.Term(solution.TermMonths))
	fmt.Fprintf(w, "%s\n", SolutionLine(solution))
}

// PrettyNoSolution writes the message shown when the solver finds no result.
func PrettyNoSolution(w io.Writer, mode tvm.SolveMode, err error) {
	fmt.Fprintf(w, "--- Solving for %s ---\n", mode)
	fmt.Fprintf(w, "The parameters have no mathematical solution: %v\n", err)
}

// CsvSolution writes a solver result as a two-line CSV table.
func CsvSolution(w io.Writer, solution tvm.Solution) error {
	writer := csv.NewWriter(w)
	records := [][]string{
		{"mode", "principal", "payment", "annual_rate", "term_months", "term_years"},
		{
			solution.Mode.String(),
			fmtFloat(solution.Principal),
			fmtFloat(solution.Payment),
			fmtFloat(solution.AnnualRatePct),
			fmtFloat(solution.TermMonths),
			fmtFloat(solution.TermYears),
		},
	}
	if err := writer.WriteAll(records); err != nil {
		return err
	}
	return writer.Error()
}

// PrettyComparison writes the comparison header, the yearly table and any
// requested snapshots.
func PrettyComparison(w io.Writer, result *simulation.Result, snapshots ...simulation.Snapshot) {
	p := message.NewPrinter(language.English)

	fmt.Fprintf(w, "--- Comparing %s (A) with %s (B) ---\n", result.LoanA.Name, result.LoanB.Name)
	_, _ = p.Fprintf(w, "Payment A: %.0f | Payment B: %.0f | Difference: %.0f\n",
		result.PaymentA, result.PaymentB, result.PaymentDifference)
	_, _ = p.Fprintf(w, "Invested monthly: %.0f at %.2f%% p.a. for %d years\n",
		result.MonthlyContribution, result.Investment.AnnualReturnPct, result.Investment.HorizonYears)
	if mathutil.IsNegative(result.PaymentDifference) {
		fmt.Fprintf(w, "Loan A has the lower payment; nothing is freed up for investing\n")
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "Year | Balance A     | Balance B     | Investment    | Interest A    | Interest B\n")
	fmt.Fprintf(w, "____ | _____________ | _____________ | _____________ | _____________ | _____________\n")
	for _, row := range result.Rows {
		if row.Month%12 != 0 && row.Month != len(result.Rows) {
			continue
		}
		_, _ = p.Fprintf(w, "%s | %13.0f | %13.0f | %13.0f | %13.0f | %13.0f\n",
			fmt.Sprintf("%4.1f", row.Year), row.BalanceA, row.BalanceB, row.InvestmentValue,
			row.CumulativeInterestA, row.CumulativeInterestB)
	}

	summary := result.Summary()
	fmt.Fprintf(w, "\n")
	_, _ = p.Fprintf(w, "Total interest A: %.0f | Total interest B: %.0f | Saved by A: %.0f\n",
		summary.LoanA.TotalInterest, summary.LoanB.TotalInterest, summary.InterestSavedByA)
	_, _ = p.Fprintf(w, "Investment after %d years: %.0f | Net of balance B: %.0f\n",
		result.Investment.HorizonYears, summary.InvestmentAtHorizon, summary.NetBalanceAtHorizon)

	for _, snapshot := range snapshots {
		fmt.Fprintf(w, "\n")
		PrettySnapshot(w, result, snapshot)
	}
}

// PrettySnapshot writes one point-in-time lookup.
func PrettySnapshot(w io.Writer, result *simulation.Result, snapshot simulation.Snapshot) {
	loan := result.Loan(snapshot.Side)
	fmt.Fprintf(w, "--- %s (%s) after %d years ---\n", loan.Name, snapshot.Side, snapshot.Year)
	if snapshot.Clamped {
		fmt.Fprintf(w, "Year is outside the table; showing month %d\n", snapshot.Row.Month)
	}
	fmt.Fprintf(w, "Remaining balance   | %s\n", format.Amount(snapshot.Balance))
	fmt.Fprintf(w, "Interest paid       | %s\n", format.Amount(snapshot.CumulativeInterest))
	fmt.Fprintf(w, "Investment value    | %s\n", format.Amount(snapshot.InvestmentValue))
	fmt.Fprintf(w, "Net balance         | %s (%s)\n", format.Amount(snapshot.NetBalance), snapshot.Position())
}

// CsvComparison writes every simulated month as CSV.
func CsvComparison(w io.Writer, result *simulation.Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CsvHeader); err != nil {
		return err
	}
	for _, row := range result.Rows {
		record := []string{
			strconv.Itoa(row.Month),
			strconv.FormatFloat(row.Year, 'f', 4, 64),
			fmtWhole(row.BalanceA),
			fmtWhole(row.BalanceB),
			fmtWhole(row.InvestmentValue),
			fmtWhole(row.CumulativeInterestA),
			fmtWhole(row.CumulativeInterestB),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CsvString returns the CSV export of a comparison as a string.
func CsvString(result *simulation.Result) (string, error) {
	var buf bytes.Buffer
	if err := CsvComparison(&buf, result); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func fmtWhole(x float64) string {
	return strconv.FormatFloat(x, 'f', 0, 64)
}
