package simulation

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func shortVersusLong() (Loan, Loan, Investment) {
	return Loan{Name: "Short term", Principal: 2000000, AnnualRatePct: 4.9, TermYears: 15},
		Loan{Name: "Long term", Principal: 2000000, AnnualRatePct: 4.9, TermYears: 30},
		Investment{Auto: true, AnnualReturnPct: 7.0, HorizonYears: 15}
}

func TestSimulateReferenceComparison(t *testing.T) {
	a, b, inv := shortVersusLong()
	result, err := Simulate(a, b, inv)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	if math.Abs(result.PaymentA-15711.88) > 0.01 {
		t.Errorf("PaymentA = %.2f, expected 15711.88", result.PaymentA)
	}
	if math.Abs(result.PaymentB-10614.53) > 0.01 {
		t.Errorf("PaymentB = %.2f, expected 10614.53", result.PaymentB)
	}
	if result.PaymentA <= result.PaymentB {
		t.Errorf("shorter loan should have the larger payment")
	}
	if math.Abs(result.MonthlyContribution-(result.PaymentA-result.PaymentB)) > 1e-9 {
		t.Errorf("auto contribution %.4f != payment difference %.4f",
			result.MonthlyContribution, result.PaymentA-result.PaymentB)
	}
	if result.PaymentDifference != result.PaymentA-result.PaymentB {
		t.Errorf("PaymentDifference = %.4f", result.PaymentDifference)
	}
	if result.Horizon != 372 || len(result.Rows) != 372 {
		t.Fatalf("expected 372 months, got horizon %d with %d rows", result.Horizon, len(result.Rows))
	}

	// Reference rows computed independently with the same month loop.
	references := []Row{
		{Month: 1, BalanceA: 1992455, BalanceB: 1997552, InvestmentValue: 5097, CumulativeInterestA: 8167, CumulativeInterestB: 8167},
		{Month: 12, BalanceA: 1907396, BalanceB: 1969957, InvestmentValue: 63169, CumulativeInterestA: 95939, CumulativeInterestB: 97331},
		{Month: 60, BalanceA: 1488186, BalanceB: 1833954, InvestmentValue: 364934, CumulativeInterestA: 430899, CumulativeInterestB: 470826},
		{Month: 120, BalanceA: 834609, BalanceB: 1621916, InvestmentValue: 882274, CumulativeInterestA: 720035, CumulativeInterestB: 895660},
		{Month: 180, BalanceA: 0, BalanceB: 1351147, InvestmentValue: 1615668, CumulativeInterestA: 828139, CumulativeInterestB: 1261763},
		{Month: 181, BalanceA: 0, BalanceB: 1346050, InvestmentValue: 1625092, CumulativeInterestA: 828139, CumulativeInterestB: 1267281},
		{Month: 360, BalanceA: 0, BalanceB: 0, InvestmentValue: 4602951, CumulativeInterestA: 828139, CumulativeInterestB: 1821232},
		{Month: 372, BalanceA: 0, BalanceB: 0, InvestmentValue: 4935699, CumulativeInterestA: 828139, CumulativeInterestB: 1821232},
	}

	for _, ref := range references {
		row := result.Rows[ref.Month-1]
		if row.Month != ref.Month {
			t.Errorf("row %d has month %d", ref.Month-1, row.Month)
		}
		if math.Abs(row.Year-float64(ref.Month)/12) > 1e-12 {
			t.Errorf("month %d year = %v", ref.Month, row.Year)
		}
		checks := []struct {
			field    string
			got, exp float64
		}{
			{"BalanceA", row.BalanceA, ref.BalanceA},
			{"BalanceB", row.BalanceB, ref.BalanceB},
			{"InvestmentValue", row.InvestmentValue, ref.InvestmentValue},
			{"CumulativeInterestA", row.CumulativeInterestA, ref.CumulativeInterestA},
			{"CumulativeInterestB", row.CumulativeInterestB, ref.CumulativeInterestB},
		}
		for _, c := range checks {
			// One unit of slack for values that sit on a rounding boundary.
			if math.Abs(c.got-c.exp) > 1 {
				t.Errorf("month %d %s = %.0f, expected %.0f", ref.Month, c.field, c.got, c.exp)
			}
		}
	}
}

func TestSimulateBalanceInvariants(t *testing.T) {
	a, b, inv := shortVersusLong()
	result, err := Simulate(a, b, inv)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	for _, side := range []Side{LoanA, LoanB} {
		term := result.Loan(side).TermMonths()
		previous := math.Inf(1)
		var frozen Row
		for _, row := range result.Rows {
			balance := row.Balance(side)
			if balance < 0 {
				t.Fatalf("loan %s month %d balance negative: %.0f", side, row.Month, balance)
			}
			switch {
			case row.Month <= term:
				if balance > previous {
					t.Errorf("loan %s month %d balance increased: %.0f > %.0f", side, row.Month, balance, previous)
				}
				previous = balance
				frozen = row
			default:
				if balance != 0 {
					t.Errorf("loan %s month %d balance after term = %.0f, expected 0", side, row.Month, balance)
				}
				if row.CumulativeInterest(side) != frozen.CumulativeInterest(side) {
					t.Errorf("loan %s month %d cumulative interest moved after term", side, row.Month)
				}
			}
		}
		if final := result.Rows[term-1].Balance(side); final != 0 {
			t.Errorf("loan %s balance at end of term = %.0f, expected 0", side, final)
		}
	}
}

func TestSimulateInvestmentNonDecreasing(t *testing.T) {
	a, b, _ := shortVersusLong()
	investments := []Investment{
		{MonthlyContribution: 3000, AnnualReturnPct: 7, HorizonYears: 15},
		{MonthlyContribution: 0, AnnualReturnPct: 7, HorizonYears: 15},
		{MonthlyContribution: 500, AnnualReturnPct: 0, HorizonYears: 40},
		{Auto: true, AnnualReturnPct: 12, HorizonYears: 1},
	}

	for _, inv := range investments {
		result, err := Simulate(a, b, inv)
		if err != nil {
			t.Fatalf("Simulate(%+v) error = %v", inv, err)
		}
		previous := 0.0
		for _, row := range result.Rows {
			if row.InvestmentValue < previous {
				t.Fatalf("investment %+v decreased at month %d: %.0f < %.0f", inv, row.Month, row.InvestmentValue, previous)
			}
			previous = row.InvestmentValue
		}
	}
}

func TestSimulateZeroRatesAndContributionWindow(t *testing.T) {
	a := Loan{Principal: 100000, AnnualRatePct: 0, TermYears: 1}
	b := Loan{Principal: 120000, AnnualRatePct: 0, TermYears: 2}
	inv := Investment{MonthlyContribution: 1000, AnnualReturnPct: 0, HorizonYears: 1}

	result, err := Simulate(a, b, inv)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if result.LoanA.Name != "A" || result.LoanB.Name != "B" {
		t.Errorf("default names = %q, %q", result.LoanA.Name, result.LoanB.Name)
	}
	if result.Horizon != 36 {
		t.Fatalf("Horizon = %d, expected 36", result.Horizon)
	}
	if result.MonthlyContribution != 1000 {
		t.Errorf("manual contribution = %.2f, expected 1000", result.MonthlyContribution)
	}

	year1 := result.Rows[11]
	if year1.BalanceA != 0 || year1.BalanceB != 60000 || year1.InvestmentValue != 12000 {
		t.Errorf("month 12 row = %+v", year1)
	}
	if year1.CumulativeInterestA != 0 || year1.CumulativeInterestB != 0 {
		t.Errorf("zero-rate loans accrued interest: %+v", year1)
	}
	// Contributions stop after the investment horizon.
	if last := result.Rows[len(result.Rows)-1]; last.InvestmentValue != 12000 {
		t.Errorf("final investment = %.0f, expected 12000", last.InvestmentValue)
	}
}

func TestSimulateCompoundsBeforeContributing(t *testing.T) {
	a := Loan{Principal: 1000, AnnualRatePct: 0, TermYears: 1}
	b := Loan{Principal: 1000, AnnualRatePct: 0, TermYears: 1}
	inv := Investment{MonthlyContribution: 1000000, AnnualReturnPct: 12, HorizonYears: 1}

	result, err := Simulate(a, b, inv)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	// Month 1: 0*1.01 + 1e6. Month 2: 1e6*1.01 + 1e6.
	if got := result.Rows[0].InvestmentValue; got != 1000000 {
		t.Errorf("month 1 investment = %.0f, expected 1000000", got)
	}
	if got := result.Rows[1].InvestmentValue; got != 2010000 {
		t.Errorf("month 2 investment = %.0f, expected 2010000", got)
	}
	// Growth continues after contributions end.
	last := result.Rows[len(result.Rows)-1].InvestmentValue
	atHorizon := result.Rows[11].InvestmentValue
	expected := atHorizon * math.Pow(1.01, 12)
	if math.Abs(last-expected) > 2 {
		t.Errorf("final investment = %.0f, expected about %.0f", last, expected)
	}
}

func TestSimulateExtremeRateStaysFinite(t *testing.T) {
	a := Loan{Name: "Extreme", Principal: 100000, AnnualRatePct: 1000, TermYears: 100}
	b := Loan{Name: "Plain", Principal: 100000, AnnualRatePct: 5, TermYears: 30}

	tests := []struct {
		name       string
		investment Investment
	}{
		{"Manual contribution", Investment{MonthlyContribution: 100}},
		{"Automatic contribution", Investment{Auto: true, AnnualReturnPct: 5, HorizonYears: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Simulate(a, b, tt.investment)
			if err != nil {
				t.Fatalf("Simulate() error = %v", err)
			}
			if math.IsNaN(result.PaymentA) || math.Abs(result.PaymentA-83333.33) > 0.01 {
				t.Errorf("PaymentA = %v, expected 83333.33", result.PaymentA)
			}
			if result.MonthlyContribution <= 0 {
				t.Errorf("MonthlyContribution = %v, expected positive", result.MonthlyContribution)
			}
			for _, row := range result.Rows {
				for _, v := range []float64{row.BalanceA, row.BalanceB, row.InvestmentValue, row.CumulativeInterestA} {
					if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
						t.Fatalf("month %d has invalid value %v", row.Month, v)
					}
				}
			}
			if _, err := json.Marshal(result.Rows); err != nil {
				t.Errorf("json.Marshal(rows) error = %v", err)
			}
		})
	}
}

func TestAutoContribution(t *testing.T) {
	if got := AutoContribution(15711.88, 10614.53); math.Abs(got-5097.35) > 1e-9 {
		t.Errorf("AutoContribution() = %.4f, expected 5097.35", got)
	}
	if got := AutoContribution(10614.53, 15711.88); got != 0 {
		t.Errorf("AutoContribution() = %.4f, expected 0 when B is dearer", got)
	}

	a, b, inv := shortVersusLong()
	result, err := Simulate(b, a, inv)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if result.MonthlyContribution != 0 {
		t.Errorf("auto contribution = %.2f, expected 0", result.MonthlyContribution)
	}
	if result.PaymentDifference >= 0 {
		t.Errorf("PaymentDifference = %.2f, expected negative", result.PaymentDifference)
	}
}

func TestSimulateRejectsInvalidInputs(t *testing.T) {
	a, b, inv := shortVersusLong()

	tests := []struct {
		name   string
		mutate func(a, b *Loan, inv *Investment)
		field  string
	}{
		{"Zero principal", func(a, b *Loan, inv *Investment) { a.Principal = 0 }, "principal"},
		{"Negative rate", func(a, b *Loan, inv *Investment) { b.AnnualRatePct = -1 }, "rate"},
		{"Zero term", func(a, b *Loan, inv *Investment) { b.TermYears = 0 }, "term"},
		{"Negative contribution", func(a, b *Loan, inv *Investment) {
			inv.Auto = false
			inv.MonthlyContribution = -10
		}, "contribution"},
		{"Negative return", func(a, b *Loan, inv *Investment) { inv.AnnualReturnPct = -3 }, "return"},
		{"Zero horizon", func(a, b *Loan, inv *Investment) { inv.HorizonYears = 0 }, "horizon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			la, lb, li := a, b, inv
			tt.mutate(&la, &lb, &li)
			_, err := Simulate(la, lb, li)
			if err == nil {
				t.Fatal("Simulate() expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Simulate() error %q should mention %q", err, tt.field)
			}
		})
	}
}

func TestResultAt(t *testing.T) {
	a, b, inv := shortVersusLong()
	result, err := Simulate(a, b, inv)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	snapshot := result.At(LoanB, 10)
	if snapshot.Clamped {
		t.Error("year 10 should not be clamped")
	}
	if snapshot.Row.Month != 120 {
		t.Errorf("year 10 row month = %d, expected 120", snapshot.Row.Month)
	}
	if snapshot.NetBalance != snapshot.InvestmentValue-snapshot.Balance {
		t.Errorf("NetBalance = %.0f", snapshot.NetBalance)
	}
	if snapshot.Position() != "net liability" {
		t.Errorf("year 10 position = %s, expected net liability", snapshot.Position())
	}

	// Past loan A's term the balance reads as repaid.
	afterTerm := result.At(LoanA, 25)
	if afterTerm.Clamped || afterTerm.Balance != 0 {
		t.Errorf("year 25 for 15-year loan = %+v, expected repaid and unclamped", afterTerm)
	}
	if afterTerm.Position() != "net asset" {
		t.Errorf("year 25 position = %s, expected net asset", afterTerm.Position())
	}

	beyond := result.At(LoanB, 50)
	if !beyond.Clamped {
		t.Error("year 50 should be clamped")
	}
	if beyond.Row != result.Rows[len(result.Rows)-1] {
		t.Errorf("year 50 should clamp to the last row, got month %d", beyond.Row.Month)
	}

	before := result.At(LoanA, 0)
	if !before.Clamped || before.Row.Month != 1 {
		t.Errorf("year 0 should clamp to the first row, got %+v", before)
	}

	if _, clamped := (&Result{}).RowAtYear(1); !clamped {
		t.Error("empty result should report clamped")
	}
}

func TestSnapshotPosition(t *testing.T) {
	tests := []struct {
		net      float64
		expected string
	}{
		{250, "net asset"},
		{0.001, "net liability"},
		{0, "net liability"},
		{-250, "net liability"},
	}

	for _, tt := range tests {
		if got := (Snapshot{NetBalance: tt.net}).Position(); got != tt.expected {
			t.Errorf("Position() with net %v = %q, expected %q", tt.net, got, tt.expected)
		}
	}
}

func TestResultSummary(t *testing.T) {
	a, b, inv := shortVersusLong()
	result, err := Simulate(a, b, inv)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	summary := result.Summary()
	if summary.LoanA.MonthlyPayment != 15711.88 {
		t.Errorf("loan A monthly payment = %v, expected 15711.88", summary.LoanA.MonthlyPayment)
	}
	if summary.LoanA.PayoffMonth != 180 || summary.LoanB.PayoffMonth != 360 {
		t.Errorf("payoff months = %d, %d, expected 180, 360", summary.LoanA.PayoffMonth, summary.LoanB.PayoffMonth)
	}
	if math.Abs(summary.LoanA.TotalInterest-result.Rows[179].CumulativeInterestA) > 1 {
		t.Errorf("loan A total interest %.2f disagrees with table %.0f",
			summary.LoanA.TotalInterest, result.Rows[179].CumulativeInterestA)
	}
	if math.Abs(summary.LoanA.TotalPaid-summary.LoanA.TotalInterest-a.Principal) > 0.01 {
		t.Errorf("loan A total paid %.2f minus interest should equal principal", summary.LoanA.TotalPaid)
	}
	if summary.InterestSavedByA <= 0 {
		t.Errorf("InterestSavedByA = %.2f, expected positive", summary.InterestSavedByA)
	}
	if math.Abs(summary.TotalContributed-result.MonthlyContribution*180) > 1e-6 {
		t.Errorf("TotalContributed = %.2f", summary.TotalContributed)
	}
	if summary.InvestmentAtHorizon != result.Rows[179].InvestmentValue {
		t.Errorf("InvestmentAtHorizon = %.0f", summary.InvestmentAtHorizon)
	}
	if summary.NetBalanceAtHorizon != result.Rows[179].InvestmentValue-result.Rows[179].BalanceB {
		t.Errorf("NetBalanceAtHorizon = %.0f", summary.NetBalanceAtHorizon)
	}
	if summary.FinalInvestmentValue != result.Rows[371].InvestmentValue {
		t.Errorf("FinalInvestmentValue = %.0f", summary.FinalInvestmentValue)
	}
}

func TestSimulatorRun(t *testing.T) {
	simulator := NewSimulator(zap.NewNop())
	a, b, inv := shortVersusLong()

	result, err := simulator.Run(a, b, inv)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Rows) != result.Horizon {
		t.Errorf("Run() produced %d rows for horizon %d", len(result.Rows), result.Horizon)
	}

	a.Principal = -1
	if _, err := NewSimulator(nil).Run(a, b, inv); err == nil {
		t.Error("Run() expected error for invalid loan")
	}
}
