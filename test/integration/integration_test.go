package integration

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/finance-planner/internal/config"
	"github.com/iwvelando/finance-planner/pkg/loans"
	"github.com/iwvelando/finance-planner/pkg/output"
	"github.com/iwvelando/finance-planner/pkg/simulation"
	"github.com/iwvelando/finance-planner/pkg/testutil"
	"github.com/iwvelando/finance-planner/pkg/tvm"
	"go.uber.org/zap"
)

func loadExample(t *testing.T) *config.Configuration {
	t.Helper()
	conf, err := config.LoadConfiguration("../../config.yaml.example")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	return conf
}

// TestExampleConfigBaseline runs the example config exactly as the CLI does
// and checks the headline figures.
func TestExampleConfigBaseline(t *testing.T) {
	conf := loadExample(t)

	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("example config produced warnings: %v", warnings)
	}

	mode, params, err := conf.SolveInputs()
	if err != nil {
		t.Fatalf("SolveInputs() error = %v", err)
	}
	solution, err := tvm.Solve(mode, params)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if math.Abs(solution.Payment-13088.88) > 0.01 {
		t.Errorf("expected payment 13088.88, got %.2f", solution.Payment)
	}

	loanA, loanB, investment := conf.SimulationInputs()
	result, err := simulation.NewSimulator(zap.NewNop()).Run(loanA, loanB, investment)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Horizon != 372 {
		t.Errorf("expected 372 months, got %d", result.Horizon)
	}
	testutil.AssertWithin(t, "MonthlyContribution", result.MonthlyContribution, 5097.35, 0.01)
	if row := testutil.FindRow(result, 180); row == nil || row.BalanceA != 0 {
		t.Errorf("expected loan A repaid at month 180, got %+v", row)
	}

	snapshotA := result.At(simulation.LoanA, conf.Comparison.Inspect.YearA)
	snapshotB := result.At(simulation.LoanB, conf.Comparison.Inspect.YearB)
	if snapshotA.Row.Month != 60 || snapshotB.Row.Month != 120 {
		t.Errorf("unexpected snapshot months %d and %d", snapshotA.Row.Month, snapshotB.Row.Month)
	}
	if snapshotA.NetBalance >= 0 {
		t.Errorf("loan A after 5 years should be a net liability, got %.0f", snapshotA.NetBalance)
	}

	last := testutil.FindRow(result, result.Horizon)
	testutil.AssertWithin(t, "final InvestmentValue", last.InvestmentValue, 4935699, 1)
}

// TestSimulationMatchesSchedule checks that the per-loan balances in the
// comparison agree with the standalone amortization schedule.
func TestSimulationMatchesSchedule(t *testing.T) {
	conf := loadExample(t)
	loanA, loanB, investment := conf.SimulationInputs()

	result, err := simulation.Simulate(loanA, loanB, investment)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	schedule := loans.GenerateSchedule(loanB.Principal, loanB.AnnualRatePct, loanB.TermMonths())
	for i, payment := range schedule {
		row := result.Rows[i]
		if math.Abs(row.BalanceB-payment.RemainingPrincipal) > 1 {
			t.Fatalf("month %d: simulated balance %.0f, schedule %.2f", row.Month, row.BalanceB, payment.RemainingPrincipal)
		}
	}

	summary := result.Summary()
	if math.Abs(summary.LoanB.TotalInterest-result.Rows[len(result.Rows)-1].CumulativeInterestB) > 1 {
		t.Errorf("summary interest %.2f disagrees with the table", summary.LoanB.TotalInterest)
	}
}

func TestOutputFormats(t *testing.T) {
	conf := loadExample(t)
	loanA, loanB, investment := conf.SimulationInputs()

	result, err := simulation.Simulate(loanA, loanB, investment)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	var pretty bytes.Buffer
	output.PrettyComparison(&pretty, result, result.At(simulation.LoanA, 5))
	if !strings.Contains(pretty.String(), "--- Comparing Short term (A) with Long term (B) ---") {
		t.Errorf("pretty output missing header:\n%s", pretty.String())
	}
	if !strings.Contains(pretty.String(), "4,935,699") {
		t.Errorf("pretty output missing final investment value")
	}

	var csvOut bytes.Buffer
	if err := output.CsvComparison(&csvOut, result); err != nil {
		t.Fatalf("CsvComparison() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(csvOut.String()), "\n")
	if len(lines) != 373 {
		t.Errorf("expected 373 CSV lines, got %d", len(lines))
	}
	if lines[1] != "1,0.0833,1992455,1997552,5097,8167,8167" {
		t.Errorf("unexpected first record %q", lines[1])
	}
}

func TestSolverModesAgree(t *testing.T) {
	conf := loadExample(t)
	_, params, err := conf.SolveInputs()
	if err != nil {
		t.Fatalf("SolveInputs() error = %v", err)
	}

	payment, err := tvm.Solve(tvm.ModePayment, params)
	if err != nil {
		t.Fatalf("Solve(payment) error = %v", err)
	}

	params.Payment = payment.Payment
	for _, mode := range []tvm.SolveMode{tvm.ModePrincipal, tvm.ModeTerm, tvm.ModeRate} {
		solution, err := tvm.Solve(mode, params)
		if err != nil {
			t.Fatalf("Solve(%s) error = %v", mode, err)
		}
		switch mode {
		case tvm.ModePrincipal:
			if math.Abs(solution.Principal-params.Principal) > 0.01 {
				t.Errorf("principal %.2f, expected %.2f", solution.Principal, params.Principal)
			}
		case tvm.ModeTerm:
			if math.Abs(solution.TermMonths-float64(params.TermYears*12)) > 1e-6 {
				t.Errorf("term %.6f months, expected %d", solution.TermMonths, params.TermYears*12)
			}
		case tvm.ModeRate:
			if math.Abs(solution.AnnualRatePct-params.AnnualRatePct) > 1e-6 {
				t.Errorf("rate %.8f, expected %.8f", solution.AnnualRatePct, params.AnnualRatePct)
			}
		}
	}
}
