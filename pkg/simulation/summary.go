package simulation

import (
	"github.com/iwvelando/finance-planner/pkg/constants"
	"github.com/iwvelando/finance-planner/pkg/loans"
	"github.com/iwvelando/finance-planner/pkg/mathutil"
)

// LoanSummary describes one loan over its whole term.
type LoanSummary struct {
	Name           string  `json:"name"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalPaid      float64 `json:"totalPaid"`
	TotalInterest  float64 `json:"totalInterest"`
	PayoffMonth    int     `json:"payoffMonth"`
}

// Summary holds the headline figures of a comparison.
type Summary struct {
	LoanA                LoanSummary `json:"loanA"`
	LoanB                LoanSummary `json:"loanB"`
	InterestSavedByA     float64     `json:"interestSavedByA"`
	TotalContributed     float64     `json:"totalContributed"`
	InvestmentAtHorizon  float64     `json:"investmentAtHorizon"`
	NetBalanceAtHorizon  float64     `json:"netBalanceAtHorizon"`
	FinalInvestmentValue float64     `json:"finalInvestmentValue"`
}

// Summary computes the headline figures. The net balance at the investment
// horizon compares the investment against loan B, the loan it is paired with.
func (r *Result) Summary() Summary {
	summary := Summary{
		LoanA: r.loanSummary(LoanA),
		LoanB: r.loanSummary(LoanB),
	}
	summary.InterestSavedByA = summary.LoanB.TotalInterest - summary.LoanA.TotalInterest

	contributionMonths := r.Investment.HorizonYears * constants.MonthsPerYear
	if contributionMonths > r.Horizon {
		contributionMonths = r.Horizon
	}
	summary.TotalContributed = r.MonthlyContribution * float64(contributionMonths)

	if len(r.Rows) > 0 {
		atHorizon, _ := r.RowAtYear(r.Investment.HorizonYears)
		summary.InvestmentAtHorizon = atHorizon.InvestmentValue
		summary.NetBalanceAtHorizon = atHorizon.NetBalance(LoanB)
		summary.FinalInvestmentValue = r.Rows[len(r.Rows)-1].InvestmentValue
	}

	return summary
}

func (r *Result) loanSummary(side Side) LoanSummary {
	loan := r.Loan(side)
	schedule := loans.GenerateSchedule(loan.Principal, loan.AnnualRatePct, loan.TermMonths())

	summary := LoanSummary{
		Name:           loan.Name,
		MonthlyPayment: mathutil.Round(r.Payment(side)),
		TotalPaid:      r.Payment(side) * float64(loan.TermMonths()),
		TotalInterest:  loans.TotalInterest(schedule),
	}
	for _, row := range r.Rows {
		if mathutil.IsZero(row.Balance(side)) {
			summary.PayoffMonth = row.Month
			break
		}
	}
	return summary
}
