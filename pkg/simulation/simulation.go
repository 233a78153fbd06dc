// Package simulation compares two amortizing loans month by month against a
// parallel investment stream.
package simulation

import (
	"fmt"

	"github.com/iwvelando/finance-planner/pkg/constants"
	"github.com/iwvelando/finance-planner/pkg/loans"
	"github.com/iwvelando/finance-planner/pkg/mathutil"
	"github.com/iwvelando/finance-planner/pkg/validation"
)

// Side identifies one of the two compared loans.
type Side int

const (
	LoanA Side = iota
	LoanB
)

func (s Side) String() string {
	if s == LoanB {
		return "B"
	}
	return "A"
}

// Loan is one amortizing loan. Its payment is always derived from the other
// fields.
type Loan struct {
	Name          string
	Principal     float64
	AnnualRatePct float64
	TermYears     int
}

// TermMonths returns the number of scheduled payments.
func (l Loan) TermMonths() int {
	return l.TermYears * constants.MonthsPerYear
}

// MonthlyPayment returns the level payment that repays the loan over its term.
func (l Loan) MonthlyPayment() float64 {
	return loans.CalculateMonthlyPayment(l.Principal, l.AnnualRatePct, l.TermMonths())
}

// Investment is the parallel savings stream. With Auto set the contribution is
// derived from the payment difference and MonthlyContribution is ignored.
type Investment struct {
	Auto                bool
	MonthlyContribution float64
	AnnualReturnPct     float64
	HorizonYears        int
}

// Row is the end-of-month snapshot. Money fields are rounded to whole units.
type Row struct {
	Month               int     `json:"month"`
	Year                float64 `json:"year"`
	BalanceA            float64 `json:"balanceA"`
	BalanceB            float64 `json:"balanceB"`
	InvestmentValue     float64 `json:"investmentValue"`
	CumulativeInterestA float64 `json:"cumulativeInterestA"`
	CumulativeInterestB float64 `json:"cumulativeInterestB"`
}

// Balance returns the remaining balance of the given loan.
func (r Row) Balance(side Side) float64 {
	if side == LoanB {
		return r.BalanceB
	}
	return r.BalanceA
}

// CumulativeInterest returns the interest paid so far on the given loan.
func (r Row) CumulativeInterest(side Side) float64 {
	if side == LoanB {
		return r.CumulativeInterestB
	}
	return r.CumulativeInterestA
}

// NetBalance is the investment value minus the remaining balance of the
// given loan. Positive means a net asset position.
func (r Row) NetBalance(side Side) float64 {
	return r.InvestmentValue - r.Balance(side)
}

// Result is the full output of one simulation run.
type Result struct {
	LoanA               Loan
	LoanB               Loan
	Investment          Investment
	PaymentA            float64
	PaymentB            float64
	PaymentDifference   float64
	MonthlyContribution float64
	Horizon             int
	Rows                []Row
}

// Horizon returns the number of simulated months: the longer term plus a
// buffer year.
func Horizon(a, b Loan) int {
	longest := a.TermMonths()
	if b.TermMonths() > longest {
		longest = b.TermMonths()
	}
	return longest + constants.BufferMonths
}

// AutoContribution is the monthly amount freed up by choosing loan B over
// loan A, or 0 when B is not cheaper.
func AutoContribution(paymentA, paymentB float64) float64 {
	return mathutil.Max(0, paymentA-paymentB)
}

// Simulate runs the month-by-month comparison.
func Simulate(a, b Loan, inv Investment) (*Result, error) {
	if a.Name == "" {
		a.Name = LoanA.String()
	}
	if b.Name == "" {
		b.Name = LoanB.String()
	}
	if err := validation.ValidateLoan(a.Name, a.Principal, a.AnnualRatePct, a.TermYears); err != nil {
		return nil, err
	}
	if err := validation.ValidateLoan(b.Name, b.Principal, b.AnnualRatePct, b.TermYears); err != nil {
		return nil, err
	}

	paymentA := a.MonthlyPayment()
	paymentB := b.MonthlyPayment()

	contribution := inv.MonthlyContribution
	if inv.Auto {
		contribution = AutoContribution(paymentA, paymentB)
	}
	if err := validation.ValidateInvestment(contribution, inv.AnnualReturnPct, inv.HorizonYears); err != nil {
		return nil, err
	}

	horizon := Horizon(a, b)
	termA, termB := a.TermMonths(), b.TermMonths()
	contributionMonths := inv.HorizonYears * constants.MonthsPerYear
	growth := 1 + mathutil.MonthlyRate(inv.AnnualReturnPct)

	balanceA, balanceB := a.Principal, b.Principal
	var interestA, interestB, investment float64

	rows := make([]Row, 0, horizon)
	for month := 1; month <= horizon; month++ {
		// Past its term a loan is left untouched, carrying the last values forward.
		if month <= termA {
			var interest float64
			balanceA, interest = loans.ApplyPayment(balanceA, paymentA, a.AnnualRatePct)
			interestA += interest
		}
		if month <= termB {
			var interest float64
			balanceB, interest = loans.ApplyPayment(balanceB, paymentB, b.AnnualRatePct)
			interestB += interest
		}

		// Compound first, then contribute: a new contribution earns nothing in
		// the month it is made.
		investment *= growth
		if month <= contributionMonths {
			investment += contribution
		}

		rows = append(rows, Row{
			Month:               month,
			Year:                float64(month) / constants.MonthsPerYear,
			BalanceA:            mathutil.RoundWhole(balanceA),
			BalanceB:            mathutil.RoundWhole(balanceB),
			InvestmentValue:     mathutil.RoundWhole(investment),
			CumulativeInterestA: mathutil.RoundWhole(interestA),
			CumulativeInterestB: mathutil.RoundWhole(interestB),
		})
	}

	return &Result{
		LoanA:               a,
		LoanB:               b,
		Investment:          inv,
		PaymentA:            paymentA,
		PaymentB:            paymentB,
		PaymentDifference:   paymentA - paymentB,
		MonthlyContribution: contribution,
		Horizon:             horizon,
		Rows:                rows,
	}, nil
}

// Snapshot is the state of one loan and the investment at the end of a
// requested year.
type Snapshot struct {
	Side               Side
	Year               int
	Row                Row
	Balance            float64
	CumulativeInterest float64
	InvestmentValue    float64
	NetBalance         float64
	Clamped            bool
}

// Position describes the sign of the net balance.
func (s Snapshot) Position() string {
	if mathutil.IsPositive(s.NetBalance) {
		return "net asset"
	}
	return "net liability"
}

// RowAtYear returns the end-of-year row for year, i.e. month year*12. A year
// outside the table is clamped to the first or last row and reported with
// clamped set.
func (r *Result) RowAtYear(year int) (row Row, clamped bool) {
	if len(r.Rows) == 0 {
		return Row{}, true
	}
	index := year*constants.MonthsPerYear - 1
	switch {
	case index < 0:
		return r.Rows[0], true
	case index >= len(r.Rows):
		return r.Rows[len(r.Rows)-1], true
	}
	return r.Rows[index], false
}

// At returns the snapshot of one loan at the end of year.
func (r *Result) At(side Side, year int) Snapshot {
	row, clamped := r.RowAtYear(year)
	return Snapshot{
		Side:               side,
		Year:               year,
		Row:                row,
		Balance:            row.Balance(side),
		CumulativeInterest: row.CumulativeInterest(side),
		InvestmentValue:    row.InvestmentValue,
		NetBalance:         row.NetBalance(side),
		Clamped:            clamped,
	}
}

// Loan returns the loan on the given side.
func (r *Result) Loan(side Side) Loan {
	if side == LoanB {
		return r.LoanB
	}
	return r.LoanA
}

// Payment returns the monthly payment of the loan on the given side.
func (r *Result) Payment(side Side) float64 {
	if side == LoanB {
		return r.PaymentB
	}
	return r.PaymentA
}

func (r *Result) String() string {
	return fmt.Sprintf("%s vs %s over %d months", r.LoanA.Name, r.LoanB.Name, r.Horizon)
}
