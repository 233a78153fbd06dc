// Package loans provides common loan processing utilities.
package loans

import (
	"math"

	"github.com/iwvelando/finance-planner/pkg/mathutil"
)

// Payment holds the values for a given payment.
type Payment struct {
	Month              int
	Payment            float64
	Principal          float64
	Interest           float64
	RemainingPrincipal float64
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
func CalculateMonthlyPayment(principal, annualInterestRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	if annualInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(termMonths)
	}

	// The negative power underflows to 0 at extreme rates instead of
	// overflowing, leaving the interest-only payment.
	periodicInterestRate := mathutil.MonthlyRate(annualInterestRate)
	discountFactor := 1.00 - math.Pow(1.00+periodicInterestRate, -float64(termMonths))
	return principal * periodicInterestRate / discountFactor
}

// CalculatePresentValue returns the principal that a level monthly payment
// fully repays over termMonths at the given annual rate.
func CalculatePresentValue(monthlyPayment, annualInterestRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	if annualInterestRate == 0 {
		return monthlyPayment * float64(termMonths)
	}

	periodicInterestRate := mathutil.MonthlyRate(annualInterestRate)
	discountFactor := 1.00 - math.Pow(1.00+periodicInterestRate, -float64(termMonths))
	return monthlyPayment * discountFactor / periodicInterestRate
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * mathutil.MonthlyRate(annualInterestRate)
}

// ApplyPayment applies one monthly payment to a balance. The returned balance
// never goes below zero; any overpayment in the final month is dropped.
func ApplyPayment(balance, monthlyPayment, annualInterestRate float64) (remaining, interest float64) {
	interest = CalculateInterestPayment(balance, annualInterestRate)
	remaining = balance - (monthlyPayment - interest)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, interest
}

// GenerateSchedule builds the month-by-month amortization schedule of a loan
// over its full term.
func GenerateSchedule(principal, annualInterestRate float64, termMonths int) []Payment {
	monthlyPayment := CalculateMonthlyPayment(principal, annualInterestRate, termMonths)
	schedule := make([]Payment, 0, termMonths)

	balance := principal
	for month := 1; month <= termMonths; month++ {
		remaining, interest := ApplyPayment(balance, monthlyPayment, annualInterestRate)
		if month == termMonths {
			// We will get machine error otherwise so just set to 0.
			remaining = 0
		}
		schedule = append(schedule, Payment{
			Month:              month,
			Payment:            monthlyPayment,
			Principal:          balance - remaining,
			Interest:           interest,
			RemainingPrincipal: remaining,
		})
		balance = remaining
	}

	return schedule
}

// TotalInterest sums the interest paid across a schedule.
func TotalInterest(schedule []Payment) float64 {
	total := 0.0
	for _, payment := range schedule {
		total += payment.Interest
	}
	return total
}
