// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"math"

	"github.com/iwvelando/finance-planner/pkg/constants"
	"github.com/iwvelando/finance-planner/pkg/loans"
	"github.com/iwvelando/finance-planner/pkg/mathutil"
)

// ValidateLoan checks the parameters of one amortizing loan.
func ValidateLoan(name string, principal, annualRatePct float64, termYears int) error {
	if math.IsNaN(principal) || math.IsInf(principal, 0) || principal <= 0 {
		return fmt.Errorf("loan '%s': principal must be positive, got %v", name, principal)
	}
	if math.IsNaN(annualRatePct) || math.IsInf(annualRatePct, 0) || annualRatePct < 0 {
		return fmt.Errorf("loan '%s': annual rate must not be negative, got %v", name, annualRatePct)
	}
	if termYears <= 0 || termYears > constants.MaxTermYears {
		return fmt.Errorf("loan '%s': term must be between 1 and %d years, got %d",
			name, constants.MaxTermYears, termYears)
	}
	return nil
}

// ValidateInvestment checks the parameters of the parallel investment stream.
func ValidateInvestment(monthlyContribution, annualReturnPct float64, horizonYears int) error {
	if math.IsNaN(monthlyContribution) || math.IsInf(monthlyContribution, 0) || monthlyContribution < 0 {
		return fmt.Errorf("investment: monthly contribution must not be negative, got %v", monthlyContribution)
	}
	if math.IsNaN(annualReturnPct) || math.IsInf(annualReturnPct, 0) || annualReturnPct < 0 {
		return fmt.Errorf("investment: annual return must not be negative, got %v", annualReturnPct)
	}
	if horizonYears <= 0 || horizonYears > constants.MaxTermYears {
		return fmt.Errorf("investment: horizon must be between 1 and %d years, got %d",
			constants.MaxTermYears, horizonYears)
	}
	return nil
}

// ConfigValidator collects the comparison inputs that are checked together.
type ConfigValidator struct {
	LoanA      LoanConfig
	LoanB      LoanConfig
	Investment InvestmentConfig
	InspectA   int
	InspectB   int
}

// LoanConfig holds the loan fields checked by ConfigValidator.
type LoanConfig struct {
	Name          string
	Principal     float64
	AnnualRatePct float64
	TermYears     int
}

// InvestmentConfig holds the investment fields checked by ConfigValidator.
type InvestmentConfig struct {
	Auto                bool
	MonthlyContribution float64
	AnnualReturnPct     float64
	HorizonYears        int
}

// ValidateAll validates the comparison inputs and returns warnings. Inputs
// that are outright invalid are reported by ValidateLoan and
// ValidateInvestment instead.
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	termA, termB := cv.LoanA.TermYears, cv.LoanB.TermYears
	simulatedYears := termA
	if termB > simulatedYears {
		simulatedYears = termB
	}
	simulatedYears++

	if cv.Investment.HorizonYears > simulatedYears {
		warnings = append(warnings, fmt.Sprintf("Investment horizon of %d years extends past the simulated %d years - contributions stop at the end of the table",
			cv.Investment.HorizonYears, simulatedYears))
	}

	if cv.Investment.Auto {
		paymentA := loans.CalculateMonthlyPayment(cv.LoanA.Principal, cv.LoanA.AnnualRatePct, termA*constants.MonthsPerYear)
		paymentB := loans.CalculateMonthlyPayment(cv.LoanB.Principal, cv.LoanB.AnnualRatePct, termB*constants.MonthsPerYear)
		if !mathutil.IsPositive(paymentA - paymentB) {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' payment %.2f does not exceed loan '%s' payment %.2f - automatic investment contribution will be 0",
				cv.LoanA.Name, paymentA, cv.LoanB.Name, paymentB))
		}
		if cv.Investment.MonthlyContribution > 0 {
			warnings = append(warnings, "Investment monthly contribution is ignored because auto mode derives it from the payment difference")
		}
	}

	warnings = append(warnings, inspectWarnings(cv.LoanA, cv.InspectA, simulatedYears)...)
	warnings = append(warnings, inspectWarnings(cv.LoanB, cv.InspectB, simulatedYears)...)

	return warnings
}

func inspectWarnings(loan LoanConfig, year, simulatedYears int) []string {
	if year == 0 {
		return nil
	}
	if year < 0 {
		return []string{fmt.Sprintf("Inspection year %d for loan '%s' is before the first year - the first row is shown", year, loan.Name)}
	}
	if year > simulatedYears {
		return []string{fmt.Sprintf("Inspection year %d for loan '%s' is past the simulated %d years - the last row is shown",
			year, loan.Name, simulatedYears)}
	}
	if year > loan.TermYears {
		return []string{fmt.Sprintf("Inspection year %d for loan '%s' is after its %d-year term - the loan is repaid",
			year, loan.Name, loan.TermYears)}
	}
	return nil
}
