// Package tvm solves the time-value-of-money equation of a level-payment loan
// for one unknown among payment, principal, term and rate.
package tvm

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/finance-planner/pkg/constants"
	"github.com/iwvelando/finance-planner/pkg/loans"
	"github.com/iwvelando/finance-planner/pkg/mathutil"
)

// ErrNoSolution is returned when the known parameters admit no valid result.
var ErrNoSolution = errors.New("no mathematical solution")

// SolveMode selects which variable is unknown.
type SolveMode int

// Solve modes, one per unknown: the monthly payment, the principal, the term
// and the annual rate.
const (
	ModePayment SolveMode = iota
	ModePrincipal
	ModeTerm
	ModeRate
)

var modeNames = map[SolveMode]string{
	ModePayment:   "payment",
	ModePrincipal: "principal",
	ModeTerm:      "term",
	ModeRate:      "rate",
}

func (m SolveMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("SolveMode(%d)", int(m))
}

// ParseSolveMode maps a mode name to a SolveMode.
func ParseSolveMode(value string) (SolveMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for mode, name := range modeNames {
		if name == normalized {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown solve mode %q: expected payment, principal, term or rate", value)
}

// Params holds the known values. The field matching the solve mode is ignored.
type Params struct {
	Principal     float64
	Payment       float64
	AnnualRatePct float64
	TermYears     int
}

// Solution carries the solved value together with the inputs it was solved
// from, so callers can render the whole equation.
type Solution struct {
	Mode          SolveMode
	Principal     float64
	Payment       float64
	AnnualRatePct float64
	TermMonths    float64
	TermYears     float64
	Iterations    int
}

// Value returns the solved quantity: payment, principal, term in months or
// annual rate in percent.
func (s Solution) Value() float64 {
	switch s.Mode {
	case ModePayment:
		return s.Payment
	case ModePrincipal:
		return s.Principal
	case ModeTerm:
		return s.TermMonths
	default:
		return s.AnnualRatePct
	}
}

// Solve dispatches to the solver for the given mode.
func Solve(mode SolveMode, params Params) (Solution, error) {
	solution := Solution{
		Mode:          mode,
		Principal:     params.Principal,
		Payment:       params.Payment,
		AnnualRatePct: params.AnnualRatePct,
		TermMonths:    float64(params.TermYears * constants.MonthsPerYear),
		TermYears:     float64(params.TermYears),
	}

	var err error
	switch mode {
	case ModePayment:
		solution.Payment, err = SolvePayment(params.Principal, params.AnnualRatePct, params.TermYears)
	case ModePrincipal:
		solution.Principal, err = SolvePrincipal(params.Payment, params.AnnualRatePct, params.TermYears)
	case ModeTerm:
		solution.TermMonths, err = SolveTerm(params.Principal, params.Payment, params.AnnualRatePct)
		solution.TermYears = solution.TermMonths / constants.MonthsPerYear
	case ModeRate:
		solution.AnnualRatePct, solution.Iterations, err = SolveRate(params.Principal, params.Payment, params.TermYears)
	default:
		return Solution{}, fmt.Errorf("unsupported solve mode %s", mode)
	}
	if err != nil {
		return Solution{}, err
	}
	return solution, nil
}

// SolvePayment returns the level monthly payment that repays principal over
// termYears at annualRatePct.
func SolvePayment(principal, annualRatePct float64, termYears int) (float64, error) {
	if err := requirePositive("principal", principal); err != nil {
		return 0, err
	}
	if err := requireRate(annualRatePct); err != nil {
		return 0, err
	}
	if termYears <= 0 {
		return 0, fmt.Errorf("%w: term must be positive, got %d years", ErrNoSolution, termYears)
	}

	payment := loans.CalculateMonthlyPayment(principal, annualRatePct, termYears*constants.MonthsPerYear)
	return finite(payment)
}

// SolvePrincipal returns the largest principal a monthly payment repays over
// termYears at annualRatePct.
func SolvePrincipal(payment, annualRatePct float64, termYears int) (float64, error) {
	if err := requirePositive("payment", payment); err != nil {
		return 0, err
	}
	if err := requireRate(annualRatePct); err != nil {
		return 0, err
	}
	if termYears <= 0 {
		return 0, fmt.Errorf("%w: term must be positive, got %d years", ErrNoSolution, termYears)
	}

	principal := loans.CalculatePresentValue(payment, annualRatePct, termYears*constants.MonthsPerYear)
	return finite(principal)
}

// SolveTerm returns the number of months a monthly payment needs to repay
// principal at annualRatePct. The result is fractional; the last payment is
// a partial one.
func SolveTerm(principal, payment, annualRatePct float64) (float64, error) {
	if err := requirePositive("principal", principal); err != nil {
		return 0, err
	}
	if err := requirePositive("payment", payment); err != nil {
		return 0, err
	}
	if err := requireRate(annualRatePct); err != nil {
		return 0, err
	}

	i := mathutil.MonthlyRate(annualRatePct)
	if i == 0 {
		return finite(principal / payment)
	}

	firstInterest := principal * i
	if payment <= firstInterest {
		return 0, fmt.Errorf("%w: payment %.2f does not cover the first month's interest %.2f",
			ErrNoSolution, payment, firstInterest)
	}

	months := math.Log(payment/(payment-firstInterest)) / math.Log1p(i)
	return finite(months)
}

// SolveRate finds the nominal annual rate at which payment repays principal
// over termYears. There is no closed form, so the monthly rate is found with
// Newton steps kept inside a shrinking bracket; a step leaving the bracket is
// replaced by bisection. The number of iterations used is returned.
func SolveRate(principal, payment float64, termYears int) (float64, int, error) {
	if err := requirePositive("principal", principal); err != nil {
		return 0, 0, err
	}
	if err := requirePositive("payment", payment); err != nil {
		return 0, 0, err
	}
	if termYears <= 0 {
		return 0, 0, fmt.Errorf("%w: term must be positive, got %d years", ErrNoSolution, termYears)
	}

	n := float64(termYears * constants.MonthsPerYear)
	totalPaid := payment * n
	if mathutil.WithinTolerance(totalPaid, principal, constants.SolverTolerance*principal) {
		return 0, 0, nil
	}
	if totalPaid < principal {
		return 0, 0, fmt.Errorf("%w: payments total %.2f, less than the principal %.2f",
			ErrNoSolution, totalPaid, principal)
	}

	// residual is decreasing in the rate: positive below the root, negative above.
	residual := func(i float64) (float64, float64) {
		discount := math.Pow(1+i, -n)
		annuity := (1 - discount) / i
		derivative := n*discount/(i*(1+i)) - annuity/i
		return payment*annuity - principal, payment * derivative
	}

	lo, hi := 0.0, constants.SolverMaxMonthlyRate
	iterations := 0
	for {
		value, _ := residual(hi)
		if value < 0 {
			break
		}
		iterations++
		if iterations >= constants.SolverMaxIterations {
			return 0, iterations, fmt.Errorf("%w: rate exceeds %.0f%% per month", ErrNoSolution,
				hi*constants.PercentageMultiplier)
		}
		lo = hi
		hi *= 2
	}

	i := constants.SolverInitialRateGuess
	if i <= lo || i >= hi {
		i = (lo + hi) / 2
	}

	for ; iterations < constants.SolverMaxIterations; iterations++ {
		value, slope := residual(i)
		if !mathutil.IsFinite(value) || !mathutil.IsFinite(slope) {
			return 0, iterations, fmt.Errorf("%w: rate search diverged", ErrNoSolution)
		}
		if value == 0 {
			return mathutil.AnnualRatePct(i), iterations + 1, nil
		}
		if value > 0 {
			lo = i
		} else {
			hi = i
		}

		next := (lo + hi) / 2
		if slope != 0 {
			if candidate := i - value/slope; candidate > lo && candidate < hi {
				next = candidate
			}
		}

		if math.Abs(next-i) < constants.SolverTolerance {
			return mathutil.AnnualRatePct(next), iterations + 1, nil
		}
		i = next
	}

	return 0, iterations, fmt.Errorf("%w: rate search did not converge in %d iterations",
		ErrNoSolution, constants.SolverMaxIterations)
}

func requirePositive(name string, value float64) error {
	if !mathutil.IsFinite(value) || value <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrNoSolution, name, value)
	}
	return nil
}

func requireRate(annualRatePct float64) error {
	if !mathutil.IsFinite(annualRatePct) || annualRatePct < 0 {
		return fmt.Errorf("%w: annual rate must not be negative, got %v", ErrNoSolution, annualRatePct)
	}
	return nil
}

func finite(value float64) (float64, error) {
	if !mathutil.IsFinite(value) {
		return 0, fmt.Errorf("%w: result is not a finite number", ErrNoSolution)
	}
	return value, nil
}
