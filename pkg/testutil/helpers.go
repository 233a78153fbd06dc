// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"
	"testing"

	"github.com/iwvelando/finance-planner/pkg/simulation"
)

// ZeroRateComparison is a small comparison whose every figure can be checked
// by hand: loan A repays 100,000 over one year, loan B 120,000 over two, both
// interest free, and 1,000 a month is saved for a year without growth.
func ZeroRateComparison(t testing.TB) *simulation.Result {
	t.Helper()
	result, err := simulation.Simulate(
		simulation.Loan{Name: "Short", Principal: 100000, TermYears: 1},
		simulation.Loan{Name: "Long", Principal: 120000, TermYears: 2},
		simulation.Investment{MonthlyContribution: 1000, HorizonYears: 1},
	)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	return result
}

// FindRow returns the row for the given month, or nil if the table does not
// contain it.
func FindRow(result *simulation.Result, month int) *simulation.Row {
	for i := range result.Rows {
		if result.Rows[i].Month == month {
			return &result.Rows[i]
		}
	}
	return nil
}

// AssertWithin fails the test when got is further than tolerance from want.
func AssertWithin(t testing.TB, name string, got, want, tolerance float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Errorf("%s = %.4f, expected %.4f (tolerance %g)", name, got, want, tolerance)
	}
}
