package testutil

import (
	"testing"
)

func TestZeroRateComparison(t *testing.T) {
	result := ZeroRateComparison(t)

	if result.Horizon != 36 || len(result.Rows) != 36 {
		t.Fatalf("expected 36 rows, got horizon %d with %d rows", result.Horizon, len(result.Rows))
	}
	AssertWithin(t, "PaymentA", result.PaymentA, 100000.0/12, 1e-9)
	AssertWithin(t, "PaymentB", result.PaymentB, 5000, 1e-9)
}

func TestFindRow(t *testing.T) {
	result := ZeroRateComparison(t)

	tests := []struct {
		name        string
		month       int
		expectFound bool
		balanceB    float64
		investment  float64
	}{
		{"First month", 1, true, 115000, 1000},
		{"End of loan A", 12, true, 60000, 12000},
		{"After contributions stop", 30, true, 0, 12000},
		{"Month zero", 0, false, 0, 0},
		{"Past the table", 37, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := FindRow(result, tt.month)
			if !tt.expectFound {
				if row != nil {
					t.Errorf("FindRow(%d) expected nil, got %+v", tt.month, *row)
				}
				return
			}
			if row == nil {
				t.Fatalf("FindRow(%d) returned nil", tt.month)
			}
			if row.Month != tt.month {
				t.Errorf("FindRow(%d) returned month %d", tt.month, row.Month)
			}
			AssertWithin(t, "BalanceB", row.BalanceB, tt.balanceB, 0)
			AssertWithin(t, "InvestmentValue", row.InvestmentValue, tt.investment, 0)
		})
	}
}
