// Package format renders amounts, rates and terms for display.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/finance-planner/pkg/constants"
	"github.com/iwvelando/finance-planner/pkg/mathutil"
)

// Amount returns a whole-unit amount with thousands separators (e.g., "-1,234,567").
func Amount(amount float64) string {
	rounded := mathutil.RoundWhole(amount)
	formatted := groupThousands(fmt.Sprintf("%.0f", math.Abs(rounded)))
	if rounded < 0 {
		return "-" + formatted
	}
	return formatted
}

// NumericCurrency returns a two-decimal amount with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	formatted := fmt.Sprintf("%.2f", math.Abs(amount))
	parts := strings.SplitN(formatted, ".", 2)
	return sign + groupThousands(parts[0]) + "." + parts[1]
}

// Rate returns an annual percentage rate (e.g., "4.90 % p.a.").
func Rate(annualRatePct float64) string {
	return fmt.Sprintf("%.2f %% p.a.", annualRatePct)
}

// Term returns a term in months as years and months (e.g., "23.3 years (280 months)").
func Term(months float64) string {
	return fmt.Sprintf("%.1f years (%.0f months)", months/constants.MonthsPerYear, months)
}

func groupThousands(intPart string) string {
	if len(intPart) <= 3 {
		return intPart
	}
	var builder strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}
