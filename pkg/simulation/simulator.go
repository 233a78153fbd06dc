package simulation

import (
	"fmt"

	"go.uber.org/zap"
)

// Simulator runs comparisons and logs their outcome.
type Simulator struct {
	logger *zap.Logger
}

// NewSimulator creates a new simulator instance
func NewSimulator(logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{logger: logger}
}

// Run simulates the comparison of loans a and b with investment inv.
func (s *Simulator) Run(a, b Loan, inv Investment) (*Result, error) {
	result, err := Simulate(a, b, inv)
	if err != nil {
		s.logger.Debug("rejected comparison inputs",
			zap.String("op", "simulation.Run"),
			zap.Error(err),
		)
		return nil, err
	}

	if inv.Auto {
		s.logger.Debug(fmt.Sprintf("investing payment difference %.2f of loan %s over loan %s",
			result.MonthlyContribution, result.LoanA.Name, result.LoanB.Name),
			zap.String("op", "simulation.Run"),
		)
	}
	s.logger.Debug("simulated loan comparison",
		zap.String("op", "simulation.Run"),
		zap.String("loanA", result.LoanA.Name),
		zap.String("loanB", result.LoanB.Name),
		zap.Float64("paymentA", result.PaymentA),
		zap.Float64("paymentB", result.PaymentB),
		zap.Float64("monthlyContribution", result.MonthlyContribution),
		zap.Int("horizon", result.Horizon),
	)
	return result, nil
}
