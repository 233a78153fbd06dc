// Package config defines the data structures related to configuration and
// includes functions for loading the config and converting it into solver and
// simulation inputs.
package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/finance-planner/pkg/constants"
	"github.com/iwvelando/finance-planner/pkg/simulation"
	"github.com/iwvelando/finance-planner/pkg/tvm"
	"github.com/iwvelando/finance-planner/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for finance-planner.
type Configuration struct {
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Output     OutputConfig     `yaml:"output,omitempty"`
	Solver     SolverConfig     `yaml:"solver,omitempty"`
	Comparison ComparisonConfig `yaml:"comparison,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// SolverConfig holds the four TVM quantities and which one to solve for. The
// field named by Mode is ignored.
type SolverConfig struct {
	Mode       string  `yaml:"mode"` // payment, principal, term, rate
	Principal  float64 `yaml:"principal"`
	Payment    float64 `yaml:"payment"`
	AnnualRate float64 `yaml:"annualRate"`
	TermYears  int     `yaml:"termYears"`
}

// ComparisonConfig holds the two loans, the investment stream and the years
// to inspect.
type ComparisonConfig struct {
	LoanA      LoanConfig       `yaml:"loanA"`
	LoanB      LoanConfig       `yaml:"loanB"`
	Investment InvestmentConfig `yaml:"investment"`
	Inspect    InspectConfig    `yaml:"inspect"`
}

// LoanConfig describes one amortizing loan.
type LoanConfig struct {
	Name       string  `yaml:"name"`
	Principal  float64 `yaml:"principal"`
	AnnualRate float64 `yaml:"annualRate"`
	TermYears  int     `yaml:"termYears"`
}

// InvestmentConfig describes the parallel investment stream.
type InvestmentConfig struct {
	Auto                bool    `yaml:"auto"`
	MonthlyContribution float64 `yaml:"monthlyContribution"`
	AnnualReturn        float64 `yaml:"annualReturn"`
	HorizonYears        int     `yaml:"horizonYears"`
}

// InspectConfig holds the years looked up for each loan. Zero selects the
// default year.
type InspectConfig struct {
	YearA int `yaml:"yearA"`
	YearB int `yaml:"yearB"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.ApplyDefaults()
	return &configuration, nil
}

// ApplyDefaults fills in the values that may be left out of a config file.
func (c *Configuration) ApplyDefaults() {
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
	if c.Solver.Mode == "" {
		c.Solver.Mode = tvm.ModePayment.String()
	}
	if c.Comparison.LoanA.Name == "" {
		c.Comparison.LoanA.Name = simulation.LoanA.String()
	}
	if c.Comparison.LoanB.Name == "" {
		c.Comparison.LoanB.Name = simulation.LoanB.String()
	}
	if c.Comparison.Inspect.YearA == 0 {
		c.Comparison.Inspect.YearA = constants.DefaultInspectYearA
	}
	if c.Comparison.Inspect.YearB == 0 {
		c.Comparison.Inspect.YearB = constants.DefaultInspectYearB
	}
}

// SolveInputs returns the solver mode and parameters.
func (c *Configuration) SolveInputs() (tvm.SolveMode, tvm.Params, error) {
	mode, err := tvm.ParseSolveMode(c.Solver.Mode)
	if err != nil {
		return 0, tvm.Params{}, err
	}
	return mode, tvm.Params{
		Principal:     c.Solver.Principal,
		Payment:       c.Solver.Payment,
		AnnualRatePct: c.Solver.AnnualRate,
		TermYears:     c.Solver.TermYears,
	}, nil
}

// SimulationInputs returns the two loans and the investment stream.
func (c *Configuration) SimulationInputs() (simulation.Loan, simulation.Loan, simulation.Investment) {
	cmp := c.Comparison
	return cmp.LoanA.toLoan(), cmp.LoanB.toLoan(), simulation.Investment{
		Auto:                cmp.Investment.Auto,
		MonthlyContribution: cmp.Investment.MonthlyContribution,
		AnnualReturnPct:     cmp.Investment.AnnualReturn,
		HorizonYears:        cmp.Investment.HorizonYears,
	}
}

func (l LoanConfig) toLoan() simulation.Loan {
	return simulation.Loan{
		Name:          strings.TrimSpace(l.Name),
		Principal:     l.Principal,
		AnnualRatePct: l.AnnualRate,
		TermYears:     l.TermYears,
	}
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if _, err := tvm.ParseSolveMode(c.Solver.Mode); err != nil {
		warnings = append(warnings, fmt.Sprintf("Solver mode is invalid: %v", err))
	}

	cmp := c.Comparison
	validator := validation.ConfigValidator{
		LoanA: validation.LoanConfig{
			Name:          cmp.LoanA.Name,
			Principal:     cmp.LoanA.Principal,
			AnnualRatePct: cmp.LoanA.AnnualRate,
			TermYears:     cmp.LoanA.TermYears,
		},
		LoanB: validation.LoanConfig{
			Name:          cmp.LoanB.Name,
			Principal:     cmp.LoanB.Principal,
			AnnualRatePct: cmp.LoanB.AnnualRate,
			TermYears:     cmp.LoanB.TermYears,
		},
		Investment: validation.InvestmentConfig{
			Auto:                cmp.Investment.Auto,
			MonthlyContribution: cmp.Investment.MonthlyContribution,
			AnnualReturnPct:     cmp.Investment.AnnualReturn,
			HorizonYears:        cmp.Investment.HorizonYears,
		},
		InspectA: cmp.Inspect.YearA,
		InspectB: cmp.Inspect.YearB,
	}
	return append(warnings, validator.ValidateAll()...)
}
