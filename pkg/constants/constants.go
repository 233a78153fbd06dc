// Package constants provides shared constants for the finance-planner application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// BufferMonths is the number of months simulated past the longer loan term
	// so charts show both loans settled.
	BufferMonths = 12

	// DefaultInspectYearA is the year looked up for loan A when none is configured.
	DefaultInspectYearA = 5

	// DefaultInspectYearB is the year looked up for loan B when none is configured.
	DefaultInspectYearB = 10
)

// Solver constants
const (
	// SolverMaxIterations caps the iterative rate search.
	SolverMaxIterations = 100

	// SolverTolerance is the convergence tolerance on the monthly rate and on
	// the payment residual.
	SolverTolerance = 1e-10

	// SolverInitialRateGuess is the starting monthly rate for the rate search
	// (10% p.a., the same seed spreadsheet RATE functions use).
	SolverInitialRateGuess = 0.10 / MonthsPerYear

	// SolverMaxMonthlyRate bounds the bracket used when Newton steps fail.
	SolverMaxMonthlyRate = 1.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Run mode constants for the CLI
const (
	// RunModeSolve runs only the TVM solver.
	RunModeSolve = "solve"

	// RunModeCompare runs only the loan comparison.
	RunModeCompare = "compare"

	// RunModeAll runs both.
	RunModeAll = "all"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (64 KB)
	DefaultMaxUploadSizeBytes int64 = 64 * 1024
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// MaxTermYears is the longest loan or investment horizon accepted.
	MaxTermYears = 100
)
