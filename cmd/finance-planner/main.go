package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/finance-planner/internal/config"
	"github.com/iwvelando/finance-planner/pkg/constants"
	"github.com/iwvelando/finance-planner/pkg/output"
	"github.com/iwvelando/finance-planner/pkg/simulation"
	"github.com/iwvelando/finance-planner/pkg/tvm"
	"github.com/iwvelando/finance-planner/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	runMode := flag.String("mode", constants.RunModeAll, "what to run: solve, compare, all")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := conf.Logging.BuildLogger(*logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}
	if err := validation.ValidateRunMode(*runMode); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	if *runMode != constants.RunModeCompare {
		if err := runSolver(os.Stdout, logger, conf, outputFormat); err != nil {
			logger.Fatal("failed to run solver",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	if *runMode == constants.RunModeAll {
		fmt.Fprintln(os.Stdout)
	}

	if *runMode != constants.RunModeSolve {
		if err := runComparison(os.Stdout, logger, conf, outputFormat); err != nil {
			logger.Fatal("failed to run loan comparison",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}
}

// runSolver prints the solver result. An unsolvable parameter set is a
// result, not a failure.
func runSolver(w io.Writer, logger *zap.Logger, conf *config.Configuration, outputFormat string) error {
	mode, params, err := conf.SolveInputs()
	if err != nil {
		return err
	}

	solution, err := tvm.Solve(mode, params)
	if errors.Is(err, tvm.ErrNoSolution) {
		logger.Info("solver found no solution",
			zap.String("op", "main.runSolver"),
			zap.String("mode", mode.String()),
			zap.Error(err),
		)
		output.PrettyNoSolution(w, mode, err)
		return nil
	}
	if err != nil {
		return err
	}

	logger.Debug("solved",
		zap.String("op", "main.runSolver"),
		zap.String("mode", mode.String()),
		zap.Float64("value", solution.Value()),
		zap.Int("iterations", solution.Iterations),
	)

	if outputFormat == constants.OutputFormatCSV {
		return output.CsvSolution(w, solution)
	}
	output.PrettySolution(w, solution)
	return nil
}

func runComparison(w io.Writer, logger *zap.Logger, conf *config.Configuration, outputFormat string) error {
	loanA, loanB, investment := conf.SimulationInputs()
	result, err := simulation.NewSimulator(logger).Run(loanA, loanB, investment)
	if err != nil {
		return err
	}

	if outputFormat == constants.OutputFormatCSV {
		return output.CsvComparison(w, result)
	}
	output.PrettyComparison(w, result,
		result.At(simulation.LoanA, conf.Comparison.Inspect.YearA),
		result.At(simulation.LoanB, conf.Comparison.Inspect.YearB),
	)
	return nil
}
