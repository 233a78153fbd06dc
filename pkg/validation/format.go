// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/finance-planner/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateRunMode checks if the CLI run mode is one of the supported modes.
func ValidateRunMode(mode string) error {
	switch mode {
	case constants.RunModeSolve, constants.RunModeCompare, constants.RunModeAll:
		return nil
	}
	return fmt.Errorf("expected run mode of %s, %s or %s, got %s",
		constants.RunModeSolve, constants.RunModeCompare, constants.RunModeAll, mode)
}
