package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fcrepo4-labs/fcrepo-transform/internal/transform"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var mediaType string

	cmd := &cobra.Command{
		Use:   "validate <program-file>",
		Short: "Validate a transform program without applying it",
		Long: `Validate a transform program: parse path programs or compile query
programs without touching a graph. Faster feedback than a full apply.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], mediaType, cmd)
		},
	}

	cmd.Flags().StringVar(&mediaType, "type", "", "program media type (required)")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runValidate(opts *RootOptions, programPath, mediaType string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	source, err := os.ReadFile(programPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "read program", err)
	}

	if _, err := newRegistry().Select(mediaType, source); err != nil {
		return outputValidationFailure(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success("", ValidationResult{Valid: true})
	}
	fmt.Fprintln(formatter.Writer, "✓ program valid")
	return nil
}

func outputValidationFailure(formatter *OutputFormatter, err error) error {
	var te *transform.Error
	if !errors.As(err, &te) {
		_ = formatter.Error("", "INTERNAL", err.Error(), nil)
		return WrapExitError(ExitCommandError, "validate", err)
	}

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:   false,
				Code:    string(te.Code),
				Message: te.Message,
			},
			Error: &CLIError{
				Code:    string(te.Code),
				Message: te.Message,
				Details: errorDetails(te),
			},
		}
		if encodeErr := json.NewEncoder(formatter.Writer).Encode(response); encodeErr != nil {
			return encodeErr
		}
		return WrapExitError(ExitFailure, string(te.Code), err)
	}

	fmt.Fprintln(formatter.Writer, "✗ program invalid")
	fmt.Fprintf(formatter.Writer, "  %s: %s\n", te.Code, te.Message)
	if te.Fragment != "" {
		fmt.Fprintf(formatter.Writer, "  fragment: %q\n", te.Fragment)
	}
	return WrapExitError(ExitFailure, string(te.Code), err)
}
