package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/egraph-go/egraph/internal/script"
)

// ValidationResult holds validation results for one script file.
type ValidationResult struct {
	File   string                    `json:"file"`
	Valid  bool                      `json:"valid"`
	Errors []*script.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <script.yaml>...",
		Short: "Validate scripts without executing them",
		Long: `Validate script files against the schema and reference rules without
executing them. Faster than run for development feedback.

Checks shape and types (symbols are strings, merges take two names), then
reference resolution (children and merge operands name earlier bindings,
no name is bound twice).`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	results := make([]ValidationResult, 0, len(paths))
	invalid := 0

	for _, path := range paths {
		res := validateFile(path, formatter)
		if !res.Valid {
			invalid++
		}
		results = append(results, res)
	}

	if err := outputValidate(formatter, results); err != nil {
		return err
	}

	if invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d script(s) invalid", invalid, len(paths)))
	}
	return nil
}

func validateFile(path string, f *OutputFormatter) ValidationResult {
	res := ValidationResult{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Errors = []*script.ValidationError{{Message: err.Error()}}
		return res
	}

	if errs := script.ValidateBytes(data); len(errs) > 0 {
		res.Errors = errs
		return res
	}

	// Schema-clean; still run the reference checks Parse performs.
	if _, err := script.Parse(data); err != nil {
		var verr *script.ValidationError
		if errors.As(err, &verr) {
			res.Errors = []*script.ValidationError{verr}
		} else {
			res.Errors = []*script.ValidationError{{Message: err.Error()}}
		}
		return res
	}

	f.VerboseLog("validated %s", path)
	res.Valid = true
	return res
}

func outputValidate(f *OutputFormatter, results []ValidationResult) error {
	if f.Format == "json" {
		return f.Success(results)
	}

	for _, res := range results {
		if res.Valid {
			fmt.Fprintf(f.Writer, "OK   %s\n", res.File)
			continue
		}
		fmt.Fprintf(f.Writer, "FAIL %s\n", res.File)
		for _, e := range res.Errors {
			fmt.Fprintf(f.Writer, "  %s\n", e.Error())
		}
	}
	return nil
}
