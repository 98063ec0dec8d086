package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-advisor/internal/catalog"
	"github.com/jonathan/career-advisor/internal/schemas"
)

func init() {
	rootCmd.AddCommand(newValidateCmd())
}

type validateOptions struct {
	schema         string
	recommendation bool
}

func newValidateCmd() *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a catalog or recommendation file against its JSON schema",
		Long: `Validates a career catalog (JSON or YAML) against the builtin catalog schema.
Use --recommendation to check a saved recommendation document instead, or --schema
to validate a JSON file against any schema file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.schema, "schema", "", "Path to a JSON Schema file (overrides the builtin schemas)")
	cmd.Flags().BoolVar(&opts.recommendation, "recommendation", false, "Validate against the builtin recommendation schema")
	cmd.MarkFlagsMutuallyExclusive("schema", "recommendation")
	return cmd
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func runValidate(out io.Writer, path string, opts *validateOptions) error {
	var err error
	summary := ""
	switch {
	case opts.schema != "":
		err = schemas.ValidateJSON(opts.schema, path)
	case opts.recommendation:
		var data []byte
		data, err = os.ReadFile(path)
		if err == nil {
			err = schemas.ValidateDocument(schemas.Recommendation, data)
		}
	default:
		var entries int
		entries, err = countCareers(path)
		summary = fmt.Sprintf(" (%d careers)", entries)
	}

	if err != nil {
		fmt.Fprintf(out, "Validation failed: %s\n", path)
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			fmt.Fprint(out, ve.Error())
			return fmt.Errorf("%s is invalid: %d schema error(s)", path, len(ve.Errors))
		}
		return err
	}

	fmt.Fprintf(out, "Validation passed: %s%s\n", path, summary)
	return nil
}

func countCareers(path string) (int, error) {
	entries, err := catalog.Load(path)
	return len(entries), err
}
