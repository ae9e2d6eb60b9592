package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"evalgo.org/modelapi/internal/apierr"
	"evalgo.org/modelapi/internal/logging"
	"evalgo.org/modelapi/internal/validation"
)

var (
	validateUpdate bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [type] [file]",
	Short: "Validate a JSON:API request document",
	Long: `Validate a JSON:API request document against the registered models
without contacting a server. Documents are checked as create requests unless
--update is given.

Examples:
  modelapi validate organization new-org.json
  modelapi validate tags tag-update.json --update`,
	Args: cobra.ExactArgs(2),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateUpdate, "update", false, "validate as an update request")
}

func runValidate(cmd *cobra.Command, args []string) error {
	typ := args[0]
	filename := args[1]

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	registry, err := buildRegistry(cfg, logging.Discard())
	if err != nil {
		return err
	}

	mode := validation.Create
	if validateUpdate {
		mode = validation.Update
	}

	out := cmd.OutOrStdout()
	if err := validation.New(registry).Validate(typ, data, mode); err != nil {
		var apiErr *apierr.Error
		if errors.As(err, &apiErr) {
			fmt.Fprintf(out, "✗ %s: %s\n", apiErr.Title(), apiErr.Detail)
		} else {
			fmt.Fprintf(out, "✗ %v\n", err)
		}
		return fmt.Errorf("validation failed")
	}

	fmt.Fprintln(out, "✓ Document is valid")
	return nil
}
