package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/typeramp/typeramp/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a diagnostics payload without analyzing it",
	Long: `Validate checks that a JSON payload parses as pyright output or the
flat diagnostics shape, and that every record has valid fields.

Returns exit 0 if valid, exit 2 if invalid with details on stderr.

Example:
  typeramp validate pyright.json
  npx pyright --outputjson | typeramp validate -`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error

	if args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}

	v := validator.New()
	if err := v.ValidatePayload(data); err != nil {
		fmt.Fprintf(os.Stderr, "INVALID: %v\n", err)
		return &ValidationError{Message: err.Error()}
	}

	fmt.Println("VALID: payload parses cleanly")
	return nil
}
