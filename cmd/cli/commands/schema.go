package commands

import (
	"encoding/json"
	"fmt"

	"github.com/keshon/slashkit/internal/app"
	"github.com/spf13/cobra"
)

var schemaCompact bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the command registration payload as JSON",
	RunE:  runSchema,
}

func init() {
	schemaCmd.Flags().BoolVar(&schemaCompact, "compact", false, "Print without indentation")
}

func runSchema(cmd *cobra.Command, _ []string) error {
	a, err := app.New(envFile)
	if err != nil {
		return err
	}
	defer a.Close()

	schemas := a.Bot.Commands().Schemas()
	var data []byte
	if schemaCompact {
		data, err = json.Marshal(schemas)
	} else {
		data, err = json.MarshalIndent(schemas, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode schemas: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
