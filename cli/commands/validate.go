package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/cypher-go/cli/internal/config"
	"github.com/satishbabariya/cypher-go/cli/internal/ui"
	"github.com/satishbabariya/cypher-go/cli/internal/watch"
	"github.com/satishbabariya/cypher-go/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate [schema-path]",
	Short: "Validate a graph schema file",
	Long: `Validate a graph schema file for syntax and semantic errors.

This command will:
- Parse the schema file
- Check field and attribute declarations
- Display the models and the constraints they imply`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var (
	validateSchemaPath string
	validateWatch      bool
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchemaPath, "schema", "s", "schema.graph", "Path to schema file")
	validateCmd.Flags().BoolVarP(&validateWatch, "watch", "w", false, "Re-validate whenever the schema file changes")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	schemaPath := getSchemaPath(validateSchemaPath, args)

	ui.PrintHeader("cypher-go", "Validate Schema")

	if !validateWatch {
		return validateOnce(schemaPath)
	}

	watcher, err := watch.NewWatcher(schemaPath, func() error {
		if err := validateOnce(schemaPath); err != nil {
			// Keep watching after a broken edit.
			ui.PrintError("%v", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	defer watcher.Stop()

	if err := watcher.Start(); err != nil {
		return err
	}
	ui.PrintInfo("Watching %s for changes (ctrl-c to stop)", schemaPath)
	select {}
}

func validateOnce(schemaPath string) error {
	if _, err := config.AppFs.Stat(schemaPath); err != nil {
		return fmt.Errorf("schema file not found: %s", schemaPath)
	}

	models, err := schema.LoadModels(config.AppFs, schemaPath)
	if err != nil {
		ui.PrintError("Schema validation failed:")
		printers := ui.GetColorPrinters()
		ui.ColorPrint(printers["error"], "\n  %v\n\n", err)
		return fmt.Errorf("schema has errors")
	}

	ui.PrintSection("Models")
	rows := make([][]string, 0, len(models))
	for _, m := range models {
		req := m.Requirement()
		rows = append(rows, []string{
			m.Label(),
			m.IDProperty,
			fmt.Sprintf("%d", len(m.Properties)),
			fmt.Sprintf("%d unique, %d index", len(req.UniqueProperties), len(req.IndexProperties)),
		})
	}
	ui.PrintTable([]string{"Model", "ID", "Fields", "Schema"}, rows)
	ui.PrintSuccess("Schema is valid: %d model(s)", len(models))
	return nil
}
