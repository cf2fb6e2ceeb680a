package commands

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/cypher-go/cli/internal/config"
	"github.com/satishbabariya/cypher-go/cli/internal/ui"
	"github.com/satishbabariya/cypher-go/driver"
	"github.com/satishbabariya/cypher-go/migrate"
	"github.com/satishbabariya/cypher-go/schema"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Reconcile database constraints and indexes with the schema",
}

var migrateUpdateCmd = &cobra.Command{
	Use:   "update [schema-path]",
	Short: "Add missing constraints and indexes, keeping existing ones",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context(), getSchemaPath(migrateSchemaPath, args), migrate.ModeUpdate)
	},
}

var migrateAutoCmd = &cobra.Command{
	Use:   "auto [schema-path]",
	Short: "Drop schema for declared labels and recreate it from scratch",
	Long: `Drop every unique constraint and index on the labels the schema
declares, then recreate them. Existing data is kept, but any manually
created constraints on those labels are lost.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !migrateForce {
			confirmed := false
			prompt := &survey.Confirm{
				Message: "This drops existing constraints and indexes on declared labels. Continue?",
			}
			if err := survey.AskOne(prompt, &confirmed); err != nil {
				return err
			}
			if !confirmed {
				ui.PrintInfo("Aborted")
				return nil
			}
		}
		return runMigrate(cmd.Context(), getSchemaPath(migrateSchemaPath, args), migrate.ModeMigrate)
	},
}

var (
	migrateSchemaPath string
	migrateForce      bool
	migrateDryRun     bool
)

func init() {
	migrateCmd.PersistentFlags().StringVarP(&migrateSchemaPath, "schema", "s", "schema.graph", "Path to schema file")
	migrateCmd.PersistentFlags().BoolVar(&migrateDryRun, "dry-run", false, "Print the statements without executing them")
	migrateAutoCmd.Flags().BoolVarP(&migrateForce, "force", "f", false, "Skip the confirmation prompt")

	migrateCmd.AddCommand(migrateUpdateCmd)
	migrateCmd.AddCommand(migrateAutoCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(ctx context.Context, schemaPath string, mode migrate.Mode) error {
	ui.PrintHeader("cypher-go", fmt.Sprintf("Migrate (%s)", mode))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if schemaPath == "" {
		schemaPath = cfg.SchemaPath
	}

	models, err := schema.LoadModels(config.AppFs, schemaPath)
	if err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}
	ui.PrintInfo("Loaded %d model(s) from %s", len(models), schemaPath)

	spinner, _ := ui.PrintSpinner(fmt.Sprintf("Connecting to %s", cfg.URI))
	db, err := driver.New(ctx, driver.Config{
		URI:      cfg.URI,
		Username: cfg.Username,
		Password: cfg.Password,
		Database: cfg.Database,
	})
	if err != nil {
		if spinner != nil {
			spinner.Fail("Connection failed")
		}
		return err
	}
	defer db.Close(ctx)
	if spinner != nil {
		spinner.Success(fmt.Sprintf("Connected (server %s)", db.ServerVersion()))
	}

	var exec migrate.Executor = db
	if migrateDryRun {
		exec = dryRunExecutor{}
		ui.PrintWarning("Dry run: statements will be printed, not executed")
	}

	engine := migrate.NewEngine(exec, db, migrate.WithEnterprise(db.Enterprise()))
	result, err := engine.Reconcile(ctx, models, mode)
	if result != nil {
		for i, stmt := range result.Executed {
			ui.PrintStep(i+1, len(result.Executed), stmt.Cypher)
		}
	}
	if err != nil {
		return err
	}

	ui.PrintSuccess("Schema reconciled: %d statement(s)", len(result.Executed))
	return nil
}

// dryRunExecutor satisfies migrate.Executor without touching the
// database. Introspection still runs against the live server.
type dryRunExecutor struct{}

func (dryRunExecutor) Execute(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error) {
	return nil, nil
}
