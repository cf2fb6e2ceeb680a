package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/cypher-go/cli/internal/config"
	"github.com/satishbabariya/cypher-go/cli/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Create a starter schema and environment files",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

const starterSchema = `node User {
  id    String @id
  email String @unique
  name  String

  @@index([email])
}
`

const starterEnv = `# Bolt connection string
GRAPH_URL="bolt://localhost:7687"
GRAPH_PASSWORD=""
`

const starterGitignore = `# Environment variables
.env
.env.local

# IDE
.idea/
.vscode/
*.swp

# OS
.DS_Store
`

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	ui.PrintHeader("cypher-go", "Initialize Project")

	fs := config.AppFs
	if dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create project directory: %w", err)
		}
		ui.PrintInfo("Created project directory: %s", dir)
	}

	created := 0
	for _, f := range []struct {
		name    string
		content string
	}{
		{"schema.graph", starterSchema},
		{".env.example", starterEnv},
		{".gitignore", starterGitignore},
	} {
		path := filepath.Join(dir, f.name)
		if _, err := fs.Stat(path); err == nil {
			ui.PrintWarning("%s already exists, skipping", path)
			continue
		}
		if err := afero.WriteFile(fs, path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		ui.PrintSuccess("Created %s", path)
		created++
	}

	if created > 0 {
		fmt.Println()
		ui.PrintList([]string{
			"Copy .env.example to .env and fill in GRAPH_URL / GRAPH_PASSWORD",
			"Edit schema.graph to define your nodes",
			"Run: cypher-go migrate update",
		})
	}
	return nil
}
