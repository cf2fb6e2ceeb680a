// Package config loads CLI configuration from config files, environment
// variables and .env files.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem the CLI reads schemas and config through.
// Swappable for an in-memory fs in tests.
var AppFs = afero.NewOsFs()

// Config holds the application configuration.
type Config struct {
	SchemaPath string
	URI        string
	Username   string
	Password   string
	Database   string
}

// Load reads configuration from, in ascending priority: config file
// (.cypher-go.yaml in the working directory, home directory, or
// ~/.config/cypher-go), environment variables prefixed CYPHER_GO, and a
// local .env file.
func Load() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName(".cypher-go")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "cypher-go"))

	viper.SetEnvPrefix("CYPHER_GO")
	viper.AutomaticEnv()

	viper.SetDefault("schema_path", "schema.graph")
	viper.SetDefault("uri", "bolt://localhost:7687")
	viper.SetDefault("username", "neo4j")
	viper.SetDefault("database", "neo4j")

	// Config file is optional.
	_ = viper.ReadInConfig()

	// .env and .env.local are optional too; .env.local wins.
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	cfg := &Config{
		SchemaPath: viper.GetString("schema_path"),
		URI:        viper.GetString("uri"),
		Username:   viper.GetString("username"),
		Password:   viper.GetString("password"),
		Database:   viper.GetString("database"),
	}
	if url := os.Getenv("GRAPH_URL"); url != "" {
		cfg.URI = url
	}
	if pw := os.Getenv("GRAPH_PASSWORD"); pw != "" {
		cfg.Password = pw
	}
	return cfg, nil
}
