package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runShowConfig,
}

var initConfigCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	RunE:  runInitConfig,
}

func init() {
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(initConfigCmd)
}

func runShowConfig(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

const defaultConfig = `# modelapi configuration

server:
  host: 0.0.0.0
  port: 8100
  base_path: /api/rest
  read_timeout: 30s
  write_timeout: 30s
  shutdown_timeout: 10s
  debug: false
  body_limit: 1M
  compression_level: 6

storage:
  driver: mongodb

mongodb:
  uri: mongodb://localhost:27017
  database: modelapi
  read_preference: nearest
  timeout: 10s

jsonapi:
  key_case: camelCase

models:
  file: ""

logging:
  level: info
  format: json
  output: stdout

security:
  rate_limit: 100
  allowed_origins:
    - "*"

events:
  enabled: true

metrics:
  enabled: true
  path: /metrics
`

func runInitConfig(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat("config.yaml"); err == nil {
		return fmt.Errorf("config.yaml already exists")
	}

	if err := os.WriteFile("config.yaml", []byte(defaultConfig), 0644); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Created config.yaml")
	return nil
}
