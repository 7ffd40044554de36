package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/termdock/termdock/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify Termdock configuration",
	Long: `View or modify Termdock configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  termdock config set pool.max_size 5
  termdock config set terminal.shell /bin/zsh
  termdock config set logging.level debug

Valid keys:
  pool.max_size              - Max terminals the pool will hold
  terminal.cols              - Initial terminal width in columns
  terminal.rows              - Initial terminal height in rows
  terminal.scrollback_lines  - Scrollback lines kept per terminal
  terminal.shell             - Shell command for new terminals
  tui.capture_interval_ms    - Buffer capture interval in milliseconds
  tui.sidebar_width          - Sidebar panel width in columns
  logging.enabled            - Enable debug logging (true/false)
  logging.level              - Log level (debug/info/warn/error)
  logging.file               - Log file path`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/termdock/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	fmt.Println("Current configuration:")
	fmt.Println()

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Printf("Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("Config file: (none - using defaults)\n")
	}
	fmt.Println()

	fmt.Println("pool:")
	fmt.Printf("  max_size: %d\n", cfg.Pool.MaxSize)

	fmt.Println("terminal:")
	fmt.Printf("  cols: %d\n", cfg.Terminal.Cols)
	fmt.Printf("  rows: %d\n", cfg.Terminal.Rows)
	fmt.Printf("  scrollback_lines: %d\n", cfg.Terminal.ScrollbackLines)
	fmt.Printf("  shell: %s\n", cfg.Terminal.ShellCommand())

	fmt.Println("tui:")
	fmt.Printf("  capture_interval_ms: %d\n", cfg.TUI.CaptureIntervalMs)
	fmt.Printf("  sidebar_width: %d\n", cfg.TUI.SidebarWidth)

	fmt.Println("logging:")
	fmt.Printf("  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Printf("  level: %s\n", cfg.Logging.Level)
	fmt.Printf("  file: %s\n", cfg.Logging.ResolveFile())

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	// Validate the key exists
	validKeys := map[string]string{
		"pool.max_size":             "int",
		"terminal.cols":             "int",
		"terminal.rows":             "int",
		"terminal.scrollback_lines": "int",
		"terminal.shell":            "string",
		"tui.capture_interval_ms":   "int",
		"tui.sidebar_width":         "int",
		"logging.enabled":           "bool",
		"logging.level":             "string",
		"logging.file":              "string",
	}

	keyType, ok := validKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'termdock config set --help' to see valid keys", key)
	}

	// Validate the value based on type
	var typedValue interface{}
	switch keyType {
	case "string":
		if key == "logging.level" && !slices.Contains(config.ValidLogLevels(), value) {
			return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(config.ValidLogLevels(), ", "))
		}
		typedValue = value
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = value == "true"
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if intVal < 0 {
			return fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		typedValue = intVal
	}

	// Ensure config directory exists
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set the value in viper
	viper.Set(key, typedValue)

	// Write to config file
	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Set %s = %v\n", key, typedValue)
	fmt.Printf("Config saved to %s\n", configFile)

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'termdock config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Generate a commented config file
	configContent := `# Termdock Configuration

# Terminal pool settings
pool:
  # Maximum number of terminals the pool will hold.
  # Creating a terminal beyond this limit fails; nothing is evicted.
  max_size: 10

# Terminal engine settings
terminal:
  # Initial dimensions for new terminals
  cols: 80
  rows: 24
  # Scrollback lines kept per terminal
  scrollback_lines: 10000
  # Shell command for new terminals (empty means $SHELL, then /bin/sh)
  shell: ""

# TUI (terminal user interface) settings
tui:
  # How often the visible terminal's buffer is captured, in milliseconds
  capture_interval_ms: 100
  # Sidebar panel width in columns
  sidebar_width: 32

# Logging settings
logging:
  enabled: true
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means termdock.log in the data directory)
  file: ""
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	fmt.Println("Edit this file to customize Termdock's behavior.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Printf("Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Println("\nSearch paths:")
	fmt.Printf("  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Printf("  2. $HOME/.config/termdock/config.yaml\n")
	fmt.Printf("  3. ./config.yaml (current directory)\n")
	fmt.Println("\nEnvironment variables: TERMDOCK_* (e.g., TERMDOCK_POOL_MAX_SIZE)")

	return nil
}
