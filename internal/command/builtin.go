package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/joeycumines/super-document/internal/config"
)

// HelpCommand lists commands, or describes one.
type HelpCommand struct {
	*BaseCommand
	registry *Registry
}

// NewHelpCommand creates the help command.
func NewHelpCommand(registry *Registry) *HelpCommand {
	return &HelpCommand{
		BaseCommand: NewBaseCommand(
			"help",
			"Display help information for commands",
			"help [command]",
		),
		registry: registry,
	}
}

func (c *HelpCommand) Execute(_ context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		_, _ = fmt.Fprintln(stdout, "superdoc - assemble documents into a single prompt from your terminal")
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Usage: superdoc <command> [options] [args...]")
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Available commands:")

		w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
		for _, name := range c.registry.List() {
			if cmd, err := c.registry.Get(name); err == nil {
				_, _ = fmt.Fprintf(w, "  %s\t%s\n", name, cmd.Description())
			}
		}
		_ = w.Flush()

		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Use 'superdoc help <command>' for more information about a specific command (includes flags).")
		return nil
	}

	cmd, err := c.registry.Get(args[0])
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Command: %s\n", cmd.Name())
	_, _ = fmt.Fprintf(stdout, "Description: %s\n", cmd.Description())
	_, _ = fmt.Fprintf(stdout, "Usage: superdoc %s\n", cmd.Usage())
	if flags := flagDefaults(cmd); flags != "" {
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Flags:")
		_, _ = fmt.Fprint(stdout, flags)
	}
	return nil
}

// VersionCommand prints the build version.
type VersionCommand struct {
	*BaseCommand
	version string
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *VersionCommand {
	return &VersionCommand{
		BaseCommand: NewBaseCommand("version", "Display version information", "version"),
		version:     version,
	}
}

func (c *VersionCommand) Execute(_ context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return errors.New("unexpected arguments")
	}
	_, _ = fmt.Fprintf(stdout, "superdoc version %s\n", c.version)
	return nil
}

// ConfigCommand reads and writes configuration options.
type ConfigCommand struct {
	*BaseCommand
	config     *config.Config
	configPath string
	section    string
	showAll    bool
}

// NewConfigCommand creates the config command. Writes go to configPath;
// when it is empty the path is resolved on first write.
func NewConfigCommand(cfg *config.Config, configPath string) *ConfigCommand {
	return &ConfigCommand{
		BaseCommand: NewBaseCommand(
			"config",
			"Manage configuration settings",
			"config [options] [key] [value] | config validate | config schema",
		),
		config:     cfg,
		configPath: configPath,
	}
}

func (c *ConfigCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.section, "section", "", "Command section to read or write (e.g. super-document)")
	fs.BoolVar(&c.showAll, "all", false, "Show all configuration (global and per-command)")
}

func (c *ConfigCommand) Execute(_ context.Context, args []string, stdout, stderr io.Writer) error {
	schema := config.DefaultSchema()

	if len(args) == 0 {
		if c.showAll {
			c.printAll(stdout)
			return nil
		}
		_, _ = fmt.Fprintln(stdout, "Configuration management:")
		_, _ = fmt.Fprintln(stdout, "  config <key>                   - Show the effective value")
		_, _ = fmt.Fprintln(stdout, "  config <key> <value>           - Set a value in the config file")
		_, _ = fmt.Fprintln(stdout, "  config -section <name> ...     - Read or write a command section")
		_, _ = fmt.Fprintln(stdout, "  config -all                    - Show all configuration")
		_, _ = fmt.Fprintln(stdout, "  config validate                - Validate configuration")
		_, _ = fmt.Fprintln(stdout, "  config schema                  - Show known options")
		return nil
	}

	switch args[0] {
	case "validate":
		return c.validate(stdout)
	case "schema":
		_, _ = fmt.Fprint(stdout, schema.FormatHelp())
		return nil
	}

	switch len(args) {
	case 1:
		key := args[0]
		if _, exists := c.config.GetCommandOption(c.section, key); exists || schema.IsKnown(c.section, key) {
			_, _ = fmt.Fprintf(stdout, "%s: %s\n", key, schema.ResolveIn(c.config, c.section, key))
		} else {
			_, _ = fmt.Fprintf(stdout, "Configuration key '%s' not found\n", key)
		}
		return nil
	case 2:
		key, value := args[0], args[1]
		if !schema.IsKnown(c.section, key) {
			_, _ = fmt.Fprintf(stderr, "Warning: %q is not a known option\n", key)
		}
		if c.section == "" {
			c.config.SetGlobalOption(key, value)
		} else {
			c.config.SetCommandOption(c.section, key, value)
		}

		path := c.configPath
		if path == "" {
			path, _ = config.GetConfigPath()
		}
		if path != "" {
			if err := config.SetKeyInFile(path, c.section, key, value); err != nil {
				_, _ = fmt.Fprintf(stderr, "Warning: failed to persist config to disk: %v\n", err)
			}
		}
		_, _ = fmt.Fprintf(stdout, "Set configuration: %s = %s\n", key, value)
		return nil
	}

	_, _ = fmt.Fprintln(stderr, "Invalid number of arguments")
	return errors.New("invalid arguments")
}

func (c *ConfigCommand) printAll(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Global configuration:")
	for _, key := range c.config.Keys() {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", key, c.config.Global[key])
	}
	_, _ = fmt.Fprintln(w, "\nCommand-specific configuration:")
	for _, section := range sortedKeys(c.config.Commands) {
		_, _ = fmt.Fprintf(w, "  [%s]\n", section)
		opts := c.config.Commands[section]
		for _, key := range sortedKeys(opts) {
			_, _ = fmt.Fprintf(w, "    %s: %s\n", key, opts[key])
		}
	}
	s := c.config.Sessions
	_, _ = fmt.Fprintln(w, "\nSession retention:")
	_, _ = fmt.Fprintf(w, "  maxAgeDays: %d\n  maxCount: %d\n  maxSizeMB: %d\n  autoCleanupEnabled: %t\n  cleanupIntervalHours: %d\n",
		s.MaxAgeDays, s.MaxCount, s.MaxSizeMB, s.AutoCleanupEnabled, s.CleanupIntervalHours)
}

func (c *ConfigCommand) validate(w io.Writer) error {
	issues := config.ValidateConfig(c.config, config.DefaultSchema())
	if len(issues) == 0 {
		_, _ = fmt.Fprintln(w, "Configuration is valid.")
		return nil
	}
	_, _ = fmt.Fprintf(w, "Configuration has %d issue(s):\n", len(issues))
	for _, issue := range issues {
		_, _ = fmt.Fprintf(w, "  - %s\n", issue)
	}
	return nil
}

// defaultConfigFile is written by init.
const defaultConfigFile = `# superdoc configuration file
# Format: optionName remainingLineIsTheValue
# Use [section] headers for command-specific options.

# Global options
log.level info
# log.file /tmp/superdoc.log
# storage.backend fs

[super-document]
preview.max-chars 50
textarea.max-height 0
mouse true
alt-screen true
# template /path/to/prompt-template.md
# theme.primary #818CF8
# theme.focus #60A5FA

[sessions]
maxAgeDays 90
maxCount 100
maxSizeMB 500
autoCleanupEnabled true
cleanupIntervalHours 24
`

// InitCommand writes a commented default configuration file.
type InitCommand struct {
	*BaseCommand
	configPath string
	force      bool
}

// NewInitCommand creates the init command. An empty configPath is resolved
// with config.GetConfigPath.
func NewInitCommand(configPath string) *InitCommand {
	return &InitCommand{
		BaseCommand: NewBaseCommand("init", "Create a default configuration file", "init [options]"),
		configPath:  configPath,
	}
}

func (c *InitCommand) SetupFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "Overwrite an existing configuration file")
}

func (c *InitCommand) Execute(_ context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return errors.New("unexpected arguments")
	}
	path := c.configPath
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		if err := config.EnsureConfigDir(); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if _, err := os.Stat(path); err == nil && !c.force {
		_, _ = fmt.Fprintf(stdout, "Configuration already exists at: %s\n", path)
		_, _ = fmt.Fprintln(stdout, "Use -force to overwrite existing configuration")
		return nil
	}
	if err := os.WriteFile(path, []byte(defaultConfigFile), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if cfg, err := config.LoadFromPath(path); err != nil {
		_, _ = fmt.Fprintf(stderr, "Warning: failed to load created config: %v\n", err)
	} else if cfg.HasWarnings() {
		for _, w := range cfg.Warnings {
			_, _ = fmt.Fprintf(stderr, "Warning: %s\n", w)
		}
	}
	_, _ = fmt.Fprintf(stdout, "Initialized superdoc configuration at: %s\n", path)
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
