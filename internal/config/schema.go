package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// OptionType is the expected type of an option's value.
type OptionType string

const (
	TypeString   OptionType = "string"
	TypeBool     OptionType = "bool"
	TypeInt      OptionType = "int"
	TypeDuration OptionType = "duration"
)

// ConfigOption declares one option.
type ConfigOption struct {
	Key     string
	Type    OptionType
	Default string
	// Description is shown by FormatHelp.
	Description string
	// Section is "" for global options.
	Section string
	// EnvVar, if set, overrides the file value.
	EnvVar string
	// Choices restricts a string option to a fixed set.
	Choices []string
}

// ConfigSchema is the set of known options.
type ConfigSchema struct {
	options   []*ConfigOption
	bySection map[string]map[string]*ConfigOption
}

// NewSchema returns an empty schema.
func NewSchema() *ConfigSchema {
	return &ConfigSchema{bySection: make(map[string]map[string]*ConfigOption)}
}

// Register adds opt, replacing any earlier option with the same section and
// key.
func (s *ConfigSchema) Register(opt ConfigOption) {
	ref := &opt
	if s.bySection[opt.Section] == nil {
		s.bySection[opt.Section] = make(map[string]*ConfigOption)
	}
	if old := s.bySection[opt.Section][opt.Key]; old != nil {
		*old = opt
		return
	}
	s.bySection[opt.Section][opt.Key] = ref
	s.options = append(s.options, ref)
}

// RegisterAll registers each of opts.
func (s *ConfigSchema) RegisterAll(opts []ConfigOption) {
	for _, o := range opts {
		s.Register(o)
	}
}

// Lookup returns the option for key in section ("" for global), or nil.
func (s *ConfigSchema) Lookup(section, key string) *ConfigOption {
	return s.bySection[section][key]
}

// lookupIn finds key in section, falling back to the global options.
func (s *ConfigSchema) lookupIn(section, key string) *ConfigOption {
	if o := s.Lookup(section, key); o != nil {
		return o
	}
	return s.Lookup("", key)
}

// IsKnown reports whether key may appear in section. Global options are
// accepted in every section.
func (s *ConfigSchema) IsKnown(section, key string) bool {
	return s.lookupIn(section, key) != nil
}

// SectionOptions returns the options of section in registration order.
func (s *ConfigSchema) SectionOptions(section string) []ConfigOption {
	var out []ConfigOption
	for _, o := range s.options {
		if o.Section == section {
			out = append(out, *o)
		}
	}
	return out
}

// Sections returns the sorted non-global section names.
func (s *ConfigSchema) Sections() []string {
	var out []string
	for sec := range s.bySection {
		if sec != "" {
			out = append(out, sec)
		}
	}
	sort.Strings(out)
	return out
}

// Resolve returns the effective value of a global option: its environment
// variable, then the file, then the default.
func (s *ConfigSchema) Resolve(c *Config, key string) string {
	return s.ResolveIn(c, "", key)
}

// ResolveIn returns the effective value of key for a command section: the
// environment variable, the section value, the global value, then the
// default.
func (s *ConfigSchema) ResolveIn(c *Config, section, key string) string {
	opt := s.lookupIn(section, key)
	if opt != nil && opt.EnvVar != "" {
		if v, ok := os.LookupEnv(opt.EnvVar); ok {
			return v
		}
	}
	if c != nil {
		if v, ok := c.GetCommandOption(section, key); ok {
			return v
		}
	}
	if opt != nil {
		return opt.Default
	}
	return ""
}

// ResolveBool is ResolveIn parsed as a bool. Unparseable values yield the
// default.
func (s *ConfigSchema) ResolveBool(c *Config, section, key string) bool {
	if b, err := ParseBool(s.ResolveIn(c, section, key)); err == nil {
		return b
	}
	if opt := s.lookupIn(section, key); opt != nil {
		b, _ := ParseBool(opt.Default)
		return b
	}
	return false
}

// ResolveInt is ResolveIn parsed as an int. Unparseable values yield the
// default.
func (s *ConfigSchema) ResolveInt(c *Config, section, key string) int {
	if n, err := strconv.Atoi(s.ResolveIn(c, section, key)); err == nil {
		return n
	}
	if opt := s.lookupIn(section, key); opt != nil {
		n, _ := strconv.Atoi(opt.Default)
		return n
	}
	return 0
}

// ValidateConfig lists unknown options and type mismatches, sorted.
func ValidateConfig(c *Config, s *ConfigSchema) []string {
	var issues []string
	for key, value := range c.Global {
		opt := s.Lookup("", key)
		if opt == nil {
			issues = append(issues, fmt.Sprintf("unknown global option: %q (value: %q)", key, value))
			continue
		}
		if err := opt.validate(value); err != nil {
			issues = append(issues, fmt.Sprintf("global option %q: %v", key, err))
		}
	}
	for section, opts := range c.Commands {
		for key, value := range opts {
			opt := s.lookupIn(section, key)
			if opt == nil {
				issues = append(issues, fmt.Sprintf("unknown option for command %q: %q (value: %q)", section, key, value))
				continue
			}
			if err := opt.validate(value); err != nil {
				issues = append(issues, fmt.Sprintf("option %q in [%s]: %v", key, section, err))
			}
		}
	}
	sort.Strings(issues)
	return issues
}

func (o *ConfigOption) validate(value string) error {
	switch o.Type {
	case TypeString, "":
		if len(o.Choices) > 0 && !contains(o.Choices, value) {
			return fmt.Errorf("expected one of %s, got %q", strings.Join(o.Choices, "|"), value)
		}
	case TypeBool:
		if _, err := ParseBool(value); err != nil {
			return fmt.Errorf("expected bool, got %q", value)
		}
	case TypeInt:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("expected int, got %q", value)
		}
	case TypeDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("expected duration, got %q", value)
		}
	default:
		return fmt.Errorf("unknown option type %q", o.Type)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// FormatHelp renders every option, global first, then by section.
func (s *ConfigSchema) FormatHelp() string {
	var b strings.Builder
	if globals := s.SectionOptions(""); len(globals) > 0 {
		b.WriteString("Global Options:\n")
		for _, o := range globals {
			writeOptionHelp(&b, o)
		}
	}
	for _, sec := range s.Sections() {
		fmt.Fprintf(&b, "\n[%s] Options:\n", sec)
		for _, o := range s.SectionOptions(sec) {
			writeOptionHelp(&b, o)
		}
	}
	return b.String()
}

func writeOptionHelp(b *strings.Builder, o ConfigOption) {
	fmt.Fprintf(b, "  %-24s %s", o.Key, o.Description)
	var parts []string
	if o.Type != "" && o.Type != TypeString {
		parts = append(parts, "type: "+string(o.Type))
	}
	if len(o.Choices) > 0 {
		parts = append(parts, "one of: "+strings.Join(o.Choices, "|"))
	}
	if o.Default != "" {
		parts = append(parts, "default: "+o.Default)
	}
	if o.EnvVar != "" {
		parts = append(parts, "env: "+o.EnvVar)
	}
	if len(parts) > 0 {
		fmt.Fprintf(b, " (%s)", strings.Join(parts, ", "))
	}
	b.WriteString("\n")
}

// SuperDocumentSection is the section of the editor command.
const SuperDocumentSection = "super-document"

// ThemeKeys are the color roles accepted as theme.<key>.
var ThemeKeys = []string{"primary", "secondary", "danger", "warning", "muted", "bg", "fg", "focus"}

// DefaultSchema declares every known option.
func DefaultSchema() *ConfigSchema {
	s := NewSchema()
	s.RegisterAll([]ConfigOption{
		{Key: "log.level", Default: "info", Choices: []string{"debug", "info", "warn", "error"}, Description: "Log level", EnvVar: "SUPERDOC_LOG_LEVEL"},
		{Key: "log.file", Description: "Log file path (JSON lines)", EnvVar: "SUPERDOC_LOG_FILE"},
		{Key: "log.buffer-size", Type: TypeInt, Default: "1000", Description: "In-memory log entries kept"},
		{Key: "log.max-size-mb", Type: TypeInt, Default: "10", Description: "Log file size before rotation"},
		{Key: "log.max-files", Type: TypeInt, Default: "5", Description: "Rotated log files kept"},
		{Key: "session.id", Description: "Session id override", EnvVar: "SUPERDOC_SESSION_ID"},
		{Key: "storage.backend", Default: "fs", Choices: []string{"fs", "sqlite", "memory"}, Description: "Document storage backend", EnvVar: "SUPERDOC_STORE"},
	})
	for _, k := range ThemeKeys {
		s.Register(ConfigOption{Key: "theme." + k, Description: "Theme color for " + k})
	}
	s.RegisterAll([]ConfigOption{
		{Section: SuperDocumentSection, Key: "preview.max-chars", Type: TypeInt, Default: "50", Description: "Document preview width in cells"},
		{Section: SuperDocumentSection, Key: "textarea.max-height", Type: TypeInt, Default: "0", Description: "Content field height limit, 0 for none"},
		{Section: SuperDocumentSection, Key: "mouse", Type: TypeBool, Default: "true", Description: "Enable mouse input"},
		{Section: SuperDocumentSection, Key: "alt-screen", Type: TypeBool, Default: "true", Description: "Use the alternate screen"},
		{Section: SuperDocumentSection, Key: "template", Description: "Export template file"},

		{Section: SessionsSection, Key: "maxAgeDays", Type: TypeInt, Default: "90", Description: "Remove sessions older than this"},
		{Section: SessionsSection, Key: "maxCount", Type: TypeInt, Default: "100", Description: "Sessions kept"},
		{Section: SessionsSection, Key: "maxSizeMB", Type: TypeInt, Default: "500", Description: "Total session size kept"},
		{Section: SessionsSection, Key: "autoCleanupEnabled", Type: TypeBool, Default: "true", Description: "Clean up sessions in the background"},
		{Section: SessionsSection, Key: "cleanupIntervalHours", Type: TypeInt, Default: "24", Description: "Hours between cleanups"},
	})
	return s
}
