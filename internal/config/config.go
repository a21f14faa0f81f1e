package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"asm6502/pkg/asm"
	"asm6502/pkg/diag"
)

// EnvVar names the environment variable that points at a config file.
const EnvVar = "ASM6502_CONFIG"

// Config holds the complete application configuration
type Config struct {
	Assembler AssemblerConfig `toml:"assembler" yaml:"assembler"`
	Log       LogConfig       `toml:"log" yaml:"log"`
}

// AssemblerConfig sizes the assembler's buffers and sets the load address
type AssemblerConfig struct {
	Origin          int `toml:"origin" yaml:"origin"`
	MaxInput        int `toml:"max_input" yaml:"max_input"`
	MaxString       int `toml:"max_string" yaml:"max_string"`
	ArenaCapacity   int `toml:"arena_capacity" yaml:"arena_capacity"`
	SymbolTableSize int `toml:"symbol_table_size" yaml:"symbol_table_size"`
}

// LogConfig selects the log level and handler format
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{Assembler: AssemblerConfig{Origin: asm.DefaultOrigin}}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Origin 0 is a valid load address, so it is preset rather than defaulted.
	cfg := Config{Assembler: AssemblerConfig{Origin: asm.DefaultOrigin}}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(content), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return nil, diag.Errorf(diag.KindConfig, diag.Pos{}, "unsupported config format %q", ext)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads the file named by ASM6502_CONFIG, then the default
// locations, and falls back to Default when none exists.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	candidates := []string{"./asm6502.toml", "./asm6502.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "asm6502", "config.toml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Assembler.MaxInput == 0 {
		c.Assembler.MaxInput = asm.DefaultMaxInput
	}
	if c.Assembler.MaxString == 0 {
		c.Assembler.MaxString = asm.DefaultMaxString
	}
	if c.Assembler.ArenaCapacity == 0 {
		c.Assembler.ArenaCapacity = asm.ArenaCapacityFor(c.Assembler.MaxInput)
	}
	if c.Assembler.SymbolTableSize == 0 {
		c.Assembler.SymbolTableSize = asm.DefaultSymbolTableSize
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	a := c.Assembler
	switch {
	case a.Origin < 0 || a.Origin > 0xFFFF:
		return configError("assembler.origin %d is outside $0000-$FFFF", a.Origin)
	case a.MaxInput < 0:
		return configError("assembler.max_input must be positive, got %d", a.MaxInput)
	case a.MaxString < 0:
		return configError("assembler.max_string must be positive, got %d", a.MaxString)
	case a.ArenaCapacity < 0 || a.ArenaCapacity > asm.MaxArenaCapacity:
		return configError("assembler.arena_capacity must be 1-%d, got %d", asm.MaxArenaCapacity, a.ArenaCapacity)
	case a.SymbolTableSize < 0:
		return configError("assembler.symbol_table_size must be positive, got %d", a.SymbolTableSize)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return configError("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return configError("log.format %q is not text or json", c.Log.Format)
	}
	return nil
}

// AssemblerOptions converts the [assembler] section. The caller adds the
// logger.
func (c *Config) AssemblerOptions() asm.Options {
	return asm.Options{
		Origin:          uint16(c.Assembler.Origin),
		MaxInput:        c.Assembler.MaxInput,
		MaxString:       c.Assembler.MaxString,
		ArenaCapacity:   c.Assembler.ArenaCapacity,
		SymbolTableSize: c.Assembler.SymbolTableSize,
	}
}

func configError(format string, args ...any) error {
	return diag.Errorf(diag.KindConfig, diag.Pos{}, format, args...)
}
