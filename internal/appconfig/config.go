package appconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/moodclient/mudclient"
	"github.com/moodclient/mudclient/render"
	"github.com/moodclient/mudclient/telnet"
	"github.com/moodclient/mudclient/telnet/telopts"
)

// Config is the top-level client configuration.
type Config struct {
	ConfigVersion int            `mapstructure:"config_version" yaml:"config_version"`
	Terminal      TerminalConfig `mapstructure:"terminal" yaml:"terminal"`
	Logging       LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// TerminalConfig controls charsets, telopt policy and parser bounds.
type TerminalConfig struct {
	Charset           string   `mapstructure:"charset" yaml:"charset"`
	FallbackCharset   string   `mapstructure:"fallback_charset" yaml:"fallback_charset"`
	TerminalTypes     []string `mapstructure:"terminal_types" yaml:"terminal_types"`
	Environment       []string `mapstructure:"environment" yaml:"environment"`
	AcceptEOR         bool     `mapstructure:"accept_eor" yaml:"accept_eor"`
	Columns           int      `mapstructure:"columns" yaml:"columns"`
	Rows              int      `mapstructure:"rows" yaml:"rows"`
	MaxSubnegotiation int      `mapstructure:"max_subnegotiation" yaml:"max_subnegotiation"`
	MaxSequence       int      `mapstructure:"max_sequence" yaml:"max_sequence"`
	ReadBufferSize    int      `mapstructure:"read_buffer_size" yaml:"read_buffer_size"`
}

// LoggingConfig controls the debug log.
type LoggingConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Terminal: TerminalConfig{
			Charset:           "UTF-8",
			TerminalTypes:     slices.Clone(telopts.DefaultTerminalTypes),
			AcceptEOR:         true,
			Columns:           telnet.DefaultWindowSize.Columns,
			Rows:              telnet.DefaultWindowSize.Rows,
			MaxSubnegotiation: telnet.DefaultMaxSubnegotiation,
			MaxSequence:       render.DefaultMaxSequence,
			ReadBufferSize:    mudclient.DefaultReadBufferSize,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mudclient", "config.yaml"), nil
}

// SlogLevel parses the configured log level.
func (c LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}

// EnvironmentMap splits the NAME=value entries reported over NEW-ENVIRON.
func (c TerminalConfig) EnvironmentMap() (map[string]string, error) {
	if len(c.Environment) == 0 {
		return nil, nil
	}

	env := make(map[string]string, len(c.Environment))
	for _, entry := range c.Environment {
		name, value, found := strings.Cut(entry, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("terminal.environment entry %q must be NAME=value", entry)
		}
		env[name] = value
	}
	return env, nil
}

// TerminalConfig builds the library configuration. Hooks are registered by the caller.
func (c Config) TerminalConfig() (mudclient.TerminalConfig, error) {
	env, err := c.Terminal.EnvironmentMap()
	if err != nil {
		return mudclient.TerminalConfig{}, err
	}

	return mudclient.TerminalConfig{
		Charset:         c.Terminal.Charset,
		FallbackCharset: c.Terminal.FallbackCharset,
		TelOpts: telopts.Defaults(telopts.DefaultsConfig{
			TerminalTypes: c.Terminal.TerminalTypes,
			Environment:   env,
			AcceptEOR:     c.Terminal.AcceptEOR,
		}),
		WindowSize:        telnet.ClampWindowSize(c.Terminal.Columns, c.Terminal.Rows),
		MaxSubnegotiation: c.Terminal.MaxSubnegotiation,
		MaxSequence:       c.Terminal.MaxSequence,
		ReadBufferSize:    c.Terminal.ReadBufferSize,
	}, nil
}
