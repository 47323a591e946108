package config

import (
	"fmt"
	"runtime"
)

// Config is the main configuration struct. A yaml file, PINBOARD_*
// environment variables, command-line flags and the positional launch
// arguments merge into one of these; later sources win.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Board   BoardConfig   `yaml:"board"`
	Ops     OpsConfig     `yaml:"ops"`
	Limits  LimitsConfig  `yaml:"limits"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds the TCP listener settings.
type ServerConfig struct {
	Address     string `yaml:"address"`
	Port        int    `yaml:"port"`
	MaxSessions int    `yaml:"max_sessions"`
}

// BoardConfig holds the immutable board parameters set at startup.
type BoardConfig struct {
	Width      int      `yaml:"width"`
	Height     int      `yaml:"height"`
	NoteWidth  int      `yaml:"note_width"`
	NoteHeight int      `yaml:"note_height"`
	Colors     []string `yaml:"colors"`
}

// OpsConfig holds the optional operational HTTP listener; an empty
// address disables it.
type OpsConfig struct {
	Addr string `yaml:"addr"`
}

// LimitsConfig holds the per-peer command rate limit. RPS <= 0 disables
// limiting.
type LimitsConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Addr returns the TCP listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// SessionLimit returns the configured session pool size, defaulting to
// max(8, 2x available cores) when unset.
func (c *Config) SessionLimit() int {
	if c.Server.MaxSessions > 0 {
		return c.Server.MaxSessions
	}
	n := 2 * runtime.GOMAXPROCS(0)
	if n < 8 {
		n = 8
	}
	return n
}
