package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a yaml config file. Callers treat a missing file
// as "no file config" via os.IsNotExist on the returned error.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the effective config against the launch rules: all
// numeric board parameters and the port must be positive and at least one
// color is required.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("port must be a positive integer (got %d)", c.Server.Port)
	}
	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		return fmt.Errorf("board dimensions must be positive integers (got %dx%d)", c.Board.Width, c.Board.Height)
	}
	if c.Board.NoteWidth <= 0 || c.Board.NoteHeight <= 0 {
		return fmt.Errorf("note dimensions must be positive integers (got %dx%d)", c.Board.NoteWidth, c.Board.NoteHeight)
	}
	if len(c.Board.Colors) == 0 {
		return fmt.Errorf("at least one color is required")
	}
	for _, col := range c.Board.Colors {
		if col == "" {
			return fmt.Errorf("empty color name")
		}
	}
	return nil
}
