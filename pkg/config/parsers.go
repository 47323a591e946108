package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Flags holds parsed command-line flag values and which were set. The
// remaining positional arguments are the launch parameters
// `port boardW boardH noteW noteH color1 … colorN`.
type Flags struct {
	Config      string
	OpsAddr     string
	LogLevel    string
	MaxSessions int
	Set         map[string]bool
	Args        []string
}

// EffectiveConfigResult is the merged configuration plus a description of
// the sources that contributed to it.
type EffectiveConfigResult struct {
	Config *Config
	Source string // comma-joined subset of "config", "env", "flags", "args"; "defaults" when none applied
}

// ParseCommandFlags parses command-line flags, leaving positional launch
// arguments in Args.
func ParseCommandFlags() Flags {
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	opsPtr := flag.String("ops-addr", "", "Ops HTTP listen address (healthz/metrics); empty disables")
	lvlPtr := flag.String("log-level", "", "Log level (debug|info|warn|error)")
	maxPtr := flag.Int("max-sessions", 0, "Max concurrent sessions (0 = 2x cores, min 8)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [flags] <port> <board_width> <board_height> <note_width> <note_height> <color1> ... <colorN>\n",
			os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return Flags{
		Config:      *cfgPtr,
		OpsAddr:     *opsPtr,
		LogLevel:    *lvlPtr,
		MaxSessions: *maxPtr,
		Set:         set,
		Args:        flag.Args(),
	}
}

// ParseConfigFile loads the yaml file named by the flags. A missing file
// is not an error unless --config was set explicitly.
func ParseConfigFile(fl Flags) (*Config, bool, error) {
	cfg, err := Load(fl.Config)
	if err != nil {
		if os.IsNotExist(err) && !fl.Set["config"] {
			return &Config{}, false, nil
		}
		return nil, false, err
	}
	return cfg, true, nil
}

// ParseConfigEnvs reads PINBOARD_* environment variables into a fresh
// Config and reports whether any were present. It does not mutate any
// caller-provided config.
func ParseConfigEnvs() (*Config, bool) {
	cfg := &Config{}
	used := false

	if v := os.Getenv("PINBOARD_SERVER_ADDRESS"); v != "" {
		used = true
		cfg.Server.Address = v
	}
	if v := os.Getenv("PINBOARD_SERVER_PORT"); v != "" {
		used = true
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("PINBOARD_MAX_SESSIONS"); v != "" {
		used = true
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MaxSessions = n
		}
	}
	if v := os.Getenv("PINBOARD_OPS_ADDR"); v != "" {
		used = true
		cfg.Ops.Addr = v
	}
	if v := os.Getenv("PINBOARD_LIMITS_RPS"); v != "" {
		used = true
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Limits.RPS = f
		}
	}
	if v := os.Getenv("PINBOARD_LIMITS_BURST"); v != "" {
		used = true
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Limits.Burst = n
		}
	}
	if v := os.Getenv("PINBOARD_LOG_LEVEL"); v != "" {
		used = true
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PINBOARD_BOARD_COLORS"); v != "" {
		used = true
		var colors []string
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				colors = append(colors, s)
			}
		}
		cfg.Board.Colors = colors
	}
	return cfg, used
}

// ParsePositional applies the launch arguments of the form
// `port boardW boardH noteW noteH color1 … colorN` onto cfg. All numeric
// arguments must be positive and at least one color is required.
func ParsePositional(cfg *Config, args []string) error {
	if len(args) < 6 {
		return fmt.Errorf("expected <port> <board_width> <board_height> <note_width> <note_height> <color1> ... <colorN>, got %d arguments", len(args))
	}
	names := []string{"port", "board_width", "board_height", "note_width", "note_height"}
	vals := make([]int, 5)
	for i, name := range names {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return fmt.Errorf("%s: not an integer: %q", name, args[i])
		}
		if v <= 0 {
			return fmt.Errorf("%s must be a positive integer (got %d)", name, v)
		}
		vals[i] = v
	}
	cfg.Server.Port = vals[0]
	cfg.Board.Width = vals[1]
	cfg.Board.Height = vals[2]
	cfg.Board.NoteWidth = vals[3]
	cfg.Board.NoteHeight = vals[4]
	cfg.Board.Colors = append([]string{}, args[5:]...)
	return nil
}

// LoadEffective merges defaults, file, env, flags and positional launch
// arguments, in that order of increasing precedence, and validates the
// result.
func LoadEffective(fl Flags) (EffectiveConfigResult, error) {
	cfg := &Config{}
	var sources []string

	if fileCfg, present, err := ParseConfigFile(fl); err != nil {
		return EffectiveConfigResult{}, err
	} else if present {
		*cfg = *fileCfg
		sources = append(sources, "config")
	}

	if envCfg, used := ParseConfigEnvs(); used {
		overlay(cfg, envCfg)
		sources = append(sources, "env")
	}

	if fl.Set["ops-addr"] {
		cfg.Ops.Addr = fl.OpsAddr
	}
	if fl.Set["log-level"] {
		cfg.Logging.Level = fl.LogLevel
	}
	if fl.Set["max-sessions"] {
		cfg.Server.MaxSessions = fl.MaxSessions
	}
	if fl.Set["ops-addr"] || fl.Set["log-level"] || fl.Set["max-sessions"] {
		sources = append(sources, "flags")
	}

	if len(fl.Args) > 0 {
		if err := ParsePositional(cfg, fl.Args); err != nil {
			return EffectiveConfigResult{}, err
		}
		sources = append(sources, "args")
	}

	if err := cfg.Validate(); err != nil {
		return EffectiveConfigResult{}, err
	}
	if len(sources) == 0 {
		sources = append(sources, "defaults")
	}
	return EffectiveConfigResult{Config: cfg, Source: strings.Join(sources, ",")}, nil
}

// overlay copies the non-zero fields of src onto dst.
func overlay(dst, src *Config) {
	if src.Server.Address != "" {
		dst.Server.Address = src.Server.Address
	}
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if src.Server.MaxSessions != 0 {
		dst.Server.MaxSessions = src.Server.MaxSessions
	}
	if src.Ops.Addr != "" {
		dst.Ops.Addr = src.Ops.Addr
	}
	if src.Limits.RPS != 0 {
		dst.Limits.RPS = src.Limits.RPS
	}
	if src.Limits.Burst != 0 {
		dst.Limits.Burst = src.Limits.Burst
	}
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if len(src.Board.Colors) > 0 {
		dst.Board.Colors = append([]string{}, src.Board.Colors...)
	}
	if src.Board.Width != 0 {
		dst.Board.Width = src.Board.Width
	}
	if src.Board.Height != 0 {
		dst.Board.Height = src.Board.Height
	}
	if src.Board.NoteWidth != 0 {
		dst.Board.NoteWidth = src.Board.NoteWidth
	}
	if src.Board.NoteHeight != 0 {
		dst.Board.NoteHeight = src.Board.NoteHeight
	}
}
