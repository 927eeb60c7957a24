// Package config reads vartrace.toml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nihei9/vartrace/spec/blueprint"
)

const FileName = "vartrace.toml"

// Mode is a tri-state switch for terminal features.
type Mode string

const (
	ModeAuto = Mode("auto")
	ModeOn   = Mode("on")
	ModeOff  = Mode("off")
)

func (m Mode) valid() bool {
	switch m {
	case ModeAuto, ModeOn, ModeOff:
		return true
	}
	return false
}

// Enabled resolves the mode. isTerminal decides ModeAuto.
func (m Mode) Enabled(isTerminal bool) bool {
	switch m {
	case ModeOn:
		return true
	case ModeOff:
		return false
	}
	return isTerminal
}

type Blueprints struct {
	Grammar string `toml:"grammar"`
	States  string `toml:"states"`
	AST     string `toml:"ast"`
}

type Replay struct {
	Semantic bool `toml:"semantic"`
}

type Output struct {
	Color    Mode   `toml:"color"`
	UI       Mode   `toml:"ui"`
	LogLevel string `toml:"log_level"`
}

type Config struct {
	Blueprints Blueprints `toml:"blueprints"`
	Replay     Replay     `toml:"replay"`
	Output     Output     `toml:"output"`

	// Path is the file the configuration was read from. It is empty for the default
	// configuration.
	Path string `toml:"-"`
}

func Default() *Config {
	return &Config{
		Output: Output{
			Color:    ModeAuto,
			UI:       ModeAuto,
			LogLevel: "warn",
		},
	}
}

// Find looks for vartrace.toml in startDir and its ancestors.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads a configuration file. Keys the file leaves out keep their default values, and
// relative blueprint paths are resolved against the directory of the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		keys := make([]string, 0, len(undec))
		for _, k := range undec {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("output", "color") && !cfg.Output.Color.valid() {
		return nil, fmt.Errorf("%s: [output].color must be one of auto, on, off: %q", path, cfg.Output.Color)
	}
	if meta.IsDefined("output", "ui") && !cfg.Output.UI.valid() {
		return nil, fmt.Errorf("%s: [output].ui must be one of auto, on, off: %q", path, cfg.Output.UI)
	}
	if meta.IsDefined("output", "log_level") {
		if _, err := ParseLevel(cfg.Output.LogLevel); err != nil {
			return nil, fmt.Errorf("%s: [output].log_level: %w", path, err)
		}
	}
	root := filepath.Dir(path)
	cfg.Blueprints.Grammar = resolve(root, cfg.Blueprints.Grammar)
	cfg.Blueprints.States = resolve(root, cfg.Blueprints.States)
	cfg.Blueprints.AST = resolve(root, cfg.Blueprints.AST)
	cfg.Path = path
	return cfg, nil
}

// Discover finds and loads the configuration for startDir. The default configuration is
// returned when there is no file.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func resolve(root, p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, filepath.FromSlash(p))
}

func (c *Config) BlueprintPaths() blueprint.Paths {
	return blueprint.Paths{
		Grammar: c.Blueprints.Grammar,
		States:  c.Blueprints.States,
		AST:     c.Blueprints.AST,
	}
}

// ParseLevel parses debug, info, warn, or error.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unknown log level: %q", s)
	}
	return l, nil
}
