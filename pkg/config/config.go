// Package config loads mazegen settings from a TOML file.
//
// A config file looks like this; every key is optional:
//
//	[maze]
//	width = 64
//	height = 32
//	seed = 42
//	start_x = 0
//	start_y = 0
//	connectivity = "4"
//
//	[driver]
//	rate = 30.0
//	max_catch_up = 1
//
//	[server]
//	addr = ":8080"
//	max_sessions = 64
//
// Missing keys keep their [Default] values. Command-line flags override
// both.
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mazegen/pkg/errors"
	"github.com/matzehuels/mazegen/pkg/grid"
	"github.com/matzehuels/mazegen/pkg/session"
)

// Default values.
const (
	DefaultRate        = 30.0
	DefaultMaxCatchUp  = 1
	DefaultAddr        = ":8080"
	DefaultMaxSessions = 64

	appName  = "mazegen"
	fileName = "config.toml"
)

// Config is the full configuration.
type Config struct {
	Maze   MazeConfig   `toml:"maze"`
	Driver DriverConfig `toml:"driver"`
	Server ServerConfig `toml:"server"`
}

// MazeConfig configures the grid and the generator.
type MazeConfig struct {
	Width        int    `toml:"width"`
	Height       int    `toml:"height"`
	Seed         uint64 `toml:"seed"`
	StartX       int    `toml:"start_x"`
	StartY       int    `toml:"start_y"`
	Connectivity string `toml:"connectivity"`
}

// DriverConfig configures step pacing.
type DriverConfig struct {
	Rate       float64 `toml:"rate"`
	MaxCatchUp int     `toml:"max_catch_up"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string `toml:"addr"`
	MaxSessions int    `toml:"max_sessions"`
}

// Default returns the built-in configuration: a 64x32 4-connected grid
// carved from the top-left corner at 30 steps per second.
func Default() Config {
	return Config{
		Maze: MazeConfig{
			Width:        session.DefaultWidth,
			Height:       session.DefaultHeight,
			Connectivity: grid.Conn4.String(),
		},
		Driver: DriverConfig{
			Rate:       DefaultRate,
			MaxCatchUp: DefaultMaxCatchUp,
		},
		Server: ServerConfig{
			Addr:        DefaultAddr,
			MaxSessions: DefaultMaxSessions,
		},
	}
}

// DefaultPath returns the config file location following XDG
// (~/.config/mazegen/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads the file at path over the defaults. An empty path or a missing
// file yields the defaults. Unknown keys are rejected so that typos do not
// pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}
	if err := Parse(string(data), &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse decodes TOML text into cfg, keeping values for absent keys.
func Parse(text string, cfg *Config) error {
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidFormat, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := errors.ValidateDimensions(c.Maze.Width, c.Maze.Height, 0); err != nil {
		return err
	}
	if c.Maze.StartX < 0 || c.Maze.StartY < 0 || c.Maze.StartX >= c.Maze.Width || c.Maze.StartY >= c.Maze.Height {
		return errors.New(errors.ErrCodeInvalidStartKey, "start %d.%d outside %dx%d grid",
			c.Maze.StartX, c.Maze.StartY, c.Maze.Width, c.Maze.Height)
	}
	if _, err := grid.ParseConnectivity(c.Maze.Connectivity); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid connectivity")
	}
	if err := errors.ValidateRate(c.Driver.Rate); err != nil {
		return err
	}
	if c.Driver.MaxCatchUp < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "max_catch_up must be at least 1")
	}
	if c.Server.MaxSessions < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "max_sessions must be at least 1")
	}
	return nil
}

// SessionOptions converts the maze section into session options.
func (c Config) SessionOptions() (session.Options, error) {
	conn, err := grid.ParseConnectivity(c.Maze.Connectivity)
	if err != nil {
		return session.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid connectivity")
	}
	return session.Options{
		Width:  c.Maze.Width,
		Height: c.Maze.Height,
		Start:  grid.Key{X: c.Maze.StartX, Y: c.Maze.StartY},
		Seed:   c.Maze.Seed,
		Conn:   conn,
	}, nil
}
