// Package cli implements the mazegen command-line interface.
//
// This package provides commands for carving perfect mazes step by step,
// watching the generator work in the terminal, exporting mazes, and serving
// sessions over HTTP. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Carve a maze to completion and print it
//   - animate: Watch a maze being carved, 30 steps per second by default
//   - export: Write a maze as JSON, DOT, SVG, or ASCII text
//   - serve: Run the HTTP API
//   - cache: Inspect or clear the rendered maze cache
//
// # Configuration
//
// Maze, pacing, and server settings are read from
// ~/.config/mazegen/config.toml when present (see pkg/config). Flags override
// the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mazegen/pkg/buildinfo"
	"github.com/matzehuels/mazegen/pkg/config"
	"github.com/matzehuels/mazegen/pkg/errors"
	"github.com/matzehuels/mazegen/pkg/grid"
	"github.com/matzehuels/mazegen/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "mazegen"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The CLI logger is attached to every command's context.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Mazegen carves perfect mazes one step at a time",
		Long:         `Mazegen generates perfect mazes on rectangular grids with a randomized depth-first backtracker. Every step is observable, so mazes can be animated, inspected, or stepped remotely over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.animateCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Maze Flags
// =============================================================================

// mazeFlags are the grid and generator flags shared by all maze commands.
type mazeFlags struct {
	configPath string
	width      int
	height     int
	seed       uint64
	start      string
	conn       string
}

func (f *mazeFlags) register(cmd *cobra.Command) {
	def := config.Default()
	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "config file (default ~/.config/mazegen/config.toml)")
	flags.IntVar(&f.width, "width", def.Maze.Width, "grid width in cells")
	flags.IntVar(&f.height, "height", def.Maze.Height, "grid height in cells")
	flags.Uint64Var(&f.seed, "seed", 0, "random seed (0 picks one)")
	flags.StringVar(&f.start, "start", "0.0", "start cell as x.y")
	flags.StringVar(&f.conn, "conn", def.Maze.Connectivity, "connectivity: 4 or 8")
}

// load reads the config file and applies explicitly set flags on top.
func (f *mazeFlags) load(cmd *cobra.Command) (config.Config, error) {
	path := f.configPath
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	} else if err := errors.ValidatePath(path); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Maze.Width = f.width
	}
	if flags.Changed("height") {
		cfg.Maze.Height = f.height
	}
	if flags.Changed("seed") {
		cfg.Maze.Seed = f.seed
	}
	if flags.Changed("start") {
		k, err := grid.ParseKey(f.start)
		if err != nil {
			return cfg, errors.FromGraph(err)
		}
		cfg.Maze.StartX, cfg.Maze.StartY = k.X, k.Y
	}
	if flags.Changed("conn") {
		cfg.Maze.Connectivity = f.conn
	}
	return cfg, cfg.Validate()
}

// session loads the configuration and builds a new session from it.
func (f *mazeFlags) session(cmd *cobra.Command) (*session.Session, config.Config, error) {
	cfg, err := f.load(cmd)
	if err != nil {
		return nil, cfg, err
	}
	opts, err := cfg.SessionOptions()
	if err != nil {
		return nil, cfg, err
	}
	sess, err := session.New(opts)
	if err != nil {
		return nil, cfg, errors.FromGraph(err)
	}
	return sess, cfg, nil
}
