package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mazegen/pkg/driver"
	"github.com/matzehuels/mazegen/pkg/errors"
	"github.com/matzehuels/mazegen/pkg/session"
)

// animateCommand creates the animate command, which carves mazes in the
// terminal at a fixed rate and starts a new one after each completes.
func (c *CLI) animateCommand() *cobra.Command {
	var (
		flags mazeFlags
		rate  float64
	)

	cmd := &cobra.Command{
		Use:   "animate",
		Short: "Watch mazes being carved in the terminal",
		Long: `Carve mazes step by step in the terminal.

Steps are paced at --rate steps per second (30 by default). A finished maze
stays on screen for two seconds before a new one starts. Keys:

  space  pause or resume
  f      take a single step
  r      start a new maze
  w      toggle walls
  n      toggle cell markers
  e      toggle carved passages
  p      toggle potential adjacency (green: open to the active cell,
         red: already visited)
  q      quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("rate") {
				if err := errors.ValidateRate(rate); err != nil {
					return err
				}
				cfg.Driver.Rate = rate
			}
			opts, err := cfg.SessionOptions()
			if err != nil {
				return err
			}

			logger := loggerFromContext(cmd.Context())
			fixedSeed := opts.Seed != 0
			newSession := func() (*session.Session, error) {
				sess, err := session.New(opts)
				if err != nil {
					return nil, errors.FromGraph(err)
				}
				logger.Debug("new maze", "seed", sess.Options.Seed, "cells", sess.Graph().Len())
				// With a fixed seed, successive mazes use consecutive seeds.
				if fixedSeed {
					opts.Seed++
				}
				return sess, nil
			}

			m, err := newAnimateModel(newSession, driver.Options{
				Rate:       cfg.Driver.Rate,
				MaxCatchUp: cfg.Driver.MaxCatchUp,
			})
			if err != nil {
				return err
			}

			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return fmt.Errorf("animate: %w", err)
			}
			if fm, ok := final.(animateModel); ok && fm.err != nil {
				return fm.err
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&rate, "rate", driver.DefaultRate, "steps per second")
	return cmd
}
