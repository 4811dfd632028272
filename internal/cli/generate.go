package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mazegen/pkg/driver"
	"github.com/matzehuels/mazegen/pkg/errors"
	"github.com/matzehuels/mazegen/pkg/export"
	"github.com/matzehuels/mazegen/pkg/maze"
)

// generateCommand creates the generate command, which carves a maze to
// completion without pacing and prints it.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		flags mazeFlags
		check bool
		quiet bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Carve a maze and print it",
		Long: `Carve a perfect maze to completion and print it as ASCII walls.

With --check the graph is validated after every step, which is slow on large
grids but verifies that the partial maze is a forest throughout.`,
		Example: `  mazegen generate --width 20 --height 10 --seed 42
  mazegen generate --conn 8 --check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := flags.session(cmd)
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			var stats driver.Stats
			if check {
				for !sess.IsComplete() {
					res := sess.Step()
					if res.Kind != maze.KindAlreadyComplete {
						stats.Steps++
					}
					if err := sess.Graph().Validate(); err != nil {
						return errors.Wrap(errors.ErrCodeInternal, err, "invalid graph after step %d", stats.Steps)
					}
				}
				stats.Complete = true
			} else {
				d, err := driver.New(driver.Options{Logger: logger})
				if err != nil {
					return err
				}
				stats = d.Drain(sess)
			}

			g := sess.Graph()
			prog.done(fmt.Sprintf("Carved %dx%d maze", sess.Options.Width, sess.Options.Height),
				"steps", stats.Steps, "seed", sess.Options.Seed)

			if !quiet {
				fmt.Fprint(cmd.OutOrStdout(), styleWalls(export.Walls(g)))
			}
			if check {
				if err := g.Validate(); err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "invalid maze")
				}
				if g.EdgeCount() != g.Len()-1 {
					return errors.New(errors.ErrCodeInternal, "maze has %d passages for %d cells", g.EdgeCount(), g.Len())
				}
				printSuccess("Maze is a spanning tree")
				printStats(g.Len(), g.EdgeCount(), stats.Steps)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&check, "check", false, "validate the graph after every step")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the maze")
	return cmd
}
