package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mazegen/pkg/cache"
	"github.com/matzehuels/mazegen/pkg/driver"
	"github.com/matzehuels/mazegen/pkg/errors"
	"github.com/matzehuels/mazegen/pkg/export"
)

// exportOpts holds the flags of the export command.
type exportOpts struct {
	format    string // json, dot, svg, or txt
	output    string // output file; empty writes to stdout
	potential bool   // include potential adjacency in DOT and SVG
	steps     int    // stop after this many steps; zero carves to completion
	noCache   bool   // render even if a cached artifact exists
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		flags mazeFlags
		opts  = exportOpts{format: export.FormatJSON}
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a maze as JSON, DOT, SVG, or text",
		Long: `Carve a maze and write it in one of the export formats.

The format defaults to the output file's extension, or JSON when writing to
stdout. With --steps N only the first N steps are taken, so partial mazes can
be inspected. SVG output is laid out with Graphviz.`,
		Example: `  mazegen export --seed 7 -o maze.svg
  mazegen export --format dot --potential --width 8 --height 8
  mazegen export --steps 40 -o partial.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") && opts.output != "" {
				if ext := strings.TrimPrefix(filepath.Ext(opts.output), "."); export.IsFormat(ext) {
					opts.format = ext
				}
			}
			if !export.IsFormat(opts.format) {
				return errors.New(errors.ErrCodeUnsupported, "unknown format %q (want one of %s)",
					opts.format, strings.Join(export.Formats, ", "))
			}
			if opts.output != "" {
				if err := errors.ValidatePath(opts.output); err != nil {
					return err
				}
			}
			if opts.steps < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "steps must not be negative")
			}
			return c.runExport(cmd, &flags, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(export.Formats, ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.potential, "potential", false, "draw potential adjacency (dot, svg)")
	cmd.Flags().IntVar(&opts.steps, "steps", 0, "stop after N steps (0 carves the whole maze)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not read or write the artifact cache")
	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, flags *mazeFlags, opts exportOpts) error {
	sess, _, err := flags.session(cmd)
	if err != nil {
		return err
	}
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	var steps int
	if opts.steps > 0 {
		steps = len(sess.StepN(opts.steps))
	} else {
		steps = driver.Drain(sess).Steps
	}
	logger.Debug("carved", "steps", steps, "complete", sess.IsComplete())

	artifacts := openArtifactCache(opts.noCache, logger)
	defer artifacts.Close()

	var (
		buf bytes.Buffer
		hit bool
	)
	dotOpts := export.DOTOptions{Potential: opts.potential}
	if opts.format == export.FormatSVG {
		spin := newSpinner(cmd.Context(), "Rendering SVG...")
		spin.Start()
		hit, err = export.WriteCached(cmd.Context(), artifacts, artifactTTL, &buf, sess.Graph(), opts.format, dotOpts)
		spin.Stop()
	} else {
		hit, err = export.WriteCached(cmd.Context(), artifacts, artifactTTL, &buf, sess.Graph(), opts.format, dotOpts)
	}
	if err != nil {
		return err
	}
	if export.Cacheable(opts.format) {
		logger.Debug("artifact cache", "hit", hit)
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(opts.output, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", opts.output)
	}
	prog.done(fmt.Sprintf("Exported %s", opts.format), "steps", steps)
	printSuccess("Wrote %s maze", strings.ToUpper(opts.format))
	printFile(opts.output)
	return nil
}

// artifactTTL bounds how long rendered mazes stay in the on-disk cache.
const artifactTTL = 7 * 24 * time.Hour

// openArtifactCache opens the on-disk artifact cache. Failures disable
// caching rather than the export.
func openArtifactCache(disabled bool, logger *log.Logger) cache.Cache {
	if disabled {
		return cache.NewNullCache()
	}
	dir, err := cache.DefaultDir()
	if err == nil {
		var fc *cache.FileCache
		if fc, err = cache.NewFileCache(dir); err == nil {
			return fc
		}
	}
	logger.Debug("artifact cache disabled", "err", err)
	return cache.NewNullCache()
}
