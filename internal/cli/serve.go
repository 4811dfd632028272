package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mazegen/pkg/errors"
	"github.com/matzehuels/mazegen/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags       mazeFlags
		addr        string
		maxSessions int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve maze sessions over HTTP",
		Long: `Run the HTTP API. Clients create sessions, step them, and read cells or
rendered mazes. Maze flags set the defaults for new sessions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("max-sessions") {
				if maxSessions < 1 {
					return errors.New(errors.ErrCodeInvalidInput, "max-sessions must be at least 1")
				}
				cfg.Server.MaxSessions = maxSessions
			}
			defaults, err := cfg.SessionOptions()
			if err != nil {
				return err
			}

			srv := server.New(server.Config{
				Addr:        cfg.Server.Addr,
				MaxSessions: cfg.Server.MaxSessions,
				Defaults:    defaults,
				Logger:      loggerFromContext(cmd.Context()),
			})

			printInfo("Serving %s API", appName)
			printKeyValue("Address", cfg.Server.Addr)
			printKeyValue("Sessions", fmt.Sprintf("up to %d", cfg.Server.MaxSessions))
			printKeyValue("Grid", fmt.Sprintf("%dx%d (%s-connected)", defaults.Width, defaults.Height, defaults.Conn))
			printNextStep("Create a session", fmt.Sprintf("curl -X POST http://%s/api/v1/sessions", localAddr(cfg.Server.Addr)))

			return srv.ListenAndServe(cmd.Context())
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().IntVar(&maxSessions, "max-sessions", server.DefaultMaxSessions, "sessions kept in memory before the oldest is evicted")
	return cmd
}

// localAddr turns a listen address such as ":8080" into one a local client
// can dial.
func localAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
