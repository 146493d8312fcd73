package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/redlinehq/redline/internal/data/stores"
)

type SessionsCmd struct {
	flags *Flags
}

// NewSessionsCmd creates a new sessions command.
func NewSessionsCmd(flags *Flags) *SessionsCmd {
	return &SessionsCmd{flags: flags}
}

// Register adds the sessions command to the application.
func (cmd *SessionsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "sessions",
		Usage: "Inspect persisted review sessions",
		Commands: []*cli.Command{
			{
				Name:   "ls",
				Usage:  "List review sessions",
				Action: cmd.list,
			},
			{
				Name:      "rm",
				Usage:     "Remove a review session and its feedback records",
				ArgsUsage: "<session-id>",
				Action:    cmd.remove,
			},
		},
	})

	return app
}

func (cmd *SessionsCmd) list(ctx context.Context, c *cli.Command) error {
	sessions, err := cmd.flags.Sessions.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(c.Root().Writer, "No review sessions")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDOCUMENT\tSTAGE\tCREATED\tFINALIZED")
	for _, s := range sessions {
		finalized := "-"
		if s.FinalizedAt != nil {
			finalized = s.FinalizedAt.Format(time.RFC3339)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.DocumentPath, s.Stage, s.CreatedAt.Format(time.RFC3339), finalized)
	}
	return w.Flush()
}

func (cmd *SessionsCmd) remove(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: redline sessions rm <session-id>")
	}
	id := c.Args().First()

	if err := cmd.flags.Sessions.DeleteSession(ctx, id); err != nil {
		if stores.IsBusyError(err) {
			return fmt.Errorf("database is busy, is another redline running?")
		}
		return fmt.Errorf("delete session: %w", err)
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "Removed session %s\n", id)
	return nil
}
