package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/redlinehq/redline/internal/tui"
)

type ReviewCmd struct {
	flags *Flags
	file  string
	dir   string
}

// NewReviewCmd creates a new review command.
func NewReviewCmd(flags *Flags) *ReviewCmd {
	return &ReviewCmd{flags: flags}
}

// Register adds the review command to the application.
func (cmd *ReviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "review",
		Usage: "Review a document with inline annotations",
		Description: `Review opens the annotation TUI for a source document.

The document is uploaded to the backend, which extracts the canonical
content for review. Select text to attach comments or rejections, then
submit the feedback and run the final analysis.

Examples:
  redline review                  # Open picker over discovered documents
  redline review -f report.md     # Open a specific document directly`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "open a specific document file",
				Destination: &cmd.file,
			},
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "directory to discover documents in (defaults to cwd)",
				Destination: &cmd.dir,
			},
		},
		Action: cmd.run,
	})

	return app
}

// Run executes the review TUI; used as the root command's default action.
func (cmd *ReviewCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *ReviewCmd) run(ctx context.Context, c *cli.Command) error {
	root := cmd.dir
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		root = wd
	}

	documents, err := tui.DiscoverDocuments(root, cmd.flags.Config.Documents.Include)
	if err != nil {
		return fmt.Errorf("discover documents: %w", err)
	}

	var initialDoc *tui.SourceDoc
	if cmd.file != "" {
		absPath, err := filepath.Abs(cmd.file)
		if err != nil {
			return fmt.Errorf("resolve file path: %w", err)
		}
		for i := range documents {
			if documents[i].Path == absPath || documents[i].RelPath == cmd.file {
				initialDoc = &documents[i]
				break
			}
		}
		if initialDoc == nil {
			// Allow reviewing a file outside the discovery set.
			if _, err := os.Stat(absPath); err != nil {
				return fmt.Errorf("document not found: %s", cmd.file)
			}
			initialDoc = &tui.SourceDoc{Path: absPath, RelPath: filepath.Base(absPath)}
		}
	}

	if initialDoc == nil && len(documents) == 0 {
		_, _ = fmt.Fprintf(c.Root().Writer, "No documents found in %s\n", root)
		return nil
	}

	model := tui.New(tui.Options{
		Documents:  documents,
		InitialDoc: initialDoc,
		Root:       root,
		Source:     cmd.flags.Client,
		Sink:       cmd.flags.Client,
		Store:      cmd.flags.Sessions,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run review TUI: %w", err)
	}
	return nil
}
