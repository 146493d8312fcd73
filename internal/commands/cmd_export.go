package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/redlinehq/redline/internal/core/annotate"
	"github.com/redlinehq/redline/internal/core/session"
	"github.com/redlinehq/redline/internal/core/workflow"
)

type ExportCmd struct {
	flags      *Flags
	file       string
	format     string
	out        string
	view       string
	wellFormed bool
}

// NewExportCmd creates a new export command.
func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags}
}

// Register adds the export command to the application.
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "export",
		Usage: "Render a document's annotated artifact as markup",
		Description: `Export re-extracts the document, replays the feedback last submitted for
it, and renders the annotated canonical text.

The default HTML output wraps each annotated range in a span carrying the
annotation id and kind classes. Crossing ranges produce improperly nested
tags; pass --well-formed for strictly nested output at the cost of one
span per overlap segment.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "document file to export",
				Required:    true,
				Destination: &cmd.file,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format: html or text",
				Value:       "html",
				Destination: &cmd.format,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "write to file instead of stdout",
				Destination: &cmd.out,
			},
			&cli.StringFlag{
				Name:        "view",
				Usage:       "which view to export: content or report",
				Value:       "content",
				Destination: &cmd.view,
			},
			&cli.BoolFlag{
				Name:        "well-formed",
				Usage:       "emit strictly nested markup for overlapping ranges",
				Destination: &cmd.wellFormed,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.format != "html" && cmd.format != "text" {
		return fmt.Errorf("unknown format %q (want html or text)", cmd.format)
	}
	if cmd.view != "content" && cmd.view != "report" {
		return fmt.Errorf("unknown view %q (want content or report)", cmd.view)
	}

	absPath, err := filepath.Abs(cmd.file)
	if err != nil {
		return fmt.Errorf("resolve file path: %w", err)
	}
	raw, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	artifacts, err := cmd.flags.Client.Extract(ctx, filepath.Base(absPath), raw)
	if err != nil {
		return fmt.Errorf("extract document: %w", err)
	}

	canonical := artifacts.Content
	if cmd.view == "report" {
		canonical = artifacts.Report
	}

	set := annotate.NewSet()
	if err := cmd.replayFeedback(ctx, absPath, raw, canonical, set); err != nil {
		return err
	}

	var rendered string
	switch {
	case cmd.format == "text":
		rendered = annotate.RenderANSI(canonical, set, "")
	case cmd.wellFormed:
		rendered = annotate.RenderPartitionedHTML(canonical, set, "")
	default:
		rendered = annotate.RenderHTML(canonical, set, "")
	}

	if cmd.out != "" {
		return os.WriteFile(cmd.out, []byte(rendered), 0o644)
	}
	_, err = fmt.Fprintln(c.Root().Writer, rendered)
	return err
}

// replayFeedback re-applies the most recent persisted feedback payload for
// this document and view onto a fresh annotation set. Entries whose offsets
// no longer match the extracted text are skipped.
func (cmd *ExportCmd) replayFeedback(ctx context.Context, path string, raw []byte, canonical string, set *annotate.Set) error {
	sum := sha256.Sum256(raw)
	sess, err := cmd.flags.Sessions.GetSessionByHash(ctx, path, hex.EncodeToString(sum[:]))
	if errors.Is(err, session.ErrNotFound) {
		return nil // no prior session, export unannotated markup
	}
	if err != nil {
		return fmt.Errorf("look up review session: %w", err)
	}

	records, err := cmd.flags.Sessions.ListFeedback(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("list feedback: %w", err)
	}

	var latest *session.FeedbackRecord
	for i := range records {
		if records[i].View == cmd.view {
			latest = &records[i]
		}
	}
	if latest == nil {
		return nil
	}

	var payload workflow.FeedbackPayload
	if err := json.Unmarshal([]byte(latest.Payload), &payload); err != nil {
		return fmt.Errorf("decode feedback payload: %w", err)
	}

	for _, entry := range payload.Rejections {
		r := annotate.Range{Start: entry.StartIndex, End: entry.EndIndex}
		if !rangeMatches(canonical, r, entry.SelectedText) {
			log.Warn().Int("start", r.Start).Int("end", r.End).Msg("export: skipping stale rejection")
			continue
		}
		if _, err := set.AddRejection(r, entry.SelectedText); err != nil {
			log.Warn().Err(err).Int("start", r.Start).Int("end", r.End).Msg("export: skipping rejection")
		}
	}
	for _, entry := range payload.Comments {
		r := annotate.Range{Start: entry.StartIndex, End: entry.EndIndex}
		if !rangeMatches(canonical, r, entry.SelectedText) {
			log.Warn().Int("start", r.Start).Int("end", r.End).Msg("export: skipping stale comment")
			continue
		}
		if _, err := set.AddComment(r, entry.SelectedText, entry.Text); err != nil {
			log.Warn().Err(err).Int("start", r.Start).Int("end", r.End).Msg("export: skipping comment")
		}
	}

	return nil
}

// rangeMatches reports whether the recorded range still addresses the same
// text in the freshly extracted canonical string.
func rangeMatches(canonical string, r annotate.Range, selected string) bool {
	if r.Start < 0 || r.End > len(canonical) || r.Start > r.End {
		return false
	}
	return canonical[r.Start:r.End] == selected
}
