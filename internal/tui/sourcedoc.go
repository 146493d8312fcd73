package tui

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/glamour"
)

// SourceDoc is a reviewable document discovered on disk.
type SourceDoc struct {
	Path    string // absolute path
	RelPath string // relative to the discovery root
	ModTime time.Time

	content       string
	renderedCache string
	cachedWidth   int
}

// DiscoverDocuments finds reviewable documents under root matching the
// configured include patterns. Results are sorted by modification time,
// newest first.
func DiscoverDocuments(root string, patterns []string) ([]SourceDoc, error) {
	fsys := os.DirFS(root)

	seen := map[string]struct{}{}
	var docs []SourceDoc
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, err
		}
		for _, rel := range matches {
			if _, ok := seen[rel]; ok {
				continue
			}
			seen[rel] = struct{}{}

			info, err := fs.Stat(fsys, rel)
			if err != nil || info.IsDir() {
				continue
			}
			docs = append(docs, SourceDoc{
				Path:    filepath.Join(root, filepath.FromSlash(rel)),
				RelPath: rel,
				ModTime: info.ModTime(),
			})
		}
	}

	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].ModTime.Equal(docs[j].ModTime) {
			return docs[i].ModTime.After(docs[j].ModTime)
		}
		return docs[i].RelPath < docs[j].RelPath
	})

	return docs, nil
}

// LoadContent reads the document content from disk.
func (d *SourceDoc) LoadContent() error {
	content, err := os.ReadFile(d.Path)
	if err != nil {
		return err
	}
	d.content = string(content)
	d.renderedCache = ""
	return nil
}

// Content returns the raw document content, loading it if needed.
func (d *SourceDoc) Content() (string, error) {
	if d.content == "" {
		if err := d.LoadContent(); err != nil {
			return "", err
		}
	}
	return d.content, nil
}

// RenderMarkdown renders the raw document through glamour for preview while
// no extraction exists yet. The result is cached per width.
func (d *SourceDoc) RenderMarkdown(width int) (string, error) {
	if d.renderedCache != "" && d.cachedWidth == width {
		return d.renderedCache, nil
	}

	content, err := d.Content()
	if err != nil {
		return "", err
	}

	wrapWidth := max(width-2, 20)
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return "", err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return "", err
	}

	d.renderedCache = rendered
	d.cachedWidth = width
	return rendered, nil
}
