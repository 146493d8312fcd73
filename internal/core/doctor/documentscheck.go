package doctor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DocumentsCheck matches the include patterns against a root directory and
// reports how many files they find.
type DocumentsCheck struct {
	Root     string
	Patterns []string
}

// NewDocumentsCheck creates a new document discovery check.
func NewDocumentsCheck(root string, patterns []string) *DocumentsCheck {
	return &DocumentsCheck{Root: root, Patterns: patterns}
}

func (c *DocumentsCheck) Name() string {
	return "Documents"
}

func (c *DocumentsCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	fsys := os.DirFS(c.Root)
	seen := map[string]struct{}{}
	for _, pattern := range c.Patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			result.Items = append(result.Items, CheckItem{
				Label:  "discovery",
				Status: StatusFail,
				Detail: fmt.Sprintf("pattern %q: %v", pattern, err),
			})
			return result
		}
		for _, m := range matches {
			seen[m] = struct{}{}
		}
	}

	if len(seen) == 0 {
		result.Items = append(result.Items, CheckItem{
			Label:  "discovery",
			Status: StatusWarn,
			Detail: fmt.Sprintf("no files match %s under %s", strings.Join(c.Patterns, ", "), c.Root),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "discovery",
		Status: StatusPass,
		Detail: fmt.Sprintf("%d file(s) under %s", len(seen), c.Root),
	})
	return result
}
