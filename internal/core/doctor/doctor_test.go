package doctor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redlinehq/redline/internal/backend"
	"github.com/redlinehq/redline/internal/data/db"
)

func TestSummary(t *testing.T) {
	results := []Result{
		{Name: "a", Items: []CheckItem{
			{Status: StatusPass},
			{Status: StatusWarn},
		}},
		{Name: "b", Items: []CheckItem{
			{Status: StatusFail, Fixable: true},
			{Status: StatusPass},
		}},
	}

	passed, warned, failed := Summary(results)
	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, warned)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, CountFixable(results))
}

func TestRunAll_PopulatesStatusStr(t *testing.T) {
	results := RunAll(context.Background(), []Check{
		NewDocumentsCheck(t.TempDir(), []string{"**/*.md"}),
	})

	require.Len(t, results, 1)
	require.NotEmpty(t, results[0].Items)
	assert.Equal(t, string(results[0].Items[0].Status), results[0].Items[0].StatusStr)
}

func TestDocumentsCheck(t *testing.T) {
	t.Run("warns when nothing matches", func(t *testing.T) {
		check := NewDocumentsCheck(t.TempDir(), []string{"**/*.md"})
		result := check.Run(context.Background())

		require.Len(t, result.Items, 1)
		assert.Equal(t, StatusWarn, result.Items[0].Status)
	})

	t.Run("counts matches across patterns", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte("a"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("b"), 0o644))

		check := NewDocumentsCheck(root, []string{"**/*.md", "**/*.txt"})
		result := check.Run(context.Background())

		require.Len(t, result.Items, 1)
		assert.Equal(t, StatusPass, result.Items[0].Status)
		assert.Contains(t, result.Items[0].Detail, "2 file(s)")
	})
}

func TestBackendCheck(t *testing.T) {
	t.Run("reachable backend passes", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		check := NewBackendCheck(backend.NewClient(srv.URL, time.Second))
		result := check.Run(context.Background())

		require.Len(t, result.Items, 1)
		assert.Equal(t, StatusPass, result.Items[0].Status)
	})

	t.Run("unreachable backend fails", func(t *testing.T) {
		check := NewBackendCheck(backend.NewClient("http://127.0.0.1:1", time.Second))
		result := check.Run(context.Background())

		require.Len(t, result.Items, 1)
		assert.Equal(t, StatusFail, result.Items[0].Status)
	})
}

func TestDatabaseCheck(t *testing.T) {
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	check := NewDatabaseCheck(database)
	result := check.Run(context.Background())

	require.Len(t, result.Items, 3)
	for _, item := range result.Items {
		assert.Equal(t, StatusPass, item.Status, item.Label)
	}
}

func TestConfigCheck(t *testing.T) {
	t.Run("defaults pass", func(t *testing.T) {
		check := NewConfigCheck(filepath.Join(t.TempDir(), "config.yml"), t.TempDir())
		result := check.Run(context.Background())

		require.Len(t, result.Items, 3)
		for _, item := range result.Items {
			assert.Equal(t, StatusPass, item.Status, item.Label)
		}
	})

	t.Run("unknown theme warns", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("tui:\n  theme: sepia\n"), 0o644))

		check := NewConfigCheck(path, dir)
		result := check.Run(context.Background())

		var themeItem *CheckItem
		for i := range result.Items {
			if result.Items[i].Label == "theme" {
				themeItem = &result.Items[i]
			}
		}
		require.NotNil(t, themeItem)
		assert.Equal(t, StatusWarn, themeItem.Status)
	})
}
