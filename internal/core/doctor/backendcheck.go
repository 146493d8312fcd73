package doctor

import (
	"context"
	"time"

	"github.com/redlinehq/redline/internal/backend"
)

const pingTimeout = 5 * time.Second

// BackendCheck verifies that the analyst backend is reachable.
type BackendCheck struct {
	Client *backend.Client
}

// NewBackendCheck creates a new backend connectivity check.
func NewBackendCheck(client *backend.Client) *BackendCheck {
	return &BackendCheck{Client: client}
}

func (c *BackendCheck) Name() string {
	return "Backend"
}

func (c *BackendCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := c.Client.Ping(ctx); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "reachable",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "reachable",
		Status: StatusPass,
		Detail: c.Client.BaseURL(),
	})
	return result
}
