package doctor

import (
	"context"
	"fmt"

	"github.com/redlinehq/redline/internal/data/db"
	"github.com/redlinehq/redline/internal/data/stores"
)

// DatabaseCheck verifies the session database responds and passes an
// integrity check.
type DatabaseCheck struct {
	DB *db.DB
}

// NewDatabaseCheck creates a new database check.
func NewDatabaseCheck(database *db.DB) *DatabaseCheck {
	return &DatabaseCheck{DB: database}
}

func (c *DatabaseCheck) Name() string {
	return "Database"
}

func (c *DatabaseCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if err := c.DB.Conn().PingContext(ctx); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:   "connection",
			Status:  StatusFail,
			Detail:  err.Error(),
			Fixable: stores.IsCorruptionError(err),
		})
		return result
	}
	result.Items = append(result.Items, CheckItem{
		Label:  "connection",
		Status: StatusPass,
	})

	var verdict string
	if err := c.DB.Conn().QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&verdict); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:   "integrity",
			Status:  StatusFail,
			Detail:  err.Error(),
			Fixable: true,
		})
		return result
	}
	if verdict != "ok" {
		result.Items = append(result.Items, CheckItem{
			Label:   "integrity",
			Status:  StatusFail,
			Detail:  verdict,
			Fixable: true,
		})
		return result
	}
	result.Items = append(result.Items, CheckItem{
		Label:  "integrity",
		Status: StatusPass,
	})

	var sessions int
	if err := c.DB.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM review_sessions").Scan(&sessions); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "sessions",
			Status: StatusWarn,
			Detail: err.Error(),
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "sessions",
			Status: StatusPass,
			Detail: fmt.Sprintf("%d stored", sessions),
		})
	}

	return result
}
