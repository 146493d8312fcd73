package doctor

import (
	"context"
	"fmt"

	"github.com/redlinehq/redline/internal/core/config"
	"github.com/redlinehq/redline/internal/core/styles"
)

// ConfigCheck loads and deep-validates the configuration file.
type ConfigCheck struct {
	ConfigPath string
	DataDir    string
}

// NewConfigCheck creates a new config check.
func NewConfigCheck(configPath, dataDir string) *ConfigCheck {
	return &ConfigCheck{ConfigPath: configPath, DataDir: dataDir}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	cfg, err := config.Load(c.ConfigPath, c.DataDir)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "load",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "load",
		Status: StatusPass,
		Detail: c.ConfigPath,
	})

	if err := cfg.ValidateDeep(c.ConfigPath); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "validate",
			Status: StatusFail,
			Detail: err.Error(),
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "validate",
			Status: StatusPass,
		})
	}

	if _, ok := styles.GetPalette(cfg.TUI.Theme); !ok {
		result.Items = append(result.Items, CheckItem{
			Label:  "theme",
			Status: StatusWarn,
			Detail: fmt.Sprintf("unknown theme %q, falling back to %s", cfg.TUI.Theme, styles.DefaultTheme),
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "theme",
			Status: StatusPass,
			Detail: cfg.TUI.Theme,
		})
	}

	return result
}
