package doctor

import (
	"context"
	"errors"
	"os"

	"github.com/colonyops/matrix/internal/core/config"
	"github.com/hay-kot/criterio"
)

// ConfigCheck runs the deep config validation and lists its warnings.
type ConfigCheck struct {
	cfg        *config.Config
	configPath string
}

// NewConfigCheck creates a config check.
func NewConfigCheck(cfg *config.Config, configPath string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, configPath: configPath}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	source := CheckItem{Label: "config file", Status: StatusPass, Detail: c.configPath}
	if _, err := os.Stat(c.configPath); c.configPath == "" || os.IsNotExist(err) {
		source.Detail = "not found, using defaults"
	}
	result.Items = append(result.Items, source)

	if err := c.cfg.ValidateDeep(c.configPath); err != nil {
		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				result.Items = append(result.Items, CheckItem{Label: fe.Field, Status: StatusFail, Detail: fe.Err.Error()})
			}
		} else {
			result.Items = append(result.Items, CheckItem{Label: "config", Status: StatusFail, Detail: err.Error()})
		}
	}

	for _, w := range c.cfg.Warnings() {
		result.Items = append(result.Items, CheckItem{Label: w.Item, Status: StatusWarn, Detail: w.Message})
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "storage",
		Status: StatusPass,
		Detail: string(c.cfg.Storage.Backend) + " / " + c.cfg.Storage.Key,
	})

	return result
}
