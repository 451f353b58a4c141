package app

import (
	"context"
	"fmt"

	"github.com/okonenko/ncm-grabber/internal/config"
	"github.com/okonenko/ncm-grabber/internal/logger"
)

// ExecuteConfigGetCommand prints the current value of a configuration key.
func ExecuteConfigGetCommand(ctx context.Context, key string) {
	value, err := config.GetConfigValue(key)
	if err != nil {
		logger.Fatalf(ctx, "Failed to read configuration value: %v", err)
		return
	}

	fmt.Println(value)
}

// ExecuteConfigSetCommand updates a configuration key in the configuration file.
func ExecuteConfigSetCommand(ctx context.Context, key, value string) {
	if err := config.SaveConfigValue(key, value); err != nil {
		logger.Fatalf(ctx, "Failed to save configuration value: %v", err)
		return
	}

	logger.Infof(ctx, "Configuration key '%s' set to '%s'", key, value)
}
