package config

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewLogger builds a development logger when APP_ENV is "dev" and a
// production logger otherwise. The logger is synced on shutdown.
func NewLogger(lc fx.Lifecycle, server *ServerConfig) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if server.AppEnv == "dev" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = logger.Sync()
			return nil
		},
	})
	return logger, nil
}
