// Package config loads the light configuration and publishes it on the bus.
package config

import (
	"context"

	"lightcode-go/bus"
	"lightcode-go/types"
)

const (
	serviceName  = "config"
	configPrefix = "config"
)

// TopicLight carries the retained types.LightConfig.
func TopicLight() bus.Topic { return bus.T(configPrefix, "light") }

// TopicLogging carries the retained types.LoggingConfig.
func TopicLogging() bus.Topic { return bus.T(configPrefix, "logging") }

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
	cfg  types.Config
}

func NewConfigService(cfg types.Config) *ConfigService {
	return &ConfigService{Name: serviceName, cfg: cfg}
}

// Start publishes every section as a retained message. Services that start
// later still receive it.
func (s *ConfigService) Start(_ context.Context, conn *bus.Connection) {
	conn.Publish(conn.NewMessage(TopicLight(), s.cfg.Light, true))
	conn.Publish(conn.NewMessage(TopicLogging(), s.cfg.Logging, true))
}
