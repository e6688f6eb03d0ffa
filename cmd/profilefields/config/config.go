package config

import (
	"errors"
	"time"

	"github.com/goliatone/go-persistence-bun"
)

// BaseConfig holds all configuration for the profile fields server.
type BaseConfig struct {
	Server      ServerConfig      `json:"server"`
	Persistence PersistenceConfig `json:"persistence"`
	Features    FeaturesConfig    `json:"features"`
	Cache       CacheConfig       `json:"cache"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string `json:"port" env:"SERVER_PORT" default:"8979"`
	Host string `json:"host" env:"SERVER_HOST" default:"localhost"`
	// TrustActorHeaders lets a fronting gateway pass the authenticated actor
	// as X-Actor-* headers.
	TrustActorHeaders bool `json:"trust_actor_headers" env:"SERVER_TRUST_ACTOR_HEADERS" default:"true"`
}

// PersistenceConfig implements persistence.Config interface.
type PersistenceConfig struct {
	Debug          bool          `json:"debug" default:"false"`
	Driver         string        `json:"driver" default:"sqlite"`
	Server         string        `json:"server" env:"DB_SERVER" default:"file:profilefields.db?_journal_mode=WAL&cache=shared&_fk=1"`
	PingTimeout    time.Duration `json:"ping_timeout" default:"5s"`
	OtelIdentifier string        `json:"otel_identifier" default:"go-profilefields"`
}

func (c PersistenceConfig) GetDebug() bool                { return c.Debug }
func (c PersistenceConfig) GetDriver() string             { return c.Driver }
func (c PersistenceConfig) GetServer() string             { return c.Server }
func (c PersistenceConfig) GetPingTimeout() time.Duration { return c.PingTimeout }
func (c PersistenceConfig) GetOtelIdentifier() string     { return c.OtelIdentifier }

// FeaturesConfig toggles the custom profile fields workflow.
type FeaturesConfig struct {
	ProfileFields bool `json:"profile_fields" env:"FEATURE_PROFILE_FIELDS" default:"true"`
}

// CacheConfig controls the field definition read cache.
type CacheConfig struct {
	Enabled bool `json:"enabled" env:"CACHE_ENABLED" default:"true"`
}

// GetPersistence returns persistence config.
func (c *BaseConfig) GetPersistence() persistence.Config {
	return c.Persistence
}

// GetServer returns server config.
func (c *BaseConfig) GetServer() ServerConfig {
	return c.Server
}

// Validate implements config.Validable interface.
func (c *BaseConfig) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Persistence.Driver != "" && c.Persistence.Driver != "sqlite" {
		return errors.New("persistence.driver: only sqlite is bundled with this server")
	}
	return nil
}
