package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBaseConfigValidate(t *testing.T) {
	cfg := &BaseConfig{
		Server:      ServerConfig{Port: "8979"},
		Persistence: PersistenceConfig{Driver: "sqlite"},
	}
	require.NoError(t, cfg.Validate())

	cfg.Persistence.Driver = "mysql"
	require.Error(t, cfg.Validate())

	cfg.Persistence.Driver = ""
	cfg.Server.Port = ""
	require.Error(t, cfg.Validate())
}

func TestPersistenceConfigGetters(t *testing.T) {
	cfg := &BaseConfig{Persistence: PersistenceConfig{Driver: "sqlite", Server: "file::memory:", OtelIdentifier: "pf"}}
	persistence := cfg.GetPersistence()
	require.Equal(t, "sqlite", persistence.GetDriver())
	require.Equal(t, "file::memory:", persistence.GetServer())
	require.Equal(t, "pf", persistence.GetOtelIdentifier())
}
