package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "findash", cfg.App.Name)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "output/dashboard_data.json", cfg.Export.OutputPath)
	assert.Equal(t, "2017-01", cfg.Analysis.WindowStart)
	assert.Equal(t, "2018-08", cfg.Analysis.WindowEnd)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FINDASH_DATA_DIR", "/srv/extracts")
	t.Setenv("FINDASH_APP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/extracts", cfg.Data.Dir)
	assert.Equal(t, "9090", cfg.App.Port)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, Validate(valid()))
	})

	t.Run("bad log level rejected", func(t *testing.T) {
		cfg := valid()
		cfg.Log.Level = "verbose"
		assert.Error(t, Validate(cfg))
	})

	t.Run("bad window format rejected", func(t *testing.T) {
		cfg := valid()
		cfg.Analysis.WindowStart = "2017-1"
		assert.Error(t, Validate(cfg))
	})

	t.Run("inverted window rejected", func(t *testing.T) {
		cfg := valid()
		cfg.Analysis.WindowStart = "2019-01"
		assert.Error(t, Validate(cfg))
	})

	t.Run("non-numeric port rejected", func(t *testing.T) {
		cfg := valid()
		cfg.App.Port = "http"
		assert.Error(t, Validate(cfg))
	})
}
