package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/habiliai/memoryruntime/config"
	"github.com/habiliai/memoryruntime/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenMemoryConfig_Defaults(t *testing.T) {
	conf := config.NewOpenMemoryConfig()

	assert.Equal(t, "http://localhost:3000", conf.BaseURL)
	assert.Empty(t, conf.APIKey)
	assert.Equal(t, 10, conf.SearchTopK)
	assert.Equal(t, 30*time.Second, conf.Timeout)
	assert.InDelta(t, 0.8, conf.UserContentSalience, 1e-9)
	assert.InDelta(t, 0.7, conf.ModelContentSalience, 1e-9)
	assert.InDelta(t, 0.6, conf.DefaultSalience, 1e-9)
	assert.True(t, conf.EnableMetadataTags)

	require.NoError(t, conf.Validate())
}

func TestResolveOpenMemoryConfig_EnvPrecedence(t *testing.T) {
	t.Setenv("OPENMEMORY_BASE_URL", "http://memory.internal:4000")
	t.Setenv("OPENMEMORY_API_KEY", "secret")

	conf, err := config.ResolveOpenMemoryConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://memory.internal:4000", conf.BaseURL)
	assert.Equal(t, "secret", conf.APIKey)
	// Non-env fields keep their defaults
	assert.Equal(t, 10, conf.SearchTopK)
}

func TestResolveOpenMemoryConfig_DefaultBaseURL(t *testing.T) {
	// With OPENMEMORY_BASE_URL unset the base url falls back to localhost
	require.NoError(t, os.Unsetenv("OPENMEMORY_BASE_URL"))
	require.NoError(t, os.Unsetenv("OPENMEMORY_API_KEY"))

	conf, err := config.ResolveOpenMemoryConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", conf.BaseURL)
}

func TestOpenMemoryConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.OpenMemoryConfig)
	}{
		{"zero top k", func(c *config.OpenMemoryConfig) { c.SearchTopK = 0 }},
		{"top k over limit", func(c *config.OpenMemoryConfig) { c.SearchTopK = 101 }},
		{"zero timeout", func(c *config.OpenMemoryConfig) { c.Timeout = 0 }},
		{"negative timeout", func(c *config.OpenMemoryConfig) { c.Timeout = -time.Second }},
		{"user salience too high", func(c *config.OpenMemoryConfig) { c.UserContentSalience = 1.5 }},
		{"model salience negative", func(c *config.OpenMemoryConfig) { c.ModelContentSalience = -0.1 }},
		{"default salience too high", func(c *config.OpenMemoryConfig) { c.DefaultSalience = 2 }},
		{"empty base url", func(c *config.OpenMemoryConfig) { c.BaseURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := config.NewOpenMemoryConfig()
			tt.mutate(conf)

			err := conf.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
		})
	}
}
