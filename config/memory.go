package config

import (
	"time"

	"github.com/habiliai/memoryruntime/errors"
)

// OpenMemoryConfig holds the tunables for the OpenMemory service adapter.
// A config is constructed once and read on every request; it is never
// mutated after the owning service has been built.
type OpenMemoryConfig struct {
	// BaseURL is the address of the OpenMemory instance.
	// Default: http://localhost:3000
	BaseURL string `env:"OPENMEMORY_BASE_URL"`

	// APIKey authenticates against the server, only needed when the
	// server requires it. Sent as a bearer token.
	APIKey string `env:"OPENMEMORY_API_KEY"`

	// SearchTopK is the maximum number of memories returned per search.
	// Default: 10, valid range 1~100.
	SearchTopK int `json:"searchTopK,omitempty"`

	// Timeout is the per-request deadline for HTTP calls.
	// Default: 30s.
	Timeout time.Duration `json:"timeout,omitempty"`

	// UserContentSalience is the importance weight attached to
	// user-authored turns (0.0~1.0). Default: 0.8.
	UserContentSalience float64 `json:"userContentSalience,omitempty"`

	// ModelContentSalience is the importance weight attached to
	// model-authored turns (0.0~1.0). Default: 0.7.
	ModelContentSalience float64 `json:"modelContentSalience,omitempty"`

	// DefaultSalience is the fallback weight for content with an
	// unknown or missing author (0.0~1.0). Default: 0.6.
	DefaultSalience float64 `json:"defaultSalience,omitempty"`

	// EnableMetadataTags controls whether session/app/author identifiers
	// are attached as filterable tags. Default: true.
	EnableMetadataTags bool `json:"enableMetadataTags,omitempty"`
}

// NewOpenMemoryConfig creates an OpenMemoryConfig with the documented
// defaults. Environment variables are not consulted; use
// ResolveOpenMemoryConfig for that.
func NewOpenMemoryConfig() *OpenMemoryConfig {
	return &OpenMemoryConfig{
		BaseURL:              "http://localhost:3000",
		SearchTopK:           10,
		Timeout:              30 * time.Second,
		UserContentSalience:  0.8,
		ModelContentSalience: 0.7,
		DefaultSalience:      0.6,
		EnableMetadataTags:   true,
	}
}

// ResolveOpenMemoryConfig builds a config from the defaults overlaid with
// OPENMEMORY_* environment variables.
func ResolveOpenMemoryConfig() (*OpenMemoryConfig, error) {
	conf := NewOpenMemoryConfig()
	if err := resolveConfig(conf, false); err != nil {
		return nil, err
	}
	return conf, conf.Validate()
}

// Validate rejects values outside the documented ranges.
func (c *OpenMemoryConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.Wrapf(errors.ErrInvalidConfig, "base url must not be empty")
	}
	if c.SearchTopK < 1 || c.SearchTopK > 100 {
		return errors.Wrapf(errors.ErrInvalidConfig, "searchTopK must be in [1,100], got %d", c.SearchTopK)
	}
	if c.Timeout <= 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "timeout must be positive, got %s", c.Timeout)
	}
	for name, v := range map[string]float64{
		"userContentSalience":  c.UserContentSalience,
		"modelContentSalience": c.ModelContentSalience,
		"defaultSalience":      c.DefaultSalience,
	} {
		if v < 0.0 || v > 1.0 {
			return errors.Wrapf(errors.ErrInvalidConfig, "%s must be in [0,1], got %f", name, v)
		}
	}
	return nil
}
