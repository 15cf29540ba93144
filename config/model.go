package config

type ModelConfig struct {
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
}

// ResolveModelConfig reads provider credentials from the environment.
func ResolveModelConfig() (*ModelConfig, error) {
	conf := &ModelConfig{}
	return conf, resolveConfig(conf, false)
}
