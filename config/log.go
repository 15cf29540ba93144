package config

type LogConfig struct {
	LogLevel   string `env:"LOG_LEVEL"`
	LogHandler string `env:"LOG_HANDLER"`
}

func NewLogConfig() *LogConfig {
	conf := &LogConfig{
		LogLevel:   "info",
		LogHandler: "default",
	}

	return conf
}

// ResolveLogConfig overlays environment values on top of the defaults.
func ResolveLogConfig() (*LogConfig, error) {
	conf := NewLogConfig()
	return conf, resolveConfig(conf, false)
}
