package config

// currentConfig stores the loaded config for access by commands after the
// root command's PersistentPreRunE has run.
var currentConfig *Config

// SetCurrent stores the active configuration.
func SetCurrent(cfg *Config) {
	currentConfig = cfg
}

// Current returns the active configuration, or nil before loading.
func Current() *Config {
	return currentConfig
}
