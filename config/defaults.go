package config

import "time"

const (
	DefaultDataDirectory    = "~/.local/share/ollamatui"
	DefaultOllamaHost       = "http://localhost:11434"
	DefaultOllamaBinary     = "ollama"
	DefaultRegistryURL      = "https://registry.ollama.ai"
	DefaultRequestTimeout   = 30 * time.Second
	DefaultRegistryCacheTTL = time.Hour
)

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: DefaultDataDirectory,
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Ollama: OllamaConfig{
			Host:           DefaultOllamaHost,
			Binary:         DefaultOllamaBinary,
			RequestTimeout: DefaultRequestTimeout.String(),
		},
		Registry: RegistryConfig{
			BaseURL:  DefaultRegistryURL,
			CacheTTL: DefaultRegistryCacheTTL.String(),
		},
		Install: InstallConfig{
			PullMethod: PullMethodAPI,
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# ollamatui System Configuration
# Location: ~/.config/ollamatui/settings.toml
# This file uses TOML format: https://toml.io

# Directory where the user config, keybindings, registry cache and debug log live
data_directory = "~/.local/share/ollamatui"
`
}

func GenerateUserConfigTemplate() string {
	return `# ollamatui User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[ollama]
# Ollama server URL (OLLAMA_HOST overrides this)
host = "http://localhost:11434"

# Executable used for "ollama run" and CLI pulls
binary = "ollama"

# Timeout for list/show/delete requests
request_timeout = "30s"

[registry]
# Registry website scraped for installable models and tags
base_url = "https://registry.ollama.ai"

# How long scraped model and tag lists are reused (0s disables the cache)
cache_ttl = "1h"

[install]
# "api" streams the pull through the Ollama API with a progress bar.
# "cli" suspends the TUI and runs "ollama pull" in the terminal.
pull_method = "api"
`
}
