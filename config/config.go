package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type OllamaConfig struct {
	Host           string `toml:"host"`
	Binary         string `toml:"binary"`
	RequestTimeout string `toml:"request_timeout"`
}

type RegistryConfig struct {
	BaseURL  string `toml:"base_url"`
	CacheTTL string `toml:"cache_ttl"`
}

type InstallConfig struct {
	PullMethod string `toml:"pull_method"`
}

type UserConfig struct {
	Ollama   OllamaConfig   `toml:"ollama"`
	Registry RegistryConfig `toml:"registry"`
	Install  InstallConfig  `toml:"install"`
}

const (
	PullMethodAPI = "api"
	PullMethodCLI = "cli"
)

type Config struct {
	DataDirectory    string
	OllamaHost       string
	OllamaBinary     string
	RequestTimeout   time.Duration
	RegistryURL      string
	RegistryCacheTTL time.Duration
	PullMethod       string
	Keybindings      *KeyBindingsConfig
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// UsesCLIPull reports whether installs hand the terminal to `ollama pull`
// instead of streaming progress over the API.
func (c *Config) UsesCLIPull() bool {
	return c.PullMethod == PullMethodCLI
}

func (c *Config) applyEnvOverrides() {
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		c.OllamaHost = host
	}
	if registryURL := os.Getenv("OLLAMATUI_REGISTRY_URL"); registryURL != "" {
		c.RegistryURL = registryURL
	}
	if dataDir := os.Getenv("OLLAMATUI_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func CheckDebug() bool {
	debug := os.Getenv("OLLAMATUI_DEBUG")
	return debug == "true" || debug == "1"
}

// InitDebugLog opens <dataDir>/debug.log when debugging is requested through
// the environment or force. Nothing is ever logged to the terminal.
func InitDebugLog(dataDir string, force bool) {
	if !force && !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started ===")
	DebugLog.Printf("Log path: %s", logPath)
}

// Logf writes to the debug log when it is enabled.
func Logf(format string, args ...any) {
	if DebugLog != nil {
		DebugLog.Printf(format, args...)
	}
}

// NormalizeHost accepts OLLAMA_HOST style values ("127.0.0.1:11434",
// "localhost", "http://host:port") and returns a URL with a scheme and port.
func NormalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return DefaultOllamaHost
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	scheme, rest, _ := strings.Cut(host, "://")
	rest = strings.TrimRight(rest, "/")
	if rest == "" {
		rest = "localhost"
	}
	if !strings.Contains(rest, ":") {
		rest += ":11434"
	}
	return scheme + "://" + rest
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	return d, nil
}

func Load() (*Config, error) {
	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}

	cfg := &Config{DataDirectory: systemCfg.DataDirectory}
	if cfg.DataDirectory == "" {
		cfg.DataDirectory = DefaultDataDirectory
	}
	if dataDir := os.Getenv("OLLAMATUI_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	if err := cfg.applyUserConfig(userCfg); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	cfg.OllamaHost = NormalizeHost(cfg.OllamaHost)

	kb, err := LoadKeybindings(dataDir)
	if err != nil {
		return nil, err
	}
	cfg.Keybindings = kb

	return cfg, nil
}

func (c *Config) applyUserConfig(u *UserConfig) error {
	defaults := DefaultUserConfig()

	c.OllamaHost = firstNonEmpty(u.Ollama.Host, defaults.Ollama.Host)
	c.OllamaBinary = firstNonEmpty(u.Ollama.Binary, defaults.Ollama.Binary)
	c.RegistryURL = strings.TrimRight(firstNonEmpty(u.Registry.BaseURL, defaults.Registry.BaseURL), "/")

	timeout, err := parseDuration(u.Ollama.RequestTimeout, DefaultRequestTimeout)
	if err != nil {
		return fmt.Errorf("ollama.request_timeout: %w", err)
	}
	c.RequestTimeout = timeout

	ttl, err := parseDuration(u.Registry.CacheTTL, DefaultRegistryCacheTTL)
	if err != nil {
		return fmt.Errorf("registry.cache_ttl: %w", err)
	}
	c.RegistryCacheTTL = ttl

	switch method := strings.ToLower(firstNonEmpty(u.Install.PullMethod, PullMethodAPI)); method {
	case PullMethodAPI, PullMethodCLI:
		c.PullMethod = method
	default:
		return fmt.Errorf("install.pull_method: unknown method %q (want %q or %q)", method, PullMethodAPI, PullMethodCLI)
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
