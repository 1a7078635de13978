package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"ollamatui/config"
	appmodel "ollamatui/model"
	"ollamatui/ollama"
	"ollamatui/registry"
	"ollamatui/storage"
	"ollamatui/ui"
)

const (
	Version = "v0.1.0"
	License = "Apache-2.0"
)

type rootFlags struct {
	host       string
	registry   string
	pullMethod string
	debug      bool
	noCache    bool
}

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// NewRootCmd builds the ollamatui command tree.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "ollamatui",
		Short:         "Terminal UI for managing local Ollama models",
		Long:          "ollamatui lists, inspects, runs, deletes and installs models on a local Ollama daemon.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return run(cfg, flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.host, "host", "", "Ollama daemon address (overrides OLLAMA_HOST and settings.toml)")
	rootCmd.PersistentFlags().StringVar(&flags.registry, "registry", "", "model registry base URL")
	rootCmd.PersistentFlags().StringVar(&flags.pullMethod, "pull-method", "", "install transport: api or cli")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "write a debug log to the data directory")
	rootCmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "always scrape the registry instead of using the local cache")

	rootCmd.AddCommand(newVersionCmd(), newCacheCmd(flags), newConfigCmd(flags))
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ollamatui %s (%s)\n", Version, License)
		},
	}
}

func newCacheCmd(flags *rootFlags) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the registry listing cache",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear [model...]",
		Short: "Remove cached registry listings",
		Long:  "Without arguments every cached listing is removed. With model names only their tag listings are dropped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			cache, err := storage.NewRegistryCache(cfg.DataDir())
			if err != nil {
				return err
			}
			defer cache.Close()

			if len(args) == 0 {
				n, err := cache.Clear()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached listings\n", n)
				return nil
			}

			for _, name := range args {
				if err := cache.Delete(registry.TagsKey(name)); err != nil {
					return fmt.Errorf("failed to drop tags for %s: %w", name, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed cached tags for %s\n", strings.Join(args, ", "))
			return nil
		},
	})

	return cacheCmd
}

func newConfigCmd(flags *rootFlags) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or persist the effective settings",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as config.toml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return config.EncodeUserConfig(cmd.OutOrStdout(), cfg.UserConfig())
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "save",
		Short: "Write the effective settings, flags included, to config.toml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if err := config.SaveUserConfig(cfg.UserConfig(), cfg.DataDir()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", filepath.Join(cfg.DataDir(), "config.toml"))
			return nil
		},
	})

	return configCmd
}

// loadConfig reads settings.toml and keybindings.toml, then applies flags.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if flags.host != "" {
		cfg.OllamaHost = config.NormalizeHost(flags.host)
	}
	if flags.registry != "" {
		cfg.RegistryURL = strings.TrimRight(flags.registry, "/")
	}
	if flags.pullMethod != "" {
		switch method := strings.ToLower(flags.pullMethod); method {
		case config.PullMethodAPI, config.PullMethodCLI:
			cfg.PullMethod = method
		default:
			return nil, fmt.Errorf("--pull-method: unknown method %q (want %q or %q)", flags.pullMethod, config.PullMethodAPI, config.PullMethodCLI)
		}
	}

	config.InitDebugLog(cfg.DataDir(), flags.debug)

	ok, warning := cfg.Keybindings.Validate()
	if !ok {
		return nil, fmt.Errorf("keybindings.toml: %s", warning)
	}
	if warning != "" {
		config.Logf("%s", warning)
	}
	return cfg, nil
}

func run(cfg *config.Config, flags *rootFlags) (err error) {
	defer func() {
		if r := recover(); r != nil {
			config.Logf("panic: %v", r)
			err = fmt.Errorf("ollamatui crashed: %v", r)
		}
	}()

	client, err := ollama.NewClient(cfg.OllamaHost, cfg.RequestTimeout)
	if err != nil {
		return err
	}

	var source registry.Source = registry.NewScraper(cfg.RegistryURL, cfg.RequestTimeout)
	if !flags.noCache {
		cache, err := storage.NewRegistryCache(cfg.DataDir())
		if err != nil {
			config.Logf("registry cache unavailable, scraping directly: %v", err)
		} else {
			defer cache.Close()
			if n, err := cache.Prune(cfg.RegistryCacheTTL); err != nil {
				config.Logf("registry cache prune: %v", err)
			} else if n > 0 {
				config.Logf("registry cache pruned %d stale listings", n)
			}
			source = registry.NewCachedSource(source, cache, cfg.RegistryCacheTTL)
		}
	}

	config.Logf("ollamatui %s host=%s registry=%s cli_pull=%v", Version, cfg.OllamaHost, cfg.RegistryURL, cfg.UsesCLIPull())

	launcher := appmodel.NewLauncher(client, source, cfg)
	p := tea.NewProgram(
		ui.NewAppView(launcher, cfg),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running ollamatui: %w", err)
	}
	return nil
}
