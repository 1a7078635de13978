package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// KeyBindingsConfig holds modifier customization and optional per-action overrides
type KeyBindingsConfig struct {
	Modifiers ModifierConfig    `toml:"modifiers"`
	Actions   map[string]string `toml:"actions"` // Optional overrides for specific actions
}

type ModifierConfig struct {
	Primary string `toml:"primary"` // e.g., "ctrl", "alt"
}

// actionDef defines the default modifier and keys for an action.
// keys may list several comma-separated alternatives ("j,down").
type actionDef struct {
	modifier string // "primary" or "none"
	keys     string
}

// actionRegistry maps action names to their default keybindings
// Users can override any of these in the [actions] section of keybindings.toml
var actionRegistry = map[string]actionDef{
	// Global
	"help": {"none", "h,?"},

	// Installed model list
	"quit":          {"none", "q"},
	"down":          {"none", "j,down"},
	"up":            {"none", "k,up"},
	"top":           {"none", "g,home"},
	"bottom":        {"none", "G,end"},
	"filter":        {"none", "/"},
	"clear_filter":  {"primary", "c"},
	"delete":        {"none", "d"},
	"install":       {"none", "i"},
	"run":           {"none", "enter"},
	"refresh":       {"none", "r"},
	"copy_name":     {"none", "y"},
	"dismiss_error": {"none", "esc"},

	// Filter input
	"filter_confirm": {"none", "enter"},
	"filter_cancel":  {"none", "esc"},

	// Confirmation prompts
	"confirm_yes": {"none", "y,Y"},
	"confirm_no":  {"none", "n,N,esc"},

	// Install picker
	"select":     {"none", "enter"},
	"back":       {"none", "q,esc"},
	"close_help": {"none", "h,?,q,esc"},
}

// DefaultKeybindings returns default configuration
func DefaultKeybindings() *KeyBindingsConfig {
	return &KeyBindingsConfig{
		Modifiers: ModifierConfig{
			Primary: "ctrl",
		},
	}
}

// LoadKeybindings loads keybindings from data directory
func LoadKeybindings(dataDir string) (*KeyBindingsConfig, error) {
	cfg := DefaultKeybindings()
	keybindingsPath := filepath.Join(dataDir, "keybindings.toml")

	if !FileExists(keybindingsPath) {
		if err := CreateDefaultKeybindings(dataDir); err != nil {
			return nil, fmt.Errorf("failed to create keybindings: %w", err)
		}
		return cfg, nil
	}

	_, err := toml.DecodeFile(keybindingsPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse keybindings: %w", err)
	}

	if cfg.Modifiers.Primary == "" {
		cfg.Modifiers.Primary = "ctrl"
	}

	return cfg, nil
}

// CreateDefaultKeybindings creates default keybindings.toml
func CreateDefaultKeybindings(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	keybindingsPath := filepath.Join(dataDir, "keybindings.toml")
	if FileExists(keybindingsPath) {
		return nil
	}

	content := GenerateKeybindingsTemplate()
	if err := os.WriteFile(keybindingsPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write keybindings: %w", err)
	}

	return nil
}

// GenerateKeybindingsTemplate returns the default TOML template
func GenerateKeybindingsTemplate() string {
	return `# ollamatui Keybindings Configuration
# Location: <data_directory>/keybindings.toml
# This file uses TOML format: https://toml.io

[modifiers]
primary = "ctrl"   # Used by clear_filter (ctrl+c)

# Override single actions with one key or a comma-separated list.
[actions]
# Examples (uncomment to use):
#
#   quit = "ctrl+q"
#   down = "j,down,ctrl+n"
#   up = "k,up,ctrl+p"
#   delete = "x"
#
# Available actions: help, quit, down, up, top, bottom, filter, clear_filter,
# delete, install, run, refresh, copy_name, dismiss_error, filter_confirm,
# filter_cancel, confirm_yes, confirm_no, select, back, close_help
`
}

// Primary returns the primary modifier
func (kb *KeyBindingsConfig) Primary() string {
	if kb == nil || kb.Modifiers.Primary == "" {
		return "ctrl"
	}
	return kb.Modifiers.Primary
}

// PrimaryKey builds a keybinding string with primary modifier
// Example: PrimaryKey("c") returns "ctrl+c" (or "alt+c" if primary is "alt")
func (kb *KeyBindingsConfig) PrimaryKey(key string) string {
	return kb.Primary() + "+" + key
}

// GetActionKeys returns every key bound to an action.
// User overrides replace the defaults entirely.
func (kb *KeyBindingsConfig) GetActionKeys(action string) []string {
	if kb != nil && kb.Actions != nil {
		if override, exists := kb.Actions[action]; exists && strings.TrimSpace(override) != "" {
			return splitKeys(override)
		}
	}

	def, exists := actionRegistry[action]
	if !exists {
		return nil
	}
	keys := splitKeys(def.keys)
	if def.modifier == "primary" {
		for i, k := range keys {
			keys[i] = kb.PrimaryKey(k)
		}
	}
	return keys
}

// GetActionKey returns the first key bound to an action, or "".
func (kb *KeyBindingsConfig) GetActionKey(action string) string {
	keys := kb.GetActionKeys(action)
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// DisplayActionKey returns a display-friendly version of an action's keybinding
// Example: "ctrl+c" -> "Ctrl+C"
func (kb *KeyBindingsConfig) DisplayActionKey(action string) string {
	keys := kb.GetActionKeys(action)
	if len(keys) == 0 {
		return ""
	}
	display := make([]string, len(keys))
	for i, k := range keys {
		display[i] = capitalizeKeybinding(k)
	}
	return strings.Join(display, "/")
}

// Actions lists every known action name.
func Actions() []string {
	names := make([]string, 0, len(actionRegistry))
	for name := range actionRegistry {
		names = append(names, name)
	}
	return names
}

func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// capitalizeKeybinding capitalizes modifier chords for display.
// Single-character keys are left alone so "G" and "g" stay distinct.
func capitalizeKeybinding(key string) string {
	if len(key) == 1 {
		return key
	}
	parts := strings.Split(key, "+")
	for i, part := range parts {
		if len(part) == 0 {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, "+")
}

// Validate reports whether the bindings are usable. Unknown action names
// are not fatal; they come back as a warning listing every one of them.
func (kb *KeyBindingsConfig) Validate() (bool, string) {
	if kb.Primary() == "shift" {
		return false, "modifiers.primary = \"shift\" conflicts with typing"
	}
	if kb == nil {
		return true, ""
	}
	var unknown []string
	for action := range kb.Actions {
		if _, ok := actionRegistry[action]; !ok {
			unknown = append(unknown, action)
		}
	}
	if len(unknown) == 0 {
		return true, ""
	}
	sort.Strings(unknown)
	return true, fmt.Sprintf("unknown actions in keybindings.toml ignored: %s", strings.Join(unknown, ", "))
}
