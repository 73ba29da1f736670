package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// SortOrderConfig selects the default ordering of the checklist view.
type SortOrderConfig struct {
	// By is one of "priority", "dueDate", "status", "label".
	By string `mapstructure:"by" yaml:"by"`

	// Direction is "asc" or "desc".
	Direction string `mapstructure:"direction" yaml:"direction"`
}

// IconConfig holds the glyphs used when rendering items.
type IconConfig struct {
	High      string `mapstructure:"high" yaml:"high"`
	Medium    string `mapstructure:"medium" yaml:"medium"`
	Low       string `mapstructure:"low" yaml:"low"`
	Completed string `mapstructure:"completed" yaml:"completed"`
	Pending   string `mapstructure:"pending" yaml:"pending"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme         string `mapstructure:"theme" yaml:"theme"`
	ShowStatusBar bool   `mapstructure:"show_status_bar" yaml:"show_status_bar"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// DefaultPriority is assigned to newly created items.
	DefaultPriority string `mapstructure:"default_priority" yaml:"default_priority"`

	// AutoSave flushes the store to the workspace file after every mutation.
	AutoSave bool `mapstructure:"auto_save" yaml:"auto_save"`

	// AutoBackup writes a daily snapshot when the newest backup is stale.
	AutoBackup bool `mapstructure:"auto_backup" yaml:"auto_backup"`

	// ScanOnStartup runs the due-date scan when the application starts.
	ScanOnStartup bool `mapstructure:"scan_on_startup" yaml:"scan_on_startup"`

	// AnalyticsEnabled controls the local usage event log.
	AnalyticsEnabled bool `mapstructure:"analytics_enabled" yaml:"analytics_enabled"`

	// DefaultTemplate seeds an empty workspace with a named template.
	DefaultTemplate string `mapstructure:"default_template" yaml:"default_template"`

	// DueSoonDays is the horizon, in days, for the "due soon" classification.
	DueSoonDays int `mapstructure:"due_soon_days" yaml:"due_soon_days"`

	SortOrder SortOrderConfig `mapstructure:"sort_order" yaml:"sort_order"`
	Icons     IconConfig      `mapstructure:"icons" yaml:"icons"`
	Display   DisplayConfig   `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/checklist/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "checklist", "config.yaml")
}

// DefaultDataDir returns the directory holding the global store, backups,
// and analytics logs, located at ~/.config/checklist.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "checklist")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		DefaultPriority:  PriorityMedium,
		AutoSave:         true,
		AutoBackup:       true,
		ScanOnStartup:    true,
		AnalyticsEnabled: true,
		DueSoonDays:      7,
		SortOrder: SortOrderConfig{
			By:        "priority",
			Direction: "desc",
		},
		Icons: IconConfig{
			High:      "🔴",
			Medium:    "🟡",
			Low:       "🟢",
			Completed: "✓",
			Pending:   "☐",
		},
		Display: DisplayConfig{
			Theme:         "default",
			ShowStatusBar: true,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("default_priority", PriorityMedium)
	v.SetDefault("auto_save", true)
	v.SetDefault("auto_backup", true)
	v.SetDefault("scan_on_startup", true)
	v.SetDefault("analytics_enabled", true)
	v.SetDefault("due_soon_days", 7)
	v.SetDefault("sort_order.by", "priority")
	v.SetDefault("sort_order.direction", "desc")
	v.SetDefault("icons.high", "🔴")
	v.SetDefault("icons.medium", "🟡")
	v.SetDefault("icons.low", "🟢")
	v.SetDefault("icons.completed", "✓")
	v.SetDefault("icons.pending", "☐")
	v.SetDefault("display.theme", "default")
	v.SetDefault("display.show_status_bar", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if !ValidPriority(cfg.DefaultPriority) || cfg.DefaultPriority == PriorityNone {
		cfg.DefaultPriority = PriorityMedium
	}
	if cfg.DueSoonDays <= 0 {
		cfg.DueSoonDays = 7
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("default_priority", cfg.DefaultPriority)
	v.Set("auto_save", cfg.AutoSave)
	v.Set("auto_backup", cfg.AutoBackup)
	v.Set("scan_on_startup", cfg.ScanOnStartup)
	v.Set("analytics_enabled", cfg.AnalyticsEnabled)
	v.Set("default_template", cfg.DefaultTemplate)
	v.Set("due_soon_days", cfg.DueSoonDays)
	v.Set("sort_order", cfg.SortOrder)
	v.Set("icons", cfg.Icons)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
