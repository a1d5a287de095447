// Package config provides configuration types, defaults and validation for
// wardwatch.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/wardwatch/wardwatch/internal/log"
	"github.com/wardwatch/wardwatch/internal/registry"
	"github.com/wardwatch/wardwatch/internal/tracing"
	"github.com/wardwatch/wardwatch/internal/ui/styles"
)

// Location store kinds.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// ViewConfig declares one dashboard view.
type ViewConfig struct {
	ID          string `mapstructure:"id"`
	Label       string `mapstructure:"label"`
	Description string `mapstructure:"description"`
	Priority    int    `mapstructure:"priority"`
	Badge       *int   `mapstructure:"badge"`
}

// Config holds all configuration options for wardwatch.
type Config struct {
	DataPath       string          `mapstructure:"data_path"`        // empty serves the built-in sample
	ExtraDataPaths []string        `mapstructure:"extra_data_paths"` // loaded alongside data_path
	AutoReload     bool            `mapstructure:"auto_reload"`
	UI             UIConfig        `mapstructure:"ui"`
	Theme          ThemeConfig     `mapstructure:"theme"`
	Views          []ViewConfig    `mapstructure:"views"`
	Filters        []string        `mapstructure:"filters"`
	Location       LocationConfig  `mapstructure:"location"`
	Cache          CacheConfig     `mapstructure:"cache"`
	Tracing        tracing.Config  `mapstructure:"tracing"`
	Flags          map[string]bool `mapstructure:"flags"`
}

// UIConfig holds user interface options.
type UIConfig struct {
	DefaultTab    string `mapstructure:"default_tab"`
	Pinned        bool   `mapstructure:"pinned"` // default_tab beats the restored location
	ShowLocation  bool   `mapstructure:"show_location"`
	MarkdownStyle string `mapstructure:"markdown_style"` // glamour standard style name
}

// ThemeConfig holds theme customization options.
type ThemeConfig struct {
	Preset string `mapstructure:"preset"`

	// Colors overrides individual tokens. Both nested YAML and quoted dot
	// notation ("text.primary") are accepted.
	Colors map[string]any `mapstructure:"colors"`
}

// LocationConfig selects where the location history lives.
type LocationConfig struct {
	Store        string `mapstructure:"store"`
	Path         string `mapstructure:"path"`
	HistoryLimit int    `mapstructure:"history_limit"`
}

// CacheConfig tunes the filtered-subset cache.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// FlattenedColors returns Colors with nested maps flattened to dot keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	out := make(map[string]string)
	flatten("", t.Colors, out)
	return out
}

func flatten(prefix string, m map[string]any, out map[string]string) {
	for k, v := range m {
		if prefix != "" {
			k = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[k] = val
		case map[string]any:
			flatten(k, val, out)
		case map[any]any:
			converted := make(map[string]any, len(val))
			for mk, mv := range val {
				if s, ok := mk.(string); ok {
					converted[s] = mv
				}
			}
			flatten(k, converted, out)
		}
	}
}

// Styles converts the theme for the styles package.
func (t ThemeConfig) Styles() styles.ThemeConfig {
	return styles.ThemeConfig{Preset: t.Preset, Colors: t.FlattenedColors()}
}

// Registry builds the view registry, falling back to the built-in views.
func (c Config) Registry() (*registry.Registry, error) {
	if len(c.Views) == 0 {
		return registry.Default(), nil
	}
	views := make([]registry.View, len(c.Views))
	for i, v := range c.Views {
		views[i] = registry.View{
			ID:          strings.TrimSpace(v.ID),
			Label:       strings.TrimSpace(v.Label),
			Description: v.Description,
			Priority:    v.Priority,
			BadgeCount:  v.Badge,
		}
	}
	return registry.New(views...)
}

// DefaultFilters are the filter bar dimensions when none are configured.
func DefaultFilters() []string {
	return []string{"city", "ward", "party", "emotion", "source"}
}

// DefaultLocationPath is the SQLite location history under the user config dir.
func DefaultLocationPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "wardwatch", "location.db")
}

// DefaultTracesFilePath is the JSONL trace output under the user config dir.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "wardwatch", "traces", "traces.jsonl")
}

// Defaults returns the configuration used when no file sets a value.
func Defaults() Config {
	return Config{
		AutoReload: true,
		UI: UIConfig{
			DefaultTab:    registry.Overview,
			ShowLocation:  true,
			MarkdownStyle: "dark",
		},
		Filters: DefaultFilters(),
		Location: LocationConfig{
			Store:        StoreSQLite,
			Path:         DefaultLocationPath(),
			HistoryLimit: 50,
		},
		Cache:   CacheConfig{TTL: 5 * time.Minute},
		Tracing: tracing.DefaultConfig(),
	}
}

// Validate checks c and returns every problem found.
func Validate(c Config) error {
	var errs []error

	reg, err := c.Registry()
	if err != nil {
		errs = append(errs, fmt.Errorf("views: %w", err))
	} else if c.UI.DefaultTab != "" && !reg.Contains(c.UI.DefaultTab) {
		log.Warn(log.CatConfig, "ui.default_tab names no view; first view will be used", "default_tab", c.UI.DefaultTab)
	}

	seen := make(map[string]bool, len(c.Filters))
	for i, f := range c.Filters {
		f = strings.TrimSpace(f)
		switch {
		case f == "":
			errs = append(errs, fmt.Errorf("filters[%d]: key is empty", i))
		case seen[f]:
			errs = append(errs, fmt.Errorf("filters[%d]: duplicate key %q", i, f))
		}
		seen[f] = true
	}

	switch c.Location.Store {
	case StoreMemory:
	case StoreSQLite:
		if c.Location.Path == "" {
			errs = append(errs, errors.New("location.path is required when location.store is \"sqlite\""))
		}
	default:
		errs = append(errs, fmt.Errorf("location.store must be %q or %q, got %q", StoreMemory, StoreSQLite, c.Location.Store))
	}
	if c.Location.HistoryLimit < 0 {
		errs = append(errs, fmt.Errorf("location.history_limit must not be negative, got %d", c.Location.HistoryLimit))
	}

	if c.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL))
	}

	if c.Theme.Preset != "" {
		if _, ok := styles.Presets[c.Theme.Preset]; !ok {
			errs = append(errs, fmt.Errorf("theme.preset %q is not a built-in preset", c.Theme.Preset))
		}
	}

	if err := validateTracing(c.Tracing); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func validateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}
	if t.Exporter != "" && !slices.Contains([]string{"none", "file", "stdout", "otlp"}, t.Exporter) {
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
	}
	if t.Enabled {
		if t.Exporter == "file" && t.FilePath == "" {
			return errors.New("tracing.file_path is required when exporter is \"file\"")
		}
		if t.Exporter == "otlp" && t.OTLPEndpoint == "" {
			return errors.New("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate is the commented config written on first run.
func DefaultConfigTemplate() string {
	return `# wardwatch configuration

# Dataset file (YAML or JSON). Leave unset to use the built-in sample.
# data_path: ~/data/posts.yaml
# extra_data_paths:
#   - ~/data/news.json

# Reload the dataset when the file changes
auto_reload: true

ui:
  default_tab: overview   # view opened when the location has no tab
  pinned: false           # open default_tab even when a view was restored (ctrl+s pins the current view)
  show_location: true     # show the current location in the status bar
  markdown_style: dark    # glamour style for the strategist brief: dark, light, notty

# theme:
#   preset: high-contrast
#   colors:
#     accent: "#FFD700"

# Views in tab order. alt+1 selects the first, alt+2 the second, and so on.
# views:
#   - id: overview
#     label: Overview
#   - id: sentiment
#     label: Sentiment
#     badge: 3

# Filter bar dimensions. Known fields: city, ward, party, emotion, source.
# Any other key matches record attributes.
filters:
  - city
  - ward
  - party
  - emotion
  - source

location:
  store: sqlite           # sqlite keeps the last location across restarts; memory does not
  # path: ~/.config/wardwatch/location.db
  history_limit: 50

cache:
  ttl: 5m

# tracing:
#   enabled: false
#   exporter: file        # none, file, stdout, otlp
#   file_path: ~/.config/wardwatch/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0

# flags:
#   keyboard-shortcuts: true
#   mouse-tabs: true
#   fault-toast: true
`
}

// WriteDefaultConfig creates a config file at path with default settings
// and comments, creating the parent directory if needed.
func WriteDefaultConfig(path string) error {
	log.Debug(log.CatConfig, "writing default config", "path", path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "failed to write config file", err, "path", path)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "created default config", "path", path)
	return nil
}
