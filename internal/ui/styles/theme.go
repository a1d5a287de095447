package styles

import (
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeConfig mirrors config.ThemeConfig to avoid circular imports.
type ThemeConfig struct {
	Preset string
	Colors map[string]string
}

// Presets holds the built-in palettes by name. "default" is the compiled-in
// palette and has no overrides.
var Presets = map[string]map[ColorToken]string{
	"default": {},
	"high-contrast": {
		TokenTextPrimary:       "#FFFFFF",
		TokenTextSecondary:     "#E0E0E0",
		TokenTextMuted:         "#B0B0B0",
		TokenBorderDefault:     "#FFFFFF",
		TokenAccent:            "#FFD700",
		TokenSentimentPositive: "#00FF7F",
		TokenSentimentNegative: "#FF4040",
	},
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ApplyTheme applies a preset and then individual overrides, and rebuilds
// the derived styles. Unknown presets, tokens or malformed colors are errors
// and leave the current palette untouched.
func ApplyTheme(cfg ThemeConfig) error {
	colors := make(map[ColorToken]string)
	if cfg.Preset != "" {
		preset, ok := Presets[cfg.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset: %s", cfg.Preset)
		}
		maps.Copy(colors, preset)
	}
	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !slices.Contains(AllTokens(), token) {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !hexColor.MatchString(value) {
			return fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		colors[token] = value
	}

	applyColors(colors)
	rebuildStyles()
	return nil
}

func applyColors(colors map[ColorToken]string) {
	targets := map[ColorToken]*lipgloss.AdaptiveColor{
		TokenTextPrimary:       &TextPrimaryColor,
		TokenTextSecondary:     &TextSecondaryColor,
		TokenTextMuted:         &TextMutedColor,
		TokenBorderDefault:     &BorderDefaultColor,
		TokenAccent:            &AccentColor,
		TokenStatusSuccess:     &StatusSuccessColor,
		TokenStatusWarning:     &StatusWarningColor,
		TokenStatusError:       &StatusErrorColor,
		TokenSentimentPositive: &PositiveColor,
		TokenSentimentNeutral:  &NeutralColor,
		TokenSentimentNegative: &NegativeColor,
	}
	for token, hex := range colors {
		if dst, ok := targets[token]; ok {
			*dst = lipgloss.AdaptiveColor{Light: hex, Dark: hex}
		}
	}
}
