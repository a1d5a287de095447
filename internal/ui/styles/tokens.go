package styles

// ColorToken represents a named, themeable color.
type ColorToken string

// These are the keys users can override under theme.colors in config.
const (
	TokenTextPrimary   ColorToken = "text.primary"
	TokenTextSecondary ColorToken = "text.secondary"
	TokenTextMuted     ColorToken = "text.muted"

	TokenBorderDefault ColorToken = "border.default"
	TokenAccent        ColorToken = "accent"

	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"

	TokenSentimentPositive ColorToken = "sentiment.positive"
	TokenSentimentNeutral  ColorToken = "sentiment.neutral"
	TokenSentimentNegative ColorToken = "sentiment.negative"
)

// AllTokens returns all valid color tokens for validation.
func AllTokens() []ColorToken {
	return []ColorToken{
		TokenTextPrimary,
		TokenTextSecondary,
		TokenTextMuted,
		TokenBorderDefault,
		TokenAccent,
		TokenStatusSuccess,
		TokenStatusWarning,
		TokenStatusError,
		TokenSentimentPositive,
		TokenSentimentNeutral,
		TokenSentimentNegative,
	}
}
