package panels

import (
	"fmt"

	"github.com/wardwatch/wardwatch/internal/registry"
	"github.com/wardwatch/wardwatch/internal/ui/styles"
)

// PlaceholderInput feeds views configured without a dedicated panel.
type PlaceholderInput struct {
	View     registry.View
	Matching int
}

// Placeholder renders the view's description and the matching count.
func Placeholder(in PlaceholderInput, width, height int) (string, error) {
	out := styles.TitleStyle.Render(in.View.Label) + "\n\n"
	if in.View.Description != "" {
		out += in.View.Description + "\n\n"
	}
	out += styles.MutedStyle.Render(fmt.Sprintf("%d matching %s.", in.Matching, plural(in.Matching, "post", "posts")))
	return fit(out, width, height), nil
}
