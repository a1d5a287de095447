// Package markdown renders markdown for the terminal with glamour.
package markdown

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// noMarginStyle removes glamour's document margins so panels control layout.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer renders markdown at a fixed style, building one glamour renderer
// per wrap width on demand.
type Renderer struct {
	style string

	mu    sync.Mutex
	byWid map[int]*glamour.TermRenderer
}

// New creates a renderer. style is a glamour standard style name ("dark",
// "light", "notty", ...); empty means "dark". A fixed style avoids the
// terminal background query that auto style performs.
func New(style string) *Renderer {
	if style == "" {
		style = "dark"
	}
	return &Renderer{style: style, byWid: make(map[int]*glamour.TermRenderer)}
}

// Render transforms md into styled output wrapped at width.
func (r *Renderer) Render(md string, width int) (string, error) {
	tr, err := r.renderer(max(width, 20))
	if err != nil {
		return "", err
	}
	return tr.Render(md)
}

func (r *Renderer) renderer(width int) (*glamour.TermRenderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tr, ok := r.byWid[width]; ok {
		return tr, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.byWid[width] = tr
	return tr, nil
}
