// Package mode defines the screen controller interface, the services shared
// between screens and the messages screens send to the application.
package mode

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel/trace"

	"github.com/wardwatch/wardwatch/internal/config"
	"github.com/wardwatch/wardwatch/internal/data"
	"github.com/wardwatch/wardwatch/internal/filter"
	"github.com/wardwatch/wardwatch/internal/flags"
	"github.com/wardwatch/wardwatch/internal/mode/shared"
	"github.com/wardwatch/wardwatch/internal/nav"
	"github.com/wardwatch/wardwatch/internal/ui/markdown"
	"github.com/wardwatch/wardwatch/internal/ui/toaster"
)

// Controller is implemented by every screen the application hosts.
type Controller interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Controller, tea.Cmd)
	View() string
	SetSize(width, height int) Controller

	// Mount acquires the screen's listeners and returns the commands that
	// keep them fed. Unmount releases them; it is safe to call twice.
	Mount(ctx context.Context) tea.Cmd
	Unmount()
}

// Services contains shared dependencies injected into screens.
type Services struct {
	Controller *nav.Controller
	Filters    *filter.Store
	Data       *data.Provider
	Flags      *flags.Registry
	Markdown   *markdown.Renderer
	Tracer     trace.Tracer
	Config     *config.Config
	ConfigPath string
	Clock      shared.Clock
}

// ShowToastMsg asks the application to show a toast.
type ShowToastMsg struct {
	Message string
	Style   toaster.Style
}

// PinViewMsg asks the application to save ID as the default view.
type PinViewMsg struct {
	ID string
}

// RemountMsg asks the application to tear down the screen and build a fresh
// one, clearing every tripped panel.
type RemountMsg struct{}

// ReloadedMsg reports the end of a dataset reload.
type ReloadedMsg struct {
	Records int
	Err     error
}

// ReloadCmd reloads the dataset off the update loop.
func ReloadCmd(ctx context.Context, p *data.Provider) tea.Cmd {
	return func() tea.Msg {
		if err := p.Load(ctx); err != nil {
			return ReloadedMsg{Err: err}
		}
		return ReloadedMsg{Records: p.Len()}
	}
}
