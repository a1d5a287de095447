// Package app contains the root application model.
package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wardwatch/wardwatch/internal/config"
	"github.com/wardwatch/wardwatch/internal/guard"
	"github.com/wardwatch/wardwatch/internal/log"
	"github.com/wardwatch/wardwatch/internal/mode"
	"github.com/wardwatch/wardwatch/internal/mode/dashboard"
	"github.com/wardwatch/wardwatch/internal/pubsub"
	"github.com/wardwatch/wardwatch/internal/ui/logview"
	"github.com/wardwatch/wardwatch/internal/ui/styles"
	"github.com/wardwatch/wardwatch/internal/ui/toaster"
	"github.com/wardwatch/wardwatch/internal/watcher"
)

// screenName names the root guard in logs and the fallback.
const screenName = "dashboard"

// Options configures the application.
type Options struct {
	Services mode.Services

	// NewScreen builds the hosted screen. Defaults to the dashboard.
	NewScreen func(mode.Services) mode.Controller

	// WatchPaths are dataset files reloaded on change when
	// Services.Config.AutoReload is set.
	WatchPaths []string

	// Debug enables the log viewer (ctrl+x).
	Debug bool
}

// Model is the root application state.
type Model struct {
	services  mode.Services
	newScreen func(mode.Services) mode.Controller

	// The screen is rendered under the root guard during Update; View only
	// decorates the result.
	screen   mode.Controller
	root     *guard.Guard
	rendered string

	width  int
	height int

	// Centralized toaster, owned by app rather than the screen
	toaster toaster.Model

	debug       bool
	logs        logview.Model
	logListener *log.LogListener

	ctx    context.Context
	cancel context.CancelFunc

	// Dataset watchers for auto-reload
	watchers  []*watcher.Watcher
	listeners []*pubsub.ContinuousListener[watcher.Event]
}

// New creates the application model. Watchers that fail to start are
// logged and skipped; the dashboard works without auto-reload.
func New(opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())

	newScreen := opts.NewScreen
	if newScreen == nil {
		newScreen = func(svc mode.Services) mode.Controller { return dashboard.New(svc) }
	}

	m := Model{
		services:  opts.Services,
		newScreen: newScreen,
		root:      newRootGuard(opts.Services),
		toaster:   toaster.New(),
		debug:     opts.Debug,
		logs:      logview.New(logview.DefaultCapacity),
		ctx:       ctx,
		cancel:    cancel,
	}
	m.screen = newScreen(opts.Services)

	if opts.Debug {
		m.logListener = log.NewListener(ctx)
	}

	if cfg := opts.Services.Config; cfg != nil && cfg.AutoReload {
		for _, path := range opts.WatchPaths {
			w, err := watcher.New(watcher.DefaultConfig(path))
			if err != nil {
				log.Warn(log.CatWatcher, "auto-reload disabled", "path", path, "error", err)
				continue
			}
			if err := w.Start(); err != nil {
				_ = w.Stop()
				log.Warn(log.CatWatcher, "auto-reload disabled", "path", path, "error", err)
				continue
			}
			m.watchers = append(m.watchers, w)
			m.listeners = append(m.listeners, pubsub.NewContinuousListener(ctx, w.Broker()))
		}
	}
	return m
}

func newRootGuard(svc mode.Services) *guard.Guard {
	return guard.New(screenName,
		guard.WithTracer(svc.Tracer),
		guard.WithFallback(func(f guard.Fault) string {
			return styles.ErrorStyle.Render(guard.DefaultFallback(f) + "\n\nPress ctrl+r to remount or q to quit.")
		}),
	)
}

// Init mounts the screen and starts the watcher and log listeners.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.screen.Init(), m.screen.Mount(m.ctx)}
	for _, l := range m.listeners {
		cmds = append(cmds, l.Listen())
	}
	cmds = append(cmds, m.logListener.Listen())
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logs.SetSize(msg.Width, msg.Height)
		if !m.root.Tripped() {
			m.screen = m.screen.SetSize(msg.Width, msg.Height)
		}
		return m, m.render()

	case log.LogEvent:
		// Logging here would feed this case forever.
		m.logs.Append(msg.Payload)
		return m, m.logListener.Listen()

	case tea.KeyMsg:
		if m.debug && msg.String() == "ctrl+x" {
			m.logs.Toggle()
			return m, nil
		}
		if m.logs.Visible() {
			var cmd tea.Cmd
			m.logs, cmd = m.logs.Update(msg)
			return m, cmd
		}
		if m.root.Tripped() {
			switch msg.String() {
			case "ctrl+r":
				return m.remount()
			case "q", "ctrl+c":
				return m, tea.Quit
			}
			return m, nil
		}

	case logview.CloseMsg:
		return m, nil

	case pubsub.Event[watcher.Event]:
		return m, m.handleWatcherEvent(msg)

	case mode.ShowToastMsg:
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show(msg.Message, msg.Style, toaster.DefaultDuration)
		return m, cmd

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case mode.PinViewMsg:
		return m, m.pin(msg.ID)

	case mode.RemountMsg:
		return m.remount()
	}

	if m.root.Tripped() {
		return m, nil
	}
	next, cmd := m.screen.Update(msg)
	m.screen = next
	return m, tea.Batch(cmd, m.render())
}

func (m *Model) handleWatcherEvent(ev pubsub.Event[watcher.Event]) tea.Cmd {
	var listen []tea.Cmd
	for _, l := range m.listeners {
		listen = append(listen, l.Listen())
	}
	if ev.Type == pubsub.ErrorEvent {
		log.Warn(log.CatWatcher, "watcher error received", "path", ev.Payload.Path, "error", ev.Payload.Err)
		return tea.Batch(listen...)
	}
	if m.services.Data == nil {
		return tea.Batch(listen...)
	}
	log.Debug(log.CatData, "dataset changed, reloading", "path", ev.Payload.Path)
	return tea.Batch(append(listen, mode.ReloadCmd(m.ctx, m.services.Data))...)
}

// render draws the screen under the root guard. The first trip unmounts the
// screen so it stops receiving events.
func (m *Model) render() tea.Cmd {
	wasTripped := m.root.Tripped()
	m.rendered = m.root.Render(func() (string, error) {
		return m.screen.View(), nil
	})
	if wasTripped || !m.root.Tripped() {
		return nil
	}
	m.screen.Unmount()
	return func() tea.Msg {
		return mode.ShowToastMsg{Message: "The dashboard crashed. Press ctrl+r to remount.", Style: toaster.StyleError}
	}
}

// remount replaces the screen and the root guard, clearing every trip.
func (m Model) remount() (tea.Model, tea.Cmd) {
	m.screen.Unmount()
	m.screen = m.newScreen(m.services)
	m.root = newRootGuard(m.services)
	if m.width > 0 && m.height > 0 {
		m.screen = m.screen.SetSize(m.width, m.height)
	}
	cmd := m.screen.Mount(m.ctx)
	log.Info(log.CatUI, "screen remounted", "screen", screenName)
	return m, tea.Batch(cmd, m.render())
}

// pin saves id as the pinned ui.default_tab in the config file. The next
// start opens it unless --tab says otherwise.
func (m *Model) pin(id string) tea.Cmd {
	if m.services.ConfigPath == "" {
		return showToast("No config file to save to.", toaster.StyleWarn)
	}
	if err := config.SaveDefaultTab(m.services.ConfigPath, id); err != nil {
		log.ErrorErr(log.CatConfig, "failed to pin default tab", err, "tab", id)
		return showToast(fmt.Sprintf("Could not save default view: %v", err), toaster.StyleError)
	}
	if m.services.Config != nil {
		m.services.Config.UI.DefaultTab = id
		m.services.Config.UI.Pinned = true
	}
	label := id
	if ctrl := m.services.Controller; ctrl != nil {
		if v, ok := ctrl.Registry().Get(id); ok {
			label = v.Label
		}
	}
	return showToast(fmt.Sprintf("%s is now the default view", label), toaster.StyleSuccess)
}

func showToast(message string, style toaster.Style) tea.Cmd {
	return func() tea.Msg { return mode.ShowToastMsg{Message: message, Style: style} }
}

// View implements tea.Model.
func (m Model) View() string {
	view := m.rendered

	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}
	if m.debug && m.logs.Visible() {
		view = m.logs.Overlay(view)
	}
	return view
}

// Screen returns the hosted screen.
func (m Model) Screen() mode.Controller {
	return m.screen
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	m.screen.Unmount()
	m.cancel()

	var errs []error
	for _, w := range m.watchers {
		if err := w.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	m.watchers = nil
	return errors.Join(errs...)
}
