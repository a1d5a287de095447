// Package dashboard composes the tab bar, the filter bar and the active
// panel into one screen.
//
// Every state change rebuilds a frame: the active view, the filter state
// and the dataset snapshot are each read once, the active panel is rendered
// under its guard, and View draws only from that frame. A panel that panics
// or errors is replaced by a fallback until the dashboard is remounted; the
// rest of the screen keeps working.
package dashboard

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/wardwatch/wardwatch/internal/config"
	"github.com/wardwatch/wardwatch/internal/data"
	"github.com/wardwatch/wardwatch/internal/filter"
	"github.com/wardwatch/wardwatch/internal/flags"
	"github.com/wardwatch/wardwatch/internal/guard"
	"github.com/wardwatch/wardwatch/internal/keys"
	"github.com/wardwatch/wardwatch/internal/location"
	"github.com/wardwatch/wardwatch/internal/log"
	"github.com/wardwatch/wardwatch/internal/mode"
	"github.com/wardwatch/wardwatch/internal/mode/shared"
	"github.com/wardwatch/wardwatch/internal/nav"
	"github.com/wardwatch/wardwatch/internal/panels"
	"github.com/wardwatch/wardwatch/internal/pubsub"
	"github.com/wardwatch/wardwatch/internal/registry"
	"github.com/wardwatch/wardwatch/internal/ui/markdown"
	"github.com/wardwatch/wardwatch/internal/ui/toaster"
)

// Rows taken by the tab bar, filter bar, rule and status bar.
const chromeHeight = 4

// Body size used before the first WindowSizeMsg.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// PanelFunc renders a panel that reads nothing but its size.
type PanelFunc func(width, height int) (string, error)

// Option configures a Model.
type Option func(*Model)

// WithPanel replaces the panel rendered for view id.
func WithPanel(id string, fn PanelFunc) Option {
	return func(m *Model) { m.overrides[id] = fn }
}

// scope is everything acquired by Mount.
type scope struct {
	ctx     context.Context
	cancel  context.CancelFunc
	filters <-chan pubsub.Event[filter.State]
	changes <-chan pubsub.Event[nav.Change]
	reloads <-chan pubsub.Event[data.Reload]
	unbind  func()
	release []func()
	once    sync.Once
}

func (s *scope) hold(release func()) {
	if release != nil {
		s.release = append(s.release, release)
	}
}

// Model holds the dashboard state.
type Model struct {
	svc        mode.Services
	ctrl       *nav.Controller
	reg        *registry.Registry
	guards     *guard.Set
	faults     *[]guard.Fault
	strategist *panels.Strategist
	overrides  map[string]PanelFunc
	clock      shared.Clock

	search     textinput.Model
	searching  bool
	help       help.Model
	showHelp   bool
	filterKeys []string
	focus      int

	width  int
	height int
	frame  frame
	mount  *scope
}

// New creates an unmounted dashboard. svc.Controller and svc.Filters are
// required.
func New(svc mode.Services, opts ...Option) *Model {
	faults := new([]guard.Fault)

	md := svc.Markdown
	if md == nil {
		md = markdown.New("")
	}
	clock := svc.Clock
	if clock == nil {
		clock = shared.RealClock{}
	}
	filterKeys := config.DefaultFilters()
	if svc.Config != nil && len(svc.Config.Filters) > 0 {
		filterKeys = slices.Clone(svc.Config.Filters)
	}

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search posts"
	search.CharLimit = 80

	m := &Model{
		svc:        svc,
		ctrl:       svc.Controller,
		reg:        svc.Controller.Registry(),
		faults:     faults,
		strategist: panels.NewStrategist(md),
		overrides:  make(map[string]PanelFunc),
		clock:      clock,
		search:     search,
		help:       help.New(),
		filterKeys: filterKeys,
	}
	m.guards = guard.NewSet(
		guard.WithReporter(func(f guard.Fault) { *faults = append(*faults, f) }),
		guard.WithTracer(svc.Tracer),
	)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init returns initial commands for the dashboard.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Mount reconciles the active view with the location, subscribes to filter,
// navigation and dataset changes, and renders the first frame. Mounting
// while mounted releases the previous subscriptions first.
func (m *Model) Mount(ctx context.Context) tea.Cmd {
	m.Unmount()

	mctx, cancel := context.WithCancel(ctx)
	s := &scope{ctx: mctx, cancel: cancel}
	s.unbind = m.ctrl.Mount(mctx)

	var release func()
	s.filters, release = m.svc.Filters.Broker().SubscribeScoped()
	s.hold(release)
	s.changes, release = m.ctrl.Broker().SubscribeScoped()
	s.hold(release)
	if m.svc.Data != nil {
		s.reloads, release = m.svc.Data.Broker().SubscribeScoped()
		s.hold(release)
	}
	m.mount = s

	m.compose()
	log.Debug(log.CatUI, "dashboard mounted", "view", m.frame.active, "listeners", m.Listeners())

	return tea.Batch(
		m.listenFilters(),
		m.listenChanges(),
		m.listenReloads(),
		m.ctrl.ListenLocation(),
		m.drainFaults(),
	)
}

// Unmount releases everything Mount acquired. Safe to call repeatedly.
func (m *Model) Unmount() {
	s := m.mount
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.cancel()
		s.unbind()
		for _, release := range s.release {
			release()
		}
	})
	m.mount = nil
	log.Debug(log.CatUI, "dashboard unmounted")
}

// Mounted reports whether the dashboard holds a mount scope.
func (m *Model) Mounted() bool {
	return m.mount != nil
}

// Listeners counts the live subscriptions and bindings held by the
// dashboard and its navigation controller.
func (m *Model) Listeners() int {
	if m.mount == nil {
		return m.ctrl.Listeners()
	}
	return m.ctrl.Listeners() + len(m.mount.release)
}

// Active returns the view id of the current frame.
func (m *Model) Active() string {
	return m.frame.active
}

// Tripped lists panels showing a fallback in the current frame.
func (m *Model) Tripped() []string {
	return m.frame.tripped
}

// Searching reports whether the search box has focus.
func (m *Model) Searching() bool {
	return m.searching
}

// Update handles messages and returns the updated model and commands.
func (m *Model) Update(msg tea.Msg) (mode.Controller, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.drainFaults())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return nil

	case pubsub.Event[filter.State]:
		m.compose()
		return m.listenFilters()

	case pubsub.Event[nav.Change]:
		m.compose()
		return m.listenChanges()

	case pubsub.Event[data.Reload]:
		m.compose()
		return m.listenReloads()

	case pubsub.Event[location.Change]:
		m.ctrl.ObserveLocation(msg.Payload)
		m.compose()
		return m.ctrl.ListenLocation()

	case mode.ReloadedMsg:
		if msg.Err != nil {
			return toast(fmt.Sprintf("Reload failed: %v", msg.Err), toaster.StyleError)
		}
		m.compose()
		return toast(fmt.Sprintf("Loaded %d posts", msg.Records), toaster.StyleSuccess)
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// A shortcut that selects a view never reaches the search box.
	if m.ctrl.HandleKey(msg) {
		m.compose()
		return nil
	}

	if m.searching {
		if key.Matches(msg, keys.Dashboard.Blur) {
			m.searching = false
			m.search.Blur()
			return nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.svc.Filters.SetSearchTerm(m.search.Value())
		m.compose()
		return cmd
	}

	switch {
	case key.Matches(msg, keys.Dashboard.Quit):
		return tea.Quit

	case m.showHelp && msg.Type == tea.KeyEsc:
		m.showHelp = false

	case key.Matches(msg, keys.Dashboard.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, keys.Dashboard.NextView):
		m.ctrl.Next()
		m.compose()

	case key.Matches(msg, keys.Dashboard.PrevView):
		m.ctrl.Prev()
		m.compose()

	case key.Matches(msg, keys.Dashboard.Search):
		m.searching = true
		return m.search.Focus()

	case key.Matches(msg, keys.Dashboard.NextFilter):
		if len(m.filterKeys) > 0 {
			m.focus = (m.focus + 1) % len(m.filterKeys)
		}

	case key.Matches(msg, keys.Dashboard.CycleValue):
		m.cycleValue(1)

	case key.Matches(msg, keys.Dashboard.CycleBack):
		m.cycleValue(-1)

	case key.Matches(msg, keys.Dashboard.ResetFilters):
		m.svc.Filters.Reset()
		m.search.SetValue("")
		m.compose()

	case key.Matches(msg, keys.Dashboard.PinView):
		id := m.ctrl.Active()
		return func() tea.Msg { return mode.PinViewMsg{ID: id} }

	case key.Matches(msg, keys.Dashboard.Remount):
		return func() tea.Msg { return mode.RemountMsg{} }

	case key.Matches(msg, keys.Dashboard.Reload):
		if m.svc.Data != nil {
			return mode.ReloadCmd(m.context(), m.svc.Data)
		}
	}
	return nil
}

// cycleValue steps the focused filter through All and the values present in
// the full dataset.
func (m *Model) cycleValue(delta int) {
	if len(m.filterKeys) == 0 {
		return
	}
	k := m.filterKeys[m.focus]
	options := data.Values(m.frame.snap.All, k)
	current := m.frame.filters.Value(k)
	i := slices.IndexFunc(options, func(o string) bool { return strings.EqualFold(o, current) })
	if i < 0 {
		i = 0
	}
	next := options[(i+delta+len(options))%len(options)]
	m.svc.Filters.SetFilter(k, next)
	m.compose()
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if !m.svc.Flags.Enabled(flags.FlagMouseTabs) {
		return
	}
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
		return
	}
	for i, v := range m.frame.views {
		if z := zone.Get(makeTabZoneID(i)); z != nil && z.InBounds(msg) {
			if m.ctrl.SelectFrom(v.ID, nav.SourcePointer) {
				m.compose()
			}
			return
		}
	}
}

// SetSize handles terminal resize events.
func (m *Model) SetSize(width, height int) mode.Controller {
	m.width = width
	m.height = height
	m.help.Width = width
	m.search.Width = max(width/3, 10)
	m.compose()
	return m
}

// compose reads the active view, the filters and the dataset once and
// renders the active panel into a new frame.
func (m *Model) compose() {
	f := frame{
		active:   m.ctrl.Active(),
		views:    m.reg.List(),
		filters:  m.svc.Filters.Snapshot(),
		location: m.ctrl.Location(),
	}
	if m.svc.Data != nil {
		f.snap, f.err = m.svc.Data.Snapshot(m.context(), f.filters)
	}
	f.body = m.renderBody(f)
	f.tripped = m.guards.Tripped()
	m.frame = f
}

func (m *Model) renderBody(f frame) string {
	w, h := m.bodySize()
	if f.err != nil {
		return fit(errorStyle(fmt.Sprintf("Data unavailable: %v", f.err)), w, h)
	}
	return m.guards.Get(f.active).Render(func() (string, error) {
		return m.panel(f, w, h)
	})
}

func (m *Model) panel(f frame, w, h int) (string, error) {
	if fn, ok := m.overrides[f.active]; ok {
		return fn(w, h)
	}
	switch f.active {
	case registry.Overview:
		return panels.Overview(f.overviewInput(), w, h)
	case registry.Sentiment:
		return panels.Sentiment(f.sentimentInput(), w, h)
	case registry.Competitive:
		return panels.Competitive(f.competitiveInput(), w, h)
	case registry.Geographic:
		return panels.Geographic(f.geographicInput(), w, h)
	case registry.Strategist:
		return m.strategist.Render(f.strategistInput(), w, h)
	default:
		return panels.Placeholder(f.placeholderInput(), w, h)
	}
}

func (m *Model) bodySize() (int, int) {
	w, h := m.width, m.height
	if w <= 0 || h <= 0 {
		w, h = defaultWidth, defaultHeight
	}
	return w, max(h-chromeHeight, 1)
}

// drainFaults turns faults recorded since the last call into toasts.
func (m *Model) drainFaults() tea.Cmd {
	faults := *m.faults
	if len(faults) == 0 {
		return nil
	}
	*m.faults = nil
	if !m.svc.Flags.Enabled(flags.FlagFaultToast) {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(faults))
	for _, f := range faults {
		label := f.Panel
		if v, ok := m.reg.Get(f.Panel); ok {
			label = v.Label
		}
		cmds = append(cmds, toast(fmt.Sprintf("%s panel failed (ctrl+r to remount)", label), toaster.StyleError))
	}
	return tea.Batch(cmds...)
}

func (m *Model) context() context.Context {
	if m.mount != nil {
		return m.mount.ctx
	}
	return context.Background()
}

func (m *Model) listenFilters() tea.Cmd {
	if m.mount == nil {
		return nil
	}
	return pubsub.ListenCmd(m.mount.ctx, m.mount.filters)
}

func (m *Model) listenChanges() tea.Cmd {
	if m.mount == nil {
		return nil
	}
	return pubsub.ListenCmd(m.mount.ctx, m.mount.changes)
}

func (m *Model) listenReloads() tea.Cmd {
	if m.mount == nil || m.mount.reloads == nil {
		return nil
	}
	return pubsub.ListenCmd(m.mount.ctx, m.mount.reloads)
}

func toast(message string, style toaster.Style) tea.Cmd {
	return func() tea.Msg { return mode.ShowToastMsg{Message: message, Style: style} }
}
