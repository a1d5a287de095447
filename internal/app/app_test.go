package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardwatch/wardwatch/internal/config"
	"github.com/wardwatch/wardwatch/internal/data"
	"github.com/wardwatch/wardwatch/internal/filter"
	"github.com/wardwatch/wardwatch/internal/flags"
	"github.com/wardwatch/wardwatch/internal/location"
	"github.com/wardwatch/wardwatch/internal/log"
	"github.com/wardwatch/wardwatch/internal/mode"
	"github.com/wardwatch/wardwatch/internal/mode/dashboard"
	"github.com/wardwatch/wardwatch/internal/nav"
	"github.com/wardwatch/wardwatch/internal/pubsub"
	"github.com/wardwatch/wardwatch/internal/registry"
	"github.com/wardwatch/wardwatch/internal/testutil"
	"github.com/wardwatch/wardwatch/internal/ui/toaster"
	"github.com/wardwatch/wardwatch/internal/watcher"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

// fakeScreen records lifecycle calls and can be told to panic in View.
type fakeScreen struct {
	panics   bool
	mounts   int
	unmounts int
	updates  []tea.Msg
}

func (f *fakeScreen) Init() tea.Cmd { return nil }

func (f *fakeScreen) Update(msg tea.Msg) (mode.Controller, tea.Cmd) {
	f.updates = append(f.updates, msg)
	return f, nil
}

func (f *fakeScreen) View() string {
	if f.panics {
		panic("render exploded")
	}
	return "fake screen"
}

func (f *fakeScreen) SetSize(int, int) mode.Controller { return f }

func (f *fakeScreen) Mount(context.Context) tea.Cmd {
	f.mounts++
	return nil
}

func (f *fakeScreen) Unmount() { f.unmounts++ }

func testServices(t *testing.T) mode.Services {
	t.Helper()
	env := location.NewMemory("")
	ctrl := nav.New(registry.Default(), env)
	store := filter.NewStore()
	prov := data.NewProvider(&testutil.StaticSource{Records: testutil.MixedCities(t)})
	require.NoError(t, prov.Load(t.Context()))
	cfg := config.Defaults()
	cfg.AutoReload = false

	t.Cleanup(func() {
		ctrl.Close()
		store.Close()
		prov.Close()
		_ = env.Close()
	})
	return mode.Services{
		Controller: ctrl,
		Filters:    store,
		Data:       prov,
		Flags:      flags.New(nil),
		Config:     &cfg,
	}
}

func newWithScreens(t *testing.T, screens ...*fakeScreen) (Model, *int) {
	t.Helper()
	built := 0
	m := New(Options{
		Services: testServices(t),
		NewScreen: func(mode.Services) mode.Controller {
			s := screens[min(built, len(screens)-1)]
			built++
			return s
		},
	})
	t.Cleanup(func() { _ = m.Close() })
	return m, &built
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestApp_InitMountsScreen(t *testing.T) {
	screen := &fakeScreen{}
	m, _ := newWithScreens(t, screen)

	_ = m.Init()
	assert.Equal(t, 1, screen.mounts)
}

func TestApp_WindowSizeRendersScreen(t *testing.T) {
	m, _ := newWithScreens(t, &fakeScreen{})

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 100, m.width)
	assert.Equal(t, 30, m.height)
	assert.Equal(t, "fake screen", m.View())
}

func TestApp_DelegatesToScreen(t *testing.T) {
	screen := &fakeScreen{}
	m, _ := newWithScreens(t, screen)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'v'}})
	require.Len(t, screen.updates, 1)
}

func TestApp_RootGuardContainsScreenPanic(t *testing.T) {
	broken := &fakeScreen{panics: true}
	healthy := &fakeScreen{}
	m, built := newWithScreens(t, broken, healthy)
	_ = m.Init()

	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	require.NotNil(t, cmd)
	toast, ok := cmd().(mode.ShowToastMsg)
	require.True(t, ok)
	assert.Equal(t, toaster.StyleError, toast.Style)

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Something went wrong rendering dashboard.")
	assert.Contains(t, view, "ctrl+r")
	assert.Equal(t, 1, broken.unmounts, "a crashed screen is unmounted")

	// Keys other than remount and quit are swallowed.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'v'}})
	assert.Empty(t, broken.updates)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, 2, *built)
	assert.Equal(t, 1, healthy.mounts)
	assert.Equal(t, "fake screen", m.View())
}

func TestApp_RemountMsgReplacesScreen(t *testing.T) {
	first := &fakeScreen{}
	second := &fakeScreen{}
	m, built := newWithScreens(t, first, second)
	_ = m.Init()

	m, _ = update(t, m, mode.RemountMsg{})
	assert.Equal(t, 2, *built)
	assert.Equal(t, 1, first.unmounts)
	assert.Equal(t, 1, second.mounts)
	assert.Same(t, second, m.Screen())
}

func TestApp_ToastOverlay(t *testing.T) {
	m, _ := newWithScreens(t, &fakeScreen{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m, cmd := update(t, m, mode.ShowToastMsg{Message: "Loaded 6 posts", Style: toaster.StyleSuccess})
	assert.NotNil(t, cmd, "toast schedules its dismissal")
	assert.Contains(t, ansi.Strip(m.View()), "Loaded 6 posts")
}

func TestApp_PinViewSavesDefaultTab(t *testing.T) {
	m, _ := newWithScreens(t, &fakeScreen{})
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))
	m.services.ConfigPath = path

	m, cmd := update(t, m, mode.PinViewMsg{ID: registry.Geographic})
	require.NotNil(t, cmd)
	toast := cmd().(mode.ShowToastMsg)
	assert.Equal(t, toaster.StyleSuccess, toast.Style)
	assert.Equal(t, "Geographic is now the default view", toast.Message)
	assert.Equal(t, registry.Geographic, m.services.Config.UI.DefaultTab)
	assert.True(t, m.services.Config.UI.Pinned)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "default_tab: geographic")
	assert.Contains(t, string(raw), "pinned: true")
}

func TestApp_PinViewWithoutConfigFile(t *testing.T) {
	m, _ := newWithScreens(t, &fakeScreen{})

	_, cmd := update(t, m, mode.PinViewMsg{ID: registry.Overview})
	toast := cmd().(mode.ShowToastMsg)
	assert.Equal(t, toaster.StyleWarn, toast.Style)
}

func TestApp_WatcherEventReloadsData(t *testing.T) {
	m, _ := newWithScreens(t, &fakeScreen{})

	_, cmd := update(t, m, pubsub.Event[watcher.Event]{Type: pubsub.UpdatedEvent, Payload: watcher.Event{Path: "posts.yaml"}})
	require.NotNil(t, cmd)
	assert.Equal(t, mode.ReloadedMsg{Records: 6}, cmd())
}

func TestApp_WatcherErrorDoesNotReload(t *testing.T) {
	m, _ := newWithScreens(t, &fakeScreen{})

	_, cmd := update(t, m, pubsub.Event[watcher.Event]{Type: pubsub.ErrorEvent, Payload: watcher.Event{Path: "posts.yaml"}})
	assert.Nil(t, cmd)
}

func TestApp_AutoReloadWatchesFiles(t *testing.T) {
	svc := testServices(t)
	svc.Config.AutoReload = true
	path := filepath.Join(t.TempDir(), "posts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("records: []\n"), 0o600))

	m := New(Options{
		Services:   svc,
		NewScreen:  func(mode.Services) mode.Controller { return &fakeScreen{} },
		WatchPaths: []string{path, filepath.Join(t.TempDir(), "missing", "x.yaml")},
	})
	assert.Len(t, m.watchers, 1, "unwatchable paths are skipped")
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}

func TestApp_DebugLogViewer(t *testing.T) {
	m, _ := newWithScreens(t, &fakeScreen{})
	m.debug = true
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m, _ = update(t, m, log.LogEvent{Type: pubsub.CreatedEvent, Payload: "2026-09-01T10:00:00 [INFO] [data] dataset loaded records=6\n"})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Contains(t, ansi.Strip(m.View()), "dataset loaded records=6")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotContains(t, ansi.Strip(m.View()), "dataset loaded")
}

func TestApp_HostsDashboard(t *testing.T) {
	svc := testServices(t)
	m := New(Options{Services: svc})
	t.Cleanup(func() { _ = m.Close() })
	_ = m.Init()

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}, Alt: true})

	_, ok := m.Screen().(*dashboard.Model)
	require.True(t, ok)
	assert.Equal(t, registry.Competitive, svc.Controller.Active())
	assert.Contains(t, ansi.Strip(m.View()), "leads")
}
