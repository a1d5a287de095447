package nav

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/goleak"
	"pgregory.net/rapid"

	"github.com/wardwatch/wardwatch/internal/location"
	"github.com/wardwatch/wardwatch/internal/pubsub"
	"github.com/wardwatch/wardwatch/internal/registry"
	"github.com/wardwatch/wardwatch/internal/tracing"
)

func newController(t *testing.T, raw string, opts ...Option) (*Controller, *location.Memory) {
	t.Helper()
	env := location.NewMemory(raw)
	c := New(registry.Default(), env, opts...)
	t.Cleanup(func() {
		c.Close()
		_ = env.Close()
	})
	return c, env
}

func altDigit(d rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{d}, Alt: true}
}

func TestSelect_EveryRegisteredView(t *testing.T) {
	c, env := newController(t, "")

	for _, v := range c.Registry().List() {
		c.Select(v.ID)
		require.Equal(t, v.ID, c.Active())
		tab, ok := env.ReadParam(ParamTab)
		require.True(t, ok)
		require.Equal(t, v.ID, tab)
	}
	require.Len(t, env.History(), 1, "selections replace the current entry")
}

func TestSelect_UnknownIsNoop(t *testing.T) {
	c, env := newController(t, "")
	c.Select(registry.Sentiment)

	c.Select("bogus")
	c.Select("")
	require.Equal(t, registry.Sentiment, c.Active())
	tab, _ := env.ReadParam(ParamTab)
	require.Equal(t, registry.Sentiment, tab)
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name  string
		param string
		want  string
	}{
		{name: "valid id", param: registry.Geographic, want: registry.Geographic},
		{name: "unknown id", param: "bogus", want: registry.Overview},
		{name: "absent", param: "", want: registry.Overview},
		{name: "case matters", param: "Geographic", want: registry.Overview},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, env := newController(t, "")
			require.Equal(t, tt.want, c.Initialize(tt.param))
			require.Equal(t, tt.want, c.Active())
			_, written := env.ReadParam(ParamTab)
			require.False(t, written, "initialize must not write the location")
		})
	}
}

func TestDispatchShortcut_ThirdIsCompetitive(t *testing.T) {
	c, env := newController(t, "")

	require.True(t, c.DispatchShortcut(3))
	require.Equal(t, registry.Competitive, c.Active())
	tab, _ := env.ReadParam(ParamTab)
	require.Equal(t, registry.Competitive, tab)
}

func TestDispatchShortcut_OutOfRange(t *testing.T) {
	c, env := newController(t, "")
	c.Select(registry.Geographic)

	for _, ordinal := range []int{-3, 0, 6, 9, 100} {
		require.False(t, c.DispatchShortcut(ordinal))
		require.Equal(t, registry.Geographic, c.Active())
	}
	require.Len(t, env.History(), 1)
}

// DispatchShortcut(k) behaves exactly like Select(registry[k-1]) in range
// and leaves state untouched otherwise.
func TestDispatchShortcut_MatchesSelect(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		reg := registry.Default()
		envA, envB := location.NewMemory(""), location.NewMemory("")
		a, b := New(reg, envA), New(reg, envB)
		defer a.Close()
		defer b.Close()

		start := rapid.SampledFrom(reg.IDs()).Draw(r, "start")
		a.Select(start)
		b.Select(start)

		k := rapid.IntRange(-2, reg.Len()+3).Draw(r, "ordinal")
		a.DispatchShortcut(k)
		if v, ok := reg.At(k); ok {
			b.Select(v.ID)
		}

		if a.Active() != b.Active() {
			r.Fatalf("active %q vs %q", a.Active(), b.Active())
		}
		if envA.Current() != envB.Current() {
			r.Fatalf("location %q vs %q", envA.Current(), envB.Current())
		}
		if len(envA.History()) != 1 {
			r.Fatalf("history grew to %d", len(envA.History()))
		}
	})
}

// Any sequence of operations keeps the active view inside the registry.
func TestActiveAlwaysRegistered(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		reg := registry.Default()
		env := location.NewMemory("")
		c := New(reg, env)
		defer c.Close()

		ids := append(reg.IDs(), "bogus", "", "OVERVIEW")
		c.Initialize(rapid.SampledFrom(ids).Draw(r, "init"))
		steps := rapid.IntRange(0, 40).Draw(r, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(r, "op") {
			case 0:
				c.Select(rapid.SampledFrom(ids).Draw(r, "id"))
			case 1:
				c.DispatchShortcut(rapid.IntRange(-1, 10).Draw(r, "k"))
			case 2:
				c.Next()
			case 3:
				c.Prev()
			}
			if !reg.Contains(c.Active()) {
				r.Fatalf("active view %q not registered", c.Active())
			}
		}
	})
}

func TestNextPrev_Wrap(t *testing.T) {
	c, _ := newController(t, "")

	c.Prev()
	require.Equal(t, registry.Strategist, c.Active())
	c.Next()
	require.Equal(t, registry.Overview, c.Active())
	c.Next()
	require.Equal(t, registry.Sentiment, c.Active())
}

func TestMount_LocationWinsAtStartup(t *testing.T) {
	c, env := newController(t, "wardwatch://dashboard?tab=strategist")
	c.Initialize(registry.Geographic) // compiled-in default

	release := c.Mount(context.Background())
	defer release()

	require.Equal(t, registry.Strategist, c.Active())
	require.Len(t, env.History(), 1, "reconciliation must not write")
	require.Equal(t, "wardwatch://dashboard?tab=strategist", c.Location())
}

func TestMount_InvalidLocationKeepsInitialView(t *testing.T) {
	c, _ := newController(t, "wardwatch://dashboard?tab=bogus")
	c.Initialize(registry.Sentiment)

	release := c.Mount(context.Background())
	defer release()
	require.Equal(t, registry.Sentiment, c.Active())
}

func TestRuntimeLocationChangeDoesNotSelect(t *testing.T) {
	c, env := newController(t, "")
	c.Initialize("")
	release := c.Mount(context.Background())
	defer release()

	env.Navigate("wardwatch://dashboard?tab=competitive")

	msg := c.ListenLocation()()
	ev, ok := msg.(pubsub.Event[location.Change])
	require.True(t, ok)
	c.ObserveLocation(ev.Payload)

	require.Equal(t, registry.Overview, c.Active())
	require.Equal(t, "wardwatch://dashboard?tab=competitive", c.Location())
}

func TestHandleKey(t *testing.T) {
	c, env := newController(t, "")
	c.Initialize("")

	require.False(t, c.HandleKey(altDigit('3')), "inert before mount")
	require.Equal(t, registry.Overview, c.Active())

	release := c.Mount(context.Background())
	require.True(t, c.HandleKey(altDigit('3')))
	require.Equal(t, registry.Competitive, c.Active())
	tab, _ := env.ReadParam(ParamTab)
	require.Equal(t, registry.Competitive, tab)

	require.False(t, c.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}}), "digit without modifier")
	require.False(t, c.HandleKey(altDigit('7')), "out of range")
	require.False(t, c.HandleKey(altDigit('0')))
	require.Equal(t, registry.Competitive, c.Active())

	release()
	require.False(t, c.HandleKey(altDigit('1')), "inert after unmount")
	require.Equal(t, registry.Competitive, c.Active())
}

func TestHandleKey_FlagDisabled(t *testing.T) {
	c, _ := newController(t, "", WithShortcuts(false))
	release := c.Mount(context.Background())
	defer release()

	require.False(t, c.ShortcutsEnabled())
	require.False(t, c.HandleKey(altDigit('2')))
	require.Equal(t, registry.Overview, c.Active())
}

func TestMount_ReleaseIsScopedAndIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	env := location.NewMemory("")
	c := New(registry.Default(), env)
	defer env.Close()
	defer c.Close()

	release := c.Mount(context.Background())
	require.True(t, c.Mounted())
	require.Equal(t, 2, c.Listeners())
	require.Equal(t, 1, env.Broker().SubscriberCount())

	release()
	release()
	require.False(t, c.Mounted())
	require.Equal(t, 0, c.Listeners())
	require.Equal(t, 0, env.Broker().SubscriberCount())
	require.Nil(t, c.ListenLocation())

	// Remount, then unmount through the other path.
	c.Mount(context.Background())
	require.Equal(t, 1, env.Broker().SubscriberCount())
	c.Unmount()
	require.Equal(t, 0, env.Broker().SubscriberCount())
}

func TestMount_TwiceReleasesPreviousScope(t *testing.T) {
	c, env := newController(t, "")

	first := c.Mount(context.Background())
	c.Mount(context.Background())
	require.Equal(t, 1, env.Broker().SubscriberCount())

	first() // stale release must not tear down the new scope
	require.True(t, c.Mounted())
	require.Equal(t, 1, env.Broker().SubscriberCount())
}

func TestListenLocation_EndsOnUnmount(t *testing.T) {
	c, _ := newController(t, "")
	release := c.Mount(context.Background())
	cmd := c.ListenLocation()
	require.NotNil(t, cmd)

	done := make(chan any, 1)
	go func() { done <- cmd() }()
	release()

	select {
	case msg := <-done:
		require.Nil(t, msg)
	case <-time.After(time.Second):
		t.Fatal("listener did not stop after unmount")
	}
}

func TestBroker_PublishesChanges(t *testing.T) {
	c, _ := newController(t, "")
	ch, release := c.Broker().SubscribeScoped()
	defer release()

	c.Select(registry.Overview) // already active: no change event
	c.DispatchShortcut(2)

	select {
	case ev := <-ch:
		require.Equal(t, Change{From: registry.Overview, To: registry.Sentiment, Source: SourceShortcut}, ev.Payload)
	case <-time.After(time.Second):
		t.Fatal("expected change event")
	}
}

func TestSelect_TaggedAsAPI(t *testing.T) {
	c, _ := newController(t, "")
	ch, release := c.Broker().SubscribeScoped()
	defer release()

	c.Select(registry.Sentiment)

	select {
	case ev := <-ch:
		require.Equal(t, SourceAPI, ev.Payload.Source)
	case <-time.After(time.Second):
		t.Fatal("expected change event")
	}
}

type failingEnv struct {
	mock.Mock
}

func (f *failingEnv) ReadParam(key string) (string, bool) {
	args := f.Called(key)
	return args.String(0), args.Bool(1)
}

func (f *failingEnv) WriteParam(key, value string, opts location.WriteOptions) error {
	return f.Called(key, value, opts).Error(0)
}

func TestSelect_WriteFailureStillSelects(t *testing.T) {
	env := &failingEnv{}
	env.On("WriteParam", ParamTab, registry.Geographic, location.WriteOptions{Replace: true}).
		Return(errors.New("read-only"))
	c := New(registry.Default(), env)
	defer c.Close()

	require.NotPanics(t, func() { c.Select(registry.Geographic) })
	require.Equal(t, registry.Geographic, c.Active())
	env.AssertExpectations(t)
}

func TestSelect_Traced(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	c, _ := newController(t, "", WithTracer(tp.Tracer("test")))
	c.DispatchShortcut(4)
	c.Select("bogus")

	// The location write ends first, as a child of the accepted select.
	ended := sr.Ended()
	require.Len(t, ended, 3)
	put, sel, rejected := ended[0], ended[1], ended[2]

	require.Equal(t, tracing.SpanLocationPut, put.Name())
	require.Equal(t, sel.SpanContext().SpanID(), put.Parent().SpanID())
	require.Contains(t, put.Attributes(), attribute.Bool(tracing.AttrReplace, true))

	require.Equal(t, tracing.SpanNavSelect, sel.Name())
	require.Contains(t, sel.Attributes(), attribute.String(tracing.AttrNavSource, string(SourceShortcut)))
	require.Contains(t, sel.Attributes(), attribute.String(tracing.AttrViewID, registry.Geographic))

	require.Equal(t, tracing.SpanNavSelect, rejected.Name())
	require.Len(t, rejected.Events(), 1)
	require.Equal(t, tracing.EventSelectRejected, rejected.Events()[0].Name)
}
