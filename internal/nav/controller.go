// Package nav owns the dashboard's active view. It reconciles tab-bar
// clicks, alt+digit shortcuts and the location's `tab` parameter into a
// single selection, and writes every accepted selection back to the
// location without growing its history.
package nav

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/wardwatch/wardwatch/internal/keys"
	"github.com/wardwatch/wardwatch/internal/location"
	"github.com/wardwatch/wardwatch/internal/log"
	"github.com/wardwatch/wardwatch/internal/pubsub"
	"github.com/wardwatch/wardwatch/internal/registry"
	"github.com/wardwatch/wardwatch/internal/tracing"
)

// ParamTab is the location parameter holding the active view id.
const ParamTab = "tab"

// Source identifies what triggered a selection.
type Source string

const (
	SourcePointer  Source = "pointer"
	SourceShortcut Source = "shortcut"
	SourceCycle    Source = "cycle"
	SourceLocation Source = "location"
	SourceInit     Source = "init"
	SourceAPI      Source = "api"
)

// Change describes an active view transition.
type Change struct {
	From   string
	To     string
	Source Source
}

// Controller is the single writer of the active view.
type Controller struct {
	reg    *registry.Registry
	env    location.Environment
	tracer trace.Tracer
	broker *pubsub.Broker[Change]

	mu        sync.RWMutex
	active    string
	shortcuts bool
	mount     *mountScope
	lastURL   string
}

// mountScope holds everything acquired by Mount.
type mountScope struct {
	ctx        context.Context
	cancel     context.CancelFunc
	keysBound  bool
	locEvents  <-chan pubsub.Event[location.Change]
	releaseLoc func()
	once       sync.Once
}

// currentReader is implemented by environments that expose the full location.
type currentReader interface {
	Current() string
}

// Option configures a Controller.
type Option func(*Controller)

// WithTracer records a span per selection.
func WithTracer(t trace.Tracer) Option {
	return func(c *Controller) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithShortcuts enables or disables alt+digit shortcuts. Enabled by default.
func WithShortcuts(enabled bool) Option {
	return func(c *Controller) { c.shortcuts = enabled }
}

// New creates a controller whose active view is the first registry entry
// until Initialize runs.
func New(reg *registry.Registry, env location.Environment, opts ...Option) *Controller {
	c := &Controller{
		reg:       reg,
		env:       env,
		tracer:    noop.NewTracerProvider().Tracer("noop"),
		broker:    pubsub.NewBroker[Change](),
		active:    reg.First().ID,
		shortcuts: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the view catalog the controller selects from.
func (c *Controller) Registry() *registry.Registry {
	return c.reg
}

// Broker publishes a Change for every transition.
func (c *Controller) Broker() *pubsub.Broker[Change] {
	return c.broker
}

// Initialize sets the starting view. An empty or unknown param selects the
// first registry entry. The location is not written.
func (c *Controller) Initialize(param string) string {
	id := param
	if !c.reg.Contains(id) {
		if param != "" {
			log.Debug(log.CatNav, "discarding unknown initial view", "view", param)
		}
		id = c.reg.First().ID
	}

	c.mu.Lock()
	prev := c.active
	c.active = id
	c.mu.Unlock()

	log.Debug(log.CatNav, "initialized", "view", id)
	if prev != id {
		c.broker.Publish(pubsub.UpdatedEvent, Change{From: prev, To: id, Source: SourceInit})
	}
	return id
}

// Active returns the active view id.
func (c *Controller) Active() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Select activates id when registered; otherwise it is a no-op. The change
// is tagged SourceAPI.
func (c *Controller) Select(id string) {
	c.SelectFrom(id, SourceAPI)
}

// SelectFrom is Select tagged with its trigger. It reports whether id was
// accepted.
func (c *Controller) SelectFrom(id string, source Source) bool {
	ctx, span := c.tracer.Start(context.Background(), tracing.SpanNavSelect,
		trace.WithAttributes(
			attribute.String(tracing.AttrViewID, id),
			attribute.String(tracing.AttrNavSource, string(source)),
		))
	defer span.End()

	if !c.reg.Contains(id) {
		log.Debug(log.CatNav, "ignoring unknown view", "view", id, "source", source)
		span.AddEvent(tracing.EventSelectRejected)
		return false
	}

	c.mu.Lock()
	prev := c.active
	c.active = id
	c.mu.Unlock()
	span.SetAttributes(attribute.String(tracing.AttrViewPrevious, prev))

	_, put := c.tracer.Start(ctx, tracing.SpanLocationPut,
		trace.WithAttributes(attribute.Bool(tracing.AttrReplace, true)))
	if err := c.env.WriteParam(ParamTab, id, location.WriteOptions{Replace: true}); err != nil {
		// The selection stands; only the address is stale.
		log.Warn(log.CatNav, "failed to write location", "view", id, "error", err)
		tracing.Fail(put, err)
	} else {
		c.refreshLocation()
		put.SetAttributes(attribute.String(tracing.AttrLocation, c.Location()))
	}
	put.End()

	if prev != id {
		log.Debug(log.CatNav, "view selected", "from", prev, "to", id, "source", source)
		c.broker.Publish(pubsub.UpdatedEvent, Change{From: prev, To: id, Source: source})
	}
	return true
}

// DispatchShortcut selects the view at a 1-indexed ordinal. Out-of-range
// ordinals are ignored. It reports whether a view was selected.
func (c *Controller) DispatchShortcut(ordinal int) bool {
	v, ok := c.reg.At(ordinal)
	if !ok {
		log.Debug(log.CatNav, "ignoring out-of-range shortcut", "ordinal", ordinal, "views", c.reg.Len())
		return false
	}
	return c.SelectFrom(v.ID, SourceShortcut)
}

// Next selects the view after the active one, wrapping around.
func (c *Controller) Next() {
	c.step(1)
}

// Prev selects the view before the active one, wrapping around.
func (c *Controller) Prev() {
	c.step(-1)
}

func (c *Controller) step(delta int) {
	n := c.reg.Len()
	i := c.reg.IndexOf(c.Active())
	next, _ := c.reg.At((i+delta+n)%n + 1)
	c.SelectFrom(next.ID, SourceCycle)
}

// Reconcile adopts the location's tab when it names a registered view that
// differs from the active one. The location is not written back. It reports
// whether the active view changed.
func (c *Controller) Reconcile() bool {
	param, ok := c.env.ReadParam(ParamTab)
	if !ok {
		return false
	}
	if !c.reg.Contains(param) {
		log.Debug(log.CatNav, "ignoring unknown view in location", "view", param)
		return false
	}

	c.mu.Lock()
	prev := c.active
	if prev == param {
		c.mu.Unlock()
		return false
	}
	c.active = param
	c.mu.Unlock()

	log.Debug(log.CatNav, "reconciled with location", "from", prev, "to", param)
	c.broker.Publish(pubsub.UpdatedEvent, Change{From: prev, To: param, Source: SourceLocation})
	return true
}

// Mount reconciles with the location and acquires the keyboard binding and
// the location-change subscription. The returned release is idempotent;
// Unmount calls it too. Mounting while mounted releases the previous scope.
func (c *Controller) Mount(ctx context.Context) func() {
	c.Unmount()

	_, span := c.tracer.Start(ctx, tracing.SpanNavMount)
	defer span.End()
	if c.Reconcile() {
		span.AddEvent(tracing.EventReconciled)
	}

	mctx, cancel := context.WithCancel(ctx)
	scope := &mountScope{ctx: mctx, cancel: cancel, keysBound: true}
	if n, ok := c.env.(location.Notifier); ok {
		scope.locEvents, scope.releaseLoc = n.Broker().SubscribeScoped()
	}

	c.mu.Lock()
	c.mount = scope
	c.mu.Unlock()
	c.refreshLocation()

	span.SetAttributes(attribute.String(tracing.AttrViewID, c.Active()))
	log.Debug(log.CatNav, "mounted", "view", c.Active(), "shortcuts", c.ShortcutsEnabled())
	return func() { c.release(scope) }
}

// Unmount releases whatever the current Mount acquired.
func (c *Controller) Unmount() {
	c.mu.RLock()
	scope := c.mount
	c.mu.RUnlock()
	if scope != nil {
		c.release(scope)
	}
}

func (c *Controller) release(scope *mountScope) {
	scope.once.Do(func() {
		scope.cancel()
		if scope.releaseLoc != nil {
			scope.releaseLoc()
		}
		c.mu.Lock()
		scope.keysBound = false
		if c.mount == scope {
			c.mount = nil
		}
		c.mu.Unlock()
		log.Debug(log.CatNav, "unmounted")
	})
}

// Mounted reports whether a mount scope is live.
func (c *Controller) Mounted() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mount != nil
}

// Listeners returns how many bindings the live mount holds.
func (c *Controller) Listeners() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.mount == nil {
		return 0
	}
	n := 0
	if c.mount.keysBound {
		n++
	}
	if c.mount.locEvents != nil {
		n++
	}
	return n
}

// ShortcutsEnabled reports the shortcut feature flag.
func (c *Controller) ShortcutsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.shortcuts
}

// HandleKey dispatches alt+digit while mounted and shortcuts are enabled.
// It reports true when a view was selected; the caller must then consume
// the key so it does not reach any focused input.
func (c *Controller) HandleKey(msg tea.KeyMsg) bool {
	c.mu.RLock()
	bound := c.mount != nil && c.mount.keysBound && c.shortcuts
	c.mu.RUnlock()
	if !bound {
		return false
	}
	ordinal, ok := keys.ShortcutOrdinal(msg)
	if !ok {
		return false
	}
	return c.DispatchShortcut(ordinal)
}

// ListenLocation returns a command that delivers the next location change
// as a pubsub.Event[location.Change]. It yields nil once unmounted.
func (c *Controller) ListenLocation() tea.Cmd {
	c.mu.RLock()
	scope := c.mount
	c.mu.RUnlock()
	if scope == nil || scope.locEvents == nil {
		return nil
	}
	return pubsub.ListenCmd(scope.ctx, scope.locEvents)
}

// ObserveLocation records a location change for display. After mount the
// controller is authoritative, so the active view is left alone.
func (c *Controller) ObserveLocation(ch location.Change) {
	c.mu.Lock()
	c.lastURL = ch.URL
	c.mu.Unlock()
	log.Debug(log.CatNav, "location changed", "url", ch.URL, "replace", ch.Replace)
}

func (c *Controller) refreshLocation() {
	cr, ok := c.env.(currentReader)
	if !ok {
		return
	}
	url := cr.Current()
	c.mu.Lock()
	c.lastURL = url
	c.mu.Unlock()
}

// Location returns the most recent location string seen by the controller.
func (c *Controller) Location() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastURL
}

// Close releases the mount scope and shuts down the change broker.
func (c *Controller) Close() {
	c.Unmount()
	c.broker.Close()
}
