// Package guard isolates rendering faults. A Guard wraps one panel; when the
// panel's render panics or returns an error the guard trips, renders a
// fallback instead, and stays tripped until it is replaced.
package guard

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/wardwatch/wardwatch/internal/log"
	"github.com/wardwatch/wardwatch/internal/tracing"
)

// ErrPanicked wraps a recovered panic value.
var ErrPanicked = errors.New("render panicked")

// Fault describes why a guard tripped.
type Fault struct {
	Panel string
	Err   error
	Stack string
	At    time.Time
}

func (f Fault) Error() string {
	return fmt.Sprintf("%s: %v", f.Panel, f.Err)
}

// Reporter is notified once per trip.
type Reporter func(Fault)

// Fallback renders the content shown while tripped.
type Fallback func(Fault) string

// DefaultFallback is a one-line notice naming the panel.
func DefaultFallback(f Fault) string {
	return fmt.Sprintf("Something went wrong rendering %s.", f.Panel)
}

// Guard protects a single panel.
type Guard struct {
	name     string
	reporter Reporter
	fallback Fallback
	tracer   trace.Tracer
	now      func() time.Time

	mu    sync.Mutex
	fault *Fault
}

// Option configures a Guard.
type Option func(*Guard)

// WithReporter sets the trip callback.
func WithReporter(r Reporter) Option {
	return func(g *Guard) { g.reporter = r }
}

// WithFallback replaces DefaultFallback.
func WithFallback(f Fallback) Option {
	return func(g *Guard) {
		if f != nil {
			g.fallback = f
		}
	}
}

// WithTracer records a span for each trip.
func WithTracer(t trace.Tracer) Option {
	return func(g *Guard) {
		if t != nil {
			g.tracer = t
		}
	}
}

// WithClock overrides time.Now for fault timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) { g.now = now }
}

// New creates an untripped guard for the named panel.
func New(name string, opts ...Option) *Guard {
	g := &Guard{
		name:     name,
		fallback: DefaultFallback,
		tracer:   noop.NewTracerProvider().Tracer("noop"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the panel name.
func (g *Guard) Name() string { return g.name }

// Render runs fn unless the guard is tripped. A panic or error from fn trips
// the guard and the fallback is returned from then on; fn is never called
// again.
func (g *Guard) Render(fn func() (string, error)) string {
	if f, tripped := g.Fault(); tripped {
		return g.fallback(f)
	}

	out, stack, err := g.call(fn)
	if err == nil {
		return out
	}
	return g.fallback(g.trip(err, stack))
}

func (g *Guard) call(fn func() (string, error)) (out, stack string, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("%w: %w", ErrPanicked, e)
			} else {
				err = fmt.Errorf("%w: %v", ErrPanicked, r)
			}
			stack = string(debug.Stack())
			out = ""
		}
	}()
	out, err = fn()
	return out, "", err
}

func (g *Guard) trip(err error, stack string) Fault {
	g.mu.Lock()
	if g.fault != nil {
		f := *g.fault
		g.mu.Unlock()
		return f
	}
	f := Fault{Panel: g.name, Err: err, Stack: stack, At: g.now()}
	g.fault = &f
	g.mu.Unlock()

	log.Error(log.CatGuard, "panel render failed", "panel", g.name, "error", err.Error(), "stack", stack)
	_, span := g.tracer.Start(context.Background(), tracing.SpanGuardFault)
	span.SetAttributes(attribute.String(tracing.AttrPanel, g.name))
	tracing.Fail(span, err)
	span.End()

	if g.reporter != nil {
		g.reporter(f)
	}
	return f
}

// Tripped reports whether the guard has caught a fault.
func (g *Guard) Tripped() bool {
	_, ok := g.Fault()
	return ok
}

// Fault returns the recorded fault, if any.
func (g *Guard) Fault() (Fault, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fault == nil {
		return Fault{}, false
	}
	return *g.fault, true
}
