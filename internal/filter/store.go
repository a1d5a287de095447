package filter

import (
	"context"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/wardwatch/wardwatch/internal/log"
	"github.com/wardwatch/wardwatch/internal/pubsub"
	"github.com/wardwatch/wardwatch/internal/tracing"
)

// Store owns the current filter State. All mutations are last-write-wins and
// publish an UpdatedEvent carrying the new snapshot when the state changed.
type Store struct {
	mu     sync.RWMutex
	state  State
	broker *pubsub.Broker[State]
	tracer trace.Tracer
}

// Option configures a Store.
type Option func(*Store)

// WithTracer records a span per mutation.
func WithTracer(t trace.Tracer) Option {
	return func(s *Store) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithInitial seeds the store, e.g. from config defaults.
func WithInitial(st State) Option {
	return func(s *Store) { s.state = st }
}

// NewStore creates an unrestricted store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		broker: pubsub.NewBroker[State](),
		tracer: noop.NewTracerProvider().Tracer("noop"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetFilter sets key to value. All, or a blank value, clears the key.
// Unknown keys are accepted.
func (s *Store) SetFilter(key, value string) {
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	if key == "" {
		log.Debug(log.CatFilter, "ignoring filter with empty key", "value", value)
		return
	}

	_, span := s.tracer.Start(context.Background(), tracing.SpanFilterSet,
		trace.WithAttributes(
			attribute.String(tracing.AttrFilterKey, key),
			attribute.String(tracing.AttrFilterValue, value),
		))
	defer span.End()

	s.apply(func(st State) State { return st.with(key, value) }, "key", key, "value", value)
}

// Merge applies several selections as one change.
func (s *Store) Merge(values map[string]string) {
	if len(values) == 0 {
		return
	}

	_, span := s.tracer.Start(context.Background(), tracing.SpanFilterSet,
		trace.WithAttributes(attribute.Int(tracing.AttrFilterCount, len(values))))
	defer span.End()

	s.apply(func(st State) State {
		for k, v := range values {
			k = strings.TrimSpace(k)
			if k == "" {
				continue
			}
			st = st.with(k, strings.TrimSpace(v))
		}
		return st
	}, "merged", len(values))
}

// SetSearchTerm replaces the free-text search term.
func (s *Store) SetSearchTerm(term string) {
	term = strings.TrimSpace(term)

	_, span := s.tracer.Start(context.Background(), tracing.SpanFilterSet,
		trace.WithAttributes(attribute.String(tracing.AttrSearchTerm, term)))
	defer span.End()

	s.apply(func(st State) State {
		next := st.clone()
		next.SearchTerm = term
		return next
	}, "search", term)
}

// Reset clears every selection and the search term.
func (s *Store) Reset() {
	_, span := s.tracer.Start(context.Background(), tracing.SpanFilterSet,
		trace.WithAttributes(attribute.Int(tracing.AttrFilterCount, 0)))
	defer span.End()

	s.apply(func(State) State { return State{} }, "reset", true)
}

// Snapshot returns the current state. The result shares nothing with the store.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Broker publishes a snapshot after each effective change.
func (s *Store) Broker() *pubsub.Broker[State] {
	return s.broker
}

// Close shuts down the change broker.
func (s *Store) Close() {
	s.broker.Close()
}

func (s *Store) apply(fn func(State) State, fields ...any) {
	s.mu.Lock()
	prev := s.state
	next := fn(prev)
	changed := !next.Equal(prev)
	if changed {
		s.state = next
	}
	s.mu.Unlock()

	if !changed {
		log.Debug(log.CatFilter, "filter unchanged", fields...)
		return
	}
	log.Debug(log.CatFilter, "filter changed", append(fields, "state", next.String())...)
	s.broker.Publish(pubsub.UpdatedEvent, next.clone())
}
