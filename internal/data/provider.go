package data

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/wardwatch/wardwatch/internal/cachemanager"
	"github.com/wardwatch/wardwatch/internal/filter"
	"github.com/wardwatch/wardwatch/internal/log"
	"github.com/wardwatch/wardwatch/internal/pubsub"
	"github.com/wardwatch/wardwatch/internal/tracing"
)

const defaultCacheTTL = 5 * time.Minute

// Snapshot is one consistent view of the dataset: the full record set and
// the subset matching State, computed from the same load.
type Snapshot struct {
	All      []Record
	Filtered []Record
	State    filter.State
	LoadedAt time.Time
	Source   string
}

// Reload is published after every successful Load.
type Reload struct {
	Records int
	Source  string
}

type filterInput struct {
	records []Record
	state   filter.State
}

// Provider holds the loaded dataset and memoizes filtered subsets.
type Provider struct {
	source Source
	ttl    time.Duration
	tracer trace.Tracer
	broker *pubsub.Broker[Reload]
	cache  *cachemanager.InMemoryCacheManager[string, []Record]
	reader *cachemanager.ReadThroughCache[string, []Record, filterInput]

	mu         sync.RWMutex
	records    []Record
	generation uint64
	loadedAt   time.Time
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithCacheTTL sets how long a filtered subset is kept. Zero or negative
// disables caching.
func WithCacheTTL(ttl time.Duration) ProviderOption {
	return func(p *Provider) { p.ttl = ttl }
}

// WithProviderTracer records reload and filter spans.
func WithProviderTracer(t trace.Tracer) ProviderOption {
	return func(p *Provider) {
		if t != nil {
			p.tracer = t
		}
	}
}

// NewProvider creates a provider. Call Load before reading.
func NewProvider(src Source, opts ...ProviderOption) *Provider {
	p := &Provider{
		source: src,
		ttl:    defaultCacheTTL,
		tracer: noop.NewTracerProvider().Tracer("noop"),
		broker: pubsub.NewBroker[Reload](),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.cache = cachemanager.NewInMemoryCacheManager[string, []Record]("filtered-records", p.ttl, cachemanager.DefaultCleanupInterval)
	p.reader = cachemanager.NewReadThroughCache[string, []Record, filterInput](
		p.cache,
		func(_ context.Context, in filterInput) ([]Record, error) {
			return Filter(in.records, in.state), nil
		},
		p.ttl <= 0,
	)
	return p
}

// Load (re)reads the source. On failure the previous dataset is kept.
func (p *Provider) Load(ctx context.Context) error {
	ctx, span := p.tracer.Start(ctx, tracing.SpanDataReload)
	defer span.End()

	records, err := p.source.Load(ctx)
	if err != nil {
		tracing.Fail(span, err)
		log.ErrorErr(log.CatData, "dataset load failed", err, "source", p.source.Name())
		return fmt.Errorf("loading dataset: %w", err)
	}

	p.mu.Lock()
	p.records = records
	p.generation++
	p.loadedAt = time.Now()
	p.mu.Unlock()

	if err := p.reader.Invalidate(ctx); err != nil {
		log.ErrorErr(log.CatCache, "cache flush failed", err)
	}
	span.SetAttributes(attribute.Int(tracing.AttrRecordCount, len(records)))
	log.Info(log.CatData, "dataset loaded", "source", p.source.Name(), "records", len(records))
	p.broker.Publish(pubsub.ReloadedEvent, Reload{Records: len(records), Source: p.source.Name()})
	return nil
}

// All returns the full dataset. Callers must not modify the records.
func (p *Provider) All() []Record {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.records
}

// Len returns the number of loaded records.
func (p *Provider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.records)
}

// Snapshot returns the full dataset with the subset matching st.
func (p *Provider) Snapshot(ctx context.Context, st filter.State) (Snapshot, error) {
	p.mu.RLock()
	records, gen, loadedAt := p.records, p.generation, p.loadedAt
	p.mu.RUnlock()

	key := fmt.Sprintf("%d|%s", gen, st.CacheKey())
	before := p.cache.Stats().Hits

	_, span := p.tracer.Start(ctx, tracing.SpanDataFilter)
	defer span.End()
	filtered, err := p.reader.GetWithRefresh(ctx, key, filterInput{records: records, state: st}, p.ttl)
	if err != nil {
		tracing.Fail(span, err)
		return Snapshot{}, fmt.Errorf("filtering dataset: %w", err)
	}
	span.SetAttributes(
		attribute.Int(tracing.AttrRecordCount, len(filtered)),
		attribute.Bool(tracing.AttrCacheHit, p.cache.Stats().Hits > before),
	)

	return Snapshot{
		All:      records,
		Filtered: filtered,
		State:    st,
		LoadedAt: loadedAt,
		Source:   p.source.Name(),
	}, nil
}

// CacheStats reports filtered-subset cache counters.
func (p *Provider) CacheStats() cachemanager.Stats {
	return p.cache.Stats()
}

// Broker publishes a Reload after every successful Load.
func (p *Provider) Broker() *pubsub.Broker[Reload] {
	return p.broker
}

// Close shuts down the reload broker.
func (p *Provider) Close() {
	p.broker.Close()
}
