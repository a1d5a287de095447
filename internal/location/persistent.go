package location

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wardwatch/wardwatch/internal/log"
	"github.com/wardwatch/wardwatch/internal/pubsub"
)

// Repository persists location history.
type Repository interface {
	Current(ctx context.Context) (Entry, error)
	Push(ctx context.Context, url string) (Entry, error)
	Replace(ctx context.Context, url string) (Entry, error)
	History(ctx context.Context, limit int) ([]Entry, error)
	Prune(ctx context.Context, keep int) error
}

// Persistent is an Environment backed by a Repository, so the last
// location survives restarts. Reads are served from a cached copy of the
// current entry.
type Persistent struct {
	repo   Repository
	mu     sync.RWMutex
	cur    string
	broker *pubsub.Broker[Change]
}

var (
	_ Environment = (*Persistent)(nil)
	_ Notifier    = (*Persistent)(nil)
)

// NewPersistent loads the current entry, seeding the history with Default
// when it is empty.
func NewPersistent(ctx context.Context, repo Repository) (*Persistent, error) {
	e, err := repo.Current(ctx)
	if errors.Is(err, ErrNoEntries) {
		e, err = repo.Push(ctx, Default)
	}
	if err != nil {
		return nil, fmt.Errorf("loading location: %w", err)
	}
	return &Persistent{
		repo:   repo,
		cur:    Normalize(e.URL),
		broker: pubsub.NewBroker[Change](),
	}, nil
}

// ReadParam reads key from the current location.
func (p *Persistent) ReadParam(key string) (string, bool) {
	return Param(p.Current(), key)
}

// WriteParam sets key on the current location and persists it.
func (p *Persistent) WriteParam(key, value string, opts WriteOptions) error {
	p.mu.Lock()
	next := WithParam(p.cur, key, value)
	if err := p.write(next, opts.Replace); err != nil {
		p.mu.Unlock()
		return err
	}
	p.mu.Unlock()

	log.Debug(log.CatLocation, "location persisted", "url", next, "replace", opts.Replace)
	p.broker.Publish(pubsub.UpdatedEvent, Change{URL: next, Replace: opts.Replace})
	return nil
}

// Navigate pushes raw as a new entry.
func (p *Persistent) Navigate(raw string) error {
	raw = Normalize(raw)
	p.mu.Lock()
	if err := p.write(raw, false); err != nil {
		p.mu.Unlock()
		return err
	}
	p.mu.Unlock()
	p.broker.Publish(pubsub.UpdatedEvent, Change{URL: raw})
	return nil
}

// write must be called with p.mu held.
func (p *Persistent) write(raw string, replace bool) error {
	ctx := context.Background()
	var err error
	if replace {
		_, err = p.repo.Replace(ctx, raw)
	} else {
		_, err = p.repo.Push(ctx, raw)
	}
	if err != nil {
		return fmt.Errorf("writing location: %w", err)
	}
	p.cur = raw
	return nil
}

// Current returns the current location.
func (p *Persistent) Current() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cur
}

// History returns up to limit entries, newest first.
func (p *Persistent) History(ctx context.Context, limit int) ([]Entry, error) {
	return p.repo.History(ctx, limit)
}

// Broker publishes a Change after every successful write.
func (p *Persistent) Broker() *pubsub.Broker[Change] {
	return p.broker
}

// Close shuts down the change broker. The repository is owned by the caller.
func (p *Persistent) Close() error {
	p.broker.Close()
	return nil
}
