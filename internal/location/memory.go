package location

import (
	"slices"
	"sync"
	"time"

	"github.com/wardwatch/wardwatch/internal/log"
	"github.com/wardwatch/wardwatch/internal/pubsub"
)

// Memory is an in-process Environment. History lives only as long as the
// value does.
type Memory struct {
	mu      sync.RWMutex
	history []Entry
	nextID  int64
	broker  *pubsub.Broker[Change]
	now     func() time.Time
}

var (
	_ Environment = (*Memory)(nil)
	_ Notifier    = (*Memory)(nil)
)

// NewMemory starts a history at raw (Default when empty).
func NewMemory(raw string) *Memory {
	m := &Memory{
		broker: pubsub.NewBroker[Change](),
		now:    time.Now,
	}
	m.append(Normalize(raw))
	return m
}

func (m *Memory) append(raw string) Entry {
	m.nextID++
	now := m.now()
	e := Entry{ID: m.nextID, URL: raw, CreatedAt: now, UpdatedAt: now}
	m.history = append(m.history, e)
	return e
}

// ReadParam reads key from the current location.
func (m *Memory) ReadParam(key string) (string, bool) {
	return Param(m.Current(), key)
}

// WriteParam sets key on the current location.
func (m *Memory) WriteParam(key, value string, opts WriteOptions) error {
	m.mu.Lock()
	next := WithParam(m.history[len(m.history)-1].URL, key, value)
	m.set(next, opts.Replace)
	m.mu.Unlock()

	log.Debug(log.CatLocation, "location written", "url", next, "replace", opts.Replace)
	m.broker.Publish(pubsub.UpdatedEvent, Change{URL: next, Replace: opts.Replace})
	return nil
}

// Navigate moves to raw as an external navigation would (a push).
func (m *Memory) Navigate(raw string) {
	raw = Normalize(raw)
	m.mu.Lock()
	m.set(raw, false)
	m.mu.Unlock()
	m.broker.Publish(pubsub.UpdatedEvent, Change{URL: raw})
}

func (m *Memory) set(raw string, replace bool) {
	if replace {
		last := &m.history[len(m.history)-1]
		last.URL = raw
		last.UpdatedAt = m.now()
		return
	}
	m.append(raw)
}

// Current returns the current location.
func (m *Memory) Current() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.history[len(m.history)-1].URL
}

// History returns entries oldest first.
func (m *Memory) History() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.history)
}

// Broker publishes a Change after every write.
func (m *Memory) Broker() *pubsub.Broker[Change] {
	return m.broker
}

// Close shuts down the change broker.
func (m *Memory) Close() error {
	m.broker.Close()
	return nil
}
