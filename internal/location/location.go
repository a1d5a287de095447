// Package location models the dashboard's address: a URL whose query
// parameters (notably `tab`) deep-link into a view. It provides the
// Environment used by navigation and a history with push/replace semantics.
package location

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/wardwatch/wardwatch/internal/pubsub"
)

// Default is the address of a dashboard with no parameters.
const Default = "wardwatch://dashboard"

// ErrNoEntries is returned by a Repository that holds no history yet.
var ErrNoEntries = errors.New("location history is empty")

// WriteOptions controls how a parameter write affects history.
type WriteOptions struct {
	// Replace rewrites the current entry instead of appending one.
	Replace bool
}

// Environment reads and writes address parameters.
type Environment interface {
	ReadParam(key string) (string, bool)
	WriteParam(key, value string, opts WriteOptions) error
}

// Change is published whenever the current location changes.
type Change struct {
	URL     string
	Replace bool
}

// Notifier is implemented by environments that publish Change events.
type Notifier interface {
	Broker() *pubsub.Broker[Change]
}

// Entry is one history entry.
type Entry struct {
	ID        int64
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Param extracts a query parameter from raw. Malformed locations have no
// parameters.
func Param(raw, key string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return "", false
	}
	if !values.Has(key) {
		return "", false
	}
	return values.Get(key), true
}

// WithParam returns raw with key set to value, keeping other parameters.
// A malformed raw is replaced by Default.
func WithParam(raw, key, value string) string {
	u, err := url.Parse(raw)
	if err != nil || strings.TrimSpace(raw) == "" {
		u, _ = url.Parse(Default)
	}
	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		values = url.Values{}
	}
	values.Set(key, value)
	u.RawQuery = values.Encode()
	return u.String()
}

// Normalize returns raw if it parses, otherwise Default.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Default
	}
	if _, err := url.Parse(raw); err != nil {
		return Default
	}
	return raw
}
