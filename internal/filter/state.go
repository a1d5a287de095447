// Package filter holds the dashboard's shared filter selections and search
// term. It knows nothing about views: panels read snapshots, and only the
// Store mutates.
package filter

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// All is the unrestricted value for any filter key. A key set to All is
// indistinguishable from a key that was never set.
const All = "All"

// State is an immutable snapshot of filter selections.
type State struct {
	values     map[string]string
	SearchTerm string
}

// NewState builds a normalized State. Keys mapped to All or blank are dropped.
func NewState(values map[string]string, search string) State {
	s := State{SearchTerm: strings.TrimSpace(search)}
	for k, v := range values {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" || IsAll(v) {
			continue
		}
		if s.values == nil {
			s.values = make(map[string]string, len(values))
		}
		s.values[k] = v
	}
	return s
}

// IsAll reports whether v is the unrestricted value (blank counts too).
func IsAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, All)
}

// Value returns the selection for key, or All when unrestricted.
func (s State) Value(key string) string {
	if v, ok := s.values[key]; ok {
		return v
	}
	return All
}

// Restricted reports whether key narrows the dataset.
func (s State) Restricted(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns the restricted keys in sorted order.
func (s State) Keys() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// Values returns a copy of the restricted key/value pairs.
func (s State) Values() map[string]string {
	return maps.Clone(s.values)
}

// Empty reports whether nothing is restricted and there is no search term.
func (s State) Empty() bool {
	return len(s.values) == 0 && s.SearchTerm == ""
}

// Equal compares two states by meaning.
func (s State) Equal(o State) bool {
	return s.SearchTerm == o.SearchTerm && maps.Equal(s.values, o.values)
}

// CacheKey is a deterministic encoding of s, stable across map ordering.
func (s State) CacheKey() string {
	var b strings.Builder
	for _, k := range s.Keys() {
		b.WriteString(strconv.Quote(k))
		b.WriteByte('=')
		b.WriteString(strconv.Quote(s.values[k]))
		b.WriteByte(';')
	}
	b.WriteString("q=")
	b.WriteString(strconv.Quote(strings.ToLower(s.SearchTerm)))
	return b.String()
}

// String renders s for logs and the status bar.
func (s State) String() string {
	if s.Empty() {
		return "no filters"
	}
	parts := make([]string, 0, len(s.values)+1)
	for _, k := range s.Keys() {
		parts = append(parts, k+"="+s.values[k])
	}
	if s.SearchTerm != "" {
		parts = append(parts, "search="+strconv.Quote(s.SearchTerm))
	}
	return strings.Join(parts, " ")
}

func (s State) clone() State {
	return State{values: maps.Clone(s.values), SearchTerm: s.SearchTerm}
}

func (s State) with(key, value string) State {
	next := s.clone()
	if IsAll(value) {
		delete(next.values, key)
	} else {
		if next.values == nil {
			next.values = make(map[string]string, 1)
		}
		next.values[key] = value
	}
	if len(next.values) == 0 {
		next.values = nil
	}
	return next
}
