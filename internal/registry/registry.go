package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Registry errors
var (
	ErrEmptyID      = errors.New("view id cannot be empty")
	ErrEmptyLabel   = errors.New("view label cannot be empty")
	ErrDuplicateID  = errors.New("duplicate view id")
	ErrInvalidID    = errors.New("view id must not contain whitespace, '&', '=' or '#'")
	ErrNoViews      = errors.New("registry needs at least one view")
	ErrTooManyViews = errors.New("registry holds at most 9 views")
)

// MaxViews bounds the registry to the digit shortcuts alt+1 through alt+9.
const MaxViews = 9

// Well-known view ids.
const (
	Overview    = "overview"
	Sentiment   = "sentiment"
	Competitive = "competitive"
	Geographic  = "geographic"
	Strategist  = "strategist"
)

// View describes one dashboard view.
type View struct {
	ID          string
	Label       string
	Description string
	Priority    int
	BadgeCount  *int
}

// Badge returns the badge count and whether one is set.
func (v View) Badge() (int, bool) {
	if v.BadgeCount == nil {
		return 0, false
	}
	return *v.BadgeCount, true
}

func (v View) clone() View {
	if v.BadgeCount != nil {
		n := *v.BadgeCount
		v.BadgeCount = &n
	}
	return v
}

// Registry is an immutable, ordered set of views.
type Registry struct {
	views []View
	index map[string]int
}

// New validates views and builds a registry in the given order.
func New(views ...View) (*Registry, error) {
	if len(views) == 0 {
		return nil, ErrNoViews
	}
	if len(views) > MaxViews {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyViews, len(views))
	}

	r := &Registry{
		views: make([]View, 0, len(views)),
		index: make(map[string]int, len(views)),
	}
	for i, v := range views {
		if v.ID == "" {
			return nil, fmt.Errorf("view %d: %w", i+1, ErrEmptyID)
		}
		if strings.ContainsAny(v.ID, " \t\n&=#") {
			return nil, fmt.Errorf("view %q: %w", v.ID, ErrInvalidID)
		}
		if strings.TrimSpace(v.Label) == "" {
			return nil, fmt.Errorf("view %q: %w", v.ID, ErrEmptyLabel)
		}
		if _, dup := r.index[v.ID]; dup {
			return nil, fmt.Errorf("view %q: %w", v.ID, ErrDuplicateID)
		}
		r.index[v.ID] = len(r.views)
		r.views = append(r.views, v.clone())
	}
	return r, nil
}

// MustNew is New for statically known view sets. It panics on error.
func MustNew(views ...View) *Registry {
	r, err := New(views...)
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultViews returns the built-in view catalog.
func DefaultViews() []View {
	return []View{
		{ID: Overview, Label: "Overview", Description: "Headline counts and the latest posts", Priority: 1},
		{ID: Sentiment, Label: "Sentiment", Description: "Emotion mix and sentiment score distribution", Priority: 2},
		{ID: Competitive, Label: "Competitive", Description: "Share of voice and sentiment by party", Priority: 3},
		{ID: Geographic, Label: "Geographic", Description: "Activity and mood by city and ward", Priority: 4},
		{ID: Strategist, Label: "Strategist", Description: "Generated briefing for the current selection", Priority: 5},
	}
}

// Default returns a registry of DefaultViews.
func Default() *Registry {
	return MustNew(DefaultViews()...)
}

// List returns copies of all views in registry order.
func (r *Registry) List() []View {
	out := make([]View, len(r.views))
	for i, v := range r.views {
		out[i] = v.clone()
	}
	return out
}

// IDs returns view ids in registry order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.views))
	for i, v := range r.views {
		ids[i] = v.ID
	}
	return ids
}

// Get looks up a view by id.
func (r *Registry) Get(id string) (View, bool) {
	i, ok := r.index[id]
	if !ok {
		return View{}, false
	}
	return r.views[i].clone(), true
}

// Contains reports whether id is registered.
func (r *Registry) Contains(id string) bool {
	_, ok := r.index[id]
	return ok
}

// IndexOf returns the 0-based position of id, or -1.
func (r *Registry) IndexOf(id string) int {
	if i, ok := r.index[id]; ok {
		return i
	}
	return -1
}

// At returns the view at a 1-indexed ordinal.
func (r *Registry) At(ordinal int) (View, bool) {
	if ordinal < 1 || ordinal > len(r.views) {
		return View{}, false
	}
	return r.views[ordinal-1].clone(), true
}

// First returns the first view, the fallback for invalid selections.
func (r *Registry) First() View {
	return r.views[0].clone()
}

// Len returns the number of views.
func (r *Registry) Len() int {
	return len(r.views)
}

// ByPriority returns views sorted by Priority, ties kept in registry order.
// Display only; registry order stays authoritative for shortcuts.
func (r *Registry) ByPriority() []View {
	out := r.List()
	slices.SortStableFunc(out, func(a, b View) int { return a.Priority - b.Priority })
	return out
}
