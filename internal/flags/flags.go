// Package flags provides feature flags read from the `flags:` config section.
// Flags are read-only after initialization. Known flags carry a default;
// unknown flags are always off.
package flags

import (
	"maps"
	"slices"

	"github.com/wardwatch/wardwatch/internal/log"
)

const (
	// FlagKeyboardShortcuts enables alt+digit view shortcuts.
	FlagKeyboardShortcuts = "keyboard-shortcuts"

	// FlagMouseTabs enables selecting views by clicking the tab bar.
	FlagMouseTabs = "mouse-tabs"

	// FlagFaultToast shows a toast when a panel faults.
	FlagFaultToast = "fault-toast"
)

// Defaults returns the default value of every known flag.
func Defaults() map[string]bool {
	return map[string]bool{
		FlagKeyboardShortcuts: true,
		FlagMouseTabs:         true,
		FlagFaultToast:        true,
	}
}

// Registry holds feature flag state.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from the defaults overlaid with overrides.
func New(overrides map[string]bool) *Registry {
	merged := Defaults()
	maps.Copy(merged, overrides)
	r := &Registry{flags: merged}
	log.Debug(log.CatConfig, "feature flags initialized", "count", len(merged), "flags", r.All())
	return r
}

// Enabled reports whether the named flag is on.
// Unknown flags and a nil registry report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil || r.flags == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "unknown flag accessed", "flag", name)
		return false
	}
	return value
}

// All returns a copy of every flag.
func (r *Registry) All() map[string]bool {
	if r == nil || r.flags == nil {
		return make(map[string]bool)
	}
	return maps.Clone(r.flags)
}

// Names returns the flag names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.flags))
}
