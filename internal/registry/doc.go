// Package registry holds the static, ordered catalog of dashboard views.
//
// The registry is built once at process start, either from Default or from
// the `views:` section of the config file, and is never mutated afterwards.
// Its order is authoritative: it drives the tab bar layout and the
// positional keyboard shortcuts, where entry N (1-indexed) answers to alt+N.
//
// # Core Types
//
// View describes one dashboard view: a unique short ID that also appears in
// the location parameter, a display Label, a Description used by the
// `views` command and the help overlay, an ordinal Priority hint and an
// optional BadgeCount shown next to the tab label.
//
// Registry is the immutable collection. Lookups never fail loudly: Get and
// At report absence with a boolean.
package registry
