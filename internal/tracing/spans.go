package tracing

import (
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanNavSelect   = "nav.select"
	SpanNavMount    = "nav.mount"
	SpanFilterSet   = "filter.set"
	SpanDataReload  = "data.reload"
	SpanDataFilter  = "data.filter"
	SpanGuardFault  = "guard.fault"
	SpanLocationPut = "location.write"
)

// Attribute keys.
const (
	AttrViewID       = "view.id"
	AttrViewPrevious = "view.previous"
	AttrNavSource    = "nav.source"
	AttrFilterKey    = "filter.key"
	AttrFilterValue  = "filter.value"
	AttrSearchTerm   = "filter.search"
	AttrFilterCount  = "filter.count"
	AttrRecordCount  = "data.records"
	AttrCacheHit     = "cache.hit"
	AttrPanel        = "panel.name"
	AttrLocation     = "location.url"
	AttrReplace      = "location.replace"
)

// Events.
const (
	EventSelectRejected = "select.rejected"
	EventReconciled     = "location.reconciled"
)

// Fail marks span as errored.
func Fail(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
