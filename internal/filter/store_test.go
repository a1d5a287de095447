package filter

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"pgregory.net/rapid"

	"github.com/wardwatch/wardwatch/internal/pubsub"
	"github.com/wardwatch/wardwatch/internal/tracing"
)

func TestStore_SetFilterThenAllIsEmpty(t *testing.T) {
	s := NewStore()
	defer s.Close()

	s.SetFilter("city", "Hyderabad")
	require.Equal(t, "Hyderabad", s.Snapshot().Value("city"))

	s.SetFilter("city", "All")
	require.Empty(t, cmp.Diff(State{}, s.Snapshot()))
	require.True(t, s.Snapshot().Empty())
}

func TestStore_LastWriteWins(t *testing.T) {
	s := NewStore()
	defer s.Close()

	s.SetFilter("ward", "12")
	s.SetFilter("ward", "14")
	require.Equal(t, "14", s.Snapshot().Value("ward"))
}

func TestStore_UnknownKeysAccepted(t *testing.T) {
	s := NewStore()
	defer s.Close()

	s.SetFilter("language", "Telugu")
	require.Equal(t, "Telugu", s.Snapshot().Value("language"))
}

func TestStore_EmptyKeyIgnored(t *testing.T) {
	s := NewStore()
	defer s.Close()

	s.SetFilter("  ", "x")
	require.True(t, s.Snapshot().Empty())
}

func TestStore_SearchTermIndependentOfFilters(t *testing.T) {
	s := NewStore()
	defer s.Close()

	s.SetFilter("city", "Pune")
	s.SetSearchTerm("  potholes ")
	snap := s.Snapshot()
	require.Equal(t, "potholes", snap.SearchTerm)
	require.Equal(t, "Pune", snap.Value("city"))

	s.SetSearchTerm("")
	require.Equal(t, "Pune", s.Snapshot().Value("city"))
	require.Empty(t, s.Snapshot().SearchTerm)
}

func TestStore_MergeAndReset(t *testing.T) {
	s := NewStore(WithInitial(NewState(map[string]string{"party": "Blue"}, "")))
	defer s.Close()

	s.Merge(map[string]string{"city": "Pune", "ward": "7", "party": "All"})
	snap := s.Snapshot()
	require.Equal(t, []string{"city", "ward"}, snap.Keys())

	s.Reset()
	require.True(t, s.Snapshot().Empty())
}

func TestStore_SnapshotIsolation(t *testing.T) {
	s := NewStore()
	defer s.Close()

	s.SetFilter("city", "Pune")
	snap := s.Snapshot()
	s.SetFilter("city", "Delhi")

	require.Equal(t, "Pune", snap.Value("city"))
}

func TestStore_PublishesOnlyEffectiveChanges(t *testing.T) {
	s := NewStore()
	defer s.Close()

	ch, release := s.Broker().SubscribeScoped()
	defer release()

	s.SetFilter("city", "Pune")
	s.SetFilter("city", "Pune")
	s.SetFilter("ward", "All")

	select {
	case ev := <-ch:
		require.Equal(t, pubsub.UpdatedEvent, ev.Type)
		require.Equal(t, "Pune", ev.Payload.Value("city"))
	case <-time.After(time.Second):
		t.Fatal("expected a change event")
	}

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %v", ev.Payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStore_TracesMutations(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	s := NewStore(WithTracer(tp.Tracer("test")))
	defer s.Close()

	s.SetFilter("city", "Pune")
	s.SetSearchTerm("roads")
	s.Merge(map[string]string{"ward": "12", "party": "Blue"})
	s.Reset()

	ended := sr.Ended()
	require.Len(t, ended, 4)
	for _, span := range ended {
		require.Equal(t, tracing.SpanFilterSet, span.Name())
	}
	require.Contains(t, ended[2].Attributes(), attribute.Int(tracing.AttrFilterCount, 2))
	require.Contains(t, ended[3].Attributes(), attribute.Int(tracing.AttrFilterCount, 0))
}

// The store behaves like a plain map in which "All" deletes the key.
func TestStore_MatchesMapModel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SampledFrom([]string{"city", "ward", "party", "emotion"})
		values := rapid.SampledFrom([]string{"All", "all", "", "Pune", "Delhi", "12", "Blue"})

		s := NewStore()
		defer s.Close()
		model := map[string]string{}

		ops := rapid.IntRange(0, 30).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			k := keys.Draw(t, "key")
			v := values.Draw(t, "value")
			s.SetFilter(k, v)
			if IsAll(v) {
				delete(model, k)
			} else {
				model[k] = v
			}
		}

		snap := s.Snapshot()
		if !snap.Equal(NewState(model, "")) {
			t.Fatalf("store %v != model %v", snap, model)
		}
		for _, k := range []string{"city", "ward", "party", "emotion"} {
			want, ok := model[k]
			if !ok {
				want = All
			}
			if got := snap.Value(k); got != want {
				t.Fatalf("Value(%q) = %q, want %q", k, got, want)
			}
		}
	})
}
