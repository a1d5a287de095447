package location

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wardwatch/wardwatch/internal/pubsub"
)

func TestMemory_ReplaceKeepsHistoryLength(t *testing.T) {
	m := NewMemory("")
	defer m.Close()

	require.NoError(t, m.WriteParam("tab", "sentiment", WriteOptions{Replace: true}))
	require.NoError(t, m.WriteParam("tab", "competitive", WriteOptions{Replace: true}))

	require.Len(t, m.History(), 1)
	v, ok := m.ReadParam("tab")
	require.True(t, ok)
	require.Equal(t, "competitive", v)
}

func TestMemory_PushAppends(t *testing.T) {
	m := NewMemory("wardwatch://dashboard?tab=overview")
	defer m.Close()

	require.NoError(t, m.WriteParam("tab", "geographic", WriteOptions{}))
	m.Navigate("wardwatch://dashboard?tab=strategist")

	h := m.History()
	require.Len(t, h, 3)
	require.Equal(t, "wardwatch://dashboard?tab=overview", h[0].URL)
	require.Equal(t, "wardwatch://dashboard?tab=geographic", h[1].URL)
	require.Equal(t, "wardwatch://dashboard?tab=strategist", m.Current())
}

func TestMemory_ReadAbsentParam(t *testing.T) {
	m := NewMemory("")
	defer m.Close()

	_, ok := m.ReadParam("tab")
	require.False(t, ok)
	require.Equal(t, Default, m.Current())
}

func TestMemory_PublishesChanges(t *testing.T) {
	m := NewMemory("")
	defer m.Close()

	ch, release := m.Broker().SubscribeScoped()
	defer release()

	require.NoError(t, m.WriteParam("tab", "overview", WriteOptions{Replace: true}))

	select {
	case ev := <-ch:
		require.Equal(t, pubsub.UpdatedEvent, ev.Type)
		require.Equal(t, "wardwatch://dashboard?tab=overview", ev.Payload.URL)
		require.True(t, ev.Payload.Replace)
	case <-time.After(time.Second):
		t.Fatal("expected change event")
	}
}

func TestMemory_HistoryIsACopy(t *testing.T) {
	m := NewMemory("")
	defer m.Close()

	h := m.History()
	h[0].URL = "mutated"
	require.Equal(t, Default, m.Current())
}
