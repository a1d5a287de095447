package presentation

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wardwatch/wardwatch/internal/location"
	"github.com/wardwatch/wardwatch/internal/registry"
)

func TestFromRegistry(t *testing.T) {
	badge := 3
	reg, err := registry.New(
		registry.View{ID: "overview", Label: "Overview", Priority: 2},
		registry.View{ID: "alerts", Label: "Alerts", Description: "Spikes", Priority: 1, BadgeCount: &badge},
	)
	require.NoError(t, err)

	dtos := FromRegistry(reg)
	require.Len(t, dtos, 2)
	require.Equal(t, 1, dtos[0].Ordinal)
	require.Equal(t, "alt+1", dtos[0].Shortcut)
	require.Nil(t, dtos[0].Badge)
	require.Equal(t, "alt+2", dtos[1].Shortcut)
	require.Equal(t, 3, *dtos[1].Badge)
}

func TestFromEntries_ExtractsTab(t *testing.T) {
	dtos := FromEntries([]location.Entry{
		{ID: 2, URL: "wardwatch://dashboard?tab=sentiment"},
		{ID: 1, URL: location.Default},
	})
	require.Equal(t, "sentiment", dtos[0].Tab)
	require.Empty(t, dtos[1].Tab)
}

func TestFormatViews_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(&buf, true).FormatViews(FromRegistry(registry.Default()))
	require.NoError(t, err)

	var out []ViewDTO
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 5)
	require.Equal(t, registry.Overview, out[0].ID)
}

func TestFormatViews_Table(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(&buf, false).FormatViews(FromRegistry(registry.Default()))
	require.NoError(t, err)
	require.Contains(t, buf.String(), "SHORTCUT")
	require.Contains(t, buf.String(), "competitive")
	require.Contains(t, buf.String(), "alt+3")
}

func TestFormatHistory_Table(t *testing.T) {
	var buf bytes.Buffer
	when := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	err := NewFormatter(&buf, false).FormatHistory([]LocationDTO{
		{ID: 7, URL: "wardwatch://dashboard?tab=geographic", Tab: "geographic", UpdatedAt: when},
	})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "geographic")
	require.Contains(t, buf.String(), "wardwatch://dashboard?tab=geographic")
}
