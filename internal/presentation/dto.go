package presentation

import (
	"time"

	"github.com/wardwatch/wardwatch/internal/keys"
	"github.com/wardwatch/wardwatch/internal/location"
	"github.com/wardwatch/wardwatch/internal/registry"
)

// ViewDTO represents a dashboard view for presentation
type ViewDTO struct {
	Ordinal     int    `json:"ordinal"`
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority"`
	Shortcut    string `json:"shortcut"`
	Badge       *int   `json:"badge,omitempty"`
}

// LocationDTO represents one location history entry
type LocationDTO struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Tab       string    `json:"tab,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromRegistry converts the registry to DTOs in tab order.
func FromRegistry(reg *registry.Registry) []ViewDTO {
	views := reg.List()
	dtos := make([]ViewDTO, len(views))
	for i, v := range views {
		dto := ViewDTO{
			Ordinal:     i + 1,
			ID:          v.ID,
			Label:       v.Label,
			Description: v.Description,
			Priority:    v.Priority,
			Shortcut:    keys.ShortcutLabel(i + 1),
		}
		if n, ok := v.Badge(); ok {
			dto.Badge = &n
		}
		dtos[i] = dto
	}
	return dtos
}

// FromEntries converts history entries, extracting the tab parameter.
func FromEntries(entries []location.Entry) []LocationDTO {
	dtos := make([]LocationDTO, len(entries))
	for i, e := range entries {
		tab, _ := location.Param(e.URL, "tab")
		dtos[i] = LocationDTO{
			ID:        e.ID,
			URL:       e.URL,
			Tab:       tab,
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
		}
	}
	return dtos
}
