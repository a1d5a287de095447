package dashboard

import (
	"github.com/wardwatch/wardwatch/internal/data"
	"github.com/wardwatch/wardwatch/internal/filter"
	"github.com/wardwatch/wardwatch/internal/panels"
	"github.com/wardwatch/wardwatch/internal/registry"
)

// frame is everything one render reads. It is built in a single pass by
// compose, so the tab bar, filter bar, panel and status bar always agree on
// the active view, the filters and the dataset generation.
type frame struct {
	active   string
	views    []registry.View
	filters  filter.State
	snap     data.Snapshot
	err      error
	location string
	tripped  []string
	body     string
}

func (f frame) activeView() registry.View {
	for _, v := range f.views {
		if v.ID == f.active {
			return v
		}
	}
	return registry.View{ID: f.active, Label: f.active}
}

// Panel inputs. Each view receives only the part of the frame it renders.

func (f frame) overviewInput() panels.OverviewInput {
	return panels.OverviewInput{All: f.snap.All, Filtered: f.snap.Filtered, Filters: f.filters}
}

func (f frame) sentimentInput() panels.SentimentInput {
	return panels.SentimentInput{Filtered: f.snap.Filtered, SearchTerm: f.filters.SearchTerm}
}

func (f frame) competitiveInput() panels.CompetitiveInput {
	return panels.CompetitiveInput{Filtered: f.snap.Filtered}
}

func (f frame) geographicInput() panels.GeographicInput {
	return panels.GeographicInput{
		All:      f.snap.All,
		Filtered: f.snap.Filtered,
		City:     f.filters.Value(data.KeyCity),
		Ward:     f.filters.Value(data.KeyWard),
	}
}

func (f frame) strategistInput() panels.StrategistInput {
	return panels.StrategistInput{Filtered: f.snap.Filtered, Filters: f.filters}
}

func (f frame) placeholderInput() panels.PlaceholderInput {
	return panels.PlaceholderInput{View: f.activeView(), Matching: len(f.snap.Filtered)}
}
