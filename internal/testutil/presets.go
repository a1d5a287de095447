package testutil

import (
	"testing"

	"github.com/wardwatch/wardwatch/internal/data"
)

// MixedCities returns six records across two cities, three parties and
// positive and negative emotions.
func MixedCities(t *testing.T) []data.Record {
	t.Helper()
	return NewBuilder(t).
		WithRecord("h1", InCity("Hyderabad"), InWard("Ward 4"), ForParty("Civic Front"), WithEmotion("joy", 0.8), WithText("Metro opening near Ward 4")).
		WithRecord("h2", InCity("Hyderabad"), InWard("Ward 9"), ForParty("People's Alliance"), WithEmotion("anger", -0.6), WithText("Potholes again")).
		WithRecord("h3", InCity("Hyderabad"), InWard("Ward 9"), ForParty("Progress Party"), WithEmotion("fear", -0.4), WithText("Flooding risk rising")).
		WithRecord("p1", InCity("Pune"), InWard("Ward 3"), ForParty("Civic Front"), WithEmotion("trust", 0.5), WithText("Ward office resolved complaints")).
		WithRecord("p2", InCity("Pune"), InWard("Ward 7"), ForParty("Civic Front"), WithEmotion("anger", -0.7), WithText("Water supply cut"), WithAttribute("language", "Marathi")).
		WithRecord("p3", InCity("Pune"), InWard("Ward 7"), ForParty("Progress Party"), WithEmotion("joy", 0.6), WithText("Park renovation done"), FromSource("news")).
		Build()
}
