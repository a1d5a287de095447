// Package testutil provides builders for dataset records and helpers for
// test databases.
package testutil

import (
	"time"

	"github.com/wardwatch/wardwatch/internal/data"
)

// RecordOption customizes a record built by Builder.
type RecordOption func(*data.Record)

func defaultRecord(id string) data.Record {
	return data.Record{
		ID:        id,
		Text:      "Post " + id,
		Emotion:   "trust",
		Sentiment: 0.2,
		Ward:      "Ward 1",
		City:      "Hyderabad",
		Party:     "Civic Front",
		Source:    "twitter",
		PostedAt:  time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
}

// InCity sets the city.
func InCity(city string) RecordOption {
	return func(r *data.Record) { r.City = city }
}

// InWard sets the ward.
func InWard(ward string) RecordOption {
	return func(r *data.Record) { r.Ward = ward }
}

// ForParty sets the party.
func ForParty(party string) RecordOption {
	return func(r *data.Record) { r.Party = party }
}

// WithEmotion sets the emotion and a matching sentiment score.
func WithEmotion(emotion string, sentiment float64) RecordOption {
	return func(r *data.Record) {
		r.Emotion = emotion
		r.Sentiment = sentiment
	}
}

// WithText sets the post text.
func WithText(text string) RecordOption {
	return func(r *data.Record) { r.Text = text }
}

// FromSource sets the source channel.
func FromSource(source string) RecordOption {
	return func(r *data.Record) { r.Source = source }
}

// PostedAt sets the timestamp.
func PostedAt(t time.Time) RecordOption {
	return func(r *data.Record) { r.PostedAt = t }
}

// WithAttribute sets an extra dimension.
func WithAttribute(key, value string) RecordOption {
	return func(r *data.Record) {
		if r.Attributes == nil {
			r.Attributes = make(map[string]string)
		}
		r.Attributes[key] = value
	}
}
