// Package data loads the social-listening dataset and computes the filtered
// subsets the dashboard panels render from.
package data

import (
	"strings"
	"time"
)

// Well-known filter dimensions. Any other key is looked up in Attributes.
const (
	KeyCity    = "city"
	KeyWard    = "ward"
	KeyEmotion = "emotion"
	KeyParty   = "party"
	KeySource  = "source"
)

// Record is one observed post.
type Record struct {
	ID         string            `yaml:"id" json:"id"`
	Text       string            `yaml:"text" json:"text"`
	Emotion    string            `yaml:"emotion" json:"emotion"`
	Sentiment  float64           `yaml:"sentiment" json:"sentiment"`
	Ward       string            `yaml:"ward" json:"ward"`
	City       string            `yaml:"city" json:"city"`
	Party      string            `yaml:"party" json:"party"`
	Source     string            `yaml:"source" json:"source"`
	PostedAt   time.Time         `yaml:"posted_at" json:"posted_at"`
	Attributes map[string]string `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// Field returns the record's value for a filter key.
func (r Record) Field(key string) (string, bool) {
	switch strings.ToLower(key) {
	case KeyCity:
		return r.City, true
	case KeyWard:
		return r.Ward, true
	case KeyEmotion:
		return r.Emotion, true
	case KeyParty:
		return r.Party, true
	case KeySource:
		return r.Source, true
	}
	v, ok := r.Attributes[key]
	return v, ok
}

// Dataset is the on-disk document shape.
type Dataset struct {
	Records []Record `yaml:"records" json:"records"`
}
