package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wardwatch/wardwatch/internal/data"
)

// Builder accumulates records for a test dataset.
type Builder struct {
	t       *testing.T
	records []data.Record
}

// NewBuilder creates an empty builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t}
}

// WithRecord adds a record with optional configuration.
func (b *Builder) WithRecord(id string, opts ...RecordOption) *Builder {
	r := defaultRecord(id)
	for _, opt := range opts {
		opt(&r)
	}
	b.records = append(b.records, r)
	return b
}

// Build returns the accumulated records.
func (b *Builder) Build() []data.Record {
	return append([]data.Record(nil), b.records...)
}

// Source returns an in-memory data.Source serving the records.
func (b *Builder) Source() *StaticSource {
	return &StaticSource{Records: b.Build()}
}

// WriteFile writes the records as a YAML dataset under a temp dir and
// returns its path.
func (b *Builder) WriteFile(name string) string {
	b.t.Helper()
	raw, err := yaml.Marshal(data.Dataset{Records: b.records})
	require.NoError(b.t, err)
	path := filepath.Join(b.t.TempDir(), name)
	require.NoError(b.t, os.WriteFile(path, raw, 0o644))
	return path
}

// StaticSource is a data.Source over fixed records. Err, when set, is
// returned by Load instead.
type StaticSource struct {
	Records []data.Record
	Err     error
	Loads   int
}

// Name identifies the source.
func (s *StaticSource) Name() string { return "static" }

// Load returns the records.
func (s *StaticSource) Load(context.Context) ([]data.Record, error) {
	s.Loads++
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]data.Record(nil), s.Records...), nil
}
