package data

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/wardwatch/wardwatch/internal/log"
)

// ErrUnsupportedFormat is returned for dataset files that are neither YAML nor JSON.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

//go:embed sample/posts.yaml
var sampleDataset []byte

// Source loads records.
type Source interface {
	Load(ctx context.Context) ([]Record, error)
	Name() string
}

// FileSource reads a YAML or JSON dataset file.
type FileSource struct {
	Path string
}

// Name returns the file path.
func (s FileSource) Name() string { return s.Path }

// Load reads and decodes the file.
func (s FileSource) Load(ctx context.Context) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".yaml", ".yml", ".json":
	default:
		return nil, fmt.Errorf("%s: %w", s.Path, ErrUnsupportedFormat)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	records, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return records, nil
}

// EmbeddedSource serves the dataset compiled into the binary.
type EmbeddedSource struct{}

// Name identifies the embedded dataset.
func (EmbeddedSource) Name() string { return "embedded:sample" }

// Load decodes the embedded dataset.
func (EmbeddedSource) Load(context.Context) ([]Record, error) {
	return Decode(sampleDataset)
}

// MultiSource loads several sources concurrently and concatenates them in
// source order. Any failure fails the whole load.
type MultiSource []Source

// Name joins the member names.
func (m MultiSource) Name() string {
	names := make([]string, len(m))
	for i, s := range m {
		names[i] = s.Name()
	}
	return strings.Join(names, ",")
}

// Load runs every member under one errgroup.
func (m MultiSource) Load(ctx context.Context) ([]Record, error) {
	parts := make([][]Record, len(m))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range m {
		g.Go(func() error {
			recs, err := src.Load(gctx)
			if err != nil {
				return fmt.Errorf("source %s: %w", src.Name(), err)
			}
			parts[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Record
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

// Decode parses a YAML or JSON dataset document and normalizes its records.
func Decode(raw []byte) ([]Record, error) {
	var ds Dataset
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}
	for i := range ds.Records {
		normalize(&ds.Records[i])
	}
	return ds.Records, nil
}

func normalize(r *Record) {
	if strings.TrimSpace(r.ID) == "" {
		r.ID = uuid.NewString()
	}
	r.Text = strings.TrimSpace(r.Text)
	r.Emotion = strings.ToLower(strings.TrimSpace(r.Emotion))
	r.Ward = strings.TrimSpace(r.Ward)
	r.City = strings.TrimSpace(r.City)
	r.Party = strings.TrimSpace(r.Party)
	r.Source = strings.ToLower(strings.TrimSpace(r.Source))
	if math.IsNaN(r.Sentiment) {
		r.Sentiment = 0
	}
	if r.Sentiment > 1 || r.Sentiment < -1 {
		log.Debug(log.CatData, "clamping sentiment", "id", r.ID, "sentiment", r.Sentiment)
		r.Sentiment = math.Max(-1, math.Min(1, r.Sentiment))
	}
}
