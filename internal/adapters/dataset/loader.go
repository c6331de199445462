package dataset

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/okian/contestcorr/internal/domain/model"
	"github.com/okian/contestcorr/pkg/logger"
)

// Paths locates the source files. ProvincesPath is optional.
type Paths struct {
	Contests  string
	Results   string
	Provinces string
}

// Dataset is everything decoded from the source files.
type Dataset struct {
	Catalog   *model.Catalog
	Provinces *Provinces
	Records   []model.CompetitorRecord
}

// Option configures Load.
type Option func(*loader)

// WithLogger sets the logger used to report load progress.
func WithLogger(l logger.Logger) Option {
	return func(ld *loader) {
		if l != nil {
			ld.log = l
		}
	}
}

type loader struct {
	log logger.Logger
}

type contestJSON struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Year int    `json:"year"`
}

// Load reads and decodes all source files. Missing or unreadable files yield
// ErrDataUnavailable; invalid content yields ErrMalformed.
func Load(ctx context.Context, paths Paths, opts ...Option) (*Dataset, error) {
	ld := &loader{log: logger.Nop()}
	for _, opt := range opts {
		opt(ld)
	}

	catalog, err := LoadCatalog(paths.Contests)
	if err != nil {
		return nil, err
	}

	var provinces *Provinces
	if paths.Provinces != "" {
		if provinces, err = LoadProvinces(paths.Provinces); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := openSource(paths.Results)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	dec := NewDecoder(catalog, provinces)
	records, err := DecodeResults(f, dec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", paths.Results, err)
	}
	if n := dec.Duplicates(); n > 0 {
		ld.log.Warn(ctx, "repeated participations kept their last entry",
			logger.Int("overridden", n))
	}

	ld.log.Info(ctx, "dataset loaded",
		logger.Int("competitions", catalog.Len()),
		logger.Int("provinces", provinces.Len()),
		logger.Int("records", len(records)))

	return &Dataset{Catalog: catalog, Provinces: provinces, Records: records}, nil
}

// LoadCatalog reads contests.json: a JSON array whose positions are the
// competition ids.
func LoadCatalog(path string) (*model.Catalog, error) {
	f, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var raw []contestJSON
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, path, err)
	}

	items := make([]model.Competition, len(raw))
	for i, c := range raw {
		items[i] = model.Competition{ID: i, Name: c.Name, Type: c.Type, Year: c.Year}
	}
	catalog, err := model.NewCatalog(items)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, path, err)
	}
	return catalog, nil
}

// LoadProvinces reads a JSON array of province names indexed by code.
func LoadProvinces(path string) (*Provinces, error) {
	f, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var names []string
	if err := json.NewDecoder(f).Decode(&names); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, path, err)
	}
	return NewProvinces(names), nil
}

// DecodeResults decodes every CSV row from r.
func DecodeResults(r io.Reader, dec *Decoder) ([]model.CompetitorRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var records []model.CompetitorRecord
	for line := 1; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, err)
		}
		rec, err := dec.DecodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func openSource(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no path configured", ErrDataUnavailable)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	return f, nil
}
