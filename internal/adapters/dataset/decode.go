// Package dataset loads the competition catalog, the provenance lookup and
// the results table, and decodes them into typed competitor records.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/contestcorr/internal/domain/model"
)

// Results table layout: id, uid, name, gender, enrollment year, any number
// of derived columns, and the participation list last.
const (
	colID         = 0
	colName       = 2
	colGender     = 3
	colEnrollment = 4
	minColumns    = 6
)

// Participation entry layout inside the last column.
const (
	entrySep      = "/"
	fieldSep      = ":"
	fieldContest  = 0
	fieldScore    = 2
	fieldPlace    = 3
	fieldProvince = 4
	minFields     = 4
)

// Decoder turns raw result rows into CompetitorRecords. All sentinel
// handling for missing scores and placements lives here.
type Decoder struct {
	catalog   *model.Catalog
	provinces *Provinces
	// duplicates counts entries overridden by a later entry for the same
	// competition in the same row.
	duplicates int
}

// NewDecoder returns a decoder resolving competition ids with catalog and
// province codes with provinces. provinces may be nil, in which case the raw
// code is kept as the provenance.
func NewDecoder(catalog *model.Catalog, provinces *Provinces) *Decoder {
	return &Decoder{catalog: catalog, provinces: provinces}
}

// DecodeRow decodes one row of the results table.
func (d *Decoder) DecodeRow(row []string) (model.CompetitorRecord, error) {
	if len(row) < minColumns {
		return model.CompetitorRecord{}, fmt.Errorf("%w: want at least %d columns, got %d", ErrMalformed, minColumns, len(row))
	}

	id, err := strconv.Atoi(strings.TrimSpace(row[colID]))
	if err != nil {
		return model.CompetitorRecord{}, fmt.Errorf("%w: competitor id %q", ErrMalformed, row[colID])
	}
	code, err := strconv.Atoi(strings.TrimSpace(row[colGender]))
	if err != nil {
		return model.CompetitorRecord{}, fmt.Errorf("%w: gender %q", ErrMalformed, row[colGender])
	}
	gender, err := model.ParseGender(code)
	if err != nil {
		return model.CompetitorRecord{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	year, err := strconv.Atoi(strings.TrimSpace(row[colEnrollment]))
	if err != nil {
		return model.CompetitorRecord{}, fmt.Errorf("%w: enrollment year %q", ErrMalformed, row[colEnrollment])
	}

	parts, err := d.DecodeParticipations(row[len(row)-1])
	if err != nil {
		return model.CompetitorRecord{}, fmt.Errorf("competitor %d: %w", id, err)
	}

	return model.CompetitorRecord{
		ID:             id,
		Name:           row[colName],
		Gender:         gender,
		EnrollmentYear: year,
		Participations: parts,
	}, nil
}

// DecodeParticipations decodes a "/"-separated list of
// contestId:school:score:placement[:province] entries. An empty score is
// stored as NaN and an empty placement as model.Unranked. Scores must be
// finite. When a competition is listed more than once the last entry wins.
func (d *Decoder) DecodeParticipations(raw string) (map[string]model.Participation, error) {
	out := make(map[string]model.Participation)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out, nil
	}

	for _, entry := range strings.Split(raw, entrySep) {
		fields := strings.Split(entry, fieldSep)
		if len(fields) < minFields {
			return nil, fmt.Errorf("%w: entry %q has %d fields", ErrMalformed, entry, len(fields))
		}

		contestID, err := strconv.Atoi(fields[fieldContest])
		if err != nil {
			return nil, fmt.Errorf("%w: contest id in %q", ErrMalformed, entry)
		}
		contest, ok := d.catalog.ByID(contestID)
		if !ok {
			return nil, fmt.Errorf("%w: unknown contest id %d", ErrMalformed, contestID)
		}
		if _, dup := out[contest.Name]; dup {
			d.duplicates++
		}

		p := model.Participation{Score: model.MissingScore(), Placement: model.Unranked}
		if s := fields[fieldScore]; s != "" {
			p.Score, err = strconv.ParseFloat(s, 64)
			if err != nil || math.IsNaN(p.Score) || math.IsInf(p.Score, 0) {
				return nil, fmt.Errorf("%w: score in %q", ErrMalformed, entry)
			}
		}
		if s := fields[fieldPlace]; s != "" {
			if p.Placement, err = strconv.Atoi(s); err != nil || p.Placement < 1 {
				return nil, fmt.Errorf("%w: placement in %q", ErrMalformed, entry)
			}
		}
		if len(fields) > fieldProvince && fields[fieldProvince] != "" {
			if p.Provenance, err = d.provenance(fields[fieldProvince]); err != nil {
				return nil, fmt.Errorf("%w: %w in %q", ErrMalformed, err, entry)
			}
		}

		out[contest.Name] = p
	}
	return out, nil
}

// Duplicates returns how many entries were overridden by a later entry for
// the same competition.
func (d *Decoder) Duplicates() int { return d.duplicates }

func (d *Decoder) provenance(raw string) (string, error) {
	if d.provinces == nil {
		return model.CanonicalName(raw), nil
	}
	code, err := strconv.Atoi(raw)
	if err != nil {
		return "", fmt.Errorf("province code %q", raw)
	}
	name, ok := d.provinces.Name(code)
	if !ok {
		return "", fmt.Errorf("unknown province code %d", code)
	}
	return name, nil
}
