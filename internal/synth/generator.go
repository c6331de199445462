package synth

import (
	"context"
	"encoding/binary"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/contestcorr/internal/domain/ranking"
	"github.com/okian/contestcorr/pkg/logger"
)

// Enrollment years are drawn from [baseEnrollYear, baseEnrollYear+enrollSpan).
const (
	baseEnrollYear = 2016
	enrollSpan     = 8
)

// entry is one participation before encoding.
type entry struct {
	contest  int
	school   int
	score    float64 // NaN when blank
	place    int     // 0 when unranked
	province int
}

// row is one competitor before encoding.
type row struct {
	id      int
	uid     string
	name    string
	gender  int
	enroll  int
	entries []entry
}

// Stats summarizes a generated dataset.
type Stats struct {
	Competitors    int
	Participations int
	MissingScores  int
}

func newRand(seed uint64) *rand.Rand {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:], seed)
	return rand.New(rand.NewChaCha8(s))
}

// generate builds rows deterministically from cfg.Seed.
func generate(ctx context.Context, cfg *Config) ([]row, Stats, error) {
	rng := newRand(cfg.Seed)
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:], cfg.Seed^0x9e3779b97f4a7c15)
	ids := rand.NewChaCha8(s)

	rows := make([]row, cfg.Competitors)
	noise := math.Sqrt(1 - cfg.Correlation*cfg.Correlation)
	var stats Stats

	for i := range rows {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, Stats{}, err
			}
		}
		uid, err := uuid.NewRandomFromReader(ids)
		if err != nil {
			return nil, Stats{}, err
		}
		r := row{
			id:     i,
			uid:    uid.String(),
			name:   "competitor-" + strings.SplitN(uid.String(), "-", 2)[0],
			gender: rng.IntN(3) - 1,
			enroll: baseEnrollYear + rng.IntN(enrollSpan),
		}

		ability := rng.NormFloat64()
		province := rng.IntN(len(cfg.Provinces))
		school := rng.IntN(1000)
		for c := range cfg.Competitions {
			if rng.Float64() >= cfg.Turnout {
				continue
			}
			z := cfg.Correlation*ability + noise*rng.NormFloat64()
			score := math.Round(cfg.MaxScore * cdf(z))
			if rng.Float64() < cfg.MissingRate {
				score = math.NaN()
				stats.MissingScores++
			}
			r.entries = append(r.entries, entry{contest: c, school: school, score: score, province: province})
			stats.Participations++
		}
		rows[i] = r
	}

	assignPlacements(rows, len(cfg.Competitions))
	stats.Competitors = len(rows)
	logger.Get().Debug(ctx, "synthetic rows generated",
		logger.Int("competitors", stats.Competitors),
		logger.Int("participations", stats.Participations))
	return rows, stats, nil
}

// assignPlacements ranks scored entries per competition, highest score
// first, with equal scores sharing a placement.
func assignPlacements(rows []row, competitions int) {
	type ref struct{ row, entry int }
	for c := 0; c < competitions; c++ {
		var refs []ref
		var neg []float64
		for i := range rows {
			for j, e := range rows[i].entries {
				if e.contest == c && !math.IsNaN(e.score) {
					refs = append(refs, ref{i, j})
					neg = append(neg, -e.score)
				}
			}
		}
		for k, place := range ranking.CompactRank(neg) {
			rows[refs[k].row].entries[refs[k].entry].place = place
		}
	}
}

// cdf maps a standard normal draw into (0,1).
func cdf(z float64) float64 {
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}

// encodeEntries renders the participation column.
func encodeEntries(entries []entry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		score, place := "", ""
		if !math.IsNaN(e.score) {
			score = strconv.FormatFloat(e.score, 'f', -1, 64)
		}
		if e.place > 0 {
			place = strconv.Itoa(e.place)
		}
		parts[i] = strings.Join([]string{
			strconv.Itoa(e.contest),
			strconv.Itoa(e.school),
			score,
			place,
			strconv.Itoa(e.province),
		}, ":")
	}
	return strings.Join(parts, "/")
}
