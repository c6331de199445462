// Package app orchestrates comparisons: it resolves the competitors common
// to two competitions, computes their correlation and optional trend curve,
// and hands the result to a renderer.
package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/okian/contestcorr/internal/adapters/render"
	"github.com/okian/contestcorr/internal/adapters/repository"
	"github.com/okian/contestcorr/internal/domain/correlation"
	"github.com/okian/contestcorr/internal/domain/fit"
	"github.com/okian/contestcorr/internal/domain/model"
	"github.com/okian/contestcorr/pkg/logger"
	"github.com/okian/contestcorr/pkg/metrics"
)

// Service runs comparisons against a result store.
type Service struct {
	store      repository.Store
	renderer   render.Renderer
	metrics    *metrics.Manager
	sizeInches float64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the result store queried by Compare.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithRenderer sets the renderer used by Run.
func WithRenderer(r render.Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records comparison outcomes in m.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithFigureSize sets the side of the square figure in inches.
func WithFigureSize(inches float64) Option {
	return func(s *Service) {
		if inches > 0 {
			s.sizeInches = inches
		}
	}
}

// New constructs a new Service. Without WithRenderer figures are drawn with
// gonum/plot.
func New(opts ...Option) *Service {
	s := &Service{
		sizeInches: render.DefaultSizeInches,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = render.NewPlotRenderer(
			render.WithLogger(s.logger),
			render.WithMetrics(s.metrics),
		)
	}
	return s
}

// Compare computes the comparison described by req without rendering.
func (s *Service) Compare(ctx context.Context, req Request) (*model.ComparisonResult, error) {
	start := time.Now()
	res, err := s.compare(ctx, req)
	s.metrics.ObserveCompare(time.Since(start))
	s.metrics.RecordComparison(outcome(err))
	return res, err
}

// Run compares and then renders the result when req asks for a file or an
// interactive figure.
func (s *Service) Run(ctx context.Context, req Request) (*model.ComparisonResult, error) {
	res, err := s.Compare(ctx, req)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions()
	if !opts.Wants() {
		return res, nil
	}
	opts.SizeInches = s.sizeInches
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := s.renderer.Render(ctx, render.FromComparison(res, opts)); err != nil {
		return res, fmt.Errorf("render %s vs %s: %w", res.CompetitionA, res.CompetitionB, err)
	}
	return res, nil
}

func (s *Service) compare(ctx context.Context, req Request) (*model.ComparisonResult, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, ErrNotConfigured
	}

	a, err := s.resolve(req.CompetitionA)
	if err != nil {
		return nil, err
	}
	b, err := s.resolve(req.CompetitionB)
	if err != nil {
		return nil, err
	}

	filter := repository.NewFilter(req.Provenance...)
	setA, err := s.store.ByCompetition(ctx, a, filter)
	if err != nil {
		return nil, err
	}
	setB, err := s.store.ByCompetition(ctx, b, filter)
	if err != nil {
		return nil, err
	}
	common := repository.Intersect(setA, setB)
	s.metrics.SetOverlap(common.Len())
	if common.Len() == 0 {
		return nil, fmt.Errorf("%w: %s and %s", ErrNoOverlap, a, b)
	}

	res := &model.ComparisonResult{
		CompetitionA: a,
		CompetitionB: b,
		ScoresA:      make([]float64, 0, common.Len()),
		ScoresB:      make([]float64, 0, common.Len()),
	}
	for _, idx := range common.Sorted() {
		rec, err := s.store.Record(ctx, idx)
		if err != nil {
			return nil, err
		}
		pa, _ := rec.Result(a)
		pb, _ := rec.Result(b)
		if !pa.HasScore() || !pb.HasScore() {
			res.Excluded++
			continue
		}
		res.ScoresA = append(res.ScoresA, pa.Score)
		res.ScoresB = append(res.ScoresB, pb.Score)
	}
	s.metrics.AddExcluded(res.Excluded)
	if res.Len() == 0 {
		return nil, fmt.Errorf("%w: %s and %s share %d competitors but none has both scores",
			ErrNoOverlap, a, b, common.Len())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Pearson = s.correlate(ctx, metrics.MethodPearson, correlation.Pearson, res)
	res.Spearman = s.correlate(ctx, metrics.MethodSpearman, correlation.Spearman, res)

	if req.FitDegree != nil {
		res.Fit, res.FitErr = fitCurve(res.ScoresA, res.ScoresB, *req.FitDegree)
		if res.FitErr != nil {
			s.metrics.RecordFitFailure()
			s.logger.Warn(ctx, "trend curve skipped", logger.Error(res.FitErr))
		}
	}

	s.logger.Info(ctx, "comparison complete",
		logger.String("competition_a", a),
		logger.String("competition_b", b),
		logger.Int("pairs", res.Len()),
		logger.Int("excluded", res.Excluded),
		logger.String("pearson", res.Pearson.String()),
		logger.String("spearman", res.Spearman.String()),
	)
	return res, nil
}

// resolve maps a user-supplied competition name to its catalog name.
func (s *Service) resolve(name string) (string, error) {
	c, ok := s.store.Catalog().Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %w: %q", ErrInvalidArgument, repository.ErrUnknownCompetition, name)
	}
	return c.Name, nil
}

func (s *Service) correlate(ctx context.Context, method string, fn func(x, y []float64) (float64, error), res *model.ComparisonResult) model.Correlation {
	v, err := fn(res.ScoresA, res.ScoresB)
	if err != nil {
		s.logger.Debug(ctx, "correlation undefined", logger.String("method", method), logger.Error(err))
		return model.Correlation{Value: v, Err: err}
	}
	s.metrics.SetCorrelation(method, v)
	return model.Correlation{Value: v}
}

func fitCurve(x, y []float64, degree int) (*model.FitCurve, error) {
	poly, err := fit.Polyfit(x, y, degree)
	if err != nil {
		return nil, err
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range x {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	samples := poly.Sample(lo, hi)
	curve := &model.FitCurve{
		Degree:       poly.Degree(),
		Coefficients: poly.Coefficients(),
		Points:       make([]model.FitPoint, len(samples)),
	}
	for i, p := range samples {
		curve.Points[i] = model.FitPoint{X: p.X, Y: p.Y}
	}
	return curve, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrNoOverlap):
		return metrics.OutcomeNoOverlap
	case errors.Is(err, ErrInvalidArgument):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
