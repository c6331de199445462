package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/contestcorr/internal/domain/model"
	"github.com/okian/contestcorr/pkg/logger"
)

// BatchJob is one entry of a batch file:
//
//	comparisons:
//	  - a: CSP2023
//	    b: NOIP2023
//	    alpha: 0.2
//	    polyfit: 2
//	    save: samples/CSP2023_vs_NOIP2023.svg
type BatchJob struct {
	A         string   `koanf:"a"`
	B         string   `koanf:"b"`
	Provinces []string `koanf:"provinces"`
	Polyfit   *int     `koanf:"polyfit"`
	Alpha     *float64 `koanf:"alpha"`
	DPI       int      `koanf:"dpi"`
	Save      string   `koanf:"save"`
}

// BatchResult is the outcome of one job.
type BatchResult struct {
	Job    BatchJob
	Path   string
	Result *model.ComparisonResult
	Err    error
}

// BatchDefaults fills job fields left unset in a batch file.
type BatchDefaults struct {
	Alpha float64
	DPI   int
}

// LoadBatch reads the comparisons listed in a YAML batch file.
func LoadBatch(path string) ([]BatchJob, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load batch %s: %w", path, err)
	}
	var jobs []BatchJob
	if err := k.UnmarshalWithConf("comparisons", &jobs, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: batch %s: %w", ErrInvalidArgument, path, err)
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: batch %s lists no comparisons", ErrInvalidArgument, path)
	}
	return jobs, nil
}

// Request converts the job into a non-interactive request that always saves
// a figure.
func (j BatchJob) Request(d BatchDefaults) Request {
	req := Request{
		CompetitionA: j.A,
		CompetitionB: j.B,
		Provenance:   j.Provinces,
		FitDegree:    j.Polyfit,
		Alpha:        d.Alpha,
		DPI:          d.DPI,
		OutputPath:   j.Save,
	}
	if j.Alpha != nil {
		req.Alpha = *j.Alpha
	}
	if j.DPI > 0 {
		req.DPI = j.DPI
	}
	if req.OutputPath == "" {
		req.OutputPath = DefaultOutputName(j.A, j.B)
	}
	return req
}

// RunBatch runs every job in the batch file at path. A failing job is
// recorded in its result and the remaining jobs still run; the returned
// error covers only reading the batch file.
func (s *Service) RunBatch(ctx context.Context, path string, d BatchDefaults) ([]BatchResult, error) {
	jobs, err := LoadBatch(path)
	if err != nil {
		return nil, err
	}

	results := make([]BatchResult, 0, len(jobs))
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		req := job.Request(d)
		br := BatchResult{Job: job, Path: req.OutputPath}

		if dir := filepath.Dir(req.OutputPath); dir != "." && ValidateRequest(req) == nil {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				br.Err = fmt.Errorf("create %s: %w", dir, err)
				results = append(results, br)
				continue
			}
		}

		br.Result, br.Err = s.Run(ctx, req)
		if br.Err != nil {
			s.logger.Warn(ctx, "batch job failed",
				logger.Int("job", i+1),
				logger.String("competition_a", job.A),
				logger.String("competition_b", job.B),
				logger.Error(br.Err))
		}
		results = append(results, br)
	}
	return results, nil
}
