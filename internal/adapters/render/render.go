// Package render draws comparison results as scatter plots with an optional
// trend curve, to image files or an interactive viewer.
package render

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/okian/contestcorr/internal/domain/model"
)

// Defaults applied when Options leaves a field at its zero value.
const (
	DefaultDPI        = 80
	DefaultSizeInches = 10.0
	DefaultAlpha      = 0.5
)

// Options controls how a figure is produced.
type Options struct {
	DPI         int
	Alpha       float64 // point opacity in [0,1]
	SizeInches  float64 // the figure is square
	OutputPath  string  // empty means no file
	Interactive bool
}

// Wants reports whether any output is requested.
func (o Options) Wants() bool { return o.OutputPath != "" || o.Interactive }

func (o Options) withDefaults() Options {
	if o.DPI <= 0 {
		o.DPI = DefaultDPI
	}
	if o.SizeInches <= 0 {
		o.SizeInches = DefaultSizeInches
	}
	return o
}

// Request is everything the renderer needs to draw one figure.
type Request struct {
	X, Y           []float64
	XLabel, YLabel string
	Title          string
	// Pearson and Spearman are preformatted coefficient strings.
	Pearson, Spearman string
	Fit               *model.FitCurve
	Options           Options
}

// FromComparison builds a request for a comparison result. Scores of
// competition A go on the x axis.
func FromComparison(res *model.ComparisonResult, opts Options) Request {
	return Request{
		X:        res.ScoresA,
		Y:        res.ScoresB,
		XLabel:   res.CompetitionA,
		YLabel:   res.CompetitionB,
		Title:    fmt.Sprintf("%s vs %s", res.CompetitionA, res.CompetitionB),
		Pearson:  res.Pearson.String(),
		Spearman: res.Spearman.String(),
		Fit:      res.Fit,
		Options:  opts,
	}
}

// Renderer draws a figure for a request.
type Renderer interface {
	Render(ctx context.Context, req Request) error
}

// File formats keyed by extension.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatTIFF = "tiff"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
)

var formatsByExt = map[string]string{
	"png":  FormatPNG,
	"jpg":  FormatJPEG,
	"jpeg": FormatJPEG,
	"tif":  FormatTIFF,
	"tiff": FormatTIFF,
	"svg":  FormatSVG,
	"pdf":  FormatPDF,
}

// FormatOf returns the output format implied by the extension of path.
func FormatOf(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	f, ok := formatsByExt[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return f, nil
}

// SupportedFormat reports whether path has an extension the renderer can
// write.
func SupportedFormat(path string) bool {
	_, err := FormatOf(path)
	return err == nil
}
