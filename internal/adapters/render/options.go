package render

import (
	"github.com/okian/contestcorr/pkg/logger"
	"github.com/okian/contestcorr/pkg/metrics"
)

// Option configures a PlotRenderer.
type Option func(*PlotRenderer)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *PlotRenderer) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMetrics records render latency in m.
func WithMetrics(m *metrics.Manager) Option {
	return func(r *PlotRenderer) { r.metrics = m }
}

// WithOpener replaces the function used to show a rendered file to the user.
func WithOpener(open func(path string) error) Option {
	return func(r *PlotRenderer) {
		if open != nil {
			r.open = open
		}
	}
}

// WithTempDir sets the directory for interactive display files. Empty means
// the system default.
func WithTempDir(dir string) Option {
	return func(r *PlotRenderer) { r.tempDir = dir }
}
