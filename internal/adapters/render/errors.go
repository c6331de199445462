package render

import "errors"

// Error constants
var (
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrRender            = errors.New("render failed")
	ErrDisplay           = errors.New("interactive display failed")
)
