package dataset

import "github.com/okian/contestcorr/internal/domain/model"

// Provinces maps integer province codes to display names.
type Provinces struct {
	names []string
}

// NewProvinces builds a lookup where code i maps to names[i].
func NewProvinces(names []string) *Provinces {
	p := &Provinces{names: make([]string, len(names))}
	for i, n := range names {
		p.names[i] = model.CanonicalName(n)
	}
	return p
}

// Name returns the display name for code.
func (p *Provinces) Name(code int) (string, bool) {
	if p == nil || code < 0 || code >= len(p.names) {
		return "", false
	}
	return p.names[code], true
}

// Len returns the number of known provinces.
func (p *Provinces) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}
