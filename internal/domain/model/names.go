package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// CanonicalName normalizes a competition or region name for matching:
// full-width ASCII is folded to narrow form ("ＮＯＩＰ２０２５" -> "NOIP2025"),
// the result is NFC normalized and surrounding space is trimmed.
func CanonicalName(s string) string {
	return strings.TrimSpace(norm.NFC.String(width.Fold.String(s)))
}
