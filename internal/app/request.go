package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/contestcorr/internal/adapters/render"
)

// MaxFitDegree bounds the requested polynomial degree. The max tag on
// Request.FitDegree must carry the same value.
const MaxFitDegree = 10

// Request describes one comparison.
type Request struct {
	CompetitionA string   `validate:"required"`
	CompetitionB string   `validate:"required"`
	Provenance   []string `validate:"dive,required"`
	// FitDegree requests a polynomial trend curve when non-nil.
	FitDegree   *int    `validate:"omitempty,min=1,max=10"`
	Alpha       float64 `validate:"gte=0,lte=1"`
	DPI         int     `validate:"min=1,max=1200"`
	OutputPath  string  `validate:"omitempty,figure_path"`
	Interactive bool
}

// RenderOptions returns the figure options carried by the request.
func (r Request) RenderOptions() render.Options {
	return render.Options{
		DPI:         r.DPI,
		Alpha:       r.Alpha,
		OutputPath:  r.OutputPath,
		Interactive: r.Interactive,
	}
}

// DefaultOutputName is the file name used when saving is requested without
// a path.
func DefaultOutputName(a, b string) string {
	return fmt.Sprintf("%s_vs_%s.png", strings.TrimSpace(a), strings.TrimSpace(b))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("figure_path", func(fl validator.FieldLevel) bool {
		return render.SupportedFormat(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidateRequest checks req and reports the first violated constraint as
// ErrInvalidArgument.
func ValidateRequest(req Request) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s", ErrInvalidArgument, describe(fe))
	}
	return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "figure_path":
		return fmt.Sprintf("%s %q has an unsupported extension (want png, jpg, tif, svg or pdf)", fe.Field(), fe.Value())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s, got %v", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
	}
}
