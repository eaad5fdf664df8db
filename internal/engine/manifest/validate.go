package manifest

import (
	"errors"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"
	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/zerr"
)

// publishable lists the fields a package needs to be packed and installed
// from the isolate output.
type publishable struct {
	Version string   `json:"version" validate:"required"`
	Files   []string `json:"files" validate:"required,min=1"`
}

type validator struct {
	v *playground.Validate
}

func newValidator() *validator {
	v := playground.New(playground.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		return name
	})
	return &validator{v: v}
}

// check validates m. dir names the package in the error.
func (v *validator) check(m *domain.PackageManifest, dir string, devOnly bool) error {
	err := v.v.Struct(publishable{Version: m.Version, Files: m.Files})
	if err == nil {
		return nil
	}

	class := domain.ErrInvalidManifest
	if devOnly {
		class = domain.ErrInvalidDevManifest
	}

	field := ""
	var fieldErrs playground.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field = fieldErrs[0].Field()
	}

	return zerr.With(zerr.With(zerr.With(zerr.Wrap(class, ""),
		"package", m.Name), "path", dir), "field", field)
}
