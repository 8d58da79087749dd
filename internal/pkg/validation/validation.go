package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/go-playground/validator/v10"
)

var (
	validate  = validator.New(validator.WithRequiredStructEnabled())
	colorCode = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)
)

func init() {
	// #RGB or #RRGGBB only; the stock hexcolor tag also takes alpha forms.
	_ = validate.RegisterValidation("colorcode", func(fl validator.FieldLevel) bool {
		return colorCode.MatchString(fl.Field().String())
	})
}

// Struct validates s against its `validate` tags. Failures are reported as
// apperr.ErrConstraint listing the offending fields.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return apperr.Wrap(apperr.ErrConstraint, "%s", strings.Join(msgs, "; "))
}
