// Package typecast validates raw attribute values against their attribute
// type and projects them onto typed columns.
package typecast

import (
	"regexp"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/shopspring/decimal"
)

// DateLayout is the only accepted calendar date form.
const DateLayout = "2006-01-02"

var boolTokens = map[string]bool{
	"true": true, "yes": true, "1": true,
	"false": false, "no": false, "0": false,
}

// Schema is the compiled validation policy of one attribute type.
type Schema struct {
	Kind          model.DataKind
	AllowedValues []string
	Pattern       *regexp.Regexp
}

// SchemaOf compiles t's validation pattern. A pattern that does not compile
// is a constraint violation.
func SchemaOf(t *model.AttributeType) (Schema, error) {
	s := Schema{Kind: t.DataType, AllowedValues: t.AllowedValues}
	if !t.DataType.Valid() {
		return s, apperr.Wrap(apperr.ErrConstraint, "unknown data type %q", t.DataType)
	}
	if t.ValidationRegex != nil && *t.ValidationRegex != "" {
		re, err := regexp.Compile(*t.ValidationRegex)
		if err != nil {
			return s, apperr.Wrap(apperr.ErrConstraint, "validation pattern %q: %v", *t.ValidationRegex, err)
		}
		s.Pattern = re
	}
	return s, nil
}

// Validate checks raw against the schema's data kind, then against its
// pattern. The returned error wraps apperr.ErrValidation with the reason.
func Validate(s Schema, raw string) error {
	switch s.Kind {
	case model.KindNumeric:
		if _, ok := parseNumeric(raw); !ok {
			return apperr.Wrap(apperr.ErrValidation, "%q is not a number", raw)
		}
	case model.KindDate:
		if _, ok := parseDate(raw); !ok {
			return apperr.Wrap(apperr.ErrValidation, "%q is not a date (%s)", raw, DateLayout)
		}
	case model.KindBoolean:
		if _, ok := ParseBool(raw); !ok {
			return apperr.Wrap(apperr.ErrValidation, "%q is not one of true, yes, 1, false, no, 0", raw)
		}
	case model.KindSelect:
		if len(s.AllowedValues) > 0 && !contains(s.AllowedValues, raw) {
			return apperr.Wrap(apperr.ErrValidation, "%q is not an allowed value", raw)
		}
	case model.KindMultiselect:
		if len(s.AllowedValues) > 0 {
			for _, token := range SplitMulti(raw) {
				if !contains(s.AllowedValues, token) {
					return apperr.Wrap(apperr.ErrValidation, "%q is not an allowed value", token)
				}
			}
		}
	}

	if s.Pattern != nil && !s.Pattern.MatchString(raw) {
		return apperr.Wrap(apperr.ErrValidation, "%q does not match %s", raw, s.Pattern)
	}
	return nil
}

// ParseBool maps the accepted boolean tokens, case-insensitively. ok is false
// for anything else.
func ParseBool(raw string) (value, ok bool) {
	value, ok = boolTokens[strings.ToLower(strings.TrimSpace(raw))]
	return value, ok
}

// SplitMulti splits a multiselect value on commas and trims each token.
func SplitMulti(raw string) []string {
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func parseNumeric(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	return d, err == nil
}

func parseDate(raw string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	return t, err == nil
}

func contains(values []string, v string) bool {
	for _, allowed := range values {
		if allowed == v {
			return true
		}
	}
	return false
}
