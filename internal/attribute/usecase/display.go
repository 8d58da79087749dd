package usecase

import (
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/attribute/typecast"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

// display renders a stored attribute for humans: booleans as Yes/No,
// multiselect tokens comma separated, the unit appended when set.
func display(a *model.FormattedAttribute) string {
	value := a.Value
	switch a.DataType {
	case model.KindBoolean:
		if a.BooleanValue != nil {
			if *a.BooleanValue {
				return "Yes"
			}
			return "No"
		}
	case model.KindMultiselect:
		value = strings.Join(typecast.SplitMulti(a.Value), ", ")
	}

	if a.Unit != nil && *a.Unit != "" && value != "" {
		return value + " " + *a.Unit
	}
	return value
}
