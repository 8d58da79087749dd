package dto

type CreateAttributeCategoryInput struct {
	Name      string `validate:"required,max=100"`
	SortOrder int
}

type CreateAttributeTypeInput struct {
	AttributeCategoryID string `validate:"required"`
	Name                string `validate:"required,max=100"`
	DataType            string `validate:"required,oneof=text numeric boolean date select multiselect"`
	Unit                string `validate:"max=20"`
	ValidationRegex     string
	AllowedValues       []string `validate:"dive,required"`
	IsFilterable        bool
	SortOrder           int
}

type UpdateAttributeTypeInput struct {
	ID              string `validate:"required"`
	Name            string `validate:"required,max=100"`
	DataType        string `validate:"required,oneof=text numeric boolean date select multiselect"`
	Unit            string `validate:"max=20"`
	ValidationRegex string
	AllowedValues   []string `validate:"dive,required"`
	IsFilterable    bool
	SortOrder       int
}

type SetProductAttributeInput struct {
	ProductID       string `validate:"required"`
	AttributeTypeID string `validate:"required"`
	Value           string
}
