package dto

type CreateCategoryInput struct {
	ParentID    *string
	Name        string `validate:"required,max=100"`
	Slug        string `validate:"max=120"` // derived from Name when blank
	Description string
	SortOrder   int
}

type UpdateCategoryInput struct {
	ID          string `validate:"required"`
	ParentID    *string // nil makes the category a root
	Name        string  `validate:"required,max=100"`
	Description string
	SortOrder   int
	IsActive    bool
}
