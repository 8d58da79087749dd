package dto

type CreateSizeCategoryInput struct {
	Name        string `validate:"required,max=50"`
	Description string
	SortOrder   int
}

type CreateSizeOptionInput struct {
	SizeCategoryID string `validate:"required"`
	Code           string `validate:"required,max=20"`
	Name           string `validate:"required,max=50"`
	SortOrder      int
}

type UpdateSizeOptionInput struct {
	ID        string `validate:"required"`
	Code      string `validate:"required,max=20"`
	Name      string `validate:"required,max=50"`
	SortOrder int
	IsActive  bool
}
