package dto

type CreateBrandInput struct {
	Name            string `validate:"required,max=100"`
	Slug            string `validate:"max=120"` // derived from Name when blank
	Description     string
	LogoURL         string `validate:"omitempty,url"`
	DisplayPriority int
}

type UpdateBrandInput struct {
	ID              string `validate:"required"`
	Name            string `validate:"required,max=100"`
	Description     string
	LogoURL         string `validate:"omitempty,url"`
	DisplayPriority int
	IsActive        bool
}
