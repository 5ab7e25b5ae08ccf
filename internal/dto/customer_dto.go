package dto

type CreateCustomerRequest struct {
	Name    string `json:"name"    validate:"required,min=2,max=200"`
	Phone   string `json:"phone"   validate:"required,max=16"`
	Email   string `json:"email"   validate:"required,email,max=100"`
	Address string `json:"address" validate:"required"`
}

type UpdateCustomerRequest struct {
	Name    string `json:"name"    validate:"required,min=2,max=200"`
	Phone   string `json:"phone"   validate:"required,max=16"`
	Email   string `json:"email"   validate:"required,email,max=100"`
	Address string `json:"address" validate:"required"`
}

type CustomerFilter struct {
	Search string `form:"search"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CustomerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	User      string `json:"user"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CustomerListResponse struct {
	Data  []CustomerResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
