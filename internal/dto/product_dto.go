package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateProductRequest carries the initial stock value: product creation
// writes the INIT ledger entry that anchors later aggregation.
type CreateProductRequest struct {
	Name  string `json:"name"  validate:"required,min=2,max=200"`
	Unit  string `json:"unit"  validate:"required,max=20"`
	Stock int    `json:"stock" validate:"required,gt=0"`
	Price int64  `json:"price" validate:"required,gt=0"`
}

// UpdateProductRequest deliberately has no stock field — stock belongs to
// the ledger and only moves through orders, purchases and adjustments.
type UpdateProductRequest struct {
	Name  string `json:"name"  validate:"required,min=2,max=200"`
	Unit  string `json:"unit"  validate:"required,max=20"`
	Price int64  `json:"price" validate:"required,gt=0"`
}

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Search string `form:"search"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	Stock     int    `json:"stock"`
	Price     int64  `json:"price"`
	User      string `json:"user"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
