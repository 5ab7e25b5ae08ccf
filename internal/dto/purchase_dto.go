package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// PurchaseItemRequest is one requested purchase line. Purchasing moves
// quantities only — there are no price fields on this side.
type PurchaseItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required"`
}

type CreatePurchaseRequest struct {
	PurchaseNumber string                `json:"purchase_number" validate:"required,max=10"`
	Date           string                `json:"date"            validate:"required"` // YYYY-MM-DD
	Items          []PurchaseItemRequest `json:"purchase_items"  validate:"dive"`
}

type PurchaseFilter struct {
	Search string `form:"search"` // matches purchase_number
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PurchaseItemResponse struct {
	Product   string `json:"product"`
	Quantity  int    `json:"quantity"`
	CreatedAt string `json:"created_at"`
}

type PurchaseResponse struct {
	ID             string                 `json:"id"`
	PurchaseNumber string                 `json:"purchase_number"`
	Date           string                 `json:"date"`
	User           string                 `json:"user"`
	Items          []PurchaseItemResponse `json:"purchase_items"`
	CreatedAt      string                 `json:"created_at"`
	UpdatedAt      string                 `json:"updated_at"`
}

type PurchaseListResponse struct {
	Data  []PurchaseResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
