package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// OrderItemRequest is one requested order line. Price and Subtotal are
// submitted by the client and verified against the product's current price
// (stale-price detection) — the server never silently recalculates them.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required"`
	Price     int64  `json:"price"      validate:"required"`
	Subtotal  int64  `json:"subtotal"   validate:"required"`
}

type CreateOrderRequest struct {
	OrderNumber  string             `json:"order_number"  validate:"required,max=10"`
	Date         string             `json:"date"          validate:"required"` // YYYY-MM-DD
	CustomerID   string             `json:"customer_id"   validate:"required,uuid"`
	Total        int64              `json:"total"         validate:"min=0"`
	PaidAmount   int64              `json:"paid_amount"   validate:"min=0"`
	ChangeAmount int64              `json:"change_amount" validate:"min=0"`
	Items        []OrderItemRequest `json:"order_items"   validate:"dive"`
}

// OrderFilter is bound from the query string of GET /v1/orders.
type OrderFilter struct {
	Search string `form:"search"` // matches order_number
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderItemResponse struct {
	Product   string `json:"product"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
	Subtotal  int64  `json:"subtotal"`
	CreatedAt string `json:"created_at"`
}

type OrderResponse struct {
	ID           string              `json:"id"`
	OrderNumber  string              `json:"order_number"`
	Date         string              `json:"date"`
	Customer     string              `json:"customer"`
	Total        int64               `json:"total"`
	PaidAmount   int64               `json:"paid_amount"`
	ChangeAmount int64               `json:"change_amount"`
	User         string              `json:"user"`
	Items        []OrderItemResponse `json:"order_items"`
	CreatedAt    string              `json:"created_at"`
	UpdatedAt    string              `json:"updated_at"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
