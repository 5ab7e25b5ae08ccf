package dto

// ─── Stock adjustments ───────────────────────────────────────────────────────

// CreateAdjustmentRequest corrects a product's stock by a signed difference.
// Zero is rejected in the service (it would be a no-op ledger entry).
type CreateAdjustmentRequest struct {
	ProductID          string `json:"product_id"          validate:"required,uuid"`
	QuantityDifference int    `json:"quantity_difference" validate:"required"`
	Note               string `json:"note"`
}

type AdjustmentResponse struct {
	ID                 string `json:"id"`
	Product            string `json:"product"`
	QuantityDifference int    `json:"quantity_difference"`
	Stock              int    `json:"stock"` // cached stock after the adjustment
	User               string `json:"user"`
	CreatedAt          string `json:"created_at"`
}

// ─── Stock movements (read-only ledger views) ────────────────────────────────

// MovementFilter is bound from the query string of GET /v1/stock-movements.
type MovementFilter struct {
	ProductID string `form:"product_id" validate:"omitempty,uuid"`
	Type      string `form:"type"`       // INIT | IN | OUT | ADJUSTMENT
	SourceDoc string `form:"source_doc"` // exact match on originating document
	Search    string `form:"search"`     // matches product name
	From      string `form:"from"`       // YYYY-MM-DD inclusive
	To        string `form:"to"`         // YYYY-MM-DD inclusive
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type MovementResponse struct {
	ID           string `json:"id"`
	Product      string `json:"product"`
	MovementType string `json:"movement_type"`
	Quantity     int    `json:"quantity"`
	SourceDoc    string `json:"source_doc"`
	Note         string `json:"note"`
	Date         string `json:"date"`
	User         string `json:"user"`
	CreatedAt    string `json:"created_at"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ─── Reconciliation (audit path) ─────────────────────────────────────────────

// ReconciliationRow compares the cached stock counter against the ledger
// sum for one product. Consistent is false when they diverge — which means
// a bug, not normal operation.
type ReconciliationRow struct {
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	CachedStock int    `json:"cached_stock"`
	LedgerStock int    `json:"ledger_stock"`
	Consistent  bool   `json:"consistent"`
}
