package handler

import (
	"net/http"

	"github.com/solanoize/optika-api/internal/apierror"
	"github.com/solanoize/optika-api/internal/dto"
	"github.com/solanoize/optika-api/internal/middleware"
	"github.com/solanoize/optika-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventoryHandler exposes the read side of the stock ledger plus the
// manual adjustment and reconciliation endpoints.
type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// ListMovements godoc
// @Summary      List stock movements
// @Description  Paginated ledger view, filterable by product, type, source document and date range.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        product_id query string false "Product UUID"
// @Param        type       query string false "INIT | IN | OUT | ADJUSTMENT"
// @Param        source_doc query string false "Originating document"
// @Param        search     query string false "Product name substring"
// @Param        from       query string false "YYYY-MM-DD inclusive"
// @Param        to         query string false "YYYY-MM-DD inclusive"
// @Param        page       query int    false "Page (default 1)"
// @Param        limit      query int    false "Records per page (default 50)"
// @Success      200 {object} dto.MovementListResponse
// @Router       /v1/stock-movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	var filter dto.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetMovement godoc
// @Summary      Get stock movement
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Movement UUID"
// @Success      200 {object} dto.MovementResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/stock-movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	resp, err := h.svc.GetMovement(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateAdjustment godoc
// @Summary      Adjust stock
// @Description  Applies a signed manual correction: adjustment record, ADJUSTMENT ledger entry and stock delta commit together. Rejects differences that would drive stock below zero.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateAdjustmentRequest true "Adjustment data"
// @Success      201  {object} dto.AdjustmentResponse
// @Failure      400  {object} apierror.ValidationError
// @Router       /v1/stock-adjustments [post]
func (h *InventoryHandler) CreateAdjustment(c *gin.Context) {
	var req dto.CreateAdjustmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.Subject)

	resp, err := h.svc.CreateAdjustment(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListAdjustments godoc
// @Summary      List stock adjustments
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        product_id query string false "Product UUID"
// @Param        page       query int    false "Page (default 1)"
// @Param        limit      query int    false "Records per page (default 50)"
// @Success      200 {array} dto.AdjustmentResponse
// @Router       /v1/stock-adjustments [get]
func (h *InventoryHandler) ListAdjustments(c *gin.Context) {
	var productID *uuid.UUID
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Invalid product_id"))
			return
		}
		productID = &id
	}
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 50)

	items, total, err := h.svc.ListAdjustments(c.Request.Context(), productID, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Reconcile godoc
// @Summary      Reconcile stock
// @Description  Compares every product's cached stock counter against its ledger sum. Admin only.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.ReconciliationRow
// @Router       /v1/stock-reconciliation [get]
func (h *InventoryHandler) Reconcile(c *gin.Context) {
	rows, err := h.svc.Reconcile(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
