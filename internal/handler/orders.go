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

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler { return &OrdersHandler{svc: svc} }

// Create godoc
// @Summary      Create order
// @Description  Creates a sales order atomically: order, items, OUT stock movements and stock decrements commit together or not at all. Validation collects every failed check into one field-keyed error map.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateOrderRequest true "Order data"
// @Success      201  {object} dto.OrderResponse
// @Failure      400  {object} apierror.ValidationError
// @Router       /v1/orders [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.Subject)

	resp, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary      Get order by number
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        order_number path string true "Order number"
// @Success      200 {object} dto.OrderResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/orders/{order_number} [get]
func (h *OrdersHandler) Get(c *gin.Context) {
	number := c.Param("order_number")
	if number == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Order number required"))
		return
	}
	resp, err := h.svc.GetByNumber(c.Request.Context(), number)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Order number substring"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Records per page (default 50)"
// @Success      200 {object} dto.OrderListResponse
// @Router       /v1/orders [get]
func (h *OrdersHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
