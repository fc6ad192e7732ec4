package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	tradeapp "github.com/erp/storesync/internal/application/trade"
	"github.com/erp/storesync/internal/domain/shared"
)

// OrderService is the order use case set served over HTTP. Orders are
// created only by pulls.
type OrderService interface {
	GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*tradeapp.OrderResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter tradeapp.OrderListFilter) (shared.Paginated[tradeapp.OrderResponse], error)
	UpdateErpStatus(ctx context.Context, tenantID, orderID uuid.UUID, req tradeapp.UpdateErpStatusRequest) (*tradeapp.OrderResponse, error)
	CreateShipment(ctx context.Context, tenantID, orderID uuid.UUID) (*tradeapp.OrderResponse, error)
}

// OrderHandler handles order-related API endpoints
type OrderHandler struct {
	BaseHandler
	orderService OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// GetByID handles GET /trade/orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List handles GET /trade/orders. from and to are dates (YYYY-MM-DD); to is
// inclusive.
func (h *OrderHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter tradeapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.orderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UpdateErpStatus handles PUT /trade/orders/:id/erp-status
func (h *OrderHandler) UpdateErpStatus(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdateErpStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateErpStatus(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// CreateShipment handles POST /trade/orders/:id/shipment
func (h *OrderHandler) CreateShipment(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.CreateShipment(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}
