package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	integrationapp "github.com/erp/storesync/internal/application/integration"
)

// ConnectionService manages a tenant's storefront and courier credentials
type ConnectionService interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*integrationapp.ConnectionResponse, error)
	Update(ctx context.Context, tenantID uuid.UUID, req integrationapp.UpdateConnectionRequest) (*integrationapp.ConnectionResponse, error)
	Test(ctx context.Context, tenantID uuid.UUID) (*integrationapp.ConnectionResponse, error)
}

// ConnectionHandler handles the tenant's integration settings
type ConnectionHandler struct {
	BaseHandler
	connectionService ConnectionService
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(connectionService ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connectionService: connectionService}
}

// Get handles GET /integration/connection. Secrets are never returned.
func (h *ConnectionHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	conn, err := h.connectionService.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, conn)
}

// Update handles PUT /integration/connection
func (h *ConnectionHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req integrationapp.UpdateConnectionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	conn, err := h.connectionService.Update(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, conn)
}

// Test handles POST /integration/connection/test
func (h *ConnectionHandler) Test(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	conn, err := h.connectionService.Test(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, conn)
}
