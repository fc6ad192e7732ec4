package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/interfaces/http/dto"
)

// DeletionOTPRequest names the destructive action to confirm
type DeletionOTPRequest struct {
	Action string `json:"action" binding:"required,oneof=delete_product delete_customer"`
}

// DeletionOTPResponse acknowledges that a code was sent
type DeletionOTPResponse struct {
	Action string `json:"action"`
	Sent   bool   `json:"sent"`
}

// OTPHandler issues deletion confirmation codes
type OTPHandler struct {
	BaseHandler
	gate integration.ConfirmationGate
}

// NewOTPHandler creates a new OTPHandler
func NewOTPHandler(gate integration.ConfirmationGate) *OTPHandler {
	return &OTPHandler{gate: gate}
}

// Issue handles POST /deletion-otp. A new code replaces any outstanding
// code for the same action.
func (h *OTPHandler) Issue(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req DeletionOTPRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.gate.Issue(c.Request.Context(), tenantID, userID, req.Action); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(DeletionOTPResponse{Action: req.Action, Sent: true}))
}
