package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/erp/storesync/internal/interfaces/http/middleware"
)

func TestOTPHandler_Issue(t *testing.T) {
	gate := new(MockConfirmationGate)
	r := newTestRouter()
	r.POST("/deletion-otp", NewOTPHandler(gate).Issue)

	gate.On("Issue", mock.Anything, testTenantID, testUserID, "delete_product").Return(nil)

	w := doRequest(t, r, http.MethodPost, "/deletion-otp", map[string]any{"action": "delete_product"})

	assert.Equal(t, http.StatusAccepted, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "delete_product", data["action"])
	assert.Equal(t, true, data["sent"])
	gate.AssertExpectations(t)
}

func TestOTPHandler_Issue_Rejected(t *testing.T) {
	t.Run("unknown action", func(t *testing.T) {
		gate := new(MockConfirmationGate)
		r := newTestRouter()
		r.POST("/deletion-otp", NewOTPHandler(gate).Issue)

		w := doRequest(t, r, http.MethodPost, "/deletion-otp", map[string]any{"action": "delete_order"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		gate.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing user", func(t *testing.T) {
		gate := new(MockConfirmationGate)
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set(middleware.JWTTenantIDKey, testTenantID.String())
			c.Next()
		})
		r.POST("/deletion-otp", NewOTPHandler(gate).Issue)

		w := doRequest(t, r, http.MethodPost, "/deletion-otp", map[string]any{"action": "delete_product"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		gate := new(MockConfirmationGate)
		r := newTestRouter()
		r.POST("/deletion-otp", NewOTPHandler(gate).Issue)
		gate.On("Issue", mock.Anything, testTenantID, testUserID, "delete_customer").
			Return(errors.New("redis: connection refused"))

		w := doRequest(t, r, http.MethodPost, "/deletion-otp", map[string]any{"action": "delete_customer"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
