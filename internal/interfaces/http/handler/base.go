package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/infrastructure/logger"
	"github.com/erp/storesync/internal/interfaces/http/dto"
	"github.com/erp/storesync/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a page of items with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// ValidationError sends a 400 response listing the rejected fields
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		middleware.GetRequestID(c),
		details,
	))
}

// tenant returns the authenticated tenant, answering 401 when absent
func (h *BaseHandler) tenant(c *gin.Context) (uuid.UUID, bool) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
	}
	return tenantID, ok
}

// caller returns the authenticated tenant and user
func (h *BaseHandler) caller(c *gin.Context) (tenantID, userID uuid.UUID, ok bool) {
	if tenantID, ok = h.tenant(c); !ok {
		return
	}
	if userID, ok = middleware.UserID(c); !ok {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
	}
	return
}

// pathID parses a UUID path parameter
func (h *BaseHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// pathKind parses the {kind} path parameter
func (h *BaseHandler) pathKind(c *gin.Context) (integration.EntityKind, bool) {
	kind, err := integration.ParseEntityKind(c.Param("kind"))
	if err != nil {
		h.HandleError(c, err)
		return "", false
	}
	return kind, true
}

// bindJSON binds the request body, answering 400 on failure
func (h *BaseHandler) bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.bindError(c, err, "Invalid request body")
		return false
	}
	return true
}

// bindQuery binds the query string, answering 400 on failure
func (h *BaseHandler) bindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.bindError(c, err, "Invalid query parameters")
		return false
	}
	return true
}

func (h *BaseHandler) bindError(c *gin.Context, err error, message string) {
	if details := middleware.ValidationDetails(err); details != nil {
		h.ValidationError(c, details)
		return
	}
	h.BadRequest(c, message)
}

var remoteKindCodes = map[integration.RemoteErrorKind]string{
	integration.RemoteErrorAuth:        dto.ErrCodeRemoteAuth,
	integration.RemoteErrorRateLimited: dto.ErrCodeRemoteRateLimited,
	integration.RemoteErrorNetwork:     dto.ErrCodeRemoteUnavailable,
	integration.RemoteErrorValidation:  dto.ErrCodeRemoteRejected,
	integration.RemoteErrorConflict:    dto.ErrCodeRemoteConflict,
	integration.RemoteErrorNotFound:    dto.ErrCodeRemoteNotFound,
}

var sentinelCodes = []struct {
	err  error
	code string
}{
	{integration.ErrSyncInProgress, dto.ErrCodeSyncInProgress},
	{integration.ErrUnknownEntityKind, dto.ErrCodeUnknownKind},
	{integration.ErrPushUnsupportedKind, dto.ErrCodePushUnsupported},
	{integration.ErrConfirmationRequired, dto.ErrCodeConfirmationRequired},
	{integration.ErrConfirmationInvalid, dto.ErrCodeConfirmationInvalid},
	{integration.ErrRecordNotFound, dto.ErrCodeNotFound},
}

// HandleError maps service errors to the response envelope. Errors that
// carry no classification are logged and answered with 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var notConfigured *integration.NotConfiguredError
	if errors.As(err, &notConfigured) {
		h.Error(c, http.StatusPreconditionFailed, dto.ErrCodeNotConfigured, notConfigured.Error())
		return
	}

	for _, s := range sentinelCodes {
		if errors.Is(err, s.err) {
			h.Error(c, dto.GetHTTPStatus(s.code), s.code, err.Error())
			return
		}
	}

	var remoteErr *integration.RemoteError
	if errors.As(err, &remoteErr) {
		code, ok := remoteKindCodes[remoteErr.Kind]
		if !ok {
			code = dto.ErrCodeRemoteUnavailable
		}
		message := remoteErr.Message
		if message == "" {
			message = remoteErr.Error()
		}
		h.Error(c, dto.GetHTTPStatus(code), code, message)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.DomainErrorStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	logger.L(c.Request.Context()).Error("Unhandled request error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	_ = c.Error(err)
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}
