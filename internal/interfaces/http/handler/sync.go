package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	integrationapp "github.com/erp/storesync/internal/application/integration"
	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/infrastructure/export"
)

// SyncService runs pulls and pushes for one tenant
type SyncService interface {
	Pull(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind) (*integrationapp.SyncRunResponse, error)
	Push(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind, ids []uuid.UUID) (*integrationapp.SyncRunResponse, error)
	PushOne(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind, id uuid.UUID) (*integrationapp.SyncRunResponse, error)
}

// RunReporter reads stored sync runs
type RunReporter interface {
	GetRun(ctx context.Context, tenantID, id uuid.UUID) (*integrationapp.SyncRunResponse, error)
	FindRun(ctx context.Context, tenantID, id uuid.UUID) (*integration.SyncRun, error)
	ListRuns(ctx context.Context, tenantID uuid.UUID, f integrationapp.SyncRunListFilter) (shared.Paginated[integrationapp.SyncRunListItem], error)
}

// SyncHandler exposes pull, push and run history
type SyncHandler struct {
	BaseHandler
	syncService SyncService
	reporter    RunReporter
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(syncService SyncService, reporter RunReporter) *SyncHandler {
	return &SyncHandler{syncService: syncService, reporter: reporter}
}

// Pull handles POST /sync/:kind/pull. A run with failed records is still a
// 200; only whole-run failures are errors.
func (h *SyncHandler) Pull(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	kind, ok := h.pathKind(c)
	if !ok {
		return
	}

	run, err := h.syncService.Pull(c.Request.Context(), tenantID, kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, run)
}

// Push handles POST /sync/:kind/push. A missing body or empty id list
// pushes every local record of the kind.
func (h *SyncHandler) Push(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	kind, ok := h.pathKind(c)
	if !ok {
		return
	}
	var req integrationapp.PushRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.bindError(c, err, "Invalid request body")
		return
	}

	run, err := h.syncService.Push(c.Request.Context(), tenantID, kind, req.IDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, run)
}

// PushOne handles POST /sync/:kind/push/:id
func (h *SyncHandler) PushOne(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	kind, ok := h.pathKind(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	run, err := h.syncService.PushOne(c.Request.Context(), tenantID, kind, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, run)
}

// ListRuns handles GET /sync/runs
func (h *SyncHandler) ListRuns(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter integrationapp.SyncRunListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.reporter.ListRuns(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetRun handles GET /sync/runs/:id
func (h *SyncHandler) GetRun(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	run, err := h.reporter.GetRun(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, run)
}

// ExportFailures handles GET /sync/runs/:id/failures.xlsx
func (h *SyncHandler) ExportFailures(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	run, err := h.reporter.FindRun(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteRunFailures(&buf, run); err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.RunFailuresFilename(run)))
	c.Data(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}
