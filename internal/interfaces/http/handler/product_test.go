package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/erp/storesync/internal/application/catalog"
	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/interfaces/http/dto"
	"github.com/erp/storesync/internal/interfaces/http/middleware"
)

func setupProductRoutes(svc *MockProductService) http.Handler {
	r := newTestRouter()
	h := NewProductHandler(svc)
	r.POST("/products", h.Create)
	r.GET("/products", h.List)
	r.GET("/products/:id", h.GetByID)
	r.PUT("/products/:id", h.Update)
	r.DELETE("/products/:id", h.Delete)
	r.GET("/categories", h.ListCategories)
	r.GET("/vendors", h.ListVendors)
	return r
}

func TestProductHandler_Create(t *testing.T) {
	svc := new(MockProductService)
	r := setupProductRoutes(svc)

	productID := uuid.New()
	svc.On("Create", mock.Anything, testTenantID, mock.MatchedBy(func(req catalogapp.CreateProductRequest) bool {
		return req.Title == "Linen shirt" && req.Category == "Apparel"
	})).Return(&catalogapp.ProductResponse{ID: productID, Title: "Linen shirt"}, nil)

	w := doRequest(t, r, http.MethodPost, "/products", map[string]any{
		"title":    "Linen shirt",
		"category": "Apparel",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, productID.String(), data["id"])
	svc.AssertExpectations(t)
}

func TestProductHandler_Create_ValidationDetails(t *testing.T) {
	svc := new(MockProductService)
	r := setupProductRoutes(svc)

	w := doRequest(t, r, http.MethodPost, "/products", map[string]any{
		"description":  "no title",
		"stock_status": "lost",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

	fields := make([]string, 0, len(resp.Error.Details))
	for _, d := range resp.Error.Details {
		fields = append(fields, d.Field)
	}
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "category")
	assert.Contains(t, fields, "stock_status")
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductHandler_Create_MalformedJSON(t *testing.T) {
	svc := new(MockProductService)
	r := setupProductRoutes(svc)

	w := doRequest(t, r, http.MethodPost, "/products", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeBadRequest, decodeResponse(t, w).Error.Code)
}

func TestProductHandler_List(t *testing.T) {
	svc := new(MockProductService)
	r := setupProductRoutes(svc)

	page := shared.NewPaginated([]catalogapp.ProductResponse{{ID: uuid.New(), Title: "Mug"}}, 41, 2, 20)
	svc.On("List", mock.Anything, testTenantID, mock.MatchedBy(func(f catalogapp.ProductListFilter) bool {
		return f.Page == 2 && f.PageSize == 20
	})).Return(page, nil)

	w := doRequest(t, r, http.MethodGet, "/products?page=2&page_size=20", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Len(t, resp.Data, 1)
	svc.AssertExpectations(t)
}

func TestProductHandler_GetByID_NotFound(t *testing.T) {
	svc := new(MockProductService)
	r := setupProductRoutes(svc)

	productID := uuid.New()
	svc.On("GetByID", mock.Anything, testTenantID, productID).Return(nil, shared.ErrNotFound)

	w := doRequest(t, r, http.MethodGet, "/products/"+productID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertExpectations(t)
}

func TestProductHandler_Update(t *testing.T) {
	svc := new(MockProductService)
	r := setupProductRoutes(svc)

	productID := uuid.New()
	svc.On("Update", mock.Anything, testTenantID, productID, mock.Anything).
		Return(&catalogapp.ProductResponse{ID: productID, Title: "Renamed"}, nil)

	w := doRequest(t, r, http.MethodPut, "/products/"+productID.String(), map[string]any{"title": "Renamed"})
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestProductHandler_Delete(t *testing.T) {
	t.Run("passes the confirmation code", func(t *testing.T) {
		svc := new(MockProductService)
		r := setupProductRoutes(svc)
		productID := uuid.New()
		svc.On("Delete", mock.Anything, testTenantID, testUserID, productID, "482913").Return(nil)

		w := doRequest(t, r, http.MethodDelete, "/products/"+productID.String(), nil,
			middleware.ConfirmationCodeHeader, "482913")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("missing code", func(t *testing.T) {
		svc := new(MockProductService)
		r := setupProductRoutes(svc)
		productID := uuid.New()
		svc.On("Delete", mock.Anything, testTenantID, testUserID, productID, "").
			Return(integration.ErrConfirmationRequired)

		w := doRequest(t, r, http.MethodDelete, "/products/"+productID.String(), nil)

		assert.Equal(t, http.StatusPreconditionRequired, w.Code)
		assert.Equal(t, dto.ErrCodeConfirmationRequired, decodeResponse(t, w).Error.Code)
	})

	t.Run("remote delete fails", func(t *testing.T) {
		svc := new(MockProductService)
		r := setupProductRoutes(svc)
		productID := uuid.New()
		svc.On("Delete", mock.Anything, testTenantID, testUserID, productID, "111111").
			Return(integration.NewRemoteError(integration.PlatformShopify, integration.RemoteErrorNetwork, 503, "Service unavailable", nil))

		w := doRequest(t, r, http.MethodDelete, "/products/"+productID.String(), nil,
			middleware.ConfirmationCodeHeader, "111111")

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, dto.ErrCodeRemoteUnavailable, decodeResponse(t, w).Error.Code)
	})
}

func TestProductHandler_Lookups(t *testing.T) {
	svc := new(MockProductService)
	r := setupProductRoutes(svc)

	svc.On("ListCategories", mock.Anything, testTenantID).
		Return([]catalogapp.NamedResponse{{Name: "Apparel"}}, nil)
	svc.On("ListVendors", mock.Anything, testTenantID).
		Return([]catalogapp.NamedResponse{}, nil)

	w := doRequest(t, r, http.MethodGet, "/categories", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w).Data, 1)

	w = doRequest(t, r, http.MethodGet, "/vendors", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
