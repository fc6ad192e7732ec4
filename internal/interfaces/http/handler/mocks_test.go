package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/erp/storesync/internal/application/catalog"
	integrationapp "github.com/erp/storesync/internal/application/integration"
	partnerapp "github.com/erp/storesync/internal/application/partner"
	tradeapp "github.com/erp/storesync/internal/application/trade"
	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/interfaces/http/dto"
	"github.com/erp/storesync/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

var (
	testTenantID = uuid.MustParse("7d1c1f9e-4f6a-4b8e-9c55-2f0e8a3b1c01")
	testUserID   = uuid.MustParse("b3e0c2a4-90d1-4c7e-8f3a-6a5d4e2b7c02")
)

// newTestRouter authenticates every request as the test tenant
func newTestRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), func(c *gin.Context) {
		c.Set(middleware.JWTTenantIDKey, testTenantID.String())
		c.Set(middleware.JWTUserIDKey, testUserID.String())
		c.Next()
	})
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Create(ctx context.Context, tenantID uuid.UUID, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, tenantID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) List(ctx context.Context, tenantID uuid.UUID, filter catalogapp.ProductListFilter) (shared.Paginated[catalogapp.ProductResponse], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[catalogapp.ProductResponse]), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, tenantID, productID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, tenantID, userID, productID uuid.UUID, code string) error {
	return m.Called(ctx, tenantID, userID, productID, code).Error(0)
}

func (m *MockProductService) ListCategories(ctx context.Context, tenantID uuid.UUID) ([]catalogapp.NamedResponse, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]catalogapp.NamedResponse), args.Error(1)
}

func (m *MockProductService) ListVendors(ctx context.Context, tenantID uuid.UUID) ([]catalogapp.NamedResponse, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]catalogapp.NamedResponse), args.Error(1)
}

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) Create(ctx context.Context, tenantID uuid.UUID, req partnerapp.CreateCustomerRequest) (*partnerapp.CustomerResponse, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.CustomerResponse), args.Error(1)
}

func (m *MockCustomerService) GetByID(ctx context.Context, tenantID, customerID uuid.UUID) (*partnerapp.CustomerResponse, error) {
	args := m.Called(ctx, tenantID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.CustomerResponse), args.Error(1)
}

func (m *MockCustomerService) List(ctx context.Context, tenantID uuid.UUID, filter partnerapp.CustomerListFilter) (shared.Paginated[partnerapp.CustomerResponse], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[partnerapp.CustomerResponse]), args.Error(1)
}

func (m *MockCustomerService) Update(ctx context.Context, tenantID, customerID uuid.UUID, req partnerapp.UpdateCustomerRequest) (*partnerapp.CustomerResponse, error) {
	args := m.Called(ctx, tenantID, customerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.CustomerResponse), args.Error(1)
}

func (m *MockCustomerService) Delete(ctx context.Context, tenantID, userID, customerID uuid.UUID, code string) error {
	return m.Called(ctx, tenantID, userID, customerID, code).Error(0)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*tradeapp.OrderResponse, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderResponse), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, tenantID uuid.UUID, filter tradeapp.OrderListFilter) (shared.Paginated[tradeapp.OrderResponse], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[tradeapp.OrderResponse]), args.Error(1)
}

func (m *MockOrderService) UpdateErpStatus(ctx context.Context, tenantID, orderID uuid.UUID, req tradeapp.UpdateErpStatusRequest) (*tradeapp.OrderResponse, error) {
	args := m.Called(ctx, tenantID, orderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderResponse), args.Error(1)
}

func (m *MockOrderService) CreateShipment(ctx context.Context, tenantID, orderID uuid.UUID) (*tradeapp.OrderResponse, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderResponse), args.Error(1)
}

type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) Pull(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind) (*integrationapp.SyncRunResponse, error) {
	args := m.Called(ctx, tenantID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.SyncRunResponse), args.Error(1)
}

func (m *MockSyncService) Push(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind, ids []uuid.UUID) (*integrationapp.SyncRunResponse, error) {
	args := m.Called(ctx, tenantID, kind, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.SyncRunResponse), args.Error(1)
}

func (m *MockSyncService) PushOne(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind, id uuid.UUID) (*integrationapp.SyncRunResponse, error) {
	args := m.Called(ctx, tenantID, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.SyncRunResponse), args.Error(1)
}

type MockRunReporter struct {
	mock.Mock
}

func (m *MockRunReporter) GetRun(ctx context.Context, tenantID, id uuid.UUID) (*integrationapp.SyncRunResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.SyncRunResponse), args.Error(1)
}

func (m *MockRunReporter) FindRun(ctx context.Context, tenantID, id uuid.UUID) (*integration.SyncRun, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.SyncRun), args.Error(1)
}

func (m *MockRunReporter) ListRuns(ctx context.Context, tenantID uuid.UUID, f integrationapp.SyncRunListFilter) (shared.Paginated[integrationapp.SyncRunListItem], error) {
	args := m.Called(ctx, tenantID, f)
	return args.Get(0).(shared.Paginated[integrationapp.SyncRunListItem]), args.Error(1)
}

type MockConnectionService struct {
	mock.Mock
}

func (m *MockConnectionService) Get(ctx context.Context, tenantID uuid.UUID) (*integrationapp.ConnectionResponse, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.ConnectionResponse), args.Error(1)
}

func (m *MockConnectionService) Update(ctx context.Context, tenantID uuid.UUID, req integrationapp.UpdateConnectionRequest) (*integrationapp.ConnectionResponse, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.ConnectionResponse), args.Error(1)
}

func (m *MockConnectionService) Test(ctx context.Context, tenantID uuid.UUID) (*integrationapp.ConnectionResponse, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.ConnectionResponse), args.Error(1)
}

type MockConfirmationGate struct {
	mock.Mock
}

func (m *MockConfirmationGate) Issue(ctx context.Context, tenantID, userID uuid.UUID, action string) error {
	return m.Called(ctx, tenantID, userID, action).Error(0)
}

func (m *MockConfirmationGate) Verify(ctx context.Context, tenantID, userID uuid.UUID, action, code string) error {
	return m.Called(ctx, tenantID, userID, action, code).Error(0)
}

var (
	_ ProductService                 = (*MockProductService)(nil)
	_ CustomerService                = (*MockCustomerService)(nil)
	_ OrderService                   = (*MockOrderService)(nil)
	_ SyncService                    = (*MockSyncService)(nil)
	_ RunReporter                    = (*MockRunReporter)(nil)
	_ ConnectionService              = (*MockConnectionService)(nil)
	_ integration.ConfirmationGate   = (*MockConfirmationGate)(nil)
	_ ProductService                 = (*catalogapp.ProductService)(nil)
	_ CustomerService                = (*partnerapp.CustomerService)(nil)
	_ OrderService                   = (*tradeapp.OrderService)(nil)
	_ SyncService                    = (*integrationapp.SyncService)(nil)
	_ RunReporter                    = (*integrationapp.Reporter)(nil)
	_ ConnectionService              = (*integrationapp.ConnectionService)(nil)
)
