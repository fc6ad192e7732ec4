package partner

import (
	"context"
	"testing"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/partner"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByRemoteID(ctx context.Context, tenantID uuid.UUID, remoteID string) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, remoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]partner.Customer, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) ListIDs(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) SetRemoteID(ctx context.Context, tenantID, id uuid.UUID, remoteID string) error {
	args := m.Called(ctx, tenantID, id, remoteID)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockConfirmationGate is a mock implementation of ConfirmationGate
type MockConfirmationGate struct {
	mock.Mock
}

func (m *MockConfirmationGate) Issue(ctx context.Context, tenantID, userID uuid.UUID, action string) error {
	args := m.Called(ctx, tenantID, userID, action)
	return args.Error(0)
}

func (m *MockConfirmationGate) Verify(ctx context.Context, tenantID, userID uuid.UUID, action, code string) error {
	args := m.Called(ctx, tenantID, userID, action, code)
	return args.Error(0)
}

func TestCustomerService_Create(t *testing.T) {
	repo := new(MockCustomerRepository)
	tenantID := uuid.New()
	repo.On("FindByEmail", mock.Anything, tenantID, "asha@example.com").Return(nil, shared.ErrNotFound)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil)
	svc := NewCustomerService(repo, new(MockConfirmationGate), zap.NewNop())

	resp, err := svc.Create(context.Background(), tenantID, CreateCustomerRequest{
		CustCode:  "C-001",
		FirstName: "Asha",
		Email:     "asha@example.com",
		Address:   AddressRequest{City: "Pune", Country: "India"},
	})

	require.NoError(t, err)
	assert.Equal(t, "C-001", resp.CustCode)
	assert.Equal(t, "Pune", resp.City)
	assert.Equal(t, []string{}, resp.Tags)
	assert.True(t, resp.AmountSpent.IsZero())
}

func TestCustomerService_CreateDuplicateEmail(t *testing.T) {
	repo := new(MockCustomerRepository)
	tenantID := uuid.New()
	other, _ := partner.NewCustomer(tenantID, partner.Profile{Email: "asha@example.com"})
	repo.On("FindByEmail", mock.Anything, tenantID, "asha@example.com").Return(other, nil)
	svc := NewCustomerService(repo, new(MockConfirmationGate), zap.NewNop())

	_, err := svc.Create(context.Background(), tenantID, CreateCustomerRequest{FirstName: "Asha", Email: "asha@example.com"})

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCustomerService_UpdateLeavesMetrics(t *testing.T) {
	repo := new(MockCustomerRepository)
	tenantID := uuid.New()
	c, _ := partner.NewCustomer(tenantID, partner.Profile{FirstName: "Asha"})
	c.AssignCustCode("C-001")
	c.ApplyRemoteMetrics(partner.Metrics{NumberOfOrders: 3, AmountSpent: decimal.NewFromInt(300), CurrencyCode: "INR"})
	repo.On("FindByID", mock.Anything, tenantID, c.ID).Return(c, nil)
	repo.On("Save", mock.Anything, c).Return(nil)
	svc := NewCustomerService(repo, new(MockConfirmationGate), zap.NewNop())

	code := "C-999"
	resp, err := svc.Update(context.Background(), tenantID, c.ID, UpdateCustomerRequest{CustCode: &code, FirstName: "Asha", LastName: "Rao"})

	require.NoError(t, err)
	assert.Equal(t, "Rao", resp.LastName)
	assert.Equal(t, 3, resp.NumberOfOrders)
	assert.Equal(t, "C-001", resp.CustCode)
}

func TestCustomerService_DeleteVerifiesCode(t *testing.T) {
	repo := new(MockCustomerRepository)
	gate := new(MockConfirmationGate)
	tenantID, userID := uuid.New(), uuid.New()
	c, _ := partner.NewCustomer(tenantID, partner.Profile{FirstName: "Asha"})
	repo.On("FindByID", mock.Anything, tenantID, c.ID).Return(c, nil)
	gate.On("Verify", mock.Anything, tenantID, userID, DeleteCustomerAction, "111111").Return(integration.ErrConfirmationInvalid).Once()
	gate.On("Verify", mock.Anything, tenantID, userID, DeleteCustomerAction, "222222").Return(nil).Once()
	repo.On("Delete", mock.Anything, tenantID, c.ID).Return(nil).Once()
	svc := NewCustomerService(repo, gate, zap.NewNop())

	assert.ErrorIs(t, svc.Delete(context.Background(), tenantID, userID, c.ID, ""), integration.ErrConfirmationRequired)
	assert.ErrorIs(t, svc.Delete(context.Background(), tenantID, userID, c.ID, "111111"), integration.ErrConfirmationInvalid)
	require.NoError(t, svc.Delete(context.Background(), tenantID, userID, c.ID, "222222"))
	repo.AssertExpectations(t)
}
