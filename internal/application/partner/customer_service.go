package partner

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/partner"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeleteCustomerAction is the confirmation action for customer deletion
const DeleteCustomerAction = "delete_customer"

// ErrEmailTaken is returned when another customer already uses the email
var ErrEmailTaken = shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	gate         integration.ConfirmationGate
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, gate integration.ConfirmationGate, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		gate:         gate,
		logger:       logger,
	}
}

func (s *CustomerService) ensureEmailFree(ctx context.Context, tenantID uuid.UUID, email string, self uuid.UUID) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	existing, err := s.customerRepo.FindByEmail(ctx, tenantID, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return ErrEmailTaken
	}
	return nil
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	if err := s.ensureEmailFree(ctx, tenantID, req.Email, uuid.Nil); err != nil {
		return nil, err
	}

	customer, err := partner.NewCustomer(tenantID, partner.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Note:      req.Note,
		Tags:      req.Tags,
		Address:   req.Address.toDomain(),
	})
	if err != nil {
		return nil, err
	}
	customer.AssignCustCode(req.CustCode)

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves a page of customers
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter CustomerListFilter) (shared.Paginated[CustomerResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search
	if filter.Synced != nil {
		f.Filters["synced"] = *filter.Synced
	}

	customers, total, err := s.customerRepo.FindAll(ctx, tenantID, f)
	if err != nil {
		return shared.Paginated[CustomerResponse]{}, err
	}
	return shared.NewPaginated(ToCustomerResponses(customers), total, f.Page, f.PageSize), nil
}

// Update replaces the customer's profile
func (s *CustomerService) Update(ctx context.Context, tenantID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, tenantID, req.Email, customer.ID); err != nil {
		return nil, err
	}

	if err := customer.UpdateProfile(partner.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Note:      req.Note,
		Tags:      req.Tags,
		Address:   req.Address.toDomain(),
	}); err != nil {
		return nil, err
	}
	if req.CustCode != nil {
		customer.AssignCustCode(*req.CustCode)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete removes a customer after the user confirmed the action with a
// one-time code. The storefront copy is not touched.
func (s *CustomerService) Delete(ctx context.Context, tenantID, userID, customerID uuid.UUID, code string) error {
	if strings.TrimSpace(code) == "" {
		return integration.ErrConfirmationRequired
	}
	if _, err := s.customerRepo.FindByID(ctx, tenantID, customerID); err != nil {
		return err
	}
	if err := s.gate.Verify(ctx, tenantID, userID, DeleteCustomerAction, code); err != nil {
		return err
	}
	if err := s.customerRepo.Delete(ctx, tenantID, customerID); err != nil {
		return err
	}
	s.logger.Info("Customer deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("customer_id", customerID.String()),
	)
	return nil
}
