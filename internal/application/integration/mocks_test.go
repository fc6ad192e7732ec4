package integration

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/partner"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/domain/shared/valueobject"
	"github.com/erp/storesync/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRemoteClient is a mock implementation of RemoteCatalogClient
type MockRemoteClient struct {
	mock.Mock
}

func (m *MockRemoteClient) FetchAll(ctx context.Context, creds integration.ShopifyCredentials, kind integration.EntityKind) ([]integration.RemoteRecord, error) {
	args := m.Called(ctx, creds, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.RemoteRecord), args.Error(1)
}

func (m *MockRemoteClient) Create(ctx context.Context, creds integration.ShopifyCredentials, kind integration.EntityKind, payload integration.RemoteRecord) (*integration.PushResult, error) {
	args := m.Called(ctx, creds, kind, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.PushResult), args.Error(1)
}

func (m *MockRemoteClient) Update(ctx context.Context, creds integration.ShopifyCredentials, kind integration.EntityKind, remoteID string, payload integration.RemoteRecord) (*integration.PushResult, error) {
	args := m.Called(ctx, creds, kind, remoteID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.PushResult), args.Error(1)
}

func (m *MockRemoteClient) ShopName(ctx context.Context, creds integration.ShopifyCredentials) (string, error) {
	args := m.Called(ctx, creds)
	return args.String(0), args.Error(1)
}

// MockConnectionRepository is a mock implementation of ConnectionRepository
type MockConnectionRepository struct {
	mock.Mock
}

func (m *MockConnectionRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*integration.StoreConnection, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.StoreConnection), args.Error(1)
}

func (m *MockConnectionRepository) Save(ctx context.Context, conn *integration.StoreConnection) error {
	args := m.Called(ctx, conn)
	return args.Error(0)
}

// MockSyncRunRepository is a mock implementation of SyncRunRepository
type MockSyncRunRepository struct {
	mock.Mock
}

func (m *MockSyncRunRepository) Save(ctx context.Context, run *integration.SyncRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockSyncRunRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*integration.SyncRun, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.SyncRun), args.Error(1)
}

func (m *MockSyncRunRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter integration.SyncRunFilter) ([]integration.SyncRun, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]integration.SyncRun), args.Get(1).(int64), args.Error(2)
}

// MockSyncGuard is a mock implementation of SyncGuard
type MockSyncGuard struct {
	mock.Mock
	released int
}

func (m *MockSyncGuard) Acquire(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind) (func(), error) {
	args := m.Called(ctx, tenantID, kind)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func() { m.released++ }, nil
}

// staticCreds resolves fixed credentials, or err when set
type staticCreds struct {
	shopify    integration.ShopifyCredentials
	shiprocket integration.ShiprocketCredentials
	err        error
}

func (c staticCreds) Shopify(ctx context.Context, tenantID uuid.UUID) (integration.ShopifyCredentials, error) {
	if c.err != nil {
		return integration.ShopifyCredentials{}, c.err
	}
	return c.shopify, nil
}

func (c staticCreds) Shiprocket(ctx context.Context, tenantID uuid.UUID) (integration.ShiprocketCredentials, error) {
	if c.err != nil {
		return integration.ShiprocketCredentials{}, c.err
	}
	return c.shiprocket, nil
}

// ---------------------------------------------------------------------------
// In-memory stores
// ---------------------------------------------------------------------------

type memProducts struct {
	mu      sync.Mutex
	items   map[uuid.UUID]catalog.Product
	saveErr error
	saves   int
}

func newMemProducts() *memProducts {
	return &memProducts{items: make(map[uuid.UUID]catalog.Product)}
}

func cloneProduct(p catalog.Product) *catalog.Product {
	cp := p
	cp.Variants = append([]catalog.Variant(nil), p.Variants...)
	return &cp
}

func (s *memProducts) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (s *memProducts) FindByRemoteID(ctx context.Context, tenantID uuid.UUID, remoteID string) (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.items {
		if p.TenantID == tenantID && p.RemoteKey() == remoteID {
			return cloneProduct(p), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *memProducts) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, err := s.FindByID(ctx, tenantID, id); err == nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *memProducts) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Product, 0)
	for _, p := range s.items {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (s *memProducts) ListIDs(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uuid.UUID, 0)
	for id, p := range s.items {
		if p.TenantID == tenantID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

func (s *memProducts) Save(ctx context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.items[p.ID] = *cloneProduct(*p)
	return nil
}

func (s *memProducts) SetRemoteID(ctx context.Context, tenantID, id uuid.UUID, remoteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.RemoteID = &remoteID
	s.items[id] = p
	return nil
}

func (s *memProducts) SetVariantRemoteIDs(ctx context.Context, productID uuid.UUID, bySKU map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[productID]
	if !ok {
		return shared.ErrNotFound
	}
	for i := range p.Variants {
		if id, ok := bySKU[p.Variants[i].SKU]; ok {
			p.Variants[i].RemoteID = &id
		}
	}
	s.items[productID] = p
	return nil
}

func (s *memProducts) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

type memNames struct {
	mu    sync.Mutex
	byKey map[string]uuid.UUID
	names map[uuid.UUID]string
}

func newMemNames() *memNames {
	return &memNames{byKey: make(map[string]uuid.UUID), names: make(map[uuid.UUID]string)}
}

func (s *memNames) lookupOrCreate(tenantID uuid.UUID, name string) (uuid.UUID, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := tenantID.String() + "/" + valueobject.NormalizeName(name)
	if id, ok := s.byKey[key]; ok {
		return id, s.names[id]
	}
	id := uuid.New()
	s.byKey[key] = id
	s.names[id] = valueobject.CleanName(name)
	return id, s.names[id]
}

func (s *memNames) count() int {
	s.mu.Lock()
	defer  s.mu.Unlock()
	return len(s.byKey)
}

type memCategories struct{ *memNames }

func (s memCategories) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Category, error) {
	return nil, shared.ErrNotFound
}

func (s memCategories) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*catalog.Category, error) {
	return nil, shared.ErrNotFound
}

func (s memCategories) FindAll(ctx context.Context, tenantID uuid.UUID) ([]catalog.Category, error) {
	return nil, nil
}

func (s memCategories) LookupOrCreate(ctx context.Context, tenantID uuid.UUID, name string) (*catalog.Category, error) {
	c, err := catalog.NewCategory(tenantID, name)
	if err != nil {
		return nil, err
	}
	c.ID, c.Name = s.lookupOrCreate(tenantID, name)
	return c, nil
}

type memVendors struct{ *memNames }

func (s memVendors) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Vendor, error) {
	return nil, shared.ErrNotFound
}

func (s memVendors) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*catalog.Vendor, error) {
	return nil, shared.ErrNotFound
}

func (s memVendors) FindAll(ctx context.Context, tenantID uuid.UUID) ([]catalog.Vendor, error) {
	return nil, nil
}

func (s memVendors) LookupOrCreate(ctx context.Context, tenantID uuid.UUID, name string) (*catalog.Vendor, error) {
	v, err := catalog.NewVendor(tenantID, name)
	if err != nil {
		return nil, err
	}
	v.ID, v.Name = s.lookupOrCreate(tenantID, name)
	return v, nil
}

type memCustomers struct {
	mu    sync.Mutex
	items map[uuid.UUID]partner.Customer
}

func newMemCustomers() *memCustomers {
	return &memCustomers{items: make(map[uuid.UUID]partner.Customer)}
}

func (s *memCustomers) find(match func(c partner.Customer) bool) (*partner.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.items {
		if match(c) {
			cp := c
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *memCustomers) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	return s.find(func(c partner.Customer) bool { return c.TenantID == tenantID && c.ID == id })
}

func (s *memCustomers) FindByRemoteID(ctx context.Context, tenantID uuid.UUID, remoteID string) (*partner.Customer, error) {
	return s.find(func(c partner.Customer) bool { return c.TenantID == tenantID && c.RemoteKey() == remoteID })
}

func (s *memCustomers) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*partner.Customer, error) {
	return s.find(func(c partner.Customer) bool { return c.TenantID == tenantID && strings.EqualFold(c.Email, email) })
}

func (s *memCustomers) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]partner.Customer, error) {
	return nil, nil
}

func (s *memCustomers) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, int64, error) {
	return nil, 0, nil
}

func (s *memCustomers) ListIDs(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uuid.UUID, 0)
	for id, c := range s.items {
		if c.TenantID == tenantID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *memCustomers) Save(ctx context.Context, c *partner.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[c.ID] = *c
	return nil
}

func (s *memCustomers) SetRemoteID(ctx context.Context, tenantID, id uuid.UUID, remoteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return shared.ErrNotFound
	}
	c.RemoteID = &remoteID
	s.items[id] = c
	return nil
}

func (s *memCustomers) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

type memOrders struct {
	mu    sync.Mutex
	items map[uuid.UUID]trade.Order
	saves int
}

func newMemOrders() *memOrders {
	return &memOrders{items: make(map[uuid.UUID]trade.Order)}
}

func (s *memOrders) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*trade.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.items[id]
	if !ok || o.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &o, nil
}

func (s *memOrders) FindByRemoteID(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) (*trade.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.items {
		if o.TenantID == tenantID && o.RemoteOrderID == remoteOrderID {
			cp := o
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *memOrders) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Order, int64, error) {
	return nil, 0, nil
}

func (s *memOrders) Save(ctx context.Context, o *trade.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.items[o.ID] = *o
	return nil
}

func (s *memOrders) UpdateLocalFields(ctx context.Context, o *trade.Order) error {
	return s.Save(ctx, o)
}

type testStores struct {
	products   *memProducts
	categories *memNames
	vendors    *memNames
	customers  *memCustomers
	orders     *memOrders
}

func newTestStores() *testStores {
	return &testStores{
		products:   newMemProducts(),
		categories: newMemNames(),
		vendors:    newMemNames(),
		customers:  newMemCustomers(),
		orders:     newMemOrders(),
	}
}

func (s *testStores) Stores() Stores {
	return Stores{
		Products:   s.products,
		Categories: memCategories{s.categories},
		Vendors:    memVendors{s.vendors},
		Customers:  s.customers,
		Orders:     s.orders,
	}
}
