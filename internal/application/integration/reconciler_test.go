package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/partner"
	"github.com/erp/storesync/internal/domain/shared/valueobject"
	"github.com/erp/storesync/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testCreds = integration.ShopifyCredentials{ShopDomain: "acme.myshopify.com", AccessToken: "shpat_test"}

func intPtr(v int) *int { return &v }

func newTestReconciler(stores *testStores, client *MockRemoteClient) *Reconciler {
	return NewReconciler(client, staticCreds{shopify: testCreds}, stores.Stores(), zap.NewNop())
}

func remoteTShirt() integration.RemoteProduct {
	return integration.RemoteProduct{
		ID:          "gid://shopify/Product/1",
		Title:       "T-Shirt",
		Description: "Cotton tee",
		ProductType: "Apparel",
		Vendor:      "Acme",
		Status:      "ACTIVE",
		Tags:        []string{"summer", "cotton"},
		Variants: []integration.RemoteVariant{
			{ID: "gid://shopify/ProductVariant/11", Title: "Small", SKU: "TS-S", Price: "19.99", InventoryQuantity: intPtr(10), AvailableForSale: true},
			{ID: "gid://shopify/ProductVariant/12", Title: "Large", SKU: "TS-L", Price: "21.50", InventoryQuantity: intPtr(3), AvailableForSale: true},
		},
	}
}

func TestReconciler_Merge_CreatesProductWithCategoryAndVendor(t *testing.T) {
	stores := newTestStores()
	r := newTestReconciler(stores, new(MockRemoteClient))
	tenantID := uuid.New()

	report := r.Merge(context.Background(), tenantID, integration.EntityKindProduct, []integration.RemoteRecord{remoteTShirt()})

	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 0, report.Failed)
	require.Len(t, report.Results, 1)
	require.NotNil(t, report.Results[0].LocalID)

	p, err := stores.products.FindByRemoteID(context.Background(), tenantID, "gid://shopify/Product/1")
	require.NoError(t, err)
	assert.Equal(t, "T-Shirt", p.Title)
	assert.Equal(t, `["summer","cotton"]`, p.Tags.String())
	assert.Len(t, p.Variants, 2)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, catalog.StockStatusInStock, p.StockStatus)
	assert.Equal(t, catalog.SourceRemote, p.CategorySource)
	assert.NotNil(t, p.VendorID)
	assert.Equal(t, 1, stores.categories.count())
	assert.Equal(t, 1, stores.vendors.count())
}

func TestReconciler_Merge_IsIdempotent(t *testing.T) {
	stores := newTestStores()
	r := newTestReconciler(stores, new(MockRemoteClient))
	tenantID := uuid.New()
	batch := []integration.RemoteRecord{remoteTShirt()}

	first := r.Merge(context.Background(), tenantID, integration.EntityKindProduct, batch)
	second := r.Merge(context.Background(), tenantID, integration.EntityKindProduct, batch)

	assert.Equal(t, 1, first.Created)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Updated)
	assert.Len(t, stores.products.items, 1)
	assert.Equal(t, 1, stores.categories.count())

	p, err := stores.products.FindByRemoteID(context.Background(), tenantID, "gid://shopify/Product/1")
	require.NoError(t, err)
	assert.Len(t, p.Variants, 2)
}

func TestReconciler_Merge_KeepsLocalCategoryAndVariants(t *testing.T) {
	stores := newTestStores()
	r := newTestReconciler(stores, new(MockRemoteClient))
	tenantID := uuid.New()
	ctx := context.Background()

	local, err := memCategories{stores.categories}.LookupOrCreate(ctx, tenantID, "Shirts")
	require.NoError(t, err)
	p, err := catalog.NewProduct(tenantID, "Old title", local.ID)
	require.NoError(t, err)
	require.NoError(t, p.AssignCategory(local, catalog.SourceLocal))
	require.NoError(t, p.AssignRemoteID("gid://shopify/Product/1"))
	_, err = p.AddVariant(catalog.VariantSpec{Title: "Kids", SKU: "TS-K", Price: decimal.NewFromInt(9), TaxRate: decimal.NewFromInt(12)})
	require.NoError(t, err)
	_, err = p.AddVariant(catalog.VariantSpec{Title: "Small", SKU: "TS-S", Price: decimal.NewFromInt(15), TaxRate: decimal.NewFromInt(18)})
	require.NoError(t, err)
	require.NoError(t, stores.products.Save(ctx, p))

	remote := remoteTShirt()
	remote.ProductType = ""
	report := r.Merge(ctx, tenantID, integration.EntityKindProduct, []integration.RemoteRecord{remote})
	require.Equal(t, 1, report.Updated)

	got, err := stores.products.FindByID(ctx, tenantID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Old title", got.Title)
	assert.Equal(t, "Cotton tee", got.Description)
	assert.Equal(t, local.ID, got.CategoryID)
	assert.Len(t, got.Variants, 3)
	assert.NotNil(t, got.FindVariantBySKU("TS-K"))

	small := got.FindVariantBySKU("TS-S")
	require.NotNil(t, small)
	assert.True(t, small.Price.Equal(decimal.RequireFromString("19.99")))
	assert.True(t, small.TaxRate.Equal(decimal.NewFromInt(18)))
}

func TestReconciler_Merge_BlankRemoteValuesKeepLocal(t *testing.T) {
	tests := []struct {
		name     string
		local    func(p *catalog.Product)
		remote   func(rp *integration.RemoteProduct)
		wantDesc string
		wantTags string
		wantName string
	}{
		{
			name:     "blank tags keep local tags",
			local:    func(p *catalog.Product) { p.SetTags([]string{"local-curated"}) },
			remote:   func(rp *integration.RemoteProduct) { rp.Tags = nil },
			wantDesc: "Cotton tee",
			wantTags: `["local-curated"]`,
			wantName: "Old title",
		},
		{
			name:     "blank description keeps local description",
			local:    func(p *catalog.Product) { p.SetDescription("Hand written") },
			remote:   func(rp *integration.RemoteProduct) { rp.Description = "  " },
			wantDesc: "Hand written",
			wantTags: `["summer","cotton"]`,
			wantName: "Old title",
		},
		{
			name: "local edits are not overwritten by remote values",
			local: func(p *catalog.Product) {
				p.SetDescription("Hand written")
				p.SetTags([]string{"mine"})
			},
			remote:   func(rp *integration.RemoteProduct) {},
			wantDesc: "Hand written",
			wantTags: `["mine"]`,
			wantName: "Old title",
		},
		{
			name: "remote sourced fields follow the storefront",
			local: func(p *catalog.Product) {
				p.MarkRemoteSourced(catalog.RemoteTitle | catalog.RemoteDescription | catalog.RemoteTags)
			},
			remote: func(rp *integration.RemoteProduct) {
				rp.Title = "Tee v2"
				rp.Tags = []string{"autumn"}
			},
			wantDesc: "Cotton tee",
			wantTags: `["autumn"]`,
			wantName: "Tee v2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stores := newTestStores()
			r := newTestReconciler(stores, new(MockRemoteClient))
			tenantID := uuid.New()
			ctx := context.Background()

			category, err := memCategories{stores.categories}.LookupOrCreate(ctx, tenantID, "Shirts")
			require.NoError(t, err)
			p, err := catalog.NewProduct(tenantID, "Old title", category.ID)
			require.NoError(t, err)
			require.NoError(t, p.AssignRemoteID("gid://shopify/Product/1"))
			tt.local(p)
			require.NoError(t, stores.products.Save(ctx, p))

			remote := remoteTShirt()
			tt.remote(&remote)
			report := r.Merge(ctx, tenantID, integration.EntityKindProduct, []integration.RemoteRecord{remote})
			require.Equal(t, 1, report.Updated)

			got, err := stores.products.FindByID(ctx, tenantID, p.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Title)
			assert.Equal(t, tt.wantDesc, got.Description)
			assert.Equal(t, tt.wantTags, got.Tags.String())
		})
	}
}

func TestReconciler_Merge_NewProductWithoutCategoryIsSkipped(t *testing.T) {
	stores := newTestStores()
	r := newTestReconciler(stores, new(MockRemoteClient))

	remote := remoteTShirt()
	remote.ProductType = " "
	report := r.Merge(context.Background(), uuid.New(), integration.EntityKindProduct, []integration.RemoteRecord{remote})

	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, integration.OutcomeSkipped, report.Results[0].Outcome)
	assert.Empty(t, stores.products.items)
	assert.Equal(t, 0, stores.categories.count())
	assert.Equal(t, 0, stores.vendors.count())
}

func TestReconciler_Merge_InvalidRecordDoesNotStopBatch(t *testing.T) {
	stores := newTestStores()
	r := newTestReconciler(stores, new(MockRemoteClient))
	tenantID := uuid.New()

	bad := remoteTShirt()
	bad.ID = "gid://shopify/Product/2"
	bad.Title = "  "
	badPrice := remoteTShirt()
	badPrice.ID = "gid://shopify/Product/3"
	badPrice.Variants[0].Price = "abc"

	report := r.Merge(context.Background(), tenantID, integration.EntityKindProduct,
		[]integration.RemoteRecord{bad, remoteTShirt(), badPrice})

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, integration.SyncStatusPartial, report.Status())
	assert.Equal(t, integration.OutcomeSkipped, report.Results[0].Outcome)
	assert.Contains(t, report.FirstError, "gid://shopify/Product/2")
}

func TestReconciler_Merge_FallbackSKUAndStockStatus(t *testing.T) {
	stores := newTestStores()
	r := newTestReconciler(stores, new(MockRemoteClient))
	tenantID := uuid.New()

	rp := integration.RemoteProduct{
		ID:          "gid://shopify/Product/9",
		Title:       "Mug",
		ProductType: "Kitchen",
		Status:      "ACTIVE",
		Variants: []integration.RemoteVariant{
			{ID: "gid://shopify/ProductVariant/99", Price: "5.00", InventoryQuantity: intPtr(0)},
		},
	}
	report := r.Merge(context.Background(), tenantID, integration.EntityKindProduct, []integration.RemoteRecord{rp})
	require.Equal(t, 1, report.Created)

	p, err := stores.products.FindByRemoteID(context.Background(), tenantID, rp.ID)
	require.NoError(t, err)
	assert.Equal(t, catalog.StockStatusOutOfStock, p.StockStatus)
	require.Len(t, p.Variants, 1)
	assert.Equal(t, "SHOPIFY-99", p.Variants[0].SKU)
	assert.Equal(t, DefaultVariantTitle, p.Variants[0].Title)
	assert.Equal(t, valueobject.EmptyTagsJSON, p.Tags.String())
	assert.Equal(t, 1, stores.categories.count())
}

func TestReconciler_Merge_CustomerKeepsLocalFields(t *testing.T) {
	stores := newTestStores()
	r := newTestReconciler(stores, new(MockRemoteClient))
	tenantID := uuid.New()
	ctx := context.Background()

	c, err := partner.NewCustomer(tenantID, partner.Profile{FirstName: "Asha", Email: "asha@example.com", Address: partner.Address{City: "Pune"}})
	require.NoError(t, err)
	c.AssignCustCode("C-001")
	require.NoError(t, c.AssignRemoteID("gid://shopify/Customer/5"))
	require.NoError(t, stores.customers.Save(ctx, c))

	rc := integration.RemoteCustomer{
		ID:             "gid://shopify/Customer/5",
		FirstName:      "Asha",
		LastName:       "Rao",
		Email:          "asha@example.com",
		NumberOfOrders: 4,
		AmountSpent:    "120.40",
		CurrencyCode:   "INR",
		Tags:           []string{"vip"},
	}
	report := r.Merge(ctx, tenantID, integration.EntityKindCustomer, []integration.RemoteRecord{rc})
	require.Equal(t, 1, report.Updated)

	got, err := stores.customers.FindByID(ctx, tenantID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "C-001", got.CustCode)
	assert.Equal(t, "Pune", got.City)
	assert.Equal(t, "Rao", got.LastName)
	assert.Equal(t, 4, got.NumberOfOrders)
	assert.True(t, got.AmountSpent.Equal(decimal.RequireFromString("120.40")))

	again := r.Merge(ctx, tenantID, integration.EntityKindCustomer, []integration.RemoteRecord{rc})
	assert.Equal(t, 0, again.Updated)
	assert.Equal(t, 1, again.Unchanged)
}

func TestReconciler_Merge_CustomerWithoutNameOrEmailIsSkipped(t *testing.T) {
	stores := newTestStores()
	r := newTestReconciler(stores, new(MockRemoteClient))

	report := r.Merge(context.Background(), uuid.New(), integration.EntityKindCustomer,
		[]integration.RemoteRecord{integration.RemoteCustomer{ID: "gid://shopify/Customer/6", Phone: "+911234"}})

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, integration.OutcomeSkipped, report.Results[0].Outcome)
}

func remoteOrder(id, total string) integration.RemoteOrder {
	placed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return integration.RemoteOrder{
		ID:                "gid://shopify/Order/" + id,
		Name:              "#" + id,
		Email:             "Buyer@Example.com",
		CreatedAt:         &placed,
		FinancialStatus:   "PAID",
		FulfillmentStatus: "UNFULFILLED",
		TotalPrice:        total,
		SubtotalPrice:     "90.00",
		TotalTax:          "10.00",
		CurrencyCode:      "INR",
		ShippingAddress: valueobject.Address{
			FirstName: "Ravi", LastName: "Kumar", Address1: "12 MG Road", City: "Bengaluru", Country: "India",
		},
		LineItems: []integration.RemoteLineItem{{Title: "T-Shirt", SKU: "TS-S", Quantity: 2, Price: "45.00"}},
	}
}

func TestReconciler_Merge_OrdersPartialFailure(t *testing.T) {
	stores := newTestStores()
	r := newTestReconciler(stores, new(MockRemoteClient))
	tenantID := uuid.New()

	report := r.Merge(context.Background(), tenantID, integration.EntityKindOrder, []integration.RemoteRecord{
		remoteOrder("1001", "100.00"),
		remoteOrder("1002", ""),
	})

	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, "1002", report.Results[1].RemoteID)
	assert.Contains(t, report.Results[1].Reason, "total_price")

	o, err := stores.orders.FindByRemoteID(context.Background(), tenantID, "1001")
	require.NoError(t, err)
	assert.Equal(t, trade.ErpStatusPending, o.ErpStatus)
	assert.Equal(t, "paid", o.PaymentStatus)
	require.NotNil(t, o.CustomerID)

	c, err := stores.customers.FindByEmail(context.Background(), tenantID, "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, *o.CustomerID, c.ID)
	assert.Equal(t, "Ravi", c.FirstName)
}

func TestReconciler_Merge_ExistingOrderKeepsErpStatus(t *testing.T) {
	stores := newTestStores()
	r := newTestReconciler(stores, new(MockRemoteClient))
	tenantID := uuid.New()
	ctx := context.Background()

	r.Merge(ctx, tenantID, integration.EntityKindOrder, []integration.RemoteRecord{remoteOrder("1001", "100.00")})
	o, err := stores.orders.FindByRemoteID(ctx, tenantID, "1001")
	require.NoError(t, err)
	require.NoError(t, o.UpdateErpStatus(trade.ErpStatusProcessing))
	require.NoError(t, stores.orders.Save(ctx, o))

	unchanged := r.Merge(ctx, tenantID, integration.EntityKindOrder, []integration.RemoteRecord{remoteOrder("1001", "100.00")})
	assert.Equal(t, 1, unchanged.Unchanged)

	refreshed := remoteOrder("1001", "100.00")
	refreshed.FulfillmentStatus = "FULFILLED"
	report := r.Merge(ctx, tenantID, integration.EntityKindOrder, []integration.RemoteRecord{refreshed})
	assert.Equal(t, 1, report.Updated)

	got, err := stores.orders.FindByRemoteID(ctx, tenantID, "1001")
	require.NoError(t, err)
	assert.Equal(t, trade.ErpStatusProcessing, got.ErpStatus)
	assert.Equal(t, "fulfilled", got.FulfillmentStatus)
	assert.Len(t, stores.orders.items, 1)
}

func TestReconciler_Merge_IncompleteShippingAddress(t *testing.T) {
	stores := newTestStores()
	r := newTestReconciler(stores, new(MockRemoteClient))

	o := remoteOrder("1003", "50.00")
	o.ShippingAddress.City = ""
	report := r.Merge(context.Background(), uuid.New(), integration.EntityKindOrder, []integration.RemoteRecord{o})

	assert.Equal(t, 1, report.Failed)
	assert.Empty(t, stores.orders.items)

	noAddress := remoteOrder("1004", "50.00")
	noAddress.Email = ""
	noAddress.ShippingAddress = valueobject.Address{}
	report = r.Merge(context.Background(), uuid.New(), integration.EntityKindOrder, []integration.RemoteRecord{noAddress})

	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 1, report.Failed)
	assert.Contains(t, report.Results[0].Reason, "shipping address")
	assert.Empty(t, stores.orders.items)
}

func TestReconciler_Merge_EmptyBatch(t *testing.T) {
	r := newTestReconciler(newTestStores(), new(MockRemoteClient))
	report := r.Merge(context.Background(), uuid.New(), integration.EntityKindCustomer, nil)
	assert.Equal(t, 0, report.Total)
	assert.Equal(t, integration.SyncStatusSuccess, report.Status())
}

func TestReconciler_Reconcile_FetchFailureWritesNothing(t *testing.T) {
	stores := newTestStores()
	client := new(MockRemoteClient)
	r := newTestReconciler(stores, client)
	netErr := integration.NewRemoteError(integration.PlatformShopify, integration.RemoteErrorNetwork, 0, "timeout", nil)
	client.On("FetchAll", mock.Anything, testCreds, integration.EntityKindProduct).Return(nil, netErr)

	report, err := r.Reconcile(context.Background(), uuid.New(), integration.EntityKindProduct)

	assert.Nil(t, report)
	assert.ErrorIs(t, err, integration.ErrRemoteNetwork)
	assert.Empty(t, stores.products.items)
	assert.Equal(t, 0, stores.categories.count())
}

func TestReconciler_Reconcile_NotConfigured(t *testing.T) {
	client := new(MockRemoteClient)
	r := NewReconciler(client, staticCreds{err: &integration.NotConfiguredError{Platform: integration.PlatformShopify}}, newTestStores().Stores(), zap.NewNop())

	_, err := r.Reconcile(context.Background(), uuid.New(), integration.EntityKindOrder)

	assert.True(t, errors.Is(err, integration.ErrPlatformNotConfigured))
	client.AssertNotCalled(t, "FetchAll", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconciler_Reconcile_FetchesThenMerges(t *testing.T) {
	stores := newTestStores()
	client := new(MockRemoteClient)
	r := newTestReconciler(stores, client)
	client.On("FetchAll", mock.Anything, testCreds, integration.EntityKindProduct).
		Return([]integration.RemoteRecord{remoteTShirt()}, nil)

	report, err := r.Reconcile(context.Background(), uuid.New(), integration.EntityKindProduct)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	client.AssertExpectations(t)
}

func TestReconciler_Reconcile_UnknownKind(t *testing.T) {
	r := newTestReconciler(newTestStores(), new(MockRemoteClient))
	_, err := r.Reconcile(context.Background(), uuid.New(), integration.EntityKind("invoice"))
	assert.ErrorIs(t, err, integration.ErrUnknownEntityKind)
}
