package ecommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/shared/valueobject"
)

// maxResponseSize is the maximum allowed response size from a remote API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// ShopifyClient implements integration.RemoteCatalogClient against the
// Shopify GraphQL Admin API
type ShopifyClient struct {
	config     *ShopifyConfig
	httpClient *http.Client
	logger     *zap.Logger

	// limiters paces requests per shop domain
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

// NewShopifyClient creates a Shopify client with the given configuration
func NewShopifyClient(config *ShopifyConfig, logger *zap.Logger) (*ShopifyClient, error) {
	if config == nil {
		config = NewShopifyConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShopifyClient{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger:   logger,
		limiters: make(map[string]*rate.Limiter),
	}, nil
}

func (c *ShopifyClient) limiter(shopDomain string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.limiters[shopDomain]
	if !ok {
		burst := max(int(c.config.RequestsPerSecond), 1)
		l = rate.NewLimiter(rate.Limit(c.config.RequestsPerSecond), burst)
		c.limiters[shopDomain] = l
	}
	return l
}

// ---------------------------------------------------------------------------
// RemoteCatalogClient
// ---------------------------------------------------------------------------

// FetchAll returns every record of kind, following cursors to the last page
func (c *ShopifyClient) FetchAll(ctx context.Context, creds integration.ShopifyCredentials, kind integration.EntityKind) ([]integration.RemoteRecord, error) {
	var (
		query   string
		convert func(json.RawMessage) ([]integration.RemoteRecord, shopifyPageInfo, error)
	)
	switch kind {
	case integration.EntityKindProduct:
		query, convert = productsQuery, decodeProductsPage
	case integration.EntityKindCustomer:
		query, convert = customersQuery, decodeCustomersPage
	case integration.EntityKindOrder:
		query, convert = ordersQuery, decodeOrdersPage
	default:
		return nil, fmt.Errorf("%w: %s", integration.ErrUnknownEntityKind, kind)
	}

	records := make([]integration.RemoteRecord, 0)
	var cursor *string
	for page := 1; ; page++ {
		data, err := c.execute(ctx, creds, query, map[string]any{
			"cursor": cursor,
			"limit":  c.config.PageSize,
		})
		if err != nil {
			return nil, err
		}
		batch, info, err := convert(data)
		if err != nil {
			return nil, c.invalidResponse(err)
		}
		records = append(records, batch...)
		c.logger.Debug("Fetched storefront page",
			zap.String("shop", creds.ShopDomain),
			zap.String("kind", string(kind)),
			zap.Int("page", page),
			zap.Int("records", len(batch)),
		)
		if !info.HasNextPage || info.EndCursor == "" {
			break
		}
		next := info.EndCursor
		cursor = &next
	}
	return records, nil
}

// Create creates a product or customer upstream
func (c *ShopifyClient) Create(ctx context.Context, creds integration.ShopifyCredentials, kind integration.EntityKind, payload integration.RemoteRecord) (*integration.PushResult, error) {
	return c.mutate(ctx, creds, kind, "", payload)
}

// Update overwrites the remote product or customer remoteID
func (c *ShopifyClient) Update(ctx context.Context, creds integration.ShopifyCredentials, kind integration.EntityKind, remoteID string, payload integration.RemoteRecord) (*integration.PushResult, error) {
	if remoteID == "" {
		return nil, integration.NewRemoteError(integration.PlatformShopify, integration.RemoteErrorValidation, 0, "remote id is required for update", nil)
	}
	return c.mutate(ctx, creds, kind, remoteID, payload)
}

// ShopName runs the shop query and returns the shop's display name
func (c *ShopifyClient) ShopName(ctx context.Context, creds integration.ShopifyCredentials) (string, error) {
	data, err := c.execute(ctx, creds, shopQuery, nil)
	if err != nil {
		return "", err
	}
	var out shopPayload
	if err := json.Unmarshal(data, &out); err != nil {
		return "", c.invalidResponse(err)
	}
	return out.Shop.Name, nil
}

func (c *ShopifyClient) mutate(ctx context.Context, creds integration.ShopifyCredentials, kind integration.EntityKind, remoteID string, payload integration.RemoteRecord) (*integration.PushResult, error) {
	switch p := payload.(type) {
	case integration.RemoteProduct:
		if kind != integration.EntityKindProduct {
			break
		}
		mutation, field := productCreateMutation, "productCreate"
		if remoteID != "" {
			mutation, field = productUpdateMutation, "productUpdate"
		}
		data, err := c.execute(ctx, creds, mutation, map[string]any{"input": toProductInput(remoteID, p)})
		if err != nil {
			return nil, err
		}
		var out map[string]productMutationPayload
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, c.invalidResponse(err)
		}
		res := out[field]
		if err := userErrorsToRemote(res.UserErrors); err != nil {
			return nil, err
		}
		if res.Product == nil {
			return nil, c.invalidResponse(errors.New(field + " returned no product"))
		}
		result := &integration.PushResult{RemoteID: res.Product.ID, VariantIDs: make(map[string]string)}
		for _, e := range res.Product.Variants.Edges {
			if e.Node.SKU != "" {
				result.VariantIDs[e.Node.SKU] = e.Node.ID
			}
		}
		return result, nil

	case integration.RemoteCustomer:
		if kind != integration.EntityKindCustomer {
			break
		}
		mutation, field := customerCreateMutation, "customerCreate"
		if remoteID != "" {
			mutation, field = customerUpdateMutation, "customerUpdate"
		}
		data, err := c.execute(ctx, creds, mutation, map[string]any{"input": toCustomerInput(remoteID, p)})
		if err != nil {
			return nil, err
		}
		var out map[string]customerMutationPayload
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, c.invalidResponse(err)
		}
		res := out[field]
		if err := userErrorsToRemote(res.UserErrors); err != nil {
			return nil, err
		}
		if res.Customer == nil {
			return nil, c.invalidResponse(errors.New(field + " returned no customer"))
		}
		return &integration.PushResult{RemoteID: res.Customer.ID}, nil
	}
	return nil, fmt.Errorf("%w: %s", integration.ErrPushUnsupportedKind, kind)
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

// execute posts one GraphQL document and returns its data member. Every
// failure is an *integration.RemoteError.
func (c *ShopifyClient) execute(ctx context.Context, creds integration.ShopifyCredentials, query string, variables map[string]any) (json.RawMessage, error) {
	if creds.ShopDomain == "" || creds.AccessToken == "" {
		return nil, &integration.NotConfiguredError{Platform: integration.PlatformShopify}
	}
	if err := c.limiter(creds.ShopDomain).Wait(ctx); err != nil {
		return nil, integration.NewRemoteError(integration.PlatformShopify, integration.RemoteErrorNetwork, 0, "request cancelled", err)
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint(creds.ShopDomain), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", creds.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, integration.NewRemoteError(integration.PlatformShopify, integration.RemoteErrorNetwork, 0, "storefront unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, integration.NewRemoteError(integration.PlatformShopify, integration.RemoteErrorNetwork, resp.StatusCode, "failed to read response", err)
	}
	if err := statusToRemote(integration.PlatformShopify, resp.StatusCode, raw); err != nil {
		c.logger.Warn("Storefront request failed",
			zap.String("shop", creds.ShopDomain),
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return nil, err
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, c.invalidResponse(err)
	}
	if len(envelope.Errors) > 0 {
		return nil, graphQLErrorsToRemote(envelope.Errors)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, c.invalidResponse(errors.New("no data returned"))
	}
	return envelope.Data, nil
}

func (c *ShopifyClient) invalidResponse(err error) error {
	return integration.NewRemoteError(integration.PlatformShopify, integration.RemoteErrorNetwork, 0,
		"unexpected response", fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err))
}

// statusToRemote classifies a non-2xx HTTP status
func statusToRemote(platform integration.Platform, status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	var kind integration.RemoteErrorKind
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = integration.RemoteErrorAuth
	case status == http.StatusTooManyRequests:
		kind = integration.RemoteErrorRateLimited
	case status == http.StatusNotFound:
		kind = integration.RemoteErrorNotFound
	case status == http.StatusConflict:
		kind = integration.RemoteErrorConflict
	case status >= 500:
		kind = integration.RemoteErrorNetwork
	default:
		kind = integration.RemoteErrorValidation
	}
	return integration.NewRemoteError(platform, kind, status, msg, nil)
}

func graphQLErrorsToRemote(errs []graphQLError) error {
	kind := integration.RemoteErrorValidation
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
		switch e.Extensions.Code {
		case "THROTTLED":
			kind = integration.RemoteErrorRateLimited
		case "ACCESS_DENIED", "UNAUTHENTICATED":
			kind = integration.RemoteErrorAuth
		case "INTERNAL_SERVER_ERROR":
			kind = integration.RemoteErrorNetwork
		}
	}
	return integration.NewRemoteError(integration.PlatformShopify, kind, http.StatusOK, strings.Join(msgs, "; "), nil)
}

func userErrorsToRemote(errs []shopifyUserError) error {
	if len(errs) == 0 {
		return nil
	}
	kind := integration.RemoteErrorValidation
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		m := e.Message
		if len(e.Field) > 0 {
			m = strings.Join(e.Field, ".") + ": " + m
		}
		msgs = append(msgs, m)
		lower := strings.ToLower(e.Message)
		if strings.Contains(lower, "already been taken") || strings.Contains(lower, "already exists") {
			kind = integration.RemoteErrorConflict
		}
	}
	return integration.NewRemoteError(integration.PlatformShopify, kind, http.StatusOK, strings.Join(msgs, "; "), nil)
}

// ---------------------------------------------------------------------------
// Conversion
// ---------------------------------------------------------------------------

func decodeProductsPage(data json.RawMessage) ([]integration.RemoteRecord, shopifyPageInfo, error) {
	var page productsPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, shopifyPageInfo{}, err
	}
	out := make([]integration.RemoteRecord, 0, len(page.Products.Edges))
	for _, e := range page.Products.Edges {
		out = append(out, toRemoteProduct(e.Node))
	}
	return out, page.Products.PageInfo, nil
}

func decodeCustomersPage(data json.RawMessage) ([]integration.RemoteRecord, shopifyPageInfo, error) {
	var page customersPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, shopifyPageInfo{}, err
	}
	out := make([]integration.RemoteRecord, 0, len(page.Customers.Edges))
	for _, e := range page.Customers.Edges {
		out = append(out, toRemoteCustomer(e.Node))
	}
	return out, page.Customers.PageInfo, nil
}

func decodeOrdersPage(data json.RawMessage) ([]integration.RemoteRecord, shopifyPageInfo, error) {
	var page ordersPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, shopifyPageInfo{}, err
	}
	out := make([]integration.RemoteRecord, 0, len(page.Orders.Edges))
	for _, e := range page.Orders.Edges {
		out = append(out, toRemoteOrder(e.Node))
	}
	return out, page.Orders.PageInfo, nil
}

func toRemoteProduct(p shopifyProduct) integration.RemoteProduct {
	rp := integration.RemoteProduct{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		ProductType: p.ProductType,
		Vendor:      p.Vendor,
		Status:      p.Status,
		Tags:        p.Tags,
		Variants:    make([]integration.RemoteVariant, 0, len(p.Variants.Edges)),
	}
	for _, e := range p.Variants.Edges {
		v := e.Node
		rv := integration.RemoteVariant{
			ID:                v.ID,
			Title:             v.Title,
			SKU:               v.SKU,
			Price:             v.Price,
			InventoryQuantity: v.InventoryQuantity,
			Taxable:           v.Taxable,
			AvailableForSale:  v.AvailableForSale,
		}
		if len(v.SelectedOptions) > 0 {
			rv.Option = v.SelectedOptions[0].Name
		}
		rp.Variants = append(rp.Variants, rv)
	}
	return rp
}

func toRemoteCustomer(c shopifyCustomer) integration.RemoteCustomer {
	rc := integration.RemoteCustomer{
		ID:            c.ID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Email:         c.Email,
		Phone:         c.Phone,
		Note:          c.Note,
		Tags:          c.Tags,
		AmountSpent:   c.AmountSpent.Amount,
		CurrencyCode:  c.AmountSpent.CurrencyCode,
		VerifiedEmail: c.VerifiedEmail,
	}
	if n, err := c.NumberOfOrders.Int64(); err == nil {
		rc.NumberOfOrders = int(n)
	}
	if c.DefaultAddress != nil {
		addr := toAddress(c.DefaultAddress)
		rc.DefaultAddress = &addr
		rc.FormattedAddress = strings.Join(c.DefaultAddress.Formatted, ", ")
	}
	return rc
}

func toRemoteOrder(o shopifyOrder) integration.RemoteOrder {
	ro := integration.RemoteOrder{
		ID:                o.ID,
		Name:              o.Name,
		Email:             o.Email,
		Phone:             o.Phone,
		CreatedAt:         o.CreatedAt,
		FinancialStatus:   o.DisplayFinancialStatus,
		FulfillmentStatus: o.DisplayFulfillmentStatus,
		SubtotalPrice:     moneyAmount(o.SubtotalPriceSet),
		TotalShipping:     moneyAmount(o.TotalShippingPriceSet),
		TotalTax:          moneyAmount(o.TotalTaxSet),
		TotalPrice:        moneyAmount(o.TotalPriceSet),
		ShippingAddress:   toAddress(o.ShippingAddress),
		BillingAddress:    toAddress(o.BillingAddress),
		LineItems:         make([]integration.RemoteLineItem, 0, len(o.LineItems.Edges)),
	}
	if o.TotalPriceSet != nil {
		ro.CurrencyCode = o.TotalPriceSet.ShopMoney.CurrencyCode
	}
	for _, e := range o.LineItems.Edges {
		li := e.Node
		ro.LineItems = append(ro.LineItems, integration.RemoteLineItem{
			Title:        li.Title,
			VariantTitle: li.VariantTitle,
			SKU:          li.SKU,
			Quantity:     li.Quantity,
			Price:        li.OriginalUnitPrice,
		})
	}
	return ro
}

func moneyAmount(m *shopifyMoneySet) string {
	if m == nil {
		return ""
	}
	return m.ShopMoney.Amount
}

func toAddress(a *shopifyAddress) valueobject.Address {
	if a == nil {
		return valueobject.Address{}
	}
	return valueobject.Address{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		Province:  a.Province,
		Country:   a.Country,
		Zip:       a.Zip,
		Phone:     a.Phone,
	}
}

func toProductInput(remoteID string, p integration.RemoteProduct) productInput {
	in := productInput{
		ID:              remoteID,
		Title:           p.Title,
		DescriptionHTML: p.Description,
		ProductType:     p.ProductType,
		Vendor:          p.Vendor,
		Status:          p.Status,
		Tags:            p.Tags,
		Variants:        make([]productVariantInput, 0, len(p.Variants)),
	}
	if in.Tags == nil {
		in.Tags = []string{}
	}
	for _, v := range p.Variants {
		vi := productVariantInput{
			ID:      v.ID,
			SKU:     v.SKU,
			Price:   v.Price,
			Taxable: v.Taxable,
		}
		if v.Title != "" {
			vi.Options = []string{v.Title}
		}
		in.Variants = append(in.Variants, vi)
	}
	return in
}

func toCustomerInput(remoteID string, c integration.RemoteCustomer) customerInput {
	in := customerInput{
		ID:        remoteID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Note:      c.Note,
		Tags:      c.Tags,
	}
	if in.Tags == nil {
		in.Tags = []string{}
	}
	if a := c.DefaultAddress; a != nil {
		in.Addresses = []mailingAddressInput{{
			FirstName: a.FirstName,
			LastName:  a.LastName,
			Address1:  a.Address1,
			City:      a.City,
			Province:  a.Province,
			Country:   a.Country,
			Zip:       a.Zip,
			Phone:     a.Phone,
		}}
	}
	return in
}

var _ integration.RemoteCatalogClient = (*ShopifyClient)(nil)
