package ecommerce

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/infrastructure/cache"
)

const (
	shiprocketLoginPath       = "/v1/external/auth/login"
	shiprocketCreateOrderPath = "/v1/external/orders/create/adhoc"
	shiprocketOrderDateLayout = "2006-01-02 15:04"
)

// ShiprocketClient implements integration.ShippingGateway. Login tokens are
// cached in the shared store so every instance reuses one token per account.
type ShiprocketClient struct {
	config     *ShiprocketConfig
	httpClient *http.Client
	tokens     cache.Store
	logger     *zap.Logger
}

// NewShiprocketClient creates a Shiprocket client
func NewShiprocketClient(config *ShiprocketConfig, tokens cache.Store, logger *zap.Logger) (*ShiprocketClient, error) {
	if config == nil {
		config = NewShiprocketConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if tokens == nil {
		return nil, errors.New("shiprocket: token store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShiprocketClient{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tokens: tokens,
		logger: logger,
	}, nil
}

func tokenKey(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "shiprocket:token:" + hex.EncodeToString(sum[:8])
}

// CreateShipment creates an adhoc order. A cached token rejected by the API
// is dropped and the call is retried once with a fresh login.
func (c *ShiprocketClient) CreateShipment(ctx context.Context, creds integration.ShiprocketCredentials, req integration.ShipmentRequest) (*integration.ShipmentResult, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, &integration.NotConfiguredError{Platform: integration.PlatformShiprocket}
	}
	payload := c.toOrder(req)

	token, cached, err := c.token(ctx, creds)
	if err != nil {
		return nil, err
	}
	result, err := c.createOrder(ctx, token, payload)
	if cached && errors.Is(err, integration.ErrRemoteAuth) {
		c.logger.Info("Cached courier token rejected, logging in again")
		_ = c.tokens.Delete(ctx, tokenKey(creds.Email))
		if token, err = c.login(ctx, creds); err != nil {
			return nil, err
		}
		result, err = c.createOrder(ctx, token, payload)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Info("Shipment created",
		zap.String("order_ref", req.OrderRef),
		zap.String("shipment_ref", result.ShipmentRef),
	)
	return result, nil
}

// token returns a cached token when present, otherwise logs in
func (c *ShiprocketClient) token(ctx context.Context, creds integration.ShiprocketCredentials) (string, bool, error) {
	token, err := c.tokens.Get(ctx, tokenKey(creds.Email))
	if err == nil && token != "" {
		return token, true, nil
	}
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.Warn("Failed to read courier token from cache", zap.Error(err))
	}
	token, err = c.login(ctx, creds)
	return token, false, err
}

func (c *ShiprocketClient) login(ctx context.Context, creds integration.ShiprocketCredentials) (string, error) {
	body, err := c.doRequest(ctx, shiprocketLoginPath, "", shiprocketLoginRequest{Email: creds.Email, Password: creds.Password})
	if err != nil {
		return "", err
	}
	var resp shiprocketLoginResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Token == "" {
		return "", integration.NewRemoteError(integration.PlatformShiprocket, integration.RemoteErrorAuth, http.StatusOK, "login returned no token", err)
	}
	if err := c.tokens.Set(ctx, tokenKey(creds.Email), resp.Token, c.config.TokenTTL); err != nil {
		c.logger.Warn("Failed to cache courier token", zap.Error(err))
	}
	return resp.Token, nil
}

func (c *ShiprocketClient) createOrder(ctx context.Context, token string, order shiprocketOrder) (*integration.ShipmentResult, error) {
	body, err := c.doRequest(ctx, shiprocketCreateOrderPath, token, order)
	if err != nil {
		return nil, err
	}
	var resp shiprocketOrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, integration.NewRemoteError(integration.PlatformShiprocket, integration.RemoteErrorNetwork, http.StatusOK,
			"unexpected response", fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err))
	}
	ref := resp.ShipmentID.String()
	if ref == "" || ref == "0" {
		msg := resp.Message
		if msg == "" {
			msg = "no shipment id returned"
		}
		return nil, integration.NewRemoteError(integration.PlatformShiprocket, integration.RemoteErrorValidation, http.StatusOK, msg, nil)
	}
	status := resp.Status
	if status == "" {
		status = "NEW"
	}
	return &integration.ShipmentResult{ShipmentRef: ref, Status: status}, nil
}

// doRequest posts a JSON body and returns the raw response. Failures are
// *integration.RemoteError values.
func (c *ShiprocketClient) doRequest(ctx context.Context, path, token string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("shiprocket: failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.config.BaseURL, "/")+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("shiprocket: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, integration.NewRemoteError(integration.PlatformShiprocket, integration.RemoteErrorNetwork, 0, "courier unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, integration.NewRemoteError(integration.PlatformShiprocket, integration.RemoteErrorNetwork, resp.StatusCode, "failed to read response", err)
	}
	if resp.StatusCode >= 300 {
		var apiErr shiprocketErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			msg := apiErr.Message
			for field, errs := range apiErr.Errors {
				msg += "; " + field + ": " + strings.Join(errs, ", ")
			}
			return nil, statusToRemote(integration.PlatformShiprocket, resp.StatusCode, []byte(msg))
		}
		return nil, statusToRemote(integration.PlatformShiprocket, resp.StatusCode, body)
	}
	return body, nil
}

func (c *ShiprocketClient) toOrder(req integration.ShipmentRequest) shiprocketOrder {
	addr := req.Customer
	out := shiprocketOrder{
		OrderID:             req.OrderRef,
		OrderDate:           req.OrderDate.Format(shiprocketOrderDateLayout),
		PickupLocation:      c.config.PickupLocation,
		BillingCustomerName: addr.FirstName,
		BillingLastName:     addr.LastName,
		BillingAddress:      addr.Address1,
		BillingAddress2:     addr.Address2,
		BillingCity:         addr.City,
		BillingPincode:      addr.Zip,
		BillingState:        addr.Province,
		BillingCountry:      addr.Country,
		BillingEmail:        req.Email,
		BillingPhone:        addr.Phone,
		ShippingIsBilling:   true,
		OrderItems:          make([]shiprocketOrderItem, 0, len(req.Items)),
		PaymentMethod:       req.PaymentMethod,
		ShippingCharges:     req.ShippingTotal,
		SubTotal:            req.SubTotal,
		Length:              c.config.Length,
		Breadth:             c.config.Breadth,
		Height:              c.config.Height,
		Weight:              c.config.Weight,
	}
	for _, it := range req.Items {
		out.OrderItems = append(out.OrderItems, shiprocketOrderItem{
			Name:         it.Name,
			SKU:          it.SKU,
			Units:        it.Units,
			SellingPrice: it.Price,
		})
	}
	return out
}

var _ integration.ShippingGateway = (*ShiprocketClient)(nil)
