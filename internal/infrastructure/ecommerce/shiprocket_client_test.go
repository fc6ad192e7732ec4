package ecommerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/shared/valueobject"
	"github.com/erp/storesync/internal/infrastructure/cache"
)

var testShiprocketCreds = integration.ShiprocketCredentials{Email: "ops@example.com", Password: "secret"}

func newTestShiprocket(t *testing.T, handler http.HandlerFunc) (*ShiprocketClient, *cache.InMemoryStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := cache.NewInMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	client, err := NewShiprocketClient(&ShiprocketConfig{BaseURL: srv.URL}, store, nil)
	require.NoError(t, err)
	return client, store
}

func testShipmentRequest() integration.ShipmentRequest {
	return integration.ShipmentRequest{
		OrderRef:      "1001",
		OrderDate:     time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		PaymentMethod: "Prepaid",
		Customer: valueobject.Address{
			FirstName: "Asha", LastName: "Rao",
			Address1: "1 MG Road", City: "Pune", Province: "MH", Country: "India", Zip: "411001", Phone: "9999999999",
		},
		Email: "asha@example.com",
		Items: []integration.ShipmentItem{
			{Name: "Shirt - M", SKU: "SH-M", Units: 2, Price: decimal.RequireFromString("50")},
		},
		SubTotal:      decimal.RequireFromString("100"),
		ShippingTotal: decimal.RequireFromString("18"),
	}
}

func TestShiprocketConfig_Validate(t *testing.T) {
	cfg := &ShiprocketConfig{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ShiprocketProductionAPIURL, cfg.BaseURL)
	assert.Equal(t, DefaultShiprocketTokenTTL, cfg.TokenTTL)
	assert.Equal(t, DefaultPickupLocation, cfg.PickupLocation)
	assert.Equal(t, 0.5, cfg.Weight)

	assert.ErrorIs(t, (&ShiprocketConfig{TokenTTL: 11 * 24 * time.Hour}).Validate(), ErrShiprocketConfigInvalidTTL)
}

func TestShiprocketClient_CreateShipment(t *testing.T) {
	var logins atomic.Int32
	client, store := newTestShiprocket(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case shiprocketLoginPath:
			logins.Add(1)
			var body shiprocketLoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ops@example.com", body.Email)
			_, _ = w.Write([]byte(`{"token":"tok-1"}`))
		case shiprocketCreateOrderPath:
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "1001", body["order_id"])
			assert.Equal(t, "2026-03-01 10:30", body["order_date"])
			assert.Equal(t, "Primary", body["pickup_location"])
			assert.Equal(t, "Prepaid", body["payment_method"])
			assert.Equal(t, "411001", body["billing_pincode"])
			assert.Equal(t, true, body["shipping_is_billing"])
			items := body["order_items"].([]any)
			require.Len(t, items, 1)
			assert.Equal(t, "SH-M", items[0].(map[string]any)["sku"])
			_, _ = w.Write([]byte(`{"order_id":555,"shipment_id":777,"status":"NEW","status_code":1}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()

	res, err := client.CreateShipment(ctx, testShiprocketCreds, testShipmentRequest())
	require.NoError(t, err)
	assert.Equal(t, "777", res.ShipmentRef)
	assert.Equal(t, "NEW", res.Status)

	cached, err := store.Get(ctx, tokenKey("OPS@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "tok-1", cached)

	_, err = client.CreateShipment(ctx, testShiprocketCreds, testShipmentRequest())
	require.NoError(t, err)
	assert.Equal(t, int32(1), logins.Load(), "second shipment reuses the cached token")
}

func TestShiprocketClient_StaleTokenRelogin(t *testing.T) {
	var logins atomic.Int32
	client, store := newTestShiprocket(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case shiprocketLoginPath:
			logins.Add(1)
			_, _ = w.Write([]byte(`{"token":"fresh"}`))
		case shiprocketCreateOrderPath:
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"Token has expired"}`))
				return
			}
			_, _ = w.Write([]byte(`{"order_id":1,"shipment_id":2,"status":"NEW"}`))
		}
	})
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, tokenKey(testShiprocketCreds.Email), "stale", time.Hour))

	res, err := client.CreateShipment(ctx, testShiprocketCreds, testShipmentRequest())
	require.NoError(t, err)
	assert.Equal(t, "2", res.ShipmentRef)
	assert.Equal(t, int32(1), logins.Load())

	cached, err := store.Get(ctx, tokenKey(testShiprocketCreds.Email))
	require.NoError(t, err)
	assert.Equal(t, "fresh", cached)
}

func TestShiprocketClient_LoginRejected(t *testing.T) {
	client, _ := newTestShiprocket(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Invalid email and password combination"}`))
	})
	_, err := client.CreateShipment(context.Background(), testShiprocketCreds, testShipmentRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, integration.ErrRemoteValidation)
	assert.Contains(t, err.Error(), "Invalid email and password combination")
}

func TestShiprocketClient_ValidationErrors(t *testing.T) {
	client, _ := newTestShiprocket(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == shiprocketLoginPath {
			_, _ = w.Write([]byte(`{"token":"tok"}`))
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Oops! Invalid Data.","errors":{"billing_phone":["The billing phone must be 10 digits."]}}`))
	})
	_, err := client.CreateShipment(context.Background(), testShiprocketCreds, testShipmentRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, integration.ErrRemoteValidation)
	assert.Contains(t, err.Error(), "billing_phone: The billing phone must be 10 digits.")

	var re *integration.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, integration.PlatformShiprocket, re.Platform)
}

func TestShiprocketClient_MissingCredentials(t *testing.T) {
	client, _ := newTestShiprocket(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	_, err := client.CreateShipment(context.Background(), integration.ShiprocketCredentials{}, testShipmentRequest())
	assert.ErrorIs(t, err, integration.ErrPlatformNotConfigured)
}
