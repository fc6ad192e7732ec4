package integration

import (
	"context"
	"fmt"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConnectionService manages a tenant's platform credentials and resolves
// them for the sync components
type ConnectionService struct {
	repo   integration.ConnectionRepository
	client integration.RemoteCatalogClient
	logger *zap.Logger
}

// NewConnectionService creates a new ConnectionService
func NewConnectionService(repo integration.ConnectionRepository, client integration.RemoteCatalogClient, logger *zap.Logger) *ConnectionService {
	return &ConnectionService{repo: repo, client: client, logger: logger}
}

// find returns the tenant's connection, or nil if none was ever saved
func (s *ConnectionService) find(ctx context.Context, tenantID uuid.UUID) (*integration.StoreConnection, error) {
	conn, err := s.repo.FindByTenant(ctx, tenantID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return conn, nil
}

// Shopify implements CredentialResolver
func (s *ConnectionService) Shopify(ctx context.Context, tenantID uuid.UUID) (integration.ShopifyCredentials, error) {
	conn, err := s.find(ctx, tenantID)
	if err != nil {
		return integration.ShopifyCredentials{}, err
	}
	return conn.Shopify()
}

// Shiprocket implements CredentialResolver
func (s *ConnectionService) Shiprocket(ctx context.Context, tenantID uuid.UUID) (integration.ShiprocketCredentials, error) {
	conn, err := s.find(ctx, tenantID)
	if err != nil {
		return integration.ShiprocketCredentials{}, err
	}
	return conn.Shiprocket()
}

// Get returns the tenant's connection without secrets
func (s *ConnectionService) Get(ctx context.Context, tenantID uuid.UUID) (*ConnectionResponse, error) {
	conn, err := s.find(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return ToConnectionResponse(conn), nil
}

// Update stores new credentials
func (s *ConnectionService) Update(ctx context.Context, tenantID uuid.UUID, req UpdateConnectionRequest) (*ConnectionResponse, error) {
	conn, err := s.find(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		conn = integration.NewStoreConnection(tenantID)
	}
	if req.ShopDomain != "" || req.AccessToken != "" {
		domain := req.ShopDomain
		if domain == "" {
			domain = conn.ShopDomain
		}
		conn.SetShopify(domain, req.AccessToken)
	}
	if req.ShiprocketEmail != "" || req.ShiprocketPassword != "" {
		email := req.ShiprocketEmail
		if email == "" {
			email = conn.ShiprocketEmail
		}
		conn.SetShiprocket(email, req.ShiprocketPassword)
	}
	if err := s.repo.Save(ctx, conn); err != nil {
		return nil, err
	}
	s.logger.Info("Store connection updated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("shop_domain", conn.ShopDomain),
	)
	return ToConnectionResponse(conn), nil
}

// Test verifies the stored Shopify credentials against the storefront and
// records the shop name
func (s *ConnectionService) Test(ctx context.Context, tenantID uuid.UUID) (*ConnectionResponse, error) {
	conn, err := s.find(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	creds, err := conn.Shopify()
	if err != nil {
		return nil, err
	}
	name, err := s.client.ShopName(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("connection test: %w", err)
	}
	conn.MarkVerified(name)
	if err := s.repo.Save(ctx, conn); err != nil {
		return nil, err
	}
	return ToConnectionResponse(conn), nil
}
