package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/partner"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultPushBatchSize is the number of records pushed concurrently
const DefaultPushBatchSize = 5

// PushCoordinator sends local product and customer edits to the storefront
type PushCoordinator struct {
	client    integration.RemoteCatalogClient
	creds     CredentialResolver
	products  catalog.ProductRepository
	customers partner.CustomerRepository
	batchSize int
	logger    *zap.Logger
}

// NewPushCoordinator creates a new PushCoordinator. A non-positive batch
// size selects DefaultPushBatchSize.
func NewPushCoordinator(
	client integration.RemoteCatalogClient,
	creds CredentialResolver,
	products catalog.ProductRepository,
	customers partner.CustomerRepository,
	batchSize int,
	logger *zap.Logger,
) *PushCoordinator {
	if batchSize <= 0 {
		batchSize = DefaultPushBatchSize
	}
	return &PushCoordinator{
		client:    client,
		creds:     creds,
		products:  products,
		customers: customers,
		batchSize: batchSize,
		logger:    logger,
	}
}

// PushAll pushes the given records, or every local record of kind when ids
// is empty. Records go out in batches; a batch runs concurrently and the
// next one starts when it has finished.
func (p *PushCoordinator) PushAll(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind, ids []uuid.UUID) (*integration.PushReport, error) {
	creds, err := p.prepare(ctx, tenantID, kind)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		ids, err = p.listIDs(ctx, tenantID, kind)
		if err != nil {
			return nil, err
		}
	}
	return p.push(ctx, tenantID, kind, creds, ids, p.batchSize)
}

// PushOne pushes a single record
func (p *PushCoordinator) PushOne(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind, id uuid.UUID) (*integration.PushReport, error) {
	creds, err := p.prepare(ctx, tenantID, kind)
	if err != nil {
		return nil, err
	}
	return p.push(ctx, tenantID, kind, creds, []uuid.UUID{id}, 1)
}

func (p *PushCoordinator) prepare(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind) (integration.ShopifyCredentials, error) {
	if !kind.IsValid() {
		return integration.ShopifyCredentials{}, fmt.Errorf("%w: %q", integration.ErrUnknownEntityKind, kind)
	}
	if !kind.Pushable() {
		return integration.ShopifyCredentials{}, fmt.Errorf("%w: %s", integration.ErrPushUnsupportedKind, kind)
	}
	return p.creds.Shopify(ctx, tenantID)
}

func (p *PushCoordinator) listIDs(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind) ([]uuid.UUID, error) {
	if kind == integration.EntityKindProduct {
		return p.products.ListIDs(ctx, tenantID)
	}
	return p.customers.ListIDs(ctx, tenantID)
}

type pushOutcome struct {
	id      uuid.UUID
	created bool
	err     error
}

func (p *PushCoordinator) push(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind, creds integration.ShopifyCredentials, ids []uuid.UUID, batchSize int) (*integration.PushReport, error) {
	report := integration.NewPushReport(kind)

	for start := 0; start < len(ids); start += batchSize {
		batch := ids[start:min(start+batchSize, len(ids))]
		outcomes := make([]pushOutcome, len(batch))

		var g errgroup.Group
		g.SetLimit(batchSize)
		for i, id := range batch {
			g.Go(func() error {
				created, err := p.pushRecord(ctx, tenantID, kind, creds, id)
				outcomes[i] = pushOutcome{id: id, created: created, err: err}
				return nil
			})
		}
		_ = g.Wait()

		if start == 0 {
			if err := unreachable(outcomes); err != nil {
				p.logger.Error("Push aborted, remote unusable",
					zap.String("tenant_id", tenantID.String()),
					zap.String("kind", kind.String()),
					zap.Error(err),
				)
				return nil, fmt.Errorf("push %ss: %w", kind, err)
			}
		}

		for _, o := range outcomes {
			if o.err == nil {
				report.RecordSuccess(o.created)
				continue
			}
			p.logger.Warn("Record not pushed",
				zap.String("kind", kind.String()),
				zap.String("local_id", o.id.String()),
				zap.Error(o.err),
			)
			report.RecordFailure(integration.PushFailure{
				LocalID:   o.id,
				Reason:    o.err.Error(),
				ErrorKind: errorKind(o.err),
			})
		}
	}
	report.Finish()

	p.logger.Info("Push finished",
		zap.String("tenant_id", tenantID.String()),
		zap.String("kind", kind.String()),
		zap.Int("total", report.Total),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

// unreachable returns the first error when every outcome is a transport
// failure, meaning the remote could not be used at all
func unreachable(outcomes []pushOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}
	for _, o := range outcomes {
		if o.err == nil || !integration.IsTransportFailure(o.err) {
			return nil
		}
	}
	return outcomes[0].err
}

func errorKind(err error) string {
	var re *integration.RemoteError
	if errors.As(err, &re) {
		return string(re.Kind)
	}
	if errors.Is(err, integration.ErrRecordNotFound) {
		return "not_found"
	}
	return "local"
}

func (p *PushCoordinator) pushRecord(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind, creds integration.ShopifyCredentials, id uuid.UUID) (bool, error) {
	if kind == integration.EntityKindProduct {
		return p.pushProduct(ctx, tenantID, creds, id)
	}
	return p.pushCustomer(ctx, tenantID, creds, id)
}

// pushProduct creates the product upstream when it has no remote id yet and
// updates it otherwise. New remote ids are stored right away so a retry
// issues an update.
func (p *PushCoordinator) pushProduct(ctx context.Context, tenantID uuid.UUID, creds integration.ShopifyCredentials, id uuid.UUID) (bool, error) {
	product, err := p.products.FindByID(ctx, tenantID, id)
	if err != nil {
		if isNotFound(err) {
			return false, fmt.Errorf("%w: product %s", integration.ErrRecordNotFound, id)
		}
		return false, err
	}

	payload := productPayload(product)
	var res *integration.PushResult
	created := !product.HasRemoteID()
	if created {
		res, err = p.client.Create(ctx, creds, integration.EntityKindProduct, payload)
	} else {
		res, err = p.client.Update(ctx, creds, integration.EntityKindProduct, product.RemoteKey(), payload)
	}
	if err != nil {
		return false, err
	}
	if created {
		if err := requireRemoteID(res); err != nil {
			return false, err
		}
	}
	if res == nil {
		return false, nil
	}

	if created {
		if err := p.products.SetRemoteID(ctx, tenantID, product.ID, res.RemoteID); err != nil {
			return false, fmt.Errorf("store remote id %s: %w", res.RemoteID, err)
		}
	}
	if len(res.VariantIDs) > 0 {
		if err := p.products.SetVariantRemoteIDs(ctx, product.ID, res.VariantIDs); err != nil {
			return false, fmt.Errorf("store variant remote ids: %w", err)
		}
	}
	return created, nil
}

func (p *PushCoordinator) pushCustomer(ctx context.Context, tenantID uuid.UUID, creds integration.ShopifyCredentials, id uuid.UUID) (bool, error) {
	customer, err := p.customers.FindByID(ctx, tenantID, id)
	if err != nil {
		if isNotFound(err) {
			return false, fmt.Errorf("%w: customer %s", integration.ErrRecordNotFound, id)
		}
		return false, err
	}

	payload := customerPayload(customer)
	created := !customer.HasRemoteID()
	if !created {
		_, err = p.client.Update(ctx, creds, integration.EntityKindCustomer, customer.RemoteKey(), payload)
		return false, err
	}

	res, err := p.client.Create(ctx, creds, integration.EntityKindCustomer, payload)
	if err != nil {
		return false, err
	}
	if err := requireRemoteID(res); err != nil {
		return false, err
	}
	if err := p.customers.SetRemoteID(ctx, tenantID, customer.ID, res.RemoteID); err != nil {
		return false, fmt.Errorf("store remote id %s: %w", res.RemoteID, err)
	}
	return true, nil
}

// requireRemoteID rejects a create that did not hand back an identity;
// without one the next push would create the record again
func requireRemoteID(res *integration.PushResult) error {
	if res != nil && strings.TrimSpace(res.RemoteID) != "" {
		return nil
	}
	return integration.NewRemoteError(integration.PlatformShopify, integration.RemoteErrorValidation, 0,
		"create returned no remote id", integration.ErrPlatformInvalidResponse)
}
