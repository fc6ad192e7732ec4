// Package integration contains the Integration bounded context.
// This context synchronizes a tenant's storefront with the local catalog,
// customer and order records.
//
// Key concepts:
//   - EntityKind: the record classes that take part in sync (product, customer, order)
//   - RemoteCatalogClient: Port for the storefront API (fetch, create, update)
//   - SyncReport / PushReport: per-record outcomes of a pull or push run
//   - SyncRun: persisted history of reports for the console
//   - StoreConnection: per-tenant storefront and shipping credentials
//   - SyncGuard, ConfirmationGate, ShippingGateway: ports for run exclusion,
//     deletion confirmation and shipment creation
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
