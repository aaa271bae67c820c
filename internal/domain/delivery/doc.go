// Package delivery contains the domain model for synchronizing orders from
// a third-party delivery marketplace into the local order store.
//
// The package defines:
//   - the closed event-code vocabulary the marketplace emits and the order
//     status state machine those codes drive,
//   - the Order and MerchantIntegration entities with their repository
//     interfaces,
//   - the Marketplace port interface (Ports & Adapters); the concrete HTTP
//     adapter lives in the infrastructure layer.
package delivery
