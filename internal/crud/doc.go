// Package crud binds the discovered resource definitions to the storage
// layer and implements the operations exposed by the HTTP API. It is
// structured into small files by concern:
//
//   - service.go: core Service type, constructor, resource lookup.
//   - ops.go: Create/Get/List/Update/Delete entry points (validation + store).
//   - status.go: Status snapshot and readiness reporting.
//   - errors.go: error types and helpers (IsResourceNotFound).
//
// External packages should treat this package as the orchestration layer and
// use public methods only. Payload validation lives in internal/schema; SQL
// lives in internal/store.
package crud
