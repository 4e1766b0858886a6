// Package automation contains the Automation bounded context.
// This context describes how an external automation host watches, creates and
// looks up ERP records without owning any of them.
//
// Key concepts:
//   - Record: a backend entity relayed verbatim between the ERP API and the host
//   - Resource: one row of the resource table (paths, events, fields, sample)
//   - Bundle: the per-invocation context supplied by the host platform
//   - Requester: Port interface for authenticated calls to the ERP API
//   - DedupeKey / NewIdempotencyKey: advisory keys for delivery and mutation safety
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package automation
