// Package consumption enforces request-rate, token-budget, concurrency,
// and input-size limits per user, with tiered presets and pluggable
// storage.
//
// The Guard runs every check for a message in a fixed order and records
// request-window timestamps before checking token budgets: a request
// denied for token budget has already consumed rate-window quota.
// Stores come in two flavors, an in-memory store for single-instance
// deployments and a Redis store whose sliding windows are shared across
// instances. The Redis store fails open on backend errors.
package consumption
