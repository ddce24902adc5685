// Package audit persists security events to PostgreSQL without ever
// touching request latency: events are queued, written asynchronously by
// a worker pool with retries, and spilled to a local fallback file when
// the database is unreachable.
package audit
