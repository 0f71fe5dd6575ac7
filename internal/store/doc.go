// Package store provides SQLite-backed run history for flatkey.
//
// Each successful resolution can be recorded as one run: a row identifying
// the run (UUIDv7 id, creation time, source paths, content-addressed
// snapshot hash) plus one row per emitted output pair, in emission order.
//
// The snapshot hash makes runs comparable by content: two runs over
// identical sources resolve to identical output and therefore carry the
// same hash, regardless of when they executed.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - Single-writer connection pool (SQLite allows one writer)
//   - busy_timeout=5000 for lock contention
package store
