// Package store owns the durable execution_records table and its query
// surface.
//
// The table is append-only: the instrumentation wrapper inserts one record
// per call, records are never mutated, and ids assigned by SQLite
// AUTOINCREMENT are unique and strictly increasing. All reads share one
// ordering contract - created_at descending with id descending on ties - so
// query, search and statistics results are reproducible across runs.
//
// Concurrency: the store keeps a single SQLite connection, which serializes
// writers. Reads started after a commit observe that commit (WAL mode).
package store
