// Package store keeps the query history in SQLite.
//
// Every executed statement becomes one row of the runs table: the canonical
// statement text, the input files, timings, and a msgpack snapshot of the
// result so that "llql history show" can print it again without reparsing
// any IR.
//
// # Ordering
//
// Runs are identified by a UUIDv7 id and ordered by the engine's logical
// sequence number, never by wall time. Every listing query uses
// ORDER BY seq ASC, id ASC COLLATE BINARY so that two reads of the same
// database agree.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - user_version: incremental migrations
package store
