// Package store provides SQLite-backed durable storage for named
// transform programs.
//
// Programs live under hierarchical path keys mirroring the repository
// layout they are served from:
//
//	/fedora:system/fedora:transform/{name}/ldpath_program.txt
//
// The builtin program set ("default" and "deluxe") is declared in an
// embedded CUE manifest, validated when the store opens, and written on
// first resolve with INSERT ... ON CONFLICT DO NOTHING so that concurrent
// first resolves materialize exactly one body per program.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//
// Lookups of unknown names return a TRANSFORM_NOT_FOUND error; I/O and
// driver failures return STORE_ERROR. The two are never conflated, so
// callers can map them to distinct responses.
package store
