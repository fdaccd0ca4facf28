// Package integrity provides health checks for the catalog.
//
// Unlike indexing and comparison, which look at the contents of media, this
// package validates the bookkeeping the catalog relies on.
//
// # Checks Provided
//
//   - Structure: every library, sector and registered media path has its directory in the catalog root (supports fix).
//   - Markers: every mounted media root carries a metadata marker naming its sector (supports fix).
//   - Indexes: every registered media path has a snapshot document that decodes; no unregistered media directories remain.
//   - Ledger: the ledger table matches the SnapshotRecord model (fix migrates it).
package integrity
