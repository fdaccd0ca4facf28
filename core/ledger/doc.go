// Package ledger records every snapshot taken by the catalog.
//
// Each successful index run adds a SnapshotRecord: where the media was, how
// many files and directories it held, the digest of its tree and where the
// snapshot document was written. Comparing digests across records shows
// whether a medium changed between runs without loading the documents.
//
// The ledger lives in the database configured under `database` (a sqlite
// file in the catalog root by default).
package ledger
