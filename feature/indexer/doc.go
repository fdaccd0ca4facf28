// Package indexer takes snapshots of registered media.
//
// Index checks that the media path is registered in the sector, walks it,
// writes the snapshot document into the catalog atomically and records the
// run in the ledger when one is configured. The metadata marker in the media
// root is left out of the snapshot.
package indexer
