// Package storage manages the catalog directory on disk.
//
// The catalog root holds the library registry file and one directory per
// library, sector and indexed media path:
//
//	~/.media-catalog/
//	  config.json
//	  photos/
//	    disk-a/
//	      +mnt+usb/
//	        index.json
//
// A media path becomes a single directory name by replacing its separators
// with SeparatorReplacement.
//
// All writes go through a temporary file in the destination directory that
// is renamed into place. The Store works over an afero.Fs so tests can run
// against an in-memory filesystem.
//
// # Usage
//
//	store, err := storage.NewStore(afero.NewOsFs(), cfg.Storage)
//	err = store.WriteJSON(store.RegistryPath(), registry)
package storage
