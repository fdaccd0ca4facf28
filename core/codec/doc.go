// Package codec converts snapshot trees to and from their persisted JSON form.
//
// A root document carries the schema version, a nested document carries the
// directory's own name, and each index item is either a file name or a
// nested document:
//
//	{
//	  "version": "0.1.0",
//	  "index": [
//	    "photo1.jpg",
//	    {"subdir_path": "summer", "index": ["flowers.jpg"]}
//	  ]
//	}
//
// Encoding writes children in canonical order, so structurally equal trees
// always produce byte-identical documents. Decoding reconstructs a tree that
// is entry.Equal to the one that was encoded.
//
// Errors wrap ErrMalformedDocument.
package codec
