// Package catalog maintains the registry of libraries, sectors and media.
//
// The registry is a JSON file in the catalog root:
//
//	{
//	  "version": "0.1.0",
//	  "libraryMapping": {
//	    "photos": {
//	      "sectors": {"disk-a": ["/mnt/usb"]},
//	      "comparator": "filename"
//	    }
//	  }
//	}
//
// Registering a media path writes a metadata marker holding the sector name
// into the media root, so the same medium cannot be registered twice.
//
// Failures wrap one of the package sentinels (ErrInvalidConfig,
// ErrStateConflict and so on); the CLI maps each to an exit code.
package catalog
