package catalog

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrInvalidConfig means the registry file is not a valid registry, or a
	// lookup names a library or sector it does not contain.
	ErrInvalidConfig = errors.New("invalid catalog config")
	// ErrConfigNotFound means the registry file does not exist.
	ErrConfigNotFound = errors.New("catalog config not found")
	// ErrMetadataNotFound means the metadata marker could not be created in a media path.
	ErrMetadataNotFound = errors.New("media metadata not found")
	// ErrStateConflict means the request contradicts the current catalog state.
	ErrStateConflict = errors.New("catalog state conflict")
	// ErrInvalidArgument means a name or path was rejected before touching any state.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPermission means the catalog or a media path is not writable.
	ErrPermission = errors.New("permission denied")
	// ErrOS is any other filesystem failure.
	ErrOS = errors.New("filesystem error")
)

// fsError classifies a filesystem error under the catalog sentinels.
func fsError(op string, err error) error {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %v", ErrPermission, op, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrOS, op, err)
	}
}
