package cmd

import (
	"errors"

	"media-catalog/core/codec"
	"media-catalog/core/snapshot"
	"media-catalog/feature/catalog"
)

// Process exit codes. Scripts built around the catalog rely on these values.
const (
	ExitOK               = 0
	ExitFailure          = 1
	ExitInvalidConfig    = 100
	ExitConfigNotFound   = 101
	ExitMetadataNotFound = 102
	ExitStateConflict    = 103
	ExitInvalidArgument  = 104
	ExitPermission       = 105
	ExitOS               = 106
	ExitTraversal        = 107
	ExitCycle            = 108
	ExitMalformed        = 109
)

var exitCodes = []struct {
	err  error
	code int
}{
	{catalog.ErrInvalidConfig, ExitInvalidConfig},
	{catalog.ErrConfigNotFound, ExitConfigNotFound},
	{catalog.ErrMetadataNotFound, ExitMetadataNotFound},
	{catalog.ErrStateConflict, ExitStateConflict},
	{catalog.ErrInvalidArgument, ExitInvalidArgument},
	{catalog.ErrPermission, ExitPermission},
	{catalog.ErrOS, ExitOS},
	{snapshot.ErrCycleDetected, ExitCycle},
	{snapshot.ErrTraversal, ExitTraversal},
	{codec.ErrMalformedDocument, ExitMalformed},
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	for _, e := range exitCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return ExitFailure
}
