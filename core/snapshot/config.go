package snapshot

import "fmt"

const (
	// OnUnreadableSkip skips unreadable subdirectories with a warning.
	OnUnreadableSkip = "skip"
	// OnUnreadableAbort fails the whole snapshot on an unreadable subdirectory.
	OnUnreadableAbort = "abort"
)

// Config holds configuration for directory traversal.
type Config struct {
	// FollowSymlinks descends into symbolic links that resolve to directories.
	FollowSymlinks bool `mapstructure:"follow_symlinks" default:"true"`
	// OnUnreadable is the policy for subdirectories that cannot be listed (skip, abort).
	OnUnreadable string `mapstructure:"on_unreadable" default:"skip"`
}

// Validate checks that the policy values are known.
func (c Config) Validate() error {
	switch c.OnUnreadable {
	case OnUnreadableSkip, OnUnreadableAbort:
		return nil
	default:
		return fmt.Errorf("unknown on_unreadable policy %q (expected %s or %s)", c.OnUnreadable, OnUnreadableSkip, OnUnreadableAbort)
	}
}
