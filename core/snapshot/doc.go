// Package snapshot walks a media directory into an entry tree.
//
// The walk is iterative and does not depend on the order in which the
// filesystem lists entries. Symbolic links to directories are followed by
// default; a link that leads back onto a directory already being walked
// fails the build with ErrCycleDetected instead of looping.
package snapshot
