package snapshot

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"media-catalog/core/entry"

	"go.uber.org/zap"
)

// DirReader lists directories and resolves paths. The default reads the OS
// filesystem; tests substitute listings in a different order.
type DirReader interface {
	ReadDir(name string) ([]fs.DirEntry, error)
	Stat(name string) (fs.FileInfo, error)
}

type osReader struct{}

func (osReader) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }
func (osReader) Stat(name string) (fs.FileInfo, error)      { return os.Stat(name) }

// Provenance identifies what a snapshot was taken for.
type Provenance struct {
	Library   string `json:"library"`
	Sector    string `json:"sector"`
	MediaPath string `json:"media_path"`
}

// Snapshot is the result of one Build call. It is not modified after Build returns.
type Snapshot struct {
	Root       *entry.Node
	Path       string
	Provenance Provenance
	// Files and Dirs count the entries in Root, root excluded.
	Files int
	Dirs  int
	// Skipped lists subdirectories left out under the skip policy.
	Skipped []string
	TakenAt time.Time
}

// Builder walks a directory tree into a snapshot.
type Builder struct {
	version string
	cfg     Config
	reader  DirReader
	ignore  map[string]struct{}
	logger  *zap.Logger
}

// Option customizes a Builder.
type Option func(*Builder)

// WithReader replaces the OS directory reader.
func WithReader(r DirReader) Option {
	return func(b *Builder) { b.reader = r }
}

// WithIgnore skips the given names in the root directory.
func WithIgnore(names ...string) Option {
	return func(b *Builder) {
		for _, n := range names {
			b.ignore[n] = struct{}{}
		}
	}
}

// WithLogger sets the logger used for traversal warnings.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a builder stamping root nodes with version.
func NewBuilder(version string, cfg Config, opts ...Option) *Builder {
	b := &Builder{
		version: version,
		cfg:     cfg,
		reader:  osReader{},
		ignore:  make(map[string]struct{}),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// frame is one directory in the traversal arena.
type frame struct {
	path    string
	info    fs.FileInfo
	node    *entry.Node
	parent  int
	pending int
}

// Build snapshots the directory tree rooted at rootPath.
//
// Every directory is listed once from an explicit stack. A subdirectory's
// node joins its parent only after the subdirectory and all of its
// descendants are complete, so the result does not depend on listing or
// visiting order. A subdirectory that is the same file as one of its
// ancestors fails the build with a *CycleError.
func (b *Builder) Build(rootPath string) (*Snapshot, error) {
	info, err := b.reader.Stat(rootPath)
	if err != nil {
		return nil, &TraversalError{Path: rootPath, Err: err}
	}
	if !info.IsDir() {
		return nil, &TraversalError{Path: rootPath, Err: fmt.Errorf("not a directory")}
	}

	snap := &Snapshot{
		Root:    entry.NewRoot(b.version),
		Path:    rootPath,
		TakenAt: time.Now(),
	}

	arena := []*frame{{path: rootPath, info: info, node: snap.Root, parent: -1}}
	stack := []int{0}

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cur := arena[idx]

		entries, err := b.reader.ReadDir(cur.path)
		if err != nil {
			if idx == 0 || b.cfg.OnUnreadable == OnUnreadableAbort {
				return nil, &TraversalError{Path: cur.path, Err: err}
			}
			b.logger.Warn("Skipping unreadable directory", zap.String("path", cur.path), zap.Error(err))
			snap.Skipped = append(snap.Skipped, cur.path)
			snap.Dirs--
			b.complete(arena, idx, false)
			continue
		}

		for _, de := range entries {
			name := de.Name()
			if idx == 0 {
				if _, skip := b.ignore[name]; skip {
					continue
				}
			}
			full := filepath.Join(cur.path, name)

			dirInfo, isDir := b.resolveDir(de, full)
			if !isDir {
				cur.node.AddChild(entry.NewLeaf(name))
				snap.Files++
				continue
			}

			for a := idx; a >= 0; a = arena[a].parent {
				if os.SameFile(arena[a].info, dirInfo) {
					return nil, &CycleError{Path: full, Ancestor: arena[a].path}
				}
			}

			arena = append(arena, &frame{
				path:   full,
				info:   dirInfo,
				node:   entry.NewDir(name),
				parent: idx,
			})
			stack = append(stack, len(arena)-1)
			cur.pending++
			snap.Dirs++
		}

		if cur.pending == 0 {
			b.complete(arena, idx, true)
		}
	}

	return snap, nil
}

// complete attaches a finished frame to its parent and walks up while
// parents become finished in turn.
func (b *Builder) complete(arena []*frame, idx int, attach bool) {
	for {
		f := arena[idx]
		if f.parent < 0 {
			return
		}
		parent := arena[f.parent]
		if attach {
			parent.node.AddChild(f.node)
		}
		parent.pending--
		if parent.pending > 0 {
			return
		}
		idx = f.parent
		attach = true
	}
}

// resolveDir reports whether de should be descended into, along with the
// stat result used for cycle detection.
func (b *Builder) resolveDir(de fs.DirEntry, full string) (fs.FileInfo, bool) {
	mode := de.Type()
	switch {
	case mode&fs.ModeSymlink != 0:
		if !b.cfg.FollowSymlinks {
			return nil, false
		}
		info, err := b.reader.Stat(full)
		if err != nil {
			b.logger.Debug("Dangling symbolic link indexed as a file", zap.String("path", full), zap.Error(err))
			return nil, false
		}
		return info, info.IsDir()
	case mode.IsDir():
		info, err := b.reader.Stat(full)
		if err != nil {
			// Listed but not stattable; ReadDir on it reports the failure.
			return nil, true
		}
		return info, true
	default:
		return nil, false
	}
}
