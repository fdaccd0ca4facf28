package snapshot

import (
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"media-catalog/core/codec"
	"media-catalog/core/entry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func defaultConfig() Config {
	return Config{FollowSymlinks: true, OnUnreadable: OnUnreadableSkip}
}

// writeTree creates every path under base; a trailing slash makes a directory.
func writeTree(t *testing.T, base string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(base, filepath.FromSlash(p))
		if p[len(p)-1] == '/' {
			require.NoError(t, os.MkdirAll(full, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, nil, 0o644))
	}
}

func photoLayout(t *testing.T) string {
	base := t.TempDir()
	writeTree(t, base,
		"photo1.jpg",
		"photo2.JPG",
		"summer/flowers.jpg",
		"summer/invitation.png",
		"summer/vacation/party.jpg",
		"summer/vacation/fireflies.RAW",
		"summer/vacation/food.jpg",
		"winter/christmas.jpg",
		"winter/snow.jpg",
	)
	return base
}

// shuffledReader lists directories in a random order.
type shuffledReader struct {
	rng *rand.Rand
}

func (r shuffledReader) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(name)
	if err != nil {
		return nil, err
	}
	r.rng.Shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })
	return entries, nil
}

func (shuffledReader) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func TestBuild_PhotoLayout(t *testing.T) {
	base := photoLayout(t)

	snap, err := NewBuilder("0.1.0", defaultConfig()).Build(base)
	require.NoError(t, err)

	assert.Equal(t, base, snap.Path)
	assert.Equal(t, 9, snap.Files)
	assert.Equal(t, 3, snap.Dirs)
	assert.Empty(t, snap.Skipped)

	data, err := codec.Marshal(snap.Root)
	require.NoError(t, err)
	expected := `{"version":"0.1.0","index":["photo1.jpg","photo2.JPG",` +
		`{"subdir_path":"summer","index":["flowers.jpg","invitation.png",` +
		`{"subdir_path":"vacation","index":["fireflies.RAW","food.jpg","party.jpg"]}]},` +
		`{"subdir_path":"winter","index":["christmas.jpg","snow.jpg"]}]}`
	assert.JSONEq(t, expected, string(data))

	files, dirs := entry.Count(snap.Root)
	assert.Equal(t, 9, files)
	assert.Equal(t, 3, dirs)
}

func TestBuild_ListingOrderDoesNotMatter(t *testing.T) {
	base := photoLayout(t)

	reference, err := NewBuilder("0.1.0", defaultConfig()).Build(base)
	require.NoError(t, err)

	for seed := int64(0); seed < 20; seed++ {
		b := NewBuilder("0.1.0", defaultConfig(), WithReader(shuffledReader{rng: rand.New(rand.NewSource(seed))}))
		snap, err := b.Build(base)
		require.NoError(t, err)
		assert.True(t, entry.Equal(reference.Root, snap.Root), "seed %d", seed)
		assert.Equal(t, entry.Hash(reference.Root), entry.Hash(snap.Root), "seed %d", seed)
	}
}

func TestBuild_EmptyDirectory(t *testing.T) {
	base := t.TempDir()
	writeTree(t, base, "empty/")

	snap, err := NewBuilder("0.1.0", defaultConfig()).Build(base)
	require.NoError(t, err)

	dirs := snap.Root.Dirs()
	require.Len(t, dirs, 1)
	assert.Equal(t, 0, dirs[0].Len())
}

func TestBuild_RootErrors(t *testing.T) {
	t.Run("Missing", func(t *testing.T) {
		_, err := NewBuilder("0.1.0", defaultConfig()).Build(filepath.Join(t.TempDir(), "absent"))
		assert.ErrorIs(t, err, ErrTraversal)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("NotADirectory", func(t *testing.T) {
		base := t.TempDir()
		writeTree(t, base, "file.txt")
		_, err := NewBuilder("0.1.0", defaultConfig()).Build(filepath.Join(base, "file.txt"))
		assert.ErrorIs(t, err, ErrTraversal)
	})
}

func TestBuild_SymlinkCycle(t *testing.T) {
	base := t.TempDir()
	writeTree(t, base, "a/b/file.jpg")
	require.NoError(t, os.Symlink(filepath.Join(base, "a"), filepath.Join(base, "a", "b", "loop")))

	_, err := NewBuilder("0.1.0", defaultConfig()).Build(base)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycleDetected)

	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, filepath.Join(base, "a", "b", "loop"), cycle.Path)
	assert.Equal(t, filepath.Join(base, "a"), cycle.Ancestor)
}

func TestBuild_SelfLoopAtRoot(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Symlink(base, filepath.Join(base, "self")))

	_, err := NewBuilder("0.1.0", defaultConfig()).Build(base)
	assert.ErrorIs(t, err, ErrCycleDetected)
}

func TestBuild_Symlinks(t *testing.T) {
	base := t.TempDir()
	other := t.TempDir()
	writeTree(t, other, "linked.jpg")
	require.NoError(t, os.Symlink(other, filepath.Join(base, "external")))
	require.NoError(t, os.Symlink(filepath.Join(base, "nowhere"), filepath.Join(base, "dangling")))

	t.Run("Follow", func(t *testing.T) {
		snap, err := NewBuilder("0.1.0", defaultConfig()).Build(base)
		require.NoError(t, err)

		expected := entry.NewRoot("0.1.0")
		external := entry.NewDir("external")
		external.AddChild(entry.NewLeaf("linked.jpg"))
		expected.AddChild(external)
		expected.AddChild(entry.NewLeaf("dangling"))
		assert.True(t, entry.Equal(expected, snap.Root))
	})

	t.Run("DoNotFollow", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.FollowSymlinks = false
		snap, err := NewBuilder("0.1.0", cfg).Build(base)
		require.NoError(t, err)

		expected := entry.NewRoot("0.1.0")
		expected.AddChild(entry.NewLeaf("external"))
		expected.AddChild(entry.NewLeaf("dangling"))
		assert.True(t, entry.Equal(expected, snap.Root))
		assert.Equal(t, 0, snap.Dirs)
	})
}

func TestBuild_IgnoreAppliesAtRootOnly(t *testing.T) {
	base := t.TempDir()
	writeTree(t, base, ".catalog-metadata", "keep.jpg", "nested/.catalog-metadata")

	snap, err := NewBuilder("0.1.0", defaultConfig(), WithIgnore(".catalog-metadata")).Build(base)
	require.NoError(t, err)

	leaves := snap.Root.Leaves()
	require.Len(t, leaves, 1)
	assert.Equal(t, "keep.jpg", leaves[0].Name())

	dirs := snap.Root.Dirs()
	require.Len(t, dirs, 1)
	require.Len(t, dirs[0].Leaves(), 1)
	assert.Equal(t, ".catalog-metadata", dirs[0].Leaves()[0].Name())
}

// failingReader reads the OS filesystem but fails to list the given paths.
type failingReader struct {
	fail map[string]error
}

func (r failingReader) ReadDir(name string) ([]fs.DirEntry, error) {
	if err, ok := r.fail[name]; ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return os.ReadDir(name)
}

func (failingReader) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func TestBuild_UnreadableDirectory(t *testing.T) {
	base := t.TempDir()
	writeTree(t, base, "ok.jpg", "locked/secret.jpg", "locked/inner/deep.jpg", "open/visible.jpg", "open/nested/more.jpg")
	locked := filepath.Join(base, "locked")
	nested := filepath.Join(base, "open", "nested")

	tests := []struct {
		name    string
		fail    []string
		skipped []string
		dirs    []string
		files   int
	}{
		{"TopLevel", []string{locked}, []string{locked}, []string{"open"}, 3},
		{"Nested", []string{nested}, []string{nested}, []string{"locked", "open"}, 4},
		{"Both", []string{locked, nested}, []string{locked, nested}, []string{"open"}, 2},
	}

	for _, tt := range tests {
		t.Run("Skip"+tt.name, func(t *testing.T) {
			reader := failingReader{fail: map[string]error{}}
			for _, p := range tt.fail {
				reader.fail[p] = fs.ErrPermission
			}
			core, logs := observer.New(zapcore.WarnLevel)

			snap, err := NewBuilder("0.1.0", defaultConfig(), WithReader(reader), WithLogger(zap.New(core))).Build(base)
			require.NoError(t, err)

			assert.ElementsMatch(t, tt.skipped, snap.Skipped)
			assert.Equal(t, len(tt.fail), logs.FilterMessage("Skipping unreadable directory").Len())

			names := make([]string, 0)
			for _, d := range snap.Root.Dirs() {
				name, _ := d.Name()
				names = append(names, name)
			}
			assert.Equal(t, tt.dirs, names)

			files, dirs := entry.Count(snap.Root)
			assert.Equal(t, tt.files, files)
			assert.Equal(t, files, snap.Files)
			assert.Equal(t, dirs, snap.Dirs)
		})

		t.Run("Abort"+tt.name, func(t *testing.T) {
			reader := failingReader{fail: map[string]error{}}
			for _, p := range tt.fail {
				reader.fail[p] = fs.ErrPermission
			}
			cfg := defaultConfig()
			cfg.OnUnreadable = OnUnreadableAbort

			_, err := NewBuilder("0.1.0", cfg, WithReader(reader)).Build(base)
			assert.ErrorIs(t, err, ErrTraversal)
			assert.ErrorIs(t, err, fs.ErrPermission)

			var traversal *TraversalError
			require.ErrorAs(t, err, &traversal)
			assert.Contains(t, tt.fail, traversal.Path)
		})
	}

	t.Run("UnreadableRoot", func(t *testing.T) {
		reader := failingReader{fail: map[string]error{base: fs.ErrPermission}}
		_, err := NewBuilder("0.1.0", defaultConfig(), WithReader(reader)).Build(base)
		assert.ErrorIs(t, err, ErrTraversal)
	})
}

func TestBuild_CountsMatchTree(t *testing.T) {
	snap, err := NewBuilder("0.1.0", defaultConfig()).Build(photoLayout(t))
	require.NoError(t, err)

	files, dirs := entry.Count(snap.Root)
	assert.Equal(t, files, snap.Files)
	assert.Equal(t, dirs, snap.Dirs)
}

func TestBuild_NonUTF8Names(t *testing.T) {
	base := t.TempDir()
	for _, name := range []string{"a\xff", "a\xfe"} {
		if err := os.WriteFile(filepath.Join(base, name), nil, 0o644); err != nil {
			t.Skipf("filesystem rejects non UTF-8 names: %v", err)
		}
	}

	snap, err := NewBuilder("0.1.0", defaultConfig()).Build(base)
	require.NoError(t, err)
	require.Len(t, snap.Root.Leaves(), 2)

	data, err := codec.Marshal(snap.Root)
	require.NoError(t, err)
	decoded, err := codec.UnmarshalSnapshot(data)
	require.NoError(t, err)

	assert.Len(t, decoded.Leaves(), 2)
	assert.True(t, entry.Equal(snap.Root, decoded))
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{OnUnreadable: OnUnreadableSkip}.Validate())
	assert.NoError(t, Config{OnUnreadable: OnUnreadableAbort}.Validate())
	assert.Error(t, Config{OnUnreadable: "ignore"}.Validate())
}
