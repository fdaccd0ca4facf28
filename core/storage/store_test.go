package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"media-catalog/core/storage"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() storage.Config {
	return storage.Config{
		Root:                 "/catalog",
		ConfigName:           "config.json",
		MetadataName:         ".catalog-metadata",
		SeparatorReplacement: "+",
		IndexName:            "index.json",
	}
}

func newStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(afero.NewMemMapFs(), testConfig())
	require.NoError(t, err)
	return store
}

func TestConfig_RootDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		root     string
		expected string
		wantErr  bool
	}{
		{name: "Absolute", root: "/var/catalog/", expected: "/var/catalog"},
		{name: "Tilde", root: "~", expected: home},
		{name: "TildeSubdir", root: "~/.media-catalog", expected: filepath.Join(home, ".media-catalog")},
		{name: "TildeUserIsLiteral", root: "~other/x", expected: "~other/x"},
		{name: "Empty", root: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Root = tt.root
			got, err := cfg.RootDir()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNewStore_RejectsEmptySeparator(t *testing.T) {
	cfg := testConfig()
	cfg.SeparatorReplacement = ""
	_, err := storage.NewStore(afero.NewMemMapFs(), cfg)
	assert.Error(t, err)
}

func TestStore_Layout(t *testing.T) {
	store := newStore(t)

	assert.Equal(t, "/catalog", store.Root())
	assert.Equal(t, "/catalog/config.json", store.RegistryPath())
	assert.Equal(t, "/catalog/photos", store.LibraryDir("photos"))
	assert.Equal(t, "/catalog/photos/disk-a", store.SectorDir("photos", "disk-a"))
	assert.Equal(t, "/catalog/photos/disk-a/+mnt+usb", store.MediaDir("photos", "disk-a", "/mnt/usb"))
	assert.Equal(t, "/catalog/photos/disk-a/+mnt+usb/index.json", store.IndexPath("photos", "disk-a", "/mnt/usb"))

	assert.Equal(t, "+mnt+usb", store.FlattenMediaPath("/mnt/usb"))
	assert.Equal(t, "/mnt/usb", store.UnflattenMediaPath("+mnt+usb"))
}

func TestNormalizeMediaPath(t *testing.T) {
	got, err := storage.NormalizeMediaPath("/mnt//usb/./photos/")
	require.NoError(t, err)
	assert.Equal(t, "/mnt/usb/photos", got)

	wd, err := os.Getwd()
	require.NoError(t, err)
	got, err = storage.NormalizeMediaPath("media")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "media"), got)

	_, err = storage.NormalizeMediaPath("  ")
	assert.Error(t, err)
}

func TestStore_JSON(t *testing.T) {
	store := newStore(t)
	path := "/catalog/nested/doc.json"

	type doc struct {
		Name  string   `json:"name"`
		Items []string `json:"items"`
	}

	require.NoError(t, store.WriteJSON(path, doc{Name: "a", Items: []string{"x"}}))

	var got doc
	require.NoError(t, store.ReadJSON(path, &got))
	assert.Equal(t, doc{Name: "a", Items: []string{"x"}}, got)

	t.Run("LeavesNoTemporaryFiles", func(t *testing.T) {
		infos, err := afero.ReadDir(store.Fs(), "/catalog/nested")
		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, "doc.json", infos[0].Name())
	})

	t.Run("Overwrites", func(t *testing.T) {
		require.NoError(t, store.WriteJSON(path, doc{Name: "b"}))
		var again doc
		require.NoError(t, store.ReadJSON(path, &again))
		assert.Equal(t, "b", again.Name)
	})

	t.Run("AcceptsCommentsAndTrailingCommas", func(t *testing.T) {
		lenient := "/catalog/lenient.json"
		require.NoError(t, afero.WriteFile(store.Fs(), lenient, []byte(`{
			// hand edited
			"name": "c",
			"items": ["y", "z",],
		}`), 0o644))

		var got doc
		require.NoError(t, store.ReadJSON(lenient, &got))
		assert.Equal(t, doc{Name: "c", Items: []string{"y", "z"}}, got)
	})

	t.Run("Missing", func(t *testing.T) {
		var got doc
		err := store.ReadJSON("/catalog/absent.json", &got)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Malformed", func(t *testing.T) {
		bad := "/catalog/bad.json"
		require.NoError(t, afero.WriteFile(store.Fs(), bad, []byte(`{"name":`), 0o644))
		var got doc
		assert.Error(t, store.ReadJSON(bad, &got))
	})
}

func TestStore_Directories(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.MkdirAll("/catalog/photos/b"))
	require.NoError(t, store.MkdirAll("/catalog/photos/a"))
	require.NoError(t, store.WriteFile("/catalog/photos/file.txt", []byte("x")))

	names, err := store.ListDirs("/catalog/photos")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	isDir, err := store.IsDir("/catalog/photos/a")
	require.NoError(t, err)
	assert.True(t, isDir)

	isDir, err = store.IsDir("/catalog/photos/file.txt")
	require.NoError(t, err)
	assert.False(t, isDir)

	isDir, err = store.IsDir("/catalog/absent")
	require.NoError(t, err)
	assert.False(t, isDir)

	require.NoError(t, store.RemoveAll("/catalog/photos"))
	exists, err := store.Exists("/catalog/photos/a")
	require.NoError(t, err)
	assert.False(t, exists)
}
