package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"media-catalog/core/storage"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testVersion = "0.1.0"

func storageConfig() storage.Config {
	return storage.Config{
		Root:                 "/catalog",
		ConfigName:           "config.json",
		MetadataName:         ".catalog-metadata",
		SeparatorReplacement: "+",
		IndexName:            "index.json",
	}
}

type fixture struct {
	svc   *Service
	store *storage.Store
	media afero.Fs
	logs  *observer.ObservedLogs
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store, err := storage.NewStore(afero.NewMemMapFs(), storageConfig())
	require.NoError(t, err)

	media := afero.NewMemMapFs()
	require.NoError(t, media.MkdirAll("/mnt/usb", 0o755))
	require.NoError(t, media.MkdirAll("/mnt/ext", 0o755))

	core, logs := observer.New(zapcore.InfoLevel)
	return &fixture{
		svc:   NewService(store, media, testVersion, zap.New(core)),
		store: store,
		media: media,
		logs:  logs,
	}
}

func (f *fixture) writeRegistry(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(f.store.Fs(), f.store.RegistryPath(), []byte(content), 0o644))
}

func TestCreateLibrary(t *testing.T) {
	t.Run("InitializesMissingConfig", func(t *testing.T) {
		f := setup(t)
		require.NoError(t, f.svc.CreateLibrary("photos", "", false))

		reg, err := f.svc.Load()
		require.NoError(t, err)
		assert.Equal(t, testVersion, reg.Version)
		require.Contains(t, reg.Libraries, "photos")
		assert.Equal(t, "filename", reg.Libraries["photos"].Comparator)
		assert.Empty(t, reg.Libraries["photos"].Sectors)

		isDir, err := f.store.IsDir("/catalog/photos")
		require.NoError(t, err)
		assert.True(t, isDir)
	})

	t.Run("PersistsEmptySectorsAsObject", func(t *testing.T) {
		f := setup(t)
		require.NoError(t, f.svc.CreateLibrary("photos", "path", false))

		data, err := f.store.ReadFile(f.store.RegistryPath())
		require.NoError(t, err)
		assert.JSONEq(t, `{"version":"0.1.0","libraryMapping":{"photos":{"sectors":{},"comparator":"path"}}}`, string(data))
	})

	t.Run("DuplicateName", func(t *testing.T) {
		f := setup(t)
		require.NoError(t, f.svc.CreateLibrary("photos", "", false))
		err := f.svc.CreateLibrary("photos", "", false)
		assert.ErrorIs(t, err, ErrStateConflict)
	})

	t.Run("InvalidNames", func(t *testing.T) {
		f := setup(t)
		for _, name := range []string{"", " ", ".", "..", "a/b"} {
			assert.ErrorIs(t, f.svc.CreateLibrary(name, "", false), ErrInvalidArgument, "name %q", name)
		}
	})

	t.Run("UnknownComparator", func(t *testing.T) {
		f := setup(t)
		assert.ErrorIs(t, f.svc.CreateLibrary("photos", "checksum", false), ErrInvalidArgument)
	})

	t.Run("CorruptedConfig", func(t *testing.T) {
		f := setup(t)
		f.writeRegistry(t, `{"version": "0.1.0", "libraryMapping": `)

		err := f.svc.CreateLibrary("photos", "", false)
		assert.ErrorIs(t, err, ErrInvalidConfig)

		require.NoError(t, f.svc.CreateLibrary("photos", "", true))
		assert.Equal(t, 1, f.logs.FilterMessage("Forced to recreate corrupted catalog config").Len())

		names, err := f.svc.ListLibraries()
		require.NoError(t, err)
		assert.Equal(t, []string{"photos"}, names)
	})
}

func TestLoad(t *testing.T) {
	t.Run("Missing", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.Load()
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("OtherVersionWarns", func(t *testing.T) {
		f := setup(t)
		f.writeRegistry(t, `{"version":"0.0.1","libraryMapping":{}}`)
		_, err := f.svc.Load()
		require.NoError(t, err)
		assert.Equal(t, 1, f.logs.FilterMessage("Loading a catalog config from another version").Len())
	})

	t.Run("MissingVersionWarns", func(t *testing.T) {
		f := setup(t)
		f.writeRegistry(t, `{"libraryMapping":{"photos":{"comparator":"filename"}}}`)
		reg, err := f.svc.Load()
		require.NoError(t, err)
		assert.Equal(t, 1, f.logs.FilterMessage("Catalog config does not specify a version").Len())
		assert.NotNil(t, reg.Libraries["photos"].Sectors)
	})

	t.Run("HandEditedWithComments", func(t *testing.T) {
		f := setup(t)
		f.writeRegistry(t, `{
			"version": "0.1.0",
			// archived disks
			"libraryMapping": {"photos": {"sectors": {"disk-a": ["/mnt/usb",]}, "comparator": "filename"},},
		}`)
		reg, err := f.svc.Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"/mnt/usb"}, reg.Libraries["photos"].Sectors["disk-a"])
	})

	t.Run("NullLibrary", func(t *testing.T) {
		f := setup(t)
		f.writeRegistry(t, `{"version":"0.1.0","libraryMapping":{"photos":null}}`)
		_, err := f.svc.Load()
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("SectorNotAList", func(t *testing.T) {
		f := setup(t)
		f.writeRegistry(t, `{"version":"0.1.0","libraryMapping":{"photos":{"sectors":{"disk-a":"x"}}}}`)
		_, err := f.svc.Load()
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestDeleteLibrary(t *testing.T) {
	t.Run("RemovesEntryAndDirectory", func(t *testing.T) {
		f := setup(t)
		require.NoError(t, f.svc.CreateLibrary("photos", "", false))
		require.NoError(t, f.svc.CreateLibrary("music", "", false))
		require.NoError(t, f.svc.RegisterSector("photos", "disk-a"))

		require.NoError(t, f.svc.DeleteLibrary("photos"))

		names, err := f.svc.ListLibraries()
		require.NoError(t, err)
		assert.Equal(t, []string{"music"}, names)

		exists, err := f.store.Exists("/catalog/photos")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("MissingDirectoryWarns", func(t *testing.T) {
		f := setup(t)
		require.NoError(t, f.svc.CreateLibrary("photos", "", false))
		require.NoError(t, f.store.RemoveAll("/catalog/photos"))

		require.NoError(t, f.svc.DeleteLibrary("photos"))
		assert.Equal(t, 1, f.logs.FilterMessageSnippet("Possible data loss").Len())
	})

	t.Run("Unknown", func(t *testing.T) {
		f := setup(t)
		require.NoError(t, f.svc.CreateLibrary("photos", "", false))
		assert.ErrorIs(t, f.svc.DeleteLibrary("music"), ErrStateConflict)
	})

	t.Run("NoConfig", func(t *testing.T) {
		f := setup(t)
		assert.ErrorIs(t, f.svc.DeleteLibrary("photos"), ErrConfigNotFound)
	})
}

func TestRegisterSector(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.svc.CreateLibrary("photos", "", false))

	require.NoError(t, f.svc.RegisterSector("photos", "disk-a"))

	lib, err := f.svc.Library("photos")
	require.NoError(t, err)
	assert.Equal(t, []string{"disk-a"}, lib.SectorNames())
	assert.Empty(t, lib.Sectors["disk-a"])

	isDir, err := f.store.IsDir("/catalog/photos/disk-a")
	require.NoError(t, err)
	assert.True(t, isDir)

	assert.ErrorIs(t, f.svc.RegisterSector("photos", "disk-a"), ErrStateConflict)
	assert.ErrorIs(t, f.svc.RegisterSector("photos", "disk/b"), ErrInvalidArgument)
	assert.ErrorIs(t, f.svc.RegisterSector("music", "disk-a"), ErrInvalidConfig)
}

func TestRegisterMedia(t *testing.T) {
	newLibrary := func(t *testing.T) *fixture {
		f := setup(t)
		require.NoError(t, f.svc.CreateLibrary("photos", "", false))
		require.NoError(t, f.svc.RegisterSector("photos", "disk-a"))
		return f
	}

	t.Run("Registers", func(t *testing.T) {
		f := newLibrary(t)

		path, err := f.svc.RegisterMedia("photos", "disk-a", "/mnt/usb/")
		require.NoError(t, err)
		assert.Equal(t, "/mnt/usb", path)

		marker, err := afero.ReadFile(f.media, "/mnt/usb/.catalog-metadata")
		require.NoError(t, err)
		assert.Equal(t, "disk-a", string(marker))

		isDir, err := f.store.IsDir("/catalog/photos/disk-a/+mnt+usb")
		require.NoError(t, err)
		assert.True(t, isDir)

		lib, err := f.svc.Library("photos")
		require.NoError(t, err)
		assert.Equal(t, []string{"/mnt/usb"}, lib.Sectors["disk-a"])
	})

	t.Run("AlreadyRegistered", func(t *testing.T) {
		f := newLibrary(t)
		require.NoError(t, f.svc.RegisterSector("photos", "disk-b"))
		_, err := f.svc.RegisterMedia("photos", "disk-a", "/mnt/usb")
		require.NoError(t, err)

		_, err = f.svc.RegisterMedia("photos", "disk-b", "/mnt/usb")
		assert.ErrorIs(t, err, ErrStateConflict)
	})

	t.Run("ReservedCharacter", func(t *testing.T) {
		f := newLibrary(t)
		_, err := f.svc.RegisterMedia("photos", "disk-a", "/mnt/usb+1")
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("UnknownSector", func(t *testing.T) {
		f := newLibrary(t)
		_, err := f.svc.RegisterMedia("photos", "disk-z", "/mnt/usb")
		assert.ErrorIs(t, err, ErrStateConflict)
	})

	t.Run("MissingSectorDirectory", func(t *testing.T) {
		f := newLibrary(t)
		require.NoError(t, f.store.RemoveAll("/catalog/photos/disk-a"))

		_, err := f.svc.RegisterMedia("photos", "disk-a", "/mnt/usb")
		assert.ErrorIs(t, err, ErrStateConflict)

		exists, _ := afero.Exists(f.media, "/mnt/usb/.catalog-metadata")
		assert.False(t, exists)
	})

	t.Run("ReadOnlyMedia", func(t *testing.T) {
		f := newLibrary(t)
		f.svc.media = afero.NewReadOnlyFs(f.media)

		_, err := f.svc.RegisterMedia("photos", "disk-a", "/mnt/usb")
		assert.ErrorIs(t, err, ErrPermission)
	})

	t.Run("MissingMediaPath", func(t *testing.T) {
		store, err := storage.NewStore(afero.NewMemMapFs(), storageConfig())
		require.NoError(t, err)
		svc := NewService(store, afero.NewOsFs(), testVersion, zap.NewNop())
		require.NoError(t, svc.CreateLibrary("photos", "", false))
		require.NoError(t, svc.RegisterSector("photos", "disk-a"))

		absent := filepath.Join(t.TempDir(), "unplugged")
		_, err = svc.RegisterMedia("photos", "disk-a", absent)
		assert.ErrorIs(t, err, ErrMetadataNotFound)

		_, statErr := os.Stat(absent)
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestRequireMedia(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.svc.CreateLibrary("photos", "path", false))
	require.NoError(t, f.svc.RegisterSector("photos", "disk-a"))
	_, err := f.svc.RegisterMedia("photos", "disk-a", "/mnt/usb")
	require.NoError(t, err)

	lib, path, err := f.svc.RequireMedia("photos", "disk-a", "/mnt/./usb")
	require.NoError(t, err)
	assert.Equal(t, "/mnt/usb", path)
	assert.Equal(t, "path", lib.Comparator)

	_, _, err = f.svc.RequireMedia("photos", "disk-a", "/mnt/ext")
	assert.ErrorIs(t, err, ErrStateConflict)

	_, _, err = f.svc.RequireMedia("photos", "disk-z", "/mnt/usb")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, _, err = f.svc.RequireMedia("music", "disk-a", "/mnt/usb")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
