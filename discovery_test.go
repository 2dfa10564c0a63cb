// FILE: lixenwraith/conftree/discovery_test.go
package conftree

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkdirAll(t *testing.T, base string, parts ...string) string {
	t.Helper()
	dir := filepath.Join(append([]string{base}, parts...)...)
	require.NoError(t, os.MkdirAll(dir, 0755))
	return dir
}

func isolatedDiscovery(t *testing.T) DiscoveryOptions {
	t.Helper()
	t.Setenv("CONFTREE_ROOT", "")
	t.Setenv("CONFTREE_CONFIG_ROOT", "")
	opts := DefaultDiscoveryOptions()
	opts.Hostname = "testhost"
	opts.UseXDG = false
	opts.UseCurrentDir = false
	return opts
}

func TestSystemPaths(t *testing.T) {
	t.Run("FromEnvironment", func(t *testing.T) {
		opts := isolatedDiscovery(t)
		root := t.TempDir()
		etc := mkdirAll(t, root, "etc")
		t.Setenv("CONFTREE_ROOT", root)

		paths := ResolveSystemPaths(opts)
		assert.Equal(t, root, paths.Root)
		assert.Equal(t, etc, paths.Config)
		assert.Equal(t, filepath.Join(root, "lib"), paths.Lib)
		assert.Equal(t, filepath.Join(root, "log"), paths.Log)
	})

	t.Run("ConfigEnvOverrides", func(t *testing.T) {
		opts := isolatedDiscovery(t)
		root := t.TempDir()
		mkdirAll(t, root, "etc")
		custom := t.TempDir()
		t.Setenv("CONFTREE_ROOT", root)
		t.Setenv("CONFTREE_CONFIG_ROOT", custom)

		assert.Equal(t, custom, ResolveSystemPaths(opts).Config)
	})

	t.Run("FallbackToSystemEtc", func(t *testing.T) {
		opts := isolatedDiscovery(t)
		root := t.TempDir()
		t.Setenv("CONFTREE_ROOT", root)

		assert.Equal(t, string(filepath.Separator)+"etc", ResolveSystemPaths(opts).Config)
	})

	t.Run("MissingDirectoryIgnored", func(t *testing.T) {
		t.Setenv("CONFTREE_TEST_DIR", filepath.Join(t.TempDir(), "absent"))
		assert.Equal(t, "", BasePath("CONFTREE_TEST_DIR", ""))
		assert.Equal(t, "", BasePath("", ""))
	})

	t.Run("Complete", func(t *testing.T) {
		paths := SystemPaths{Root: "/opt/app"}
		assert.Equal(t, filepath.Join("/opt/app", "etc/x.conf"), paths.Complete("etc/x.conf"))
		assert.Equal(t, "/var/x.conf", paths.Complete("/var//x.conf"))
	})
}

func TestDiscover(t *testing.T) {
	t.Run("HostSpecificFirst", func(t *testing.T) {
		opts := isolatedDiscovery(t)
		root := t.TempDir()
		etc := mkdirAll(t, root, "etc")
		hostDir := mkdirAll(t, etc, "testhost")
		t.Setenv("CONFTREE_ROOT", root)

		writeConfig(t, etc, "app.conf", "scope = global\n")
		hostFile := writeConfig(t, hostDir, "app.conf", "scope = host\n")

		path, err := Discover("app", opts)
		require.NoError(t, err)
		assert.Equal(t, hostFile, path)
	})

	t.Run("SearchOrder", func(t *testing.T) {
		opts := isolatedDiscovery(t)
		root := t.TempDir()
		etc := mkdirAll(t, root, "etc")
		t.Setenv("CONFTREE_ROOT", root)
		opts.Paths = []string{"/srv/one", "/srv/two"}

		expected := []string{
			filepath.Join(etc, "testhost", "app.conf"),
			filepath.Join(etc, "app.conf"),
			filepath.Join("/srv/one", "app.conf"),
			filepath.Join("/srv/two", "app.conf"),
		}
		assert.Equal(t, expected, SearchPaths("app", opts))
	})

	t.Run("XDGAndCurrentDir", func(t *testing.T) {
		opts := isolatedDiscovery(t)
		xdgHome := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", xdgHome)
		t.Setenv("XDG_CONFIG_DIRS", "")
		opts.UseXDG = true
		opts.UseCurrentDir = true

		paths := SearchPaths("app", opts)
		assert.Contains(t, paths, filepath.Join(xdgHome, "app", "app.conf"))
		assert.Contains(t, paths, filepath.Join("/etc/xdg", "app", "app.conf"))

		cwd, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(cwd, "app.conf"), paths[len(paths)-1])

		xdgFile := writeConfig(t, mkdirAll(t, xdgHome, "app"), "app.conf", "from = xdg\n")
		path, err := Discover("app", opts)
		require.NoError(t, err)
		assert.Equal(t, xdgFile, path)
	})

	t.Run("NotFound", func(t *testing.T) {
		opts := isolatedDiscovery(t)
		opts.Paths = []string{t.TempDir()}

		_, err := Discover("nothing-here", opts)
		assert.True(t, errors.Is(err, ErrConfigNotFound))

		_, err = Discover("", opts)
		assert.True(t, errors.Is(err, ErrConfigNotFound))
	})

	t.Run("LoadSystem", func(t *testing.T) {
		opts := isolatedDiscovery(t)
		dir := t.TempDir()
		opts.Paths = []string{dir}
		file := writeConfig(t, dir, "svc.conf", netConfig)

		cache := NewCache(DefaultCacheOptions())
		cfg, err := cache.LoadSystem("svc", opts)
		require.NoError(t, err)
		assert.Equal(t, file, cfg.Filename())
		assert.Equal(t, []string{file}, cache.Names())
	})
}
