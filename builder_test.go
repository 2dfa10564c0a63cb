// FILE: lixenwraith/conftree/builder_test.go
package conftree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	t.Run("FromFile", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "app.conf", netConfig)

		cfg, err := NewBuilder().WithFile(path).Build()
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.TryInt(0, "net.port"))
	})

	t.Run("FromString", func(t *testing.T) {
		cfg, err := NewBuilder().WithString("inline", "a = 1\n").Build()
		require.NoError(t, err)
		assert.Equal(t, "inline", cfg.Name())
		assert.Equal(t, 1, cfg.TryInt(0, "a"))
	})

	t.Run("StringTakesPriority", func(t *testing.T) {
		cfg, err := NewBuilder().
			WithFile("/does/not/exist.conf").
			WithString("inline", "a = 1\n").
			Build()
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.TryInt(0, "a"))
	})

	t.Run("EmptyIDRejected", func(t *testing.T) {
		_, err := NewBuilder().WithString("", "a = 1\n").Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires an id")
	})

	t.Run("NoSource", func(t *testing.T) {
		_, err := NewBuilder().Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no configuration source")
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := NewBuilder().WithFile("/does/not/exist.conf").Build()
		assert.True(t, errors.Is(err, ErrConfigNotFound))
	})

	t.Run("WithSection", func(t *testing.T) {
		cfg, err := NewBuilder().
			WithString("net.conf", netConfig).
			WithSection("net").
			Build()
		require.NoError(t, err)
		assert.Equal(t, "net.conf-net", cfg.Name())
		assert.Equal(t, "localhost", cfg.TryString("", "host"))

		_, err = NewBuilder().
			WithString("net.conf", netConfig).
			WithSection("missing").
			Build()
		assert.True(t, errors.Is(err, ErrPathNotFound))
	})

	t.Run("SharedCache", func(t *testing.T) {
		cache := NewCache(DefaultCacheOptions())
		first, err := NewBuilder().WithCache(cache).WithString("shared", "a = 1\n").Build()
		require.NoError(t, err)

		// Without replace the cached document wins
		second, err := NewBuilder().WithCache(cache).WithString("shared", "a = 2\n").Build()
		require.NoError(t, err)
		assert.Equal(t, 1, second.TryInt(0, "a"))

		_, err = NewBuilder().WithCache(cache).WithString("shared", "a = 3\n").WithReplace(true).Build()
		require.NoError(t, err)
		assert.Equal(t, 3, first.TryInt(0, "a"))
		assert.Equal(t, 1, cache.Len())
	})

	t.Run("StrictSetters", func(t *testing.T) {
		cfg, err := NewBuilder().
			WithString("strict", "a = 1\n").
			WithStrictSetters(true).
			Build()
		require.NoError(t, err)
		assert.True(t, errors.Is(cfg.SetBool(true, "missing"), ErrPathNotFound))
	})

	t.Run("Discovery", func(t *testing.T) {
		root := t.TempDir()
		etc := mkdirAll(t, root, "etc")
		writeConfig(t, etc, "builder.conf", "found = yes\n")

		t.Setenv("CONFTREE_ROOT", root)
		t.Setenv("CONFTREE_CONFIG_ROOT", "")

		opts := DefaultDiscoveryOptions()
		opts.UseXDG = false
		opts.UseCurrentDir = false
		cfg, err := NewBuilder().WithDiscovery("builder", opts).Build()
		require.NoError(t, err)
		assert.True(t, cfg.TryBool(false, "found"))
	})
}

func TestBuilderValidators(t *testing.T) {
	t.Run("RunInOrder", func(t *testing.T) {
		var order []string
		cfg, err := NewBuilder().
			WithString("v", netConfig).
			WithValidator(func(c *Config) error {
				order = append(order, "first")
				return c.Validate("net.host", "net.port")
			}).
			WithValidator(nil).
			WithValidator(func(c *Config) error {
				order = append(order, "second")
				return nil
			}).
			Build()
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("FailureStops", func(t *testing.T) {
		sentinel := errors.New("port too low")
		called := false
		_, err := NewBuilder().
			WithString("v", netConfig).
			WithValidator(func(c *Config) error {
				if c.TryInt(0, "net.port") < 10000 {
					return sentinel
				}
				return nil
			}).
			WithValidator(func(c *Config) error {
				called = true
				return nil
			}).
			Build()
		require.Error(t, err)
		assert.True(t, errors.Is(err, sentinel))
		assert.Contains(t, err.Error(), "configuration validation failed")
		assert.False(t, called)
	})
}

func TestBuildAndScan(t *testing.T) {
	type netSettings struct {
		Host string `conf:"host" validate:"required"`
		Port int    `conf:"port" validate:"min=1,max=65535"`
	}

	t.Run("Success", func(t *testing.T) {
		var settings netSettings
		cfg, err := NewBuilder().
			WithString("net.conf", netConfig).
			WithSection("net").
			BuildAndScan(&settings)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, netSettings{Host: "localhost", Port: 8080}, settings)
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		var settings netSettings
		_, err := NewBuilder().
			WithString("net.conf", "[net]\nhost = x\nport = 0\n[!net]\n").
			WithSection("net").
			BuildAndScan(&settings)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to scan final config into target")
	})

	t.Run("MustBuildPanics", func(t *testing.T) {
		assert.Panics(t, func() { NewBuilder().MustBuild() })
		assert.NotPanics(t, func() { NewBuilder().WithString("ok", "").MustBuild() })
	})
}
