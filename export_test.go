// FILE: lixenwraith/conftree/export_test.go
package conftree

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const exportConfig = `# exported
zeta = last
[server]
	port = 8080
	host = localhost
	host = example.com
	[tls]
		cert = /etc/cert.pem
	[!tls]
[!server]
alpha = first
`

func newExportConfig(t *testing.T) *Config {
	t.Helper()
	tree, err := ParseString("export.conf", exportConfig)
	require.NoError(t, err)
	return New("export.conf", tree)
}

func TestExport(t *testing.T) {
	cfg := newExportConfig(t)

	expected := map[string]any{
		"zeta":  "last",
		"alpha": "first",
		"server": map[string]any{
			"port": "8080",
			"host": "example.com",
			"tls":  map[string]any{"cert": "/etc/cert.pem"},
		},
	}

	t.Run("AsMap", func(t *testing.T) {
		assert.Equal(t, expected, cfg.AsMap())
	})

	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, cfg.ExportJSON(&buf))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, expected, decoded)
		assert.Contains(t, buf.String(), "\n  \"alpha\"")
	})

	t.Run("TOML", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, cfg.ExportTOML(&buf))

		var decoded map[string]any
		_, err := toml.Decode(buf.String(), &decoded)
		require.NoError(t, err)
		assert.Equal(t, expected, decoded)
	})

	t.Run("YAMLKeepsOrder", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, cfg.ExportYAML(&buf))

		expectedYAML := "zeta: last\n" +
			"server:\n" +
			"  port: \"8080\"\n" +
			"  host: example.com\n" +
			"  tls:\n" +
			"    cert: /etc/cert.pem\n" +
			"alpha: first\n"
		assert.Equal(t, expectedYAML, buf.String())

		var decoded map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, expected, decoded)
	})

	t.Run("View", func(t *testing.T) {
		view, err := cfg.GetInstance("server.tls")
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, view.ExportJSON(&buf))
		assert.JSONEq(t, `{"cert": "/etc/cert.pem"}`, buf.String())
	})
}

func TestExportNameConflicts(t *testing.T) {
	const conflicting = "db = before\n[db]\n\thost = a\n[!db]\n[cache]\n\tsize = 1\n[!cache]\ncache = after\n"

	var logs bytes.Buffer
	opts := DefaultCacheOptions()
	opts.Logger = zerolog.New(&logs).Level(zerolog.DebugLevel)
	cfg, err := NewCache(opts).LoadString("conflict.conf", conflicting, false)
	require.NoError(t, err)

	expected := map[string]any{
		"db":    map[string]any{"host": "a"},
		"cache": map[string]any{"size": "1"},
	}

	t.Run("SectionWins", func(t *testing.T) {
		logs.Reset()
		assert.Equal(t, expected, cfg.AsMap())
		assert.Equal(t, 2, strings.Count(logs.String(), "Value shadowed by section"))
		assert.Contains(t, logs.String(), `"path":"db"`)
		assert.Contains(t, logs.String(), `"path":"cache"`)
	})

	t.Run("YAML", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, cfg.ExportYAML(&buf))
		assert.Equal(t, "db:\n  host: a\ncache:\n  size: \"1\"\n", buf.String())
	})

	t.Run("Scan", func(t *testing.T) {
		var target struct {
			DB struct {
				Host string `conf:"host"`
			} `conf:"db"`
		}
		require.NoError(t, cfg.Scan(&target))
		assert.Equal(t, "a", target.DB.Host)
	})
}

func TestImportTOML(t *testing.T) {
	t.Run("KeepsDocumentOrder", func(t *testing.T) {
		input := `
name = "svc"
debug = true
ratio = 0.5
ports = [80, 443]

[server]
port = 8080
host = "localhost"

[server.tls]
verify = false

[database]
dsn = "postgres://db"
`
		tree, err := ImportTOML("in.toml", strings.NewReader(input))
		require.NoError(t, err)

		assert.Equal(t, []string{"name", "debug", "ratio", "ports", "ports"}, tree.ValueNames())
		assert.Equal(t, []string{"server", "database"}, tree.SectionNames())

		cfg := New("in.toml", tree)
		assert.Equal(t, "svc", cfg.TryString("", "name"))
		assert.True(t, cfg.TryBool(false, "debug"))
		assert.Equal(t, 0.5, cfg.TryFloat64(0, "ratio"))
		assert.Equal(t, []string{"80", "443"}, cfg.TryStrings(nil, "ports"))
		assert.Equal(t, []string{"port", "host"}, cfg.TryNames(nil, "server"))
		assert.False(t, cfg.TryBool(true, "server.tls.verify"))
		assert.Equal(t, "postgres://db", cfg.TryString("", "database.dsn"))
	})

	t.Run("ArrayOfTables", func(t *testing.T) {
		_, err := ImportTOML("in.toml", strings.NewReader("[[item]]\nx = 1\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "array of tables")
	})

	t.Run("InvalidTOML", func(t *testing.T) {
		_, err := ImportTOML("in.toml", strings.NewReader("= nope"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse TOML")
	})

	t.Run("DottedKeyBecomesSection", func(t *testing.T) {
		tree, err := ImportTOML("in.toml", strings.NewReader("a.b = 1\n"))
		require.NoError(t, err)
		v, err := ResolveValue(tree, "a.b")
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, "1", v.Value)
	})

	t.Run("MultiLineString", func(t *testing.T) {
		_, err := ImportTOML("in.toml", strings.NewReader("msg = \"\"\"\nline one\nline two\"\"\"\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidValue)
		assert.Contains(t, err.Error(), `key "msg"`)
	})

	t.Run("UnserializableKey", func(t *testing.T) {
		_, err := ImportTOML("in.toml", strings.NewReader("\"a=b\" = 1\n"))
		assert.ErrorIs(t, err, ErrInvalidName)
	})
}

func TestImportYAML(t *testing.T) {
	t.Run("KeepsDocumentOrder", func(t *testing.T) {
		input := `
zeta: 1
defaults: &defaults
  retries: 3
server:
  host: localhost
  tags: [a, b]
  empty: null
  limits: *defaults
alpha: yes
`
		tree, err := ImportYAML("in.yaml", strings.NewReader(input))
		require.NoError(t, err)

		assert.Equal(t, []string{"zeta", "alpha"}, tree.ValueNames())
		assert.Equal(t, []string{"defaults", "server"}, tree.SectionNames())

		cfg := New("in.yaml", tree)
		assert.Equal(t, []string{"host", "tags", "tags", "empty"}, cfg.TryNames(nil, "server"))
		assert.Equal(t, []string{"a", "b"}, cfg.TryStrings(nil, "server.tags"))
		assert.Equal(t, "", cfg.TryString("x", "server.empty"))
		assert.Equal(t, 3, cfg.TryInt(0, "server.limits.retries"))
		assert.True(t, cfg.TryBool(false, "alpha"))
	})

	t.Run("Empty", func(t *testing.T) {
		tree, err := ImportYAML("in.yaml", strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, 0, tree.Len())
	})

	t.Run("NotAMapping", func(t *testing.T) {
		_, err := ImportYAML("in.yaml", strings.NewReader("- a\n- b\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be a mapping")
	})

	t.Run("SequenceOfMappings", func(t *testing.T) {
		_, err := ImportYAML("in.yaml", strings.NewReader("items:\n  - x: 1\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only sequences of scalars")
	})

	t.Run("BlockScalar", func(t *testing.T) {
		_, err := ImportYAML("in.yaml", strings.NewReader("msg: |\n  line one\n  line two\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidValue)
		assert.Contains(t, err.Error(), `key "msg"`)
	})

	t.Run("MultiLineSequenceItem", func(t *testing.T) {
		_, err := ImportYAML("in.yaml", strings.NewReader("items:\n  - \"a\\nb\"\n"))
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("FoldedScalarOnOneLine", func(t *testing.T) {
		tree, err := ImportYAML("in.yaml", strings.NewReader("msg: >-\n  line one\n  line two\n"))
		require.NoError(t, err)
		assert.Equal(t, "line one line two", New("in.yaml", tree).TryString("", "msg"))
	})

	t.Run("InvalidSectionName", func(t *testing.T) {
		_, err := ImportYAML("in.yaml", strings.NewReader("\"!x\":\n  a: 1\n"))
		assert.ErrorIs(t, err, ErrInvalidName)
	})
}

// TestExportImportRoundTrip checks that YAML export feeds back into an equal document
func TestExportImportRoundTrip(t *testing.T) {
	cfg := newExportConfig(t)

	var buf bytes.Buffer
	require.NoError(t, cfg.ExportYAML(&buf))

	tree, err := ImportYAML("round.yaml", &buf)
	require.NoError(t, err)
	assert.Equal(t, cfg.AsMap(), New("round.yaml", tree).AsMap())
}
