// FILE: lixenwraith/conftree/path_test.go
package conftree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name     string
		segments []string
		expected []string
	}{
		{"Single", []string{"a"}, []string{"a"}},
		{"Dotted", []string{"a.b.c"}, []string{"a", "b", "c"}},
		{"Mixed", []string{"a.b", "c"}, []string{"a", "b", "c"}},
		{"Separate", []string{"a", "b", "c"}, []string{"a", "b", "c"}},
		{"None", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitPath(tt.segments...))
		})
	}

	assert.Equal(t, "a.b.c", JoinPath("a.b", "c"))
}

func TestResolve(t *testing.T) {
	tree, err := ParseString("t", "[a]\n[b]\nx = 1\nx = 2\n[!b]\n[!a]\ntop = 3\n")
	require.NoError(t, err)

	t.Run("FlattenedPathsEquivalent", func(t *testing.T) {
		forms := [][]string{{"a.b.x"}, {"a", "b.x"}, {"a.b", "x"}, {"a", "b", "x"}}
		for _, form := range forms {
			values, err := ResolveValues(tree, form...)
			require.NoError(t, err)
			require.Len(t, values, 2)
			assert.Equal(t, "1", values[0].Value)
			assert.Equal(t, "2", values[1].Value)
		}
	})

	t.Run("LastWins", func(t *testing.T) {
		v, err := ResolveValue(tree, "a.b.x")
		require.NoError(t, err)
		assert.Equal(t, "2", v.Value)
	})

	t.Run("MissingLeafIsEmpty", func(t *testing.T) {
		values, err := ResolveValues(tree, "a.b.missing")
		require.NoError(t, err)
		assert.Empty(t, values)

		v, err := ResolveValue(tree, "a.b.missing")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("MissingIntermediate", func(t *testing.T) {
		_, err := ResolveValues(tree, "a.nope.x")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrPathNotFound))

		var notFound *PathNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, "nope", notFound.Component)
		assert.Equal(t, "a.nope.x", notFound.Path)
	})

	t.Run("ValueIsNotSection", func(t *testing.T) {
		_, err := ResolveValues(tree, "top.x")
		assert.True(t, errors.Is(err, ErrPathNotFound))
	})

	t.Run("Sections", func(t *testing.T) {
		sections, err := ResolveSections(tree, "a.b")
		require.NoError(t, err)
		require.Len(t, sections, 1)
		assert.Equal(t, "b", sections[0].Name)

		section, err := ResolveSection(tree, "a")
		require.NoError(t, err)
		require.NotNil(t, section)
		assert.Equal(t, "a", section.Name)

		section, err = ResolveSection(tree, "zzz")
		require.NoError(t, err)
		assert.Nil(t, section)
	})

	t.Run("EmptyPath", func(t *testing.T) {
		_, err := ResolveValues(tree)
		assert.True(t, errors.Is(err, ErrPathNotFound))
	})
}

func TestEntryModel(t *testing.T) {
	t.Run("Equality", func(t *testing.T) {
		assert.True(t, (&StringValue{Name: "a", Value: "1"}).Equal(&StringValue{Name: "a", Value: "2"}))
		assert.False(t, (&StringValue{Name: "a"}).Equal(&Section{Name: "a"}))
		assert.True(t, (&Section{Name: "s", Line: 1}).Equal(&Section{Name: "s", Line: 9}))
		assert.True(t, (&Comment{Text: "# x"}).Equal(&Comment{Text: "# x"}))
		assert.False(t, (&Comment{Text: "# x"}).Equal(&Comment{Text: "# y"}))
		assert.True(t, (&Blank{Line: 1}).Equal(&Blank{Line: 2}))
	})

	t.Run("ConstructorsValidate", func(t *testing.T) {
		_, err := NewStringValue("", "x")
		assert.True(t, errors.Is(err, ErrInvalidName))
		_, err = NewSection("a.b")
		assert.True(t, errors.Is(err, ErrInvalidName))

		s, err := NewSection("ok")
		require.NoError(t, err)
		assert.Equal(t, 0, s.Children.Len())
	})

	t.Run("NamesInFileOrder", func(t *testing.T) {
		tree, err := ParseString("t", "b = 1\n[z]\n[!z]\na = 2\n[y]\n[!y]\nb = 3\n")
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a", "b"}, tree.ValueNames())
		assert.Equal(t, []string{"z", "y"}, tree.SectionNames())
	})

	t.Run("CloneIsDeep", func(t *testing.T) {
		tree, err := ParseString("t", netConfig)
		require.NoError(t, err)

		clone := tree.Clone()
		clone.Section("net").Children.Value("port").Value = "1"
		assert.Equal(t, "8080", tree.Section("net").Children.Value("port").Value)
		assert.Equal(t, Serialize(tree), Serialize(tree.Clone()))
	})

	t.Run("EntriesIsCopy", func(t *testing.T) {
		tree, err := ParseString("t", "a = 1\n")
		require.NoError(t, err)
		entries := tree.Entries()
		entries[0] = &Blank{}
		assert.IsType(t, &StringValue{}, tree.Entries()[0])
	})
}
