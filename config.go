// FILE: lixenwraith/conftree/config.go
package conftree

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// document is the cached unit shared by every Config loaded from the same name.
type document struct {
	mutex    sync.RWMutex // Held for one resolve+read or resolve+mutate
	filename string
	root     *Tree
}

// Config is a handle onto a cached document, rooted either at the document
// root or at a section of it. Handles are cheap and share storage.
type Config struct {
	name          string
	doc           *document
	view          *Tree // nil addresses the document root
	logger        zerolog.Logger
	strictSetters bool
}

// New wraps an already parsed tree in a Config that is not attached to any cache.
func New(name string, t *Tree) *Config {
	if t == nil {
		t = NewTree()
	}
	return &Config{
		name:   name,
		doc:    &document{filename: name, root: t},
		logger: zerolog.Nop(),
	}
}

// Name returns the identifier used in error messages.
// For views it is "<file>-<section path>".
func (c *Config) Name() string {
	return c.name
}

// Filename returns the name of the underlying document.
func (c *Config) Filename() string {
	return c.doc.filename
}

// tree returns the current root of this handle. Callers must hold the document lock.
func (c *Config) tree() *Tree {
	if c.view != nil {
		return c.view
	}
	return c.doc.root
}

// View runs fn with the tree under a read lock.
// fn must not retain the tree or mutate it.
func (c *Config) View(fn func(t *Tree) error) error {
	c.doc.mutex.RLock()
	defer c.doc.mutex.RUnlock()
	return fn(c.tree())
}

// Update runs fn with the tree under the write lock, making a read-modify-write
// sequence atomic with respect to other calls on the same document.
func (c *Config) Update(fn func(t *Tree) error) error {
	c.doc.mutex.Lock()
	defer c.doc.mutex.Unlock()
	return fn(c.tree())
}

// GetInstance returns a view rooted at the section found at path.
// The view shares nodes and the lock with c; writes through either are visible to both.
func (c *Config) GetInstance(path ...string) (*Config, error) {
	components := pathComponents(path)

	c.doc.mutex.RLock()
	defer c.doc.mutex.RUnlock()

	sub, err := resolveTree(c.tree(), c.name, components)
	if err != nil {
		return nil, err
	}

	return &Config{
		name:          c.name + "-" + strings.Join(components, string(PathSeparator)),
		doc:           c.doc,
		view:          sub,
		logger:        c.logger,
		strictSetters: c.strictSetters,
	}, nil
}

// Has reports whether path resolves to at least one value or section.
func (c *Config) Has(path ...string) bool {
	components := pathComponents(path)
	if len(components) == 0 {
		return false
	}

	c.doc.mutex.RLock()
	defer c.doc.mutex.RUnlock()

	level, last, err := walk(c.tree(), c.name, components)
	if err != nil {
		return false
	}
	return level.Value(last) != nil || level.Section(last) != nil
}

// Line returns the source line of the last value or section at path, or -1.
func (c *Config) Line(path ...string) int {
	components := pathComponents(path)
	if len(components) == 0 {
		return -1
	}

	c.doc.mutex.RLock()
	defer c.doc.mutex.RUnlock()

	level, last, err := walk(c.tree(), c.name, components)
	if err != nil {
		return -1
	}
	if v := level.Value(last); v != nil {
		return v.Line
	}
	if s := level.Section(last); s != nil {
		return s.Line
	}
	return -1
}

// Names returns the value names directly under the section at path, in file order.
// An empty path lists the handle's root.
func (c *Config) Names(path ...string) ([]string, error) {
	c.doc.mutex.RLock()
	defer c.doc.mutex.RUnlock()

	t, err := resolveTree(c.tree(), c.name, pathComponents(path))
	if err != nil {
		return nil, err
	}
	return t.ValueNames(), nil
}

// Sections returns the section names directly under the section at path, in file order.
func (c *Config) Sections(path ...string) ([]string, error) {
	c.doc.mutex.RLock()
	defer c.doc.mutex.RUnlock()

	t, err := resolveTree(c.tree(), c.name, pathComponents(path))
	if err != nil {
		return nil, err
	}
	return t.SectionNames(), nil
}

// TryNames is Names with a fallback on failure.
func (c *Config) TryNames(def []string, path ...string) []string {
	names, err := c.Names(path...)
	if err != nil {
		return def
	}
	return names
}

// TrySections is Sections with a fallback on failure.
func (c *Config) TrySections(def []string, path ...string) []string {
	sections, err := c.Sections(path...)
	if err != nil {
		return def
	}
	return sections
}

// Serialize renders the handle's tree as text.
func (c *Config) Serialize() string {
	c.doc.mutex.RLock()
	defer c.doc.mutex.RUnlock()
	return Serialize(c.tree())
}

// rawValue returns the raw text of the last value at path and the dotted path.
func (c *Config) rawValue(path []string) (string, string, error) {
	components := SplitPath(path...)
	dotted := strings.Join(components, string(PathSeparator))

	c.doc.mutex.RLock()
	defer c.doc.mutex.RUnlock()

	values, err := resolveValues(c.tree(), c.name, components)
	if err != nil {
		return "", dotted, err
	}
	if len(values) == 0 {
		return "", dotted, &PathNotFoundError{File: c.name, Path: dotted}
	}
	return values[len(values)-1].Value, dotted, nil
}

// rawValues returns the raw text of every value at path in file order.
func (c *Config) rawValues(path []string) ([]string, error) {
	components := SplitPath(path...)

	c.doc.mutex.RLock()
	defer c.doc.mutex.RUnlock()

	values, err := resolveValues(c.tree(), c.name, components)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, &PathNotFoundError{File: c.name, Path: strings.Join(components, string(PathSeparator))}
	}
	result := make([]string, len(values))
	for i, v := range values {
		result[i] = v.Value
	}
	return result, nil
}

// setRaw overwrites the last existing value at path. It never creates entries.
func (c *Config) setRaw(value string, path []string) error {
	if err := validateValue(value); err != nil {
		return err
	}
	components := SplitPath(path...)

	c.doc.mutex.Lock()
	defer c.doc.mutex.Unlock()

	values, err := resolveValues(c.tree(), c.name, components)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return &PathNotFoundError{File: c.name, Path: strings.Join(components, string(PathSeparator))}
	}
	values[len(values)-1].Value = value
	return nil
}
