// File: lixenwraith/conftree/convenience.go
package conftree

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// MustLoad is like Cache.Load but panics on error
func MustLoad(cache *Cache, filename string) *Config {
	cfg, err := cache.Load(filename)
	if err != nil {
		panic(fmt.Sprintf("config load failed: %v", err))
	}
	return cfg
}

// Print writes the handle's tree to w as text.
func (c *Config) Print(w io.Writer) error {
	_, err := io.WriteString(w, c.Serialize())
	return err
}

// Dump writes the handle's tree to stdout
func (c *Config) Dump() error {
	return c.Print(os.Stdout)
}

// Debug returns every value as "path = value (line n)", one per line, in file order.
func (c *Config) Debug() string {
	c.doc.mutex.RLock()
	defer c.doc.mutex.RUnlock()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Configuration %s:\n", c.name))
	debugInto(&b, c.tree(), "")
	return b.String()
}

func debugInto(b *strings.Builder, t *Tree, prefix string) {
	for _, e := range t.entries {
		switch v := e.(type) {
		case *StringValue:
			b.WriteString(fmt.Sprintf("  %s = %s (line %d)\n", joinPrefix(prefix, v.Name), v.Value, v.Line))
		case *Section:
			debugInto(b, v.tree(), joinPrefix(prefix, v.Name))
		}
	}
}

// Clone creates a standalone deep copy of the handle's tree. The copy is not
// cached and shares nothing with the original.
func (c *Config) Clone() *Config {
	c.doc.mutex.RLock()
	defer c.doc.mutex.RUnlock()

	clone := New(c.name, c.tree().Clone())
	clone.logger = c.logger
	clone.strictSetters = c.strictSetters
	return clone
}

// Validate checks that all required paths resolve to a value
func (c *Config) Validate(required ...string) error {
	var missing []string
	for _, path := range required {
		if _, _, err := c.rawValue([]string{path}); err != nil {
			missing = append(missing, path)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}
