// FILE: lixenwraith/conftree/export.go
package conftree

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ExportTOML writes the handle's tree as TOML. Sections become tables and
// every value is a string; comments and blank lines are dropped.
func (c *Config) ExportTOML(w io.Writer) error {
	data := c.snapshotMap()
	if err := toml.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to marshal config data to TOML: %w", err)
	}
	return nil
}

// ExportYAML writes the handle's tree as YAML, keeping file order.
func (c *Config) ExportYAML(w io.Writer) error {
	var node *yaml.Node
	_ = c.View(func(t *Tree) error {
		node = treeToYAMLNode(t)
		return nil
	})

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(node); err != nil {
		return fmt.Errorf("failed to marshal config data to YAML: %w", err)
	}
	return encoder.Close()
}

// ExportJSON writes the handle's tree as indented JSON.
func (c *Config) ExportJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(c.snapshotMap()); err != nil {
		return fmt.Errorf("failed to marshal config data to JSON: %w", err)
	}
	return nil
}

// AsMap returns the nested-map projection of the handle's tree.
func (c *Config) AsMap() map[string]any {
	return c.snapshotMap()
}

func (c *Config) snapshotMap() map[string]any {
	c.doc.mutex.RLock()
	defer c.doc.mutex.RUnlock()
	return treeToMap(c.tree(), c.logger)
}

// treeToYAMLNode builds a mapping in first-appearance order. A repeated name
// keeps its first position and takes its last value; a section is never
// replaced by a value of the same name.
func treeToYAMLNode(t *Tree) *yaml.Node {
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	index := make(map[string]int)

	for _, e := range t.entries {
		var name string
		var value *yaml.Node

		switch v := e.(type) {
		case *StringValue:
			name = v.Name
			value = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Value}
		case *Section:
			name = v.Name
			value = treeToYAMLNode(v.tree())
		default:
			continue
		}

		if pos, ok := index[name]; ok {
			if mapping.Content[pos+1].Kind != yaml.MappingNode || value.Kind == yaml.MappingNode {
				mapping.Content[pos+1] = value
			}
			continue
		}
		index[name] = len(mapping.Content)
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			value,
		)
	}

	return mapping
}

// ImportTOML converts a TOML document into a tree, keeping document key order.
// Tables become sections; arrays of scalars become repeated values.
func ImportTOML(name string, r io.Reader) (*Tree, error) {
	data := make(map[string]any)
	md, err := toml.NewDecoder(r).Decode(&data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML '%s': %w", name, err)
	}

	root := NewTree()
	for _, key := range md.Keys() {
		switch md.Type(key...) {
		case "Hash":
			if _, err := ensureSection(root, key); err != nil {
				return nil, fmt.Errorf("import %s: %w", name, err)
			}
			continue
		case "ArrayHash":
			return nil, fmt.Errorf("import %s: array of tables %q is not supported", name, key.String())
		}

		parent, err := ensureSection(root, key[:len(key)-1])
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", name, err)
		}
		value, ok := lookupKey(data, key)
		if !ok {
			// Keys of inline tables nested in arrays are reported without a map path
			continue
		}
		if err := appendImported(parent, key[len(key)-1], value); err != nil {
			return nil, fmt.Errorf("import %s: %w", name, err)
		}
	}

	return root, nil
}

// ImportYAML converts a YAML mapping document into a tree, keeping document order.
func ImportYAML(name string, r io.Reader) (*Tree, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return NewTree(), nil
		}
		return nil, fmt.Errorf("failed to parse YAML '%s': %w", name, err)
	}

	node := &doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	node = resolveAlias(node)
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("import %s: top-level YAML node must be a mapping", name)
	}

	root := NewTree()
	if err := appendYAMLMapping(root, node); err != nil {
		return nil, fmt.Errorf("import %s: %w", name, err)
	}
	return root, nil
}

func appendYAMLMapping(t *Tree, node *yaml.Node) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := resolveAlias(node.Content[i+1])

		switch value.Kind {
		case yaml.MappingNode:
			section := t.Section(key)
			if section == nil {
				var err error
				if section, err = NewSection(key); err != nil {
					return err
				}
				t.Append(section)
			}
			if err := appendYAMLMapping(section.tree(), value); err != nil {
				return err
			}
		case yaml.SequenceNode:
			for _, item := range value.Content {
				item = resolveAlias(item)
				if item.Kind != yaml.ScalarNode {
					return fmt.Errorf("key %q: only sequences of scalars are supported", key)
				}
				if err := appendValue(t, key, yamlScalar(item)); err != nil {
					return err
				}
			}
		case yaml.ScalarNode:
			if err := appendValue(t, key, yamlScalar(value)); err != nil {
				return err
			}
		default:
			return fmt.Errorf("key %q: unsupported YAML node kind %d", key, value.Kind)
		}
	}
	return nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func yamlScalar(node *yaml.Node) string {
	if node.Tag == "!!null" {
		return ""
	}
	return node.Value
}

// ensureSection returns the tree at path, creating missing sections.
func ensureSection(root *Tree, path []string) (*Tree, error) {
	level := root
	for _, name := range path {
		section := level.Section(name)
		if section == nil {
			var err error
			if section, err = NewSection(name); err != nil {
				return nil, err
			}
			level.Append(section)
		}
		if section.Children == nil {
			section.Children = NewTree()
		}
		level = section.Children
	}
	return level, nil
}

func lookupKey(data map[string]any, key toml.Key) (any, bool) {
	current := any(data)
	for _, segment := range key {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[segment]; !ok {
			return nil, false
		}
	}
	return current, true
}

func appendImported(t *Tree, name string, value any) error {
	if items, ok := value.([]any); ok {
		for _, item := range items {
			s, err := formatScalar(item)
			if err != nil {
				return fmt.Errorf("key %q: %w", name, err)
			}
			if err := appendValue(t, name, s); err != nil {
				return err
			}
		}
		return nil
	}
	s, err := formatScalar(value)
	if err != nil {
		return fmt.Errorf("key %q: %w", name, err)
	}
	return appendValue(t, name, s)
}

// appendValue adds a validated value, naming the key on failure.
func appendValue(t *Tree, name, value string) error {
	entry, err := NewStringValue(name, value)
	if err != nil {
		return fmt.Errorf("key %q: %w", name, err)
	}
	t.Append(entry)
	return nil
}

func formatScalar(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case time.Time:
		return v.Format(time.RFC3339), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", value)
	}
}
