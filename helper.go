// File: lixenwraith/conftree/helper.go
package conftree

import (
	"strings"

	"github.com/rs/zerolog"
)

// pathComponents flattens accessor arguments; no arguments or a single empty
// string address the view root.
func pathComponents(path []string) []string {
	if len(path) == 0 || (len(path) == 1 && path[0] == "") {
		return nil
	}
	return SplitPath(path...)
}

// treeToMap projects a tree onto nested maps: sections become map[string]any,
// values become strings. Duplicate keys resolve to the last value, matching lookups.
// A section and a value sharing a name cannot both be kept; the section wins
// regardless of order and the shadowed value is logged at debug level.
func treeToMap(t *Tree, logger zerolog.Logger) map[string]any {
	return projectTree(t, "", logger)
}

func projectTree(t *Tree, prefix string, logger zerolog.Logger) map[string]any {
	result := make(map[string]any)
	if t == nil {
		return result
	}
	for _, e := range t.entries {
		switch v := e.(type) {
		case *StringValue:
			if _, isSection := result[v.Name].(map[string]any); isSection {
				logShadowed(logger, joinPrefix(prefix, v.Name))
				continue
			}
			result[v.Name] = v.Value
		case *Section:
			if _, isValue := result[v.Name].(string); isValue {
				logShadowed(logger, joinPrefix(prefix, v.Name))
			}
			result[v.Name] = projectTree(v.Children, joinPrefix(prefix, v.Name), logger)
		}
	}
	return result
}

func logShadowed(logger zerolog.Logger, path string) {
	logger.Debug().
		Str("path", path).
		Msg("Value shadowed by section of the same name")
}

// flattenTree converts a tree to a flat map with dot-notation paths.
func flattenTree(t *Tree, prefix string) map[string]string {
	flat := make(map[string]string)
	if t == nil {
		return flat
	}

	for _, e := range t.entries {
		switch v := e.(type) {
		case *StringValue:
			flat[joinPrefix(prefix, v.Name)] = v.Value
		case *Section:
			for subPath, subValue := range flattenTree(v.Children, joinPrefix(prefix, v.Name)) {
				flat[subPath] = subValue
			}
		}
	}

	return flat
}

func joinPrefix(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + string(PathSeparator) + name
}

// stripComment removes a trailing '#' comment and surrounding whitespace from a raw value.
func stripComment(raw string) string {
	if pos := strings.IndexByte(raw, commentPrefix); pos > -1 {
		return strings.TrimSpace(raw[:pos])
	}
	return strings.TrimSpace(raw)
}
