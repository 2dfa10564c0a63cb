// FILE: lixenwraith/conftree/path.go
package conftree

import "strings"

// PathSeparator separates components of a dotted path.
const PathSeparator = '.'

// SplitPath flattens path segments into components.
// Every segment is split on '.', so SplitPath("a.b", "c") equals SplitPath("a", "b", "c").
func SplitPath(segments ...string) []string {
	components := make([]string, 0, len(segments))
	for _, segment := range segments {
		components = append(components, strings.Split(segment, string(PathSeparator))...)
	}
	return components
}

// JoinPath renders flattened components as a dotted path.
func JoinPath(segments ...string) string {
	return strings.Join(SplitPath(segments...), string(PathSeparator))
}

// walk descends through every component except the last and returns the
// tree holding the final component along with that component's name.
func walk(t *Tree, file string, components []string) (*Tree, string, error) {
	if len(components) == 0 {
		return nil, "", &PathNotFoundError{File: file}
	}

	level := t
	for _, component := range components[:len(components)-1] {
		section := level.Section(component)
		if section == nil {
			return nil, "", &PathNotFoundError{
				File:      file,
				Path:      strings.Join(components, string(PathSeparator)),
				Component: component,
			}
		}
		level = section.tree()
	}
	return level, components[len(components)-1], nil
}

// ResolveValues returns every StringValue matching the final path component,
// in file order. An empty result is not an error; a missing intermediate section is.
func ResolveValues(t *Tree, path ...string) ([]*StringValue, error) {
	return resolveValues(t, "", SplitPath(path...))
}

// ResolveSections returns every Section matching the final path component, in file order.
func ResolveSections(t *Tree, path ...string) ([]*Section, error) {
	return resolveSections(t, "", SplitPath(path...))
}

// ResolveValue returns the last StringValue at path, or nil when none matches.
func ResolveValue(t *Tree, path ...string) (*StringValue, error) {
	values, err := ResolveValues(t, path...)
	if err != nil || len(values) == 0 {
		return nil, err
	}
	return values[len(values)-1], nil
}

// ResolveSection returns the last Section at path, or nil when none matches.
func ResolveSection(t *Tree, path ...string) (*Section, error) {
	sections, err := ResolveSections(t, path...)
	if err != nil || len(sections) == 0 {
		return nil, err
	}
	return sections[len(sections)-1], nil
}

func resolveValues(t *Tree, file string, components []string) ([]*StringValue, error) {
	level, last, err := walk(t, file, components)
	if err != nil {
		return nil, err
	}
	return level.Values(last), nil
}

func resolveSections(t *Tree, file string, components []string) ([]*Section, error) {
	level, last, err := walk(t, file, components)
	if err != nil {
		return nil, err
	}
	return level.Sections(last), nil
}

// resolveTree returns the children of the section at components, or t itself for an empty path.
func resolveTree(t *Tree, file string, components []string) (*Tree, error) {
	if len(components) == 0 {
		return t, nil
	}
	sections, err := resolveSections(t, file, components)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, &PathNotFoundError{File: file, Path: strings.Join(components, string(PathSeparator))}
	}
	return sections[len(sections)-1].tree(), nil
}
