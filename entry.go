// FILE: lixenwraith/conftree/entry.go
package conftree

import (
	"fmt"
	"strings"
)

// Entry is one parsed line of a configuration file.
// The set of implementations is closed: *StringValue, *Section, *Comment and *Blank.
type Entry interface {
	// LineNumber returns the 1-based source line, or 0 for entries created in memory
	LineNumber() int
	// Equal reports whether two entries denote the same node
	Equal(other Entry) bool
	entry()
}

// StringValue is a "name = value" leaf.
type StringValue struct {
	Name  string
	Value string
	Line  int
}

// Section is a named subtree opened by [name] and closed by [!name].
type Section struct {
	Name     string
	Line     int
	Children *Tree
}

// Comment is a full-line comment kept verbatim, including the leading '#'.
type Comment struct {
	Text string
	Line int
}

// Blank is an empty line.
type Blank struct {
	Line int
}

func (*StringValue) entry() {}
func (*Section) entry()     {}
func (*Comment) entry()     {}
func (*Blank) entry()       {}

func (v *StringValue) LineNumber() int { return v.Line }
func (s *Section) LineNumber() int     { return s.Line }
func (c *Comment) LineNumber() int     { return c.Line }
func (b *Blank) LineNumber() int       { return b.Line }

// Equal compares values by name.
func (v *StringValue) Equal(other Entry) bool {
	o, ok := other.(*StringValue)
	return ok && o.Name == v.Name
}

// Equal compares sections by name.
func (s *Section) Equal(other Entry) bool {
	o, ok := other.(*Section)
	return ok && o.Name == s.Name
}

func (c *Comment) Equal(other Entry) bool {
	o, ok := other.(*Comment)
	return ok && o.Text == c.Text
}

func (b *Blank) Equal(other Entry) bool {
	_, ok := other.(*Blank)
	return ok
}

// NewStringValue creates a detached value entry after validating its name and value.
func NewStringValue(name, value string) (*StringValue, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateValue(value); err != nil {
		return nil, err
	}
	return &StringValue{Name: name, Value: value}, nil
}

// NewSection creates a detached, empty section after validating its name.
func NewSection(name string) (*Section, error) {
	if err := validateSectionName(name); err != nil {
		return nil, err
	}
	return &Section{Name: name, Children: NewTree()}, nil
}

// validatePathName enforces that a name is usable as a path component.
func validatePathName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if strings.ContainsRune(name, PathSeparator) {
		return fmt.Errorf("%w: %q contains %q", ErrInvalidName, name, PathSeparator)
	}
	return nil
}

// validateName checks a name built in memory: it must serialize back to the
// same entry when the tree is parsed again.
func validateName(name string) error {
	if err := validatePathName(name); err != nil {
		return err
	}
	switch {
	case strings.TrimSpace(name) != name:
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidName, name)
	case strings.ContainsAny(name, "=]\r\n"):
		return fmt.Errorf("%w: %q contains a reserved character", ErrInvalidName, name)
	case name[0] == commentPrefix || name[0] == tagOpen:
		return fmt.Errorf("%w: %q starts with %q", ErrInvalidName, name, name[0])
	}
	return nil
}

// validateSectionName also rejects names that would read back as a closing tag.
func validateSectionName(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if name[0] == tagEndMarker {
		return fmt.Errorf("%w: %q starts with %q", ErrInvalidName, name, tagEndMarker)
	}
	return nil
}

// validateValue rejects values the line-oriented format cannot hold.
func validateValue(value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("%w: %q contains a line break", ErrInvalidValue, value)
	}
	return nil
}

// tree returns the children; sections built as literals may have none.
func (s *Section) tree() *Tree {
	if s.Children == nil {
		return NewTree()
	}
	return s.Children
}

// Tree is an ordered list of entries; order is file order.
type Tree struct {
	entries []Entry
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// Len returns the number of direct entries.
func (t *Tree) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the direct entries in file order.
// The entries themselves are shared.
func (t *Tree) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Append adds entries at the end of the tree.
func (t *Tree) Append(entries ...Entry) {
	t.entries = append(t.entries, entries...)
}

// Values returns all direct StringValue children named name, in file order.
func (t *Tree) Values(name string) []*StringValue {
	var result []*StringValue
	for _, e := range t.entries {
		if v, ok := e.(*StringValue); ok && v.Name == name {
			result = append(result, v)
		}
	}
	return result
}

// Value returns the last StringValue named name, or nil.
// A later duplicate key overrides an earlier one.
func (t *Tree) Value(name string) *StringValue {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if v, ok := t.entries[i].(*StringValue); ok && v.Name == name {
			return v
		}
	}
	return nil
}

// Sections returns all direct Section children named name, in file order.
func (t *Tree) Sections(name string) []*Section {
	var result []*Section
	for _, e := range t.entries {
		if s, ok := e.(*Section); ok && s.Name == name {
			result = append(result, s)
		}
	}
	return result
}

// Section returns the last Section named name, or nil.
func (t *Tree) Section(name string) *Section {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if s, ok := t.entries[i].(*Section); ok && s.Name == name {
			return s
		}
	}
	return nil
}

// ValueNames returns the names of all direct StringValue children in file order.
func (t *Tree) ValueNames() []string {
	names := make([]string, 0)
	for _, e := range t.entries {
		if v, ok := e.(*StringValue); ok {
			names = append(names, v.Name)
		}
	}
	return names
}

// SectionNames returns the names of all direct Section children in file order.
func (t *Tree) SectionNames() []string {
	names := make([]string, 0)
	for _, e := range t.entries {
		if s, ok := e.(*Section); ok {
			names = append(names, s.Name)
		}
	}
	return names
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	out := &Tree{entries: make([]Entry, 0, len(t.entries))}
	for _, e := range t.entries {
		switch v := e.(type) {
		case *StringValue:
			cp := *v
			out.entries = append(out.entries, &cp)
		case *Section:
			out.entries = append(out.entries, &Section{Name: v.Name, Line: v.Line, Children: v.tree().Clone()})
		case *Comment:
			cp := *v
			out.entries = append(out.entries, &cp)
		case *Blank:
			cp := *v
			out.entries = append(out.entries, &cp)
		}
	}
	return out
}
