// FILE: lixenwraith/conftree/serializer.go
package conftree

import (
	"io"
	"strings"
)

// Serialize renders a tree as text. Parsing the result yields the same entries.
func Serialize(t *Tree) string {
	return SerializeDepth(t, 0)
}

// SerializeDepth renders a subtree indented with one tab per depth level.
func SerializeDepth(t *Tree, depth int) string {
	var b strings.Builder
	serializeInto(&b, t, depth)
	return b.String()
}

// WriteTree writes the serialized tree to w.
func WriteTree(w io.Writer, t *Tree) error {
	_, err := io.WriteString(w, Serialize(t))
	return err
}

func serializeInto(b *strings.Builder, t *Tree, depth int) {
	if t == nil {
		return
	}
	pad := strings.Repeat("\t", depth)

	for _, e := range t.entries {
		switch v := e.(type) {
		case *StringValue:
			b.WriteString(pad)
			b.WriteString(v.Name)
			b.WriteString(" = ")
			b.WriteString(v.Value)
			b.WriteByte('\n')
		case *Section:
			b.WriteString(pad)
			b.WriteByte(tagOpen)
			b.WriteString(v.Name)
			b.WriteString("]\n")
			serializeInto(b, v.Children, depth+1)
			b.WriteString(pad)
			b.WriteString("[!")
			b.WriteString(v.Name)
			b.WriteString("]\n")
		case *Comment:
			b.WriteString(v.Text)
			b.WriteByte('\n')
		case *Blank:
			b.WriteByte('\n')
		}
	}
}
