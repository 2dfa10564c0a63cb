// FILE: lixenwraith/conftree/cmd/conftree/commands/diff.go
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

var (
	insertColor = color.New(color.FgGreen)
	deleteColor = color.New(color.FgRed)
)

// writeDiff prints a line diff of from and to and reports whether they differ.
func writeDiff(w io.Writer, from, to string) bool {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	changed := false
	for _, diff := range diffs {
		for _, line := range splitLines(diff.Text) {
			switch diff.Type {
			case diffpatch.DiffInsert:
				changed = true
				insertColor.Fprintf(w, "+%s\n", line)
			case diffpatch.DiffDelete:
				changed = true
				deleteColor.Fprintf(w, "-%s\n", line)
			case diffpatch.DiffEqual:
				fmt.Fprintf(w, " %s\n", line)
			}
		}
	}
	return changed
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
