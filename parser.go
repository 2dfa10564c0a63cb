// FILE: lixenwraith/conftree/parser.go
package conftree

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// MaxLineSize bounds a single input line.
const MaxLineSize = 1 << 20

const (
	commentPrefix = '#'
	tagOpen       = '['
	tagClose      = ']'
	tagEndMarker  = '!'
)

// Parser turns the line-oriented text format into a Tree.
// A Parser is single-use; Duplicates is valid after Parse returns.
type Parser struct {
	name       string
	logger     zerolog.Logger
	duplicates []*DuplicateSectionError
}

// NewParser creates a parser that reports errors against name and
// logs duplicate sections to logger.
func NewParser(name string, logger zerolog.Logger) *Parser {
	return &Parser{
		name:   name,
		logger: logger,
	}
}

// Parse reads text from r using a silent logger.
func Parse(name string, r io.Reader) (*Tree, error) {
	return NewParser(name, zerolog.Nop()).Parse(r)
}

// ParseString parses an in-memory buffer.
func ParseString(name, text string) (*Tree, error) {
	return Parse(name, strings.NewReader(text))
}

// Duplicates returns the duplicate sections skipped during the last Parse.
func (p *Parser) Duplicates() []*DuplicateSectionError {
	return p.duplicates
}

// level is one open section on the parser's stack
type level struct {
	name string
	tree *Tree
}

// parseState carries the mutable state of one parse
type parseState struct {
	stack     []level // open sections, root first
	depth     int
	skipDepth int // depth at which skip mode was entered, 0 when not skipping
	skipName  string
}

func (s *parseState) current() *Tree {
	return s.stack[len(s.stack)-1].tree
}

// Parse consumes r line by line. A fatal error returns no tree.
func (p *Parser) Parse(r io.Reader) (*Tree, error) {
	p.duplicates = nil

	root := NewTree()
	state := &parseState{stack: []level{{tree: root}}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineSize)

	lineNr := 0
	for scanner.Scan() {
		lineNr++
		if err := p.parseLine(state, strings.TrimSpace(scanner.Text()), lineNr); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p.name, err)
	}

	if state.skipDepth > 0 {
		return nil, p.errorf(lineNr, "unterminated section %q", state.skipName)
	}
	if len(state.stack) > 1 {
		return nil, p.errorf(lineNr, "unterminated section %q", state.stack[len(state.stack)-1].name)
	}

	return root, nil
}

func (p *Parser) parseLine(state *parseState, line string, lineNr int) error {
	skipping := state.skipDepth > 0

	switch {
	case line == "":
		if !skipping {
			state.current().Append(&Blank{Line: lineNr})
		}
		return nil

	case line[0] == commentPrefix:
		if !skipping {
			state.current().Append(&Comment{Text: line, Line: lineNr})
		}
		return nil

	case line[0] == tagOpen:
		name, closing, err := p.parseTag(line, lineNr)
		if err != nil {
			if skipping {
				return nil
			}
			return err
		}
		if closing {
			return p.closeSection(state, name, lineNr)
		}
		return p.openSection(state, name, lineNr)

	default:
		if skipping {
			return nil
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			return p.errorf(lineNr, "expected 'name = value', got %q", line)
		}
		name := strings.TrimSpace(line[:eq])
		if err := validatePathName(name); err != nil {
			return p.errorf(lineNr, "%v", err)
		}
		state.current().Append(&StringValue{
			Name:  name,
			Value: strings.TrimSpace(line[eq+1:]),
			Line:  lineNr,
		})
		return nil
	}
}

// parseTag splits "[name]" or "[!name]" into the section name and whether it closes.
func (p *Parser) parseTag(line string, lineNr int) (string, bool, error) {
	if len(line) < 2 || line[len(line)-1] != tagClose {
		return "", false, p.errorf(lineNr, "malformed tag %q", line)
	}
	name := strings.TrimSpace(line[1 : len(line)-1])
	closing := false
	if strings.HasPrefix(name, string(tagEndMarker)) {
		closing = true
		name = strings.TrimSpace(name[1:])
	}
	if err := validatePathName(name); err != nil {
		return "", false, p.errorf(lineNr, "malformed tag %q: %v", line, err)
	}
	return name, closing, nil
}

func (p *Parser) openSection(state *parseState, name string, lineNr int) error {
	state.depth++
	if state.skipDepth > 0 {
		return nil
	}

	current := state.current()
	if current.Section(name) != nil {
		dup := &DuplicateSectionError{File: p.name, Name: name, Line: lineNr}
		p.duplicates = append(p.duplicates, dup)
		p.logger.Warn().
			Str("file", p.name).
			Str("section", name).
			Int("line", lineNr).
			Msg("Section already defined, skipping duplicate")
		state.skipDepth = state.depth
		state.skipName = name
		return nil
	}

	section := &Section{Name: name, Line: lineNr, Children: NewTree()}
	current.Append(section)
	state.stack = append(state.stack, level{name: name, tree: section.Children})
	return nil
}

func (p *Parser) closeSection(state *parseState, name string, lineNr int) error {
	if state.skipDepth > 0 {
		if state.depth == state.skipDepth {
			if name != state.skipName {
				return p.errorf(lineNr, "sections nested incorrectly: expected [!%s], got [!%s]", state.skipName, name)
			}
			state.skipDepth = 0
			state.skipName = ""
		}
		state.depth--
		return nil
	}

	if len(state.stack) == 1 {
		return p.errorf(lineNr, "closing tag [!%s] without opening tag", name)
	}
	open := state.stack[len(state.stack)-1]
	if open.name != name {
		return p.errorf(lineNr, "sections nested incorrectly: expected [!%s], got [!%s]", open.name, name)
	}
	state.stack = state.stack[:len(state.stack)-1]
	state.depth--
	return nil
}

func (p *Parser) errorf(line int, format string, args ...any) error {
	return &ParseError{File: p.name, Line: line, Reason: fmt.Sprintf(format, args...)}
}
