// Package cerr provides the error and warning taxonomy shared by every
// compiler phase: lexer, parser, semantic analyzer, TAC generator,
// optimizer, and code generator all report through the same Diagnostic
// shape so the driver can render them uniformly.
package cerr

import (
	"fmt"
	"strings"
)

// Position identifies a location in a source program. Source lines are
// self-contained expressions, so Column is relative to the start of the
// line's token stream, not a byte offset.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("line %d", p.Line)
}

// Kind categorizes a diagnostic per spec §7.
type Kind int

const (
	LexicalError Kind = iota
	SyntaxError
	TypeError
	MemoryError
	ControlError
	InternalError
)

func (k Kind) String() string {
	switch k {
	case LexicalError:
		return "LexicalError"
	case SyntaxError:
		return "SyntaxError"
	case TypeError:
		return "TypeError"
	case MemoryError:
		return "MemoryError"
	case ControlError:
		return "ControlError"
	case InternalError:
		return "InternalError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Diagnostic is a single error or warning attached to a source line.
type Diagnostic struct {
	Pos     Position
	Kind    Kind
	Message string
	Context string
	Warning bool
}

// Error renders a diagnostic as "<Kind> [line N]: <message>", the exact
// shape required by spec §7. Warnings render the same way so the caller
// doesn't need two code paths, but callers distinguish them via Warning.
func (d *Diagnostic) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [line %d]: %s", d.Kind, d.Pos.Line, d.Message)
	if d.Context != "" {
		fmt.Fprintf(&sb, "\n    %s", d.Context)
	}
	return sb.String()
}

// New builds a Diagnostic with no source context.
func New(pos Position, kind Kind, message string) *Diagnostic {
	return &Diagnostic{Pos: pos, Kind: kind, Message: message}
}

// Newf builds a Diagnostic with a formatted message.
func Newf(pos Position, kind Kind, format string, args ...interface{}) *Diagnostic {
	return New(pos, kind, fmt.Sprintf(format, args...))
}

// WithContext attaches a source snippet to a diagnostic and returns it,
// for chaining at the call site.
func WithContext(d *Diagnostic, context string) *Diagnostic {
	d.Context = context
	return d
}

// Warnf builds a non-fatal warning (spec §7: "do not affect exit status").
func Warnf(pos Position, format string, args ...interface{}) *Diagnostic {
	d := Newf(pos, TypeError, format, args...)
	d.Warning = true
	return d
}

// Bag collects diagnostics for one compilation run. A line that fails a
// phase still allows the driver to continue with the next line (spec §7
// propagation policy); Bag is what lets "as many diagnostics as possible"
// accumulate across lines.
type Bag struct {
	items []*Diagnostic
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(d *Diagnostic) {
	b.items = append(b.items, d)
}

// All returns every diagnostic recorded so far, in order.
func (b *Bag) All() []*Diagnostic {
	return b.items
}

// HasErrors reports whether any non-warning diagnostic was recorded;
// this is what determines the process exit code per spec §7.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if !d.Warning {
			return true
		}
	}
	return false
}

// String renders every diagnostic, one per line, in report order.
func (b *Bag) String() string {
	var sb strings.Builder
	for _, d := range b.items {
		sb.WriteString(d.Error())
		sb.WriteByte('\n')
	}
	return sb.String()
}
