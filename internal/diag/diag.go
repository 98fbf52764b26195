// Package diag models compiler diagnostics as plain data rather than errors
// that abort a pass. Every stage of the pipeline (lexer, parser, type
// checker) appends to a shared Sink and keeps walking its input; only the
// driver decides, after the fact, whether the accumulated diagnostics mean
// the compilation failed.
package diag

import "fmt"

// Kind partitions diagnostics into the four error classes the pipeline
// distinguishes.
type Kind int

const (
	Lex Kind = iota
	Parse
	Type
	Internal
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "lex"
	case Parse:
		return "parse"
	case Type:
		return "type"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Diagnostic is a single reported problem, tied to the source position it
// came from.
type Diagnostic struct {
	Kind    Kind
	Message string
	Line    int
	Col     int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", d.Kind, d.Line, d.Col, d.Message)
}

// Sink accumulates diagnostics across an entire compilation invocation. It
// is never shared across invocations; the driver allocates a fresh one per
// compile so there is no process-global error state.
type Sink struct {
	entries []Diagnostic
}

// NewSink returns an empty diagnostic sink.
func NewSink() *Sink { return &Sink{} }

// Report appends a diagnostic of the given kind at the given position.
func (s *Sink) Report(kind Kind, line, col int, format string, args ...any) {
	s.entries = append(s.entries, Diagnostic{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Col:     col,
	})
}

// All returns every diagnostic reported so far, in report order.
func (s *Sink) All() []Diagnostic { return s.entries }

// Count returns the total number of diagnostics reported, regardless of kind.
func (s *Sink) Count() int { return len(s.entries) }

// CountKind returns the number of diagnostics of a specific kind.
func (s *Sink) CountKind(kind Kind) int {
	n := 0
	for _, d := range s.entries {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// HasErrors reports whether any diagnostic at all has been recorded. The
// driver's overall success/failure decision is built on this.
func (s *Sink) HasErrors() bool { return len(s.entries) > 0 }
