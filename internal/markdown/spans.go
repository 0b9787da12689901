package markdown

import "fmt"

// SpanType classifies a structural span for set-based comparison.
type SpanType string

// Span is a typed structural element with a half-open line range.
// Two spans match only on exact type, start, and end (no partial credit).
type Span struct {
	Type  SpanType
	Start int
	End   int
}

// Key returns a comparable identity for exact span matching.
func (s Span) Key() string {
	return fmt.Sprintf("%s:%d:%d", s.Type, s.Start, s.End)
}

// Spans flattens the scanned structure into typed spans: one per heading
// (typed by level), one per table block, one per formula block.
func (d *Doc) Spans() []Span {
	spans := make([]Span, 0, len(d.Headings)+len(d.Tables)+len(d.Formulas))
	for _, h := range d.Headings {
		spans = append(spans, Span{
			Type:  SpanType(fmt.Sprintf("h%d", h.Level)),
			Start: h.Line,
			End:   h.Line + 1,
		})
	}
	for _, t := range d.Tables {
		spans = append(spans, Span{Type: "table", Start: t.Start, End: t.End})
	}
	for _, f := range d.Formulas {
		spans = append(spans, Span{Type: "formula", Start: f.Start, End: f.End})
	}
	return spans
}
