package syntax

import "fmt"

// Span is a half-open byte offset range [Start, End) within the text of a
// single snapshot. Spans taken from different snapshots are not comparable
// without translation (see package impact).
type Span struct {
	Start int
	End   int
}

func NewSpan(start, end int) Span {
	if end < start {
		panic(fmt.Sprintf("bug: invalid span [%d, %d)", start, end))
	}
	return Span{Start: start, End: end}
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains reports whether pos lies within the span. The end offset is
// exclusive, so an empty span contains nothing.
func (s Span) Contains(pos int) bool {
	return pos >= s.Start && pos < s.End
}

// IntersectsWith reports whether the two spans share a position, or whether
// one ends exactly where the other begins. An empty span touching either edge
// of s intersects it.
func (s Span) IntersectsWith(other Span) bool {
	return other.Start <= s.End && other.End >= s.Start
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	return Span{
		Start: min(s.Start, other.Start),
		End:   max(s.End, other.End),
	}
}

func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Start, s.End)
}
