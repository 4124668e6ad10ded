package impact_test

import (
	"testing"

	"github.com/kralicky/robotsls/pkg/impact"
	"github.com/kralicky/robotsls/pkg/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "User-agent: a\nDisallow: /x\n\nUser-agent: A\nDisallow: /y\n"

type edit struct {
	start, end int
	text       string
}

// apply performs non-overlapping edits given in old coordinates, in any
// order, and returns the new text along with the changes.
func apply(t *testing.T, text string, edits ...edit) (string, []impact.Change) {
	t.Helper()
	changes := make([]impact.Change, len(edits))
	for i, e := range edits {
		require.LessOrEqual(t, e.start, e.end)
		shift := 0
		for _, other := range edits {
			if other.end <= e.start && other != e {
				shift += len(other.text) - (other.end - other.start)
			}
		}
		changes[i] = impact.Change{
			Old: syntax.Span{Start: e.start, End: e.end},
			New: syntax.Span{Start: e.start + shift, End: e.start + shift + len(e.text)},
		}
	}
	out := []byte(text)
	// apply back to front so earlier offsets stay valid
	for i := len(out); i >= 0; i-- {
		for _, e := range edits {
			if e.start == i {
				out = append(out[:e.start:e.start], append([]byte(e.text), out[e.end:]...)...)
			}
		}
	}
	return string(out), changes
}

func trees(oldText, newText string) (*syntax.Tree, *syntax.Tree) {
	return syntax.Parse(syntax.Snapshot{Version: 1, Text: []byte(oldText)}),
		syntax.Parse(syntax.Snapshot{Version: 2, Text: []byte(newText)})
}

func TestImpactSecondRecordValue(t *testing.T) {
	// between "/" and "y"
	newText, changes := apply(t, sample, edit{53, 53, "z"})
	require.Equal(t, "User-agent: a\nDisallow: /x\n\nUser-agent: A\nDisallow: /zy\n", newText)
	oldTree, newTree := trees(sample, newText)

	first := oldTree.Root.Records[0].Span()
	second := newTree.Root.Records[1].Span()
	require.Equal(t, syntax.Span{Start: 28, End: 55}, second)

	span, ok := impact.Impact(oldTree, newTree, changes)
	require.True(t, ok)
	assert.Equal(t, second, span)
	assert.Greater(t, span.Start, first.End)
}

func TestImpact(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		edits []edit
		want  *syntax.Span
	}{
		{
			name:  "insert at record end",
			text:  sample,
			edits: []edit{{54, 54, "z"}},
			want:  &syntax.Span{Start: 28, End: 55},
		},
		{
			name:  "insert at record start",
			text:  sample,
			edits: []edit{{28, 28, "#"}},
			want:  &syntax.Span{Start: 28, End: 55},
		},
		{
			name:  "delete inside first record",
			text:  sample,
			edits: []edit{{12, 13, ""}},
			want:  &syntax.Span{Start: 0, End: 25},
		},
		{
			name:  "replace across records",
			text:  sample,
			edits: []edit{{20, 40, "Q"}},
			want:  &syntax.Span{Start: 0, End: 35},
		},
		{
			name:  "blank line between records",
			text:  "User-agent: a\n\n\n\nUser-agent: b\n",
			edits: []edit{{15, 15, "\n"}},
			want:  nil,
		},
		{
			name:  "empty document",
			text:  "",
			edits: []edit{{0, 0, ""}},
			want:  nil,
		},
		{
			name:  "text typed into an empty document",
			text:  "",
			edits: []edit{{0, 0, "Allow: /"}},
			want:  &syntax.Span{Start: 0, End: 8},
		},
		{
			name:  "unsorted changes",
			text:  "a: 1\n\nb: 2\n\nc: 3\n",
			edits: []edit{{14, 14, "x"}, {2, 2, "y"}},
			want:  &syntax.Span{Start: 0, End: 18},
		},
		{
			name:  "deleting a whole record",
			text:  "a: 1\n\nb: 2\n\nc: 3\n",
			edits: []edit{{6, 12, ""}},
			want:  &syntax.Span{Start: 6, End: 10},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			newText, changes := apply(t, c.text, c.edits...)
			oldTree, newTree := trees(c.text, newText)
			span, ok := impact.Impact(oldTree, newTree, changes)
			if c.want == nil {
				assert.False(t, ok, "got %s", span)
				return
			}
			require.True(t, ok)
			assert.Equal(t, *c.want, span)
			assert.LessOrEqual(t, span.End, len(newText))
		})
	}
}

func TestImpactCoversEditedRecord(t *testing.T) {
	const text = "User-agent: a\nDisallow: /x\n\nUser-agent: b\nAllow: /y\n\nUser-agent: c\nCrawl-delay: 1\n"
	oldTree := syntax.Parse(syntax.Snapshot{Version: 1, Text: []byte(text)})
	for ri, record := range oldTree.Root.Records {
		rs := record.Span()
		for pos := rs.Start + 1; pos < rs.End; pos++ {
			newText, changes := apply(t, text, edit{pos, pos, "x"})
			_, newTree := trees(text, newText)
			span, ok := impact.Impact(oldTree, newTree, changes)
			require.True(t, ok)

			edited := newTree.Root.Records[ri].Span()
			assert.LessOrEqual(t, span.Start, edited.Start)
			assert.GreaterOrEqual(t, span.End, edited.End)
			for oi, other := range newTree.Root.Records {
				if oi != ri {
					assert.False(t, span.IntersectsWith(syntax.Span{Start: other.Span().Start + 1, End: other.Span().End - 1}),
						"edit at %d leaked into record %d", pos, oi)
				}
			}
		}
	}
}

func TestTranslatePoint(t *testing.T) {
	insert := []impact.Change{{Old: syntax.Span{Start: 10, End: 10}, New: syntax.Span{Start: 10, End: 13}}}
	replace := []impact.Change{{Old: syntax.Span{Start: 10, End: 20}, New: syntax.Span{Start: 10, End: 12}}}
	two := []impact.Change{
		{Old: syntax.Span{Start: 30, End: 31}, New: syntax.Span{Start: 32, End: 32}},
		{Old: syntax.Span{Start: 5, End: 5}, New: syntax.Span{Start: 5, End: 7}},
	}
	cases := []struct {
		changes  []impact.Change
		pos      int
		tracking impact.Tracking
		want     int
	}{
		{insert, 9, impact.TrackNegative, 9},
		{insert, 10, impact.TrackNegative, 10},
		{insert, 10, impact.TrackPositive, 13},
		{insert, 11, impact.TrackNegative, 14},
		{replace, 15, impact.TrackNegative, 10},
		{replace, 15, impact.TrackPositive, 12},
		{replace, 20, impact.TrackNegative, 12},
		{replace, 25, impact.TrackPositive, 17},
		{two, 4, impact.TrackPositive, 4},
		{two, 10, impact.TrackPositive, 12},
		{two, 30, impact.TrackNegative, 32},
		{two, 30, impact.TrackPositive, 32},
		{two, 40, impact.TrackPositive, 41},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, impact.TranslatePoint(c.pos, c.changes, c.tracking), "pos %d tracking %d", c.pos, c.tracking)
	}
}

func TestTranslateSpan(t *testing.T) {
	// the whole span is replaced by an empty string
	changes := []impact.Change{{Old: syntax.Span{Start: 2, End: 8}, New: syntax.Span{Start: 2, End: 2}}}
	assert.Equal(t, syntax.Span{Start: 2, End: 2}, impact.TranslateSpan(syntax.Span{Start: 3, End: 6}, changes))
	assert.Equal(t, syntax.Span{Start: 0, End: 4}, impact.TranslateSpan(syntax.Span{Start: 0, End: 10}, changes))
}
