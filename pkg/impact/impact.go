// Package impact computes which part of a document must be re-tagged after
// an edit.
package impact

import (
	"cmp"
	"slices"

	"github.com/kralicky/robotsls/pkg/syntax"
)

// Change is a single text replacement. Old is in the coordinates of the
// snapshot before the edit, New in the coordinates of the snapshot after it.
type Change struct {
	Old syntax.Span
	New syntax.Span
}

// Tracking controls how a point located exactly at an edit boundary moves.
type Tracking uint8

const (
	// TrackNegative keeps the point before text inserted at its position.
	TrackNegative Tracking = iota
	// TrackPositive moves the point past text inserted at its position.
	TrackPositive
)

// Impact returns the smallest span of newTree that must be re-tagged after
// applying changes to oldTree. It covers every record intersecting a change
// in either tree. The second return value is false if no record intersects
// any change, in which case nothing needs to be re-tagged.
func Impact(oldTree, newTree *syntax.Tree, changes []Change) (syntax.Span, bool) {
	oldAffected, oldOk := affectedRecords(oldTree, changes, func(c Change) syntax.Span { return c.Old })
	newAffected, newOk := affectedRecords(newTree, changes, func(c Change) syntax.Span { return c.New })
	switch {
	case oldOk && newOk:
		return TranslateSpan(oldAffected, changes).Cover(newAffected), true
	case oldOk:
		return TranslateSpan(oldAffected, changes), true
	case newOk:
		return newAffected, true
	}
	return syntax.Span{}, false
}

// affectedRecords returns the span from the first to the last record
// intersecting any of the changes.
func affectedRecords(tree *syntax.Tree, changes []Change, side func(Change) syntax.Span) (syntax.Span, bool) {
	var matched []*syntax.RecordNode
	for _, change := range changes {
		for _, record := range tree.Root.Records {
			if record.Span().IntersectsWith(side(change)) && !slices.Contains(matched, record) {
				matched = append(matched, record)
			}
		}
	}
	if len(matched) == 0 {
		return syntax.Span{}, false
	}
	slices.SortFunc(matched, func(a, b *syntax.RecordNode) int {
		return cmp.Compare(a.Span().Start, b.Span().Start)
	})
	return syntax.NewSpan(matched[0].Span().Start, matched[len(matched)-1].Span().End), true
}

// TranslateSpan maps a span from old to new coordinates. The start tracks
// negatively and the end positively, so text inserted at either edge ends up
// inside the translated span.
func TranslateSpan(span syntax.Span, changes []Change) syntax.Span {
	sorted := sortedByOldStart(changes)
	start := translatePoint(span.Start, sorted, TrackNegative)
	end := translatePoint(span.End, sorted, TrackPositive)
	return syntax.NewSpan(start, max(start, end))
}

// TranslatePoint maps an offset from old to new coordinates. An offset inside
// replaced text snaps to the start or end of the replacement depending on
// tracking.
func TranslatePoint(pos int, changes []Change, tracking Tracking) int {
	return translatePoint(pos, sortedByOldStart(changes), tracking)
}

func translatePoint(pos int, sorted []Change, tracking Tracking) int {
	delta := 0
	for _, c := range sorted {
		if pos < c.Old.Start || (pos == c.Old.Start && tracking == TrackNegative) {
			break
		}
		if pos < c.Old.End {
			if tracking == TrackNegative {
				return c.New.Start
			}
			return c.New.End
		}
		// New offsets already include the delta of all earlier changes.
		delta = c.New.End - c.Old.End
	}
	return pos + delta
}

func sortedByOldStart(changes []Change) []Change {
	if slices.IsSortedFunc(changes, compareOldStart) {
		return changes
	}
	sorted := slices.Clone(changes)
	slices.SortStableFunc(sorted, compareOldStart)
	return sorted
}

func compareOldStart(a, b Change) int {
	return cmp.Compare(a.Old.Start, b.Old.Start)
}
