package syntax

import "testing"

func TestSpanIntersectsWith(t *testing.T) {
	tests := []struct {
		a, b Span
		want bool
	}{
		{Span{0, 5}, Span{2, 3}, true},
		{Span{0, 5}, Span{5, 8}, true},
		{Span{5, 8}, Span{0, 5}, true},
		{Span{0, 5}, Span{6, 8}, false},
		{Span{3, 3}, Span{3, 3}, true},
		{Span{0, 5}, Span{5, 5}, true},
		{Span{0, 5}, Span{0, 0}, true},
	}
	for _, tt := range tests {
		if got := tt.a.IntersectsWith(tt.b); got != tt.want {
			t.Errorf("%s.IntersectsWith(%s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSpanContains(t *testing.T) {
	s := Span{2, 4}
	for pos, want := range map[int]bool{1: false, 2: true, 3: true, 4: false} {
		if got := s.Contains(pos); got != want {
			t.Errorf("%s.Contains(%d) = %v, want %v", s, pos, got, want)
		}
	}
	if (Span{3, 3}).Contains(3) {
		t.Error("empty span should contain nothing")
	}
}

func TestKindIs(t *testing.T) {
	tests := []struct {
		kind, base Kind
		want       bool
	}{
		{KindUserAgent, KindUserAgent, true},
		{KindUserAgent, KindDirective, true},
		{KindUserAgent, KindLine, true},
		{KindUserAgent, KindNode, true},
		{KindUserAgent, KindRule, false},
		{KindCommentLine, KindDirective, false},
		{KindRecord, KindLine, false},
		{KindDocument, KindNode, true},
		{KindNode, KindDocument, false},
	}
	for _, tt := range tests {
		if got := tt.kind.Is(tt.base); got != tt.want {
			t.Errorf("%s.Is(%s) = %v, want %v", tt.kind, tt.base, got, tt.want)
		}
	}
}

func TestEveryKindInTable(t *testing.T) {
	for _, k := range Kinds() {
		if !k.Is(KindNode) {
			t.Errorf("%s does not derive from Node", k)
		}
	}
}
