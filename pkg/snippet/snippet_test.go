package snippet

import (
	"strings"
	"testing"
)

func joined(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestBuildEmphasizesMatch(t *testing.T) {
	r := Build("Exam schedule for CS on Feb 15", "exam", "")

	if r.Kind != KindExcerpt {
		t.Fatalf("expected excerpt rendering, got kind %d", r.Kind)
	}
	if len(r.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d: %+v", len(r.Segments), r.Segments)
	}
	if r.Segments[0].Text != "Exam" || !r.Segments[0].Emphasized {
		t.Errorf("expected emphasized %q, got %+v", "Exam", r.Segments[0])
	}
	if r.Segments[1].Text != " schedule for CS on Feb 15" || r.Segments[1].Emphasized {
		t.Errorf("expected plain remainder, got %+v", r.Segments[1])
	}
	if r.LeadingEllipsis || r.TrailingEllipsis {
		t.Error("window covers the whole text, no ellipses expected")
	}
}

func TestBuildMarksEveryOccurrence(t *testing.T) {
	r := Build("fee notice: FEE waiver and fee receipt", "fee", "")

	emphasized := 0
	for _, s := range r.Segments {
		if s.Emphasized {
			emphasized++
			if !strings.EqualFold(s.Text, "fee") {
				t.Errorf("emphasized segment %q does not match query", s.Text)
			}
		}
	}
	if emphasized != 3 {
		t.Errorf("expected 3 emphasized segments, got %d", emphasized)
	}
	if joined(r.Segments) != "fee notice: FEE waiver and fee receipt" {
		t.Errorf("segments do not reassemble the window: %q", joined(r.Segments))
	}
}

func TestBuildNoMatchReturnsPrefix(t *testing.T) {
	long := strings.Repeat("lorem ipsum ", 30)

	a := Build(long, "unfindable", "")
	b := Build(long, "UNFINDABLE", "")

	if len(a.Segments) != 1 || a.Segments[0].Emphasized {
		t.Fatalf("expected a single plain segment, got %+v", a.Segments)
	}
	if !a.TrailingEllipsis {
		t.Error("expected trailing ellipsis on truncated prefix")
	}
	if len(a.Segments[0].Text) > prefixLen {
		t.Errorf("prefix longer than budget: %d", len(a.Segments[0].Text))
	}
	// Query casing must not affect a non-matching prefix.
	if a.Segments[0].Text != b.Segments[0].Text {
		t.Error("prefix differs across query casing variants")
	}
}

func TestBuildEmptyQuery(t *testing.T) {
	r := Build("short text", "", "")

	if len(r.Segments) != 1 || r.Segments[0].Text != "short text" {
		t.Fatalf("unexpected segments: %+v", r.Segments)
	}
	if r.TrailingEllipsis {
		t.Error("short text should not be truncated")
	}
}

func TestBuildWindowEllipses(t *testing.T) {
	text := strings.Repeat("a", 200) + "needle" + strings.Repeat("b", 200)

	r := Build(text, "needle", "")
	if !r.LeadingEllipsis {
		t.Error("expected leading ellipsis")
	}
	if !r.TrailingEllipsis {
		t.Error("expected trailing ellipsis")
	}

	window := joined(r.Segments)
	if !strings.Contains(window, "needle") {
		t.Errorf("window lost the match: %q", window)
	}
	if len(window) != windowBefore+len("needle")+windowAfter {
		t.Errorf("unexpected window size %d", len(window))
	}
}

func TestBuildExtractedAnswerSkipsMatching(t *testing.T) {
	r := Build("The student was born in 2004 and enrolled in CS.", "age", "21")

	if r.Kind != KindAnswer {
		t.Fatalf("expected answer rendering, got kind %d", r.Kind)
	}
	if r.Answer != "21" {
		t.Errorf("expected answer %q, got %q", "21", r.Answer)
	}
	if r.Preview == "" {
		t.Error("expected a raw-text preview alongside the answer")
	}
	if len(r.Segments) != 0 {
		t.Errorf("answer rendering should carry no segments, got %+v", r.Segments)
	}
}

func TestBuildCaseShiftingRunesBeforeMatch(t *testing.T) {
	// U+0130 lowers to a shorter byte sequence, so offsets taken from a
	// lowered copy of the text would drift past the end of one of the two
	// strings. Build must stay on original-text offsets and not panic.
	text := strings.Repeat("İ", 100) + "exam schedule"

	r := Build(text, "exam", "")

	if r.Kind != KindExcerpt {
		t.Fatalf("expected excerpt rendering, got kind %d", r.Kind)
	}
	emphasized := 0
	for _, s := range r.Segments {
		if s.Emphasized {
			emphasized++
			if s.Text != "exam" {
				t.Errorf("emphasized segment %q does not match query", s.Text)
			}
		}
	}
	if emphasized != 1 {
		t.Errorf("expected 1 emphasized segment, got %d", emphasized)
	}
	if !strings.HasSuffix(joined(r.Segments), "exam schedule") {
		t.Errorf("window lost the match: %q", joined(r.Segments))
	}
}

func TestBuildCaseShiftingRuneInsideMatch(t *testing.T) {
	r := Build("the İstanbul campus guide", "istanbul", "")

	var match string
	for _, s := range r.Segments {
		if s.Emphasized {
			match = s.Text
		}
	}
	if match != "İstanbul" {
		t.Errorf("expected emphasized %q, got %q", "İstanbul", match)
	}
	if joined(r.Segments) != "the İstanbul campus guide" {
		t.Errorf("segments do not reassemble the window: %q", joined(r.Segments))
	}
}

func TestBuildMatchAtTextStart(t *testing.T) {
	r := Build("fees are due Friday", "fees", "")

	if r.LeadingEllipsis {
		t.Error("match at offset 0 should not produce a leading ellipsis")
	}
	if !r.Segments[0].Emphasized {
		t.Errorf("expected leading emphasized segment, got %+v", r.Segments[0])
	}
}
