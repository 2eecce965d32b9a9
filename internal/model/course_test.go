package model

import (
	"encoding/json"
	"testing"
)

func TestLearnOutcomesDecode(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"strings", `["a", " b "]`, []string{"a", "b"}},
		{"legacy objects", `[{"outcome":"a"},{"outcome":"b"}]`, []string{"a", "b"}},
		{"mixed", `["a", {"outcome":"b"}, ""]`, []string{"a", "b"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var got LearnOutcomes
			if err := json.Unmarshal([]byte(c.raw), &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if len(got) != len(c.want) {
				t.Fatalf("got %v, want %v", got, c.want)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Fatalf("got %v, want %v", got, c.want)
				}
			}
		})
	}
}

func TestLearnOutcomesNull(t *testing.T) {
	var got LearnOutcomes
	if err := json.Unmarshal([]byte(`null`), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != nil {
		t.Fatalf("null should decode to nil, got %v", got)
	}

	var o LearnOutcomes
	if err := o.Scan(nil); err != nil || o != nil {
		t.Fatalf("Scan(nil) = %v, %v", o, err)
	}
}

func TestLearnOutcomesRejectsUnknownItems(t *testing.T) {
	var got LearnOutcomes
	if err := json.Unmarshal([]byte(`[42]`), &got); err == nil {
		t.Fatal("expected error for numeric item")
	}
}

func TestSectionProgressDataMerge(t *testing.T) {
	d := SectionProgressData{LastAttempt: &LastAttemptSummary{AttemptNo: 1}}
	merged := d.Merge(SectionProgressData{LastReflection: &LastReflectionSummary{CharCount: 30}})
	if merged.LastAttempt == nil || merged.LastAttempt.AttemptNo != 1 {
		t.Fatal("lastAttempt must be kept")
	}
	if merged.LastReflection == nil || merged.LastReflection.CharCount != 30 {
		t.Fatal("lastReflection must be set")
	}
}

func TestSectionTypeValid(t *testing.T) {
	if SectionType("video").Valid() {
		t.Fatal("video is not a section type")
	}
	if SectionConcept.HasBlockPayload() {
		t.Fatal("concept stores rich content, not a block payload")
	}
	if !SectionQuiz.HasBlockPayload() {
		t.Fatal("quiz stores a block payload")
	}
}
