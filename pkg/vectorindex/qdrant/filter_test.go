package qdrant

import (
	"testing"

	"ai-coursechat-be/internal/entity"
)

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name           string
		filter         entity.RetrievalFilter
		wantNil        bool
		wantConditions int
	}{
		{
			name:    "empty filter returns nil",
			filter:  entity.RetrievalFilter{},
			wantNil: true,
		},
		{
			name:           "doc path only",
			filter:         entity.RetrievalFilter{DocPath: "docs/algebra.pdf"},
			wantConditions: 1,
		},
		{
			name:           "pages only",
			filter:         entity.RetrievalFilter{Pages: []int{3, 4, 5}},
			wantConditions: 1,
		},
		{
			name:           "doc path and pages",
			filter:         entity.RetrievalFilter{DocPath: "docs/algebra.pdf", Pages: []int{12}},
			wantConditions: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildFilter(tt.filter)

			if tt.wantNil {
				if got != nil {
					t.Fatalf("expected nil filter, got %+v", got)
				}
				return
			}

			if got == nil {
				t.Fatal("expected a filter, got nil")
			}
			if len(got.Must) != tt.wantConditions {
				t.Fatalf("expected %d conditions, got %d", tt.wantConditions, len(got.Must))
			}
		})
	}
}

func TestBuildFilterDocPathKeyword(t *testing.T) {
	got := BuildFilter(entity.RetrievalFilter{DocPath: "docs/history.pdf"})
	if got == nil || len(got.Must) != 1 {
		t.Fatalf("expected a single condition, got %+v", got)
	}

	field := got.Must[0].GetField()
	if field == nil {
		t.Fatal("expected a field condition")
	}
	if field.Key != "doc_path" {
		t.Fatalf("expected key doc_path, got %s", field.Key)
	}
	if kw := field.Match.GetKeyword(); kw != "docs/history.pdf" {
		t.Fatalf("expected keyword docs/history.pdf, got %s", kw)
	}
}

func TestBuildFilterPageMembership(t *testing.T) {
	got := BuildFilter(entity.RetrievalFilter{Pages: []int{7, 8}})
	if got == nil || len(got.Must) != 1 {
		t.Fatalf("expected a single condition, got %+v", got)
	}

	field := got.Must[0].GetField()
	if field == nil {
		t.Fatal("expected a field condition")
	}
	if field.Key != "page" {
		t.Fatalf("expected key page, got %s", field.Key)
	}

	integers := field.Match.GetIntegers()
	if integers == nil {
		t.Fatal("expected an integer-set match")
	}
	if len(integers.Integers) != 2 || integers.Integers[0] != 7 || integers.Integers[1] != 8 {
		t.Fatalf("expected pages [7 8], got %v", integers.Integers)
	}
}
