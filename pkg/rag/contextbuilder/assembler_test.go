package contextbuilder

import (
	"testing"

	"ai-coursechat-be/internal/entity"
)

func TestAssemble(t *testing.T) {
	tests := []struct {
		name     string
		passages []entity.RetrievedPassage
		want     string
	}{
		{
			name:     "no passages",
			passages: nil,
			want:     "",
		},
		{
			name: "single passage",
			passages: []entity.RetrievedPassage{
				{Content: "Cells are the basic unit of life.", Rank: 0},
			},
			want: "Cells are the basic unit of life.",
		},
		{
			name: "passages joined in rank order",
			passages: []entity.RetrievedPassage{
				{Content: "Mitochondria produce ATP.", Rank: 0},
				{Content: "Ribosomes synthesize proteins.", Rank: 1},
				{Content: "The nucleus stores DNA.", Rank: 2},
			},
			want: "Mitochondria produce ATP.\n\nRibosomes synthesize proteins.\n\nThe nucleus stores DNA.",
		},
		{
			name: "empty content preserved verbatim",
			passages: []entity.RetrievedPassage{
				{Content: "before", Rank: 0},
				{Content: "", Rank: 1},
				{Content: "after", Rank: 2},
			},
			want: "before\n\n\n\nafter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assemble(tt.passages)
			if got != tt.want {
				t.Errorf("Assemble() = %q, want %q", got, tt.want)
			}
		})
	}
}
