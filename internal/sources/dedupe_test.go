package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EyalShechtman/AWSHackDay/internal/contracts"
)

func TestDedupe(t *testing.T) {
	tests := []struct {
		name string
		in   []contracts.Citation
		want []contracts.Citation
	}{
		{
			name: "nil input",
			in:   nil,
			want: nil,
		},
		{
			name: "no duplicates",
			in: []contracts.Citation{
				{URI: "https://a.example/1", Title: "One"},
				{URI: "https://a.example/2", Title: "Two"},
			},
			want: []contracts.Citation{
				{URI: "https://a.example/1", Title: "One"},
				{URI: "https://a.example/2", Title: "Two"},
			},
		},
		{
			name: "first occurrence wins",
			in: []contracts.Citation{
				{URI: "https://a.example/1", Title: "Original"},
				{URI: "https://a.example/2", Title: "Other"},
				{URI: "https://a.example/1", Title: "Repost"},
			},
			want: []contracts.Citation{
				{URI: "https://a.example/1", Title: "Original"},
				{URI: "https://a.example/2", Title: "Other"},
			},
		},
		{
			name: "same title different uri kept",
			in: []contracts.Citation{
				{URI: "https://a.example/1", Title: "Earnings"},
				{URI: "https://b.example/1", Title: "Earnings"},
			},
			want: []contracts.Citation{
				{URI: "https://a.example/1", Title: "Earnings"},
				{URI: "https://b.example/1", Title: "Earnings"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dedupe(tt.in))
		})
	}
}
