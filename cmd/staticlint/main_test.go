package main

import (
	"testing"

	"golang.org/x/tools/go/analysis"
)

func TestFilterAnalyzers(t *testing.T) {
	tests := []struct {
		name     string
		input    []*analysis.Analyzer
		expected int
	}{
		{
			name: "dedupes by name",
			input: []*analysis.Analyzer{
				{Name: "assign"},
				{Name: "atomic"},
				{Name: "assign"},
			},
			expected: 2,
		},
		{
			name: "drops nil entries",
			input: []*analysis.Analyzer{
				{Name: "assign"},
				nil,
				{Name: "atomic"},
			},
			expected: 2,
		},
		{
			name:     "empty input",
			input:    []*analysis.Analyzer{},
			expected: 0,
		},
		{
			name: "all unique",
			input: []*analysis.Analyzer{
				{Name: "assign"},
				{Name: "atomic"},
				{Name: "bools"},
			},
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := filterAnalyzers(tt.input)

			if len(filtered) != tt.expected {
				t.Errorf("expected %d analyzers, got %d", tt.expected, len(filtered))
			}

			seen := make(map[string]bool)
			for _, a := range filtered {
				if seen[a.Name] {
					t.Errorf("duplicate analyzer after filtering: %s", a.Name)
				}
				seen[a.Name] = true
			}
		})
	}
}
