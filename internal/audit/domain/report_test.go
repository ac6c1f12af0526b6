package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeFor(t *testing.T) {
	tests := []struct {
		score int
		grade string
	}{
		{score: 100, grade: "A+"},
		{score: 95, grade: "A+"},
		{score: 94, grade: "A"},
		{score: 90, grade: "A"},
		{score: 89, grade: "A-"},
		{score: 85, grade: "A-"},
		{score: 84, grade: "B+"},
		{score: 80, grade: "B+"},
		{score: 79, grade: "B"},
		{score: 75, grade: "B"},
		{score: 74, grade: "B-"},
		{score: 70, grade: "B-"},
		{score: 69, grade: "C+"},
		{score: 65, grade: "C+"},
		{score: 64, grade: "C"},
		{score: 60, grade: "C"},
		{score: 59, grade: "D"},
		{score: 50, grade: "D"},
		{score: 49, grade: "F"},
		{score: 0, grade: "F"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.grade, GradeFor(tt.score), "score %d", tt.score)
	}
}
