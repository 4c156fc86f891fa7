package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverageOf(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{name: "none", ratings: nil, want: 0.0},
		{name: "example", ratings: []int{4, 5, 3}, want: 4.0},
		{name: "half", ratings: []int{4, 5}, want: 4.5},
		{name: "rounds up", ratings: []int{1, 2, 2}, want: 1.7},
		{name: "rounds down", ratings: []int{5, 5, 4}, want: 4.7},
		{name: "single", ratings: []int{2}, want: 2.0},
		{name: "tie to even down", ratings: []int{4, 5, 4, 4}, want: 4.2},
		{name: "tie to even from odd", ratings: []int{3, 4, 3, 3}, want: 3.2},
		{name: "tie to even up", ratings: []int{4, 5, 5, 5}, want: 4.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, averageOf(tt.ratings))
		})
	}
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 4.2, RoundRating(4.25))
	assert.Equal(t, 3.2, RoundRating(3.25))
	assert.Equal(t, 2.8, RoundRating(2.75))
	assert.Equal(t, 1.7, RoundRating(5.0/3))
}
