package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punkouter26/PoSeeReview-sub001/pkg/models"
)

func TestFilterInappropriate(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "exact token removed",
			in:   []string{"this food is damn terrible", "lovely place"},
			want: []string{"lovely place"},
		},
		{
			name: "superstring containing token kept",
			in:   []string{"damning service was fine"},
			want: []string{"damning service was fine"},
		},
		{
			name: "case insensitive",
			in:   []string{"DAMN good burgers"},
			want: []string{},
		},
		{
			name: "token next to punctuation removed",
			in:   []string{"what the hell, never again"},
			want: []string{},
		},
		{
			name: "empty input",
			in:   []string{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterInappropriate(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterInappropriateDoesNotMutateInput(t *testing.T) {
	in := []string{"damn place", "fine place"}
	_ = FilterInappropriate(in)
	assert.Equal(t, []string{"damn place", "fine place"}, in)
}

func TestPrioritizeOrdersNegativeFirst(t *testing.T) {
	in := ratings(5, 1, 3, 2, 4)

	out := Prioritize(in)

	require.Len(t, out, len(in))
	got := make([]int, 0, len(out))
	for _, r := range out {
		got = append(got, r.Rating)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
}

func TestPrioritizeStableAmongEqualRatings(t *testing.T) {
	in := []models.Review{
		{Text: "first three", Rating: 3},
		{Text: "five", Rating: 5},
		{Text: "second three", Rating: 3},
	}

	out := Prioritize(in)

	require.Len(t, out, 3)
	assert.Equal(t, "first three", out[0].Text)
	assert.Equal(t, "second three", out[1].Text)
	assert.Equal(t, "five", out[2].Text)
}

func TestPrioritizeLengthPreserving(t *testing.T) {
	in := ratings(4, 4, 4, 4)
	out := Prioritize(in)
	assert.Len(t, out, 4)
}

func TestPrioritizeUniformlyPositiveStillReturnsAll(t *testing.T) {
	in := ratings(5, 4, 5)
	out := Prioritize(in)
	require.Len(t, out, 3)
	assert.Equal(t, 4, out[0].Rating)
}

func TestCurate(t *testing.T) {
	t.Run("takes bounded prefix", func(t *testing.T) {
		in := ratings(1, 2, 3, 4, 5, 1, 2, 3, 4, 5, 1, 2)
		out := Curate(in, 8)
		assert.Len(t, out, 8)
	})

	t.Run("max clamped to 5-10", func(t *testing.T) {
		in := ratings(1, 2, 3, 4, 5, 1, 2, 3, 4, 5, 1, 2)
		assert.Len(t, Curate(in, 2), 5)
		assert.Len(t, Curate(in, 50), 10)
	})

	t.Run("filters before prioritizing", func(t *testing.T) {
		in := []models.Review{
			{Text: "damn awful", Rating: 1},
			{Text: "odd but fine", Rating: 2},
			{Text: "great", Rating: 5},
		}
		out := Curate(in, 5)
		require.Len(t, out, 2)
		assert.Equal(t, "odd but fine", out[0].Text)
	})
}

func ratings(rs ...int) []models.Review {
	out := make([]models.Review, 0, len(rs))
	for _, r := range rs {
		out = append(out, models.Review{Text: "review", Rating: r})
	}
	return out
}
