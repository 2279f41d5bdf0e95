package isolation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func column(values ...float64) [][]float64 {
	points := make([][]float64, len(values))
	for i, v := range values {
		points[i] = []float64{v}
	}
	return points
}

func TestFit_Errors(t *testing.T) {
	_, err := Fit(nil, Options{})
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Fit([][]float64{{1, 2}, {3}}, Options{})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestFit_Shape(t *testing.T) {
	points := column(1, 2, 3, 4, 5, 6, 7, 8)
	forest, err := Fit(points, Options{Trees: 10, Seed: 1})
	require.NoError(t, err)

	assert.Len(t, forest.Trees, 10)
	assert.Equal(t, 8, forest.SampleSize)
	assert.Equal(t, 1, forest.Dim)
	for _, tree := range forest.Trees {
		require.NotEmpty(t, tree.Nodes)
		assert.Equal(t, 8, tree.Nodes[0].Size)
	}
}

func TestScoreBatch_OutlierAmongIdentical(t *testing.T) {
	amounts := []float64{50000, 50000, 50000, 50000, 50000, 50000, 50000, 50000, 50000, 5000000}

	scores, err := ScoreBatch(column(amounts...), Options{Seed: 42})
	require.NoError(t, err)
	require.Len(t, scores, len(amounts))

	assert.Greater(t, scores[9], 0.5)
	for i := 0; i < 9; i++ {
		assert.Less(t, scores[i], 0.5, "index %d", i)
	}
	assert.Equal(t, []int{9}, Select(scores, 0.5))
}

func TestScoreBatch_SignedExpenseOutlier(t *testing.T) {
	amounts := []float64{-50000, -50000, -50000, -50000, -50000, -50000, -5000000}

	scores, err := ScoreBatch(column(amounts...), Options{Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, []int{6}, Select(scores, 0.5))
}

func TestScoreBatch_JitteredClusterOutlierIsMax(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	values := make([]float64, 0, 50)
	for i := 0; i < 49; i++ {
		values = append(values, 50000+rng.Float64()*2000)
	}
	values = append(values, 5000000)

	scores, err := ScoreBatch(column(values...), Options{Seed: 11})
	require.NoError(t, err)

	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	assert.Equal(t, 49, best)
	assert.Greater(t, scores[49], 0.5)
}

func TestScoreBatch_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	points := make([][]float64, 40)
	for i := range points {
		points[i] = []float64{rng.NormFloat64() * 100, float64(rng.Intn(7))}
	}

	first, err := ScoreBatch(points, Options{Trees: 50, Seed: 99})
	require.NoError(t, err)
	second, err := ScoreBatch(points, Options{Trees: 50, Seed: 99})
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, math.Float64bits(first[i]), math.Float64bits(second[i]))
	}
}

func TestScoreBatch_Range(t *testing.T) {
	points := column(1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144)
	scores, err := ScoreBatch(points, Options{Seed: 1})
	require.NoError(t, err)
	for _, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestScoreBatch_ConstantInput(t *testing.T) {
	scores, err := ScoreBatch(column(10, 10, 10, 10, 10), Options{Seed: 1})
	require.NoError(t, err)
	// Корень сразу лист, каждая точка получает ровно средний путь
	for _, s := range scores {
		assert.InDelta(t, 0.5, s, 1e-9)
	}
}

func TestAveragePathLength(t *testing.T) {
	assert.Equal(t, 0.0, averagePathLength(1))
	assert.Equal(t, 1.0, averagePathLength(2))
	assert.InDelta(t, 3.7488, averagePathLength(10), 1e-3)
}

func TestSelect(t *testing.T) {
	assert.Equal(t, []int{1, 3}, Select([]float64{0.5, 0.51, 0.2, 0.9}, 0.5))
	assert.Nil(t, Select([]float64{0.1}, 0.5))
}
