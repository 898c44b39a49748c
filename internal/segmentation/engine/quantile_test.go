package engine

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
)

func TestScoreColumn_Empty(t *testing.T) {
	scores := ScoreColumn(map[snowflake.ID]float64{}, MetricFrequency)
	assert.Empty(t, scores)
}

func TestScoreColumn_SingleDistinctRecency(t *testing.T) {
	recent := map[snowflake.ID]float64{1: 10, 2: 10, 3: 10}
	for _, score := range ScoreColumn(recent, MetricRecency) {
		assert.Equal(t, 5, score)
	}

	stale := map[snowflake.ID]float64{1: 45, 2: 45}
	for _, score := range ScoreColumn(stale, MetricRecency) {
		assert.Equal(t, 1, score)
	}
}

func TestScoreColumn_SingleDistinctNeutral(t *testing.T) {
	values := map[snowflake.ID]float64{1: 7, 2: 7, 3: 7}
	for _, score := range ScoreColumn(values, MetricFrequency) {
		assert.Equal(t, 3, score)
	}
	for _, score := range ScoreColumn(values, MetricMonetary) {
		assert.Equal(t, 3, score)
	}
}

func TestScoreColumn_FewDistinctValues(t *testing.T) {
	// Three distinct values produce exactly three labels, one per value, even
	// though one value dominates the population.
	values := map[snowflake.ID]float64{
		1: 100, 2: 100, 3: 100, 4: 100,
		5: 500,
		6: 900,
	}

	scores := ScoreColumn(values, MetricMonetary)

	assert.Equal(t, 1, scores[1])
	assert.Equal(t, 1, scores[4])
	assert.Equal(t, 2, scores[5])
	assert.Equal(t, 3, scores[6])
}

func TestScoreColumn_FewDistinctRecencyInverted(t *testing.T) {
	// Smaller recency is better: the most recent customer gets the top label.
	values := map[snowflake.ID]float64{
		1: 5,
		2: 60,
		3: 200,
	}

	scores := ScoreColumn(values, MetricRecency)

	assert.Equal(t, 3, scores[1])
	assert.Equal(t, 2, scores[2])
	assert.Equal(t, 1, scores[3])
}

func TestScoreColumn_QuintileSpread(t *testing.T) {
	values := make(map[snowflake.ID]float64, 10)
	for i := 1; i <= 10; i++ {
		values[snowflake.ID(i)] = float64(i * 100)
	}

	scores := ScoreColumn(values, MetricMonetary)

	assert.Equal(t, 1, scores[1])
	assert.Equal(t, 5, scores[10])
	// Scores never decrease as the value grows.
	prev := 0
	for i := 1; i <= 10; i++ {
		assert.GreaterOrEqual(t, scores[snowflake.ID(i)], prev)
		prev = scores[snowflake.ID(i)]
	}
}

func TestScoreColumn_SkewedPopulationMergesBins(t *testing.T) {
	// Six distinct values but heavily skewed: duplicate quantile edges are
	// dropped and the effective bin count shrinks instead of failing.
	values := map[snowflake.ID]float64{
		1: 1, 2: 1, 3: 1, 4: 1, 5: 1, 6: 1, 7: 1, 8: 1,
		9:  2,
		10: 3,
		11: 50,
		12: 80,
		13: 120,
	}

	scores := ScoreColumn(values, MetricMonetary)

	assert.Len(t, scores, len(values))
	for id, score := range scores {
		assert.GreaterOrEqual(t, score, 1, "customer %d", id)
		assert.LessOrEqual(t, score, 5, "customer %d", id)
	}
	// Order still holds for the extremes.
	assert.Less(t, scores[1], scores[13])
}

func TestScoreColumn_RecencyQuintileInverted(t *testing.T) {
	values := make(map[snowflake.ID]float64, 10)
	for i := 1; i <= 10; i++ {
		values[snowflake.ID(i)] = float64(i * 20)
	}

	scores := ScoreColumn(values, MetricRecency)

	assert.Equal(t, 5, scores[1])
	assert.Equal(t, 1, scores[10])
}

func TestQuantile_LinearInterpolation(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}

	assert.InDelta(t, 17.5, quantile(sorted, 0.25), 1e-9)
	assert.InDelta(t, 25.0, quantile(sorted, 0.5), 1e-9)
	assert.InDelta(t, 40.0, quantile(sorted, 1.0), 1e-9)
}
