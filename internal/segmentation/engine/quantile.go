package engine

import (
	"sort"

	"github.com/bwmarrin/snowflake"
)

// Metric identifies which RFM column is being scored. Recency is scored
// inverted: smaller values are more favorable.
type Metric int

const (
	MetricRecency Metric = iota
	MetricFrequency
	MetricMonetary
)

const maxBins = 5

// recencyActiveThresholdDays is the single-value heuristic cutoff: a cohort
// whose only recency value is within this many days scores 5, otherwise 1.
const recencyActiveThresholdDays = 30

// ScoreColumn assigns each customer an ordinal score in [0,5] for one metric
// column, higher always meaning more favorable. The cohort is partitioned
// into quantile bins; low-cardinality and degenerate distributions fall back
// to heuristics instead of failing:
//
//   - no values: nothing to score, empty result
//   - one distinct value: recency scores 5 when the value is recent enough,
//     otherwise 1; frequency and monetary score a neutral 3
//   - 2..5 distinct values: as many bins as distinct values
//   - more: exactly 5 bins, with duplicate quantile edges dropped (the
//     effective bin count can shrink for skewed distributions)
func ScoreColumn(values map[snowflake.ID]float64, metric Metric) map[snowflake.ID]int {
	scores := make(map[snowflake.ID]int, len(values))
	if len(values) == 0 {
		return scores
	}

	population := make([]float64, 0, len(values))
	for _, v := range values {
		population = append(population, v)
	}
	sort.Float64s(population)

	distinct := distinctCount(population)
	if distinct == 1 {
		flat := heuristicScore(population[0], metric)
		for id := range values {
			scores[id] = flat
		}
		return scores
	}

	if distinct <= maxBins {
		// With k distinct values the k quantile bins are exactly the distinct
		// values themselves; bin by rank so every value keeps its own label.
		ranks := distinctRanks(population)
		for id, v := range values {
			rank := ranks[v]
			if metric == MetricRecency {
				scores[id] = distinct - rank
			} else {
				scores[id] = rank + 1
			}
		}
		return scores
	}

	edges := quantileEdges(population, maxBins)
	effective := len(edges) + 1
	if effective < 2 {
		// Degenerate despite multiple distinct values; same fallback as a
		// single-value column.
		flat := heuristicScore(population[0], metric)
		for id := range values {
			scores[id] = flat
		}
		return scores
	}

	for id, v := range values {
		bin := binIndex(edges, v)
		if metric == MetricRecency {
			scores[id] = effective - bin
		} else {
			scores[id] = bin + 1
		}
	}
	return scores
}

func heuristicScore(value float64, metric Metric) int {
	if metric == MetricRecency {
		if value <= recencyActiveThresholdDays {
			return 5
		}
		return 1
	}
	return 3
}

func distinctRanks(sorted []float64) map[float64]int {
	ranks := make(map[float64]int)
	for _, v := range sorted {
		if _, ok := ranks[v]; !ok {
			ranks[v] = len(ranks)
		}
	}
	return ranks
}

func distinctCount(sorted []float64) int {
	if len(sorted) == 0 {
		return 0
	}
	count := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1] {
			count++
		}
	}
	return count
}

// quantileEdges returns the interior bin boundaries for the requested bin
// count, computed over the sorted population with linear interpolation.
// Duplicate boundaries are dropped, so fewer than bins-1 edges may return.
func quantileEdges(sorted []float64, bins int) []float64 {
	edges := make([]float64, 0, bins-1)
	for i := 1; i < bins; i++ {
		q := float64(i) / float64(bins)
		edge := quantile(sorted, q)
		if len(edges) > 0 && edge == edges[len(edges)-1] {
			continue
		}
		edges = append(edges, edge)
	}
	return edges
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lower := int(pos)
	frac := pos - float64(lower)
	if lower+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

// binIndex places a value into the bin whose upper edge is the first edge
// not below it; values above every edge land in the last bin.
func binIndex(edges []float64, v float64) int {
	idx := sort.SearchFloat64s(edges, v)
	return idx
}
