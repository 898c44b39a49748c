package engine

import "github.com/smallbiznis/segmenta/internal/segmentation/domain"

type segmentRule struct {
	label domain.Segment
	match func(s domain.Scores, tam domain.TAMStatus) bool
}

// segmentRules is evaluated top to bottom with first-match-wins semantics.
// The ordering is load-bearing: a customer with R=5 F=4 M=2 while Active is
// Loyal, not Promising or Regular, because evaluation stops at the first hit.
var segmentRules = []segmentRule{
	{domain.SegmentChampion, func(s domain.Scores, tam domain.TAMStatus) bool {
		return s.Recency >= 4 && s.Frequency >= 4 && s.Monetary >= 4 && tam == domain.TAMActive
	}},
	{domain.SegmentLoyal, func(s domain.Scores, tam domain.TAMStatus) bool {
		return s.Recency == 5 && s.Frequency >= 3 && tam == domain.TAMActive
	}},
	{domain.SegmentPromising, func(s domain.Scores, tam domain.TAMStatus) bool {
		return s.Recency >= 4 && s.Frequency <= 2 && tam == domain.TAMActive
	}},
	{domain.SegmentAtRisk, func(s domain.Scores, tam domain.TAMStatus) bool {
		return tam == domain.TAMAtRisk && (s.Frequency >= 3 || s.Monetary >= 3)
	}},
	{domain.SegmentInactive, func(s domain.Scores, tam domain.TAMStatus) bool {
		return tam == domain.TAMInactive
	}},
	{domain.SegmentLost, func(s domain.Scores, tam domain.TAMStatus) bool {
		return tam == domain.TAMLost && s.Frequency == 1 && s.Monetary == 1
	}},
}

// AssignSegment resolves the behavioral segment for a scored customer. The
// chain always terminates: anything unmatched is Regular. Callers must route
// customers without transactions to SegmentNoTransactions instead of calling
// this.
func AssignSegment(s domain.Scores, tam domain.TAMStatus) domain.Segment {
	for _, rule := range segmentRules {
		if rule.match(s, tam) {
			return rule.label
		}
	}
	return domain.SegmentRegular
}
