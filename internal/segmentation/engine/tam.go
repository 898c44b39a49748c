package engine

import "github.com/smallbiznis/segmenta/internal/segmentation/domain"

// ClassifyTAM maps recency in days to a temporal activity status. Brackets
// are closed at the lower bound and open at the upper:
//
//	<= 30    Active
//	31-90    At Risk
//	91-180   Inactive
//	> 180    Lost
//
// Customers without any transaction never reach this function; they are
// classified No Purchase by the caller.
func ClassifyTAM(recencyDays int) domain.TAMStatus {
	switch {
	case recencyDays <= 30:
		return domain.TAMActive
	case recencyDays <= 90:
		return domain.TAMAtRisk
	case recencyDays <= 180:
		return domain.TAMInactive
	default:
		return domain.TAMLost
	}
}
