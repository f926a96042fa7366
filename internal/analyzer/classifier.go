package analyzer

import "github.com/rahmatrdn/go-ch-insight/entity"

// Scan-volume thresholds. The medium band is inclusive on both ends, so a
// query scanning exactly 100 MB is medium, not small.
const (
	mediumScanBytesLow  = 100_000_000
	mediumScanBytesHigh = 500_000_000_000
)

// Classify maps a query's peak scan volume to its workload category.
// Total over all non-negative inputs; negative input is a caller bug
// (records are validated before they reach the pipeline).
func Classify(maxScanBytes int64) entity.WorkloadCategory {
	switch {
	case maxScanBytes < mediumScanBytesLow:
		return entity.WorkloadSmall
	case maxScanBytes <= mediumScanBytesHigh:
		return entity.WorkloadMedium
	default:
		return entity.WorkloadLarge
	}
}
