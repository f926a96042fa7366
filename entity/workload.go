package entity

// WorkloadCategory classifies a query by the volume of data it scanned,
// used as a coarse resource-impact proxy.
type WorkloadCategory string

const (
	WorkloadSmall  WorkloadCategory = "small"
	WorkloadMedium WorkloadCategory = "medium"
	WorkloadLarge  WorkloadCategory = "large"
)

// WorkloadCategories lists every category in report order. Reports always
// cover all three, with zero stats for categories absent from the window.
var WorkloadCategories = []WorkloadCategory{WorkloadSmall, WorkloadMedium, WorkloadLarge}
