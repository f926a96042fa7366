package analyzer

import (
	"fmt"

	"github.com/rahmatrdn/go-ch-insight/entity"
)

// MalformedRecordError reports records that violate source invariants.
// It carries every offending query ID so the caller can audit them.
type MalformedRecordError struct {
	Rejected []entity.RejectedRecord
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("analyzer: %d malformed query record(s) rejected", len(e.Rejected))
}

// IncompleteDataError signals that category statistics and daily
// utilization were computed over disjoint category sets. It should never
// occur with the shared category enumeration; it is an invariant guard,
// fatal for the report being assembled only.
type IncompleteDataError struct {
	StatsCategories       []entity.WorkloadCategory
	UtilizationCategories []entity.WorkloadCategory
}

func (e *IncompleteDataError) Error() string {
	return fmt.Sprintf("analyzer: category stats %v and daily utilization %v cover disjoint category sets",
		e.StatsCategories, e.UtilizationCategories)
}
