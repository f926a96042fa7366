package analyzer

import (
	"time"

	"github.com/rahmatrdn/go-ch-insight/entity"
)

// TimeBucket is a half-open interval [Start, End) used to discretize query
// execution spans for utilization accounting.
type TimeBucket struct {
	Start time.Time
	End   time.Time
}

// GenerateBuckets covers [windowStart, windowEnd) with contiguous
// fixed-width buckets, including buckets no query ever touches: empty
// buckets still count toward the utilization denominator. Pure function of
// its arguments; repeated calls yield identical results.
func GenerateBuckets(windowStart, windowEnd time.Time, width time.Duration) []TimeBucket {
	if width <= 0 || !windowEnd.After(windowStart) {
		return nil
	}

	n := int(windowEnd.Sub(windowStart) / width)
	if windowStart.Add(time.Duration(n) * width).Before(windowEnd) {
		n++ // partial trailing bucket
	}

	buckets := make([]TimeBucket, 0, n)
	for cur := windowStart; cur.Before(windowEnd); cur = cur.Add(width) {
		buckets = append(buckets, TimeBucket{Start: cur, End: cur.Add(width)})
	}
	return buckets
}

// Overlaps reports whether the record's active span touches this bucket.
//
// The predicate is three explicit clauses, not a plain range-intersection
// test: the record starts inside the bucket, ends inside it, or fully
// spans it. The boundaries are asymmetric on purpose: a record starting
// exactly at End is excluded (half-open start check), while a record
// ending exactly at a boundary inside [Start, End) is counted.
func (b TimeBucket) Overlaps(r entity.QueryRecord) bool {
	startInside := !r.StartTime.Before(b.Start) && r.StartTime.Before(b.End)
	endInside := !r.EndTime.Before(b.Start) && r.EndTime.Before(b.End)
	spans := r.StartTime.Before(b.Start) && r.EndTime.After(b.End)
	return startInside || endInside || spans
}

// OverlappingBuckets returns the indexes of every bucket the record
// overlaps. Buckets are ordered and contiguous, so the scan short-circuits
// once it has passed the record's end.
func OverlappingBuckets(r entity.QueryRecord, buckets []TimeBucket) []int {
	var idx []int
	for i, b := range buckets {
		if b.Start.After(r.EndTime) {
			break
		}
		if b.Overlaps(r) {
			idx = append(idx, i)
		}
	}
	return idx
}
