package analyzer

import "time"

// Window is the analysis time span, half-open [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// TrailingWindow returns the trailing n-day window ending at now,
// normalized to UTC and truncated to whole minutes so the window aligns
// with bucket boundaries.
func TrailingWindow(now time.Time, days int) Window {
	end := now.UTC().Truncate(time.Minute)
	return Window{
		Start: end.AddDate(0, 0, -days),
		End:   end,
	}
}
