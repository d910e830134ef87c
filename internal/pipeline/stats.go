package pipeline

import "time"

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	Total     int
	Current   int
	Succeeded int
	Failed    int
	Skipped   int
	Elapsed   time.Duration
}

// OK reports whether every job in the batch ran and succeeded.
func (s *RunStats) OK() bool {
	return s.Failed == 0 && s.Skipped == 0 && s.Succeeded == s.Total
}
