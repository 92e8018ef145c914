package audit

// Stats aggregates journal entries.
type Stats struct {
	Total         int            `json:"total"`
	ByKind        map[string]int `json:"by_kind"`
	ByStatus      map[string]int `json:"by_status"`
	AvgDurationMs float64        `json:"avg_duration_ms"`
	// LastFailures holds up to five of the most recent failed inputs, newest first.
	LastFailures []string `json:"last_failures,omitempty"`
}

// Summarize aggregates entries. Skipped entries count toward ByStatus but
// not toward the average duration.
func Summarize(entries []Entry) *Stats {
	stats := &Stats{ByKind: make(map[string]int), ByStatus: make(map[string]int)}

	var totalDuration int64
	timed := 0
	for _, e := range entries {
		stats.Total++
		if e.Kind != "" {
			stats.ByKind[e.Kind]++
		}
		stats.ByStatus[e.Status]++
		if e.Status != "skipped" {
			totalDuration += e.DurationMs
			timed++
		}
	}
	if timed > 0 {
		stats.AvgDurationMs = float64(totalDuration) / float64(timed)
	}

	for i := len(entries) - 1; i >= 0 && len(stats.LastFailures) < 5; i-- {
		if entries[i].Status == "error" {
			stats.LastFailures = append(stats.LastFailures, entries[i].Input)
		}
	}
	return stats
}
