// Package prof collects coarse wall-clock timings for the demo binaries.
// Call sites defer Track(time.Now(), "label") around the operations they
// want measured and read the results back with SnapshotAndReset.
package prof

import (
	"sync"
	"time"
)

// Entry is a single timing measurement.
type Entry struct {
	Label string
	Dur   time.Duration
}

// Stat aggregates the entries sharing one label.
type Stat struct {
	Label string
	Count int
	Total time.Duration
}

// Mean returns the average duration per entry.
func (s Stat) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

var (
	mu     sync.Mutex
	record []Entry
)

// Track logs the duration since start under the given label.
func Track(start time.Time, label string) {
	elapsed := time.Since(start)
	mu.Lock()
	record = append(record, Entry{Label: label, Dur: elapsed})
	mu.Unlock()
}

// SnapshotAndReset returns the collected entries and clears them.
func SnapshotAndReset() []Entry {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Entry, len(record))
	copy(out, record)
	record = nil
	return out
}

// Summarize folds entries into per-label statistics, in first-seen order.
func Summarize(entries []Entry) []Stat {
	idx := make(map[string]int)
	var stats []Stat
	for _, e := range entries {
		i, ok := idx[e.Label]
		if !ok {
			i = len(stats)
			idx[e.Label] = i
			stats = append(stats, Stat{Label: e.Label})
		}
		stats[i].Count++
		stats[i].Total += e.Dur
	}
	return stats
}
