// Package profiling accumulates per-tick timing for the pipeline's named
// stages (generation harvest, chunk fill, eviction, lighting drain, mesh
// rebuild) so a HUD or log line can show where a slow frame went.
package profiling

import (
	"maps"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	mu     sync.Mutex
	totals = make(map[string]time.Duration)
)

// Track starts a timer under name and returns a stop function that records
// the elapsed duration. Usage: defer profiling.Track("pipeline.Tick")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		mu.Lock()
		totals[name] += elapsed
		mu.Unlock()
	}
}

// Add records an arbitrary duration under name, for callers timing
// something Track's closure shape doesn't fit.
func Add(name string, d time.Duration) {
	if d <= 0 {
		return
	}
	mu.Lock()
	totals[name] += d
	mu.Unlock()
}

// ResetFrame clears the accumulated totals; call once per tick before the
// pipeline stages run so each frame's numbers don't bleed into the next.
func ResetFrame() {
	mu.Lock()
	for k := range totals {
		delete(totals, k)
	}
	mu.Unlock()
}

// Snapshot returns a copy of the current totals, safe to read without
// holding the package lock.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(totals))
	maps.Copy(out, totals)
	return out
}

// Total sums every tracked duration in the current frame.
func Total() time.Duration {
	var sum time.Duration
	for _, v := range Snapshot() {
		sum += v
	}
	return sum
}

// SumWithPrefix sums the durations of every tracked name starting with one
// of prefixes, e.g. SumWithPrefix("pipeline.") to isolate one subsystem.
func SumWithPrefix(prefixes ...string) time.Duration {
	var sum time.Duration
	for name, d := range Snapshot() {
		for _, p := range prefixes {
			if strings.HasPrefix(name, p) {
				sum += d
				break
			}
		}
	}
	return sum
}

type namedDuration struct {
	name string
	dur  time.Duration
}

// TopN renders the n slowest tracked stages this frame as
// "name:1.2ms, name:0.4ms", slowest first.
func TopN(n int) string {
	mu.Lock()
	list := make([]namedDuration, 0, len(totals))
	for name, d := range totals {
		list = append(list, namedDuration{name, d})
	}
	mu.Unlock()

	sort.Slice(list, func(i, j int) bool { return list[i].dur > list[j].dur })
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = list[i].name + ":" + formatMillis(list[i].dur)
	}
	return strings.Join(parts, ", ")
}

func formatMillis(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	return strconv.FormatFloat(ms, 'f', 1, 64) + "ms"
}
