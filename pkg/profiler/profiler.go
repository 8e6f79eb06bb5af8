// Package profiler collects wall-clock timings per pipeline phase.
package profiler

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// Phase names recorded by the pipeline
const (
	PhaseLoad     = "load"
	PhaseTokenize = "tokenize"
	PhaseTrain    = "train"
	PhaseClassify = "classify"
	PhaseDocument = "classify.document"
	PhaseOutput   = "output"
)

// Profiler tracks execution times for named phases. A nil *Profiler is
// valid and records nothing.
type Profiler struct {
	mu    sync.Mutex
	times map[string][]time.Duration
}

// New creates an empty profiler
func New() *Profiler {
	return &Profiler{
		times: make(map[string][]time.Duration),
	}
}

// Timer measures one run of a phase
type Timer struct {
	profiler *Profiler
	phase    string
	start    time.Time
}

// Start begins timing phase
func (p *Profiler) Start(phase string) *Timer {
	return &Timer{profiler: p, phase: phase, start: time.Now()}
}

// Stop records the elapsed time and returns it
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	t.profiler.Record(t.phase, elapsed)
	return elapsed
}

// Record adds a measured duration for phase
func (p *Profiler) Record(phase string, d time.Duration) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.times[phase] = append(p.times[phase], d)
	p.mu.Unlock()
}

// Stats summarizes the timings of one phase
type Stats struct {
	Phase   string
	Count   int
	Total   time.Duration
	Average time.Duration
	Min     time.Duration
	Max     time.Duration
	Median  time.Duration
	P95     time.Duration
}

// Stats returns the summary for phase; Count is zero when nothing was recorded
func (p *Profiler) Stats(phase string) Stats {
	if p == nil {
		return Stats{Phase: phase}
	}

	p.mu.Lock()
	sorted := append([]time.Duration(nil), p.times[phase]...)
	p.mu.Unlock()

	if len(sorted) == 0 {
		return Stats{Phase: phase}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, d := range sorted {
		total += d
	}

	n := len(sorted)
	return Stats{
		Phase:   phase,
		Count:   n,
		Total:   total,
		Average: total / time.Duration(n),
		Min:     sorted[0],
		Max:     sorted[n-1],
		Median:  sorted[n/2],
		P95:     sorted[(n*95)/100],
	}
}

// All returns stats for every recorded phase sorted by name
func (p *Profiler) All() []Stats {
	if p == nil {
		return nil
	}

	p.mu.Lock()
	phases := make([]string, 0, len(p.times))
	for phase := range p.times {
		phases = append(phases, phase)
	}
	p.mu.Unlock()

	sort.Strings(phases)
	stats := make([]Stats, 0, len(phases))
	for _, phase := range phases {
		stats = append(stats, p.Stats(phase))
	}
	return stats
}

// Report writes a timing table to w
func (p *Profiler) Report(w io.Writer) {
	stats := p.All()
	if len(stats) == 0 {
		fmt.Fprintln(w, "No timing data available")
		return
	}

	fmt.Fprintf(w, "⏱️  Phase Timings\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "%-18s %8s %10s %9s %9s %9s %9s\n",
		"Phase", "Count", "Total", "Avg", "Min", "Max", "P95")
	fmt.Fprintf(w, "───────────────────────────────────────────────────────────────\n")
	for _, s := range stats {
		fmt.Fprintf(w, "%-18s %8d %10s %9s %9s %9s %9s\n",
			truncate(s.Phase, 18), s.Count,
			formatDuration(s.Total), formatDuration(s.Average),
			formatDuration(s.Min), formatDuration(s.Max), formatDuration(s.P95))
	}
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════════\n")
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1e3)
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	default:
		return fmt.Sprintf("%.3fs", d.Seconds())
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
