package app

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler keeps the latest CPU time of named scopes and counters that
// accumulate until the next summary.
type Profiler struct {
	Scopes     map[string]time.Duration
	StartTimes map[string]time.Time
	Counts     map[string]int
	Order      []string

	now         func() time.Time
	windowStart time.Time
}

func NewProfiler() *Profiler {
	return newProfilerWithClock(time.Now)
}

func newProfilerWithClock(now func() time.Time) *Profiler {
	return &Profiler{
		Scopes:      make(map[string]time.Duration),
		StartTimes:  make(map[string]time.Time),
		Counts:      make(map[string]int),
		Order:       make([]string, 0),
		now:         now,
		windowStart: now(),
	}
}

func (p *Profiler) BeginScope(name string) {
	p.StartTimes[name] = p.now()
	if _, seen := p.Scopes[name]; !seen {
		p.Order = append(p.Order, name)
		p.Scopes[name] = 0
	}
}

func (p *Profiler) EndScope(name string) {
	if start, ok := p.StartTimes[name]; ok {
		p.Scopes[name] = p.now().Sub(start)
	}
}

func (p *Profiler) Inc(name string) {
	p.Counts[name]++
}

// Due reports whether interval has passed since the last Summary.
func (p *Profiler) Due(interval time.Duration) bool {
	return p.now().Sub(p.windowStart) >= interval
}

// Summary formats one line of timings and counters, then starts a new
// counting window.
func (p *Profiler) Summary() string {
	var sb strings.Builder
	elapsed := p.now().Sub(p.windowStart)
	fmt.Fprintf(&sb, "%.1fs", elapsed.Seconds())

	for _, name := range p.Order {
		ms := float64(p.Scopes[name].Microseconds()) / 1000.0
		fmt.Fprintf(&sb, " %s=%.2fms", name, ms)
	}

	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%d", k, p.Counts[k])
	}

	for k := range p.Counts {
		delete(p.Counts, k)
	}
	p.windowStart = p.now()
	return sb.String()
}
