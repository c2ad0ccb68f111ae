package usecase

import (
	"context"
	"sort"
	"time"
)

// ReadinessCheck represents a single readiness probe result used by handlers.
type ReadinessCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Details string `json:"details,omitempty"`
}

// Probe checks one dependency.
type Probe func(ctx context.Context) error

// ReadinessService runs the configured probes. Dependencies that are not
// configured are simply absent from Probes.
type ReadinessService struct {
	Probes  map[string]Probe
	Timeout time.Duration
}

// Check runs every probe, sorted by name, and reports whether all passed.
func (s ReadinessService) Check(ctx context.Context) ([]ReadinessCheck, bool) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	names := make([]string, 0, len(s.Probes))
	for n := range s.Probes {
		names = append(names, n)
	}
	sort.Strings(names)

	checks := make([]ReadinessCheck, 0, len(names))
	ok := true
	for _, n := range names {
		c := ReadinessCheck{Name: n, OK: true}
		if err := s.Probes[n](ctx); err != nil {
			c.OK, c.Details = false, err.Error()
			ok = false
		}
		checks = append(checks, c)
	}
	return checks, ok
}
