package model

import (
	"time"
)

// TimeSpan is one period of active work on a task.
// A nil End means the span is still running.
type TimeSpan struct {
	Start time.Time  `json:"start" yaml:"start"`
	End   *time.Time `json:"end,omitempty" yaml:"end,omitempty"`
}

// IsRunning returns true if this span has not been closed
func (s TimeSpan) IsRunning() bool {
	return s.End == nil
}

// Duration returns the length of a closed span, or zero while running
func (s TimeSpan) Duration() time.Duration {
	if s.End == nil {
		return 0
	}
	d := s.End.Sub(s.Start)
	if d < 0 {
		return 0
	}
	return d
}

// Validate checks the end >= start invariant
func (s TimeSpan) Validate() error {
	if s.Start.IsZero() {
		return &ValidationError{Field: "spans", Message: "start time is required"}
	}
	if s.End != nil && s.End.Before(s.Start) {
		return &ValidationError{Field: "spans", Message: "end time is before start time"}
	}
	return nil
}

func (s TimeSpan) clone() TimeSpan {
	c := TimeSpan{Start: s.Start}
	if s.End != nil {
		end := *s.End
		c.End = &end
	}
	return c
}
