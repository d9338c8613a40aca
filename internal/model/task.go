package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// KindTask is the entity key tasks are stored under
const KindTask = "task"

// Task represents a unit of trackable work
type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Size        Size       `json:"size" yaml:"size"`
	Tags        []string   `json:"tags" yaml:"tags"`
	Spans       []TimeSpan `json:"spans" yaml:"spans"`
	Archived    bool       `json:"archived" yaml:"archived"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" yaml:"updated_at"`
}

// NewTask creates a task with a fresh id and no time spans
func NewTask(title, description string, size Size, tags []string, now time.Time) *Task {
	if size == "" {
		size = SizeNone
	}
	t := &Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Size:        size,
		Spans:       []TimeSpan{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	t.SetTags(tags)
	return t
}

// IsInProgress returns true if the last time span is still open
func (t *Task) IsInProgress() bool {
	if len(t.Spans) == 0 {
		return false
	}
	return t.Spans[len(t.Spans)-1].IsRunning()
}

// IsArchived returns the explicit archived flag
func (t *Task) IsArchived() bool {
	return t.Archived
}

// TotalElapsed sums closed spans. A running span contributes nothing.
func (t *Task) TotalElapsed() time.Duration {
	var total time.Duration
	for _, span := range t.Spans {
		total += span.Duration()
	}
	return total
}

// RunningFor returns how long the open span has been running at now
func (t *Task) RunningFor(now time.Time) time.Duration {
	if !t.IsInProgress() {
		return 0
	}
	d := now.Sub(t.Spans[len(t.Spans)-1].Start)
	if d < 0 {
		return 0
	}
	return d
}

// Start opens a new time span at the given instant
func (t *Task) Start(at time.Time) error {
	if t.Archived {
		return &InvalidStateError{TaskID: t.ID, Op: "start", Err: ErrArchived}
	}
	if t.IsInProgress() {
		return &InvalidStateError{TaskID: t.ID, Op: "start", Err: ErrAlreadyRunning}
	}
	t.Spans = append(t.Spans, TimeSpan{Start: at})
	return nil
}

// Stop closes the open time span at the given instant
func (t *Task) Stop(at time.Time) error {
	if !t.IsInProgress() {
		return &InvalidStateError{TaskID: t.ID, Op: "stop", Err: ErrNotRunning}
	}
	last := &t.Spans[len(t.Spans)-1]
	if at.Before(last.Start) {
		return &ValidationError{Field: "end", Message: "stop time is before start time"}
	}
	last.End = &at
	return nil
}

// Archive marks the task archived. A running task must be stopped first.
func (t *Task) Archive() error {
	if t.IsInProgress() {
		return &InvalidStateError{TaskID: t.ID, Op: "archive", Err: ErrInProgress}
	}
	t.Archived = true
	return nil
}

// Unarchive clears the archived flag
func (t *Task) Unarchive() error {
	if !t.Archived {
		return &InvalidStateError{TaskID: t.ID, Op: "unarchive", Err: ErrNotArchived}
	}
	t.Archived = false
	return nil
}

// SetTitle replaces the title
func (t *Task) SetTitle(title string) {
	t.Title = title
}

// SetDescription replaces the description
func (t *Task) SetDescription(description string) {
	t.Description = description
}

// SetSize replaces the size, mapping the empty value to the sentinel
func (t *Task) SetSize(size Size) {
	if size == "" {
		size = SizeNone
	}
	t.Size = size
}

// SetTags replaces the tags with a copy of the given slice
func (t *Task) SetTags(tags []string) {
	t.Tags = append([]string{}, tags...)
}

// ReplaceSpans validates and installs an edited span sequence.
// Only the last span may be open.
func (t *Task) ReplaceSpans(spans []TimeSpan) error {
	for i, span := range spans {
		if err := span.Validate(); err != nil {
			return err
		}
		if span.IsRunning() && i != len(spans)-1 {
			return &ValidationError{Field: "spans", Message: "only the last time span may be open"}
		}
	}
	if t.Archived && len(spans) > 0 && spans[len(spans)-1].IsRunning() {
		return &InvalidStateError{TaskID: t.ID, Op: "edit spans of", Err: ErrArchived}
	}
	t.Spans = make([]TimeSpan, 0, len(spans))
	for _, span := range spans {
		t.Spans = append(t.Spans, span.clone())
	}
	return nil
}

// Clone returns a deep copy so snapshots never alias stored state
func (t *Task) Clone() *Task {
	c := *t
	c.Tags = append([]string{}, t.Tags...)
	c.Spans = make([]TimeSpan, 0, len(t.Spans))
	for _, span := range t.Spans {
		c.Spans = append(c.Spans, span.clone())
	}
	return &c
}

// Matches returns true if query is a case-insensitive substring of the
// title or of any tag. An empty query matches everything.
func (t *Task) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	return HasTagContaining(t.Tags, q)
}

// ShortID returns the first eight characters of an id for display
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
