package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dori/tock/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditor_Create(t *testing.T) {
	tr, s, _ := newTestTracker()
	ctx := context.Background()

	task, err := tr.Editor().Submit(ctx, Draft{Title: "Write report", Size: "M", Tags: "urgent draft"})

	require.NoError(t, err)
	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, model.SizeM, task.Size)
	assert.Equal(t, []string{"urgent", "draft"}, task.Tags)
	assert.Empty(t, task.Spans)
	assert.False(t, task.IsInProgress())
	assert.Equal(t, t0, task.CreatedAt)
	assert.Equal(t, 1, s.Len(model.KindTask))

	board, err := tr.Board(ctx, "urg")
	require.NoError(t, err)
	assert.Equal(t, 1, board.Section(PartitionInactive).Count())
}

func TestEditor_Create_Defaults(t *testing.T) {
	tr, _, _ := newTestTracker()

	task, err := tr.Editor().Submit(context.Background(), Draft{Title: "  Groceries  ", Size: "Size"})

	require.NoError(t, err)
	assert.Equal(t, "Groceries", task.Title)
	assert.Equal(t, model.SizeNone, task.Size)
	assert.Equal(t, []string{}, task.Tags)
}

func TestEditor_Validation(t *testing.T) {
	tests := []struct {
		name      string
		draft     Draft
		wantField string
	}{
		{"empty title", Draft{Title: ""}, "title"},
		{"blank title", Draft{Title: "   "}, "title"},
		{"unknown size", Draft{Title: "x", Size: "huge"}, "size"},
		{"bad span", Draft{Title: "x", Spans: []model.TimeSpan{{Start: t0, End: ptr(t0.Add(-time.Hour))}}}, "spans"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, s, _ := newTestTracker()

			_, err := tr.Editor().Submit(context.Background(), tt.draft)

			var ve *model.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
			assert.Equal(t, 0, s.Len(model.KindTask))
		})
	}
}

func TestEditor_Edit(t *testing.T) {
	task := model.NewTask("Write report", "", model.SizeM, []string{"urgent"}, t0)
	other := model.NewTask("Other", "", model.SizeNone, nil, t0)
	tr, _, clock := newTestTracker(task, other)
	ctx := context.Background()
	clock.Advance(time.Hour)

	d := DraftFrom(task)
	d.Title = "Write final report"
	d.Size = "xl"
	d.Tags = "done"
	d.Description = "line one\nline two"
	edited, err := tr.Editor().Submit(ctx, d)
	require.NoError(t, err)

	assert.Equal(t, task.ID, edited.ID)
	assert.Equal(t, model.SizeXL, edited.Size)
	assert.Equal(t, []string{"done"}, edited.Tags)
	assert.Equal(t, t0.Add(time.Hour), edited.UpdatedAt)

	tasks, err := tr.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Write final report", tasks[0].Title)
	assert.Equal(t, "line one\nline two", tasks[0].Description)
	assert.Equal(t, "Other", tasks[1].Title)
}

func TestEditor_Edit_ReplacesSpans(t *testing.T) {
	task := model.NewTask("x", "", model.SizeNone, nil, t0)
	tr, _, _ := newTestTracker(task)

	d := DraftFrom(task)
	d.Spans = []model.TimeSpan{
		{Start: t0, End: ptr(t0.Add(time.Hour))},
		{Start: t0.Add(2 * time.Hour), End: ptr(t0.Add(3 * time.Hour))},
	}
	edited, err := tr.Editor().Submit(context.Background(), d)

	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, edited.TotalElapsed())
}

func TestEditor_Edit_InvalidLeavesStoredTask(t *testing.T) {
	task := model.NewTask("keep", "", model.SizeNone, nil, t0)
	tr, _, _ := newTestTracker(task)
	ctx := context.Background()

	d := DraftFrom(task)
	d.Title = ""
	_, err := tr.Editor().Submit(ctx, d)
	require.Error(t, err)

	got, err := tr.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Title)
}

func TestEditor_Edit_Unknown(t *testing.T) {
	tr, _, _ := newTestTracker()

	_, err := tr.Editor().Submit(context.Background(), Draft{ID: "missing", Title: "x"})

	assert.ErrorIs(t, err, model.ErrTaskNotFound)
}

func TestEditor_Create_WriteFailure(t *testing.T) {
	tr, s, _ := newTestTracker()
	s.WriteErr = errors.New("full")

	_, err := tr.Editor().Submit(context.Background(), Draft{Title: "x"})

	var pe *model.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "write", pe.Op)
}

func TestDraftFrom(t *testing.T) {
	task := model.NewTask("Write report", "desc", model.SizeM, []string{"urgent", "draft"}, t0)

	d := DraftFrom(task)

	assert.False(t, d.IsNew())
	assert.Equal(t, "M", d.Size)
	assert.Equal(t, "urgent draft", d.Tags)
	assert.NotNil(t, d.Spans)
	assert.Empty(t, d.Spans)
}

func TestDraftFrom_CopiesSpans(t *testing.T) {
	task := model.NewTask("Write report", "", model.SizeM, nil, t0)
	require.NoError(t, task.Start(t0))
	require.NoError(t, task.Stop(t0.Add(2*time.Hour)))

	d := DraftFrom(task)
	require.Len(t, d.Spans, 1)
	assert.Equal(t, t0, d.Spans[0].Start)
	require.NotNil(t, d.Spans[0].End)
	assert.Equal(t, t0.Add(2*time.Hour), *d.Spans[0].End)

	*d.Spans[0].End = t0
	assert.Equal(t, t0.Add(2*time.Hour), *task.Spans[0].End, "draft does not alias the task")
}

func ptr(t time.Time) *time.Time {
	return &t
}
