package tracker

import (
	"context"
	"strings"
	"time"

	"github.com/dori/tock/internal/model"
	"go.uber.org/zap"
)

// Draft is raw editor input. An empty ID creates a task, otherwise the
// task with that ID is edited. Nil Spans leaves the spans untouched.
type Draft struct {
	ID          string
	Title       string
	Description string
	Size        string
	Tags        string
	Spans       []model.TimeSpan
}

// DraftFrom fills a draft with a task's current values. Spans are
// copied and never nil, so submitting it unchanged keeps them as they are.
func DraftFrom(t *model.Task) Draft {
	return Draft{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Size:        t.Size.String(),
		Tags:        model.JoinTags(t.Tags),
		Spans:       t.Clone().Spans,
	}
}

// IsNew reports whether submitting the draft creates a task
func (d Draft) IsNew() bool {
	return d.ID == ""
}

// Editor validates drafts and persists them
type Editor struct {
	tracker *Tracker
}

// Submit validates the draft and writes the result. Nothing is stored
// when validation fails.
func (e *Editor) Submit(ctx context.Context, d Draft) (*model.Task, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return nil, &model.ValidationError{Field: "title", Message: "cannot be empty"}
	}
	size, err := model.ParseSize(d.Size)
	if err != nil {
		return nil, err
	}
	tags := model.ParseTags(d.Tags)

	if d.IsNew() {
		return e.create(ctx, title, d.Description, size, tags, d.Spans)
	}
	return e.edit(ctx, d.ID, title, d.Description, size, tags, d.Spans)
}

func (e *Editor) create(ctx context.Context, title, desc string, size model.Size, tags []string, spans []model.TimeSpan) (*model.Task, error) {
	t := e.tracker
	task := model.NewTask(title, desc, size, tags, t.clock.Now())
	if spans != nil {
		if err := task.ReplaceSpans(spans); err != nil {
			return nil, err
		}
	}

	if err := t.store.Write(ctx, model.KindTask, task); err != nil {
		return nil, t.persistenceErr("write", err)
	}
	t.logger.Info("task created", zap.String("task_id", task.ID), zap.String("size", task.Size.String()))
	return task, nil
}

func (e *Editor) edit(ctx context.Context, id, title, desc string, size model.Size, tags []string, spans []model.TimeSpan) (*model.Task, error) {
	task, err := e.tracker.mutate(ctx, id, func(task *model.Task, _ time.Time) error {
		if spans != nil {
			if err := task.ReplaceSpans(spans); err != nil {
				return err
			}
		}
		task.SetTitle(title)
		task.SetDescription(desc)
		task.SetSize(size)
		task.SetTags(tags)
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.tracker.logger.Info("task edited", zap.String("task_id", task.ID))
	return task, nil
}
