package tracker

import (
	"context"
	"time"

	"github.com/dori/tock/internal/model"
)

// ExportVersion is the document format version written by Export
const ExportVersion = 1

// Export is a full dump of every task, ready for JSON or YAML encoding
type Export struct {
	Version    int          `json:"version" yaml:"version"`
	ExportedAt time.Time    `json:"exported_at" yaml:"exported_at"`
	Tasks      []model.Task `json:"tasks" yaml:"tasks"`
}

// Export reads every task into an Export document
func (t *Tracker) Export(ctx context.Context) (*Export, error) {
	tasks, err := t.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	return &Export{
		Version:    ExportVersion,
		ExportedAt: t.clock.Now(),
		Tasks:      tasks,
	}, nil
}
