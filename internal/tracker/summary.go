package tracker

import (
	"time"

	"github.com/dori/tock/internal/model"
)

// TaskHours is one summary line
type TaskHours struct {
	ID         string
	Title      string
	Size       model.Size
	Elapsed    time.Duration
	Hours      int
	InProgress bool
	Archived   bool
}

// SizeTotal aggregates tracked time for one size label
type SizeTotal struct {
	Size    model.Size
	Tasks   int
	Elapsed time.Duration
}

// Hours returns the whole hours tracked for the size
func (s SizeTotal) Hours() int {
	return WholeHours(s.Elapsed)
}

// Stats are board-wide counters
type Stats struct {
	Tasks    int
	Active   int
	Inactive int
	Archived int
	Total    time.Duration
	Top      *TaskHours // most tracked time, nil when nothing is tracked
}

// Summary is a read-only report computed from a fresh read of all tasks
type Summary struct {
	Tasks []TaskHours
	Sizes []SizeTotal
	Stats Stats
}

// WholeHours truncates a duration to whole hours
func WholeHours(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Hour)
}

// Summarize builds a Summary. Only closed spans count toward totals.
func Summarize(tasks []model.Task) Summary {
	order := append(model.Sizes(), model.SizeNone)
	bySize := make(map[model.Size]*SizeTotal, len(order))
	for _, size := range order {
		bySize[size] = &SizeTotal{Size: size}
	}

	var sum Summary
	sum.Tasks = make([]TaskHours, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		elapsed := t.TotalElapsed()
		line := TaskHours{
			ID:         t.ID,
			Title:      t.Title,
			Size:       t.Size,
			Elapsed:    elapsed,
			Hours:      WholeHours(elapsed),
			InProgress: t.IsInProgress(),
			Archived:   t.IsArchived(),
		}
		sum.Tasks = append(sum.Tasks, line)

		size := t.Size
		if _, ok := bySize[size]; !ok {
			size = model.SizeNone
		}
		bySize[size].Tasks++
		bySize[size].Elapsed += elapsed

		sum.Stats.Tasks++
		sum.Stats.Total += elapsed
		switch PartitionOf(t) {
		case PartitionActive:
			sum.Stats.Active++
		case PartitionArchived:
			sum.Stats.Archived++
		default:
			sum.Stats.Inactive++
		}
	}

	for i := range sum.Tasks {
		line := sum.Tasks[i]
		if line.Elapsed > 0 && (sum.Stats.Top == nil || line.Elapsed > sum.Stats.Top.Elapsed) {
			sum.Stats.Top = &line
		}
	}

	for _, size := range order {
		sum.Sizes = append(sum.Sizes, *bySize[size])
	}
	return sum
}
