package tracker

import (
	"github.com/dori/tock/internal/model"
)

// Partition is one of the three disjoint task groups shown in the list
type Partition int

const (
	PartitionActive Partition = iota
	PartitionInactive
	PartitionArchived
)

// Partitions returns the partitions in display order
func Partitions() []Partition {
	return []Partition{PartitionActive, PartitionInactive, PartitionArchived}
}

func (p Partition) String() string {
	switch p {
	case PartitionActive:
		return "Active"
	case PartitionInactive:
		return "Inactive"
	case PartitionArchived:
		return "Archived"
	default:
		return "Unknown"
	}
}

// PartitionOf places a task in exactly one partition.
// A running task is Active even if it is flagged archived.
func PartitionOf(t *model.Task) Partition {
	if t.IsInProgress() {
		return PartitionActive
	}
	if t.IsArchived() {
		return PartitionArchived
	}
	return PartitionInactive
}

// Filter returns the tasks whose title or tags contain query, ignoring case.
// The input slice is never modified.
func Filter(tasks []model.Task, query string) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for i := range tasks {
		if tasks[i].Matches(query) {
			out = append(out, tasks[i])
		}
	}
	return out
}

// Section is one partition of the board after filtering
type Section struct {
	Partition Partition
	Tasks     []model.Task
}

// Name returns the section header label
func (s Section) Name() string {
	return s.Partition.String()
}

// Count returns the number of tasks shown in the section
func (s Section) Count() int {
	return len(s.Tasks)
}

// Board holds the partitioned and filtered view of every task
type Board struct {
	Query    string
	Sections []Section
}

// BuildBoard partitions a snapshot of tasks and filters each partition.
// Order within a section follows the input order.
func BuildBoard(tasks []model.Task, query string) Board {
	grouped := make(map[Partition][]model.Task, 3)
	for i := range tasks {
		p := PartitionOf(&tasks[i])
		grouped[p] = append(grouped[p], *tasks[i].Clone())
	}

	b := Board{Query: query}
	for _, p := range Partitions() {
		b.Sections = append(b.Sections, Section{
			Partition: p,
			Tasks:     Filter(grouped[p], query),
		})
	}
	return b
}

// Section returns the section for a partition
func (b Board) Section(p Partition) Section {
	for _, s := range b.Sections {
		if s.Partition == p {
			return s
		}
	}
	return Section{Partition: p}
}

// Total returns the number of tasks across all sections
func (b Board) Total() int {
	n := 0
	for _, s := range b.Sections {
		n += s.Count()
	}
	return n
}
