package board

import (
	"slices"
	"sync"

	"github.com/colonyops/matrix/internal/core/task"
)

// Sequence is the ordered, read-only list of tasks in one quadrant.
type Sequence struct {
	quadrant task.Quadrant
	tasks    []task.Task
}

// Quadrant returns the quadrant the sequence belongs to.
func (s *Sequence) Quadrant() task.Quadrant { return s.quadrant }

// Len returns the number of tasks.
func (s *Sequence) Len() int { return len(s.tasks) }

// At returns the task at index i.
func (s *Sequence) At(i int) task.Task { return s.tasks[i].Clone() }

// Tasks returns a copy of the ordered tasks.
func (s *Sequence) Tasks() []task.Task { return task.CloneAll(s.tasks) }

// IDs returns the ordered task ids.
func (s *Sequence) IDs() []string {
	ids := make([]string, len(s.tasks))
	for i, t := range s.tasks {
		ids[i] = t.ID
	}
	return ids
}

// IndexOf returns the position of id, or -1.
func (s *Sequence) IndexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t task.Task) bool { return t.ID == id })
}

func (s *Sequence) equalTasks(tasks []task.Task) bool {
	return slices.EqualFunc(s.tasks, tasks, task.Task.Equal)
}

// Projection holds one sequence per quadrant.
type Projection struct {
	sequences map[task.Quadrant]*Sequence
}

// Sequence returns the sequence for q. Unknown quadrants get an empty
// sequence.
func (p Projection) Sequence(q task.Quadrant) *Sequence {
	if seq, ok := p.sequences[q]; ok {
		return seq
	}
	return &Sequence{quadrant: q}
}

// Len returns the total number of projected tasks.
func (p Projection) Len() int {
	n := 0
	for _, seq := range p.sequences {
		n += seq.Len()
	}
	return n
}

// Projector splits a collection into per-quadrant sequences. A quadrant
// whose ordered contents did not change since the previous projection keeps
// the same *Sequence, so consumers can compare pointers to skip redraws.
type Projector struct {
	mu   sync.RWMutex
	last Projection
}

// NewProjector returns a projector with an empty projection.
func NewProjector() *Projector {
	p := &Projector{}
	p.last = p.Project(nil)
	return p
}

// Project builds the projection for tasks in collection order.
func (p *Projector) Project(tasks []task.Task) Projection {
	grouped := make(map[task.Quadrant][]task.Task, len(task.Quadrants()))
	for _, t := range tasks {
		grouped[t.Quadrant] = append(grouped[t.Quadrant], t)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	next := Projection{sequences: make(map[task.Quadrant]*Sequence, len(task.Quadrants()))}
	for _, q := range task.Quadrants() {
		items := grouped[q]
		if prev, ok := p.last.sequences[q]; ok && prev.equalTasks(items) {
			next.sequences[q] = prev
			continue
		}
		next.sequences[q] = &Sequence{quadrant: q, tasks: task.CloneAll(items)}
	}

	p.last = next
	return next
}

// Current returns the latest projection.
func (p *Projector) Current() Projection {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// Attach projects the store's collection now and again after every change.
// It returns the function that detaches the projector.
func (p *Projector) Attach(s *Store) (detach func()) {
	p.Project(s.Snapshot())
	return s.Subscribe(func(tasks []task.Task) {
		p.Project(tasks)
	})
}
