// Package planning implements the study plan: user tasks, their lifecycle
// and the statistics derived from them.
package planning

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Plan is the ordered task collection, newest first.
type Plan struct {
	Tasks []Task `json:"tasks"`
}

// NewPlan returns an empty plan.
func NewPlan() *Plan {
	return &Plan{Tasks: []Task{}}
}

// Add validates the draft and inserts the task at the front.
func (p *Plan) Add(d Draft, now time.Time) (Task, error) {
	if err := d.Validate(); err != nil {
		return Task{}, err
	}
	if d.ID != "" && p.index(d.ID) >= 0 {
		return Task{}, fmt.Errorf("%w: %s", ErrDuplicateTask, d.ID)
	}

	task := Task{
		ID:         d.ID,
		Title:      strings.TrimSpace(d.Title),
		Stage:      d.Stage,
		DueDate:    d.DueDate,
		Done:       d.Done,
		LinkedType: d.LinkedType,
		LinkedID:   d.LinkedID,
		Note:       d.Note,
		CreatedAt:  now,
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Done {
		completed := now
		task.CompletedAt = &completed
	}

	p.Tasks = slices.Insert(p.Tasks, 0, task)
	return task, nil
}

// Update applies a partial edit. Unknown ids are ignored; found reports
// whether a task was changed.
func (p *Plan) Update(id string, c Changes, now time.Time) (found bool, err error) {
	if err := c.Validate(); err != nil {
		return false, err
	}
	i := p.index(id)
	if i < 0 {
		return false, nil
	}

	t := &p.Tasks[i]
	if c.Title != nil {
		t.Title = strings.TrimSpace(*c.Title)
	}
	if c.Stage != nil {
		t.Stage = *c.Stage
	}
	if c.DueDate != nil {
		t.DueDate = *c.DueDate
	}
	if c.LinkedType != nil {
		t.LinkedType = *c.LinkedType
	}
	if c.LinkedID != nil {
		t.LinkedID = *c.LinkedID
	}
	if c.Note != nil {
		t.Note = *c.Note
	}
	if c.Done != nil && *c.Done != t.Done {
		setDone(t, *c.Done, now)
	}
	return true, nil
}

// ToggleDone flips the done flag through the task state machine.
func (p *Plan) ToggleDone(id string, now time.Time) (Task, bool, error) {
	i := p.index(id)
	if i < 0 {
		return Task{}, false, nil
	}

	t := &p.Tasks[i]
	fsm, err := NewTaskStateMachine(*t)
	if err != nil {
		return Task{}, true, err
	}
	if err := fsm.Toggle(); err != nil {
		return Task{}, true, err
	}
	setDone(t, fsm.IsDone(), now)
	return *t, true, nil
}

// Remove deletes a task; it reports whether one was removed.
func (p *Plan) Remove(id string) bool {
	i := p.index(id)
	if i < 0 {
		return false
	}
	p.Tasks = slices.Delete(p.Tasks, i, i+1)
	return true
}

// Find returns the task with the given id.
func (p *Plan) Find(id string) (Task, bool) {
	i := p.index(id)
	if i < 0 {
		return Task{}, false
	}
	return p.Tasks[i], true
}

// FindLinked returns the first task linked to the given catalog item.
func (p *Plan) FindLinked(linkType LinkType, linkedID string) (Task, bool) {
	for _, t := range p.Tasks {
		if t.LinkedType == linkType && t.LinkedID == linkedID {
			return t, true
		}
	}
	return Task{}, false
}

func (p *Plan) index(id string) int {
	return slices.IndexFunc(p.Tasks, func(t Task) bool { return t.ID == id })
}

// setDone keeps completedAt non-nil exactly when the task is done.
func setDone(t *Task, done bool, now time.Time) {
	t.Done = done
	if done {
		completed := now
		t.CompletedAt = &completed
		return
	}
	t.CompletedAt = nil
}
