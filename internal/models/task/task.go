package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Task struct {
	UUID             uuid.UUID         `json:"uuid" db:"uuid"`
	Content          string            `json:"content" db:"content"`
	Description      string            `json:"description" db:"description"`
	ProjectID        *uuid.UUID        `json:"project_id,omitempty" db:"project_id"`
	Priority         Priority          `json:"priority,omitempty" db:"priority"`
	Labels           []string          `json:"labels" db:"labels"`
	DueDate          *time.Time        `json:"due_date,omitempty" db:"due_date"`
	Duration         *int              `json:"duration,omitempty" db:"duration"`
	RecurringPattern *RecurringPattern `json:"recurring_pattern,omitempty" db:"recurring_pattern"`
	ParentTaskID     *uuid.UUID        `json:"parent_task_id,omitempty" db:"parent_task_id"`
	Order            int               `json:"order" db:"sort_order"`
	Completed        bool              `json:"completed" db:"completed"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt        time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt        *time.Time        `json:"updated_at,omitempty" db:"updated_at,omitempty"`
	Version          int               `db:"version" json:"version"`
}

type Priority string

const PriorityNone Priority = ""
const PriorityP1 Priority = "p1"
const PriorityP2 Priority = "p2"
const PriorityP3 Priority = "p3"
const PriorityP4 Priority = "p4"

// ParsePriority принимает p1..p4 в любом регистре
func ParsePriority(value string) (Priority, bool) {
	switch Priority(strings.ToLower(strings.TrimSpace(value))) {
	case PriorityP1:
		return PriorityP1, true
	case PriorityP2:
		return PriorityP2, true
	case PriorityP3:
		return PriorityP3, true
	case PriorityP4:
		return PriorityP4, true
	}
	return PriorityNone, false
}

func (t *Task) IsSubtask() bool {
	return t.ParentTaskID != nil
}

func (t *Task) IsRecurring() bool {
	return t.RecurringPattern != nil
}

// Clone копирует задачу вместе со срезами и указателями,
// чтобы хранилище не отдавало наружу свои данные
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.Labels != nil {
		c.Labels = append([]string(nil), t.Labels...)
	}
	c.ProjectID = cloneUUID(t.ProjectID)
	c.ParentTaskID = cloneUUID(t.ParentTaskID)
	c.DueDate = cloneTime(t.DueDate)
	c.CompletedAt = cloneTime(t.CompletedAt)
	c.UpdatedAt = cloneTime(t.UpdatedAt)
	if t.Duration != nil {
		d := *t.Duration
		c.Duration = &d
	}
	if t.RecurringPattern != nil {
		p := t.RecurringPattern.Clone()
		c.RecurringPattern = &p
	}
	return &c
}

func cloneUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
