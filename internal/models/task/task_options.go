package task

import (
	"time"

	"github.com/google/uuid"
)

type TaskOption func(*Task)

func WithContent(content string) TaskOption {
	if content == "" {
		return nil
	}
	return func(task *Task) {
		task.Content = content
	}
}

func WithDescription(description string) TaskOption {
	return func(task *Task) {
		task.Description = description
	}
}

func WithPriority(priority Priority) TaskOption {
	return func(task *Task) {
		task.Priority = priority
	}
}

func WithLabels(labels []string) TaskOption {
	return func(task *Task) {
		task.Labels = append([]string(nil), labels...)
	}
}

func WithDueDate(dueDate *time.Time) TaskOption {
	return func(task *Task) {
		task.DueDate = cloneTime(dueDate)
	}
}

func WithProject(projectID *uuid.UUID) TaskOption {
	return func(task *Task) {
		task.ProjectID = cloneUUID(projectID)
	}
}

func WithParent(parentID *uuid.UUID) TaskOption {
	return func(task *Task) {
		task.ParentTaskID = cloneUUID(parentID)
	}
}

func WithDuration(minutes *int) TaskOption {
	return func(task *Task) {
		if minutes == nil {
			task.Duration = nil
			return
		}
		m := *minutes
		task.Duration = &m
	}
}

// шаблон повтора заменяется целиком, частичных правок нет
func WithRecurringPattern(pattern *RecurringPattern) TaskOption {
	return func(task *Task) {
		if pattern == nil {
			task.RecurringPattern = nil
			return
		}
		p := pattern.Clone()
		task.RecurringPattern = &p
	}
}

func WithOrder(order int) TaskOption {
	return func(task *Task) {
		task.Order = order
	}
}
