package dto

import (
	"time"

	"todone/internal/models/filter"
	"todone/internal/models/project"
	"todone/internal/models/task"
	"todone/internal/recurrence"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Content          string                 `json:"content"`
	Description      string                 `json:"description"`
	ProjectID        *uuid.UUID             `json:"project_id,omitempty"`
	ParentTaskID     *uuid.UUID             `json:"parent_task_id,omitempty"`
	Priority         string                 `json:"priority,omitempty"`
	Labels           []string               `json:"labels,omitempty"`
	DueDate          *time.Time             `json:"due_date,omitempty"`
	Duration         *int                   `json:"duration,omitempty"`
	RecurringPattern *task.RecurringPattern `json:"recurring_pattern,omitempty"`
	Order            *int                   `json:"order,omitempty"`
}

// UpdateTaskRequest - частичное обновление, nil поля не меняются.
// Clear* снимают срок и шаблон повтора.
type UpdateTaskRequest struct {
	Version          int                    `json:"version"`
	Content          *string                `json:"content,omitempty"`
	Description      *string                `json:"description,omitempty"`
	ProjectID        *uuid.UUID             `json:"project_id,omitempty"`
	Priority         *string                `json:"priority,omitempty"`
	Labels           []string               `json:"labels,omitempty"`
	DueDate          *time.Time             `json:"due_date,omitempty"`
	ClearDueDate     bool                   `json:"clear_due_date,omitempty"`
	Duration         *int                   `json:"duration,omitempty"`
	RecurringPattern *task.RecurringPattern `json:"recurring_pattern,omitempty"`
	ClearRecurrence  bool                   `json:"clear_recurrence,omitempty"`
	Order            *int                   `json:"order,omitempty"`
}

type QuickAddRequest struct {
	Text string `json:"text"`
}

type TaskResponse struct {
	UUID             uuid.UUID              `json:"id"`
	Content          string                 `json:"content"`
	Description      string                 `json:"description"`
	ProjectID        *uuid.UUID             `json:"project_id,omitempty"`
	ParentTaskID     *uuid.UUID             `json:"parent_task_id,omitempty"`
	Priority         string                 `json:"priority,omitempty"`
	Labels           []string               `json:"labels"`
	DueDate          *time.Time             `json:"due_date,omitempty"`
	Duration         *int                   `json:"duration,omitempty"`
	RecurringPattern *task.RecurringPattern `json:"recurring_pattern,omitempty"`
	Recurrence       string                 `json:"recurrence,omitempty"`
	Order            int                    `json:"order"`
	Completed        bool                   `json:"completed"`
	CompletedAt      *time.Time             `json:"completed_at,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        *time.Time             `json:"updated_at,omitempty"`
	Version          int                    `json:"version"`
	IsOverdue        bool                   `json:"is_overdue"`
}

func FromTask(t *task.Task) TaskResponse {
	labels := t.Labels
	if labels == nil {
		labels = []string{}
	}

	resp := TaskResponse{
		UUID:             t.UUID,
		Content:          t.Content,
		Description:      t.Description,
		ProjectID:        t.ProjectID,
		ParentTaskID:     t.ParentTaskID,
		Priority:         string(t.Priority),
		Labels:           labels,
		DueDate:          t.DueDate,
		Duration:         t.Duration,
		RecurringPattern: t.RecurringPattern,
		Order:            t.Order,
		Completed:        t.Completed,
		CompletedAt:      t.CompletedAt,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		Version:          t.Version,
		IsOverdue:        isOverdue(t, time.Now()),
	}
	if t.RecurringPattern != nil {
		resp.Recurrence = recurrence.Describe(*t.RecurringPattern)
	}
	return resp
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

// просрочена, если срок раньше сегодняшнего дня и задача не выполнена
func isOverdue(t *task.Task, now time.Time) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	due := t.DueDate.In(now.Location())
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return due.Before(today)
}

type CreateProjectRequest struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Favorite bool   `json:"favorite"`
}

type ProjectResponse struct {
	UUID      uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Favorite  bool      `json:"favorite"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

func FromProject(p *project.Project) ProjectResponse {
	return ProjectResponse{
		UUID:      p.UUID,
		Name:      p.Name,
		Color:     p.Color,
		Favorite:  p.Favorite,
		Order:     p.Order,
		CreatedAt: p.CreatedAt,
	}
}

func FromProjectList(projects []*project.Project) []ProjectResponse {
	result := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		result[i] = FromProject(p)
	}
	return result
}

type CreateFilterRequest struct {
	Name     string `json:"name"`
	Query    string `json:"query"`
	Color    string `json:"color,omitempty"`
	Favorite bool   `json:"favorite"`
}

type UpdateFilterRequest struct {
	Name     *string `json:"name,omitempty"`
	Query    *string `json:"query,omitempty"`
	Color    *string `json:"color,omitempty"`
	Favorite *bool   `json:"favorite,omitempty"`
}

type FilterResponse struct {
	UUID      uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Query     string     `json:"query"`
	Color     string     `json:"color"`
	Favorite  bool       `json:"favorite"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func FromFilter(f *filter.Filter) FilterResponse {
	return FilterResponse{
		UUID:      f.UUID,
		Name:      f.Name,
		Query:     f.Query,
		Color:     f.Color,
		Favorite:  f.Favorite,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func FromFilterList(filters []*filter.Filter) []FilterResponse {
	result := make([]FilterResponse, len(filters))
	for i, f := range filters {
		result[i] = FromFilter(f)
	}
	return result
}

type RecurrenceRequest struct {
	Pattern task.RecurringPattern `json:"pattern"`
	From    *time.Time            `json:"from,omitempty"`
	Limit   int                   `json:"limit,omitempty"`
}

type DescribeResponse struct {
	Text string `json:"text"`
}

type OccurrencesResponse struct {
	Text  string      `json:"text"`
	Dates []time.Time `json:"dates"`
}
