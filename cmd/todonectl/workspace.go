package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"todone/internal/models/task"
	"todone/internal/repository/inmemory"
	"todone/internal/seed"
	"todone/internal/service"

	"github.com/dustin/go-humanize"
)

// workspace - inmemory хранилище с загруженной фикстурой
type workspace struct {
	tasks    *service.TaskService
	projects *service.ProjectService
	filters  *service.FilterService
}

func newWorkspace(ctx context.Context, file string, now time.Time) (*workspace, error) {
	projectRepo := inmemory.NewProjectStorage()
	tasks := service.NewTaskService(inmemory.NewTaskStorage(), projectRepo)
	ws := &workspace{
		tasks:    tasks,
		projects: service.NewProjectService(projectRepo),
		filters:  service.NewFilterService(inmemory.NewFilterStorage(), tasks),
	}

	if file == "" {
		return ws, nil
	}

	fixture, err := seed.Load(file)
	if err != nil {
		return nil, err
	}
	if err := seed.Apply(ctx, fixture, now, ws.tasks, ws.projects, ws.filters); err != nil {
		return nil, err
	}
	return ws, nil
}

func printTasks(w io.Writer, tasks []*task.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "Задач нет")
		return
	}
	for _, t := range tasks {
		printTask(w, t, now)
	}
	fmt.Fprintf(w, "\nВсего: %d\n", len(tasks))
}

func printTask(w io.Writer, t *task.Task, now time.Time) {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}

	var parts []string
	if t.Priority != task.PriorityNone {
		parts = append(parts, string(t.Priority))
	}
	for _, l := range t.Labels {
		parts = append(parts, "@"+l)
	}
	if t.DueDate != nil {
		parts = append(parts, fmt.Sprintf("%s (%s)", t.DueDate.Format("2006-01-02"), humanize.RelTime(*t.DueDate, now, "ago", "from now")))
	}
	if t.RecurringPattern != nil {
		parts = append(parts, "↻")
	}

	line := mark + " " + t.Content
	if len(parts) > 0 {
		line += "  " + strings.Join(parts, " ")
	}
	fmt.Fprintln(w, line)
}
