package handlers

import (
	"context"
	"net/http"
	"time"

	"todone/internal/handlers/dto"
	"todone/internal/logger"
	"todone/internal/models/task"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const serviceName = "todone"

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) *TaskHandler {
	return &TaskHandler{
		TaskService: taskService,
	}
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Warn("HTTP: Сервис недоступен", zap.Error(err))
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("service", serviceName),
			toPayload("time", time.Now()),
		)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", serviceName),
		toPayload("time", time.Now()),
	)
}

func (s *TaskHandler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	page, limit, err := parsePagination(r)
	if err != nil {
		logger.Warn("HTTP: Неверное значение параметра",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := s.TaskService.GetAllTasks(r.Context(), page, limit)
	if err != nil {
		handleServiceError(w, r, err, "get_tasks")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("tasks", dto.FromTaskList(tasks)),
		toPayload("page", page),
		toPayload("limit", limit),
	)
}

func (s *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if request.Content == "" {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "content"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "текст задачи не может быть пустым")
		return
	}

	opts := []task.TaskOption{
		task.WithDescription(request.Description),
		task.WithPriority(task.Priority(request.Priority)),
		task.WithDueDate(request.DueDate),
		task.WithDuration(request.Duration),
		task.WithProject(request.ProjectID),
		task.WithParent(request.ParentTaskID),
		task.WithRecurringPattern(request.RecurringPattern),
	}
	if request.Labels != nil {
		opts = append(opts, task.WithLabels(request.Labels))
	}
	if request.Order != nil {
		opts = append(opts, task.WithOrder(*request.Order))
	}

	logger.Info("HTTP: Вызов сервиса создания задач")
	created, err := s.TaskService.CreateTask(r.Context(), request.Content, opts...)
	if err != nil {
		handleServiceError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithBody(w, http.StatusCreated, dto.FromTask(created))
}

func (s *TaskHandler) QuickAdd(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.QuickAddRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := s.TaskService.QuickAdd(r.Context(), request.Text)
	if err != nil {
		handleServiceError(w, r, err, "quick_add")
		return
	}

	logger.Info("HTTP_OUT: Задача создана быстрым добавлением",
		zap.String("task_id", created.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithBody(w, http.StatusCreated, dto.FromTask(created))
}

func (s *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	found, err := s.TaskService.GetTaskByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_task")
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.String("task_id", found.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromTask(found))
}

func (s *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	logger.Info("HTTP: запрос к сервису обновления данных")

	updated, err := s.TaskService.UpdateTask(r.Context(), id, request.Version, updateOptions(request)...)
	if err != nil {
		handleServiceError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromTask(updated))
}

func updateOptions(request dto.UpdateTaskRequest) []task.TaskOption {
	opts := []task.TaskOption{}

	if request.Content != nil {
		opts = append(opts, task.WithContent(*request.Content))
	}
	if request.Description != nil {
		opts = append(opts, task.WithDescription(*request.Description))
	}
	if request.ProjectID != nil {
		opts = append(opts, task.WithProject(request.ProjectID))
	}
	if request.Priority != nil {
		opts = append(opts, task.WithPriority(task.Priority(*request.Priority)))
	}
	if request.Labels != nil {
		opts = append(opts, task.WithLabels(request.Labels))
	}
	if request.ClearDueDate {
		opts = append(opts, task.WithDueDate(nil))
	} else if request.DueDate != nil {
		opts = append(opts, task.WithDueDate(request.DueDate))
	}
	if request.Duration != nil {
		opts = append(opts, task.WithDuration(request.Duration))
	}
	if request.ClearRecurrence {
		opts = append(opts, task.WithRecurringPattern(nil))
	} else if request.RecurringPattern != nil {
		opts = append(opts, task.WithRecurringPattern(request.RecurringPattern))
	}
	if request.Order != nil {
		opts = append(opts, task.WithOrder(*request.Order))
	}
	return opts
}

func (s *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	logger.Info("HTTP: Обращение к сервису для удаления задачи")

	if err := s.TaskService.DeleteTask(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

func (s *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	s.changeCompletion(w, r, "complete_task", s.TaskService.CompleteTask)
}

func (s *TaskHandler) UncompleteTask(w http.ResponseWriter, r *http.Request) {
	s.changeCompletion(w, r, "uncomplete_task", s.TaskService.UncompleteTask)
}

func (s *TaskHandler) changeCompletion(w http.ResponseWriter, r *http.Request, operation string,
	change func(context.Context, uuid.UUID) (*task.Task, error)) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	updated, err := change(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, operation)
		return
	}

	logger.Info("HTTP_OUT: Статус задачи изменён",
		zap.String("operation", operation),
		zap.String("task_id", id.String()),
		zap.Bool("completed", updated.Completed),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromTask(updated))
}

func (s *TaskHandler) GetTodayTasks(w http.ResponseWriter, r *http.Request) {
	s.listTasks(w, r, "get_today_tasks", func() ([]*task.Task, error) {
		return s.TaskService.GetTodayTasks(r.Context())
	})
}

func (s *TaskHandler) GetOverdueTasks(w http.ResponseWriter, r *http.Request) {
	s.listTasks(w, r, "get_overdue_tasks", func() ([]*task.Task, error) {
		return s.TaskService.GetOverdueTasks(r.Context())
	})
}

// FilterTasks выполняет запрос из параметра q, пустой запрос пропускает всё
func (s *TaskHandler) FilterTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	s.listTasks(w, r, "filter_tasks", func() ([]*task.Task, error) {
		return s.TaskService.FilterTasks(r.Context(), query)
	})
}

func (s *TaskHandler) GetSubtasks(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	s.listTasks(w, r, "get_subtasks", func() ([]*task.Task, error) {
		return s.TaskService.GetSubtasks(r.Context(), id)
	})
}

func (s *TaskHandler) GetProjectTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	s.listTasks(w, r, "get_project_tasks", func() ([]*task.Task, error) {
		return s.TaskService.GetTasksByProject(r.Context(), id)
	})
}

func (s *TaskHandler) listTasks(w http.ResponseWriter, r *http.Request, operation string, list func() ([]*task.Task, error)) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	tasks, err := list()
	if err != nil {
		handleServiceError(w, r, err, operation)
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.String("operation", operation),
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromTaskList(tasks))
}

func (s *TaskHandler) DescribeRecurrence(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.RecurrenceRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	responseWithBody(w, http.StatusOK, dto.DescribeResponse{
		Text: s.TaskService.DescribeRecurrence(request.Pattern),
	})
}

func (s *TaskHandler) NextOccurrences(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.RecurrenceRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	from := time.Now()
	if request.From != nil {
		from = *request.From
	}
	limit := request.Limit
	if limit == 0 {
		limit = 5
	}

	dates, err := s.TaskService.NextOccurrences(request.Pattern, from, limit)
	if err != nil {
		handleServiceError(w, r, err, "next_occurrences")
		return
	}

	logger.Info("HTTP_OUT: Даты серии рассчитаны",
		zap.Int("count", len(dates)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.OccurrencesResponse{
		Text:  s.TaskService.DescribeRecurrence(request.Pattern),
		Dates: dates,
	})
}
