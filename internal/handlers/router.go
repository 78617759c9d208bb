package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	Tasks    *TaskHandler
	Projects *ProjectHandler
	Filters  *FilterHandler
	Insights *InsightHandler
}

// NewRouter собирает все маршруты API поверх переданных middleware
func NewRouter(h Handlers, middlewares ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middlewares...)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.Tasks.GetAllTasks) // GET /tasks?page=&limit=
		r.Post("/", h.Tasks.PostTask)   // POST /tasks

		r.Get("/today", h.Tasks.GetTodayTasks)     // GET /tasks/today
		r.Get("/overdue", h.Tasks.GetOverdueTasks) // GET /tasks/overdue
		r.Get("/filter", h.Tasks.FilterTasks)      // GET /tasks/filter?q=
		r.Post("/quick", h.Tasks.QuickAdd)         // POST /tasks/quick

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Tasks.GetTaskByID)       // GET /tasks/{id}
			r.Put("/", h.Tasks.UpdateTaskByID)    // PUT /tasks/{id}
			r.Delete("/", h.Tasks.DeleteTaskByID) // DELETE /tasks/{id}

			r.Post("/complete", h.Tasks.CompleteTask)     // POST /tasks/{id}/complete
			r.Post("/uncomplete", h.Tasks.UncompleteTask) // POST /tasks/{id}/uncomplete
			r.Get("/subtasks", h.Tasks.GetSubtasks)       // GET /tasks/{id}/subtasks
		})
	})

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.Projects.GetProjects)
		r.Post("/", h.Projects.PostProject)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Projects.GetProjectByID)
			r.Delete("/", h.Projects.DeleteProject)
			r.Get("/tasks", h.Tasks.GetProjectTasks)
		})
	})

	r.Route("/filters", func(r chi.Router) {
		r.Get("/", h.Filters.GetFilters)
		r.Post("/", h.Filters.PostFilter)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Filters.GetFilterByID)
			r.Put("/", h.Filters.UpdateFilter)
			r.Delete("/", h.Filters.DeleteFilter)
			r.Get("/tasks", h.Filters.ExecuteFilter)
		})
	})

	r.Route("/recurrence", func(r chi.Router) {
		r.Post("/describe", h.Tasks.DescribeRecurrence)
		r.Post("/next", h.Tasks.NextOccurrences)
	})

	r.Get("/search", h.Insights.Search)
	r.Route("/productivity", func(r chi.Router) {
		r.Get("/stats", h.Insights.Stats)
		r.Get("/history", h.Insights.History)
	})

	r.Get("/health", h.Tasks.HealthCheck)

	return r
}
