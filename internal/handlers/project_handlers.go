package handlers

import (
	"net/http"
	"time"

	"todone/internal/handlers/dto"
	"todone/internal/logger"

	"go.uber.org/zap"
)

type ProjectHandler struct {
	ProjectService ProjectService
}

func NewProjectHandler(projectService ProjectService) *ProjectHandler {
	return &ProjectHandler{ProjectService: projectService}
}

func (s *ProjectHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	projects, err := s.ProjectService.GetProjects(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "get_projects")
		return
	}

	responseWithBody(w, http.StatusOK, dto.FromProjectList(projects))
}

func (s *ProjectHandler) PostProject(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateProjectRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := s.ProjectService.CreateProject(r.Context(), request.Name, request.Color, request.Favorite)
	if err != nil {
		handleServiceError(w, r, err, "create_project")
		return
	}

	logger.Info("HTTP_OUT: Проект создан",
		zap.String("project_id", created.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithBody(w, http.StatusCreated, dto.FromProject(created))
}

func (s *ProjectHandler) GetProjectByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	found, err := s.ProjectService.GetProjectByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_project")
		return
	}

	responseWithBody(w, http.StatusOK, dto.FromProject(found))
}

func (s *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := s.ProjectService.DeleteProject(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_project")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
