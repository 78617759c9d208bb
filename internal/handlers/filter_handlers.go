package handlers

import (
	"net/http"
	"time"

	"todone/internal/handlers/dto"
	"todone/internal/logger"
	"todone/internal/models/filter"

	"go.uber.org/zap"
)

type FilterHandler struct {
	FilterService FilterService
}

func NewFilterHandler(filterService FilterService) *FilterHandler {
	return &FilterHandler{FilterService: filterService}
}

func (s *FilterHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	filters, err := s.FilterService.GetFilters(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "get_filters")
		return
	}

	responseWithBody(w, http.StatusOK, dto.FromFilterList(filters))
}

func (s *FilterHandler) PostFilter(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateFilterRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	opts := []filter.FilterOption{filter.WithFavorite(request.Favorite)}
	if request.Color != "" {
		opts = append(opts, filter.WithColor(request.Color))
	}

	created, err := s.FilterService.CreateFilter(r.Context(), request.Name, request.Query, opts...)
	if err != nil {
		handleServiceError(w, r, err, "create_filter")
		return
	}

	logger.Info("HTTP_OUT: Фильтр создан",
		zap.String("filter_id", created.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithBody(w, http.StatusCreated, dto.FromFilter(created))
}

func (s *FilterHandler) GetFilterByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	found, err := s.FilterService.GetFilterByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_filter")
		return
	}

	responseWithBody(w, http.StatusOK, dto.FromFilter(found))
}

func (s *FilterHandler) UpdateFilter(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateFilterRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	opts := []filter.FilterOption{}
	if request.Name != nil {
		opts = append(opts, filter.WithName(*request.Name))
	}
	if request.Query != nil {
		opts = append(opts, filter.WithQuery(*request.Query))
	}
	if request.Color != nil {
		opts = append(opts, filter.WithColor(*request.Color))
	}
	if request.Favorite != nil {
		opts = append(opts, filter.WithFavorite(*request.Favorite))
	}

	updated, err := s.FilterService.UpdateFilter(r.Context(), id, opts...)
	if err != nil {
		handleServiceError(w, r, err, "update_filter")
		return
	}

	responseWithBody(w, http.StatusOK, dto.FromFilter(updated))
}

func (s *FilterHandler) DeleteFilter(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := s.FilterService.DeleteFilter(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_filter")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *FilterHandler) ExecuteFilter(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	tasks, err := s.FilterService.ExecuteFilter(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "execute_filter")
		return
	}

	logger.Info("HTTP_OUT: Фильтр выполнен",
		zap.String("filter_id", id.String()),
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromTaskList(tasks))
}
