package handlers

import (
	"net/http"
	"strconv"

	"todone/internal/logger"

	"go.uber.org/zap"
)

const defaultHistoryDays = 7

// InsightHandler - поиск и статистика продуктивности
type InsightHandler struct {
	SearchService       SearchService
	ProductivityService ProductivityService
}

func NewInsightHandler(searchService SearchService, productivityService ProductivityService) *InsightHandler {
	return &InsightHandler{
		SearchService:       searchService,
		ProductivityService: productivityService,
	}
}

func (s *InsightHandler) Search(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	results, err := s.SearchService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(w, r, err, "search")
		return
	}

	responseWithBody(w, http.StatusOK, results)
}

func (s *InsightHandler) Stats(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	stats, err := s.ProductivityService.Stats(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "productivity_stats")
		return
	}

	responseWithBody(w, http.StatusOK, stats)
}

func (s *InsightHandler) History(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	days := defaultHistoryDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "days"),
				zap.Error(err),
				zap.String("client_ip", r.RemoteAddr))

			responseWithError(w, http.StatusBadRequest, "неверное значение days")
			return
		}
		days = v
	}

	history, err := s.ProductivityService.History(r.Context(), days)
	if err != nil {
		handleServiceError(w, r, err, "productivity_history")
		return
	}

	responseWithBody(w, http.StatusOK, history)
}
