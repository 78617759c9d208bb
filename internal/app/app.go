package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"todone/internal/config"
	"todone/internal/handlers"
	"todone/internal/logger"
	"todone/internal/middleware"
	"todone/internal/migrations"
	"todone/internal/repository/inmemory"
	"todone/internal/repository/postgres"
	"todone/internal/seed"
	"todone/internal/service"
	"todone/internal/worker"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type repositories struct {
	tasks    service.TaskRepository
	projects service.ProjectRepository
	filters  service.FilterRepository
}

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	repos     repositories
	tasks     *service.TaskService
	worker    *worker.RecurrenceWorker
	shutdowns []func() // функции для graceful shutdown, вызываются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	if err := a.initRepositories(ctx); err != nil {
		a.Shutdown()
		return nil, err
	}

	a.tasks = service.NewTaskService(a.repos.tasks, a.repos.projects)
	projects := service.NewProjectService(a.repos.projects)
	filters := service.NewFilterService(a.repos.filters, a.tasks)

	if a.config.Seed.File != "" {
		if err := a.seed(ctx, projects, filters); err != nil {
			a.Shutdown()
			return nil, err
		}
	}

	a.router = handlers.NewRouter(handlers.Handlers{
		Tasks:    handlers.NewTaskHandler(a.tasks),
		Projects: handlers.NewProjectHandler(projects),
		Filters:  handlers.NewFilterHandler(filters),
		Insights: handlers.NewInsightHandler(
			service.NewSearchService(a.repos.tasks, a.repos.projects, a.repos.filters),
			service.NewProductivityService(a.repos.tasks, a.config.Productivity),
		),
	}, a.middlewares()...)

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      otelhttp.NewHandler(a.router, "todone"),
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	if a.config.Worker.Enabled {
		a.worker = worker.NewRecurrenceWorker(a.repos.tasks, &a.config.Worker.Interval, &a.config.Worker.BatchSize)
	}

	return a, nil
}

func (a *App) middlewares() []func(http.Handler) http.Handler {
	srv := a.config.Server
	return []func(http.Handler) http.Handler{
		chimw.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: srv.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}),
		middleware.RequestID,
		middleware.Logging,
		middleware.Timeout(srv.RequestTimeout),
		middleware.RateLimit(srv.RateLimit),
	}
}

func (a *App) initRepositories(ctx context.Context) error {
	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		db := a.config.Database
		if db.MigrateOnStart {
			if err := migrations.Up(db.URL); err != nil {
				return fmt.Errorf("применение миграций: %w", err)
			}
		}

		poolCfg := postgres.DefaultPoolConfig()
		if db.MaxConnections > 0 {
			poolCfg.MaxConns = int32(db.MaxConnections)
		}
		if db.MinConnections > 0 {
			poolCfg.MinConns = int32(db.MinConnections)
		}
		if db.IdleTimeout > 0 {
			poolCfg.MaxConnIdleTime = db.IdleTimeout
		}

		storage, err := postgres.New(ctx, db.URL, poolCfg)
		if err != nil {
			return fmt.Errorf("подключение к postgres: %w", err)
		}
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Закрытие пула соединений postgres...")
			storage.Close()
		})

		a.repos = repositories{
			tasks:    storage.Tasks(),
			projects: storage.Projects(),
			filters:  storage.Filters(),
		}
	default:
		a.repos = repositories{
			tasks:    inmemory.NewTaskStorage(),
			projects: inmemory.NewProjectStorage(),
			filters:  inmemory.NewFilterStorage(),
		}
	}

	logger.Info("Хранилище инициализировано", zap.String("type", a.config.Repository.Type))
	return nil
}

// seed загружает фикстуру только в пустое хранилище
func (a *App) seed(ctx context.Context, projects *service.ProjectService, filters *service.FilterService) error {
	existing, err := a.repos.tasks.GetAllWithLimit(ctx, 1, 1)
	if err != nil {
		return fmt.Errorf("проверка хранилища перед загрузкой фикстуры: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("Хранилище не пустое, фикстура пропущена", zap.String("file", a.config.Seed.File))
		return nil
	}

	fixture, err := seed.Load(a.config.Seed.File)
	if err != nil {
		return err
	}
	return seed.Apply(ctx, fixture, time.Now(), a.tasks, projects, filters)
}

// Handler отдаёт собранный роутер, нужен для тестов без запуска сервера
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Run(ctx context.Context) error {
	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()

	if a.worker != nil {
		go a.worker.Start(workerCtx)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		a.Shutdown()
		if err != nil {
			return fmt.Errorf("сервер остановлен с ошибкой: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Получен сигнал остановки")
	}

	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	if err != nil {
		logger.Error("Ошибка при остановке сервера", err)
	}
	a.Shutdown()
	return err
}

func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
