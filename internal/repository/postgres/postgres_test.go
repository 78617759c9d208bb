package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"todone/internal/migrations"
	"todone/internal/models/filter"
	"todone/internal/models/project"
	"todone/internal/models/task"
	"todone/internal/repository"
	"todone/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresTestSuite для интеграционных тестов с PostgreSQL
type PostgresTestSuite struct {
	suite.Suite
	container  testcontainers.Container
	storage    *postgres.Storage
	connString string
	ctx        context.Context
}

// SetupSuite запускается один раз перед всеми тестами
func (s *PostgresTestSuite) SetupSuite() {
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(s.ctx)
	require.NoError(s.T(), err)

	port, err := container.MappedPort(s.ctx, "5432")
	require.NoError(s.T(), err)

	s.connString = fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	require.NoError(s.T(), migrations.Up(s.connString))

	s.storage, err = postgres.New(s.ctx, s.connString, postgres.DefaultPoolConfig())
	require.NoError(s.T(), err)
}

// TearDownSuite очищает после всех тестов
func (s *PostgresTestSuite) TearDownSuite() {
	if s.storage != nil {
		s.storage.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

// SetupTest очищает таблицы перед каждым тестом
func (s *PostgresTestSuite) SetupTest() {
	conn, err := pgx.Connect(s.ctx, s.connString)
	require.NoError(s.T(), err)
	defer conn.Close(s.ctx)

	_, err = conn.Exec(s.ctx, "TRUNCATE tasks, projects, filters CASCADE")
	require.NoError(s.T(), err)
}

// TestPostgresTestSuite запускает suite
func TestPostgresTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционные тесты в коротком режиме")
	}
	suite.Run(t, new(PostgresTestSuite))
}

func (s *PostgresTestSuite) TestStorage_HealthCheck() {
	assert.NoError(s.T(), s.storage.HealthCheck(s.ctx))
}

// TestTaskRepo_CreateAndGet тестирует сохранение всех полей задачи
func (s *PostgresTestSuite) TestTaskRepo_CreateAndGet() {
	repo := s.storage.Tasks()
	projects := s.storage.Projects()

	p := &project.Project{UUID: uuid.New(), Name: "Work", Color: "#3b82f6"}
	require.NoError(s.T(), projects.Create(s.ctx, p))

	due := time.Date(2025, time.June, 18, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	duration := 45
	taskToCreate := &task.Task{
		UUID:        uuid.New(),
		Content:     "Weekly report",
		Description: "Send to the team",
		ProjectID:   &p.UUID,
		Priority:    task.PriorityP1,
		Labels:      []string{"work", "reports"},
		DueDate:     &due,
		Duration:    &duration,
		RecurringPattern: &task.RecurringPattern{
			Type:       task.RecurrenceWeekly,
			Interval:   1,
			DaysOfWeek: []int{1, 3},
			EndDate:    &end,
		},
	}

	require.NoError(s.T(), repo.Create(s.ctx, taskToCreate))
	assert.Equal(s.T(), 1, taskToCreate.Version)
	assert.False(s.T(), taskToCreate.CreatedAt.IsZero())

	got, err := repo.GetByID(s.ctx, taskToCreate.UUID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Weekly report", got.Content)
	assert.Equal(s.T(), task.PriorityP1, got.Priority)
	assert.Equal(s.T(), []string{"work", "reports"}, got.Labels)
	require.NotNil(s.T(), got.ProjectID)
	assert.Equal(s.T(), p.UUID, *got.ProjectID)
	require.NotNil(s.T(), got.DueDate)
	assert.True(s.T(), due.Equal(*got.DueDate))
	require.NotNil(s.T(), got.Duration)
	assert.Equal(s.T(), 45, *got.Duration)
	require.NotNil(s.T(), got.RecurringPattern)
	assert.Equal(s.T(), task.RecurrenceWeekly, got.RecurringPattern.Type)
	assert.Equal(s.T(), []int{1, 3}, got.RecurringPattern.DaysOfWeek)
	assert.Nil(s.T(), got.ParentTaskID)

	_, err = repo.GetByID(s.ctx, uuid.New())
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

// TestTaskRepo_Update тестирует обновление и конфликт версий
func (s *PostgresTestSuite) TestTaskRepo_Update() {
	repo := s.storage.Tasks()

	taskToCreate := &task.Task{UUID: uuid.New(), Content: "Original"}
	require.NoError(s.T(), repo.Create(s.ctx, taskToCreate))

	stale := taskToCreate.Clone()

	taskToCreate.Content = "Updated"
	taskToCreate.Completed = true
	now := time.Now()
	taskToCreate.CompletedAt = &now
	require.NoError(s.T(), repo.Update(s.ctx, taskToCreate))
	assert.Equal(s.T(), 2, taskToCreate.Version)
	assert.NotNil(s.T(), taskToCreate.UpdatedAt)

	got, err := repo.GetByID(s.ctx, taskToCreate.UUID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Updated", got.Content)
	assert.True(s.T(), got.Completed)

	assert.ErrorIs(s.T(), repo.Update(s.ctx, stale), repository.ErrVersionConflict)
	assert.ErrorIs(s.T(), repo.Update(s.ctx, &task.Task{UUID: uuid.New(), Version: 1}), repository.ErrNotFound)
}

// TestTaskRepo_DeleteCascade тестирует каскадное удаление подзадач
func (s *PostgresTestSuite) TestTaskRepo_DeleteCascade() {
	repo := s.storage.Tasks()

	parent := &task.Task{UUID: uuid.New(), Content: "Parent"}
	child := &task.Task{UUID: uuid.New(), Content: "Child", ParentTaskID: &parent.UUID}
	require.NoError(s.T(), repo.Create(s.ctx, parent))
	require.NoError(s.T(), repo.Create(s.ctx, child))

	subtasks, err := repo.GetSubtasks(s.ctx, parent.UUID)
	require.NoError(s.T(), err)
	assert.Len(s.T(), subtasks, 1)

	require.NoError(s.T(), repo.Delete(s.ctx, parent.UUID))

	_, err = repo.GetByID(s.ctx, child.UUID)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
	assert.ErrorIs(s.T(), repo.Delete(s.ctx, parent.UUID), repository.ErrNotFound)
}

// TestTaskRepo_Lists тестирует выборки и пагинацию
func (s *PostgresTestSuite) TestTaskRepo_Lists() {
	repo := s.storage.Tasks()

	for i := 0; i < 5; i++ {
		require.NoError(s.T(), repo.Create(s.ctx, &task.Task{
			UUID:    uuid.New(),
			Content: fmt.Sprintf("Task %d", i),
			Order:   i,
		}))
	}
	done := &task.Task{
		UUID:             uuid.New(),
		Content:          "Recurring done",
		Completed:        true,
		Order:            10,
		RecurringPattern: &task.RecurringPattern{Type: task.RecurrenceDaily, Interval: 1},
	}
	require.NoError(s.T(), repo.Create(s.ctx, done))

	all, err := repo.GetAll(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 6)
	assert.Equal(s.T(), "Task 0", all[0].Content)

	page, err := repo.GetAllWithLimit(s.ctx, 2, 4)
	require.NoError(s.T(), err)
	assert.Len(s.T(), page, 2)

	recurring, err := repo.GetCompletedRecurring(s.ctx, 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), recurring, 1)
	assert.Equal(s.T(), done.UUID, recurring[0].UUID)
}

// TestProjectRepo тестирует проекты и поиск по имени
func (s *PostgresTestSuite) TestProjectRepo() {
	repo := s.storage.Projects()

	p := &project.Project{UUID: uuid.New(), Name: "Home"}
	require.NoError(s.T(), repo.Create(s.ctx, p))
	assert.ErrorIs(s.T(), repo.Create(s.ctx, &project.Project{UUID: uuid.New(), Name: "HOME"}), repository.ErrAlreadyExists)

	got, err := repo.GetByName(s.ctx, "home")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), p.UUID, got.UUID)

	all, err := repo.GetAll(s.ctx)
	require.NoError(s.T(), err)
	assert.Len(s.T(), all, 1)

	require.NoError(s.T(), repo.Delete(s.ctx, p.UUID))
	_, err = repo.GetByID(s.ctx, p.UUID)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

// TestFilterRepo тестирует сохранённые фильтры
func (s *PostgresTestSuite) TestFilterRepo() {
	repo := s.storage.Filters()

	f := &filter.Filter{UUID: uuid.New(), Name: "Urgent", Query: "p1 today", Color: "#ef4444"}
	require.NoError(s.T(), repo.Create(s.ctx, f))
	fav := &filter.Filter{UUID: uuid.New(), Name: "Work", Query: "@work", Favorite: true}
	require.NoError(s.T(), repo.Create(s.ctx, fav))

	all, err := repo.GetAll(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 2)
	assert.Equal(s.T(), "Work", all[0].Name)

	f.Query = "p1 overdue"
	require.NoError(s.T(), repo.Update(s.ctx, f))
	assert.NotNil(s.T(), f.UpdatedAt)

	got, err := repo.GetByID(s.ctx, f.UUID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "p1 overdue", got.Query)

	require.NoError(s.T(), repo.Delete(s.ctx, f.UUID))
	assert.ErrorIs(s.T(), repo.Update(s.ctx, f), repository.ErrNotFound)
}
