package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDatabaseURL тестирует замену схемы для драйвера pgx/v5
func TestDatabaseURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@localhost:5432/db", databaseURL("postgres://u:p@localhost:5432/db"))
	assert.Equal(t, "pgx5://u:p@localhost:5432/db", databaseURL("postgresql://u:p@localhost:5432/db"))
	assert.Equal(t, "pgx5://localhost/db", databaseURL("pgx5://localhost/db"))
}

// TestEmbeddedFiles тестирует, что у каждой миграции есть пара up/down
func TestEmbeddedFiles(t *testing.T) {
	up, err := fs.Glob(files, "*.up.sql")
	require.NoError(t, err)
	down, err := fs.Glob(files, "*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, up)
	assert.Len(t, down, len(up))
}
