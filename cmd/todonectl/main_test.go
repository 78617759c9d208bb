package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixture = filepath.Join("..", "..", "testdata", "seed.yml")

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// TestFilterCmd тестирует выполнение запроса над фикстурой
func TestFilterCmd(t *testing.T) {
	out, err := execute(t, "filter", "--file", fixture, "--query", "p1 & today")
	require.NoError(t, err)
	assert.Contains(t, out, "Ship report")
	assert.NotContains(t, out, "Buy milk")
	assert.Contains(t, out, "Всего: 1")
}

// TestFilterCmd_NoMatches тестирует пустой результат
func TestFilterCmd_NoMatches(t *testing.T) {
	out, err := execute(t, "filter", "--file", fixture, "--query", "#nowhere")
	require.NoError(t, err)
	assert.Contains(t, out, "Задач нет")
}

// TestFilterCmd_QueryRequired тестирует обязательный флаг --query
func TestFilterCmd_QueryRequired(t *testing.T) {
	_, err := execute(t, "filter", "--file", fixture)
	assert.Error(t, err)
}

// TestDescribeCmd тестирует описание шаблона и ближайшие даты
func TestDescribeCmd(t *testing.T) {
	out, err := execute(t, "describe", "--type", "monthly", "--day-of-month", "31", "--from", "2025-01-01", "--next", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "31st")
	assert.Contains(t, out, "2025-01-31")
	assert.Contains(t, out, "2025-02-28")
	assert.Contains(t, out, "2025-03-31")
}

// TestDescribeCmd_Invalid тестирует отказ на неверном интервале
func TestDescribeCmd_Invalid(t *testing.T) {
	_, err := execute(t, "describe", "--type", "daily", "--interval", "0")
	assert.Error(t, err)
}

// TestQuickAddCmd тестирует быстрое добавление с проектом из фикстуры
func TestQuickAddCmd(t *testing.T) {
	out, err := execute(t, "quickadd", "--file", fixture, "Call", "bank", "#work", "p2", "@finance")
	require.NoError(t, err)
	assert.Contains(t, out, "Call bank")
	assert.Contains(t, out, "p2")
	assert.Contains(t, out, "@finance")
}

// TestFilterCmd_Explain тестирует вывод разобранного запроса в stdout команды
func TestFilterCmd_Explain(t *testing.T) {
	out, err := execute(t, "filter", "--query", "p1 @work", "--explain")
	require.NoError(t, err)
	assert.Contains(t, out, "Запрос:")
	assert.Contains(t, out, "p1")
	assert.Contains(t, out, "work")
}
