package main

import (
	"fmt"
	"time"

	"todone/internal/filterquery"

	"github.com/spf13/cobra"
)

func filterCmd() *cobra.Command {
	var (
		query   string
		file    string
		explain bool
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Выполнить запрос фильтра над задачами из YAML",
		Long: `Выполняет запрос фильтра над задачами из фикстуры.

Примеры:
  todonectl filter --file testdata/seed.yml --query "p1 & today"
  todonectl filter --file testdata/seed.yml --query "#work overdue"
  todonectl filter --query "@errands search:milk" --explain`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if explain {
				q := filterquery.Parse(query)
				fmt.Fprintf(out, "Запрос: %+v\n", q)
				if file == "" {
					return nil
				}
			}

			now := time.Now()
			ws, err := newWorkspace(cmd.Context(), file, now)
			if err != nil {
				return err
			}

			tasks, err := ws.tasks.FilterTasks(cmd.Context(), query)
			if err != nil {
				return err
			}
			printTasks(out, tasks, now)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "запрос фильтра")
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML с задачами")
	cmd.Flags().BoolVar(&explain, "explain", false, "показать разобранный запрос")
	_ = cmd.MarkFlagRequired("query")

	return cmd
}
