package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func quickAddCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "quickadd <text>",
		Short: "Разобрать строку быстрого добавления",
		Long: `Разбирает строку быстрого добавления и показывает созданную задачу.

Примеры:
  todonectl quickadd "Buy milk tomorrow p2 @errands"
  todonectl quickadd "Ship report #work next week p1" --file testdata/seed.yml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			ws, err := newWorkspace(cmd.Context(), file, now)
			if err != nil {
				return err
			}

			t, err := ws.tasks.QuickAdd(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			printTask(cmd.OutOrStdout(), t, now)
			if t.RecurringPattern != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Повтор: "+ws.tasks.DescribeRecurrence(*t.RecurringPattern))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML с проектами для #project")

	return cmd
}
