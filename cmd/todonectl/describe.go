package main

import (
	"fmt"
	"time"

	"todone/internal/models/task"
	"todone/internal/recurrence"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func describeCmd() *cobra.Command {
	var (
		pattern task.RecurringPattern
		kind    string
		end     string
		from    string
		next    int
	)

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Описать шаблон повтора и показать ближайшие даты",
		Long: `Описывает шаблон повтора человеческим текстом.

Примеры:
  todonectl describe --type weekly --days 1,3,5
  todonectl describe --type monthly --day-of-month 31 --next 4 --from 2025-01-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern.Type = task.RecurrenceType(kind)

			if end != "" {
				endDate, err := time.ParseInLocation(dateLayout, end, time.Local)
				if err != nil {
					return fmt.Errorf("неверная дата окончания %q", end)
				}
				pattern.EndDate = &endDate
			}

			if err := recurrence.Validate(pattern); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), recurrence.Describe(pattern))

			if next <= 0 {
				return nil
			}

			start := time.Now()
			if from != "" {
				parsed, err := time.ParseInLocation(dateLayout, from, time.Local)
				if err != nil {
					return fmt.Errorf("неверная дата начала %q", from)
				}
				start = parsed
			}

			for _, d := range recurrence.Occurrences(pattern, start, next) {
				fmt.Fprintln(cmd.OutOrStdout(), "  "+d.Format("Mon 2006-01-02"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", string(task.RecurrenceDaily), "daily, weekly, monthly, yearly или custom")
	cmd.Flags().IntVarP(&pattern.Interval, "interval", "i", 1, "интервал повтора")
	cmd.Flags().IntSliceVar(&pattern.DaysOfWeek, "days", nil, "дни недели для weekly, 0 - воскресенье")
	cmd.Flags().IntVar(&pattern.DayOfMonth, "day-of-month", 0, "день месяца для monthly")
	cmd.Flags().StringVar(&end, "end", "", "дата окончания 2006-01-02")
	cmd.Flags().StringVar(&from, "from", "", "дата начала для --next")
	cmd.Flags().IntVarP(&next, "next", "n", 0, "сколько ближайших дат показать")

	return cmd
}
