package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "todonectl",
		Short:         "todonectl - фильтры, повторы и быстрое добавление задач без сервера",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(filterCmd())
	root.AddCommand(describeCmd())
	root.AddCommand(quickAddCmd())

	return root
}
