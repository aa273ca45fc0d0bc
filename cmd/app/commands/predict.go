package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LaibaFaraz/HealMind/internal/app"
)

func predictCmd() *cobra.Command {
	var hours int

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Однократно оценить стресс по измерениям за последние часы",
		RunE: func(cmd *cobra.Command, args []string) error {
			if hours <= 0 {
				return fmt.Errorf("--hours должен быть положительным, получено %d", hours)
			}
			summary, err := app.RunStressBatch(cmd.Context(), hours)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().IntVar(&hours, "hours", 1, "сколько последних часов обработать")
	return cmd
}
