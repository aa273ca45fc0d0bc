package commands

import (
	"github.com/spf13/cobra"

	"github.com/LaibaFaraz/HealMind/internal/app"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API, слушатель сообщений и расписание оценки стресса",
		RunE: func(cmd *cobra.Command, args []string) error {
			application := app.New()
			if err := application.Err(); err != nil {
				return err
			}
			application.Run()
			return nil
		},
	}
}
