package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

// NewRootCmd собирает дерево команд healmind.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "healmind",
		Short:        "Передача пульса с часов и оценка стресса по HRV",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				return os.Setenv("HM_CONFIG", configPath)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "путь к файлу конфигурации (по умолчанию $HM_CONFIG или config.yaml)")

	root.AddCommand(serveCmd(), predictCmd(), versionCmd())
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}
