package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LaibaFaraz/HealMind/internal/build"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Показать версию",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "healmind %s\n", build.Info())
		},
	}
}
