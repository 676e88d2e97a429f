package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nycsales/internal/config"
	"nycsales/pkg/contracts"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString(config.AppName))
			return err
		},
	}
}
