package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "volmigrate",
		Short: "Bulk volume migration between CloudStack storage pools",
		Long: `volmigrate moves virtual machine volumes between primary storage pools,
one after the other: prepare a worklist, replay it with a per-volume
confirmation, then monitor the submitted migration jobs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newPrepareCommand(ctx))
	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newMonitorCommand(ctx))

	return rootCmd
}
