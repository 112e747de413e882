package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"volmigrate/internal/monitor"
	"volmigrate/internal/receipt"
)

func newMonitorCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Report the status of submitted migration jobs",
		Long: `Monitor scans every receipt file in the ledger, re-queries each tracked
volume and its async job, and prints a consolidated status table. Nothing is
cached, so running it under a polling loop (e.g. watch) is safe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}

			entries, err := receipt.Scan(cfg.Receipts.Dir, cfg.Receipts.Prefix)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No migration receipts found")
				return nil
			}

			mon := &monitor.Monitor{Inventory: client, Logger: ctx.logger()}
			rows, err := mon.Collect(cmd.Context(), entries)
			if err != nil {
				return err
			}

			headers := []string{"Started", "Status", "VM-Name", "VM-State", "Volume-Name", "Size", "State", "Storage", "Volume-ID", "Resultcode"}
			tableRows := make([][]string, 0, len(rows))
			for _, row := range rows {
				tableRows = append(tableRows, []string{
					row.Started,
					row.StatusText(),
					row.VMName,
					row.VMState,
					row.Name,
					humanize.IBytes(uint64(row.Size)),
					row.State,
					row.Storage,
					row.ID,
					strconv.Itoa(row.JobResultCode),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, tableRows, 5, 9))
			return nil
		},
	}
	return cmd
}
