package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"volmigrate/internal/worklist"
)

func newPrepareCommand(ctx *commandContext) *cobra.Command {
	var projectFlag string
	var storageFlag string
	var outputFlag string
	var previewFlag bool

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Build a worklist of volumes to migrate",
		Long: `Prepare enumerates volumes across all projects (or one named project),
optionally keeps only those on a given source storage pool, and writes the
result as a semicolon-delimited worklist for later replay with "migrate".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			logger := ctx.logger()

			// The storage filter must resolve before any other work happens.
			if storageFlag != "" {
				if _, err := client.StoragePoolIDByName(cmd.Context(), storageFlag); err != nil {
					return err
				}
			}

			builder := &worklist.Builder{Inventory: client, Logger: logger}
			records, err := builder.Build(cmd.Context(), projectFlag)
			if err != nil {
				return err
			}

			if previewFlag {
				selected := worklist.Select(records, storageFlag)
				fmt.Fprintln(cmd.OutOrStdout(), renderWorklistPreview(selected))
				return nil
			}

			out := cmd.OutOrStdout()
			if outputFlag != "" {
				file, err := os.Create(outputFlag)
				if err != nil {
					return fmt.Errorf("create worklist %s: %w", outputFlag, err)
				}
				defer file.Close()
				out = file
			}
			if err := worklist.Write(out, records, storageFlag); err != nil {
				return err
			}
			logger.Info("worklist written",
				slog.Int("volumes", len(worklist.Select(records, storageFlag))),
				slog.String("destination", outputDescription(outputFlag)))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Only include volumes of this project")
	cmd.Flags().StringVar(&storageFlag, "storage", "", "Only include volumes on this storage pool")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the worklist to this file instead of stdout")
	cmd.Flags().BoolVar(&previewFlag, "preview", false, "Render the worklist as a table instead of writing it")

	return cmd
}

func outputDescription(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}

func renderWorklistPreview(records []worklist.Record) string {
	headers := []string{"Domain", "Project", "VM", "VM-State", "Volume", "State", "Storage", "Size"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Domain, record.Project, record.VMName, record.VMState,
			record.Name, record.State, record.Storage,
			humanize.IBytes(uint64(record.Size)),
		})
	}
	return renderTable(headers, rows, 7)
}
