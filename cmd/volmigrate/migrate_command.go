package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"volmigrate/internal/migrate"
	"volmigrate/internal/receipt"
	"volmigrate/internal/worklist"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	var inputFlag string
	var destStorageFlag string
	var nonInteractive bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Replay a worklist and submit volume migrations",
		Long: `Migrate reads a prepared worklist and processes it row by row. Each
volume's current state is re-fetched to pick live or offline migration, the
operator confirms every volume individually, and each submitted job is
recorded in the receipt ledger for later monitoring.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			logger := ctx.logger().With(slog.String("run_id", uuid.NewString()))

			confirm := migrate.AlwaysYes()
			if !nonInteractive {
				if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
					return errors.New("stdin is not a terminal; pass --non-interactive to confirm every volume automatically")
				}
				confirm = migrate.Interactive(cmd.InOrStdin(), cmd.OutOrStdout())
			}

			// Resolve the destination before any other work; an unknown pool
			// name fails the whole run up front.
			destStorageID, err := client.StoragePoolIDByName(cmd.Context(), destStorageFlag)
			if err != nil {
				return err
			}

			file, err := os.Open(inputFlag)
			if err != nil {
				return fmt.Errorf("open worklist %s: %w", inputFlag, err)
			}
			rows, err := worklist.Read(file)
			file.Close()
			if err != nil {
				return err
			}

			receipts := receipt.NewWriter(cfg.Receipts.Dir, cfg.Receipts.Prefix, time.Now())
			defer receipts.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Migrating to storage pool %q (%s)\n", destStorageFlag, destStorageID)
			logger.Info("replaying worklist",
				slog.String("worklist", inputFlag),
				slog.String("destination", destStorageFlag),
				slog.Int("rows", len(rows)))

			player := &migrate.Player{
				Inventory: client,
				Confirm:   confirm,
				Receipts:  receipts,
				Out:       cmd.OutOrStdout(),
				Logger:    logger,
			}
			return player.Play(cmd.Context(), rows, destStorageID, destStorageFlag)
		},
	}

	cmd.Flags().StringVarP(&inputFlag, "input", "i", "", "Worklist file to replay (required)")
	cmd.Flags().StringVar(&destStorageFlag, "dest-storage", "", "Destination storage pool name (required)")
	cmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "Submit every migration without asking for confirmation")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("dest-storage")

	return cmd
}
