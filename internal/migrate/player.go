package migrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"volmigrate/internal/cloudstack"
	"volmigrate/internal/logging"
	"volmigrate/internal/receipt"
	"volmigrate/internal/worklist"
)

// Mode selects how a volume is migrated.
type Mode string

const (
	ModeLive    Mode = "live"
	ModeOffline Mode = "offline"
)

// ErrUnexpectedVMState aborts a run when a VM is neither Running nor Stopped.
// Picking a migration mode for a VM in an unknown power state is unsafe to
// automate, so the whole run stops instead of skipping the row.
var ErrUnexpectedVMState = errors.New("unexpected VM state")

// Inventory is the remote capability the player depends on.
type Inventory interface {
	VolumeByID(ctx context.Context, id string) (cloudstack.VolumeAttrs, error)
	MigrateVolume(ctx context.Context, volumeID, storageID string, live bool) (string, error)
}

// ConfirmFunc answers a per-volume go/no-go question. It returns true to
// submit the migration and false to skip the row.
type ConfirmFunc func(prompt string) (bool, error)

// Player replays worklist rows.
type Player struct {
	Inventory Inventory
	Confirm   ConfirmFunc
	Receipts  *receipt.Writer
	Out       io.Writer
	Logger    *slog.Logger

	// Now stamps receipt lines; defaults to time.Now.
	Now func() time.Time
}

// Play processes the rows in order. The row's own fields are used only for
// logging; migration decisions rest on the volume's freshly fetched state.
// A skipped row continues the run, any error aborts it.
func (p *Player) Play(ctx context.Context, rows []worklist.Record, destStorageID, destStorageName string) error {
	logger := logging.NewComponentLogger(p.Logger, "player")
	now := p.Now
	if now == nil {
		now = time.Now
	}

	for _, row := range rows {
		attrs, err := p.Inventory.VolumeByID(ctx, row.ID)
		if err != nil {
			return fmt.Errorf("resolve volume %s: %w", row.ID, err)
		}
		current, err := worklist.Normalize(attrs)
		if err != nil {
			return fmt.Errorf("volume %s: %w", row.ID, err)
		}

		var mode Mode
		switch current.VMState {
		case "Running":
			mode = ModeLive
		case "Stopped":
			mode = ModeOffline
		default:
			return fmt.Errorf("volume %s (%s): %w %q", current.ID, current.Name, ErrUnexpectedVMState, current.VMState)
		}

		fmt.Fprintln(p.Out, "----------------------------------")
		fmt.Fprintf(p.Out, "Please confirm migration (%-7s): %-25s %-17s %8s GiB  from %-20s to %-20s  VM is %s, volume is %s\n",
			mode, current.VMName, current.Name, formatGiB(current.Size),
			current.Storage, destStorageName, current.VMState, current.State)

		confirmed, err := p.Confirm("Enter yes or no: ")
		if err != nil {
			return fmt.Errorf("confirm volume %s: %w", current.ID, err)
		}
		if !confirmed {
			fmt.Fprintf(p.Out, "Skipping %s-%s\n", current.VMName, current.Name)
			logger.Info("skipped volume",
				slog.String("volume", current.ID),
				slog.String("name", current.Name))
			continue
		}

		fmt.Fprintln(p.Out, "Yes! Migrating....")
		jobID, err := p.Inventory.MigrateVolume(ctx, current.ID, destStorageID, mode == ModeLive)
		if err != nil {
			return fmt.Errorf("migrate volume %s: %w", current.ID, err)
		}
		if err := p.Receipts.Append(current.ID, jobID, now()); err != nil {
			return fmt.Errorf("record receipt for volume %s: %w", current.ID, err)
		}
		logger.Info("migration submitted",
			slog.String("volume", current.ID),
			slog.String("name", current.Name),
			slog.String("mode", string(mode)),
			slog.String("job", jobID))
	}
	return nil
}

// formatGiB renders a byte count in GiB with one decimal, e.g. "10.0".
func formatGiB(size int64) string {
	return strconv.FormatFloat(float64(size)/(1<<30), 'f', 1, 64)
}
