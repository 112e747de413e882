package worklist

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"volmigrate/internal/cloudstack"
	"volmigrate/internal/logging"
)

// Inventory is the remote capability the builder depends on.
type Inventory interface {
	ListProjects(ctx context.Context) ([]cloudstack.Project, error)
	ListVolumes(ctx context.Context, opts cloudstack.VolumeListOptions) ([]cloudstack.VolumeAttrs, error)
}

// Builder collects volume records across projects.
type Builder struct {
	Inventory Inventory
	Logger    *slog.Logger
}

// Build returns the normalized records of every volume in scope. With a
// project filter the name is resolved by exact, case-sensitive match against
// the project listing; without one, every project is visited in name order and
// volumes with no project association are appended last. Records keep
// collection order here; the final sort happens in Write.
func (b *Builder) Build(ctx context.Context, projectFilter string) ([]Record, error) {
	logger := logging.NewComponentLogger(b.Logger, "worklist")

	projects, err := b.Inventory.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	if projectFilter != "" {
		projectID := ""
		for _, project := range projects {
			if project.Name == projectFilter {
				projectID = project.ID
				break
			}
		}
		if projectID == "" {
			names := make([]string, 0, len(projects))
			for _, project := range projects {
				names = append(names, project.Name)
			}
			sort.Strings(names)
			return nil, fmt.Errorf("project %q unknown; valid project names are: %s", projectFilter, strings.Join(names, ", "))
		}
		return b.collect(ctx, logger, projectFilter, cloudstack.VolumeListOptions{ProjectID: projectID}, nil)
	}

	slices.SortFunc(projects, func(a, b cloudstack.Project) int {
		return strings.Compare(a.Name, b.Name)
	})

	var records []Record
	for _, project := range projects {
		records, err = b.collect(ctx, logger, project.Name, cloudstack.VolumeListOptions{ProjectID: project.ID}, records)
		if err != nil {
			return nil, err
		}
	}
	// Volumes owned by plain accounts carry no project scope.
	return b.collect(ctx, logger, NotAvailable, cloudstack.VolumeListOptions{}, records)
}

func (b *Builder) collect(ctx context.Context, logger *slog.Logger, scope string, opts cloudstack.VolumeListOptions, records []Record) ([]Record, error) {
	volumes, err := b.Inventory.ListVolumes(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list volumes for project %q: %w", scope, err)
	}
	for _, raw := range volumes {
		record, err := Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("project %q: %w", scope, err)
		}
		records = append(records, record)
	}
	logger.Debug("collected volumes", slog.String("project", scope), slog.Int("count", len(volumes)))
	return records, nil
}
