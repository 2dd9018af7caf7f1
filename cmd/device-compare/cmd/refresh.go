package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/device-compare/internal/catalog"
)

const refreshTimeout = 5 * time.Minute

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Reload the catalog from upstream once and store a snapshot",
	Long: "Runs a single catalog refresh under the scheduler lock. When another\n" +
		"replica holds the lock the command exits without refreshing.",
	RunE: runRefresh,
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), refreshTimeout)
	defer cancel()

	svcs, err := buildServices(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svcs.close(context.Background(), log)

	sched, err := catalog.NewScheduler(svcs.catalog, svcs.store, cfg.Schedule.RefreshInterval, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	ran, err := sched.RunRefresh(ctx)
	if err != nil {
		return fmt.Errorf("refreshing catalog: %w", err)
	}
	if !ran {
		log.Info("refresh skipped, lock held by another instance")
		return nil
	}

	info, _ := svcs.catalog.Info()
	log.Info("catalog refreshed", "products", info.Products, "loaded_at", info.LoadedAt)
	return nil
}
