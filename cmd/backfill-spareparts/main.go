// Command backfill-spareparts rewrites the spare part type of every
// maintenance ledger row from its week's summary description. Run it once
// after importing historical data, or whenever the ledger drifted while the
// synchronizer was disabled.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/AhmedElsenosy/car-management-API/internal/cli"
	"github.com/AhmedElsenosy/car-management-API/internal/core"
	"github.com/AhmedElsenosy/car-management-API/internal/log"
	"github.com/AhmedElsenosy/car-management-API/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentSync)

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitRepository(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	var updated, cleared, skipped int
	err := repo.InTx(context.Background(), func(tx services.StoreTx) error {
		entries, err := tx.AllMaintenanceEntries()
		if err != nil {
			return err
		}

		for _, e := range entries {
			summary, err := tx.WeeklySummaryByWeek(e.CarID, e.Date.WeekStart())
			switch {
			case err == nil:
				if summary.Description == e.SparePartType {
					skipped++
					continue
				}
				if err := tx.UpdateMaintenanceSparePart(e.ID, summary.Description); err != nil {
					return err
				}
				updated++
			case errors.Is(err, core.ErrNotFound):
				// No summary for that week, clear any stale description.
				if e.SparePartType == "" {
					skipped++
					continue
				}
				if err := tx.UpdateMaintenanceSparePart(e.ID, ""); err != nil {
					return err
				}
				cleared++
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Backfill failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Backfill complete", "updated", updated, "cleared", cleared, "unchanged", skipped)
}
