package services

import (
	"errors"
	"fmt"

	"github.com/AhmedElsenosy/car-management-API/internal/core"
	"github.com/AhmedElsenosy/car-management-API/internal/log"
)

// MaintenanceSynchronizer keeps the maintenance ledger mirroring the daily
// entries. Only daily saves create or delete ledger rows; weekly saves may
// update the spare part type of rows that already exist. Both hooks run
// inside the transaction of the triggering write so the ledger can never be
// observed out of step with the entries.
type MaintenanceSynchronizer struct {
	logger *log.Logger
}

func NewMaintenanceSynchronizer(logger *log.Logger) *MaintenanceSynchronizer {
	return &MaintenanceSynchronizer{
		logger: logger.WithComponent(log.ComponentSync),
	}
}

// OnDailySaved reconciles the ledger row for the entry's (car, date) pair.
// A non-positive maintenance amount removes the row; a positive amount
// upserts it with the price mirrored and the spare part type copied from the
// week's summary description, or cleared when no summary exists yet.
func (s *MaintenanceSynchronizer) OnDailySaved(tx StoreTx, e core.DailyEntry) error {
	if !e.Maintenance.IsPositive() {
		if err := tx.DeleteMaintenanceByDate(e.CarID, e.InspectionDate); err != nil {
			return fmt.Errorf("sync maintenance ledger: %w", err)
		}
		return nil
	}

	sparePartType := ""
	summary, err := tx.WeeklySummaryByWeek(e.CarID, e.WeekStart)
	switch {
	case err == nil:
		sparePartType = summary.Description
	case errors.Is(err, core.ErrNotFound):
		// no summary yet, leave the spare part type empty
	default:
		return fmt.Errorf("sync maintenance ledger: %w", err)
	}

	rows, err := tx.MaintenanceByDate(e.CarID, e.InspectionDate)
	if err != nil {
		return fmt.Errorf("sync maintenance ledger: %w", err)
	}
	switch len(rows) {
	case 0:
		_, err := tx.InsertMaintenanceEntry(core.MaintenanceEntry{
			CarID:         e.CarID,
			Date:          e.InspectionDate,
			Price:         e.Maintenance,
			SparePartType: sparePartType,
		})
		if err != nil {
			return fmt.Errorf("sync maintenance ledger: %w", err)
		}
		s.logger.Debug("maintenance ledger row created",
			log.FieldCarID, e.CarID, log.FieldDate, e.InspectionDate.String())
	case 1:
		if err := tx.UpdateMaintenanceMirror(rows[0].ID, e.Maintenance, sparePartType); err != nil {
			return fmt.Errorf("sync maintenance ledger: %w", err)
		}
	default:
		s.logger.Error("multiple maintenance ledger rows for one day",
			log.FieldCarID, e.CarID, log.FieldDate, e.InspectionDate.String())
		return fmt.Errorf("sync maintenance ledger: %w", core.ErrConflict)
	}
	return nil
}

// OnWeeklySaved fans the summary description out to the maintenance ledger
// rows of the week's entries. It never creates rows; a day without a ledger
// row is one whose maintenance amount never went positive.
func (s *MaintenanceSynchronizer) OnWeeklySaved(tx StoreTx, ws core.WeeklySummary) error {
	entries, err := tx.DailyEntriesByWeek(ws.CarID, ws.WeekStart)
	if err != nil {
		return fmt.Errorf("sync maintenance ledger: %w", err)
	}
	for _, e := range entries {
		if !e.Maintenance.IsPositive() {
			continue
		}
		rows, err := tx.MaintenanceByDate(ws.CarID, e.InspectionDate)
		if err != nil {
			return fmt.Errorf("sync maintenance ledger: %w", err)
		}
		for _, row := range rows {
			if err := tx.UpdateMaintenanceSparePart(row.ID, ws.Description); err != nil {
				return fmt.Errorf("sync maintenance ledger: %w", err)
			}
		}
	}
	return nil
}
