package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AhmedElsenosy/car-management-API/internal/amqp"
	"github.com/AhmedElsenosy/car-management-API/internal/core"
	"github.com/AhmedElsenosy/car-management-API/internal/report"
	"github.com/AhmedElsenosy/car-management-API/internal/services"
	"github.com/AhmedElsenosy/car-management-API/internal/sheets"
)

// ReportWorker exports vehicle-week reports to the report sheet. Every export
// recomputes the week from the daily entries at handling time, so the row
// written always reflects the latest committed data, not the state at
// publish time.
type ReportWorker struct {
	store     services.Store
	writer    sheets.ReportWriter
	batchSize int
}

func NewReportWorker(store services.Store, writer sheets.ReportWriter, batchSize int) *ReportWorker {
	return &ReportWorker{
		store:     store,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single weekly report sync message from AMQP
func (w *ReportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.WeeklyReportSyncMessage) error {
	slog.InfoContext(ctx, "Processing weekly report sync message",
		"car_id", msg.CarID,
		"week_start", msg.WeekStart)

	weekStart, err := core.ParseDate(msg.WeekStart)
	if err != nil {
		return fmt.Errorf("parse week start: %w", err)
	}

	summary, err := w.loadSummary(ctx, msg.CarID, weekStart)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Summary or car removed since the message was published.
			slog.WarnContext(ctx, "Weekly summary no longer exists, skipping export",
				"car_id", msg.CarID, "week_start", msg.WeekStart)
			return nil
		}
		return err
	}

	return w.exportWeek(ctx, summary)
}

// ProcessPendingExports exports any summaries still marked pending.
// This is a backup mechanism in case AMQP messages are lost.
func (w *ReportWorker) ProcessPendingExports(ctx context.Context) error {
	pending, err := w.pendingSummaries(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending summaries: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending report exports", "count", len(pending))

	for _, summary := range pending {
		if err := w.exportWeek(ctx, summary); err != nil {
			slog.ErrorContext(ctx, "Failed to export weekly report",
				"car_id", summary.CarID,
				"week_start", summary.WeekStart.String(),
				"error", err)
		}
	}
	return nil
}

// StartupSyncCheck exports summaries left pending by missed messages or
// worker downtime.
func (w *ReportWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.pendingSummaries(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending summaries for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending report exports found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending report exports on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, summary := range pending {
		if err := w.exportWeek(ctx, summary); err != nil {
			slog.ErrorContext(ctx, "Failed to export weekly report during startup",
				"car_id", summary.CarID,
				"week_start", summary.WeekStart.String(),
				"error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"exported", successCount,
		"errors", errorCount)

	return nil
}

func (w *ReportWorker) loadSummary(ctx context.Context, carID int64, weekStart core.Date) (core.WeeklySummary, error) {
	var summary core.WeeklySummary
	err := w.store.InTx(ctx, func(tx services.StoreTx) error {
		if _, err := tx.GetCar(carID); err != nil {
			return err
		}
		var err error
		summary, err = tx.WeeklySummaryByWeek(carID, weekStart)
		return err
	})
	return summary, err
}

func (w *ReportWorker) pendingSummaries(ctx context.Context, limit int) ([]core.WeeklySummary, error) {
	var pending []core.WeeklySummary
	err := w.store.InTx(ctx, func(tx services.StoreTx) error {
		var err error
		pending, err = tx.PendingExportSummaries(limit)
		return err
	})
	return pending, err
}

// exportWeek recomputes the week inside one transaction, appends the report
// row and flips the export flag. The append happens between the read
// transaction and the mark so a crash can only leave the row pending, never
// falsely exported.
func (w *ReportWorker) exportWeek(ctx context.Context, summary core.WeeklySummary) error {
	var (
		car    core.Car
		totals report.WeeklyTotals
	)
	err := w.store.InTx(ctx, func(tx services.StoreTx) error {
		var err error
		car, err = tx.GetCar(summary.CarID)
		if err != nil {
			return err
		}
		entries, err := tx.DailyEntriesByWeek(summary.CarID, summary.WeekStart)
		if err != nil {
			return err
		}
		totals = report.ComputeWeek(summary.WeekStart, entries, report.InputsFrom(summary))
		return nil
	})
	if err != nil {
		return fmt.Errorf("recompute week: %w", err)
	}

	ref, err := w.writer.AppendWeeklyReport(ctx, car, totals)
	if err != nil {
		if markErr := w.markError(ctx, summary.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error",
				"id", summary.ID, "error", markErr)
		}
		return fmt.Errorf("append report row: %w", err)
	}

	if err := w.markExported(ctx, summary.ID); err != nil {
		// Don't fail here, the export actually worked.
		slog.ErrorContext(ctx, "Failed to mark summary as exported",
			"id", summary.ID, "error", err)
	}

	slog.InfoContext(ctx, "Successfully exported weekly report",
		"car_id", summary.CarID,
		"week_start", summary.WeekStart.String(),
		"sheets_ref", ref)

	return nil
}

func (w *ReportWorker) markExported(ctx context.Context, id int64) error {
	return w.store.InTx(ctx, func(tx services.StoreTx) error {
		return tx.MarkWeeklyExported(id)
	})
}

func (w *ReportWorker) markError(ctx context.Context, id int64) error {
	return w.store.InTx(ctx, func(tx services.StoreTx) error {
		return tx.MarkWeeklyExportError(id)
	})
}
