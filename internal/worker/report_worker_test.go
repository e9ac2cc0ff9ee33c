package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/AhmedElsenosy/car-management-API/internal/amqp"
	"github.com/AhmedElsenosy/car-management-API/internal/core"
	"github.com/AhmedElsenosy/car-management-API/internal/report"
	"github.com/AhmedElsenosy/car-management-API/internal/services"
	"github.com/AhmedElsenosy/car-management-API/internal/sheets/memory"
)

// workerStore implements just the store methods the worker touches. The
// embedded interface panics on anything else, which is what we want in a
// test.
type workerStore struct {
	services.StoreTx

	car       core.Car
	summaries []core.WeeklySummary
	entries   []core.DailyEntry
	exported  []int64
	errored   []int64
}

func (s *workerStore) InTx(_ context.Context, fn func(tx services.StoreTx) error) error {
	return fn(s)
}

func (s *workerStore) GetCar(id int64) (core.Car, error) {
	if s.car.ID != id {
		return core.Car{}, core.ErrNotFound
	}
	return s.car, nil
}

func (s *workerStore) WeeklySummaryByWeek(carID int64, weekStart core.Date) (core.WeeklySummary, error) {
	for _, ws := range s.summaries {
		if ws.CarID == carID && ws.WeekStart.Equal(weekStart) {
			return ws, nil
		}
	}
	return core.WeeklySummary{}, core.ErrNotFound
}

func (s *workerStore) DailyEntriesByWeek(carID int64, weekStart core.Date) ([]core.DailyEntry, error) {
	var out []core.DailyEntry
	for _, e := range s.entries {
		if e.CarID == carID && e.WeekStart.Equal(weekStart) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *workerStore) PendingExportSummaries(limit int) ([]core.WeeklySummary, error) {
	if len(s.summaries) > limit {
		return s.summaries[:limit], nil
	}
	return s.summaries, nil
}

func (s *workerStore) MarkWeeklyExported(id int64) error {
	s.exported = append(s.exported, id)
	return nil
}

func (s *workerStore) MarkWeeklyExportError(id int64) error {
	s.errored = append(s.errored, id)
	return nil
}

type failingWriter struct{}

func (failingWriter) AppendWeeklyReport(context.Context, core.Car, report.WeeklyTotals) (string, error) {
	return "", errors.New("sheet unavailable")
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func testStore(t *testing.T) *workerStore {
	weekStart := mustDate(t, "2024-01-06")
	return &workerStore{
		car: core.Car{ID: 1, CarModel: "Isuzu NPR"},
		summaries: []core.WeeklySummary{{
			ID:            10,
			CarID:         1,
			WeekStart:     weekStart,
			WeekEnd:       weekStart.AddDays(6),
			OdometerStart: 1000,
			OdometerEnd:   1250,
			DriverSalary:  decimal.RequireFromString("200.00"),
			Custody:       decimal.RequireFromString("50.00"),
		}},
		entries: []core.DailyEntry{{
			ID:             1,
			CarID:          1,
			InspectionDate: mustDate(t, "2024-01-10"),
			WeekStart:      weekStart,
			Freight:        decimal.RequireFromString("1000.00"),
			Gas:            decimal.RequireFromString("80.00"),
		}},
	}
}

func TestHandleSyncMessage_ExportsRecomputedWeek(t *testing.T) {
	store := testStore(t)
	writer := memory.New()
	w := NewReportWorker(store, writer, 10)

	msg := &amqp.WeeklyReportSyncMessage{CarID: 1, WeekStart: "2024-01-06"}
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}

	rows := writer.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 exported row, got %d", len(rows))
	}
	if got := rows[0].Totals.NetRevenue.StringFixed(2); got != "770.00" {
		t.Errorf("expected recomputed net revenue 770.00, got %s", got)
	}
	if rows[0].Totals.Distance != 250 {
		t.Errorf("expected distance 250, got %d", rows[0].Totals.Distance)
	}
	if len(store.exported) != 1 || store.exported[0] != 10 {
		t.Errorf("expected summary 10 marked exported, got %v", store.exported)
	}
}

func TestHandleSyncMessage_MissingSummarySkips(t *testing.T) {
	store := testStore(t)
	writer := memory.New()
	w := NewReportWorker(store, writer, 10)

	msg := &amqp.WeeklyReportSyncMessage{CarID: 1, WeekStart: "2024-02-03"}
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("expected missing summary to be skipped, got %v", err)
	}
	if len(writer.Rows()) != 0 {
		t.Error("nothing should be exported for a missing summary")
	}
}

func TestHandleSyncMessage_BadWeekStart(t *testing.T) {
	w := NewReportWorker(testStore(t), memory.New(), 10)

	msg := &amqp.WeeklyReportSyncMessage{CarID: 1, WeekStart: "06-01-2024"}
	if err := w.HandleSyncMessage(context.Background(), msg); err == nil {
		t.Error("expected error for malformed week start")
	}
}

func TestProcessPendingExports_MarksErrorOnWriterFailure(t *testing.T) {
	store := testStore(t)
	w := NewReportWorker(store, failingWriter{}, 10)

	if err := w.ProcessPendingExports(context.Background()); err != nil {
		t.Fatalf("ProcessPendingExports: %v", err)
	}
	if len(store.errored) != 1 || store.errored[0] != 10 {
		t.Errorf("expected summary 10 marked errored, got %v", store.errored)
	}
	if len(store.exported) != 0 {
		t.Errorf("nothing should be marked exported, got %v", store.exported)
	}
}

func TestStartupSyncCheck_ExportsBacklog(t *testing.T) {
	store := testStore(t)
	writer := memory.New()
	w := NewReportWorker(store, writer, 10)

	if err := w.StartupSyncCheck(context.Background()); err != nil {
		t.Fatalf("StartupSyncCheck: %v", err)
	}
	if len(writer.Rows()) != 1 {
		t.Fatalf("expected 1 exported row, got %d", len(writer.Rows()))
	}
}
