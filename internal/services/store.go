package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/AhmedElsenosy/car-management-API/internal/core"
)

// Store is the persistence port consumed by the fleet service and the
// maintenance synchronizer. Every operation runs inside a transaction so a
// single computation always reads one consistent snapshot; the callback's
// error aborts the transaction.
type Store interface {
	InTx(ctx context.Context, fn func(tx StoreTx) error) error
}

// StoreTx exposes the row-level operations available inside a transaction.
// Lookups that can legitimately match nothing return core.ErrNotFound;
// list operations return empty slices, never errors, for empty results.
type StoreTx interface {
	// cars
	InsertCar(c core.Car) (core.Car, error)
	GetCar(id int64) (core.Car, error)
	ListCars() ([]core.Car, error)
	UpdateCar(c core.Car) error
	DeleteCar(id int64) error

	// daily entries
	InsertDailyEntry(e core.DailyEntry) (core.DailyEntry, error)
	UpdateDailyEntry(e core.DailyEntry) error
	DailyEntriesByDate(carID int64, date core.Date) ([]core.DailyEntry, error)
	DailyEntriesByWeek(carID int64, weekStart core.Date) ([]core.DailyEntry, error)
	DailyEntriesInRange(carID int64, from, to core.Date) ([]core.DailyEntry, error)

	// weekly summaries
	WeeklySummaryByWeek(carID int64, weekStart core.Date) (core.WeeklySummary, error)
	UpsertWeeklySummary(s core.WeeklySummary) (core.WeeklySummary, error)
	UpdateWeeklyDerived(s core.WeeklySummary) error
	WeeklySummariesStartingIn(carID int64, from, to core.Date) ([]core.WeeklySummary, error)

	// weekly report export state
	PendingExportSummaries(limit int) ([]core.WeeklySummary, error)
	MarkWeeklyExported(id int64) error
	MarkWeeklyExportError(id int64) error

	// maintenance entries
	MaintenanceByDate(carID int64, date core.Date) ([]core.MaintenanceEntry, error)
	InsertMaintenanceEntry(m core.MaintenanceEntry) (core.MaintenanceEntry, error)
	UpdateMaintenanceEntry(m core.MaintenanceEntry) error
	UpdateMaintenanceMirror(id int64, price decimal.Decimal, sparePartType string) error
	UpdateMaintenanceSparePart(id int64, sparePartType string) error
	DeleteMaintenanceByDate(carID int64, date core.Date) error
	MaintenanceByYear(carID int64, year int) ([]core.MaintenanceEntry, error)
	AllMaintenanceEntries() ([]core.MaintenanceEntry, error)
}
