package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AhmedElsenosy/car-management-API/internal/cache"
	"github.com/AhmedElsenosy/car-management-API/internal/core"
	"github.com/AhmedElsenosy/car-management-API/internal/log"
	"github.com/AhmedElsenosy/car-management-API/internal/report"
)

// ReportPublisher announces that a week's report needs re-exporting. A nil
// publisher disables export notifications without touching the write path.
type ReportPublisher interface {
	PublishWeeklySync(ctx context.Context, carID int64, weekStart core.Date) error
}

// FleetService orchestrates car, daily entry, weekly summary and maintenance
// operations over the store. Every multi-read computation runs inside a
// single store transaction so results never mix pre- and post-write state.
type FleetService struct {
	store     Store
	sync      *MaintenanceSynchronizer
	publisher ReportPublisher
	logger    *log.Logger

	// Monthly totals are memoized per car. Cache keys embed a per-car
	// generation that every write bumps, so an invalidated entry simply
	// becomes unreachable and ages out of the LRU.
	reports cache.Cache[report.MonthlyTotals]
	genMu   sync.Mutex
	gens    map[int64]uint64
}

func NewFleetService(store Store, sync *MaintenanceSynchronizer, publisher ReportPublisher, logger *log.Logger) *FleetService {
	return &FleetService{
		store:     store,
		sync:      sync,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentFleet),
		reports:   cache.NewLRUCache[report.MonthlyTotals](256, 5*time.Minute),
		gens:      make(map[int64]uint64),
	}
}

func (s *FleetService) monthlyKey(carID int64, year, month int) string {
	s.genMu.Lock()
	gen := s.gens[carID]
	s.genMu.Unlock()
	return fmt.Sprintf("monthly:%d:%d:%d:%02d", carID, gen, year, month)
}

func (s *FleetService) invalidateReports(carID int64) {
	s.genMu.Lock()
	s.gens[carID]++
	s.genMu.Unlock()
}

// WeeklyInput carries the week-level figures submitted for a car. Date may
// be any day inside the target week; the week boundary is derived from it.
type WeeklyInput struct {
	CarID         int64           `json:"car_id"`
	Date          core.Date       `json:"date"`
	OdometerStart int64           `json:"odometer_start"`
	OdometerEnd   int64           `json:"odometer_end"`
	DriverSalary  decimal.Decimal `json:"driver_salary"`
	Custody       decimal.Decimal `json:"custody"`
	Perished      decimal.Decimal `json:"perished"`
	Description   string          `json:"description"`
}

// WeeklyDetail pairs the stored summary row with totals recomputed from the
// current daily entries.
type WeeklyDetail struct {
	Summary core.WeeklySummary  `json:"summary"`
	Totals  report.WeeklyTotals `json:"totals"`
}

func (s *FleetService) CreateCar(ctx context.Context, c core.Car) (core.Car, error) {
	if err := c.Validate(); err != nil {
		return core.Car{}, err
	}
	err := s.store.InTx(ctx, func(tx StoreTx) error {
		var err error
		c, err = tx.InsertCar(c)
		return err
	})
	if err != nil {
		return core.Car{}, err
	}
	s.logger.InfoContext(ctx, "car created", log.FieldCarID, c.ID)
	return c, nil
}

func (s *FleetService) GetCar(ctx context.Context, id int64) (core.Car, error) {
	var c core.Car
	err := s.store.InTx(ctx, func(tx StoreTx) error {
		var err error
		c, err = tx.GetCar(id)
		return err
	})
	return c, err
}

func (s *FleetService) ListCars(ctx context.Context) ([]core.Car, error) {
	var cars []core.Car
	err := s.store.InTx(ctx, func(tx StoreTx) error {
		var err error
		cars, err = tx.ListCars()
		return err
	})
	return cars, err
}

func (s *FleetService) UpdateCar(ctx context.Context, c core.Car) (core.Car, error) {
	if err := c.Validate(); err != nil {
		return core.Car{}, err
	}
	err := s.store.InTx(ctx, func(tx StoreTx) error {
		return tx.UpdateCar(c)
	})
	return c, err
}

// DeleteCar removes the car and, through the schema's cascade, all of its
// daily entries, weekly summaries and maintenance entries.
func (s *FleetService) DeleteCar(ctx context.Context, id int64) error {
	err := s.store.InTx(ctx, func(tx StoreTx) error {
		return tx.DeleteCar(id)
	})
	if err != nil {
		return err
	}
	s.invalidateReports(id)
	s.logger.InfoContext(ctx, "car deleted", log.FieldCarID, id)
	return nil
}

// CreateDailyEntry stores a new daily entry. Weekday and week start are
// derived from the inspection date, overriding whatever the caller sent, and
// the maintenance ledger is reconciled in the same transaction.
func (s *FleetService) CreateDailyEntry(ctx context.Context, e core.DailyEntry) (core.DailyEntry, error) {
	if err := e.Validate(); err != nil {
		return core.DailyEntry{}, err
	}
	e.WeekStart = e.InspectionDate.WeekStart()
	e.Weekday = e.InspectionDate.WeekdayName()

	err := s.store.InTx(ctx, func(tx StoreTx) error {
		if _, err := tx.GetCar(e.CarID); err != nil {
			return fmt.Errorf("car %d: %w", e.CarID, err)
		}
		var err error
		if e, err = tx.InsertDailyEntry(e); err != nil {
			return err
		}
		return s.sync.OnDailySaved(tx, e)
	})
	if err != nil {
		return core.DailyEntry{}, err
	}
	s.invalidateReports(e.CarID)
	return e, nil
}

// UpdateDailyEntryByDate replaces the single entry recorded for a (car, date)
// pair. Zero matches is NotFound; more than one signals an upstream invariant
// violation and is reported as Conflict rather than silently picking one.
func (s *FleetService) UpdateDailyEntryByDate(ctx context.Context, carID int64, date core.Date, e core.DailyEntry) (core.DailyEntry, error) {
	e.CarID = carID
	e.InspectionDate = date
	if err := e.Validate(); err != nil {
		return core.DailyEntry{}, err
	}
	e.WeekStart = date.WeekStart()
	e.Weekday = date.WeekdayName()

	err := s.store.InTx(ctx, func(tx StoreTx) error {
		rows, err := tx.DailyEntriesByDate(carID, date)
		if err != nil {
			return err
		}
		switch len(rows) {
		case 0:
			return core.ErrNotFound
		case 1:
			e.ID = rows[0].ID
		default:
			return fmt.Errorf("%d daily entries for car %d on %s: %w",
				len(rows), carID, date, core.ErrConflict)
		}
		if err := tx.UpdateDailyEntry(e); err != nil {
			return err
		}
		return s.sync.OnDailySaved(tx, e)
	})
	if err != nil {
		return core.DailyEntry{}, err
	}
	s.invalidateReports(carID)
	return e, nil
}

// UpsertWeekly creates or replaces the week-level inputs for the week
// containing in.Date, recomputes the derived totals from the current daily
// entries and fans the description out to the maintenance ledger, all in one
// transaction. On success a report sync message is published; publish
// failures are logged and do not fail the request since the data is already
// committed.
func (s *FleetService) UpsertWeekly(ctx context.Context, in WeeklyInput) (WeeklyDetail, error) {
	if in.Date.IsZero() {
		return WeeklyDetail{}, &core.ValidationError{Field: "date", Message: "required"}
	}
	weekStart := in.Date.WeekStart()
	ws := core.WeeklySummary{
		CarID:         in.CarID,
		WeekStart:     weekStart,
		WeekEnd:       weekStart.AddDays(6),
		OdometerStart: in.OdometerStart,
		OdometerEnd:   in.OdometerEnd,
		DriverSalary:  in.DriverSalary,
		Custody:       in.Custody,
		Perished:      in.Perished,
		Description:   in.Description,
	}
	if err := ws.Validate(); err != nil {
		return WeeklyDetail{}, err
	}

	var detail WeeklyDetail
	err := s.store.InTx(ctx, func(tx StoreTx) error {
		if _, err := tx.GetCar(ws.CarID); err != nil {
			return fmt.Errorf("car %d: %w", ws.CarID, err)
		}
		stored, err := tx.UpsertWeeklySummary(ws)
		if err != nil {
			return err
		}
		entries, err := tx.DailyEntriesByWeek(ws.CarID, weekStart)
		if err != nil {
			return err
		}
		totals := report.ComputeWeek(weekStart, entries, report.InputsFrom(stored))
		stored.NetExpenses = totals.NetExpenses
		stored.NetRevenue = totals.NetRevenue
		stored.DefaultNetRevenue = totals.DefaultNetRevenue
		stored.NetDriver = totals.NetDriver
		stored.NetCar = totals.NetCar
		if err := tx.UpdateWeeklyDerived(stored); err != nil {
			return err
		}
		if err := s.sync.OnWeeklySaved(tx, stored); err != nil {
			return err
		}
		detail = WeeklyDetail{Summary: stored, Totals: totals}
		return nil
	})
	if err != nil {
		return WeeklyDetail{}, err
	}
	s.invalidateReports(detail.Summary.CarID)

	s.publishWeeklySync(ctx, detail.Summary.CarID, detail.Summary.WeekStart)
	return detail, nil
}

// UpdateWeeklyByDate replaces the inputs of an existing weekly summary. It
// differs from UpsertWeekly only in refusing to create the row: a week that
// was never submitted is NotFound.
func (s *FleetService) UpdateWeeklyByDate(ctx context.Context, in WeeklyInput) (WeeklyDetail, error) {
	if in.Date.IsZero() {
		return WeeklyDetail{}, &core.ValidationError{Field: "date", Message: "required"}
	}
	weekStart := in.Date.WeekStart()
	err := s.store.InTx(ctx, func(tx StoreTx) error {
		_, err := tx.WeeklySummaryByWeek(in.CarID, weekStart)
		return err
	})
	if err != nil {
		return WeeklyDetail{}, err
	}
	return s.UpsertWeekly(ctx, in)
}

// WeeklyDetail fetches the totals for the week containing date. When no
// summary row exists yet a zero-valued one is synthesized in memory; nothing
// is written on the read path.
func (s *FleetService) WeeklyDetail(ctx context.Context, carID int64, date core.Date) (WeeklyDetail, error) {
	weekStart := date.WeekStart()
	var detail WeeklyDetail
	err := s.store.InTx(ctx, func(tx StoreTx) error {
		if _, err := tx.GetCar(carID); err != nil {
			return fmt.Errorf("car %d: %w", carID, err)
		}
		summary, err := tx.WeeklySummaryByWeek(carID, weekStart)
		if err != nil {
			if !errors.Is(err, core.ErrNotFound) {
				return err
			}
			summary = core.WeeklySummary{
				CarID:     carID,
				WeekStart: weekStart,
				WeekEnd:   weekStart.AddDays(6),
			}
		}
		entries, err := tx.DailyEntriesByWeek(carID, weekStart)
		if err != nil {
			return err
		}
		detail = WeeklyDetail{
			Summary: summary,
			Totals:  report.ComputeWeek(weekStart, entries, report.InputsFrom(summary)),
		}
		return nil
	})
	return detail, err
}

// MonthlyDetail aggregates every week whose start falls inside the calendar
// month. Weeks spilling into the next month are counted in full; the daily
// bucket section is summed over the calendar month independently.
func (s *FleetService) MonthlyDetail(ctx context.Context, carID int64, year, month int) (report.MonthlyTotals, error) {
	if month < 1 || month > 12 {
		return report.MonthlyTotals{}, &core.ValidationError{Field: "month", Message: "must be between 1 and 12"}
	}
	key := s.monthlyKey(carID, year, month)
	if totals, ok := s.reports.Get(key); ok {
		return totals, nil
	}
	first, last := core.MonthPeriod(year, time.Month(month))

	var totals report.MonthlyTotals
	err := s.store.InTx(ctx, func(tx StoreTx) error {
		if _, err := tx.GetCar(carID); err != nil {
			return fmt.Errorf("car %d: %w", carID, err)
		}
		summaries, err := tx.WeeklySummariesStartingIn(carID, first, last)
		if err != nil {
			return err
		}
		weeks := make([]report.WeekData, 0, len(summaries))
		for _, summary := range summaries {
			entries, err := tx.DailyEntriesByWeek(carID, summary.WeekStart)
			if err != nil {
				return err
			}
			weeks = append(weeks, report.WeekData{Summary: summary, Entries: entries})
		}
		monthEntries, err := tx.DailyEntriesInRange(carID, first, last)
		if err != nil {
			return err
		}
		totals = report.ComputeMonth(year, time.Month(month), weeks, monthEntries)
		return nil
	})
	if err != nil {
		return report.MonthlyTotals{}, err
	}
	s.reports.Set(key, totals)
	return totals, nil
}

// CreateMaintenance records or replaces the maintenance entry for a
// (car, date) pair. Price and spare part type belong to the ledger
// synchronizer; on an existing row the stored mirror values are preserved.
func (s *FleetService) CreateMaintenance(ctx context.Context, m core.MaintenanceEntry) (core.MaintenanceEntry, error) {
	if err := m.Validate(); err != nil {
		return core.MaintenanceEntry{}, err
	}
	err := s.store.InTx(ctx, func(tx StoreTx) error {
		if _, err := tx.GetCar(m.CarID); err != nil {
			return fmt.Errorf("car %d: %w", m.CarID, err)
		}
		rows, err := tx.MaintenanceByDate(m.CarID, m.Date)
		if err != nil {
			return err
		}
		switch len(rows) {
		case 0:
			m, err = tx.InsertMaintenanceEntry(m)
			return err
		case 1:
			m.ID = rows[0].ID
			m.Price = rows[0].Price
			m.SparePartType = rows[0].SparePartType
			return tx.UpdateMaintenanceEntry(m)
		default:
			return fmt.Errorf("%d maintenance entries for car %d on %s: %w",
				len(rows), m.CarID, m.Date, core.ErrConflict)
		}
	})
	if err != nil {
		return core.MaintenanceEntry{}, err
	}
	return m, nil
}

// UpdateMaintenanceByDate edits the user-owned sub-expense buckets of the
// single maintenance entry for (car, date).
func (s *FleetService) UpdateMaintenanceByDate(ctx context.Context, carID int64, date core.Date, m core.MaintenanceEntry) (core.MaintenanceEntry, error) {
	m.CarID = carID
	m.Date = date
	if err := m.Validate(); err != nil {
		return core.MaintenanceEntry{}, err
	}
	err := s.store.InTx(ctx, func(tx StoreTx) error {
		rows, err := tx.MaintenanceByDate(carID, date)
		if err != nil {
			return err
		}
		switch len(rows) {
		case 0:
			return core.ErrNotFound
		case 1:
			m.ID = rows[0].ID
			m.Price = rows[0].Price
			m.SparePartType = rows[0].SparePartType
			return tx.UpdateMaintenanceEntry(m)
		default:
			return fmt.Errorf("%d maintenance entries for car %d on %s: %w",
				len(rows), carID, date, core.ErrConflict)
		}
	})
	if err != nil {
		return core.MaintenanceEntry{}, err
	}
	return m, nil
}

// MaintenanceByYear lists a car's maintenance entries for a calendar year in
// date order.
func (s *FleetService) MaintenanceByYear(ctx context.Context, carID int64, year int) ([]core.MaintenanceEntry, error) {
	var entries []core.MaintenanceEntry
	err := s.store.InTx(ctx, func(tx StoreTx) error {
		if _, err := tx.GetCar(carID); err != nil {
			return fmt.Errorf("car %d: %w", carID, err)
		}
		var err error
		entries, err = tx.MaintenanceByYear(carID, year)
		return err
	})
	return entries, err
}

func (s *FleetService) publishWeeklySync(ctx context.Context, carID int64, weekStart core.Date) {
	if s.publisher == nil {
		s.logger.WarnContext(ctx, "report publisher not available, skipping sync message",
			log.FieldCarID, carID, log.FieldWeekStart, weekStart.String())
		return
	}
	if err := s.publisher.PublishWeeklySync(ctx, carID, weekStart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish weekly sync message",
			log.FieldCarID, carID, log.FieldWeekStart, weekStart.String(),
			log.FieldError, err)
	}
}
