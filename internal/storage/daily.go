package storage

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AhmedElsenosy/car-management-API/internal/core"
)

const dailyEntryColumns = `id, car_id, inspection_date, weekday, week_start,
	driver_name, area, freight, default_freight, gas, oil, card, fines, tips,
	maintenance, spare_parts, tires, balance, washing, without, driver_expenses`

func (t *Tx) InsertDailyEntry(e core.DailyEntry) (core.DailyEntry, error) {
	res, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO daily_entries (
			car_id, inspection_date, weekday, week_start, driver_name, area,
			freight, default_freight, gas, oil, card, fines, tips,
			maintenance, spare_parts, tires, balance, washing, without,
			driver_expenses
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.CarID, e.InspectionDate.String(), e.Weekday, e.WeekStart.String(),
		e.DriverName, e.Area,
		fmtAmount(e.Freight), fmtAmount(e.DefaultFreight), fmtAmount(e.Gas),
		fmtAmount(e.Oil), fmtAmount(e.Card), fmtAmount(e.Fines),
		fmtAmount(e.Tips), fmtAmount(e.Maintenance), fmtAmount(e.SpareParts),
		fmtAmount(e.Tires), fmtAmount(e.Balance), fmtAmount(e.Washing),
		fmtAmount(e.Without), fmtAmount(e.DriverExpenses))
	if err != nil {
		return core.DailyEntry{}, fmt.Errorf("insert daily entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.DailyEntry{}, fmt.Errorf("insert daily entry id: %w", err)
	}
	e.ID = id
	return e, nil
}

func (t *Tx) UpdateDailyEntry(e core.DailyEntry) error {
	res, err := t.tx.ExecContext(t.ctx, `
		UPDATE daily_entries SET
			inspection_date = ?, weekday = ?, week_start = ?, driver_name = ?,
			area = ?, freight = ?, default_freight = ?, gas = ?, oil = ?,
			card = ?, fines = ?, tips = ?, maintenance = ?, spare_parts = ?,
			tires = ?, balance = ?, washing = ?, without = ?,
			driver_expenses = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		e.InspectionDate.String(), e.Weekday, e.WeekStart.String(),
		e.DriverName, e.Area,
		fmtAmount(e.Freight), fmtAmount(e.DefaultFreight), fmtAmount(e.Gas),
		fmtAmount(e.Oil), fmtAmount(e.Card), fmtAmount(e.Fines),
		fmtAmount(e.Tips), fmtAmount(e.Maintenance), fmtAmount(e.SpareParts),
		fmtAmount(e.Tires), fmtAmount(e.Balance), fmtAmount(e.Washing),
		fmtAmount(e.Without), fmtAmount(e.DriverExpenses), e.ID)
	if err != nil {
		return fmt.Errorf("update daily entry: %w", err)
	}
	return requireOneRow(res, "daily entry")
}

func (t *Tx) DailyEntriesByDate(carID int64, date core.Date) ([]core.DailyEntry, error) {
	return t.queryDailyEntries(
		`WHERE car_id = ? AND inspection_date = ? ORDER BY id`,
		carID, date.String())
}

func (t *Tx) DailyEntriesByWeek(carID int64, weekStart core.Date) ([]core.DailyEntry, error) {
	return t.queryDailyEntries(
		`WHERE car_id = ? AND week_start = ? ORDER BY inspection_date, id`,
		carID, weekStart.String())
}

func (t *Tx) DailyEntriesInRange(carID int64, from, to core.Date) ([]core.DailyEntry, error) {
	return t.queryDailyEntries(
		`WHERE car_id = ? AND inspection_date >= ? AND inspection_date <= ? ORDER BY inspection_date, id`,
		carID, from.String(), to.String())
}

func (t *Tx) queryDailyEntries(where string, args ...any) ([]core.DailyEntry, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		`SELECT `+dailyEntryColumns+` FROM daily_entries `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily entries: %w", err)
	}
	defer rows.Close()

	var entries []core.DailyEntry
	for rows.Next() {
		e, err := scanDailyEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanDailyEntry(row rowScanner) (core.DailyEntry, error) {
	var (
		e                       core.DailyEntry
		inspectionDate, wkStart string
		amounts                 [14]string
	)
	if err := row.Scan(&e.ID, &e.CarID, &inspectionDate, &e.Weekday, &wkStart,
		&e.DriverName, &e.Area,
		&amounts[0], &amounts[1], &amounts[2], &amounts[3], &amounts[4],
		&amounts[5], &amounts[6], &amounts[7], &amounts[8], &amounts[9],
		&amounts[10], &amounts[11], &amounts[12], &amounts[13]); err != nil {
		return core.DailyEntry{}, fmt.Errorf("scan daily entry: %w", err)
	}

	var err error
	if e.InspectionDate, err = scanDate(inspectionDate); err != nil {
		return core.DailyEntry{}, err
	}
	if e.WeekStart, err = scanDate(wkStart); err != nil {
		return core.DailyEntry{}, err
	}
	for i, dst := range []*decimal.Decimal{
		&e.Freight, &e.DefaultFreight, &e.Gas, &e.Oil, &e.Card,
		&e.Fines, &e.Tips, &e.Maintenance, &e.SpareParts, &e.Tires,
		&e.Balance, &e.Washing, &e.Without, &e.DriverExpenses,
	} {
		if *dst, err = scanAmount(amounts[i]); err != nil {
			return core.DailyEntry{}, err
		}
	}
	return e, nil
}
