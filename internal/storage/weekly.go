package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AhmedElsenosy/car-management-API/internal/core"
)

const weeklySummaryColumns = `id, car_id, week_start, week_end,
	odometer_start, odometer_end, driver_salary, custody, perished,
	description, net_expenses, net_revenue, default_net_revenue, net_driver,
	net_car`

func (t *Tx) WeeklySummaryByWeek(carID int64, weekStart core.Date) (core.WeeklySummary, error) {
	row := t.tx.QueryRowContext(t.ctx,
		`SELECT `+weeklySummaryColumns+` FROM weekly_summaries WHERE car_id = ? AND week_start = ?`,
		carID, weekStart.String())
	return scanWeeklySummary(row)
}

// UpsertWeeklySummary inserts or updates the week-level inputs for the
// (car, week_start) key. The UNIQUE constraint serializes concurrent upserts
// for the same week; the last writer's inputs win. Derived totals are
// written separately by UpdateWeeklyDerived after recomputation, and the row
// is re-marked pending for report export.
func (t *Tx) UpsertWeeklySummary(s core.WeeklySummary) (core.WeeklySummary, error) {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO weekly_summaries (
			car_id, week_start, week_end, odometer_start, odometer_end,
			driver_salary, custody, perished, description, exported
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT (car_id, week_start) DO UPDATE SET
			week_end = excluded.week_end,
			odometer_start = excluded.odometer_start,
			odometer_end = excluded.odometer_end,
			driver_salary = excluded.driver_salary,
			custody = excluded.custody,
			perished = excluded.perished,
			description = excluded.description,
			exported = 0,
			updated_at = CURRENT_TIMESTAMP`,
		s.CarID, s.WeekStart.String(), s.WeekEnd.String(),
		s.OdometerStart, s.OdometerEnd,
		fmtAmount(s.DriverSalary), fmtAmount(s.Custody), fmtAmount(s.Perished),
		s.Description)
	if err != nil {
		return core.WeeklySummary{}, fmt.Errorf("upsert weekly summary: %w", err)
	}
	return t.WeeklySummaryByWeek(s.CarID, s.WeekStart)
}

// UpdateWeeklyDerived stores the recomputed totals cache on the summary row.
func (t *Tx) UpdateWeeklyDerived(s core.WeeklySummary) error {
	res, err := t.tx.ExecContext(t.ctx, `
		UPDATE weekly_summaries SET
			net_expenses = ?, net_revenue = ?, default_net_revenue = ?,
			net_driver = ?, net_car = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		fmtAmount(s.NetExpenses), fmtAmount(s.NetRevenue),
		fmtAmount(s.DefaultNetRevenue), fmtAmount(s.NetDriver),
		fmtAmount(s.NetCar), s.ID)
	if err != nil {
		return fmt.Errorf("update weekly derived totals: %w", err)
	}
	return requireOneRow(res, "weekly summary")
}

func (t *Tx) WeeklySummariesStartingIn(carID int64, from, to core.Date) ([]core.WeeklySummary, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		`SELECT `+weeklySummaryColumns+` FROM weekly_summaries
		 WHERE car_id = ? AND week_start >= ? AND week_start <= ?
		 ORDER BY week_start`,
		carID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("query weekly summaries: %w", err)
	}
	defer rows.Close()
	return collectWeeklySummaries(rows)
}

func (t *Tx) PendingExportSummaries(limit int) ([]core.WeeklySummary, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		`SELECT `+weeklySummaryColumns+` FROM weekly_summaries
		 WHERE exported = 0 ORDER BY updated_at LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending export summaries: %w", err)
	}
	defer rows.Close()
	return collectWeeklySummaries(rows)
}

func (t *Tx) MarkWeeklyExported(id int64) error {
	res, err := t.tx.ExecContext(t.ctx,
		`UPDATE weekly_summaries SET exported = 1, export_error = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark weekly exported: %w", err)
	}
	return requireOneRow(res, "weekly summary")
}

func (t *Tx) MarkWeeklyExportError(id int64) error {
	res, err := t.tx.ExecContext(t.ctx,
		`UPDATE weekly_summaries SET export_error = export_error + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark weekly export error: %w", err)
	}
	return requireOneRow(res, "weekly summary")
}

func collectWeeklySummaries(rows *sql.Rows) ([]core.WeeklySummary, error) {
	var summaries []core.WeeklySummary
	for rows.Next() {
		s, err := scanWeeklySummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func scanWeeklySummary(row rowScanner) (core.WeeklySummary, error) {
	var (
		s              core.WeeklySummary
		wkStart, wkEnd string
		amounts        [8]string
	)
	if err := row.Scan(&s.ID, &s.CarID, &wkStart, &wkEnd,
		&s.OdometerStart, &s.OdometerEnd,
		&amounts[0], &amounts[1], &amounts[2], &s.Description,
		&amounts[3], &amounts[4], &amounts[5], &amounts[6], &amounts[7]); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.WeeklySummary{}, core.ErrNotFound
		}
		return core.WeeklySummary{}, fmt.Errorf("scan weekly summary: %w", err)
	}

	var err error
	if s.WeekStart, err = scanDate(wkStart); err != nil {
		return core.WeeklySummary{}, err
	}
	if s.WeekEnd, err = scanDate(wkEnd); err != nil {
		return core.WeeklySummary{}, err
	}
	for i, dst := range []*decimal.Decimal{
		&s.DriverSalary, &s.Custody, &s.Perished, &s.NetExpenses,
		&s.NetRevenue, &s.DefaultNetRevenue, &s.NetDriver, &s.NetCar,
	} {
		if *dst, err = scanAmount(amounts[i]); err != nil {
			return core.WeeklySummary{}, err
		}
	}
	return s, nil
}
