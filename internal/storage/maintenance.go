package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AhmedElsenosy/car-management-API/internal/core"
)

const maintenanceColumns = `id, car_id, date, air_filter, oil_filter,
	gas_filter, oil_change, price, spare_part_type`

func (t *Tx) MaintenanceByDate(carID int64, date core.Date) ([]core.MaintenanceEntry, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_entries
		 WHERE car_id = ? AND date = ? ORDER BY id`,
		carID, date.String())
	if err != nil {
		return nil, fmt.Errorf("query maintenance entries: %w", err)
	}
	defer rows.Close()
	return collectMaintenanceEntries(rows)
}

func (t *Tx) InsertMaintenanceEntry(m core.MaintenanceEntry) (core.MaintenanceEntry, error) {
	res, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO maintenance_entries (
			car_id, date, air_filter, oil_filter, gas_filter, oil_change,
			price, spare_part_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.CarID, m.Date.String(),
		fmtAmount(m.AirFilter), fmtAmount(m.OilFilter),
		fmtAmount(m.GasFilter), fmtAmount(m.OilChange),
		fmtAmount(m.Price), m.SparePartType)
	if err != nil {
		return core.MaintenanceEntry{}, fmt.Errorf("insert maintenance entry: %w", err)
	}
	m.ID, err = res.LastInsertId()
	if err != nil {
		return core.MaintenanceEntry{}, fmt.Errorf("insert maintenance entry: %w", err)
	}
	return m, nil
}

func (t *Tx) UpdateMaintenanceEntry(m core.MaintenanceEntry) error {
	res, err := t.tx.ExecContext(t.ctx, `
		UPDATE maintenance_entries SET
			date = ?, air_filter = ?, oil_filter = ?, gas_filter = ?,
			oil_change = ?, price = ?, spare_part_type = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		m.Date.String(),
		fmtAmount(m.AirFilter), fmtAmount(m.OilFilter),
		fmtAmount(m.GasFilter), fmtAmount(m.OilChange),
		fmtAmount(m.Price), m.SparePartType, m.ID)
	if err != nil {
		return fmt.Errorf("update maintenance entry: %w", err)
	}
	return requireOneRow(res, "maintenance entry")
}

// UpdateMaintenanceMirror refreshes only the fields the ledger mirrors from
// daily entries, leaving the user-editable filter sub-buckets untouched.
func (t *Tx) UpdateMaintenanceMirror(id int64, price decimal.Decimal, sparePartType string) error {
	res, err := t.tx.ExecContext(t.ctx, `
		UPDATE maintenance_entries SET
			price = ?, spare_part_type = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		fmtAmount(price), sparePartType, id)
	if err != nil {
		return fmt.Errorf("update maintenance mirror: %w", err)
	}
	return requireOneRow(res, "maintenance entry")
}

func (t *Tx) UpdateMaintenanceSparePart(id int64, sparePartType string) error {
	res, err := t.tx.ExecContext(t.ctx, `
		UPDATE maintenance_entries SET
			spare_part_type = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		sparePartType, id)
	if err != nil {
		return fmt.Errorf("update maintenance spare part: %w", err)
	}
	return requireOneRow(res, "maintenance entry")
}

func (t *Tx) DeleteMaintenanceByDate(carID int64, date core.Date) error {
	_, err := t.tx.ExecContext(t.ctx,
		`DELETE FROM maintenance_entries WHERE car_id = ? AND date = ?`,
		carID, date.String())
	if err != nil {
		return fmt.Errorf("delete maintenance entries: %w", err)
	}
	return nil
}

func (t *Tx) MaintenanceByYear(carID int64, year int) ([]core.MaintenanceEntry, error) {
	from := core.NewDate(year, time.January, 1)
	to := core.NewDate(year, time.December, 31)
	rows, err := t.tx.QueryContext(t.ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_entries
		 WHERE car_id = ? AND date >= ? AND date <= ? ORDER BY date, id`,
		carID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("query maintenance by year: %w", err)
	}
	defer rows.Close()
	return collectMaintenanceEntries(rows)
}

func (t *Tx) AllMaintenanceEntries() ([]core.MaintenanceEntry, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_entries ORDER BY car_id, date, id`)
	if err != nil {
		return nil, fmt.Errorf("query all maintenance entries: %w", err)
	}
	defer rows.Close()
	return collectMaintenanceEntries(rows)
}

func collectMaintenanceEntries(rows *sql.Rows) ([]core.MaintenanceEntry, error) {
	var entries []core.MaintenanceEntry
	for rows.Next() {
		m, err := scanMaintenanceEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, m)
	}
	return entries, rows.Err()
}

func scanMaintenanceEntry(row rowScanner) (core.MaintenanceEntry, error) {
	var (
		m       core.MaintenanceEntry
		date    string
		amounts [5]string
	)
	if err := row.Scan(&m.ID, &m.CarID, &date,
		&amounts[0], &amounts[1], &amounts[2], &amounts[3], &amounts[4],
		&m.SparePartType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.MaintenanceEntry{}, core.ErrNotFound
		}
		return core.MaintenanceEntry{}, fmt.Errorf("scan maintenance entry: %w", err)
	}

	var err error
	if m.Date, err = scanDate(date); err != nil {
		return core.MaintenanceEntry{}, err
	}
	for i, dst := range []*decimal.Decimal{
		&m.AirFilter, &m.OilFilter, &m.GasFilter, &m.OilChange, &m.Price,
	} {
		if *dst, err = scanAmount(amounts[i]); err != nil {
			return core.MaintenanceEntry{}, err
		}
	}
	return m, nil
}
