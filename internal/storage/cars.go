package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/AhmedElsenosy/car-management-API/internal/core"
)

func (t *Tx) InsertCar(c core.Car) (core.Car, error) {
	res, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO cars (car_model, license_start, license_end) VALUES (?, ?, ?)`,
		c.CarModel, c.LicenseStart.String(), c.LicenseEnd.String())
	if err != nil {
		return core.Car{}, fmt.Errorf("insert car: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Car{}, fmt.Errorf("insert car id: %w", err)
	}
	c.ID = id
	return c, nil
}

func (t *Tx) GetCar(id int64) (core.Car, error) {
	row := t.tx.QueryRowContext(t.ctx,
		`SELECT id, car_model, license_start, license_end FROM cars WHERE id = ?`, id)
	return scanCar(row)
}

func (t *Tx) ListCars() ([]core.Car, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		`SELECT id, car_model, license_start, license_end FROM cars ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	defer rows.Close()

	var cars []core.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

func (t *Tx) UpdateCar(c core.Car) error {
	res, err := t.tx.ExecContext(t.ctx,
		`UPDATE cars SET car_model = ?, license_start = ?, license_end = ? WHERE id = ?`,
		c.CarModel, c.LicenseStart.String(), c.LicenseEnd.String(), c.ID)
	if err != nil {
		return fmt.Errorf("update car: %w", err)
	}
	return requireOneRow(res, "car")
}

func (t *Tx) DeleteCar(id int64) error {
	// daily entries, weekly summaries and maintenance entries go with the
	// car via ON DELETE CASCADE.
	res, err := t.tx.ExecContext(t.ctx, `DELETE FROM cars WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete car: %w", err)
	}
	return requireOneRow(res, "car")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCar(row rowScanner) (core.Car, error) {
	var (
		c          core.Car
		start, end string
	)
	if err := row.Scan(&c.ID, &c.CarModel, &start, &end); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Car{}, core.ErrNotFound
		}
		return core.Car{}, fmt.Errorf("scan car: %w", err)
	}
	var err error
	if c.LicenseStart, err = scanDate(start); err != nil {
		return core.Car{}, err
	}
	if c.LicenseEnd, err = scanDate(end); err != nil {
		return core.Car{}, err
	}
	return c, nil
}

func requireOneRow(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %s: %w", entity, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
