package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Date is a calendar date at UTC midnight. All persistence and JSON
	// encoding uses the YYYY-MM-DD form.
	Date struct {
		time.Time
	}

	// Car is a tracked vehicle. Daily entries, weekly summaries and
	// maintenance entries all hang off a car and are removed with it.
	Car struct {
		ID           int64  `json:"id"`
		CarModel     string `json:"car_model"`
		LicenseStart Date   `json:"license_start"`
		LicenseEnd   Date   `json:"license_end"`
	}

	// DailyEntry is one vehicle-day of monetary activity. Weekday and
	// WeekStart are derived from InspectionDate on every save and are never
	// accepted from callers.
	DailyEntry struct {
		ID             int64  `json:"id"`
		CarID          int64  `json:"car_id"`
		InspectionDate Date   `json:"inspection_date"`
		Weekday        string `json:"weekday"`
		WeekStart      Date   `json:"week_start"`
		DriverName     string `json:"driver_name"`
		Area           string `json:"area"`

		Freight        decimal.Decimal `json:"freight"`
		DefaultFreight decimal.Decimal `json:"default_freight"`
		Gas            decimal.Decimal `json:"gas"`
		Oil            decimal.Decimal `json:"oil"`
		Card           decimal.Decimal `json:"card"`
		Fines          decimal.Decimal `json:"fines"`
		Tips           decimal.Decimal `json:"tips"`
		Maintenance    decimal.Decimal `json:"maintenance"`
		SpareParts     decimal.Decimal `json:"spare_parts"`
		Tires          decimal.Decimal `json:"tires"`
		Balance        decimal.Decimal `json:"balance"`
		Washing        decimal.Decimal `json:"washing"`
		Without        decimal.Decimal `json:"without"`
		DriverExpenses decimal.Decimal `json:"driver_expenses"`
	}

	// WeeklySummary holds the week-level inputs for a (car, week) pair and a
	// cache of the derived totals. The cached fields are advisory: reads
	// recompute from the current daily entries.
	WeeklySummary struct {
		ID            int64  `json:"id"`
		CarID         int64  `json:"car_id"`
		WeekStart     Date   `json:"week_start"`
		WeekEnd       Date   `json:"week_end"`
		OdometerStart int64  `json:"odometer_start"`
		OdometerEnd   int64  `json:"odometer_end"`
		Description   string `json:"description"`

		DriverSalary decimal.Decimal `json:"driver_salary"`
		Custody      decimal.Decimal `json:"custody"`
		Perished     decimal.Decimal `json:"perished"`

		NetExpenses       decimal.Decimal `json:"net_expenses"`
		NetRevenue        decimal.Decimal `json:"net_revenue"`
		DefaultNetRevenue decimal.Decimal `json:"default_net_revenue"`
		NetDriver         decimal.Decimal `json:"net_driver"`
		NetCar            decimal.Decimal `json:"net_car"`
	}

	// MaintenanceEntry mirrors a daily entry with maintenance spend. Price
	// and SparePartType are owned by the synchronizer; the sub-expense
	// buckets are user-editable.
	MaintenanceEntry struct {
		ID            int64  `json:"id"`
		CarID         int64  `json:"car_id"`
		Date          Date   `json:"date"`
		SparePartType string `json:"spare_part_type"`

		AirFilter decimal.Decimal `json:"air_filter"`
		OilFilter decimal.Decimal `json:"oil_filter"`
		GasFilter decimal.Decimal `json:"gas_filter"`
		OilChange decimal.Decimal `json:"oil_change"`
		Price     decimal.Decimal `json:"price"`
	}
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Message: "must be YYYY-MM-DD"}
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// AddDays returns the date shifted by the given number of days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool  { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool  { return d.Time.Equal(other.Time) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (c Car) Validate() error {
	if strings.TrimSpace(c.CarModel) == "" {
		return &ValidationError{Field: "car_model", Message: "must not be empty"}
	}
	if c.LicenseStart.IsZero() {
		return &ValidationError{Field: "license_start", Message: "required"}
	}
	if c.LicenseEnd.IsZero() {
		return &ValidationError{Field: "license_end", Message: "required"}
	}
	if c.LicenseEnd.Before(c.LicenseStart) {
		return &ValidationError{Field: "license_end", Message: "must not precede license_start"}
	}
	return nil
}

// expenseBuckets returns the buckets that count toward weekly expenses.
// Freight and DefaultFreight are revenue and deliberately excluded.
func (e DailyEntry) expenseBuckets() []decimal.Decimal {
	return []decimal.Decimal{
		e.Gas, e.Oil, e.Card, e.Fines, e.Tips, e.Maintenance, e.SpareParts,
		e.Tires, e.Balance, e.Washing, e.Without, e.DriverExpenses,
	}
}

// ExpenseSum is the sum of all expense buckets of a single day.
func (e DailyEntry) ExpenseSum() decimal.Decimal {
	sum := decimal.Zero
	for _, b := range e.expenseBuckets() {
		sum = sum.Add(b)
	}
	return sum
}

func (e DailyEntry) Validate() error {
	if e.CarID <= 0 {
		return &ValidationError{Field: "car_id", Message: "required"}
	}
	if e.InspectionDate.IsZero() {
		return &ValidationError{Field: "inspection_date", Message: "required"}
	}
	for _, f := range []struct {
		name string
		v    decimal.Decimal
	}{
		{"freight", e.Freight}, {"default_freight", e.DefaultFreight},
		{"gas", e.Gas}, {"oil", e.Oil}, {"card", e.Card}, {"fines", e.Fines},
		{"tips", e.Tips}, {"maintenance", e.Maintenance},
		{"spare_parts", e.SpareParts}, {"tires", e.Tires},
		{"balance", e.Balance}, {"washing", e.Washing},
		{"without", e.Without}, {"driver_expenses", e.DriverExpenses},
	} {
		if f.v.IsNegative() {
			return &ValidationError{Field: f.name, Message: "must not be negative"}
		}
	}
	return nil
}

func (w WeeklySummary) Validate() error {
	if w.CarID <= 0 {
		return &ValidationError{Field: "car_id", Message: "required"}
	}
	if w.WeekStart.IsZero() {
		return &ValidationError{Field: "week_start", Message: "required"}
	}
	if w.OdometerStart < 0 || w.OdometerEnd < 0 {
		return &ValidationError{Field: "odometer", Message: "must not be negative"}
	}
	if w.DriverSalary.IsNegative() {
		return &ValidationError{Field: "driver_salary", Message: "must not be negative"}
	}
	if w.Custody.IsNegative() {
		return &ValidationError{Field: "custody", Message: "must not be negative"}
	}
	if w.Perished.IsNegative() {
		return &ValidationError{Field: "perished", Message: "must not be negative"}
	}
	return nil
}

func (m MaintenanceEntry) Validate() error {
	if m.CarID <= 0 {
		return &ValidationError{Field: "car_id", Message: "required"}
	}
	if m.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "required"}
	}
	for _, f := range []struct {
		name string
		v    decimal.Decimal
	}{
		{"air_filter", m.AirFilter}, {"oil_filter", m.OilFilter},
		{"gas_filter", m.GasFilter}, {"oil_change", m.OilChange},
		{"price", m.Price},
	} {
		if f.v.IsNegative() {
			return &ValidationError{Field: f.name, Message: "must not be negative"}
		}
	}
	return nil
}
