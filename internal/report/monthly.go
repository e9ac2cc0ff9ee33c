package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AhmedElsenosy/car-management-API/internal/core"
)

// WeekData pairs a stored weekly summary with the daily entries of its week,
// all read within one snapshot. ComputeMonth re-derives every week from this
// raw data instead of trusting the summary's cached totals.
type WeekData struct {
	Summary core.WeeklySummary
	Entries []core.DailyEntry
}

// MonthlyTotals is the derived result for one (car, calendar month) pair.
// Weeks are attributed to the month containing their start date, so a week
// spilling into the next month counts fully here; the Daily breakdown is
// scoped to the exact calendar period instead.
type MonthlyTotals struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	From  core.Date `json:"from"`
	To    core.Date `json:"to"`

	Weeks []WeeklyTotals `json:"weeks"`

	OdometerStart int64 `json:"odometer_start"`
	OdometerEnd   int64 `json:"odometer_end"`
	Distance      int64 `json:"distance"`

	DriverSalary      decimal.Decimal `json:"driver_salary"`
	Custody           decimal.Decimal `json:"custody"`
	Perished          decimal.Decimal `json:"perished"`
	NetExpenses       decimal.Decimal `json:"net_expenses"`
	NetRevenue        decimal.Decimal `json:"net_revenue"`
	DefaultNetRevenue decimal.Decimal `json:"default_net_revenue"`
	NetDriver         decimal.Decimal `json:"net_driver"`
	NetCar            decimal.Decimal `json:"net_car"`
	GasPerKM          decimal.Decimal `json:"gas_per_km"`

	// Daily sums every bucket of the entries whose inspection date falls
	// inside the calendar month, independent of week attribution.
	Daily BucketTotals `json:"daily"`
}

// ComputeMonth derives monthly totals from the weeks starting inside the
// month and the daily entries of the exact calendar period. A month with no
// matching weeks yields all-zero totals.
func ComputeMonth(year int, month time.Month, weeks []WeekData, monthEntries []core.DailyEntry) MonthlyTotals {
	first, last := core.MonthPeriod(year, month)

	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].Summary.WeekStart.Before(weeks[j].Summary.WeekStart)
	})

	m := MonthlyTotals{
		Year:              year,
		Month:             int(month),
		From:              first,
		To:                last,
		DriverSalary:      decimal.Zero,
		Custody:           decimal.Zero,
		Perished:          decimal.Zero,
		NetExpenses:       decimal.Zero,
		NetRevenue:        decimal.Zero,
		DefaultNetRevenue: decimal.Zero,
		NetDriver:         decimal.Zero,
		NetCar:            decimal.Zero,
		GasPerKM:          decimal.Zero,
		Daily:             SumBuckets(monthEntries),
	}

	totalGas := decimal.Zero
	for i, wd := range weeks {
		t := ComputeWeek(wd.Summary.WeekStart, wd.Entries, InputsFrom(wd.Summary))
		m.Weeks = append(m.Weeks, t)

		if i == 0 {
			m.OdometerStart = t.OdometerStart
		}
		m.OdometerEnd = t.OdometerEnd

		m.Distance += t.Distance
		m.DriverSalary = m.DriverSalary.Add(t.DriverSalary)
		m.Custody = m.Custody.Add(t.Custody)
		m.Perished = m.Perished.Add(t.Perished)
		m.NetExpenses = m.NetExpenses.Add(t.NetExpenses)
		m.NetRevenue = m.NetRevenue.Add(t.NetRevenue)
		m.DefaultNetRevenue = m.DefaultNetRevenue.Add(t.DefaultNetRevenue)
		m.NetDriver = m.NetDriver.Add(t.NetDriver)
		m.NetCar = m.NetCar.Add(t.NetCar)
		totalGas = totalGas.Add(t.Buckets.Gas)
	}

	if m.Distance > 0 {
		m.GasPerKM = core.Round4(totalGas.Div(decimal.NewFromInt(m.Distance)))
	}

	return m
}
