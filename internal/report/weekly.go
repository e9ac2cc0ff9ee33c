// Package report derives weekly and monthly financial totals from daily
// entries. The functions here are pure: they take everything they need as
// arguments and touch no storage, so the write path and the read path share
// one computation and cannot drift apart.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/AhmedElsenosy/car-management-API/internal/core"
)

// WeekInputs are the week-level figures submitted alongside the daily
// entries. A week with daily activity but no submitted inputs computes with
// the zero value.
type WeekInputs struct {
	OdometerStart int64
	OdometerEnd   int64
	DriverSalary  decimal.Decimal
	Custody       decimal.Decimal
	Perished      decimal.Decimal
}

// InputsFrom extracts the week inputs stored on a summary.
func InputsFrom(w core.WeeklySummary) WeekInputs {
	return WeekInputs{
		OdometerStart: w.OdometerStart,
		OdometerEnd:   w.OdometerEnd,
		DriverSalary:  w.DriverSalary,
		Custody:       w.Custody,
		Perished:      w.Perished,
	}
}

// BucketTotals holds per-bucket sums over a set of daily entries.
type BucketTotals struct {
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

// SumBuckets sums every monetary bucket across the given entries. An empty
// set yields zero for every bucket.
func SumBuckets(entries []core.DailyEntry) BucketTotals {
	t := BucketTotals{
		Freight: decimal.Zero, DefaultFreight: decimal.Zero, Gas: decimal.Zero,
		Oil: decimal.Zero, Card: decimal.Zero, Fines: decimal.Zero,
		Tips: decimal.Zero, Maintenance: decimal.Zero, SpareParts: decimal.Zero,
		Tires: decimal.Zero, Balance: decimal.Zero, Washing: decimal.Zero,
		Without: decimal.Zero, DriverExpenses: decimal.Zero,
	}
	for _, e := range entries {
		t.Freight = t.Freight.Add(e.Freight)
		t.DefaultFreight = t.DefaultFreight.Add(e.DefaultFreight)
		t.Gas = t.Gas.Add(e.Gas)
		t.Oil = t.Oil.Add(e.Oil)
		t.Card = t.Card.Add(e.Card)
		t.Fines = t.Fines.Add(e.Fines)
		t.Tips = t.Tips.Add(e.Tips)
		t.Maintenance = t.Maintenance.Add(e.Maintenance)
		t.SpareParts = t.SpareParts.Add(e.SpareParts)
		t.Tires = t.Tires.Add(e.Tires)
		t.Balance = t.Balance.Add(e.Balance)
		t.Washing = t.Washing.Add(e.Washing)
		t.Without = t.Without.Add(e.Without)
		t.DriverExpenses = t.DriverExpenses.Add(e.DriverExpenses)
	}
	return t
}

// Expenses is the sum of all cost buckets (everything but the two freight
// revenue buckets).
func (t BucketTotals) Expenses() decimal.Decimal {
	sum := decimal.Zero
	for _, b := range []decimal.Decimal{
		t.Gas, t.Oil, t.Card, t.Fines, t.Tips, t.Maintenance, t.SpareParts,
		t.Tires, t.Balance, t.Washing, t.Without, t.DriverExpenses,
	} {
		sum = sum.Add(b)
	}
	return sum
}

// WeeklyTotals is the full derived result for one (car, week) pair.
type WeeklyTotals struct {
	WeekStart core.Date `json:"week_start"`
	WeekEnd   core.Date `json:"week_end"`

	OdometerStart int64 `json:"odometer_start"`
	OdometerEnd   int64 `json:"odometer_end"`
	Distance      int64 `json:"distance"`

	DriverSalary decimal.Decimal `json:"driver_salary"`
	Custody      decimal.Decimal `json:"custody"`
	Perished     decimal.Decimal `json:"perished"`

	Buckets BucketTotals `json:"buckets"`

	NetExpenses       decimal.Decimal `json:"net_expenses"`
	NetRevenue        decimal.Decimal `json:"net_revenue"`
	DefaultNetRevenue decimal.Decimal `json:"default_net_revenue"`
	NetDriver         decimal.Decimal `json:"net_driver"`
	NetCar            decimal.Decimal `json:"net_car"`
	GasPerKM          decimal.Decimal `json:"gas_per_km"`
}

// ComputeWeek derives the totals for one week from its daily entries and the
// submitted week inputs. Entries are assumed to belong to the week starting
// at weekStart; an empty slice produces all-zero monetary totals.
func ComputeWeek(weekStart core.Date, entries []core.DailyEntry, in WeekInputs) WeeklyTotals {
	buckets := SumBuckets(entries)

	dailyExpenses := buckets.Expenses()
	netExpenses := dailyExpenses.Add(in.DriverSalary)
	netRevenue := buckets.Freight.Add(in.Custody).Sub(netExpenses)
	defaultNetRevenue := buckets.DefaultFreight.Add(in.Custody).Sub(netExpenses)

	// The driver's take does not carry their own salary as a cost.
	netDriver := buckets.Freight.Add(in.Custody).Sub(dailyExpenses)

	// The owner's take counts both freight buckets as revenue and carries
	// salary and perished-goods loss as costs.
	netCar := buckets.Freight.Add(buckets.DefaultFreight).
		Sub(dailyExpenses.Add(in.DriverSalary).Add(in.Perished))

	distance := in.OdometerEnd - in.OdometerStart
	if distance < 0 {
		distance = 0
	}
	gasPerKM := decimal.Zero
	if distance > 0 {
		gasPerKM = core.Round4(buckets.Gas.Div(decimal.NewFromInt(distance)))
	}

	return WeeklyTotals{
		WeekStart:         weekStart,
		WeekEnd:           weekStart.AddDays(6),
		OdometerStart:     in.OdometerStart,
		OdometerEnd:       in.OdometerEnd,
		Distance:          distance,
		DriverSalary:      in.DriverSalary,
		Custody:           in.Custody,
		Perished:          in.Perished,
		Buckets:           buckets,
		NetExpenses:       core.Round2(netExpenses),
		NetRevenue:        core.Round2(netRevenue),
		DefaultNetRevenue: core.Round2(defaultNetRevenue),
		NetDriver:         core.Round2(netDriver),
		NetCar:            core.Round2(netCar),
		GasPerKM:          gasPerKM,
	}
}
