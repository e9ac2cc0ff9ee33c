package services

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/AhmedElsenosy/car-management-API/internal/core"
)

// fakeStore is an in-memory Store for service tests. InTx hands the store
// itself to the callback; these tests exercise service logic, not rollback.
type fakeStore struct {
	cars        map[int64]core.Car
	dailies     map[int64]core.DailyEntry
	weeklies    map[int64]core.WeeklySummary
	maintenance map[int64]core.MaintenanceEntry
	exported    map[int64]bool
	exportErrs  map[int64]int
	nextID      int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cars:        make(map[int64]core.Car),
		dailies:     make(map[int64]core.DailyEntry),
		weeklies:    make(map[int64]core.WeeklySummary),
		maintenance: make(map[int64]core.MaintenanceEntry),
		exported:    make(map[int64]bool),
		exportErrs:  make(map[int64]int),
	}
}

func (f *fakeStore) InTx(_ context.Context, fn func(tx StoreTx) error) error {
	return fn(f)
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) InsertCar(c core.Car) (core.Car, error) {
	c.ID = f.id()
	f.cars[c.ID] = c
	return c, nil
}

func (f *fakeStore) GetCar(id int64) (core.Car, error) {
	c, ok := f.cars[id]
	if !ok {
		return core.Car{}, core.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) ListCars() ([]core.Car, error) {
	var cars []core.Car
	for _, c := range f.cars {
		cars = append(cars, c)
	}
	sort.Slice(cars, func(i, j int) bool { return cars[i].ID < cars[j].ID })
	return cars, nil
}

func (f *fakeStore) UpdateCar(c core.Car) error {
	if _, ok := f.cars[c.ID]; !ok {
		return core.ErrNotFound
	}
	f.cars[c.ID] = c
	return nil
}

func (f *fakeStore) DeleteCar(id int64) error {
	if _, ok := f.cars[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.cars, id)
	for eid, e := range f.dailies {
		if e.CarID == id {
			delete(f.dailies, eid)
		}
	}
	for wid, w := range f.weeklies {
		if w.CarID == id {
			delete(f.weeklies, wid)
		}
	}
	for mid, m := range f.maintenance {
		if m.CarID == id {
			delete(f.maintenance, mid)
		}
	}
	return nil
}

func (f *fakeStore) InsertDailyEntry(e core.DailyEntry) (core.DailyEntry, error) {
	e.ID = f.id()
	f.dailies[e.ID] = e
	return e, nil
}

func (f *fakeStore) UpdateDailyEntry(e core.DailyEntry) error {
	if _, ok := f.dailies[e.ID]; !ok {
		return core.ErrNotFound
	}
	f.dailies[e.ID] = e
	return nil
}

func (f *fakeStore) dailyWhere(keep func(core.DailyEntry) bool) []core.DailyEntry {
	var entries []core.DailyEntry
	for _, e := range f.dailies {
		if keep(e) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].InspectionDate.Equal(entries[j].InspectionDate) {
			return entries[i].InspectionDate.Before(entries[j].InspectionDate)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries
}

func (f *fakeStore) DailyEntriesByDate(carID int64, date core.Date) ([]core.DailyEntry, error) {
	return f.dailyWhere(func(e core.DailyEntry) bool {
		return e.CarID == carID && e.InspectionDate.Equal(date)
	}), nil
}

func (f *fakeStore) DailyEntriesByWeek(carID int64, weekStart core.Date) ([]core.DailyEntry, error) {
	return f.dailyWhere(func(e core.DailyEntry) bool {
		return e.CarID == carID && e.WeekStart.Equal(weekStart)
	}), nil
}

func (f *fakeStore) DailyEntriesInRange(carID int64, from, to core.Date) ([]core.DailyEntry, error) {
	return f.dailyWhere(func(e core.DailyEntry) bool {
		return e.CarID == carID && !e.InspectionDate.Before(from) && !e.InspectionDate.After(to)
	}), nil
}

func (f *fakeStore) WeeklySummaryByWeek(carID int64, weekStart core.Date) (core.WeeklySummary, error) {
	for _, w := range f.weeklies {
		if w.CarID == carID && w.WeekStart.Equal(weekStart) {
			return w, nil
		}
	}
	return core.WeeklySummary{}, core.ErrNotFound
}

func (f *fakeStore) UpsertWeeklySummary(s core.WeeklySummary) (core.WeeklySummary, error) {
	existing, err := f.WeeklySummaryByWeek(s.CarID, s.WeekStart)
	if err == nil {
		s.ID = existing.ID
	} else {
		s.ID = f.id()
	}
	f.weeklies[s.ID] = s
	f.exported[s.ID] = false
	return s, nil
}

func (f *fakeStore) UpdateWeeklyDerived(s core.WeeklySummary) error {
	stored, ok := f.weeklies[s.ID]
	if !ok {
		return core.ErrNotFound
	}
	stored.NetExpenses = s.NetExpenses
	stored.NetRevenue = s.NetRevenue
	stored.DefaultNetRevenue = s.DefaultNetRevenue
	stored.NetDriver = s.NetDriver
	stored.NetCar = s.NetCar
	f.weeklies[s.ID] = stored
	return nil
}

func (f *fakeStore) WeeklySummariesStartingIn(carID int64, from, to core.Date) ([]core.WeeklySummary, error) {
	var summaries []core.WeeklySummary
	for _, w := range f.weeklies {
		if w.CarID == carID && !w.WeekStart.Before(from) && !w.WeekStart.After(to) {
			summaries = append(summaries, w)
		}
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].WeekStart.Before(summaries[j].WeekStart)
	})
	return summaries, nil
}

func (f *fakeStore) PendingExportSummaries(limit int) ([]core.WeeklySummary, error) {
	var summaries []core.WeeklySummary
	for id, w := range f.weeklies {
		if !f.exported[id] {
			summaries = append(summaries, w)
		}
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

func (f *fakeStore) MarkWeeklyExported(id int64) error {
	if _, ok := f.weeklies[id]; !ok {
		return core.ErrNotFound
	}
	f.exported[id] = true
	f.exportErrs[id] = 0
	return nil
}

func (f *fakeStore) MarkWeeklyExportError(id int64) error {
	if _, ok := f.weeklies[id]; !ok {
		return core.ErrNotFound
	}
	f.exportErrs[id]++
	return nil
}

func (f *fakeStore) MaintenanceByDate(carID int64, date core.Date) ([]core.MaintenanceEntry, error) {
	var entries []core.MaintenanceEntry
	for _, m := range f.maintenance {
		if m.CarID == carID && m.Date.Equal(date) {
			entries = append(entries, m)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (f *fakeStore) InsertMaintenanceEntry(m core.MaintenanceEntry) (core.MaintenanceEntry, error) {
	m.ID = f.id()
	f.maintenance[m.ID] = m
	return m, nil
}

func (f *fakeStore) UpdateMaintenanceEntry(m core.MaintenanceEntry) error {
	if _, ok := f.maintenance[m.ID]; !ok {
		return core.ErrNotFound
	}
	f.maintenance[m.ID] = m
	return nil
}

func (f *fakeStore) UpdateMaintenanceMirror(id int64, price decimal.Decimal, sparePartType string) error {
	m, ok := f.maintenance[id]
	if !ok {
		return core.ErrNotFound
	}
	m.Price = price
	m.SparePartType = sparePartType
	f.maintenance[id] = m
	return nil
}

func (f *fakeStore) UpdateMaintenanceSparePart(id int64, sparePartType string) error {
	m, ok := f.maintenance[id]
	if !ok {
		return core.ErrNotFound
	}
	m.SparePartType = sparePartType
	f.maintenance[id] = m
	return nil
}

func (f *fakeStore) DeleteMaintenanceByDate(carID int64, date core.Date) error {
	for id, m := range f.maintenance {
		if m.CarID == carID && m.Date.Equal(date) {
			delete(f.maintenance, id)
		}
	}
	return nil
}

func (f *fakeStore) MaintenanceByYear(carID int64, year int) ([]core.MaintenanceEntry, error) {
	var entries []core.MaintenanceEntry
	for _, m := range f.maintenance {
		if m.CarID == carID && m.Date.Year() == year {
			entries = append(entries, m)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (f *fakeStore) AllMaintenanceEntries() ([]core.MaintenanceEntry, error) {
	var entries []core.MaintenanceEntry
	for _, m := range f.maintenance {
		entries = append(entries, m)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

var _ Store = (*fakeStore)(nil)
var _ StoreTx = (*fakeStore)(nil)
