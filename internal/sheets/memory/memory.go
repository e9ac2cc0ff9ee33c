package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/AhmedElsenosy/car-management-API/internal/core"
	"github.com/AhmedElsenosy/car-management-API/internal/report"
)

// Writer collects weekly report rows in memory. Used for local runs without
// Google credentials and in worker tests.
type Writer struct {
	mu   sync.Mutex
	rows []Row
}

type Row struct {
	Car    core.Car
	Totals report.WeeklyTotals
}

func New() *Writer {
	return &Writer{}
}

// AppendWeeklyReport stores the report and returns a synthetic row reference.
func (w *Writer) AppendWeeklyReport(_ context.Context, car core.Car, totals report.WeeklyTotals) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = append(w.rows, Row{Car: car, Totals: totals})
	return fmt.Sprintf("mem:%d", len(w.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (w *Writer) Rows() []Row {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Row(nil), w.rows...)
}
