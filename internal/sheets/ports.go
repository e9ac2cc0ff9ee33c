package sheets

import (
	"context"

	"github.com/AhmedElsenosy/car-management-API/internal/core"
	"github.com/AhmedElsenosy/car-management-API/internal/report"
)

// Ports for outbound adapters.
type (
	// ReportWriter appends one recomputed vehicle-week report row.
	ReportWriter interface {
		AppendWeeklyReport(ctx context.Context, car core.Car, totals report.WeeklyTotals) (rowRef string, err error)
	}
)
