package google

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/AhmedElsenosy/car-management-API/internal/core"
	"github.com/AhmedElsenosy/car-management-API/internal/report"
)

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		name string
		base string
		year int
		want string
	}{
		{"plain base", "Reports", 2024, "2024 Reports"},
		{"already prefixed", "2023 Reports", 2024, "2023 Reports"},
		{"empty base", "", 2024, ""},
		{"short base", "R", 2024, "2024 R"},
		{"numeric-looking but no space", "2023Reports", 2024, "2024 2023Reports"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := yearPrefixedName(tt.base, tt.year); got != tt.want {
				t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
			}
		})
	}
}

func TestReportRow(t *testing.T) {
	weekStart, err := core.ParseDate("2024-01-06")
	if err != nil {
		t.Fatal(err)
	}
	car := core.Car{ID: 3, CarModel: "Isuzu NPR"}
	totals := report.WeeklyTotals{
		WeekStart:  weekStart,
		WeekEnd:    weekStart.AddDays(6),
		Distance:   250,
		NetRevenue: decimal.RequireFromString("770.00"),
		GasPerKM:   decimal.RequireFromString("0.2"),
	}
	totals.Buckets.Freight = decimal.RequireFromString("1000.00")

	row := reportRow(car, totals)
	if len(row) != 12 {
		t.Fatalf("expected 12 columns, got %d", len(row))
	}
	if row[0] != "2024-01-06" || row[1] != "2024-01-12" {
		t.Errorf("unexpected week bounds: %v, %v", row[0], row[1])
	}
	if row[3] != "Isuzu NPR" {
		t.Errorf("expected car model in column D, got %v", row[3])
	}
	if row[5] != "1000.00" {
		t.Errorf("expected freight 1000.00, got %v", row[5])
	}
	if row[7] != "770.00" {
		t.Errorf("expected net revenue 770.00, got %v", row[7])
	}
	if row[11] != "0.2000" {
		t.Errorf("expected gas per km 0.2000, got %v", row[11])
	}
}
