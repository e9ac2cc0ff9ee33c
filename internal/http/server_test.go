package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AhmedElsenosy/car-management-API/internal/core"
	"github.com/AhmedElsenosy/car-management-API/internal/report"
	"github.com/AhmedElsenosy/car-management-API/internal/services"
)

// fakeFleet returns canned results and records the last call arguments.
type fakeFleet struct {
	car     core.Car
	carErr  error
	entry   core.DailyEntry
	detail  services.WeeklyDetail
	monthly report.MonthlyTotals
	maint   core.MaintenanceEntry
	err     error

	lastCarID int64
	lastDate  core.Date
}

func (f *fakeFleet) CreateCar(_ context.Context, c core.Car) (core.Car, error) {
	if f.err != nil {
		return core.Car{}, f.err
	}
	c.ID = 1
	return c, nil
}

func (f *fakeFleet) GetCar(_ context.Context, id int64) (core.Car, error) {
	f.lastCarID = id
	return f.car, f.carErr
}

func (f *fakeFleet) ListCars(context.Context) ([]core.Car, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.car.ID == 0 {
		return nil, nil
	}
	return []core.Car{f.car}, nil
}

func (f *fakeFleet) UpdateCar(_ context.Context, c core.Car) (core.Car, error) {
	return c, f.err
}

func (f *fakeFleet) DeleteCar(_ context.Context, id int64) error {
	f.lastCarID = id
	return f.err
}

func (f *fakeFleet) CreateDailyEntry(_ context.Context, e core.DailyEntry) (core.DailyEntry, error) {
	if f.err != nil {
		return core.DailyEntry{}, f.err
	}
	return f.entry, nil
}

func (f *fakeFleet) UpdateDailyEntryByDate(_ context.Context, carID int64, date core.Date, _ core.DailyEntry) (core.DailyEntry, error) {
	f.lastCarID, f.lastDate = carID, date
	if f.err != nil {
		return core.DailyEntry{}, f.err
	}
	return f.entry, nil
}

func (f *fakeFleet) UpsertWeekly(_ context.Context, in services.WeeklyInput) (services.WeeklyDetail, error) {
	f.lastCarID, f.lastDate = in.CarID, in.Date
	return f.detail, f.err
}

func (f *fakeFleet) UpdateWeeklyByDate(_ context.Context, in services.WeeklyInput) (services.WeeklyDetail, error) {
	f.lastCarID, f.lastDate = in.CarID, in.Date
	return f.detail, f.err
}

func (f *fakeFleet) WeeklyDetail(_ context.Context, carID int64, date core.Date) (services.WeeklyDetail, error) {
	f.lastCarID, f.lastDate = carID, date
	return f.detail, f.err
}

func (f *fakeFleet) MonthlyDetail(_ context.Context, carID int64, year, month int) (report.MonthlyTotals, error) {
	f.lastCarID = carID
	return f.monthly, f.err
}

func (f *fakeFleet) CreateMaintenance(_ context.Context, m core.MaintenanceEntry) (core.MaintenanceEntry, error) {
	if f.err != nil {
		return core.MaintenanceEntry{}, f.err
	}
	return f.maint, nil
}

func (f *fakeFleet) UpdateMaintenanceByDate(_ context.Context, carID int64, date core.Date, _ core.MaintenanceEntry) (core.MaintenanceEntry, error) {
	f.lastCarID, f.lastDate = carID, date
	if f.err != nil {
		return core.MaintenanceEntry{}, f.err
	}
	return f.maint, nil
}

func (f *fakeFleet) MaintenanceByYear(_ context.Context, carID int64, year int) ([]core.MaintenanceEntry, error) {
	f.lastCarID = carID
	if f.err != nil {
		return nil, f.err
	}
	return []core.MaintenanceEntry{f.maint}, nil
}

func serve(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthAndReady(t *testing.T) {
	srv := NewServer(":0", &fakeFleet{}, nil)
	defer srv.Shutdown(context.Background())

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := serve(srv, http.MethodGet, path, "")
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestReadyzFailsWhenProbeFails(t *testing.T) {
	srv := NewServer(":0", &fakeFleet{}, func(context.Context) error {
		return context.DeadlineExceeded
	})
	defer srv.Shutdown(context.Background())

	rr := serve(srv, http.MethodGet, "/readyz", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestCreateCar(t *testing.T) {
	srv := NewServer(":0", &fakeFleet{}, nil)
	defer srv.Shutdown(context.Background())

	rr := serve(srv, http.MethodPost, "/cars",
		`{"car_model":"Isuzu NPR","license_start":"2023-01-01","license_end":"2025-01-01"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var car core.Car
	if err := json.Unmarshal(rr.Body.Bytes(), &car); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if car.ID != 1 || car.CarModel != "Isuzu NPR" {
		t.Errorf("unexpected car in response: %+v", car)
	}
}

func TestCreateCar_BadBody(t *testing.T) {
	srv := NewServer(":0", &fakeFleet{}, nil)
	defer srv.Shutdown(context.Background())

	rr := serve(srv, http.MethodPost, "/cars", `{"car_model":`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for malformed JSON, got %d", rr.Code)
	}
}

func TestGetCar_NotFound(t *testing.T) {
	srv := NewServer(":0", &fakeFleet{carErr: core.ErrNotFound}, nil)
	defer srv.Shutdown(context.Background())

	rr := serve(srv, http.MethodGet, "/cars/7", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestGetCar_BadID(t *testing.T) {
	srv := NewServer(":0", &fakeFleet{}, nil)
	defer srv.Shutdown(context.Background())

	rr := serve(srv, http.MethodGet, "/cars/abc", "")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for non-numeric id, got %d", rr.Code)
	}
}

func TestListCars_EmptyIsArray(t *testing.T) {
	srv := NewServer(":0", &fakeFleet{}, nil)
	defer srv.Shutdown(context.Background())

	rr := serve(srv, http.MethodGet, "/cars", "")
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Errorf("expected empty JSON array, got %s", got)
	}
}

func TestUpdateDailyEntryByDate_QueryValidation(t *testing.T) {
	srv := NewServer(":0", &fakeFleet{}, nil)
	defer srv.Shutdown(context.Background())

	// Missing car_id
	rr := serve(srv, http.MethodPut, "/daily-entries/by-date?date=2024-01-10", `{}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 without car_id, got %d", rr.Code)
	}

	// Malformed date
	rr = serve(srv, http.MethodPut, "/daily-entries/by-date?car_id=1&date=10-01-2024", `{}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for malformed date, got %d", rr.Code)
	}
}

func TestUpdateDailyEntryByDate_Conflict(t *testing.T) {
	srv := NewServer(":0", &fakeFleet{err: core.ErrConflict}, nil)
	defer srv.Shutdown(context.Background())

	rr := serve(srv, http.MethodPut, "/daily-entries/by-date?car_id=1&date=2024-01-10", `{}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestWeeklyDetail_PassesKey(t *testing.T) {
	fleet := &fakeFleet{}
	srv := NewServer(":0", fleet, nil)
	defer srv.Shutdown(context.Background())

	rr := serve(srv, http.MethodGet, "/weekly/detail?car_id=3&date=2024-01-10", "")
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if fleet.lastCarID != 3 {
		t.Errorf("expected car_id 3 passed through, got %d", fleet.lastCarID)
	}
	if got := fleet.lastDate.String(); got != "2024-01-10" {
		t.Errorf("expected date 2024-01-10 passed through, got %s", got)
	}
}

func TestMonthlyDetail_ValidationErrorHasField(t *testing.T) {
	fleet := &fakeFleet{err: &core.ValidationError{Field: "month", Message: "must be between 1 and 12"}}
	srv := NewServer(":0", fleet, nil)
	defer srv.Shutdown(context.Background())

	rr := serve(srv, http.MethodGet, "/monthly/detail?car_id=1&year=2024&month=13", "")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	var body struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Field != "month" {
		t.Errorf("expected field month in error body, got %q", body.Field)
	}
}

func TestMaintenanceByYear(t *testing.T) {
	fleet := &fakeFleet{maint: core.MaintenanceEntry{ID: 5, CarID: 2}}
	srv := NewServer(":0", fleet, nil)
	defer srv.Shutdown(context.Background())

	rr := serve(srv, http.MethodGet, "/maintenance/year?car_id=2&year=2024", "")
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var entries []core.MaintenanceEntry
	if err := json.Unmarshal(rr.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != 5 {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestDeleteCar_NoContent(t *testing.T) {
	fleet := &fakeFleet{}
	srv := NewServer(":0", fleet, nil)
	defer srv.Shutdown(context.Background())

	rr := serve(srv, http.MethodDelete, "/cars/4", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if fleet.lastCarID != 4 {
		t.Errorf("expected delete of car 4, got %d", fleet.lastCarID)
	}
}
