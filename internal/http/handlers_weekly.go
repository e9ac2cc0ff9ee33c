package http

import (
	"net/http"

	"github.com/AhmedElsenosy/car-management-API/internal/services"
)

func (s *Server) handleUpsertWeekly(w http.ResponseWriter, r *http.Request) {
	var in services.WeeklyInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	detail, err := s.fleet.UpsertWeekly(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleUpdateWeeklyByDate(w http.ResponseWriter, r *http.Request) {
	var in services.WeeklyInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	detail, err := s.fleet.UpdateWeeklyByDate(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleWeeklyDetail(w http.ResponseWriter, r *http.Request) {
	carID, err := queryInt64(r, "car_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := queryDate(r, "date")
	if err != nil {
		writeError(w, r, err)
		return
	}
	detail, err := s.fleet.WeeklyDetail(r.Context(), carID, date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleMonthlyDetail(w http.ResponseWriter, r *http.Request) {
	carID, err := queryInt64(r, "car_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	year, err := queryInt(r, "year")
	if err != nil {
		writeError(w, r, err)
		return
	}
	month, err := queryInt(r, "month")
	if err != nil {
		writeError(w, r, err)
		return
	}
	totals, err := s.fleet.MonthlyDetail(r.Context(), carID, year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}
