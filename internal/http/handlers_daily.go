package http

import (
	"net/http"

	"github.com/AhmedElsenosy/car-management-API/internal/core"
)

func (s *Server) handleCreateDailyEntry(w http.ResponseWriter, r *http.Request) {
	var entry core.DailyEntry
	if err := decodeJSON(r, &entry); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.fleet.CreateDailyEntry(r.Context(), entry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateDailyEntryByDate(w http.ResponseWriter, r *http.Request) {
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
	var entry core.DailyEntry
	if err := decodeJSON(r, &entry); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := s.fleet.UpdateDailyEntryByDate(r.Context(), carID, date, entry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
