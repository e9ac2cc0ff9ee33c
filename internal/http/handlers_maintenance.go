package http

import (
	"net/http"

	"github.com/AhmedElsenosy/car-management-API/internal/core"
)

func (s *Server) handleCreateMaintenance(w http.ResponseWriter, r *http.Request) {
	var entry core.MaintenanceEntry
	if err := decodeJSON(r, &entry); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.fleet.CreateMaintenance(r.Context(), entry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateMaintenanceByDate(w http.ResponseWriter, r *http.Request) {
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
	var entry core.MaintenanceEntry
	if err := decodeJSON(r, &entry); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := s.fleet.UpdateMaintenanceByDate(r.Context(), carID, date, entry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleMaintenanceByYear(w http.ResponseWriter, r *http.Request) {
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
	entries, err := s.fleet.MaintenanceByYear(r.Context(), carID, year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []core.MaintenanceEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
