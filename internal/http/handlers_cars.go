package http

import (
	"net/http"

	"github.com/AhmedElsenosy/car-management-API/internal/core"
)

func (s *Server) handleListCars(w http.ResponseWriter, r *http.Request) {
	cars, err := s.fleet.ListCars(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if cars == nil {
		cars = []core.Car{}
	}
	writeJSON(w, http.StatusOK, cars)
}

func (s *Server) handleCreateCar(w http.ResponseWriter, r *http.Request) {
	var car core.Car
	if err := decodeJSON(r, &car); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.fleet.CreateCar(r.Context(), car)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetCar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	car, err := s.fleet.GetCar(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (s *Server) handleUpdateCar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var car core.Car
	if err := decodeJSON(r, &car); err != nil {
		writeError(w, r, err)
		return
	}
	car.ID = id
	updated, err := s.fleet.UpdateCar(r.Context(), car)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.fleet.DeleteCar(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
