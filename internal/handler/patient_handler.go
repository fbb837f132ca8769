package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hospital-management-api/internal/respond"
	"hospital-management-api/internal/service"
)

func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePatientRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(h.log, w, r, err)
		return
	}
	p, err := h.clinic.CreatePatient(r.Context(), req)
	if err != nil {
		respond.Error(h.log, w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, p)
}

func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	ps, err := h.clinic.ListPatients(r.Context())
	if err != nil {
		respond.Error(h.log, w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, ps)
}

func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respond.Error(h.log, w, r, &service.Error{Kind: service.ErrNotFound, Msg: "patient " + raw + " not found"})
		return
	}
	p, err := h.clinic.GetPatient(r.Context(), service.GetPatientRequest{ID: id})
	if err != nil {
		respond.Error(h.log, w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}
