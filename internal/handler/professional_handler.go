package handler

import (
	"net/http"

	"hospital-management-api/internal/respond"
	"hospital-management-api/internal/service"
)

func (h *Handler) CreateProfessional(w http.ResponseWriter, r *http.Request) {
	var req service.CreateProfessionalRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(h.log, w, r, err)
		return
	}
	p, err := h.clinic.CreateProfessional(r.Context(), req)
	if err != nil {
		respond.Error(h.log, w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, p)
}

func (h *Handler) ListProfessionals(w http.ResponseWriter, r *http.Request) {
	ps, err := h.clinic.ListProfessionals(r.Context())
	if err != nil {
		respond.Error(h.log, w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, ps)
}
