package handler

import (
	"net/http"

	"go.uber.org/zap"

	"hospital-management-api/internal/respond"
	"hospital-management-api/internal/service"
)

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(h.log, w, r, err)
		return
	}
	res, err := h.auth.Signup(r.Context(), req)
	if err != nil {
		respond.Error(h.log, w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, res)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(h.log, w, r, err)
		return
	}
	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		respond.Error(h.log, w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.clinic.Ready(r.Context()); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "hospital management api running",
	})
}
