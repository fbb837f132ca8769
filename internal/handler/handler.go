package handler

import (
	"go.uber.org/zap"

	"hospital-management-api/internal/service"
)

// Handler serves the REST API on top of the domain services.
type Handler struct {
	auth   *service.Auth
	clinic *service.Clinic
	log    *zap.Logger
}

func New(a *service.Auth, c *service.Clinic, log *zap.Logger) *Handler {
	return &Handler{auth: a, clinic: c, log: log}
}
