package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"hospital-management-api/internal/respond"
	"hospital-management-api/internal/service"
)

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req service.CreateAppointmentRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(h.log, w, r, err)
		return
	}
	a, err := h.clinic.CreateAppointment(r.Context(), req)
	if err != nil {
		respond.Error(h.log, w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, a)
}

// ListAppointments filters on paciente_id / profissional_id, also accepted
// as patient_id / professional_id.
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fields := map[string]string{}

	patientID := queryID(q, fields, "paciente_id", "patient_id")
	professionalID := queryID(q, fields, "profissional_id", "professional_id")
	if len(fields) > 0 {
		respond.Error(h.log, w, r, &service.Error{
			Kind:   service.ErrValidation,
			Msg:    "invalid query parameters",
			Fields: fields,
		})
		return
	}

	as, err := h.clinic.ListAppointments(r.Context(), service.ListAppointmentsRequest{
		PatientID:      patientID,
		ProfessionalID: professionalID,
	})
	if err != nil {
		respond.Error(h.log, w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, as)
}

// queryID reads the first non-empty key; an unparseable value is recorded
// in fields.
func queryID(q url.Values, fields map[string]string, keys ...string) int64 {
	for _, k := range keys {
		raw := q.Get(k)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			fields[k] = "must be a positive integer"
			return 0
		}
		return id
	}
	return 0
}
