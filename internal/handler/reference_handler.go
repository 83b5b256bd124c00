package handler

import (
	"net/http"

	"orbitdrive/internal/repository"
)

// ReferenceHandler отдает справочники без какой-либо бизнес-логики,
// поэтому работает напрямую с репозиторием.
type ReferenceHandler struct {
	referenceRepo *repository.ReferenceRepository
}

func NewReferenceHandler(referenceRepo *repository.ReferenceRepository) *ReferenceHandler {
	return &ReferenceHandler{referenceRepo: referenceRepo}
}

func (h *ReferenceHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.referenceRepo.ListCountries(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countries)
}

func (h *ReferenceHandler) ListColors(w http.ResponseWriter, r *http.Request) {
	colors, err := h.referenceRepo.ListColors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, colors)
}

func (h *ReferenceHandler) ListAccessTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.referenceRepo.ListAccessTypes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}
