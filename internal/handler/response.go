package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"orbitdrive/internal/domain"
)

// validate — один разделяемый валидатор DTO на все хендлеры.
var validate = validator.New()

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError сопоставляет доменные ошибки со статусами. Внутренние
// детали (текст запроса, ошибки драйвера) наружу не выходят.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: domain.ErrPermissionDenied.Error()})
	case errors.Is(err, domain.ErrDuplicateName):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: domain.ErrDuplicateName.Error()})
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: domain.ErrDuplicateEmail.Error()})
	case errors.Is(err, domain.ErrCycle):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: domain.ErrCycle.Error()})
	case errors.Is(err, domain.ErrQuotaExceeded):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: domain.ErrQuotaExceeded.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: domain.ErrNotFound.Error()})
	default:
		log.Printf("Internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func writeValidationError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}
