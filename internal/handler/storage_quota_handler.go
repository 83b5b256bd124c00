package handler

import (
	"net/http"

	"orbitdrive/internal/auth"
	"orbitdrive/internal/service"
)

type StorageQuotaHandler struct {
	quotaService *service.StorageQuotaService
}

func NewStorageQuotaHandler(quotaService *service.StorageQuotaService) *StorageQuotaHandler {
	return &StorageQuotaHandler{quotaService: quotaService}
}

func (h *StorageQuotaHandler) GetQuotaInfo(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	quotaInfo, err := h.quotaService.GetQuotaInfo(r.Context(), principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quotaInfo)
}
