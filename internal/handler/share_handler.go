package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"orbitdrive/internal/auth"
	"orbitdrive/internal/domain"
	"orbitdrive/internal/service"
)

type ShareHandler struct {
	shareService *service.ShareService
}

func NewShareHandler(shareService *service.ShareService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

type createShareRequest struct {
	GranteeEmail string `json:"grantee_email" validate:"required,email"`
	ResourceID   string `json:"resource_id" validate:"required"`
	ResourceType string `json:"resource_type" validate:"required,oneof=folder file"`
	AccessLevel  string `json:"access_level" validate:"required,oneof=read_only read_write"`
}

func (h *ShareHandler) CreateShare(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	share := &domain.Share{
		GranteeEmail: req.GranteeEmail,
		ResourceID:   req.ResourceID,
		ResourceType: domain.ResourceType(req.ResourceType),
		AccessLevel:  domain.AccessLevel(req.AccessLevel),
	}

	created, err := h.shareService.Create(r.Context(), principal, share)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, created)
}

func (h *ShareHandler) ListShares(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	resourceID := r.URL.Query().Get("resource_id")
	resourceType := domain.ResourceType(r.URL.Query().Get("resource_type"))
	if resourceID == "" || (resourceType != domain.ResourceTypeFolder && resourceType != domain.ResourceTypeFile) {
		http.Error(w, "resource_id and resource_type are required", http.StatusBadRequest)
		return
	}

	shares, err := h.shareService.ListByResource(r.Context(), principal, resourceID, resourceType)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, shares)
}

func (h *ShareHandler) SharedWithMe(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	shares, err := h.shareService.SharedWithMe(r.Context(), principal)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, shares)
}

func (h *ShareHandler) RevokeShare(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	shareID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid share ID", http.StatusBadRequest)
		return
	}

	revoked, err := h.shareService.Revoke(r.Context(), principal, shareID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: revoked})
}
