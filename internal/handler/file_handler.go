package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"orbitdrive/internal/auth"
	"orbitdrive/internal/domain"
	"orbitdrive/internal/service"
)

type FileHandler struct {
	fileService *service.FileService
}

func NewFileHandler(fileService *service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

type registerFileRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=255"`
	FolderID  *int64 `json:"folder_id,omitempty"`
	MIMEType  string `json:"mime_type" validate:"required"`
	SizeBytes int64  `json:"size_bytes" validate:"gte=0"`
	Hash      string `json:"hash"`
}

type renameFileRequest struct {
	NewName string `json:"new_name" validate:"required,min=1,max=255"`
}

type moveFileRequest struct {
	FolderID *int64 `json:"folder_id,omitempty"`
}

func fileUUIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	return id, err == nil
}

func (h *FileHandler) RegisterFile(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req registerFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	file := &domain.File{
		Name:      req.Name,
		FolderID:  req.FolderID,
		MIMEType:  req.MIMEType,
		SizeBytes: req.SizeBytes,
		Hash:      req.Hash,
	}

	created, err := h.fileService.Register(r.Context(), principal, file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, created)
}

func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var folderID *int64
	if raw := r.URL.Query().Get("folder"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "Invalid folder ID", http.StatusBadRequest)
			return
		}
		folderID = &id
	}

	includeDeleted := r.URL.Query().Get("include_deleted") == "true"

	files, err := h.fileService.List(r.Context(), principal, folderID, includeDeleted)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, files)
}

// SearchFiles ищет файлы пользователя по подстроке имени из параметра q.
func (h *FileHandler) SearchFiles(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	term := r.URL.Query().Get("q")
	if term == "" {
		http.Error(w, "q is required", http.StatusBadRequest)
		return
	}

	files, err := h.fileService.Search(r.Context(), principal, term)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, files)
}

// RecentFiles отдает файлы, измененные за последние days дней (по
// умолчанию 30).
func (h *FileHandler) RecentFiles(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid days value", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	files, err := h.fileService.Recent(r.Context(), principal, days)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, files)
}

func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	fileUUID, ok := fileUUIDParam(r)
	if !ok {
		http.Error(w, "Invalid file UUID", http.StatusBadRequest)
		return
	}

	file, err := h.fileService.Get(r.Context(), principal, fileUUID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, file)
}

func (h *FileHandler) RenameFile(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	fileUUID, ok := fileUUIDParam(r)
	if !ok {
		http.Error(w, "Invalid file UUID", http.StatusBadRequest)
		return
	}

	var req renameFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	renamed, err := h.fileService.Rename(r.Context(), principal, fileUUID, req.NewName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: renamed})
}

func (h *FileHandler) MoveFile(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	fileUUID, ok := fileUUIDParam(r)
	if !ok {
		http.Error(w, "Invalid file UUID", http.StatusBadRequest)
		return
	}

	var req moveFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	moved, err := h.fileService.Move(r.Context(), principal, fileUUID, req.FolderID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: moved})
}

func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	fileUUID, ok := fileUUIDParam(r)
	if !ok {
		http.Error(w, "Invalid file UUID", http.StatusBadRequest)
		return
	}

	deleted, err := h.fileService.SoftDelete(r.Context(), principal, fileUUID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: deleted})
}

func (h *FileHandler) RestoreFile(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	fileUUID, ok := fileUUIDParam(r)
	if !ok {
		http.Error(w, "Invalid file UUID", http.StatusBadRequest)
		return
	}

	restored, err := h.fileService.Restore(r.Context(), principal, fileUUID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: restored})
}
