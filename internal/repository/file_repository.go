package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"orbitdrive/internal/domain"
)

type FileRepository struct {
	db *sqlx.DB
}

func NewFileRepository(db *sqlx.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, file *domain.File) error {
	if file.UUID == uuid.Nil {
		file.UUID = uuid.New()
	}

	query := `
        INSERT INTO files (uuid, name, folder_id, owner_id, mime_type, size_bytes, hash)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING deleted, created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		file.UUID,
		file.Name,
		file.FolderID,
		file.OwnerID,
		file.MIMEType,
		file.SizeBytes,
		file.Hash,
	).Scan(&file.Deleted, &file.CreatedAt, &file.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	return nil
}

func (r *FileRepository) GetByUUID(ctx context.Context, fileUUID uuid.UUID) (*domain.File, error) {
	query := `
        SELECT uuid, name, folder_id, owner_id, mime_type, size_bytes, hash, deleted, created_at, updated_at
        FROM files
        WHERE uuid = $1`

	var file domain.File
	err := r.db.GetContext(ctx, &file, query, fileUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("file %s: %w", fileUUID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	return &file, nil
}

func (r *FileRepository) List(ctx context.Context, ownerID int64, folderID *int64, includeDeleted bool) ([]domain.File, error) {
	query := `
        SELECT uuid, name, folder_id, owner_id, mime_type, size_bytes, hash, deleted, created_at, updated_at
        FROM files
        WHERE owner_id = $1
          AND folder_id IS NOT DISTINCT FROM $2`
	if !includeDeleted {
		query += `
          AND NOT deleted`
	}
	query += `
        ORDER BY name`

	files := make([]domain.File, 0)
	err := r.db.SelectContext(ctx, &files, query, ownerID, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return files, nil
}

// Search ищет активные файлы пользователя по подстроке имени без учета
// регистра, свежие изменения первыми.
func (r *FileRepository) Search(ctx context.Context, ownerID int64, term string) ([]domain.File, error) {
	query := `
        SELECT uuid, name, folder_id, owner_id, mime_type, size_bytes, hash, deleted, created_at, updated_at
        FROM files
        WHERE owner_id = $1
          AND NOT deleted
          AND name ILIKE '%' || $2 || '%'
        ORDER BY updated_at DESC`

	files := make([]domain.File, 0)
	err := r.db.SelectContext(ctx, &files, query, ownerID, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search files: %w", err)
	}

	return files, nil
}

// ListRecent возвращает файлы, измененные за последние days дней.
func (r *FileRepository) ListRecent(ctx context.Context, ownerID int64, days int) ([]domain.File, error) {
	query := `
        SELECT uuid, name, folder_id, owner_id, mime_type, size_bytes, hash, deleted, created_at, updated_at
        FROM files
        WHERE owner_id = $1
          AND NOT deleted
          AND updated_at >= CURRENT_TIMESTAMP - $2 * INTERVAL '1 day'
        ORDER BY updated_at DESC`

	files := make([]domain.File, 0)
	err := r.db.SelectContext(ctx, &files, query, ownerID, days)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent files: %w", err)
	}

	return files, nil
}

func (r *FileRepository) Rename(ctx context.Context, fileUUID uuid.UUID, newName string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
        UPDATE files
        SET name = $1, updated_at = CURRENT_TIMESTAMP
        WHERE uuid = $2 AND NOT deleted`,
		newName, fileUUID)
	if err != nil {
		return false, fmt.Errorf("failed to rename file: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

func (r *FileRepository) Move(ctx context.Context, fileUUID uuid.UUID, folderID *int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
        UPDATE files
        SET folder_id = $1, updated_at = CURRENT_TIMESTAMP
        WHERE uuid = $2 AND NOT deleted`,
		folderID, fileUUID)
	if err != nil {
		return false, fmt.Errorf("failed to move file: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

func (r *FileRepository) SoftDelete(ctx context.Context, fileUUID uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
        UPDATE files
        SET deleted = TRUE, updated_at = CURRENT_TIMESTAMP
        WHERE uuid = $1 AND NOT deleted`,
		fileUUID)
	if err != nil {
		return false, fmt.Errorf("failed to delete file: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

func (r *FileRepository) Restore(ctx context.Context, fileUUID uuid.UUID, ownerID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
        UPDATE files
        SET deleted = FALSE, updated_at = CURRENT_TIMESTAMP
        WHERE uuid = $1 AND owner_id = $2 AND deleted`,
		fileUUID, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to restore file: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}
