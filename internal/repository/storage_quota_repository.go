package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"orbitdrive/internal/domain"
)

// Лимит по умолчанию — 15GB.
const defaultQuotaBytes = int64(16106127360)

type StorageQuotaRepository struct {
	db *sqlx.DB
}

func NewStorageQuotaRepository(db *sqlx.DB) *StorageQuotaRepository {
	return &StorageQuotaRepository{db: db}
}

// GetQuota возвращает квоту пользователя, заводя запись с дефолтным
// лимитом при первом обращении.
func (r *StorageQuotaRepository) GetQuota(ctx context.Context, ownerID int64) (*domain.StorageQuota, error) {
	var quota domain.StorageQuota

	err := r.db.GetContext(ctx, &quota, `
        SELECT id, owner_id, total_bytes_limit, used_bytes, created_at, updated_at
        FROM storage_quotas
        WHERE owner_id = $1`,
		ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			quota = domain.StorageQuota{
				OwnerID:         ownerID,
				TotalBytesLimit: defaultQuotaBytes,
				UsedBytes:       0,
			}
			if err := r.Create(ctx, &quota); err != nil {
				return nil, fmt.Errorf("failed to create quota: %w", err)
			}
			return &quota, nil
		}
		return nil, fmt.Errorf("failed to get quota: %w", err)
	}

	return &quota, nil
}

func (r *StorageQuotaRepository) Create(ctx context.Context, quota *domain.StorageQuota) error {
	query := `
        INSERT INTO storage_quotas (owner_id, total_bytes_limit, used_bytes)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		quota.OwnerID,
		quota.TotalBytesLimit,
		quota.UsedBytes,
	).Scan(&quota.ID, &quota.CreatedAt, &quota.UpdatedAt)
}

// RecalculateUsedSpace пересчитывает used_bytes по активным файлам
// пользователя. Пересчет вместо инкремента: не накапливает рассинхрон
// после удалений и восстановлений.
func (r *StorageQuotaRepository) RecalculateUsedSpace(ctx context.Context, ownerID int64) error {
	query := `
        UPDATE storage_quotas
        SET used_bytes = (
                SELECT COALESCE(SUM(size_bytes), 0)
                FROM files
                WHERE owner_id = $1 AND NOT deleted
            ),
            updated_at = CURRENT_TIMESTAMP
        WHERE owner_id = $1`

	result, err := r.db.ExecContext(ctx, query, ownerID)
	if err != nil {
		return fmt.Errorf("failed to update used space: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		// Квоты еще нет: GetQuota заведет запись, после чего пересчет
		// повторяется уже по существующей строке.
		if _, err := r.GetQuota(ctx, ownerID); err != nil {
			return err
		}
		if _, err := r.db.ExecContext(ctx, query, ownerID); err != nil {
			return fmt.Errorf("failed to update used space: %w", err)
		}
	}

	return nil
}
