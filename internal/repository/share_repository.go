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

type ShareRepository struct {
	db *sqlx.DB
}

func NewShareRepository(db *sqlx.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

func (r *ShareRepository) Create(ctx context.Context, share *domain.Share) error {
	if share.ID == uuid.Nil {
		share.ID = uuid.New()
	}

	query := `
        INSERT INTO shares (id, granter_id, grantee_email, resource_id, resource_type, access_level, active)
        VALUES ($1, $2, $3, $4, $5, $6, TRUE)
        RETURNING active, created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		share.ID,
		share.GranterID,
		share.GranteeEmail,
		share.ResourceID,
		share.ResourceType,
		share.AccessLevel,
	).Scan(&share.Active, &share.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create share: %w", err)
	}

	return nil
}

// GetActiveGrant возвращает свежайший активный грант получателя на ресурс.
// Неактивные гранты при проверке прав эквивалентны отсутствующим.
func (r *ShareRepository) GetActiveGrant(ctx context.Context, resourceID string, resourceType domain.ResourceType, granteeEmail string) (*domain.Share, error) {
	query := `
        SELECT id, granter_id, grantee_email, resource_id, resource_type, access_level, active, created_at
        FROM shares
        WHERE resource_id = $1
          AND resource_type = $2
          AND grantee_email = $3
          AND active
        ORDER BY created_at DESC
        LIMIT 1`

	var share domain.Share
	err := r.db.GetContext(ctx, &share, query, resourceID, resourceType, granteeEmail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("grant for %s on %s %s: %w",
				granteeEmail, resourceType, resourceID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get grant: %w", err)
	}

	return &share, nil
}

// ListByResource возвращает все гранты ресурса, включая отозванные —
// владельцу они нужны для аудита.
func (r *ShareRepository) ListByResource(ctx context.Context, resourceID string, resourceType domain.ResourceType) ([]domain.Share, error) {
	query := `
        SELECT id, granter_id, grantee_email, resource_id, resource_type, access_level, active, created_at
        FROM shares
        WHERE resource_id = $1 AND resource_type = $2
        ORDER BY created_at DESC`

	shares := make([]domain.Share, 0)
	err := r.db.SelectContext(ctx, &shares, query, resourceID, resourceType)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}

	return shares, nil
}

func (r *ShareRepository) ListByGrantee(ctx context.Context, granteeEmail string) ([]domain.Share, error) {
	query := `
        SELECT id, granter_id, grantee_email, resource_id, resource_type, access_level, active, created_at
        FROM shares
        WHERE grantee_email = $1 AND active
        ORDER BY created_at DESC`

	shares := make([]domain.Share, 0)
	err := r.db.SelectContext(ctx, &shares, query, granteeEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}

	return shares, nil
}

// Revoke деактивирует грант, не удаляя строку.
func (r *ShareRepository) Revoke(ctx context.Context, shareID uuid.UUID, granterID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
        UPDATE shares
        SET active = FALSE
        WHERE id = $1 AND granter_id = $2 AND active`,
		shareID, granterID)
	if err != nil {
		return false, fmt.Errorf("failed to revoke share: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}
