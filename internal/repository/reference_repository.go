package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"orbitdrive/internal/domain"
)

// ReferenceRepository отдает справочники: страны, цвета, типы доступа.
type ReferenceRepository struct {
	db *sqlx.DB
}

func NewReferenceRepository(db *sqlx.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) ListCountries(ctx context.Context) ([]domain.Country, error) {
	countries := make([]domain.Country, 0)
	err := r.db.SelectContext(ctx, &countries,
		`SELECT id, name FROM countries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	return countries, nil
}

func (r *ReferenceRepository) ListColors(ctx context.Context) ([]domain.Color, error) {
	colors := make([]domain.Color, 0)
	err := r.db.SelectContext(ctx, &colors,
		`SELECT id, name, hex_code FROM colors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list colors: %w", err)
	}
	return colors, nil
}

func (r *ReferenceRepository) ListAccessTypes(ctx context.Context) ([]domain.AccessType, error) {
	types := make([]domain.AccessType, 0)
	err := r.db.SelectContext(ctx, &types,
		`SELECT id, name FROM access_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list access types: %w", err)
	}
	return types, nil
}
