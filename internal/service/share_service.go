package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"orbitdrive/internal/domain"
	"orbitdrive/internal/repository"
)

// ShareService управляет грантами доступа. Выдавать и просматривать
// гранты может только владелец ресурса; отзыв не удаляет строку, а
// деактивирует её.
type ShareService struct {
	shareRepo         *repository.ShareRepository
	permissionService *PermissionService
}

func NewShareService(
	shareRepo *repository.ShareRepository,
	permissionService *PermissionService,
) *ShareService {
	return &ShareService{
		shareRepo:         shareRepo,
		permissionService: permissionService,
	}
}

func (s *ShareService) Create(ctx context.Context, principal *domain.Principal, share *domain.Share) (*domain.Share, error) {
	switch share.AccessLevel {
	case domain.AccessReadOnly, domain.AccessReadWrite:
	default:
		return nil, fmt.Errorf("unknown access level: %s", share.AccessLevel)
	}

	ownerID, err := s.permissionService.ResourceOwner(ctx, share.ResourceID, share.ResourceType)
	if err != nil {
		return nil, err
	}
	if ownerID != principal.ID {
		return nil, fmt.Errorf("only the owner can share %s %s: %w",
			share.ResourceType, share.ResourceID, domain.ErrPermissionDenied)
	}

	share.GranterID = principal.ID
	if err := s.shareRepo.Create(ctx, share); err != nil {
		return nil, err
	}

	return share, nil
}

func (s *ShareService) ListByResource(ctx context.Context, principal *domain.Principal, resourceID string, resourceType domain.ResourceType) ([]domain.Share, error) {
	ownerID, err := s.permissionService.ResourceOwner(ctx, resourceID, resourceType)
	if err != nil {
		return nil, err
	}
	if ownerID != principal.ID {
		return nil, fmt.Errorf("%s %s: %w", resourceType, resourceID, domain.ErrPermissionDenied)
	}

	return s.shareRepo.ListByResource(ctx, resourceID, resourceType)
}

func (s *ShareService) SharedWithMe(ctx context.Context, principal *domain.Principal) ([]domain.Share, error) {
	return s.shareRepo.ListByGrantee(ctx, principal.Email)
}

func (s *ShareService) Revoke(ctx context.Context, principal *domain.Principal, shareID uuid.UUID) (bool, error) {
	return s.shareRepo.Revoke(ctx, shareID, principal.ID)
}
