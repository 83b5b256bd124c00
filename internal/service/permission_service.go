package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"orbitdrive/internal/domain"
	"orbitdrive/internal/repository"
)

// PermissionService решает, может ли пользователь читать или изменять
// ресурс: владелец — всегда, остальные — только по активному гранту.
// Результат нигде не кэшируется, каждая проверка читает текущее
// состояние грантов, поэтому отзыв действует со следующего же запроса.
type PermissionService struct {
	shareRepo  *repository.ShareRepository
	fileRepo   *repository.FileRepository
	folderRepo *repository.FolderRepository
}

func NewPermissionService(
	shareRepo *repository.ShareRepository,
	fileRepo *repository.FileRepository,
	folderRepo *repository.FolderRepository,
) *PermissionService {
	return &PermissionService{
		shareRepo:  shareRepo,
		fileRepo:   fileRepo,
		folderRepo: folderRepo,
	}
}

// ResourceOwner возвращает владельца ресурса по строковому идентификатору.
func (s *PermissionService) ResourceOwner(
	ctx context.Context,
	resourceID string,
	resourceType domain.ResourceType,
) (int64, error) {
	switch resourceType {
	case domain.ResourceTypeFile:
		fileUUID, err := uuid.Parse(resourceID)
		if err != nil {
			return 0, fmt.Errorf("invalid file UUID: %w", err)
		}
		file, err := s.fileRepo.GetByUUID(ctx, fileUUID)
		if err != nil {
			return 0, err
		}
		return file.OwnerID, nil

	case domain.ResourceTypeFolder:
		folderID, err := strconv.ParseInt(resourceID, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid folder ID: %w", err)
		}
		folder, err := s.folderRepo.GetByID(ctx, folderID)
		if err != nil {
			return 0, err
		}
		return folder.OwnerID, nil

	default:
		return 0, fmt.Errorf("unsupported resource type: %s", resourceType)
	}
}

// CanAccess проверяет доступ principal к ресурсу в запрошенном режиме.
// Владелец проходит безусловно. Иначе ищется активный грант по email
// получателя на этот конкретный ресурс: нет гранта — отказ, read_only
// пропускает только чтение, read_write — оба режима.
func (s *PermissionService) CanAccess(
	ctx context.Context,
	principal *domain.Principal,
	resourceID string,
	resourceType domain.ResourceType,
	mode domain.AccessMode,
) (bool, error) {
	ownerID, err := s.ResourceOwner(ctx, resourceID, resourceType)
	if err != nil {
		return false, err
	}

	if ownerID == principal.ID {
		return true, nil
	}

	share, err := s.shareRepo.GetActiveGrant(ctx, resourceID, resourceType, principal.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get grant: %w", err)
	}

	return share.AccessLevel.Allows(mode), nil
}

// RequireAccess — CanAccess, завершающийся ErrPermissionDenied при отказе.
func (s *PermissionService) RequireAccess(
	ctx context.Context,
	principal *domain.Principal,
	resourceID string,
	resourceType domain.ResourceType,
	mode domain.AccessMode,
) error {
	allowed, err := s.CanAccess(ctx, principal, resourceID, resourceType, mode)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%s %s: %w", resourceType, resourceID, domain.ErrPermissionDenied)
	}
	return nil
}
