package service

import (
	"context"
	"fmt"
	"strconv"

	"orbitdrive/internal/domain"
	"orbitdrive/internal/repository"
)

// FolderService управляет деревом папок: создание, листинг, перемещение,
// мягкое удаление и восстановление, хлебные крошки. Перед любой мутацией
// права проверяются через PermissionService.
type FolderService struct {
	folderRepo        *repository.FolderRepository
	permissionService *PermissionService
}

func NewFolderService(
	folderRepo *repository.FolderRepository,
	permissionService *PermissionService,
) *FolderService {
	return &FolderService{
		folderRepo:        folderRepo,
		permissionService: permissionService,
	}
}

func folderResourceID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Create создает папку от имени principal. Для вложенной папки требуется
// право записи на родителя; имя должно быть уникально среди активных
// соседей той же (владелец, родитель) области.
func (s *FolderService) Create(ctx context.Context, principal *domain.Principal, name string, parentID, colorID *int64) (*domain.Folder, error) {
	if parentID != nil {
		err := s.permissionService.RequireAccess(
			ctx,
			principal,
			folderResourceID(*parentID),
			domain.ResourceTypeFolder,
			domain.ModeWrite,
		)
		if err != nil {
			return nil, err
		}
	}

	folder := &domain.Folder{
		Name:     name,
		OwnerID:  principal.ID,
		ParentID: parentID,
		ColorID:  colorID,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	return folder, nil
}

// List отдает папки principal под заданным родителем (nil — корень),
// по имени по возрастанию. Каждый вызов — свежий снимок.
func (s *FolderService) List(ctx context.Context, principal *domain.Principal, parentID *int64, includeDeleted bool) ([]domain.Folder, error) {
	return s.folderRepo.List(ctx, principal.ID, parentID, includeDeleted)
}

// Get — безусловный поиск; авторизация остается на вызывающем.
func (s *FolderService) Get(ctx context.Context, folderID int64) (*domain.Folder, error) {
	return s.folderRepo.GetByID(ctx, folderID)
}

// Move переносит папку под нового родителя (nil — в корень). Требует
// записи на саму папку и на назначение; перенос в собственное поддерево
// отклоняется с ErrCycle. Возвращает, была ли затронута строка.
func (s *FolderService) Move(ctx context.Context, principal *domain.Principal, folderID int64, newParentID *int64) (bool, error) {
	err := s.permissionService.RequireAccess(
		ctx,
		principal,
		folderResourceID(folderID),
		domain.ResourceTypeFolder,
		domain.ModeWrite,
	)
	if err != nil {
		return false, err
	}

	if newParentID != nil {
		err := s.permissionService.RequireAccess(
			ctx,
			principal,
			folderResourceID(*newParentID),
			domain.ResourceTypeFolder,
			domain.ModeWrite,
		)
		if err != nil {
			return false, err
		}
	}

	return s.folderRepo.Move(ctx, folderID, newParentID)
}

// SoftDelete помечает папку удаленной. Требуется право записи.
func (s *FolderService) SoftDelete(ctx context.Context, principal *domain.Principal, folderID int64) (bool, error) {
	err := s.permissionService.RequireAccess(
		ctx,
		principal,
		folderResourceID(folderID),
		domain.ResourceTypeFolder,
		domain.ModeWrite,
	)
	if err != nil {
		return false, err
	}

	return s.folderRepo.SoftDelete(ctx, folderID)
}

// Restore возвращает папку из корзины. Гранты на удаленный контент не
// моделируются, поэтому восстановление доступно только владельцу —
// чужая строка просто не будет затронута.
func (s *FolderService) Restore(ctx context.Context, principal *domain.Principal, folderID int64) (bool, error) {
	return s.folderRepo.Restore(ctx, folderID, principal.ID)
}

// Statistics — сводка по уровню дерева principal (nil — корень): число
// активных подпапок и файлов и их суммарный размер.
func (s *FolderService) Statistics(ctx context.Context, principal *domain.Principal, folderID *int64) (*domain.FolderStatistics, error) {
	return s.folderRepo.Statistics(ctx, principal.ID, folderID)
}

// Path возвращает breadcrumb от корня до папки.
func (s *FolderService) Path(ctx context.Context, folderID int64) ([]domain.Folder, error) {
	path, err := s.folderRepo.Path(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to build folder path: %w", err)
	}
	return path, nil
}

// IsDescendant сообщает, входит ли candidate в поддерево ancestor.
// Это O(depth) подъем по ссылкам, без кэшей.
func (s *FolderService) IsDescendant(ctx context.Context, ancestorID, candidateID int64) (bool, error) {
	return s.folderRepo.IsDescendant(ctx, ancestorID, candidateID)
}
