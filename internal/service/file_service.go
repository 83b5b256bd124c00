package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"orbitdrive/internal/domain"
	"orbitdrive/internal/repository"
)

// FileService — плоский аналог FolderService: файлы лежат в папке или в
// корне, без собственной иерархии, но с тем же контрактом проверки прав.
type FileService struct {
	fileRepo          *repository.FileRepository
	permissionService *PermissionService
	quotaService      *StorageQuotaService
}

func NewFileService(
	fileRepo *repository.FileRepository,
	permissionService *PermissionService,
	quotaService *StorageQuotaService,
) *FileService {
	return &FileService{
		fileRepo:          fileRepo,
		permissionService: permissionService,
		quotaService:      quotaService,
	}
}

// refreshUsedSpace пересчитывает занятое место после мутации. Ошибка
// пересчета операцию не откатывает: следующий успешный пересчет
// восстановит актуальное значение.
func (s *FileService) refreshUsedSpace(ctx context.Context, ownerID int64) {
	if err := s.quotaService.UpdateUsedSpace(ctx, ownerID); err != nil {
		log.Printf("[FileService] Failed to update used space for user %d: %v", ownerID, err)
	}
}

// Register сохраняет метаданные файла. Само содержимое этим сервисом не
// хранится. Для файла внутри папки требуется право записи на неё;
// заявленный размер должен помещаться в квоту владельца.
func (s *FileService) Register(ctx context.Context, principal *domain.Principal, file *domain.File) (*domain.File, error) {
	if file.FolderID != nil {
		err := s.permissionService.RequireAccess(
			ctx,
			principal,
			folderResourceID(*file.FolderID),
			domain.ResourceTypeFolder,
			domain.ModeWrite,
		)
		if err != nil {
			return nil, err
		}
	}

	available, err := s.quotaService.CheckSpaceAvailable(ctx, principal.ID, file.SizeBytes)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, fmt.Errorf("file %q (%d bytes): %w", file.Name, file.SizeBytes, domain.ErrQuotaExceeded)
	}

	file.OwnerID = principal.ID
	if err := s.fileRepo.Create(ctx, file); err != nil {
		return nil, err
	}

	s.refreshUsedSpace(ctx, principal.ID)
	return file, nil
}

// Search ищет файлы principal по подстроке имени.
func (s *FileService) Search(ctx context.Context, principal *domain.Principal, term string) ([]domain.File, error) {
	return s.fileRepo.Search(ctx, principal.ID, term)
}

// Recent возвращает файлы, измененные за последние days дней.
func (s *FileService) Recent(ctx context.Context, principal *domain.Principal, days int) ([]domain.File, error) {
	return s.fileRepo.ListRecent(ctx, principal.ID, days)
}

func (s *FileService) List(ctx context.Context, principal *domain.Principal, folderID *int64, includeDeleted bool) ([]domain.File, error) {
	return s.fileRepo.List(ctx, principal.ID, folderID, includeDeleted)
}

// Get отдает файл после проверки права чтения.
func (s *FileService) Get(ctx context.Context, principal *domain.Principal, fileUUID uuid.UUID) (*domain.File, error) {
	err := s.permissionService.RequireAccess(
		ctx,
		principal,
		fileUUID.String(),
		domain.ResourceTypeFile,
		domain.ModeRead,
	)
	if err != nil {
		return nil, err
	}

	return s.fileRepo.GetByUUID(ctx, fileUUID)
}

func (s *FileService) Rename(ctx context.Context, principal *domain.Principal, fileUUID uuid.UUID, newName string) (bool, error) {
	err := s.permissionService.RequireAccess(
		ctx,
		principal,
		fileUUID.String(),
		domain.ResourceTypeFile,
		domain.ModeWrite,
	)
	if err != nil {
		return false, err
	}

	return s.fileRepo.Rename(ctx, fileUUID, newName)
}

// Move перемещает файл в другую папку (nil — в корень). Нужна запись и на
// файл, и на папку назначения.
func (s *FileService) Move(ctx context.Context, principal *domain.Principal, fileUUID uuid.UUID, folderID *int64) (bool, error) {
	err := s.permissionService.RequireAccess(
		ctx,
		principal,
		fileUUID.String(),
		domain.ResourceTypeFile,
		domain.ModeWrite,
	)
	if err != nil {
		return false, err
	}

	if folderID != nil {
		err := s.permissionService.RequireAccess(
			ctx,
			principal,
			folderResourceID(*folderID),
			domain.ResourceTypeFolder,
			domain.ModeWrite,
		)
		if err != nil {
			return false, err
		}
	}

	return s.fileRepo.Move(ctx, fileUUID, folderID)
}

func (s *FileService) SoftDelete(ctx context.Context, principal *domain.Principal, fileUUID uuid.UUID) (bool, error) {
	err := s.permissionService.RequireAccess(
		ctx,
		principal,
		fileUUID.String(),
		domain.ResourceTypeFile,
		domain.ModeWrite,
	)
	if err != nil {
		return false, err
	}

	deleted, err := s.fileRepo.SoftDelete(ctx, fileUUID)
	if err != nil {
		return false, err
	}
	if deleted {
		// Удалять может и получатель гранта, место освобождается у владельца
		ownerID, err := s.permissionService.ResourceOwner(ctx, fileUUID.String(), domain.ResourceTypeFile)
		if err != nil {
			log.Printf("[FileService] Failed to resolve owner of file %s: %v", fileUUID, err)
			return true, nil
		}
		s.refreshUsedSpace(ctx, ownerID)
	}

	return deleted, nil
}

// Restore — как и у папок, только для владельца.
func (s *FileService) Restore(ctx context.Context, principal *domain.Principal, fileUUID uuid.UUID) (bool, error) {
	restored, err := s.fileRepo.Restore(ctx, fileUUID, principal.ID)
	if err != nil {
		return false, err
	}
	if restored {
		s.refreshUsedSpace(ctx, principal.ID)
	}

	return restored, nil
}
