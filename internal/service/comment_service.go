package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"orbitdrive/internal/domain"
	"orbitdrive/internal/repository"
)

// CommentService — комментарии к файлам. Комментировать и читать может
// любой, у кого есть хотя бы чтение файла; удалять — автор комментария
// или владелец файла.
type CommentService struct {
	commentRepo       *repository.CommentRepository
	permissionService *PermissionService
}

func NewCommentService(
	commentRepo *repository.CommentRepository,
	permissionService *PermissionService,
) *CommentService {
	return &CommentService{
		commentRepo:       commentRepo,
		permissionService: permissionService,
	}
}

func (s *CommentService) Create(ctx context.Context, principal *domain.Principal, fileUUID uuid.UUID, body string) (*domain.Comment, error) {
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

	comment := &domain.Comment{
		FileUUID: fileUUID,
		AuthorID: principal.ID,
		Body:     body,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *CommentService) ListByFile(ctx context.Context, principal *domain.Principal, fileUUID uuid.UUID) ([]domain.Comment, error) {
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

	return s.commentRepo.ListByFile(ctx, fileUUID)
}

func (s *CommentService) Delete(ctx context.Context, principal *domain.Principal, commentID uuid.UUID) (bool, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return false, err
	}

	if comment.AuthorID != principal.ID {
		ownerID, err := s.permissionService.ResourceOwner(
			ctx,
			comment.FileUUID.String(),
			domain.ResourceTypeFile,
		)
		if err != nil {
			return false, err
		}
		if ownerID != principal.ID {
			return false, fmt.Errorf("comment %s: %w", commentID, domain.ErrPermissionDenied)
		}
	}

	return s.commentRepo.Delete(ctx, commentID)
}
