package service

import (
	"context"
	"fmt"

	"orbitdrive/internal/domain"
	"orbitdrive/internal/repository"
)

// StorageQuotaService — учет места пользователя по заявленным размерам
// файловых метаданных.
type StorageQuotaService struct {
	quotaRepo *repository.StorageQuotaRepository
}

func NewStorageQuotaService(quotaRepo *repository.StorageQuotaRepository) *StorageQuotaService {
	return &StorageQuotaService{quotaRepo: quotaRepo}
}

func (s *StorageQuotaService) GetQuotaInfo(ctx context.Context, ownerID int64) (*domain.QuotaInfo, error) {
	quota, err := s.quotaRepo.GetQuota(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quota: %w", err)
	}

	return &domain.QuotaInfo{
		TotalSpace:     quota.TotalBytesLimit,
		UsedSpace:      quota.UsedBytes,
		AvailableSpace: quota.TotalBytesLimit - quota.UsedBytes,
		UsagePercent:   float64(quota.UsedBytes) / float64(quota.TotalBytesLimit) * 100,
	}, nil
}

func (s *StorageQuotaService) CheckSpaceAvailable(ctx context.Context, ownerID, requiredBytes int64) (bool, error) {
	quota, err := s.quotaRepo.GetQuota(ctx, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to get quota: %w", err)
	}

	return quota.UsedBytes+requiredBytes <= quota.TotalBytesLimit, nil
}

// UpdateUsedSpace пересчитывает занятое место по активным файлам.
func (s *StorageQuotaService) UpdateUsedSpace(ctx context.Context, ownerID int64) error {
	return s.quotaRepo.RecalculateUsedSpace(ctx, ownerID)
}
