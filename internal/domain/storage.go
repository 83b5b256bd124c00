package domain

import "time"

// StorageQuota — учет места пользователя. Содержимое файлов не хранится,
// used_bytes считается по заявленным размерам метаданных.
type StorageQuota struct {
	ID              int64     `json:"id" db:"id"`
	OwnerID         int64     `json:"owner_id" db:"owner_id"`
	TotalBytesLimit int64     `json:"total_bytes_limit" db:"total_bytes_limit"`
	UsedBytes       int64     `json:"used_bytes" db:"used_bytes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type QuotaInfo struct {
	TotalSpace     int64   `json:"total_space"`
	UsedSpace      int64   `json:"used_space"`
	AvailableSpace int64   `json:"available_space"`
	UsagePercent   float64 `json:"usage_percent"`
}

// FolderStatistics — сводка по одному уровню дерева: число подпапок и
// файлов и их суммарный размер.
type FolderStatistics struct {
	TotalFolders int64 `json:"total_folders" db:"total_folders"`
	TotalFiles   int64 `json:"total_files" db:"total_files"`
	TotalSize    int64 `json:"total_size" db:"total_size"`
}
