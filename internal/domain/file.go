package domain

import (
	"github.com/google/uuid"
	"time"
)

// File — плоский ресурс, лист дерева. FolderID == nil означает корень.
type File struct {
	UUID      uuid.UUID `json:"uuid" db:"uuid"`
	Name      string    `json:"name" db:"name"`
	FolderID  *int64    `json:"folder_id,omitempty" db:"folder_id"`
	OwnerID   int64     `json:"owner_id" db:"owner_id"`
	MIMEType  string    `json:"mime_type" db:"mime_type"`
	SizeBytes int64     `json:"size_bytes" db:"size_bytes"`
	Hash      string    `json:"hash" db:"hash"`
	Deleted   bool      `json:"deleted" db:"deleted"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
