package domain

import (
	"github.com/google/uuid"
	"time"
)

type AccessLevel string
type AccessMode string
type ResourceType string

const (
	AccessReadOnly  AccessLevel = "read_only"
	AccessReadWrite AccessLevel = "read_write"

	ModeRead  AccessMode = "read"
	ModeWrite AccessMode = "write"

	ResourceTypeFile   ResourceType = "file"
	ResourceTypeFolder ResourceType = "folder"
)

// Share — грант доступа к ресурсу. Получатель идентифицируется по email.
// Неактивный грант сохраняется для аудита, но при проверке прав считается
// отсутствующим.
type Share struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	GranterID    int64        `json:"granter_id" db:"granter_id"`
	GranteeEmail string       `json:"grantee_email" db:"grantee_email"`
	ResourceID   string       `json:"resource_id" db:"resource_id"`
	ResourceType ResourceType `json:"resource_type" db:"resource_type"`
	AccessLevel  AccessLevel  `json:"access_level" db:"access_level"`
	Active       bool         `json:"active" db:"active"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// Allows сообщает, покрывает ли уровень гранта запрошенный режим.
func (l AccessLevel) Allows(mode AccessMode) bool {
	switch l {
	case AccessReadOnly:
		return mode == ModeRead
	case AccessReadWrite:
		return true
	default:
		return false
	}
}
