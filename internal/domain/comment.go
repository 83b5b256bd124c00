package domain

import (
	"github.com/google/uuid"
	"time"
)

type Comment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FileUUID  uuid.UUID `json:"file_uuid" db:"file_uuid"`
	AuthorID  int64     `json:"author_id" db:"author_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
