package domain

import (
	"time"
)

// Folder — узел дерева папок. Иерархия хранится только через parent_id,
// все вопросы о предках решаются подъёмом по ссылкам (O(depth), дерево
// на практике мелкое).
type Folder struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	OwnerID   int64     `json:"owner_id" db:"owner_id"`
	ParentID  *int64    `json:"parent_id,omitempty" db:"parent_id"`
	ColorID   *int64    `json:"color_id,omitempty" db:"color_id"`
	Deleted   bool      `json:"deleted" db:"deleted"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
