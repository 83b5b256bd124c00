package domain

import "errors"

// Ошибки уровня домена. Репозитории и сервисы оборачивают их через %w,
// хендлеры сопоставляют со статусами HTTP через errors.Is.
var (
	ErrPermissionDenied = errors.New("access denied")
	ErrDuplicateName    = errors.New("name already exists at this level")
	ErrDuplicateEmail   = errors.New("email already registered")
	ErrCycle            = errors.New("cannot move folder into its own subtree")
	ErrNotFound         = errors.New("resource not found")
	ErrQuotaExceeded    = errors.New("storage quota exceeded")
)
