package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"orbitdrive/internal/domain"
)

type FolderRepository struct {
	db *sqlx.DB
}

func NewFolderRepository(db *sqlx.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

// rowQueryer покрывает и *sqlx.DB, и *sqlx.Tx: подъем по предкам
// выполняется как вне, так и внутри транзакции перемещения.
type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

const uniqueViolation = pq.ErrorCode("23505")

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// Create вставляет папку одной транзакцией: проверка имени среди активных
// соседей и сама вставка не разнесены по соединениям, а гонку двух
// одинаковых вставок дозакрывает частичный уникальный индекс.
func (r *FolderRepository) Create(ctx context.Context, folder *domain.Folder) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.GetContext(ctx, &exists, `
        SELECT EXISTS(
            SELECT 1 FROM folders
            WHERE owner_id = $1
              AND parent_id IS NOT DISTINCT FROM $2
              AND name = $3
              AND NOT deleted
        )`,
		folder.OwnerID, folder.ParentID, folder.Name)
	if err != nil {
		return fmt.Errorf("failed to check folder name: %w", err)
	}
	if exists {
		return fmt.Errorf("folder %q: %w", folder.Name, domain.ErrDuplicateName)
	}

	query := `
        INSERT INTO folders (name, owner_id, parent_id, color_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, deleted, created_at, updated_at`

	err = tx.QueryRowContext(
		ctx,
		query,
		folder.Name,
		folder.OwnerID,
		folder.ParentID,
		folder.ColorID,
	).Scan(&folder.ID, &folder.Deleted, &folder.CreatedAt, &folder.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("folder %q: %w", folder.Name, domain.ErrDuplicateName)
		}
		return fmt.Errorf("failed to create folder: %w", err)
	}

	return tx.Commit()
}

// GetByID — безусловный поиск по идентификатору, включая удаленные папки.
// Авторизацию выполняет вызывающая сторона.
func (r *FolderRepository) GetByID(ctx context.Context, id int64) (*domain.Folder, error) {
	query := `
        SELECT id, name, owner_id, parent_id, color_id, deleted, created_at, updated_at
        FROM folders
        WHERE id = $1`

	var folder domain.Folder
	err := r.db.GetContext(ctx, &folder, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get folder: %w", err)
	}

	return &folder, nil
}

func (r *FolderRepository) List(ctx context.Context, ownerID int64, parentID *int64, includeDeleted bool) ([]domain.Folder, error) {
	query := `
        SELECT id, name, owner_id, parent_id, color_id, deleted, created_at, updated_at
        FROM folders
        WHERE owner_id = $1
          AND parent_id IS NOT DISTINCT FROM $2`
	if !includeDeleted {
		query += `
          AND NOT deleted`
	}
	query += `
        ORDER BY name`

	folders := make([]domain.Folder, 0)
	err := r.db.SelectContext(ctx, &folders, query, ownerID, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}

	return folders, nil
}

// Move проверяет отсутствие цикла и меняет родителя в одной транзакции,
// чтобы два встречных перемещения не собрали кольцо между проверкой и
// записью. Возвращает, была ли затронута строка.
func (r *FolderRepository) Move(ctx context.Context, folderID int64, newParentID *int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if newParentID != nil {
		if *newParentID == folderID {
			return false, fmt.Errorf("folder %d: %w", folderID, domain.ErrCycle)
		}
		descendant, err := isDescendant(ctx, tx, parentQueryForUpdate, folderID, *newParentID)
		if err != nil {
			return false, fmt.Errorf("failed to check hierarchy: %w", err)
		}
		if descendant {
			return false, fmt.Errorf("folder %d: %w", folderID, domain.ErrCycle)
		}
	}

	result, err := tx.ExecContext(ctx, `
        UPDATE folders
        SET parent_id = $1, updated_at = CURRENT_TIMESTAMP
        WHERE id = $2 AND NOT deleted`,
		newParentID, folderID)
	if err != nil {
		if isUniqueViolation(err) {
			return false, fmt.Errorf("folder %d: %w", folderID, domain.ErrDuplicateName)
		}
		return false, fmt.Errorf("failed to move folder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit move: %w", err)
	}

	return rows > 0, nil
}

func (r *FolderRepository) SoftDelete(ctx context.Context, folderID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
        UPDATE folders
        SET deleted = TRUE, updated_at = CURRENT_TIMESTAMP
        WHERE id = $1 AND NOT deleted`,
		folderID)
	if err != nil {
		return false, fmt.Errorf("failed to delete folder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

// Restore возвращает папку из корзины. Фильтр по owner_id намеренный:
// восстанавливать может только владелец, гранты на удаленный контент
// не рассматриваются.
func (r *FolderRepository) Restore(ctx context.Context, folderID, ownerID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
        UPDATE folders
        SET deleted = FALSE, updated_at = CURRENT_TIMESTAMP
        WHERE id = $1 AND owner_id = $2 AND deleted`,
		folderID, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to restore folder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

// Statistics считает активные подпапки и файлы одного уровня (nil —
// корень) и их суммарный размер.
func (r *FolderRepository) Statistics(ctx context.Context, ownerID int64, folderID *int64) (*domain.FolderStatistics, error) {
	query := `
        SELECT
            (SELECT COUNT(*)
             FROM folders
             WHERE owner_id = $1
               AND parent_id IS NOT DISTINCT FROM $2
               AND NOT deleted) AS total_folders,
            (SELECT COUNT(*)
             FROM files
             WHERE owner_id = $1
               AND folder_id IS NOT DISTINCT FROM $2
               AND NOT deleted) AS total_files,
            (SELECT COALESCE(SUM(size_bytes), 0)
             FROM files
             WHERE owner_id = $1
               AND folder_id IS NOT DISTINCT FROM $2
               AND NOT deleted) AS total_size`

	var stats domain.FolderStatistics
	err := r.db.GetContext(ctx, &stats, query, ownerID, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get folder statistics: %w", err)
	}

	return &stats, nil
}

// Path собирает breadcrumb от корня к папке. Оборванная родительская
// ссылка молча обрезает путь: хлебные крошки полезнее частичные, чем
// никакие.
func (r *FolderRepository) Path(ctx context.Context, folderID int64) ([]domain.Folder, error) {
	path := make([]domain.Folder, 0)
	visited := make(map[int64]bool)

	currentID := folderID
	for {
		if visited[currentID] {
			log.Printf("[Path] Cycle detected at folder %d, truncating path", currentID)
			break
		}
		visited[currentID] = true

		folder, err := r.GetByID(ctx, currentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				if currentID == folderID {
					return nil, err
				}
				log.Printf("[Path] Dangling parent reference %d, truncating path", currentID)
				break
			}
			return nil, err
		}

		path = append([]domain.Folder{*folder}, path...)
		if folder.ParentID == nil {
			break
		}
		currentID = *folder.ParentID
	}

	return path, nil
}

const parentQuery = "SELECT parent_id FROM folders WHERE id = $1"

// Вариант для подъема внутри транзакции перемещения: блокирует пройденные
// строки, чтобы два встречных перемещения конфликтовали на общих узлах
// вместо того, чтобы обе пройти проверку и закоммитить кольцо.
const parentQueryForUpdate = parentQuery + " FOR UPDATE"

// IsDescendant проверяет, находится ли candidate в поддереве ancestor:
// подъем по parent_id от candidate с посещенным множеством на случай уже
// испорченной иерархии. Для самой папки отвечает false.
func (r *FolderRepository) IsDescendant(ctx context.Context, ancestorID, candidateID int64) (bool, error) {
	return isDescendant(ctx, r.db, parentQuery, ancestorID, candidateID)
}

func isDescendant(ctx context.Context, q rowQueryer, query string, ancestorID, candidateID int64) (bool, error) {
	visited := map[int64]bool{candidateID: true}
	currentID := candidateID

	for {
		var parentID *int64
		err := q.QueryRowContext(ctx, query, currentID).Scan(&parentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// оборванная ссылка — дальше идти некуда
				return false, nil
			}
			return false, fmt.Errorf("failed to get parent of folder %d: %w", currentID, err)
		}

		if parentID == nil {
			return false, nil
		}
		if *parentID == ancestorID {
			return true, nil
		}
		if visited[*parentID] {
			// защита от существующего цикла
			return false, nil
		}
		visited[*parentID] = true
		currentID = *parentID
	}
}
