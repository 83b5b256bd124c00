package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"orbitdrive/internal/domain"
	"orbitdrive/internal/repository"
)

func newShareService(db *sqlx.DB) *ShareService {
	shareRepo := repository.NewShareRepository(db)
	return NewShareService(shareRepo, NewPermissionService(
		shareRepo,
		repository.NewFileRepository(db),
		repository.NewFolderRepository(db),
	))
}

func TestShareService_Create(t *testing.T) {
	asserts := assert.New(t)
	db, mock := newTestDB(t)
	svc := newShareService(db)

	owner := &domain.Principal{ID: 1, Email: "alice@example.com"}
	other := &domain.Principal{ID: 2, Email: "bob@example.com"}

	// Владелец выдает грант
	{
		expectFolderOwner(mock, 10, 1)
		mock.ExpectQuery("INSERT INTO shares").
			WillReturnRows(sqlmock.NewRows([]string{"active", "created_at"}).
				AddRow(true, time.Now()))

		share, err := svc.Create(context.Background(), owner, &domain.Share{
			GranteeEmail: "bob@example.com",
			ResourceID:   "10",
			ResourceType: domain.ResourceTypeFolder,
			AccessLevel:  domain.AccessReadWrite,
		})
		asserts.NoError(err)
		asserts.True(share.Active)
		asserts.Equal(owner.ID, share.GranterID)
		asserts.NotEqual(uuid.Nil, share.ID)
		asserts.NoError(mock.ExpectationsWereMet())
	}

	// Не владелец выдать грант не может
	{
		expectFolderOwner(mock, 10, 1)

		share, err := svc.Create(context.Background(), other, &domain.Share{
			GranteeEmail: "eve@example.com",
			ResourceID:   "10",
			ResourceType: domain.ResourceTypeFolder,
			AccessLevel:  domain.AccessReadOnly,
		})
		asserts.Nil(share)
		asserts.ErrorIs(err, domain.ErrPermissionDenied)
		asserts.NoError(mock.ExpectationsWereMet())
	}

	// Неизвестный уровень доступа отбрасывается до запросов к базе
	{
		share, err := svc.Create(context.Background(), owner, &domain.Share{
			GranteeEmail: "bob@example.com",
			ResourceID:   "10",
			ResourceType: domain.ResourceTypeFolder,
			AccessLevel:  domain.AccessLevel("admin"),
		})
		asserts.Nil(share)
		asserts.Error(err)
		asserts.NoError(mock.ExpectationsWereMet())
	}
}

func TestShareService_ListByResource(t *testing.T) {
	asserts := assert.New(t)
	db, mock := newTestDB(t)
	svc := newShareService(db)

	owner := &domain.Principal{ID: 1, Email: "alice@example.com"}
	other := &domain.Principal{ID: 2, Email: "bob@example.com"}

	// Владелец видит и отозванные гранты
	{
		expectFolderOwner(mock, 10, 1)
		mock.ExpectQuery("SELECT (.+) FROM shares").
			WithArgs("10", domain.ResourceTypeFolder).
			WillReturnRows(sqlmock.NewRows(shareColumns()).
				AddRow(uuid.New(), int64(1), "bob@example.com", "10", domain.ResourceTypeFolder, domain.AccessReadOnly, true, time.Now()).
				AddRow(uuid.New(), int64(1), "eve@example.com", "10", domain.ResourceTypeFolder, domain.AccessReadWrite, false, time.Now()))

		shares, err := svc.ListByResource(context.Background(), owner, "10", domain.ResourceTypeFolder)
		asserts.NoError(err)
		asserts.Len(shares, 2)
		asserts.False(shares[1].Active)
		asserts.NoError(mock.ExpectationsWereMet())
	}

	// Чужой список грантов недоступен
	{
		expectFolderOwner(mock, 10, 1)

		shares, err := svc.ListByResource(context.Background(), other, "10", domain.ResourceTypeFolder)
		asserts.Nil(shares)
		asserts.ErrorIs(err, domain.ErrPermissionDenied)
		asserts.NoError(mock.ExpectationsWereMet())
	}
}

func TestShareService_Revoke(t *testing.T) {
	asserts := assert.New(t)
	db, mock := newTestDB(t)
	svc := newShareService(db)

	owner := &domain.Principal{ID: 1, Email: "alice@example.com"}
	other := &domain.Principal{ID: 2, Email: "bob@example.com"}
	shareID := uuid.New()

	// Выдавший грант отзывает его
	{
		mock.ExpectExec("UPDATE shares").
			WithArgs(shareID, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		revoked, err := svc.Revoke(context.Background(), owner, shareID)
		asserts.NoError(err)
		asserts.True(revoked)
		asserts.NoError(mock.ExpectationsWereMet())
	}

	// Чужой грант отозвать нельзя: строка не затрагивается
	{
		mock.ExpectExec("UPDATE shares").
			WithArgs(shareID, int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		revoked, err := svc.Revoke(context.Background(), other, shareID)
		asserts.NoError(err)
		asserts.False(revoked)
		asserts.NoError(mock.ExpectationsWereMet())
	}
}
