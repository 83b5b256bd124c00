package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"orbitdrive/internal/auth"
	"orbitdrive/internal/domain"
	"orbitdrive/internal/repository"
	"orbitdrive/internal/service"
)

func newFolderRouter(t *testing.T) (*chi.Mux, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	db := sqlx.NewDb(mockDB, "sqlmock")
	t.Cleanup(func() { db.Close() })

	folderRepo := repository.NewFolderRepository(db)
	permissionService := service.NewPermissionService(
		repository.NewShareRepository(db),
		repository.NewFileRepository(db),
		folderRepo,
	)
	h := NewFolderHandler(service.NewFolderService(folderRepo, permissionService))

	router := chi.NewRouter()
	router.Route("/v1/folders", func(r chi.Router) {
		r.Post("/", h.CreateFolder)
		r.Get("/", h.ListFolders)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetFolder)
			r.Get("/path", h.GetFolderPath)
			r.Put("/move", h.MoveFolder)
			r.Delete("/", h.DeleteFolder)
			r.Post("/restore", h.RestoreFolder)
		})
	})
	return router, mock
}

func doRequest(router http.Handler, principal *domain.Principal, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if principal != nil {
		req = req.WithContext(auth.ContextWithPrincipal(req.Context(), principal))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestFolderHandler_StatusMapping(t *testing.T) {
	asserts := assert.New(t)
	router, mock := newFolderRouter(t)
	now := time.Now()

	owner := &domain.Principal{ID: 1, Email: "alice@example.com"}
	other := &domain.Principal{ID: 2, Email: "bob@example.com"}

	folderRow := func(id, ownerID int64) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "name", "owner_id", "parent_id", "color_id", "deleted", "created_at", "updated_at"}).
			AddRow(id, "Docs", ownerID, nil, nil, false, now, now)
	}

	// 200 на создание
	{
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("INSERT INTO folders").
			WillReturnRows(sqlmock.NewRows([]string{"id", "deleted", "created_at", "updated_at"}).
				AddRow(int64(10), false, now, now))
		mock.ExpectCommit()

		rec := doRequest(router, owner, http.MethodPost, "/v1/folders", `{"name":"Docs"}`)
		asserts.Equal(http.StatusOK, rec.Code)
		asserts.Contains(rec.Body.String(), `"id":10`)
		asserts.NoError(mock.ExpectationsWereMet())
	}

	// 400 на дубликат имени
	{
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		rec := doRequest(router, owner, http.MethodPost, "/v1/folders", `{"name":"Docs"}`)
		asserts.Equal(http.StatusBadRequest, rec.Code)
		asserts.NoError(mock.ExpectationsWereMet())
	}

	// 400 на пустое имя, до сервиса запрос не доходит
	{
		rec := doRequest(router, owner, http.MethodPost, "/v1/folders", `{"name":""}`)
		asserts.Equal(http.StatusBadRequest, rec.Code)
		asserts.NoError(mock.ExpectationsWereMet())
	}

	// 401 без пользователя в контексте
	{
		rec := doRequest(router, nil, http.MethodPost, "/v1/folders", `{"name":"Docs"}`)
		asserts.Equal(http.StatusUnauthorized, rec.Code)
	}

	// 403 на перемещение без прав
	{
		mock.ExpectQuery("SELECT (.+) FROM folders").
			WillReturnRows(folderRow(5, 1))
		mock.ExpectQuery("SELECT (.+) FROM shares").
			WillReturnRows(sqlmock.NewRows([]string{"id", "granter_id", "grantee_email", "resource_id", "resource_type", "access_level", "active", "created_at"}))

		rec := doRequest(router, other, http.MethodPut, "/v1/folders/5/move", `{"new_parent_id":null}`)
		asserts.Equal(http.StatusForbidden, rec.Code)
		asserts.NoError(mock.ExpectationsWereMet())
	}

	// 400 на перемещение в собственное поддерево
	{
		mock.ExpectQuery("SELECT (.+) FROM folders").
			WillReturnRows(folderRow(1, 1))
		mock.ExpectQuery("SELECT (.+) FROM folders").
			WillReturnRows(folderRow(3, 1))
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT parent_id FROM folders").
			WillReturnRows(sqlmock.NewRows([]string{"parent_id"}).AddRow(int64(1)))
		mock.ExpectRollback()

		rec := doRequest(router, owner, http.MethodPut, "/v1/folders/1/move", `{"new_parent_id":3}`)
		asserts.Equal(http.StatusBadRequest, rec.Code)
		asserts.NoError(mock.ExpectationsWereMet())
	}

	// 404 на несуществующую папку
	{
		mock.ExpectQuery("SELECT (.+) FROM folders").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "owner_id", "parent_id", "color_id", "deleted", "created_at", "updated_at"}))

		rec := doRequest(router, owner, http.MethodGet, "/v1/folders/404", "")
		asserts.Equal(http.StatusNotFound, rec.Code)
		asserts.NoError(mock.ExpectationsWereMet())
	}

	// 200 и успех на удаление
	{
		mock.ExpectQuery("SELECT (.+) FROM folders").
			WillReturnRows(folderRow(10, 1))
		mock.ExpectExec("UPDATE folders").
			WillReturnResult(sqlmock.NewResult(0, 1))

		rec := doRequest(router, owner, http.MethodDelete, "/v1/folders/10", "")
		asserts.Equal(http.StatusOK, rec.Code)
		asserts.Contains(rec.Body.String(), `"success":true`)
		asserts.NoError(mock.ExpectationsWereMet())
	}
}

func TestFolderHandler_ListFolders(t *testing.T) {
	asserts := assert.New(t)
	router, mock := newFolderRouter(t)
	now := time.Now()

	owner := &domain.Principal{ID: 1, Email: "alice@example.com"}

	// Листинг корня
	{
		mock.ExpectQuery("SELECT (.+) FROM folders").
			WithArgs(int64(1), nil).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "owner_id", "parent_id", "color_id", "deleted", "created_at", "updated_at"}).
				AddRow(int64(2), "Music", int64(1), nil, nil, false, now, now))

		rec := doRequest(router, owner, http.MethodGet, "/v1/folders", "")
		asserts.Equal(http.StatusOK, rec.Code)
		asserts.Contains(rec.Body.String(), "Music")
		asserts.NoError(mock.ExpectationsWereMet())
	}

	// Мусорный parent
	{
		rec := doRequest(router, owner, http.MethodGet, "/v1/folders?parent=abc", "")
		asserts.Equal(http.StatusBadRequest, rec.Code)
	}
}
