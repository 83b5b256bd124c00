package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"orbitdrive/internal/auth"
	"orbitdrive/internal/config"
	"orbitdrive/internal/handler"
	"orbitdrive/internal/repository"
	"orbitdrive/internal/service"
)

func connectWithRetry(cfg *config.DatabaseConfig, maxAttempts int, delay time.Duration) (*sqlx.DB, error) {
	dsn := cfg.GetDSN()

	// Сначала подключаемся к системной базе postgres, которая существует всегда
	pgDSN := strings.Replace(dsn, "dbname="+cfg.Name, "dbname=postgres", 1)
	pgDB, err := sqlx.Connect("postgres", pgDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres database: %v", err)
	}
	defer pgDB.Close()

	// Проверяем, существует ли целевая база данных
	var exists bool
	err = pgDB.Get(&exists, "SELECT EXISTS(SELECT datname FROM pg_catalog.pg_database WHERE datname = $1)", cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check database existence: %v", err)
	}

	// Если базы нет, создаем её
	if !exists {
		log.Printf("Database %s does not exist, creating...", cfg.Name)
		_, err = pgDB.Exec(fmt.Sprintf("CREATE DATABASE %s", cfg.Name))
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %v", err)
		}
	}

	var db *sqlx.DB
	for i := 0; i < maxAttempts; i++ {
		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			return db, nil
		}

		log.Printf("Failed to connect to database (attempt %d/%d): %v", i+1, maxAttempts, err)
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %v", maxAttempts, err)
}

func runMigrations(cfg *config.Config) error {
	databaseURL := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	var m *migrate.Migrate
	var err error

	for i := 0; i < 5; i++ {
		m, err = migrate.New("file://migrations", databaseURL)
		if err == nil {
			break
		}
		log.Printf("Failed to create migrate instance (attempt %d/5): %v", i+1, err)
		time.Sleep(time.Second * 5)
	}

	if err != nil {
		return fmt.Errorf("failed to create migrate instance after retries: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if dirty {
		log.Printf("Found dirty database state at version %d, attempting to force version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func main() {
	// Загружаем конфигурации
	appConfig, err := config.NewConfig(".app.env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	authConfig, err := auth.NewConfig(".auth.env")
	if err != nil {
		log.Fatalf("Failed to load auth config: %v", err)
	}

	// Подключаемся к базе данных
	db, err := connectWithRetry(&appConfig.Database, 5, time.Second*5)
	if err != nil {
		log.Fatalf("Failed to connect to database after retries: %v", err)
	}
	defer db.Close()

	if err := runMigrations(appConfig); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	// Клиент identity provider и менеджер сессионных токенов
	authClient := auth.NewClient(authConfig)
	tokenManager := auth.NewTokenManager(authConfig)

	// Инициализация репозиториев
	folderRepo := repository.NewFolderRepository(db)
	fileRepo := repository.NewFileRepository(db)
	shareRepo := repository.NewShareRepository(db)
	userRepo := repository.NewUserRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	referenceRepo := repository.NewReferenceRepository(db)
	quotaRepo := repository.NewStorageQuotaRepository(db)

	// Инициализация сервисов
	permissionService := service.NewPermissionService(shareRepo, fileRepo, folderRepo)
	quotaService := service.NewStorageQuotaService(quotaRepo)
	folderService := service.NewFolderService(folderRepo, permissionService)
	fileService := service.NewFileService(fileRepo, permissionService, quotaService)
	shareService := service.NewShareService(shareRepo, permissionService)
	commentService := service.NewCommentService(commentRepo, permissionService)
	userService := service.NewUserService(userRepo, authClient, tokenManager)

	// Инициализация хендлеров
	folderHandler := handler.NewFolderHandler(folderService)
	fileHandler := handler.NewFileHandler(fileService)
	shareHandler := handler.NewShareHandler(shareService)
	commentHandler := handler.NewCommentHandler(commentService)
	userHandler := handler.NewUserHandler(userService)
	referenceHandler := handler.NewReferenceHandler(referenceRepo)
	quotaHandler := handler.NewStorageQuotaHandler(quotaService)

	// Настройка HTTP роутера
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/v1", func(r chi.Router) {
		// Публичные маршруты
		r.Post("/signup", userHandler.Signup)
		r.Post("/login", userHandler.Login)

		// Все остальное — только с валидным токеном
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokenManager))

			r.Get("/users", userHandler.GetUser)

			r.Get("/countries", referenceHandler.ListCountries)
			r.Get("/colors", referenceHandler.ListColors)
			r.Get("/access-types", referenceHandler.ListAccessTypes)

			r.Get("/storage", quotaHandler.GetQuotaInfo)

			r.Post("/folders", folderHandler.CreateFolder)
			r.Get("/folders", folderHandler.ListFolders)
			r.Get("/folders/statistics", folderHandler.FolderStatistics)
			r.Route("/folders/{id}", func(r chi.Router) {
				r.Get("/", folderHandler.GetFolder)
				r.Get("/path", folderHandler.GetFolderPath)
				r.Put("/move", folderHandler.MoveFolder)
				r.Delete("/", folderHandler.DeleteFolder)
				r.Post("/restore", folderHandler.RestoreFolder)
			})

			r.Post("/files", fileHandler.RegisterFile)
			r.Get("/files", fileHandler.ListFiles)
			r.Get("/files/search", fileHandler.SearchFiles)
			r.Get("/files/recent", fileHandler.RecentFiles)
			r.Route("/files/{uuid}", func(r chi.Router) {
				r.Get("/", fileHandler.GetFile)
				r.Put("/rename", fileHandler.RenameFile)
				r.Put("/move", fileHandler.MoveFile)
				r.Delete("/", fileHandler.DeleteFile)
				r.Post("/restore", fileHandler.RestoreFile)
				r.Get("/comments", commentHandler.ListFileComments)
			})

			r.Route("/shares", func(r chi.Router) {
				r.Post("/", shareHandler.CreateShare)
				r.Get("/", shareHandler.ListShares)
				r.Get("/shared-with-me", shareHandler.SharedWithMe)
				r.Delete("/{id}", shareHandler.RevokeShare)
			})

			r.Post("/comments", commentHandler.CreateComment)
			r.Delete("/comments/{id}", commentHandler.DeleteComment)
		})
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", appConfig.Server.Port),
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting HTTP server on port %s", appConfig.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server forced to shutdown: %v", err)
	}

	if err := db.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	}

	log.Println("Server exited properly")
}
