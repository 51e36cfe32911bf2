package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"libratrack-backend/internal/config"
	infraCache "libratrack-backend/internal/infrastructure/cache"
	"libratrack-backend/internal/infrastructure/database"
	"libratrack-backend/pkg/cache"

	authorHandler "libratrack-backend/internal/domains/author/handler"
	authorRepo "libratrack-backend/internal/domains/author/repository"
	authorService "libratrack-backend/internal/domains/author/service"
	bookHandler "libratrack-backend/internal/domains/book/handler"
	bookRepo "libratrack-backend/internal/domains/book/repository"
	bookService "libratrack-backend/internal/domains/book/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds the full dependency graph of the application.
// Everything in here is a singleton for the app lifetime.
type Container struct {
	// Infrastructure layer - shared across all domains
	Config *config.Config
	DB     *database.PostgresDB
	Cache  cache.Cache

	// Repository layer (data access)
	AuthorRepo authorRepo.Repository
	BookRepo   bookRepo.Repository

	// Service layer (business logic)
	AuthorService authorService.Service
	BookService   bookService.Service

	// Handler layer (HTTP)
	AuthorHandler *authorHandler.Handler
	BookHandler   *bookHandler.Handler
}

// NewContainer builds the dependency graph in order:
// config -> infrastructure -> repositories -> services -> handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("config loaded (environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	redisCache := infraCache.NewRedisClient(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)

	// A cache outage is not fatal: repositories fall through to the
	// database when Redis is unreachable.
	if err := redisCache.Connect(context.Background()); err != nil {
		log.Printf("redis connection failed (non-critical): %v", err)
	}
	c.Cache = redisCache

	// ========================================
	// STEP 4: INITIALIZE REPOSITORIES
	// ========================================
	c.AuthorRepo = authorRepo.NewPostgresRepository(c.DB.Pool, c.Cache)
	c.BookRepo = bookRepo.NewPostgresRepository(c.DB.Pool, c.Cache)

	// ========================================
	// STEP 5: INITIALIZE SERVICES
	// ========================================
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo)
	// Cross-domain dependency: book writes validate author references.
	c.BookService = bookService.NewBookService(c.BookRepo, c.AuthorRepo)

	// ========================================
	// STEP 6: INITIALIZE HANDLERS
	// ========================================
	c.AuthorHandler = authorHandler.NewHandler(c.AuthorService, c.BookService)
	c.BookHandler = bookHandler.NewHandler(c.BookService)

	return c, nil
}

// Cleanup releases infrastructure resources in reverse order.
func (c *Container) Cleanup() {
	if rc, ok := c.Cache.(*infraCache.RedisClient); ok {
		if err := rc.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}
}
