package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"

	"storefront/app/controller"
	"storefront/app/router"
	"storefront/db"
	"storefront/pipeline"
	"storefront/repository"
	"storefront/service"
	"storefront/store"
)

// Session wires the stores and services for one running storefront
type Session struct {
	Config   *Config
	Storage  repository.StorageInterface
	Catalog  *store.CatalogStore
	Cart     *store.CartStore
	Wishlist *store.WishlistStore
	Pipeline *pipeline.Pipeline
	Images   *service.ImageService
	Export   *service.ExportService
	Warm     *service.WarmService
}

// NewSession initializes the application and starts the catalog load
func NewSession(ctx context.Context, cfg *Config) (*Session, error) {
	drive, err := newDriveService(ctx, cfg)
	if err != nil {
		return nil, err
	}

	source, err := newCatalogSource(cfg, drive)
	if err != nil {
		return nil, err
	}
	catalogRepo, err := repository.NewCatalogRepository(source)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize catalog repository: %w", err)
	}

	storage, err := NewStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	cache, err := service.NewImageCache(cfg.ImageCacheDir)
	if err != nil {
		storage.Close()
		return nil, err
	}
	images := service.NewImageService(cache, drive, cfg.AssetsDir)

	s := &Session{
		Config:   cfg,
		Storage:  storage,
		Catalog:  store.NewCatalogStore(catalogRepo, cfg.CatalogLoadDelay),
		Cart:     store.NewCartStore(ctx, storage),
		Wishlist: store.NewWishlistStore(),
		Pipeline: pipeline.New(cfg.CollationLocale),
		Images:   images,
		Export:   service.NewExportService(images, cfg.BaseURL, cfg.TemplatePath, cfg.ChromePath),
		Warm:     service.NewWarmService(cache, images),
	}
	s.Catalog.Load(ctx)

	return s, nil
}

// Handler builds the HTTP routes for the session
func (s *Session) Handler() http.Handler {
	controllers := &router.Controllers{
		Product:  controller.NewProductController(s.Catalog, s.Pipeline),
		Cart:     controller.NewCartController(s.Cart, s.Catalog),
		Wishlist: controller.NewWishlistController(s.Wishlist, s.Catalog),
		Image:    controller.NewImageController(s.Catalog, s.Images),
		Export:   controller.NewExportController(s.Catalog, s.Pipeline, s.Export),
		Events:   controller.NewEventsController(s.Catalog, s.Cart, s.Wishlist),
		Warm:     controller.NewWarmController(s.Catalog, s.Warm),
	}
	if s.Config.ExportRate > 0 {
		controllers.ExportLimiter = rate.NewLimiter(rate.Limit(s.Config.ExportRate), s.Config.ExportBurst)
	}

	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers)
	return router.WithCORS(mux, s.Config.CORSOrigins)
}

// Close releases the cart storage
func (s *Session) Close() error {
	return s.Storage.Close()
}

// newDriveService returns nil when no credentials are configured.
// A Drive-hosted catalog requires them.
func newDriveService(ctx context.Context, cfg *Config) (service.DriveServiceInterface, error) {
	if cfg.CredentialsPath == "" {
		if cfg.CatalogDriveFileID != "" {
			return nil, fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS environment variable is not set")
		}
		return nil, nil
	}

	driveService, err := service.NewDriveService(ctx, cfg.CredentialsPath)
	if err != nil {
		if cfg.CatalogDriveFileID != "" {
			return nil, err
		}
		log.Printf("⚠️  Drive disabled: %v", err)
		return nil, nil
	}
	return driveService, nil
}

// newCatalogSource picks Drive when a file id is configured, the local file otherwise
func newCatalogSource(cfg *Config, drive service.DriveServiceInterface) (repository.CatalogSourceInterface, error) {
	if cfg.CatalogDriveFileID != "" {
		log.Printf("📄 Catalog source: Drive file %s (%s)", cfg.CatalogDriveFileID, cfg.CatalogFormat)
		return repository.NewDriveCatalogSource(drive, cfg.CatalogDriveFileID, cfg.CatalogFormat), nil
	}
	source, err := repository.NewFileCatalogSource(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize catalog source: %w", err)
	}
	log.Printf("📄 Catalog source: %s", source.Name())
	return source, nil
}

// NewStorage opens the cart storage selected by STORAGE_DRIVER
func NewStorage(ctx context.Context, cfg *Config) (repository.StorageInterface, error) {
	switch cfg.StorageDriver {
	case StorageMemory:
		return repository.NewMemoryStorage(), nil

	case StorageRedis:
		return repository.NewRedisStorage(ctx, cfg.RedisURL)

	case StorageSQLite:
		if err := os.MkdirAll(cfg.StoragePath, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
		conn, err := db.Open(ctx, db.DriverSQLite, filepath.Join(cfg.StoragePath, "storefront.db"))
		if err != nil {
			return nil, err
		}
		return newSQLStorage(ctx, conn, repository.DialectSQLite)

	case StoragePostgres:
		connStr, err := db.ConnStringFromEnv()
		if err != nil {
			return nil, err
		}
		conn, err := db.Open(ctx, db.DriverPostgres, connStr)
		if err != nil {
			return nil, err
		}
		return newSQLStorage(ctx, conn, repository.DialectPostgres)

	default:
		return repository.NewFileStorage(cfg.StoragePath)
	}
}

// newSQLStorage wraps conn and creates the kv_storage table; conn is closed on failure
func newSQLStorage(ctx context.Context, conn *sql.DB, dialect string) (repository.StorageInterface, error) {
	storage, err := repository.NewSQLStorage(conn, dialect)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := storage.EnsureSchema(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return storage, nil
}
