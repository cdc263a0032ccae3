package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"storefront/pipeline"
	"storefront/service"
	"storefront/store"
)

// Storage drivers accepted by STORAGE_DRIVER
const (
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageMemory   = "memory"
)

// Config holds the settings read from the environment
type Config struct {
	Port    string
	BaseURL string

	StorageDriver string
	StoragePath   string
	RedisURL      string

	CatalogPath        string
	CatalogDriveFileID string
	CatalogFormat      string
	CredentialsPath    string
	CatalogLoadDelay   time.Duration

	CollationLocale string
	AssetsDir       string
	ImageCacheDir   string
	TemplatePath    string
	ChromePath      string

	// CORSOrigins lists the browser origins allowed to call the API
	CORSOrigins []string
	// ExportRate and ExportBurst bound headless Chrome renders (per second)
	ExportRate  float64
	ExportBurst int
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// splitList splits a comma-separated value, dropping empty entries
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// LoadConfig reads Config from environment variables, applying defaults
func LoadConfig() (*Config, error) {
	port := getenv("PORT", "8080")
	// Remove leading colon if present (PORT from Render doesn't include it)
	port = strings.TrimPrefix(port, ":")

	cfg := &Config{
		Port:               port,
		BaseURL:            getenv("BASE_URL", "http://localhost:"+port),
		StorageDriver:      strings.ToLower(getenv("STORAGE_DRIVER", StorageFile)),
		StoragePath:        getenv("STORAGE_PATH", ".storefront"),
		RedisURL:           getenv("REDIS_URL", "redis://localhost:6379/0"),
		CatalogPath:        getenv("CATALOG_PATH", filepath.Join("data", "catalog.json")),
		CatalogDriveFileID: getenv("CATALOG_DRIVE_FILE_ID", ""),
		CatalogFormat:      strings.ToLower(getenv("CATALOG_FORMAT", "json")),
		CredentialsPath:    getenv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		CatalogLoadDelay:   store.DefaultCatalogLoadDelay,
		CollationLocale:    getenv("COLLATION_LOCALE", pipeline.DefaultLocale),
		AssetsDir:          getenv("ASSETS_DIR", "public"),
		ImageCacheDir:      getenv("IMAGE_CACHE_DIR", service.DefaultImageCacheDir),
		TemplatePath:       getenv("TEMPLATE_PATH", filepath.Join("templates", "catalog.html")),
		ChromePath:         getenv("CHROME_PATH", ""),
		CORSOrigins:        splitList(getenv("CORS_ORIGINS", "*")),
		ExportRate:         0.5,
		ExportBurst:        2,
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	if raw := os.Getenv("CATALOG_LOAD_DELAY"); raw != "" {
		delay, err := time.ParseDuration(raw)
		if err != nil || delay < 0 {
			return nil, fmt.Errorf("invalid CATALOG_LOAD_DELAY %q", raw)
		}
		cfg.CatalogLoadDelay = delay
	}

	if raw := os.Getenv("EXPORT_RATE"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil || r <= 0 {
			return nil, fmt.Errorf("invalid EXPORT_RATE %q", raw)
		}
		cfg.ExportRate = r
	}
	if raw := os.Getenv("EXPORT_BURST"); raw != "" {
		b, err := strconv.Atoi(raw)
		if err != nil || b < 1 {
			return nil, fmt.Errorf("invalid EXPORT_BURST %q", raw)
		}
		cfg.ExportBurst = b
	}

	switch cfg.StorageDriver {
	case StorageFile, StorageSQLite, StoragePostgres, StorageRedis, StorageMemory:
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q: use file, sqlite, postgres, redis or memory", cfg.StorageDriver)
	}

	if cfg.CatalogFormat != "json" && cfg.CatalogFormat != "yaml" {
		return nil, fmt.Errorf("invalid CATALOG_FORMAT %q: use json or yaml", cfg.CatalogFormat)
	}

	return cfg, nil
}
