package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	goredis "github.com/redis/go-redis/v9"

	"github.com/filevault/filevault/pkg/filevault"
	memoryrepo "github.com/filevault/filevault/pkg/filevault/repo/memory"
	postgresrepo "github.com/filevault/filevault/pkg/filevault/repo/postgres"
	memorysession "github.com/filevault/filevault/pkg/filevault/session/memory"
	redissession "github.com/filevault/filevault/pkg/filevault/session/redis"
	fsstorage "github.com/filevault/filevault/pkg/filevault/storage/fs"
	memorystorage "github.com/filevault/filevault/pkg/filevault/storage/memory"
	s3storage "github.com/filevault/filevault/pkg/filevault/storage/s3"
)

// ServerConfig represents server configuration for the filevault service.
//
// Environment variable mapping:
//
//	PORT         - Server port (default: "8080")
//	ENVIRONMENT  - Runtime environment (default: "development")
//	DATABASE_URL - "memory" or "postgres://..." (default: memory)
//	SESSION_URL  - "memory" or "redis://..." (default: memory)
//	SESSION_TTL  - Session lifetime used by the login flow (default: 24h)
//	STORAGE_URL  - "memory://", "file:///path" or "s3://bucket"; when unset,
//	               filesystem storage rooted at FOLDER_PATH
//	FOLDER_PATH  - Blob storage root for filesystem storage
//	               (default: "/tmp/files_manager")
type ServerConfig struct {
	Port        string        `env:"PORT" env-default:"8080"`
	Environment string        `env:"ENVIRONMENT" env-default:"development"`
	DatabaseURL string        `env:"DATABASE_URL" env-default:"memory"`
	SessionURL  string        `env:"SESSION_URL" env-default:"memory"`
	SessionTTL  time.Duration `env:"SESSION_TTL" env-default:"24h"`
	StorageURL  string        `env:"STORAGE_URL" env-default:""`
	FolderPath  string        `env:"FOLDER_PATH" env-default:"/tmp/files_manager"`
	S3          S3Config
}

// S3Config carries credentials for the s3:// storage scheme.
type S3Config struct {
	Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:""`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`
	CreateBucket    bool   `env:"AWS_S3_CREATE_BUCKET" env-default:"false"`
}

// Load reads configuration from the environment and validates it.
func Load() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.DatabaseURL != "memory" && !isPostgresURL(c.DatabaseURL) {
		return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgres://...')", c.DatabaseURL)
	}
	if c.SessionURL != "memory" && !strings.HasPrefix(c.SessionURL, "redis://") && !strings.HasPrefix(c.SessionURL, "rediss://") {
		return fmt.Errorf("unsupported SESSION_URL format: %s (use 'memory' or 'redis://...')", c.SessionURL)
	}
	switch {
	case c.StorageURL == "", c.StorageURL == "memory", c.StorageURL == "memory://":
	case strings.HasPrefix(c.StorageURL, "file://"), strings.HasPrefix(c.StorageURL, "s3://"):
	default:
		return fmt.Errorf("unsupported STORAGE_URL format: %s (use 'memory://', 'file://...' or 's3://...')", c.StorageURL)
	}
	return nil
}

func isPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

// BuildService creates a filevault.Service from the configuration, wiring the
// configured repository, session store and blob store.
func (c *ServerConfig) BuildService(ctx context.Context) (filevault.Service, error) {
	repo, err := c.buildRepository(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := c.buildSessionStore()
	if err != nil {
		return nil, err
	}

	blobs, err := c.buildBlobStore(ctx)
	if err != nil {
		return nil, err
	}

	return filevault.New(
		filevault.WithEntryRepository(repo),
		filevault.WithUserRepository(repo),
		filevault.WithSessionStore(sessions),
		filevault.WithBlobStore(blobs),
	)
}

// repository combines the two repository facets every backend implements.
type repository interface {
	filevault.EntryRepository
	filevault.UserRepository
}

func (c *ServerConfig) buildRepository(ctx context.Context) (repository, error) {
	if c.DatabaseURL == "memory" {
		return memoryrepo.New(), nil
	}

	// Migrations run over database/sql via the pgx stdlib driver; the
	// repository itself uses a pgx pool.
	db, err := sql.Open("pgx", c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()
	if err := postgresrepo.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return postgresrepo.NewWithPool(pool), nil
}

func (c *ServerConfig) buildSessionStore() (filevault.SessionStore, error) {
	if c.SessionURL == "memory" {
		return memorysession.New(), nil
	}

	opts, err := goredis.ParseURL(c.SessionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SESSION_URL: %w", err)
	}
	return redissession.New(goredis.NewClient(opts)), nil
}

func (c *ServerConfig) buildBlobStore(ctx context.Context) (filevault.BlobStore, error) {
	url := c.StorageURL

	switch {
	case url == "memory" || url == "memory://":
		return memorystorage.New(), nil

	case url == "":
		// The fixed-default blob root applies when no storage URL is given.
		return fsstorage.New(fsstorage.Config{BaseDir: c.FolderPath})

	case strings.HasPrefix(url, "file://"):
		path := strings.TrimPrefix(url, "file://")
		if path == "" {
			return nil, errors.New("filesystem path cannot be empty in STORAGE_URL")
		}
		return fsstorage.New(fsstorage.Config{BaseDir: path})

	case strings.HasPrefix(url, "s3://"):
		bucket := strings.TrimPrefix(url, "s3://")
		if i := strings.IndexByte(bucket, '?'); i >= 0 {
			bucket = bucket[:i]
		}
		if bucket == "" {
			return nil, errors.New("s3 bucket name cannot be empty in STORAGE_URL")
		}
		return s3storage.New(ctx, s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			CreateBucketIfNotExist: c.S3.CreateBucket,
		})
	}

	return nil, fmt.Errorf("unsupported STORAGE_URL format: %s", url)
}
