package app

import (
	"context"
	"fmt"
	"time"

	"github.com/clipshare/backend/internal/auth"
	"github.com/clipshare/backend/internal/config"
	"github.com/clipshare/backend/internal/db"
	"github.com/clipshare/backend/internal/handlers"
	"github.com/clipshare/backend/internal/media"
	"github.com/clipshare/backend/internal/middleware"
	"github.com/clipshare/backend/internal/repositories"
	"github.com/clipshare/backend/internal/storage"
)

// buildDependencies assembles repositories, storage, and services into the
// handler dependency set.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	users := repositories.NewPostgresUserRepository(pool)
	videos := repositories.NewPostgresVideoRepository(pool)
	comments := repositories.NewPostgresCommentRepository(pool)
	formats := repositories.NewPostgresFormatRepository(pool)
	tokens := repositories.NewPostgresTokenRepository(pool)

	store, err := buildStorage(ctx, cfg)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	authenticator := auth.NewAuthenticator(cfg.TokenSecret, cfg.TokenTTL, tokens, users)
	ingestor := media.NewIngestor(store, videos, formats)
	loginLimiter := middleware.NewIPRateLimiter(cfg.LoginRateLimit, time.Minute, cfg.LoginRateBurst, 10*time.Minute)

	return handlers.Dependencies{
		Users:    users,
		Videos:   videos,
		Formats:  formats,
		Comments: comments,
		Tokens:   authenticator,
		Verifier: authenticator,
		Ingest:   ingestor,
		Files:    store,
		Limiter:  loginLimiter,
	}, nil
}

func buildStorage(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case "s3":
		return storage.NewS3Storage(ctx, cfg.ObjectStore)
	case "local", "":
		return storage.NewLocalStorage(cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
