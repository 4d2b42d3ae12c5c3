package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clipshare/backend/internal/config"
)

type fakePool struct{}

func (fakePool) Acquire(context.Context) (*pgxpool.Conn, error) {
	return nil, errors.New("not implemented")
}

func (fakePool) Close() {}

func TestBuildDependencies(t *testing.T) {
	cfg := config.Config{
		TokenSecret:    "test-secret",
		TokenTTL:       time.Hour,
		StorageDriver:  "local",
		UploadDir:      t.TempDir(),
		LoginRateLimit: 10,
		LoginRateBurst: 5,
	}

	deps, err := buildDependencies(context.Background(), fakePool{}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if deps.Users == nil {
		t.Fatal("expected user repository to be configured")
	}
	if deps.Videos == nil {
		t.Fatal("expected video repository to be configured")
	}
	if deps.Formats == nil {
		t.Fatal("expected format repository to be configured")
	}
	if deps.Comments == nil {
		t.Fatal("expected comment repository to be configured")
	}
	if deps.Tokens == nil {
		t.Fatal("expected token issuer to be configured")
	}
	if deps.Verifier == nil {
		t.Fatal("expected token verifier to be configured")
	}
	if deps.Ingest == nil {
		t.Fatal("expected media ingestor to be configured")
	}
	if deps.Files == nil {
		t.Fatal("expected file storage to be configured")
	}
	if deps.Limiter == nil {
		t.Fatal("expected login rate limiter to be configured")
	}
}

func TestBuildDependenciesRejectsUnknownStorageDriver(t *testing.T) {
	cfg := config.Config{StorageDriver: "tape"}

	if _, err := buildDependencies(context.Background(), fakePool{}, cfg); err == nil {
		t.Fatal("expected error for unknown storage driver")
	}
}
