package handlers

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/clipshare/backend/internal/models"
	"github.com/clipshare/backend/internal/repositories"
)

// UserStore captures the persistence operations required by the user handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context, pseudo string, page repositories.Page) ([]models.User, int64, error)
	Update(ctx context.Context, user models.User) error
	Delete(ctx context.Context, id string) error
}

// TokenIssuer signs and records credentials for authenticated users.
type TokenIssuer interface {
	Issue(ctx context.Context, userID string) (string, time.Time, error)
}

// VideoStore captures the persistence operations required by the video handlers.
type VideoStore interface {
	FindByID(ctx context.Context, id string) (models.Video, error)
	List(ctx context.Context, namePrefix string, page repositories.Page) ([]models.Video, int64, error)
	ListByOwner(ctx context.Context, ownerID string, page repositories.Page) ([]models.Video, int64, error)
	Rename(ctx context.Context, id, name string) (models.Video, error)
	Delete(ctx context.Context, id string) error
}

// FormatStore lists the transcoded renditions embedded in video payloads.
type FormatStore interface {
	ListByVideo(ctx context.Context, videoID string) ([]models.VideoFormat, error)
}

// CommentStore captures persistence for the comment submission workflow.
type CommentStore interface {
	Upsert(ctx context.Context, comment models.Comment) (models.Comment, bool, error)
	ListByVideo(ctx context.Context, videoID string, page repositories.Page) ([]models.Comment, int64, error)
}

// MediaIngestor validates uploaded streams and records their metadata rows.
type MediaIngestor interface {
	IngestVideo(ctx context.Context, owner models.User, file multipart.File, header *multipart.FileHeader, declaredName string) (models.Video, error)
	IngestFormat(ctx context.Context, owner models.User, videoID, formatCode string, file multipart.File, header *multipart.FileHeader) (models.VideoFormat, error)
}
