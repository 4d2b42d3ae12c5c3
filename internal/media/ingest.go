package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clipshare/backend/internal/logging"
	"github.com/clipshare/backend/internal/models"
	"github.com/clipshare/backend/internal/storage"
)

// sniffLen is the number of leading bytes inspected for content detection.
const sniffLen = 512

// VideoCreator persists metadata rows for newly ingested videos.
type VideoCreator interface {
	Create(ctx context.Context, video models.Video) error
}

// FormatUpserter records or replaces a transcoded rendition row.
type FormatUpserter interface {
	Upsert(ctx context.Context, format models.VideoFormat) (models.VideoFormat, error)
}

// Ingestor validates uploaded video streams, persists the bytes, and records
// the metadata row pointing at the stored location.
type Ingestor struct {
	store   storage.Store
	videos  VideoCreator
	formats FormatUpserter

	nowFunc func() time.Time
}

// NewIngestor constructs an Ingestor writing into the provided store.
func NewIngestor(store storage.Store, videos VideoCreator, formats FormatUpserter) *Ingestor {
	if store == nil {
		panic("media: storage must not be nil")
	}
	return &Ingestor{store: store, videos: videos, formats: formats}
}

// IngestVideo validates and stores an uploaded source file, then records a new
// video owned by the given user. The video is named from declaredName, falling
// back to the sanitized original filename.
func (i *Ingestor) IngestVideo(ctx context.Context, owner models.User, file multipart.File, header *multipart.FileHeader, declaredName string) (models.Video, error) {
	ctx, span := logging.StartSpan(ctx, "media.ingest_video")
	defer span.End()

	name, err := i.prepare(ctx, owner, file, header, "")
	if err != nil {
		return models.Video{}, err
	}

	location, err := i.save(ctx, name, file)
	if err != nil {
		return models.Video{}, err
	}

	displayName := strings.TrimSpace(declaredName)
	if displayName == "" {
		displayName = sanitize(header.Filename)
	}

	video := models.Video{
		ID:        uuid.NewString(),
		OwnerID:   owner.ID,
		Name:      displayName,
		Source:    location,
		Enabled:   true,
		CreatedAt: i.now(),
	}

	if err := i.videos.Create(ctx, video); err != nil {
		i.discard(name)
		return models.Video{}, err
	}

	return video, nil
}

// IngestFormat validates and stores an uploaded rendition, then records or
// replaces the (video, format code) row pointing at it.
func (i *Ingestor) IngestFormat(ctx context.Context, owner models.User, videoID, formatCode string, file multipart.File, header *multipart.FileHeader) (models.VideoFormat, error) {
	ctx, span := logging.StartSpan(ctx, "media.ingest_format")
	defer span.End()

	name, err := i.prepare(ctx, owner, file, header, formatCode)
	if err != nil {
		return models.VideoFormat{}, err
	}

	location, err := i.save(ctx, name, file)
	if err != nil {
		return models.VideoFormat{}, err
	}

	format, err := i.formats.Upsert(ctx, models.VideoFormat{
		ID:      uuid.NewString(),
		VideoID: videoID,
		Code:    formatCode,
		URI:     location,
	})
	if err != nil {
		i.discard(name)
		return models.VideoFormat{}, err
	}

	return format, nil
}

// prepare validates the stream and derives the storage filename. Nothing is
// written if validation fails. The stream is left positioned at its start.
func (i *Ingestor) prepare(ctx context.Context, owner models.User, file multipart.File, header *multipart.FileHeader, formatCode string) (string, error) {
	if file == nil || header == nil || header.Filename == "" || header.Size == 0 {
		return "", ErrNoFile
	}

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read upload head: %w", err)
	}
	if n == 0 {
		return "", ErrNoFile
	}

	contentType := http.DetectContentType(buf[:n])
	if !strings.HasPrefix(contentType, "video/") {
		return "", ErrWrongType
	}

	// Sniffing must not consume the stream for storage.
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	parts := []string{sanitize(owner.Username), fmt.Sprintf("%d", i.now().UnixNano())}
	if formatCode != "" {
		parts = append(parts, formatCode)
	}
	parts = append(parts, sanitize(header.Filename)+strings.ToLower(filepath.Ext(header.Filename)))

	return strings.Join(parts, "_"), nil
}

func (i *Ingestor) save(ctx context.Context, name string, file multipart.File) (string, error) {
	location, err := i.store.Save(ctx, name, file)
	if err != nil {
		return "", fmt.Errorf("persist upload: %w", err)
	}
	return location, nil
}

// discard removes a stored file after a failed metadata write.
func (i *Ingestor) discard(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = i.store.Remove(ctx, name)
}

// WithNowFunc overrides the time source. Useful for tests.
func (i *Ingestor) WithNowFunc(now func() time.Time) *Ingestor {
	i.nowFunc = now
	return i
}

func (i *Ingestor) now() time.Time {
	if i.nowFunc != nil {
		return i.nowFunc()
	}
	return time.Now().UTC()
}

// sanitize reduces a client-supplied filename to a filesystem-safe token.
func sanitize(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 64 {
		name = name[:64]
	}
	if strings.Trim(name, "_") == "" {
		return "file"
	}
	return name
}
