package repositories

import (
	"context"
	"errors"
	"fmt"

	crdbpgx "github.com/cockroachdb/cockroach-go/v2/crdb/crdbpgxv5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clipshare/backend/internal/db"
	"github.com/clipshare/backend/internal/models"
)

// PostgresFormatRepository provides PostgreSQL-backed persistence for
// transcoded video format variants.
type PostgresFormatRepository struct {
	pool db.Pool
}

// NewPostgresFormatRepository constructs a format repository backed by PostgreSQL.
func NewPostgresFormatRepository(pool db.Pool) *PostgresFormatRepository {
	return &PostgresFormatRepository{pool: pool}
}

// Upsert stores a format rendition for its (video, code) pair. Re-encoding an
// existing format replaces its storage URI in place. The conditional write is
// evaluated by the store in one statement, mirroring the comment upsert, so
// concurrent uploads of the same format cannot create duplicate rows.
func (r *PostgresFormatRepository) Upsert(ctx context.Context, format models.VideoFormat) (models.VideoFormat, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.VideoFormat{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var stored models.VideoFormat
	err = crdbpgx.ExecuteTx(ctx, conn, pgx.TxOptions{}, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
            INSERT INTO video_formats (id, video_id, code, uri)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (video_id, code)
            DO UPDATE SET uri = EXCLUDED.uri
            RETURNING id, video_id, code, uri
        `, format.ID, format.VideoID, format.Code, format.URI)

		return row.Scan(&stored.ID, &stored.VideoID, &stored.Code, &stored.URI)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return models.VideoFormat{}, ErrNotFound
		}
		return models.VideoFormat{}, fmt.Errorf("upsert video format: %w", err)
	}

	return stored, nil
}

// ListByVideo returns all format renditions recorded for a video.
func (r *PostgresFormatRepository) ListByVideo(ctx context.Context, videoID string) ([]models.VideoFormat, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, video_id, code, uri
        FROM video_formats
        WHERE video_id = $1
        ORDER BY code
    `, videoID)
	if err != nil {
		return nil, fmt.Errorf("select video formats: %w", err)
	}
	defer rows.Close()

	formats := []models.VideoFormat{}
	for rows.Next() {
		var format models.VideoFormat
		if err := rows.Scan(&format.ID, &format.VideoID, &format.Code, &format.URI); err != nil {
			return nil, fmt.Errorf("scan video format: %w", err)
		}
		formats = append(formats, format)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video formats: %w", err)
	}

	return formats, nil
}
