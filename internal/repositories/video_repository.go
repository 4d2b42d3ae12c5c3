package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clipshare/backend/internal/db"
	"github.com/clipshare/backend/internal/models"
)

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// Create persists a new video record.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, user_id, name, source, views, enabled, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, video.ID, video.OwnerID, video.Name, video.Source, video.Views, video.Enabled, video.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

// FindByID fetches a video by primary key.
func (r *PostgresVideoRepository) FindByID(ctx context.Context, id string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, user_id, name, source, views, enabled, created_at
        FROM videos
        WHERE id = $1
    `, id)

	var video models.Video
	if err := row.Scan(&video.ID, &video.OwnerID, &video.Name, &video.Source, &video.Views, &video.Enabled, &video.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("select video: %w", err)
	}

	return video, nil
}

// List returns one page of videos in insertion order, optionally filtered by
// a name prefix, along with the total number of matching rows.
func (r *PostgresVideoRepository) List(ctx context.Context, namePrefix string, page Page) ([]models.Video, int64, error) {
	where := ""
	args := []any{}
	if namePrefix != "" {
		where = "WHERE name LIKE $1 || '%'"
		args = append(args, namePrefix)
	}
	return r.list(ctx, where, args, page)
}

// ListByOwner returns one page of a single user's videos.
func (r *PostgresVideoRepository) ListByOwner(ctx context.Context, ownerID string, page Page) ([]models.Video, int64, error) {
	return r.list(ctx, "WHERE user_id = $1", []any{ownerID}, page)
}

func (r *PostgresVideoRepository) list(ctx context.Context, where string, args []any, page Page) ([]models.Video, int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM videos `+where, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	query := fmt.Sprintf(`
        SELECT id, user_id, name, source, views, enabled, created_at
        FROM videos %s
        ORDER BY created_at, id
        LIMIT $%d OFFSET $%d
    `, where, len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Offset())

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select videos: %w", err)
	}
	defer rows.Close()

	videos := []models.Video{}
	for rows.Next() {
		var video models.Video
		if err := rows.Scan(&video.ID, &video.OwnerID, &video.Name, &video.Source, &video.Views, &video.Enabled, &video.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, count, nil
}

// Rename changes a video's display name.
func (r *PostgresVideoRepository) Rename(ctx context.Context, id, name string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        UPDATE videos
        SET name = $2
        WHERE id = $1
        RETURNING id, user_id, name, source, views, enabled, created_at
    `, id, name)

	var video models.Video
	if err := row.Scan(&video.ID, &video.OwnerID, &video.Name, &video.Source, &video.Views, &video.Enabled, &video.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("rename video: %w", err)
	}

	return video, nil
}

// Delete removes a video. Dependent comments and format rows are removed by
// the schema's ON DELETE CASCADE constraints.
func (r *PostgresVideoRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
