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

// PostgresCommentRepository provides PostgreSQL-backed persistence for comments.
type PostgresCommentRepository struct {
	pool db.Pool
}

// NewPostgresCommentRepository constructs a comment repository backed by PostgreSQL.
func NewPostgresCommentRepository(pool db.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

// Upsert stores the comment for its (user, video) pair, overwriting the body
// when a comment already exists. The decision is made by the store in a single
// conditional statement so concurrent submissions cannot create duplicate
// rows; the surrounding retrying transaction absorbs serialization failures.
// It reports whether a new row was created.
func (r *PostgresCommentRepository) Upsert(ctx context.Context, comment models.Comment) (models.Comment, bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Comment{}, false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var stored models.Comment
	err = crdbpgx.ExecuteTx(ctx, conn, pgx.TxOptions{}, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
            INSERT INTO comments (id, user_id, video_id, body, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $5)
            ON CONFLICT (user_id, video_id)
            DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
            RETURNING id, user_id, video_id, body, created_at, updated_at
        `, comment.ID, comment.UserID, comment.VideoID, comment.Body, comment.CreatedAt)

		return row.Scan(&stored.ID, &stored.UserID, &stored.VideoID, &stored.Body, &stored.CreatedAt, &stored.UpdatedAt)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return models.Comment{}, false, ErrNotFound
		}
		return models.Comment{}, false, fmt.Errorf("upsert comment: %w", err)
	}

	created := stored.CreatedAt.Equal(stored.UpdatedAt)
	return stored, created, nil
}

// ListByVideo returns one page of a video's comments in insertion order along
// with the total number of rows.
func (r *PostgresCommentRepository) ListByVideo(ctx context.Context, videoID string, page Page) ([]models.Comment, int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE video_id = $1`, videoID).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT id, user_id, video_id, body, created_at, updated_at
        FROM comments
        WHERE video_id = $1
        ORDER BY created_at, id
        LIMIT $2 OFFSET $3
    `, videoID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("select comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(&comment.ID, &comment.UserID, &comment.VideoID, &comment.Body, &comment.CreatedAt, &comment.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, count, nil
}
