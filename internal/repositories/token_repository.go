package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clipshare/backend/internal/db"
	"github.com/clipshare/backend/internal/models"
)

// PostgresTokenRepository records issued credentials. Rows are append-only;
// there is no revocation path, expiry lives inside the signed code.
type PostgresTokenRepository struct {
	pool db.Pool
}

// NewPostgresTokenRepository constructs a token repository backed by PostgreSQL.
func NewPostgresTokenRepository(pool db.Pool) *PostgresTokenRepository {
	return &PostgresTokenRepository{pool: pool}
}

// Create persists an issued token record.
func (r *PostgresTokenRepository) Create(ctx context.Context, token models.Token) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO tokens (id, code, user_id, expires_at)
        VALUES ($1, $2, $3, $4)
    `, token.ID, token.Code, token.UserID, token.ExpiresAt)
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
		return fmt.Errorf("insert token: %w", err)
	}

	return nil
}
