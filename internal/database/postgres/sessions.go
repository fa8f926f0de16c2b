package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kudzaitsapo/fileflow-web/internal/web/middleware"
)

const sessionColumns = "id, token, user_id, email, first_name, last_name, created_at, expires_at"

// SessionRepository stores dashboard sessions so they survive restarts.
type SessionRepository struct {
	pool *Pool
}

var _ middleware.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(pool *Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Save inserts or replaces a session.
func (r *SessionRepository) Save(ctx context.Context, s *middleware.StoredSession) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			token      = EXCLUDED.token,
			user_id    = EXCLUDED.user_id,
			email      = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name  = EXCLUDED.last_name,
			expires_at = EXCLUDED.expires_at`,
		s.ID, s.Token, s.UserID, s.Email, s.FirstName, s.LastName, s.CreatedAt, s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}

// Get returns the live session with the given ID, or nil.
func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*middleware.StoredSession, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE id = $1 AND expires_at > NOW()", sessionID)

	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

func scanSession(row *sql.Row) (*middleware.StoredSession, error) {
	var s middleware.StoredSession
	err := row.Scan(&s.ID, &s.Token, &s.UserID, &s.Email, &s.FirstName, &s.LastName, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM sessions WHERE id = $1", sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired purges expired sessions and reports how many were removed.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, "DELETE FROM sessions WHERE expires_at <= NOW()")
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}
