package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/cookbook/internal/cookbook/domain"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/store"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, authenticated, error_message, expires_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, mapStringNull(s.UserID), s.Authenticated, mapStringNull(s.ErrorMessage),
		s.ExpiresAt.UTC(), now, now)
	if err != nil {
		return mapConflict(err)
	}
	return nil
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, authenticated, error_message, expires_at, created_at, updated_at
		 FROM sessions WHERE id = ?`, id)

	var (
		s       domain.Session
		userID  sql.NullString
		message sql.NullString
	)
	err := row.Scan(
		&s.ID,
		&userID,
		&s.Authenticated,
		&message,
		&s.ExpiresAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}

	// Expiry is checked here rather than in SQL so the comparison uses one
	// clock and one time representation.
	if !s.ExpiresAt.After(time.Now().UTC()) {
		return domain.Session{}, store.ErrNotFound
	}

	s.UserID = mapNullString(userID)
	s.ErrorMessage = mapNullString(message)
	return s, nil
}

func (r *sessionsRepo) UpdateSession(ctx context.Context, s domain.Session) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions
		 SET user_id = ?, authenticated = ?, error_message = ?, expires_at = ?, updated_at = ?
		 WHERE id = ?`,
		mapStringNull(s.UserID), s.Authenticated, mapStringNull(s.ErrorMessage),
		s.ExpiresAt.UTC(), time.Now().UTC(), s.ID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, time.Now().UTC())
	return err
}
