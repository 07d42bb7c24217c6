package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/eugener/foyer/internal/storage"
)

// UpsertMember inserts a member row or refreshes nickname/last-login when
// the email is already known. An empty incoming nickname keeps the stored
// one, so callers that only know the email cannot erase what signup recorded.
func (s *Store) UpsertMember(ctx context.Context, m *storage.Member) error {
	_, err := s.write.ExecContext(ctx,
		`INSERT INTO members (id, email, nickname, created_at, last_login_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET
		   nickname = CASE WHEN excluded.nickname = '' THEN members.nickname ELSE excluded.nickname END,
		   last_login_at = excluded.last_login_at`,
		m.ID, m.Email, m.Nickname,
		m.CreatedAt.UTC().Format(time.RFC3339),
		m.LastLoginAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetMemberByEmail retrieves a member by email.
func (s *Store) GetMemberByEmail(ctx context.Context, email string) (*storage.Member, error) {
	row := s.read.QueryRowContext(ctx,
		`SELECT id, email, nickname, created_at, last_login_at
		 FROM members WHERE email=?`, email,
	)

	var m storage.Member
	var createdAt, lastLogin string
	if err := row.Scan(&m.ID, &m.Email, &m.Nickname, &createdAt, &lastLogin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if lastLogin != "" {
		m.LastLoginAt, _ = time.Parse(time.RFC3339, lastLogin)
	}
	return &m, nil
}

// TouchLogin updates the member's last-login timestamp.
func (s *Store) TouchLogin(ctx context.Context, email string, at time.Time) error {
	result, err := s.write.ExecContext(ctx,
		`UPDATE members SET last_login_at=? WHERE email=?`,
		at.UTC().Format(time.RFC3339), email,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
