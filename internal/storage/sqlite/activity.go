package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eugener/foyer/internal/storage"
)

// InsertActivity writes a batch of audit records in one statement.
func (s *Store) InsertActivity(ctx context.Context, records []storage.Activity) error {
	if len(records) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO activity (id, member_email, kind, detail, created_at) VALUES `)
	args := make([]any, 0, len(records)*5)
	for i, r := range records {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?)")
		args = append(args, r.ID, r.MemberEmail, r.Kind, r.Detail,
			r.CreatedAt.UTC().Format(time.RFC3339))
	}

	if _, err := s.write.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert activity batch: %w", err)
	}
	return nil
}
