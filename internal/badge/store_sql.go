package badge

import (
	"context"
	"database/sql"
	"time"
)

// SQLStore keeps earned badges one row per (user, badge). The primary key
// plus ON CONFLICT DO NOTHING makes the append idempotent even when two
// completion triggers race within the same tick.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) AppendIfAbsent(ctx context.Context, userID string, b Badge) error {
	earnedAt := b.EarnedAt
	if earnedAt.IsZero() {
		earnedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_badges (user_id, badge_id, module_id, name, description, icon, earned_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (user_id, badge_id) DO NOTHING`,
		userID, b.ID, b.ModuleID, b.Name, b.Description, b.Icon, earnedAt.Unix())
	return err
}

func (s *SQLStore) LoadEarned(ctx context.Context, userID string) ([]Badge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT badge_id, module_id, name, description, icon, earned_at
		 FROM user_badges WHERE user_id=$1 ORDER BY earned_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Badge
	for rows.Next() {
		var b Badge
		var earnedAt int64
		if err := rows.Scan(&b.ID, &b.ModuleID, &b.Name, &b.Description, &b.Icon, &earnedAt); err != nil {
			return nil, err
		}
		b.Earned = true
		b.EarnedAt = time.Unix(earnedAt, 0).UTC()
		out = append(out, b)
	}
	return out, rows.Err()
}
