package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/HuonT/Writers-Tome/internal/progress"
)

// SQLStore persists projects one row each, with the progress document as a
// JSON text column. Placeholders are $1-style, which both the pgx stdlib
// driver and modernc sqlite accept.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Save(ctx context.Context, p Project) error {
	pj, err := json.Marshal(p.Progress)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (id, user_id, name, created_at, last_modified, progress_json)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (id) DO UPDATE SET
		   name=EXCLUDED.name,
		   last_modified=EXCLUDED.last_modified,
		   progress_json=EXCLUDED.progress_json`,
		p.ID, p.UserID, p.Name, p.CreatedAt.Unix(), p.LastModified.Unix(), string(pj))
	return err
}

func (s *SQLStore) Get(ctx context.Context, id string) (Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at, last_modified, progress_json
		 FROM projects WHERE id=$1`, id)
	return scanProject(row)
}

func (s *SQLStore) ListForUser(ctx context.Context, userID string) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, created_at, last_modified, progress_json
		 FROM projects WHERE user_id=$1 ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (Project, error) {
	var p Project
	var createdAt, lastModified int64
	var pjson string
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &createdAt, &lastModified, &pjson); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}
	p.CreatedAt = unixUTC(createdAt)
	p.LastModified = unixUTC(lastModified)
	if err := json.Unmarshal([]byte(pjson), &p.Progress); err != nil {
		p.Progress = progress.New()
	}
	p.Progress = progress.Normalize(p.Progress)
	return p, nil
}
