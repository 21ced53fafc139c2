package user

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// Create registers a new account with a bcrypt-hashed password.
func (s *SQLStore) Create(ctx context.Context, email, displayName, password string) (Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Profile{}, errors.New("email and password required")
	}
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE email=$1`, email).Scan(&exists)
	if err == nil {
		return Profile{}, ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Profile{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Profile{}, err
	}
	now := time.Now().UTC()
	p := Profile{
		ID:          uuid.NewString(),
		Email:       email,
		DisplayName: displayName,
		Role:        "member",
		IsActive:    true,
		CreatedAt:   now,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, display_name, password_hash, role, is_active, last_active, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.Email, p.DisplayName, string(hash), p.Role, true, now.Unix(), now.Unix())
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Authenticate checks credentials and returns the profile on success.
func (s *SQLStore) Authenticate(ctx context.Context, email, password string) (Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, password_hash, role, email_marketing, email_community_news, is_active, created_at
		 FROM users WHERE email=$1`, email)

	var p Profile
	var hash string
	var createdAt int64
	if err := row.Scan(&p.ID, &p.Email, &p.DisplayName, &hash, &p.Role,
		&p.EmailPreferences.Marketing, &p.EmailPreferences.CommunityNews, &p.IsActive, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrBadPassword
		}
		return Profile{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return Profile{}, ErrBadPassword
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	return p, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, role, email_marketing, email_community_news, is_active, created_at
		 FROM users WHERE id=$1`, id)

	var p Profile
	var createdAt int64
	if err := row.Scan(&p.ID, &p.Email, &p.DisplayName, &p.Role,
		&p.EmailPreferences.Marketing, &p.EmailPreferences.CommunityNews, &p.IsActive, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	return p, nil
}

// IsDisplayNameTaken checks name uniqueness for signup. Fails open: a lookup
// error reports "not taken" rather than blocking the flow.
func (s *SQLStore) IsDisplayNameTaken(ctx context.Context, displayName string) bool {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE display_name=$1`, strings.TrimSpace(displayName)).Scan(&exists)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("user: display name lookup: %v", err)
		}
		return false
	}
	return true
}

// UpdateProfile changes display name and email preferences.
func (s *SQLStore) UpdateProfile(ctx context.Context, id, displayName string, prefs EmailPreferences) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET display_name=$1, email_marketing=$2, email_community_news=$3 WHERE id=$4`,
		displayName, prefs.Marketing, prefs.CommunityNews, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastActive bumps the activity timestamp; errors are logged, never
// surfaced, since presence tracking is best-effort.
func (s *SQLStore) TouchLastActive(ctx context.Context, id string) {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_active=$1 WHERE id=$2`, time.Now().Unix(), id); err != nil {
		log.Printf("user: touch last active: %v", err)
	}
}
