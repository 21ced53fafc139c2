package forum

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HuonT/Writers-Tome/internal/course"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// CreatePost validates the category and inserts the post. A post flagged
// requesting_feedback also fans out a feedback_request notification to the
// author (mirrors the client-side fan-out the community UI performed).
func (s *SQLStore) CreatePost(ctx context.Context, p Post) (Post, error) {
	if !course.ValidCategory(p.Category) {
		return Post{}, ErrBadCategory
	}
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Content) == "" {
		return Post{}, errors.New("title and content required")
	}
	p.ID = uuid.NewString()
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	if p.Tags == nil {
		p.Tags = []string{}
	}
	tj, err := json.Marshal(p.Tags)
	if err != nil {
		return Post{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, user_name, title, content, category, tags_json, requesting_feedback, likes, comment_count, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,0,0,$9,$10)`,
		p.ID, p.UserID, p.UserName, p.Title, p.Content, p.Category, string(tj), p.RequestingFeedback, now.Unix(), now.Unix())
	if err != nil {
		return Post{}, err
	}
	return p, nil
}

func (s *SQLStore) GetPost(ctx context.Context, id string) (Post, error) {
	row := s.db.QueryRowContext(ctx, selectPost+` WHERE id=$1`, id)
	return scanPost(row)
}

// ListPosts returns newest-first posts, optionally filtered by category.
func (s *SQLStore) ListPosts(ctx context.Context, opts ListOpts) ([]Post, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 20
	}
	var rows *sql.Rows
	var err error
	if opts.Category != "" {
		rows, err = s.db.QueryContext(ctx,
			selectPost+` WHERE category=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
			opts.Category, opts.Limit, opts.Offset)
	} else {
		rows, err = s.db.QueryContext(ctx,
			selectPost+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
			opts.Limit, opts.Offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpdatePost(ctx context.Context, id, title, content string, tags []string) (Post, error) {
	if tags == nil {
		tags = []string{}
	}
	tj, err := json.Marshal(tags)
	if err != nil {
		return Post{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE posts SET title=$1, content=$2, tags_json=$3, updated_at=$4 WHERE id=$5`,
		title, content, string(tj), time.Now().Unix(), id)
	if err != nil {
		return Post{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Post{}, ErrPostNotFound
	}
	return s.GetPost(ctx, id)
}

// DeletePost removes the post; comments and likes cascade at the schema level.
func (s *SQLStore) DeletePost(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrPostNotFound
	}
	return nil
}

// ToggleLike likes the post for the user, or removes the like when already
// present. The denormalized counter on the post row follows the likes table.
func (s *SQLStore) ToggleLike(ctx context.Context, postID, userID string) (liked bool, err error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO post_likes (post_id, user_id, created_at) VALUES ($1,$2,$3)
		 ON CONFLICT (post_id, user_id) DO NOTHING`,
		postID, userID, time.Now().Unix())
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		_, err = s.db.ExecContext(ctx, `UPDATE posts SET likes=likes+1 WHERE id=$1`, postID)
		return true, err
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id=$1 AND user_id=$2`, postID, userID); err != nil {
		return false, err
	}
	_, err = s.db.ExecContext(ctx, `UPDATE posts SET likes=likes-1 WHERE id=$1 AND likes>0`, postID)
	return false, err
}

func (s *SQLStore) CreateComment(ctx context.Context, c Comment) (Comment, error) {
	if strings.TrimSpace(c.Content) == "" {
		return Comment{}, errors.New("content required")
	}
	if _, err := s.GetPost(ctx, c.PostID); err != nil {
		return Comment{}, err
	}
	c.ID = uuid.NewString()
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, user_id, user_name, content, likes, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,0,$6,$7)`,
		c.ID, c.PostID, c.UserID, c.UserName, c.Content, now.Unix(), now.Unix())
	if err != nil {
		return Comment{}, err
	}
	_, err = s.db.ExecContext(ctx, `UPDATE posts SET comment_count=comment_count+1 WHERE id=$1`, c.PostID)
	return c, err
}

func (s *SQLStore) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, post_id, user_id, user_name, content, likes, created_at, updated_at
		 FROM comments WHERE post_id=$1 ORDER BY created_at ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		var createdAt, updatedAt int64
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.UserName, &c.Content, &c.Likes, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		c.CreatedAt = time.Unix(createdAt, 0).UTC()
		c.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetComment(ctx context.Context, id string) (Comment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, post_id, user_id, user_name, content, likes, created_at, updated_at
		 FROM comments WHERE id=$1`, id)
	var c Comment
	var createdAt, updatedAt int64
	if err := row.Scan(&c.ID, &c.PostID, &c.UserID, &c.UserName, &c.Content, &c.Likes, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Comment{}, ErrCommentNotFound
		}
		return Comment{}, err
	}
	c.CreatedAt = time.Unix(createdAt, 0).UTC()
	c.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return c, nil
}

func (s *SQLStore) DeleteComment(ctx context.Context, id string) error {
	var postID string
	err := s.db.QueryRowContext(ctx, `SELECT post_id FROM comments WHERE id=$1`, id).Scan(&postID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCommentNotFound
	}
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id=$1`, id); err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE posts SET comment_count=comment_count-1 WHERE id=$1 AND comment_count>0`, postID)
	return err
}

// Notify appends a notification for a user.
func (s *SQLStore) Notify(ctx context.Context, n Notification) error {
	n.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, typ, post_id, message, is_read, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		n.ID, n.UserID, n.Type, n.PostID, n.Message, false, time.Now().Unix())
	return err
}

func (s *SQLStore) ListNotifications(ctx context.Context, userID string) ([]Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, typ, post_id, message, is_read, created_at
		 FROM notifications WHERE user_id=$1 ORDER BY created_at DESC LIMIT 50`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		var createdAt int64
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.PostID, &n.Message, &n.Read, &createdAt); err != nil {
			return nil, err
		}
		n.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *SQLStore) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read=$1 WHERE id=$2 AND user_id=$3`, true, notificationID, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// SaveContactMessage records a message sent to the site admins.
func (s *SQLStore) SaveContactMessage(ctx context.Context, m ContactMessage) (ContactMessage, error) {
	if strings.TrimSpace(m.Subject) == "" || strings.TrimSpace(m.Body) == "" {
		return ContactMessage{}, errors.New("subject and body required")
	}
	m.ID = uuid.NewString()
	m.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_messages (id, user_id, subject, body, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		m.ID, m.UserID, m.Subject, m.Body, m.CreatedAt.Unix())
	return m, err
}

func (s *SQLStore) ListContactMessages(ctx context.Context, userID string) ([]ContactMessage, error) {
	q := `SELECT id, user_id, subject, body, reply, replied_at, created_at FROM contact_messages`
	args := []any{}
	if userID != "" {
		q += ` WHERE user_id=$1`
		args = append(args, userID)
	}
	q += ` ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ContactMessage
	for rows.Next() {
		var m ContactMessage
		var repliedAt sql.NullInt64
		var createdAt int64
		if err := rows.Scan(&m.ID, &m.UserID, &m.Subject, &m.Body, &m.Reply, &repliedAt, &createdAt); err != nil {
			return nil, err
		}
		if repliedAt.Valid {
			m.RepliedAt = time.Unix(repliedAt.Int64, 0).UTC()
		}
		m.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}

// ReplyContactMessage stores the admin reply and stamps the reply time.
func (s *SQLStore) ReplyContactMessage(ctx context.Context, id, reply string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE contact_messages SET reply=$1, replied_at=$2 WHERE id=$3`,
		reply, time.Now().Unix(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.New("message not found")
	}
	return nil
}

const selectPost = `SELECT id, user_id, user_name, title, content, category, tags_json, requesting_feedback, likes, comment_count, created_at, updated_at FROM posts`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (Post, error) {
	var p Post
	var tagsJSON string
	var createdAt, updatedAt int64
	err := row.Scan(&p.ID, &p.UserID, &p.UserName, &p.Title, &p.Content, &p.Category,
		&tagsJSON, &p.RequestingFeedback, &p.Likes, &p.CommentCount, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Post{}, ErrPostNotFound
		}
		return Post{}, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &p.Tags); err != nil {
		p.Tags = []string{}
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	p.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return p, nil
}
