package forum

import (
	"errors"
	"time"
)

var (
	ErrPostNotFound         = errors.New("post not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrBadCategory          = errors.New("unknown post category")
)

type Post struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	UserName           string    `json:"user_name"`
	Title              string    `json:"title"`
	Content            string    `json:"content"`
	Category           string    `json:"category"`
	Tags               []string  `json:"tags"`
	RequestingFeedback bool      `json:"requesting_feedback"`
	Likes              int       `json:"likes"`
	CommentCount       int       `json:"comment_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Notification types delivered to users.
const (
	NotifyFeedbackRequest  = "feedback_request"
	NotifyFeedbackReceived = "feedback_received"
)

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	PostID    string    `json:"post_id,omitempty"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Reply     string    `json:"reply,omitempty"`
	RepliedAt time.Time `json:"replied_at,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ListOpts filters and pages post listings.
type ListOpts struct {
	Category string
	Limit    int
	Offset   int
}
