package forum

import "context"

// Store is the forum persistence boundary the HTTP layer talks to.
// SQLStore is the production implementation.
type Store interface {
	CreatePost(ctx context.Context, p Post) (Post, error)
	GetPost(ctx context.Context, id string) (Post, error)
	ListPosts(ctx context.Context, opts ListOpts) ([]Post, error)
	UpdatePost(ctx context.Context, id, title, content string, tags []string) (Post, error)
	DeletePost(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, postID, userID string) (bool, error)

	CreateComment(ctx context.Context, c Comment) (Comment, error)
	ListComments(ctx context.Context, postID string) ([]Comment, error)
	GetComment(ctx context.Context, id string) (Comment, error)
	DeleteComment(ctx context.Context, id string) error

	Notify(ctx context.Context, n Notification) error
	ListNotifications(ctx context.Context, userID string) ([]Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error

	SaveContactMessage(ctx context.Context, m ContactMessage) (ContactMessage, error)
	ListContactMessages(ctx context.Context, userID string) ([]ContactMessage, error)
	ReplyContactMessage(ctx context.Context, id, reply string) error
}

var _ Store = (*SQLStore)(nil)
