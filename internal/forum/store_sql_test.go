package forum

import (
	"context"
	"errors"
	"testing"

	"github.com/HuonT/Writers-Tome/internal/db"
)

// openStore builds a SQLStore over a private in-memory database. The shared
// cache keeps every pooled connection on the same store.
func openStore(t *testing.T, name string) *SQLStore {
	t.Helper()
	conn, err := db.Open(context.Background(), db.DriverSQLite,
		"file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewSQLStore(conn)
}

func TestMarkNotificationReadUnknownID(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, "notifications_unknown")

	if err := store.Notify(ctx, Notification{
		UserID: "alice", Type: NotifyFeedbackRequest, Message: "your request is live",
	}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	list, err := store.ListNotifications(ctx, "alice")
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %v, %v", list, err)
	}
	id := list[0].ID

	// Someone else's id and a missing id both surface not-found.
	if err := store.MarkNotificationRead(ctx, "bob", id); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("foreign mark err = %v, want ErrNotificationNotFound", err)
	}
	if err := store.MarkNotificationRead(ctx, "alice", "no-such-id"); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("missing mark err = %v, want ErrNotificationNotFound", err)
	}

	if err := store.MarkNotificationRead(ctx, "alice", id); err != nil {
		t.Fatalf("own mark: %v", err)
	}
	list, _ = store.ListNotifications(ctx, "alice")
	if len(list) != 1 || !list[0].Read {
		t.Fatalf("notification not marked read: %+v", list)
	}
}

func TestToggleLikeCounter(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, "like_counter")

	post, err := store.CreatePost(ctx, Post{
		UserID: "alice", Title: "pacing", Content: "chapter drags", Category: "plot",
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	liked, err := store.ToggleLike(ctx, post.ID, "bob")
	if err != nil || !liked {
		t.Fatalf("first toggle = %v, %v", liked, err)
	}
	if p, _ := store.GetPost(ctx, post.ID); p.Likes != 1 {
		t.Fatalf("likes = %d, want 1", p.Likes)
	}

	liked, err = store.ToggleLike(ctx, post.ID, "bob")
	if err != nil || liked {
		t.Fatalf("second toggle = %v, %v", liked, err)
	}
	if p, _ := store.GetPost(ctx, post.ID); p.Likes != 0 {
		t.Fatalf("likes after unlike = %d, want 0", p.Likes)
	}

	// Like/unlike cycles from zero must never take the counter negative.
	if _, err := store.ToggleLike(ctx, post.ID, "carol"); err != nil {
		t.Fatalf("carol like: %v", err)
	}
	if _, err := store.ToggleLike(ctx, post.ID, "carol"); err != nil {
		t.Fatalf("carol unlike: %v", err)
	}
	if p, _ := store.GetPost(ctx, post.ID); p.Likes != 0 {
		t.Fatalf("likes = %d, want 0", p.Likes)
	}
}

func TestCommentCountFollowsDeletes(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, "comment_count")

	post, err := store.CreatePost(ctx, Post{
		UserID: "alice", Title: "openings", Content: "first lines", Category: "characters",
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	c1, err := store.CreateComment(ctx, Comment{PostID: post.ID, UserID: "bob", Content: "start in motion"})
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	c2, err := store.CreateComment(ctx, Comment{PostID: post.ID, UserID: "carol", Content: "cut the prologue"})
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if p, _ := store.GetPost(ctx, post.ID); p.CommentCount != 2 {
		t.Fatalf("comment_count = %d, want 2", p.CommentCount)
	}

	got, err := store.GetComment(ctx, c1.ID)
	if err != nil || got.UserID != "bob" {
		t.Fatalf("get comment = %+v, %v", got, err)
	}
	if _, err := store.GetComment(ctx, "missing"); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("missing comment err = %v", err)
	}

	if err := store.DeleteComment(ctx, c1.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if p, _ := store.GetPost(ctx, post.ID); p.CommentCount != 1 {
		t.Fatalf("comment_count = %d, want 1", p.CommentCount)
	}
	if err := store.DeleteComment(ctx, c1.ID); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("double delete err = %v", err)
	}
	if err := store.DeleteComment(ctx, c2.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if p, _ := store.GetPost(ctx, post.ID); p.CommentCount != 0 {
		t.Fatalf("comment_count = %d, want 0", p.CommentCount)
	}
}
