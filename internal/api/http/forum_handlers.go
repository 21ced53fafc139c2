package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	auth "github.com/HuonT/Writers-Tome/internal/auth/middleware"
	"github.com/HuonT/Writers-Tome/internal/forum"
	"github.com/HuonT/Writers-Tome/internal/rbac"
	syncx "github.com/HuonT/Writers-Tome/internal/sync"
	"github.com/HuonT/Writers-Tome/internal/user"
)

// ProfileStore is the slice of the user store the forum reads display
// names from. user.SQLStore satisfies it.
type ProfileStore interface {
	Get(ctx context.Context, id string) (user.Profile, error)
}

// POST /posts
func CreatePostHandler(store forum.Store, users ProfileStore, events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		var req struct {
			Title              string   `json:"title"`
			Content            string   `json:"content"`
			Category           string   `json:"category"`
			Tags               []string `json:"tags"`
			RequestingFeedback bool     `json:"requesting_feedback"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		userName := ""
		if p, err := users.Get(r.Context(), sub); err == nil {
			userName = p.DisplayName
		}
		post, err := store.CreatePost(r.Context(), forum.Post{
			UserID:             sub,
			UserName:           userName,
			Title:              req.Title,
			Content:            req.Content,
			Category:           req.Category,
			Tags:               req.Tags,
			RequestingFeedback: req.RequestingFeedback,
		})
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		if post.RequestingFeedback {
			if err := store.Notify(r.Context(), forum.Notification{
				UserID:  sub,
				Type:    forum.NotifyFeedbackRequest,
				PostID:  post.ID,
				Message: "Your feedback request is live: " + post.Title,
			}); err != nil {
				log.Printf("forum: feedback notification: %v", err)
			}
		}
		if events != nil {
			data, _ := json.Marshal(post)
			_ = events.Append(r.Context(), syncx.Event{Type: syncx.TypePostCreated, Key: post.ID, DataJSON: string(data)})
		}
		writeJSON(w, post)
	}
}

// GET /posts?category=...&limit=20&offset=0
func ListPostsHandler(store forum.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListPosts(r.Context(), forum.ListOpts{
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Limit:    parseIntDefault(r.URL.Query().Get("limit"), 20),
			Offset:   parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if list == nil {
			list = []forum.Post{}
		}
		writeJSON(w, list)
	}
}

// GET /posts/{postID}
func GetPostHandler(store forum.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := store.GetPost(r.Context(), chi.URLParam(r, "postID"))
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		writeJSON(w, p)
	}
}

// PUT /posts/{postID} — author or admin.
func UpdatePostHandler(store forum.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "postID")
		if !canTouchPost(r, store, id) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		var req struct {
			Title   string   `json:"title"`
			Content string   `json:"content"`
			Tags    []string `json:"tags"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		p, err := store.UpdatePost(r.Context(), id, req.Title, req.Content, req.Tags)
		if err != nil {
			http.Error(w, err.Error(), postStatus(err))
			return
		}
		writeJSON(w, p)
	}
}

// DELETE /posts/{postID} — author or admin.
func DeletePostHandler(store forum.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "postID")
		if !canTouchPost(r, store, id) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if err := store.DeletePost(r.Context(), id); err != nil {
			http.Error(w, err.Error(), postStatus(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /posts/{postID}/like — toggles.
func ToggleLikeHandler(store forum.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		liked, err := store.ToggleLike(r.Context(), chi.URLParam(r, "postID"), sub)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, map[string]bool{"liked": liked})
	}
}

// POST /posts/{postID}/comments
func CreateCommentHandler(store forum.Store, users ProfileStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		var req struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		userName := ""
		if p, err := users.Get(r.Context(), sub); err == nil {
			userName = p.DisplayName
		}
		postID := chi.URLParam(r, "postID")
		c, err := store.CreateComment(r.Context(), forum.Comment{
			PostID:   postID,
			UserID:   sub,
			UserName: userName,
			Content:  req.Content,
		})
		if err != nil {
			http.Error(w, err.Error(), postStatus(err))
			return
		}
		// A comment on a feedback-requesting post tells the author feedback arrived.
		if post, err := store.GetPost(r.Context(), postID); err == nil &&
			post.RequestingFeedback && post.UserID != sub {
			if err := store.Notify(r.Context(), forum.Notification{
				UserID:  post.UserID,
				Type:    forum.NotifyFeedbackReceived,
				PostID:  post.ID,
				Message: userName + " left feedback on: " + post.Title,
			}); err != nil {
				log.Printf("forum: feedback notification: %v", err)
			}
		}
		writeJSON(w, c)
	}
}

// GET /posts/{postID}/comments
func ListCommentsHandler(store forum.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListComments(r.Context(), chi.URLParam(r, "postID"))
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if list == nil {
			list = []forum.Comment{}
		}
		writeJSON(w, list)
	}
}

// DELETE /comments/{commentID} — author or admin.
func DeleteCommentHandler(store forum.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "commentID")
		c, err := store.GetComment(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), postStatus(err))
			return
		}
		if c.UserID != auth.SubjectFromContext(r.Context()) &&
			rbac.RoleFromContext(r.Context()) != "admin" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if err := store.DeleteComment(r.Context(), id); err != nil {
			http.Error(w, err.Error(), postStatus(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /notifications
func ListNotificationsHandler(store forum.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		list, err := store.ListNotifications(r.Context(), sub)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if list == nil {
			list = []forum.Notification{}
		}
		writeJSON(w, list)
	}
}

// POST /notifications/{notificationID}/read
func MarkNotificationReadHandler(store forum.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		if err := store.MarkNotificationRead(r.Context(), sub, chi.URLParam(r, "notificationID")); err != nil {
			http.Error(w, err.Error(), postStatus(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /contact
func SendContactMessageHandler(store forum.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		var req struct {
			Subject string `json:"subject"`
			Body    string `json:"body"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		m, err := store.SaveContactMessage(r.Context(), forum.ContactMessage{
			UserID: sub, Subject: req.Subject, Body: req.Body,
		})
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, m)
	}
}

// GET /contact — own messages for members, all messages for admins.
func ListContactMessagesHandler(store forum.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		userID := sub
		if rbac.RoleFromContext(r.Context()) == "admin" {
			userID = ""
		}
		list, err := store.ListContactMessages(r.Context(), userID)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if list == nil {
			list = []forum.ContactMessage{}
		}
		writeJSON(w, list)
	}
}

// POST /admin/contact/{messageID}/reply — admin only (routed behind rbac).
func ReplyContactMessageHandler(store forum.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Reply string `json:"reply"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Reply) == "" {
			http.Error(w, "reply required", 400)
			return
		}
		if err := store.ReplyContactMessage(r.Context(), chi.URLParam(r, "messageID"), req.Reply); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func postStatus(err error) int {
	if errors.Is(err, forum.ErrPostNotFound) || errors.Is(err, forum.ErrCommentNotFound) ||
		errors.Is(err, forum.ErrNotificationNotFound) {
		return 404
	}
	return 400
}

// canTouchPost: authors manage their own posts; admins manage any.
func canTouchPost(r *http.Request, store forum.Store, postID string) bool {
	if rbac.RoleFromContext(r.Context()) == "admin" {
		return true
	}
	p, err := store.GetPost(r.Context(), postID)
	if err != nil {
		return false
	}
	return p.UserID == auth.SubjectFromContext(r.Context())
}
