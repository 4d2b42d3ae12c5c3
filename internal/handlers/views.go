package handlers

import (
	"time"

	"github.com/clipshare/backend/internal/models"
)

// userView is the public projection of an account. The password hash is never
// serialized; the email only appears in the owner's own view.
type userView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Pseudo    string    `json:"pseudo"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func publicUserView(u models.User) userView {
	return userView{ID: u.ID, Username: u.Username, Pseudo: u.Pseudo, CreatedAt: u.CreatedAt}
}

func selfUserView(u models.User) userView {
	view := publicUserView(u)
	view.Email = u.Email
	return view
}

func publicUserViews(users []models.User) []userView {
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, publicUserView(u))
	}
	return views
}

type videoView struct {
	ID        string       `json:"id"`
	OwnerID   string       `json:"userId"`
	Name      string       `json:"name"`
	Source    string       `json:"source"`
	Views     int64        `json:"views"`
	Enabled   bool         `json:"enabled"`
	Formats   []formatView `json:"formats"`
	CreatedAt time.Time    `json:"createdAt"`
}

func newVideoView(v models.Video) videoView {
	return videoView{ID: v.ID, OwnerID: v.OwnerID, Name: v.Name, Source: v.Source, Views: v.Views, Enabled: v.Enabled, Formats: []formatView{}, CreatedAt: v.CreatedAt}
}

type formatView struct {
	ID      string `json:"id"`
	VideoID string `json:"videoId"`
	Code    string `json:"code"`
	URI     string `json:"uri"`
}

func newFormatView(f models.VideoFormat) formatView {
	return formatView{ID: f.ID, VideoID: f.VideoID, Code: f.Code, URI: f.URI}
}

func formatViews(formats []models.VideoFormat) []formatView {
	views := make([]formatView, 0, len(formats))
	for _, f := range formats {
		views = append(views, newFormatView(f))
	}
	return views
}

type commentView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	VideoID   string    `json:"videoId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newCommentView(c models.Comment) commentView {
	return commentView{ID: c.ID, UserID: c.UserID, VideoID: c.VideoID, Body: c.Body, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func commentViews(comments []models.Comment) []commentView {
	views := make([]commentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, newCommentView(c))
	}
	return views
}
