package models

import "time"

// User represents an account within the ClipShare platform.
type User struct {
	ID        string
	Username  string
	Email     string
	Pseudo    string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Video stores metadata about an uploaded video and its source file.
type Video struct {
	ID        string
	OwnerID   string
	Name      string
	Source    string
	Views     int64
	Enabled   bool
	CreatedAt time.Time
}

// VideoFormat represents one transcoded rendition of a video. The
// (VideoID, Code) pair is unique; re-encoding a format replaces its URI.
type VideoFormat struct {
	ID      string
	VideoID string
	Code    string
	URI     string
}

// Comment is a user's comment on a video. At most one comment exists per
// (UserID, VideoID) pair; submitting again overwrites the body.
type Comment struct {
	ID        string
	UserID    string
	VideoID   string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Token records a signed credential issued at login. Rows are written once
// and never mutated; expiry is embedded in the signed code itself.
type Token struct {
	ID        string
	Code      string
	UserID    string
	ExpiresAt time.Time
}
