package handlers

import (
	"net/http"

	"github.com/clipshare/backend/internal/middleware"
	"github.com/clipshare/backend/internal/storage"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users    UserStore
	Videos   VideoStore
	Formats  FormatStore
	Comments CommentStore
	Tokens   TokenIssuer
	Verifier middleware.TokenVerifier
	Ingest   MediaIngestor
	Files    storage.Store
	Limiter  RateLimiter
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	auth := AuthHandler{Users: deps.Users, Tokens: deps.Tokens, Limiter: deps.Limiter}
	users := UserHandler{Users: deps.Users}
	videos := VideoHandler{Videos: deps.Videos, Formats: deps.Formats, Users: deps.Users, Ingest: deps.Ingest}
	comments := CommentHandler{Comments: deps.Comments, Videos: deps.Videos}
	uploads := UploadHandler{Files: deps.Files}

	required := middleware.RequireUser(deps.Verifier)
	optional := middleware.OptionalUser(deps.Verifier)

	mux.HandleFunc("GET /healthz", health.Handle)

	mux.HandleFunc("POST /auth", auth.Authenticate)

	mux.HandleFunc("GET /users", users.List)
	mux.Handle("GET /user/{id}", optional(http.HandlerFunc(users.Get)))
	mux.HandleFunc("POST /user", users.Create)
	mux.Handle("PUT /user/{id}", required(http.HandlerFunc(users.Update)))
	mux.Handle("DELETE /user/{id}", required(http.HandlerFunc(users.Delete)))

	mux.HandleFunc("GET /videos", videos.List)
	mux.HandleFunc("GET /user/{id}/videos", videos.ListByUser)
	mux.Handle("POST /user/{id}/video", required(http.HandlerFunc(videos.Upload)))
	mux.Handle("PATCH /video/{id}", required(http.HandlerFunc(videos.Encode)))
	mux.Handle("PUT /video/{id}", required(http.HandlerFunc(videos.Update)))
	mux.Handle("DELETE /video/{id}", required(http.HandlerFunc(videos.Delete)))

	mux.Handle("POST /video/{id}/comment", required(http.HandlerFunc(comments.Create)))
	mux.HandleFunc("GET /video/{id}/comments", comments.List)

	mux.HandleFunc("GET /uploads/{filename}", uploads.Serve)
}
