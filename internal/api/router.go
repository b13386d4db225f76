package api

import (
	"database/sql"
	"net/http"
	"time"
)

// NewRouter creates the router with all endpoints registered. Reads are
// public; writes on items and comments require an authentication token.
func NewRouter(db *sql.DB, jwtSecret string, tokenTTL time.Duration) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret, TokenTTL: tokenTTL}
	itemsHandler := &ItemsHandler{DB: db}
	commentsHandler := &CommentsHandler{DB: db}

	requireAuth := RequireAuth(jwtSecret)

	mux.HandleFunc("GET /{$}", home)

	// Accounts.
	mux.HandleFunc("POST /register", authHandler.Register)
	mux.HandleFunc("POST /login", authHandler.Login)

	// Items.
	mux.HandleFunc("GET /items", itemsHandler.List)
	mux.HandleFunc("GET /items/{id}", itemsHandler.Get)
	mux.Handle("POST /items", requireAuth(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("PATCH /items/{id}", requireAuth(http.HandlerFunc(itemsHandler.Patch)))
	mux.Handle("DELETE /items/{id}", requireAuth(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("PUT /items/{id}/image", requireAuth(http.HandlerFunc(itemsHandler.UploadImage)))
	mux.HandleFunc("GET /items/{id}/image", itemsHandler.GetImage)

	// Comments.
	mux.HandleFunc("GET /comments", commentsHandler.List)
	mux.Handle("POST /comments", requireAuth(http.HandlerFunc(commentsHandler.Create)))

	return mux
}

func home(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("Hello World!"))
}
