package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/zczlr12/comp0034-cw1i-zczlr12/internal/model"
	"github.com/zczlr12/comp0034-cw1i-zczlr12/internal/store"
)

// CommentsHandler handles comment endpoints.
type CommentsHandler struct {
	DB *sql.DB
}

type commentRequest struct {
	Date    *time.Time `json:"date"`
	Content *string    `json:"content"`
	UserID  *int64     `json:"user_id"`
}

func (req commentRequest) validate() fieldErrors {
	fe := fieldErrors{}
	if req.Content == nil || *req.Content == "" {
		fe.add("content", msgMissingField)
	}
	if req.UserID == nil {
		fe.add("user_id", msgMissingField)
	}
	return fe
}

// List handles GET /comments.
func (h *CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	comments, err := store.ListComments(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing comments", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list comments")
		return
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	jsonResponse(w, http.StatusOK, comments)
}

// Create handles POST /comments.
func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fe := req.validate(); len(fe) > 0 {
		jsonResponse(w, http.StatusBadRequest, fe)
		return
	}

	// The comment is attributed to the payload's user_id, not the token
	// subject. A mismatch is logged until the contract settles.
	if uid, ok := AuthenticatedUser(r.Context()); ok && uid != *req.UserID {
		slog.Warn("comment user_id differs from authenticated user",
			"payload_user", *req.UserID, "token_user", uid)
	}

	account, err := store.GetAccount(r.Context(), h.DB, *req.UserID)
	if err != nil {
		slog.Error("looking up comment account", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create comment")
		return
	}
	if account == nil {
		fe := fieldErrors{}
		fe.add("user_id", "Unknown user id.")
		jsonResponse(w, http.StatusBadRequest, fe)
		return
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = *req.Date
	}

	comment, err := store.CreateComment(r.Context(), h.DB, date, *req.Content, *req.UserID)
	if err != nil {
		slog.Error("creating comment", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create comment")
		return
	}

	jsonResponse(w, http.StatusOK, comment)
}
