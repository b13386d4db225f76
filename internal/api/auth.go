package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/zczlr12/comp0034-cw1i-zczlr12/internal/auth"
	"github.com/zczlr12/comp0034-cw1i-zczlr12/internal/model"
	"github.com/zczlr12/comp0034-cw1i-zczlr12/internal/store"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	DB        *sql.DB
	JWTSecret string
	TokenTTL  time.Duration
}

type registerRequest struct {
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
}

func (req registerRequest) validate() fieldErrors {
	fe := fieldErrors{}
	if req.Username == nil || *req.Username == "" {
		fe.add("username", msgMissingField)
	}
	if req.Password == nil || *req.Password == "" {
		fe.add("password", msgMissingField)
	} else if err := model.ValidatePassword(*req.Password); err != nil {
		fe.add("password", err.Error())
	}
	if req.FirstName == nil || *req.FirstName == "" {
		fe.add("first_name", msgMissingField)
	}
	if req.LastName == nil || *req.LastName == "" {
		fe.add("last_name", msgMissingField)
	}
	if req.Email == nil || *req.Email == "" {
		fe.add("email", msgMissingField)
	}
	return fe
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID int64  `json:"user_id"`
	Token  string `json:"token"`
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fe := req.validate(); len(fe) > 0 {
		jsonResponse(w, http.StatusBadRequest, fe)
		return
	}

	hash, err := auth.HashPassword(*req.Password)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	account, err := store.RegisterAccount(r.Context(), h.DB, *req.Username, hash,
		*req.FirstName, *req.LastName, *req.Email)
	if errors.Is(err, store.ErrConflict) {
		jsonError(w, http.StatusConflict, "Username or email already registered.")
		return
	}
	if err != nil {
		slog.Error("registering account", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("account registered", "user", account.Username)
	jsonMessage(w, http.StatusCreated, "Successfully registered.")
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Missing credentials, unknown usernames, and wrong passwords all get the
	// same response, so callers cannot enumerate accounts.
	if req.Username == "" || req.Password == "" {
		jsonMessage(w, http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	account, err := store.GetAccountByUsername(r.Context(), h.DB, req.Username)
	if err != nil {
		slog.Error("looking up account", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if account == nil || !auth.CheckPassword(req.Password, account.PasswordHash) {
		slog.Warn("login failed", "username", req.Username, "remote", r.RemoteAddr)
		jsonMessage(w, http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, account.ID, h.TokenTTL)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	slog.Info("user logged in", "user", account.Username)
	jsonResponse(w, http.StatusCreated, loginResponse{UserID: account.ID, Token: token})
}
