package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/jibi/internal/service"
)

// AccountHandler manages registration.
type AccountHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewAccountHandler creates an AccountHandler with its dependencies injected.
func NewAccountHandler(accounts *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// registrationResponse is what a successful registration returns. The
// message is the site's long-standing flash banner; no session is issued —
// the user logs in explicitly afterwards.
type registrationResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /register
// Form fields: first_name, last_name, email, username, password,
// confirm_password
//
// Failure bodies carry the exact user-facing messages: password mismatch
// and duplicate username each get their own kind so the form can highlight
// the right field.
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}

	user, err := h.accounts.Register(r.Context(), service.RegisterInput{
		FirstName:       r.PostFormValue("first_name"),
		LastName:        r.PostFormValue("last_name"),
		Email:           r.PostFormValue("email"),
		Username:        r.PostFormValue("username"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, registrationResponse{
		ID:       user.ID,
		Username: user.Username,
		Message:  "Your new account has been created.",
	})
}
