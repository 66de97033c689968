package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sakif/jibi/internal/apperror"
	"github.com/sakif/jibi/internal/auth"
)

func newTestAccountService() (*AccountService, *mockUserRepo) {
	repo := newMockUserRepo()
	return NewAccountService(repo, auth.NewDigestService(), testLogger()), repo
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		FirstName:       "John",
		LastName:        "Doe",
		Email:           "john@x.com",
		Username:        "johndoe",
		Password:        "pw123",
		ConfirmPassword: "pw123",
	}
}

// =========================================================================
// REGISTER TESTS
// =========================================================================

func TestRegister_Success(t *testing.T) {
	svc, repo := newTestAccountService()

	user, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ID == 0 {
		t.Error("Register() did not return a server-assigned ID")
	}
	if user.Username != "johndoe" {
		t.Errorf("Username = %q, want %q", user.Username, "johndoe")
	}
	if user.PasswordDigest == "pw123" {
		t.Error("plaintext password was stored as the digest")
	}
	if len(user.PasswordDigest) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(user.PasswordDigest))
	}
	if _, ok := repo.users["johndoe"]; !ok {
		t.Error("user was not written to the repository")
	}
}

func TestRegister_PasswordMismatch(t *testing.T) {
	svc, repo := newTestAccountService()

	in := validRegisterInput()
	in.ConfirmPassword = "different"

	_, err := svc.Register(context.Background(), in)
	if !errors.Is(err, apperror.ErrPasswordMismatch) {
		t.Fatalf("Register() error = %v, want ErrPasswordMismatch", err)
	}

	// The mismatch check comes BEFORE any database access — no row written.
	if len(repo.users) != 0 {
		t.Error("a row was written despite the password mismatch")
	}
}

func TestRegister_PasswordMismatchBeatsDatabaseOutage(t *testing.T) {
	svc, repo := newTestAccountService()
	repo.failErr = errors.New("database is down")

	in := validRegisterInput()
	in.ConfirmPassword = "different"

	// Mismatch must be reported without ever touching the (broken) store.
	_, err := svc.Register(context.Background(), in)
	if !errors.Is(err, apperror.ErrPasswordMismatch) {
		t.Errorf("Register() error = %v, want ErrPasswordMismatch", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, repo := newTestAccountService()

	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(context.Background(), validRegisterInput())
	if !errors.Is(err, apperror.ErrDuplicateUsername) {
		t.Fatalf("second Register() error = %v, want ErrDuplicateUsername", err)
	}

	// Exactly one record for that username survives.
	if len(repo.users) != 1 {
		t.Errorf("repository holds %d users, want 1", len(repo.users))
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestAccountService()

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"empty username", func(in *RegisterInput) { in.Username = "" }},
		{"whitespace username", func(in *RegisterInput) { in.Username = "   " }},
		{"overlong username", func(in *RegisterInput) { in.Username = strings.Repeat("a", MaxUsernameLength+1) }},
		{"empty password", func(in *RegisterInput) { in.Password = ""; in.ConfirmPassword = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegisterInput()
			tt.mutate(&in)
			_, err := svc.Register(context.Background(), in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegister_TrimsProfileFields(t *testing.T) {
	svc, _ := newTestAccountService()

	in := validRegisterInput()
	in.FirstName = "  John  "
	in.Username = "  johndoe  "

	user, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.FirstName != "John" {
		t.Errorf("FirstName = %q, want %q", user.FirstName, "John")
	}
	if user.Username != "johndoe" {
		t.Errorf("Username = %q, want %q", user.Username, "johndoe")
	}
}

// =========================================================================
// REGISTER → AUTHENTICATE ROUND TRIP
// =========================================================================

// Any account created via Register must be able to log in with the same
// plaintext — the two paths share one digest function by construction, and
// this test keeps it that way.
func TestRegisterThenAuthenticate(t *testing.T) {
	repo := newMockUserRepo()
	digest := auth.NewDigestService()
	accounts := NewAccountService(repo, digest, testLogger())
	logins := NewAuthService(repo, digest, testLogger())

	user, err := accounts.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	sess, err := logins.Authenticate(context.Background(), LoginInput{
		Username: "johndoe",
		Password: "pw123",
	})
	if err != nil {
		t.Fatalf("Authenticate() after Register() error = %v", err)
	}
	if sess.UserID != user.ID {
		t.Errorf("Session.UserID = %d, want %d", sess.UserID, user.ID)
	}
	if sess.FirstName != "John" {
		t.Errorf("Session.FirstName = %q, want %q", sess.FirstName, "John")
	}

	if _, err := logins.Authenticate(context.Background(), LoginInput{
		Username: "johndoe",
		Password: "wrong",
	}); !errors.Is(err, apperror.ErrAuthFailed) {
		t.Errorf("Authenticate() with wrong password error = %v, want ErrAuthFailed", err)
	}
}
