package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/sakif/jibi/internal/apperror"
	"github.com/sakif/jibi/internal/auth"
	"github.com/sakif/jibi/internal/model"
)

// =========================================================================
// MOCK USER REPOSITORY
// =========================================================================
//
// In-memory stand-in for the sqlite credential store. It mirrors the real
// contract: lookup misses return (nil, nil), duplicate usernames return
// apperror.DuplicateUsername, and failErr simulates a database outage.

type mockUserRepo struct {
	users   map[string]*model.User // keyed by username
	nextID  int64
	failErr error // when set, every call fails with this
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) FindByUsernameAndDigest(_ context.Context, username, digest string) (*model.User, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	u, ok := m.users[username]
	if !ok || u.PasswordDigest != digest {
		return nil, nil
	}
	found := *u
	return &found, nil
}

func (m *mockUserRepo) InsertUser(_ context.Context, user *model.User) error {
	if m.failErr != nil {
		return m.failErr
	}
	if _, exists := m.users[user.Username]; exists {
		return apperror.DuplicateUsername(user.Username)
	}
	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.users[user.Username] = &stored
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestAuthService() (*AuthService, *mockUserRepo) {
	repo := newMockUserRepo()
	return NewAuthService(repo, auth.NewDigestService(), testLogger()), repo
}

// registerTestUser stores a user the way the registration path would:
// with the digest of the plaintext, not the plaintext itself.
func registerTestUser(t *testing.T, repo *mockUserRepo, username, password, firstName string) {
	t.Helper()
	d := auth.NewDigestService()
	err := repo.InsertUser(context.Background(), &model.User{
		Username:       username,
		PasswordDigest: d.Hash(password),
		FirstName:      firstName,
	})
	if err != nil {
		t.Fatalf("failed to seed test user: %v", err)
	}
}

// =========================================================================
// AUTHENTICATE TESTS
// =========================================================================

func TestAuthenticate_Success(t *testing.T) {
	svc, repo := newTestAuthService()
	registerTestUser(t, repo, "johndoe", "pw123", "John")

	sess, err := svc.Authenticate(context.Background(), LoginInput{
		Username: "johndoe",
		Password: "pw123",
	})
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	if sess.UserID == 0 {
		t.Error("Session.UserID not set")
	}
	if sess.Username != "johndoe" {
		t.Errorf("Session.Username = %q, want %q", sess.Username, "johndoe")
	}
	if sess.FirstName != "John" {
		t.Errorf("Session.FirstName = %q, want %q", sess.FirstName, "John")
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	svc, repo := newTestAuthService()
	registerTestUser(t, repo, "johndoe", "pw123", "John")

	sess, err := svc.Authenticate(context.Background(), LoginInput{
		Username: "johndoe",
		Password: "wrong",
	})
	if sess != nil {
		t.Error("Authenticate() returned a session for a wrong password")
	}
	if !errors.Is(err, apperror.ErrAuthFailed) {
		t.Errorf("Authenticate() error = %v, want ErrAuthFailed", err)
	}
}

func TestAuthenticate_UnknownUsername(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Authenticate(context.Background(), LoginInput{
		Username: "nobody",
		Password: "pw123",
	})
	if !errors.Is(err, apperror.ErrAuthFailed) {
		t.Errorf("Authenticate() error = %v, want ErrAuthFailed", err)
	}
}

// The failure must be indistinguishable whether the username or the
// password was wrong — same sentinel, same message.
func TestAuthenticate_FailureIsUndifferentiated(t *testing.T) {
	svc, repo := newTestAuthService()
	registerTestUser(t, repo, "johndoe", "pw123", "John")

	_, errWrongPassword := svc.Authenticate(context.Background(),
		LoginInput{Username: "johndoe", Password: "wrong"})
	_, errUnknownUser := svc.Authenticate(context.Background(),
		LoginInput{Username: "nobody", Password: "pw123"})

	if errWrongPassword.Error() != errUnknownUser.Error() {
		t.Errorf("failure messages differ: %q vs %q — this leaks account existence",
			errWrongPassword.Error(), errUnknownUser.Error())
	}
}

func TestAuthenticate_EmptyFields(t *testing.T) {
	svc, _ := newTestAuthService()

	tests := []struct {
		name string
		in   LoginInput
	}{
		{"empty username", LoginInput{Username: "", Password: "pw123"}},
		{"whitespace username", LoginInput{Username: "   ", Password: "pw123"}},
		{"empty password", LoginInput{Username: "johndoe", Password: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), tt.in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Authenticate() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestAuthenticate_RepositoryFailure(t *testing.T) {
	svc, repo := newTestAuthService()
	repo.failErr = errors.New("database is locked")

	_, err := svc.Authenticate(context.Background(), LoginInput{
		Username: "johndoe",
		Password: "pw123",
	})
	if err == nil {
		t.Fatal("Authenticate() should propagate repository failures")
	}
	// A database outage is NOT a failed login — must not masquerade as one.
	if errors.Is(err, apperror.ErrAuthFailed) {
		t.Error("repository failure was reported as ErrAuthFailed")
	}
}
