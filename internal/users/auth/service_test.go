// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/guidepost/internal/platform/apperr"
	"github.com/taibuivan/guidepost/internal/platform/sec"
	"github.com/taibuivan/guidepost/pkg/uuidv7"
)

// # Test Doubles

type fakeUserRepo struct {
	users map[string]*User
}

func (repo *fakeUserRepo) FindByID(_ context.Context, id string) (*User, error) {
	if user, ok := repo.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("user")
}

func (repo *fakeUserRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range repo.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (repo *fakeUserRepo) List(_ context.Context) ([]*User, error) {
	users := make([]*User, 0, len(repo.users))
	for _, user := range repo.users {
		users = append(users, user)
	}
	return users, nil
}

func (repo *fakeUserRepo) Create(_ context.Context, user *User) error {
	repo.users[user.ID] = user
	return nil
}

func (repo *fakeUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("user")
	}
	user.PasswordHash = passwordHash
	return nil
}

func (repo *fakeUserRepo) SetActive(_ context.Context, userID string, active bool) error {
	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("user")
	}
	user.IsActive = active
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*Session
}

func (repo *fakeSessionRepo) Create(_ context.Context, session *Session) error {
	repo.sessions[session.ID] = session
	return nil
}

func (repo *fakeSessionRepo) FindByTokenHash(_ context.Context, tokenHash string) (*Session, error) {
	for _, session := range repo.sessions {
		if session.TokenHash == tokenHash && !session.IsRevoked && session.ExpiresAt.After(time.Now()) {
			return session, nil
		}
	}
	return nil, apperr.NotFound("session")
}

func (repo *fakeSessionRepo) Revoke(_ context.Context, sessionID string) error {
	if session, ok := repo.sessions[sessionID]; ok {
		session.IsRevoked = true
	}
	return nil
}

func (repo *fakeSessionRepo) RevokeAll(_ context.Context, userID string) error {
	for _, session := range repo.sessions {
		if session.UserID == userID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (repo *fakeSessionRepo) RevokeOthers(_ context.Context, userID, keepSessionID string) error {
	for _, session := range repo.sessions {
		if session.UserID == userID && session.ID != keepSessionID {
			session.IsRevoked = true
		}
	}
	return nil
}

type fakeResetTokenRepo struct {
	tokens map[string]string
}

func (repo *fakeResetTokenRepo) Set(_ context.Context, token, userID string, _ time.Duration) error {
	repo.tokens[token] = userID
	return nil
}

func (repo *fakeResetTokenRepo) Get(_ context.Context, token string) (string, error) {
	if userID, ok := repo.tokens[token]; ok {
		return userID, nil
	}
	return "", apperr.NotFound("Reset token is invalid or expired")
}

func (repo *fakeResetTokenRepo) Delete(_ context.Context, token string) error {
	delete(repo.tokens, token)
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	return "jwt-for-" + userID, nil
}

// # Harness

type harness struct {
	service  *Service
	users    *fakeUserRepo
	sessions *fakeSessionRepo
	resets   *fakeResetTokenRepo
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	users := &fakeUserRepo{users: map[string]*User{}}
	sessions := &fakeSessionRepo{sessions: map[string]*Session{}}
	resets := &fakeResetTokenRepo{tokens: map[string]string{}}

	service := NewService(users, sessions, resets, fakeTokenProvider{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return &harness{service: service, users: users, sessions: sessions, resets: resets}
}

func (h *harness) seedUser(t *testing.T, email, password string, active bool) *User {
	t.Helper()

	hash, err := sec.HashPassword(password)
	require.NoError(t, err)

	user := &User{
		ID:           uuidv7.New(),
		Email:        email,
		Name:         "Test Editor",
		PasswordHash: hash,
		Role:         sec.RoleEditor,
		IsActive:     active,
	}
	h.users.users[user.ID] = user
	return user
}

// # Tests

func TestLogin_Succeeds(t *testing.T) {
	h := newHarness(t)
	user := h.seedUser(t, "editor@guidepost.test", "correct horse", true)

	session, err := h.service.Login(context.Background(), LoginInput{
		Email:    "editor@guidepost.test",
		Password: "correct horse",
	})

	require.NoError(t, err)
	assert.Equal(t, "jwt-for-"+user.ID, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, user.ID, session.User.ID)

	// A session row must exist for the hashed refresh token.
	stored, err := h.sessions.FindByTokenHash(context.Background(), sec.HashToken(session.RefreshToken))
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.UserID)
}

func TestLogin_RejectsBadCredentialsGenerically(t *testing.T) {
	h := newHarness(t)
	h.seedUser(t, "editor@guidepost.test", "correct horse", true)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong_password", "editor@guidepost.test", "battery staple"},
		{"unknown_email", "ghost@guidepost.test", "correct horse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.service.Login(context.Background(), LoginInput{Email: tt.email, Password: tt.password})
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "Invalid login credentials", ae.Message)
		})
	}
}

func TestLogin_RejectsDeactivatedAccount(t *testing.T) {
	h := newHarness(t)
	h.seedUser(t, "former@guidepost.test", "correct horse", false)

	_, err := h.service.Login(context.Background(), LoginInput{
		Email:    "former@guidepost.test",
		Password: "correct horse",
	})
	require.Error(t, err)

	// Same message as bad credentials so deactivation is not observable.
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Invalid login credentials", ae.Message)
}

func TestRefreshSession_RotatesToken(t *testing.T) {
	h := newHarness(t)
	h.seedUser(t, "editor@guidepost.test", "correct horse", true)

	first, err := h.service.Login(context.Background(), LoginInput{
		Email:    "editor@guidepost.test",
		Password: "correct horse",
	})
	require.NoError(t, err)

	second, err := h.service.RefreshSession(context.Background(), first.RefreshToken, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The original token is revoked: replaying it must fail.
	_, err = h.service.RefreshSession(context.Background(), first.RefreshToken, "", "")
	require.Error(t, err)
}

func TestLogout_IsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.seedUser(t, "editor@guidepost.test", "correct horse", true)

	session, err := h.service.Login(context.Background(), LoginInput{
		Email:    "editor@guidepost.test",
		Password: "correct horse",
	})
	require.NoError(t, err)

	require.NoError(t, h.service.Logout(context.Background(), session.RefreshToken))
	require.NoError(t, h.service.Logout(context.Background(), session.RefreshToken))
	require.NoError(t, h.service.Logout(context.Background(), "never-issued"))

	_, err = h.service.RefreshSession(context.Background(), session.RefreshToken, "", "")
	require.Error(t, err)
}

func TestProvision_RejectsDuplicateEmail(t *testing.T) {
	h := newHarness(t)
	h.seedUser(t, "editor@guidepost.test", "correct horse", true)

	_, err := h.service.Provision(context.Background(), ProvisionInput{
		Email:    "editor@guidepost.test",
		Name:     "Another Editor",
		Password: "battery staple",
		Role:     sec.RoleEditor,
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

func TestProvision_HashesPassword(t *testing.T) {
	h := newHarness(t)

	user, err := h.service.Provision(context.Background(), ProvisionInput{
		Email:    "new@guidepost.test",
		Name:     "New Editor",
		Password: "battery staple",
		Role:     sec.RoleEditor,
	})
	require.NoError(t, err)

	assert.True(t, user.IsActive)
	assert.NotEqual(t, "battery staple", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("battery staple", user.PasswordHash))
}

func TestResetPassword_RevokesAllSessions(t *testing.T) {
	h := newHarness(t)
	user := h.seedUser(t, "editor@guidepost.test", "correct horse", true)

	session, err := h.service.Login(context.Background(), LoginInput{
		Email:    "editor@guidepost.test",
		Password: "correct horse",
	})
	require.NoError(t, err)

	token, err := h.service.RequestPasswordReset(context.Background(), "editor@guidepost.test")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, h.service.ResetPassword(context.Background(), token, "battery staple"))

	// New password works, old sessions and the token do not.
	assert.True(t, sec.CheckPasswordHash("battery staple", h.users.users[user.ID].PasswordHash))
	_, err = h.service.RefreshSession(context.Background(), session.RefreshToken, "", "")
	require.Error(t, err)
	require.Error(t, h.service.ResetPassword(context.Background(), token, "tertiary"))
}

func TestRequestPasswordReset_HidesUnknownEmails(t *testing.T) {
	h := newHarness(t)

	token, err := h.service.RequestPasswordReset(context.Background(), "ghost@guidepost.test")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestChangePassword_RevokesOtherSessions(t *testing.T) {
	h := newHarness(t)
	user := h.seedUser(t, "editor@guidepost.test", "correct horse", true)

	login := func() *LoginSession {
		session, err := h.service.Login(context.Background(), LoginInput{
			Email:    "editor@guidepost.test",
			Password: "correct horse",
		})
		require.NoError(t, err)
		return session
	}

	laptop := login()
	tablet := login()

	err := h.service.ChangePassword(context.Background(), user.ID, "correct horse", "battery staple", laptop.RefreshToken)
	require.NoError(t, err)

	// The current device survives, the other is revoked.
	_, err = h.service.RefreshSession(context.Background(), laptop.RefreshToken, "", "")
	require.NoError(t, err)
	_, err = h.service.RefreshSession(context.Background(), tablet.RefreshToken, "", "")
	require.Error(t, err)
}

func TestChangePassword_RequiresCurrentPassword(t *testing.T) {
	h := newHarness(t)
	user := h.seedUser(t, "editor@guidepost.test", "correct horse", true)

	err := h.service.ChangePassword(context.Background(), user.ID, "wrong", "battery staple", "")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Current password is incorrect", ae.Message)
}

func TestSetUserActive_DeactivationRevokesSessions(t *testing.T) {
	h := newHarness(t)
	user := h.seedUser(t, "editor@guidepost.test", "correct horse", true)

	session, err := h.service.Login(context.Background(), LoginInput{
		Email:    "editor@guidepost.test",
		Password: "correct horse",
	})
	require.NoError(t, err)

	require.NoError(t, h.service.SetUserActive(context.Background(), user.ID, false))

	assert.False(t, h.users.users[user.ID].IsActive)
	_, err = h.service.RefreshSession(context.Background(), session.RefreshToken, "", "")
	require.Error(t, err)
}
