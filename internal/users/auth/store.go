// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # Identity Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the user with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *User: Hydrated account
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the user with the given email address.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated account
		  - error: apperr.NotFound if missing
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		List returns all accounts, active and deactivated, ordered by name.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*User: All accounts
		  - error: Storage failures
	*/
	List(context context.Context) ([]*User, error)

	/*
		Create persists a new account.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict on duplicate email, storage failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces an account's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string (UUID)
		  - passwordHash: string

		Returns:
		  - error: apperr.NotFound if missing, storage failures
	*/
	UpdatePassword(context context.Context, userID, passwordHash string) error

	/*
		SetActive toggles whether an account may log in.

		Parameters:
		  - context: context.Context
		  - userID: string (UUID)
		  - active: bool

		Returns:
		  - error: apperr.NotFound if missing, storage failures
	*/
	SetActive(context context.Context, userID string, active bool) error
}

// SessionRepository defines the data access contract for refresh sessions.
type SessionRepository interface {

	/*
		Create persists a new refresh session.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Storage failures
	*/
	Create(context context.Context, session *Session) error

	/*
		FindByTokenHash returns the live session matching a token hash.
		Revoked and expired sessions are never returned.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *Session: The active session
		  - error: apperr.NotFound if absent, revoked or expired
	*/
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	/*
		Revoke marks one session as revoked.

		Parameters:
		  - context: context.Context
		  - sessionID: string (UUID)

		Returns:
		  - error: Storage failures
	*/
	Revoke(context context.Context, sessionID string) error

	/*
		RevokeAll revokes every session belonging to a user.

		Parameters:
		  - context: context.Context
		  - userID: string (UUID)

		Returns:
		  - error: Storage failures
	*/
	RevokeAll(context context.Context, userID string) error

	/*
		RevokeOthers revokes every session of a user except one.

		Parameters:
		  - context: context.Context
		  - userID: string (UUID)
		  - keepSessionID: string (UUID)

		Returns:
		  - error: Storage failures
	*/
	RevokeOthers(context context.Context, userID, keepSessionID string) error
}

// ResetTokenRepository defines short-lived password reset token storage.
type ResetTokenRepository interface {

	/*
		Set stores a reset token with its associated userID and TTL.

		Parameters:
		  - context: context.Context
		  - token: string
		  - userID: string
		  - ttl: time.Duration

		Returns:
		  - error: Execution errors
	*/
	Set(context context.Context, token, userID string, ttl time.Duration) error

	/*
		Get retrieves the userID for a given token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - string: The owning user's ID
		  - error: apperr.NotFound if absent or expired
	*/
	Get(context context.Context, token string) (string, error)

	/*
		Delete removes the token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - error: Deletion failures
	*/
	Delete(context context.Context, token string) error
}
