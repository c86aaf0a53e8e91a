// Copyright (c) 2026 Guidepost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taibuivan/guidepost/internal/platform/apperr"
	"github.com/taibuivan/guidepost/internal/platform/database/schema"
	"github.com/taibuivan/guidepost/internal/platform/dberr"
)

// # PostgreSQL Repositories

// userRepository implements the [UserRepository] interface using pgx.
type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a PostgreSQL backed user store.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

// sessionRepository implements the [SessionRepository] interface using pgx.
type sessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository constructs a PostgreSQL backed session store.
func NewSessionRepository(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepository{pool: pool}
}

// # User Repository Implementation

/*
FindByID returns the user with the given ID.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *User: Hydrated account
  - error: apperr.NotFound on absent rows
*/
func (repository *userRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.ID, id)
}

/*
FindByEmail returns the user with the given email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account
  - error: apperr.NotFound on absent rows
*/
func (repository *userRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Email, email)
}

// findBy fetches a single account row by one column's value.
func (repository *userRepository) findBy(context context.Context, column, value string) (*User, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.UserAccount.ID, schema.UserAccount.Email, schema.UserAccount.Name,
		schema.UserAccount.Password, schema.UserAccount.Role, schema.UserAccount.IsActive,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.Table,
		column,
	)

	var user User
	err := repository.pool.QueryRow(context, query, value).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "user")
	}

	return &user, nil
}

/*
List returns all accounts ordered by name.

Parameters:
  - context: context.Context

Returns:
  - []*User: All accounts
  - error: Storage failures
*/
func (repository *userRepository) List(context context.Context) ([]*User, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		ORDER BY %s ASC
	`,
		schema.UserAccount.ID, schema.UserAccount.Email, schema.UserAccount.Name,
		schema.UserAccount.Password, schema.UserAccount.Role, schema.UserAccount.IsActive,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.Table,
		schema.UserAccount.Name,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var user User
		err := rows.Scan(
			&user.ID, &user.Email, &user.Name, &user.PasswordHash,
			&user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	return users, nil
}

/*
Create persists a new account.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: apperr.Conflict on duplicate email, storage failures
*/
func (repository *userRepository) Create(context context.Context, user *User) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Email, schema.UserAccount.Name,
		schema.UserAccount.Password, schema.UserAccount.Role, schema.UserAccount.IsActive,
	)

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		string(user.Role),
		user.IsActive,
	)
	if err != nil {
		return dberr.Wrap(err, "user")
	}

	return nil
}

/*
UpdatePassword replaces an account's password hash.

Parameters:
  - context: context.Context
  - userID: string (UUID)
  - passwordHash: string

Returns:
  - error: apperr.NotFound if the row is gone
*/
func (repository *userRepository) UpdatePassword(context context.Context, userID, passwordHash string) error {

	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2`,
		schema.UserAccount.Table, schema.UserAccount.Password,
		schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	result, err := repository.pool.Exec(context, query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("postgres: failed to update password: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}

	return nil
}

/*
SetActive toggles whether an account may log in.

Parameters:
  - context: context.Context
  - userID: string (UUID)
  - active: bool

Returns:
  - error: apperr.NotFound if the row is gone
*/
func (repository *userRepository) SetActive(context context.Context, userID string, active bool) error {

	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2`,
		schema.UserAccount.Table, schema.UserAccount.IsActive,
		schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	result, err := repository.pool.Exec(context, query, active, userID)
	if err != nil {
		return fmt.Errorf("postgres: failed to set user active flag: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}

	return nil
}

// # Session Repository Implementation

/*
Create persists a new refresh session.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Storage failures
*/
func (repository *sessionRepository) Create(context context.Context, session *Session) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		schema.UserSession.Table,
		schema.UserSession.ID, schema.UserSession.UserID, schema.UserSession.TokenHash,
		schema.UserSession.UserAgent, schema.UserSession.IPAddress,
		schema.UserSession.ExpiresAt, schema.UserSession.IsRevoked,
	)

	_, err := repository.pool.Exec(context, query,
		session.ID,
		session.UserID,
		session.TokenHash,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
		session.IsRevoked,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to create session: %w", err)
	}

	return nil
}

/*
FindByTokenHash returns the live session matching a token hash.

Description: Revoked and expired sessions are filtered in the query itself,
so callers never have to re-check.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *Session: The active session
  - error: apperr.NotFound if absent, revoked or expired
*/
func (repository *sessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = false AND %s > NOW()
	`,
		schema.UserSession.ID, schema.UserSession.UserID, schema.UserSession.TokenHash,
		schema.UserSession.UserAgent, schema.UserSession.IPAddress,
		schema.UserSession.ExpiresAt, schema.UserSession.IsRevoked, schema.UserSession.CreatedAt,
		schema.UserSession.Table,
		schema.UserSession.TokenHash, schema.UserSession.IsRevoked, schema.UserSession.ExpiresAt,
	)

	var session Session
	err := repository.pool.QueryRow(context, query, tokenHash).Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.UserAgent,
		&session.IPAddress,
		&session.ExpiresAt,
		&session.IsRevoked,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "session")
	}

	return &session, nil
}

/*
Revoke marks one session as revoked.
*/
func (repository *sessionRepository) Revoke(context context.Context, sessionID string) error {

	query := fmt.Sprintf(`UPDATE %s SET %s = true WHERE %s = $1`,
		schema.UserSession.Table, schema.UserSession.IsRevoked, schema.UserSession.ID)

	if _, err := repository.pool.Exec(context, query, sessionID); err != nil {
		return fmt.Errorf("postgres: failed to revoke session: %w", err)
	}

	return nil
}

/*
RevokeAll revokes every session belonging to a user.
*/
func (repository *sessionRepository) RevokeAll(context context.Context, userID string) error {

	query := fmt.Sprintf(`UPDATE %s SET %s = true WHERE %s = $1`,
		schema.UserSession.Table, schema.UserSession.IsRevoked, schema.UserSession.UserID)

	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return fmt.Errorf("postgres: failed to revoke user sessions: %w", err)
	}

	return nil
}

/*
RevokeOthers revokes every session of a user except one.
*/
func (repository *sessionRepository) RevokeOthers(context context.Context, userID, keepSessionID string) error {

	query := fmt.Sprintf(`UPDATE %s SET %s = true WHERE %s = $1 AND %s != $2`,
		schema.UserSession.Table, schema.UserSession.IsRevoked,
		schema.UserSession.UserID, schema.UserSession.ID)

	if _, err := repository.pool.Exec(context, query, userID, keepSessionID); err != nil {
		return fmt.Errorf("postgres: failed to revoke other sessions: %w", err)
	}

	return nil
}
