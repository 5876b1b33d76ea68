package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/user-api/internal/database"
	"github.com/deppfellow/user-api/internal/errs"
	"github.com/deppfellow/user-api/internal/model/user"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const userColumns = "user_id, user_name, email, role"

// UserRepository runs the SQL for the users table. Every method issues a
// single statement; a SELECT that finds nothing and a write that affects
// nothing are both reported as errors.
type UserRepository struct {
	db     database.Querier
	logger *zerolog.Logger
}

// NewUserRepository builds a UserRepository on db. logger may be nil.
func NewUserRepository(db database.Querier, logger *zerolog.Logger) *UserRepository {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &UserRepository{db: db, logger: logger}
}

// GetAllUsers returns every user ordered by id.
//
// Read and write failures that are not a missing row are logged and
// reported as a StorageError without the driver detail.
func (r *UserRepository) GetAllUsers(ctx context.Context) ([]user.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY user_id`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query users")
		return nil, errs.NewStorageError("Error fetching users")
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.UserName, &u.Email, &u.Role); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan user")
			return nil, errs.NewStorageError("Error fetching users")
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("failed to iterate users")
		return nil, errs.NewStorageError("Error fetching users")
	}

	if len(users) == 0 {
		return nil, errs.NewNotFoundError("No users found", true, nil)
	}

	return users, nil
}

// GetUser returns the user with the given id.
func (r *UserRepository) GetUser(ctx context.Context, id int) (*user.User, error) {
	var u user.User
	err := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, id).
		Scan(&u.ID, &u.UserName, &u.Email, &u.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NewNotFoundError(fmt.Sprintf("User with id %d not found", id), true, nil)
		}
		r.logger.Error().Err(err).Int("user_id", id).Msg("failed to get user")
		return nil, errs.NewStorageError("Error fetching user")
	}

	return &u, nil
}

// AddUser inserts u and returns the generated id. u.Password must already
// be hashed.
func (r *UserRepository) AddUser(ctx context.Context, u user.NewUser) (int, error) {
	var id int
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (user_name, email, password, role) VALUES ($1, $2, $3, $4) RETURNING user_id`,
		u.UserName, u.Email, u.Password, string(u.Role),
	).Scan(&id)
	if err != nil {
		r.logger.Error().Err(err).Str("email", u.Email).Msg("failed to insert user")
		return 0, errs.NewStorageError("Error adding user")
	}

	return id, nil
}

// UpdateUser sets the given columns on the user with the given id.
//
// Columns are rendered in user.MutableColumns order; a column outside that
// list is rejected before the query runs.
func (r *UserRepository) UpdateUser(ctx context.Context, fields user.Fields, id int) error {
	if len(fields) == 0 {
		return errs.NewBadRequestError("No fields to update", true, nil, nil, nil)
	}
	if err := fields.Restrict(user.MutableColumns); err != nil {
		return errs.NewBadRequestError(err.Error(), true, nil, nil, nil)
	}

	setClauses := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for _, column := range user.MutableColumns {
		value, ok := fields[column]
		if !ok {
			continue
		}
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE users SET %s WHERE user_id = $%d",
		strings.Join(setClauses, ", "), len(args))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		// Constraint violations are mapped by sqlerr at the HTTP boundary.
		return fmt.Errorf("failed to update user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NewUpdateFailedError("No users updated")
	}

	return nil
}

// DeleteUser removes the user with the given id.
func (r *UserRepository) DeleteUser(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int("user_id", id).Msg("failed to delete user")
		return errs.NewStorageError("Error deleting user")
	}
	if tag.RowsAffected() == 0 {
		return errs.NewDeleteFailedError("No user deleted")
	}

	return nil
}

// GetUserLogin returns the full row, password hash included, for email.
// An unknown email is reported as invalid credentials.
func (r *UserRepository) GetUserLogin(ctx context.Context, email string) (*user.StoredUser, error) {
	var u user.StoredUser
	err := r.db.QueryRow(ctx,
		`SELECT user_id, user_name, email, password, role FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.UserName, &u.Email, &u.Password, &u.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NewInvalidCredentialsError()
		}
		r.logger.Error().Err(err).Str("email", email).Msg("failed to look up login")
		return nil, errs.NewStorageError("Error fetching user")
	}

	return &u, nil
}
