package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, input UserInput) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create user tx: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (full_name, email, password)
		VALUES ($1, $2, $3)
		RETURNING id
	`, input.FullName, input.Email, input.Password).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create user tx: %w", err)
	}

	return id, nil
}

// GetByEmail returns the oldest user with the given email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, full_name, email, password
		FROM users
		WHERE email = $1
		ORDER BY id ASC
		LIMIT 1
	`, email).Scan(&user.ID, &user.FullName, &user.Email, &user.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("query user by email: %w", err)
	}

	return user, nil
}

// Update overwrites all profile fields and reports the affected row count.
func (r *Repository) Update(ctx context.Context, id int64, input UserInput) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin update user tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET full_name = $1, email = $2, password = $3, updated_at = NOW()
		WHERE id = $4
	`, input.FullName, input.Email, input.Password, id)
	if err != nil {
		return 0, fmt.Errorf("update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update user rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit update user tx: %w", err)
	}

	return affected, nil
}
