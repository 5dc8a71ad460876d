package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/climate-hub/internal/apperror"
	"github.com/sakif/climate-hub/internal/model"
)

// Upsert creates the member on first GitHub sign-in and refreshes the
// profile on later ones, keeping the internal id stable.
func (db *DB) Upsert(ctx context.Context, user *model.User) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		var existingID string
		var createdAt time.Time
		err := tx.QueryRowContext(ctx,
			`SELECT id, created_at FROM users WHERE github_id = ?`, user.GitHubID,
		).Scan(&existingID, &createdAt)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("sqlite: looking up user by github_id %d: %w", user.GitHubID, err)
		}

		now := time.Now()
		user.UpdatedAt = now

		if existingID != "" {
			user.ID = existingID
			user.CreatedAt = createdAt
			_, err = tx.ExecContext(ctx,
				`UPDATE users SET login = ?, email = ?, avatar_url = ?, updated_at = ? WHERE id = ?`,
				user.Login, user.Email, user.AvatarURL, user.UpdatedAt, user.ID,
			)
			if err != nil {
				return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
			}
			return nil
		}

		user.ID = xid.New().String()
		user.CreatedAt = now
		_, err = tx.ExecContext(ctx,
			`INSERT INTO users (id, github_id, login, email, avatar_url, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			user.ID, user.GitHubID, user.Login, user.Email, user.AvatarURL, user.CreatedAt, user.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting user (githubID=%d): %w", user.GitHubID, err)
		}
		return nil
	})
}

// GetUserByID returns apperror.ErrNotFound for unknown ids.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, github_id, login, email, avatar_url, created_at, updated_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.GitHubID, &u.Login, &u.Email, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return &u, nil
}
