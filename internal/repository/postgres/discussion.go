package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sakif/climate-hub/internal/apperror"
	"github.com/sakif/climate-hub/internal/model"
)

const discussionColumns = `id, title, content, author, avatar, date, likes, comment_count, tags`

// lockDiscussions serialises id assignment. SHARE ROW EXCLUSIVE conflicts
// with itself, so only one writer at a time can read the count.
const lockDiscussions = `LOCK TABLE discussions IN SHARE ROW EXCLUSIVE MODE`

func (db *DB) Seed(ctx context.Context, discussions []model.Discussion) (bool, error) {
	seeded := false
	err := db.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockDiscussions); err != nil {
			return fmt.Errorf("postgres: locking discussions: %w", err)
		}
		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM discussions`).Scan(&count); err != nil {
			return fmt.Errorf("postgres: counting discussions: %w", err)
		}
		if count > 0 {
			return nil
		}

		for i := range discussions {
			d := discussions[i].Clone()
			if d.ID == 0 {
				d.ID = i + 1
			}
			if err := insertDiscussion(ctx, tx, &d, i); err != nil {
				return err
			}
		}
		seeded = len(discussions) > 0
		return nil
	})
	return seeded, err
}

// Create numbers the discussion count+1 and gives it the lowest position.
func (db *DB) Create(ctx context.Context, d *model.Discussion) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockDiscussions); err != nil {
			return fmt.Errorf("postgres: locking discussions: %w", err)
		}
		var count, minPos int
		err := tx.QueryRow(ctx,
			`SELECT COUNT(*), COALESCE(MIN(position), 1) FROM discussions`,
		).Scan(&count, &minPos)
		if err != nil {
			return fmt.Errorf("postgres: reading discussion count: %w", err)
		}

		d.ID = count + 1
		return insertDiscussion(ctx, tx, d, minPos-1)
	})
}

func insertDiscussion(ctx context.Context, tx pgx.Tx, d *model.Discussion, position int) error {
	if d.Tags == nil {
		d.Tags = []string{}
	}
	d.CommentCount = len(d.Comments)

	_, err := tx.Exec(ctx,
		`INSERT INTO discussions (id, position, title, content, author, avatar, date, likes, comment_count, tags)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.ID, position, d.Title, d.Content, d.Author, d.Avatar, d.Date, d.Likes, d.CommentCount, d.Tags,
	)
	if err != nil {
		return fmt.Errorf("postgres: inserting discussion %d: %w", d.ID, err)
	}

	for i := range d.Comments {
		c := &d.Comments[i]
		if c.ID == 0 {
			c.ID = i + 1
		}
		if err := insertComment(ctx, tx, d.ID, c); err != nil {
			return err
		}
	}
	return nil
}

func insertComment(ctx context.Context, tx pgx.Tx, discussionID int, c *model.Comment) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO comments (discussion_id, id, author, content, date) VALUES ($1, $2, $3, $4, $5)`,
		discussionID, c.ID, c.Author, c.Content, c.Date,
	)
	if err != nil {
		return fmt.Errorf("postgres: inserting comment on discussion %d: %w", discussionID, err)
	}
	return nil
}

func (db *DB) List(ctx context.Context) ([]model.Discussion, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+discussionColumns+` FROM discussions ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing discussions: %w", err)
	}
	defer rows.Close()

	discussions := make([]model.Discussion, 0)
	for rows.Next() {
		var d model.Discussion
		if err := scanDiscussion(rows, &d); err != nil {
			return nil, fmt.Errorf("postgres: scanning discussion row: %w", err)
		}
		discussions = append(discussions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating discussions: %w", err)
	}

	comments, err := db.loadComments(ctx,
		`SELECT discussion_id, id, author, content, date FROM comments ORDER BY discussion_id, id`)
	if err != nil {
		return nil, err
	}
	for i := range discussions {
		discussions[i].Comments = nonNil(comments[discussions[i].ID])
	}
	return discussions, nil
}

func (db *DB) GetByID(ctx context.Context, id int) (*model.Discussion, error) {
	var d model.Discussion
	err := scanDiscussion(db.pool.QueryRow(ctx,
		`SELECT `+discussionColumns+` FROM discussions WHERE id = $1`, id), &d)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("discussion", id)
		}
		return nil, fmt.Errorf("postgres: getting discussion %d: %w", id, err)
	}

	comments, err := db.loadComments(ctx,
		`SELECT discussion_id, id, author, content, date FROM comments WHERE discussion_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	d.Comments = nonNil(comments[id])
	return &d, nil
}

func (db *DB) AddComment(ctx context.Context, discussionID int, c *model.Comment) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		var count int
		err := tx.QueryRow(ctx,
			`SELECT comment_count FROM discussions WHERE id = $1 FOR UPDATE`, discussionID,
		).Scan(&count)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperror.NotFound("discussion", discussionID)
			}
			return fmt.Errorf("postgres: reading comment count for %d: %w", discussionID, err)
		}

		c.ID = count + 1
		if err := insertComment(ctx, tx, discussionID, c); err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE discussions SET comment_count = $1 WHERE id = $2`, c.ID, discussionID)
		if err != nil {
			return fmt.Errorf("postgres: updating comment count for %d: %w", discussionID, err)
		}
		return nil
	})
}

func (db *DB) Like(ctx context.Context, id int) (int, error) {
	var likes int
	err := db.pool.QueryRow(ctx,
		`UPDATE discussions SET likes = likes + 1 WHERE id = $1 RETURNING likes`, id,
	).Scan(&likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperror.NotFound("discussion", id)
		}
		return 0, fmt.Errorf("postgres: liking discussion %d: %w", id, err)
	}
	return likes, nil
}

func scanDiscussion(row pgx.Row, d *model.Discussion) error {
	return row.Scan(
		&d.ID, &d.Title, &d.Content, &d.Author, &d.Avatar,
		&d.Date, &d.Likes, &d.CommentCount, &d.Tags,
	)
}

func (db *DB) loadComments(ctx context.Context, query string, args ...any) (map[int][]model.Comment, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: loading comments: %w", err)
	}
	defer rows.Close()

	comments := make(map[int][]model.Comment)
	for rows.Next() {
		var discussionID int
		var c model.Comment
		if err := rows.Scan(&discussionID, &c.ID, &c.Author, &c.Content, &c.Date); err != nil {
			return nil, fmt.Errorf("postgres: scanning comment row: %w", err)
		}
		comments[discussionID] = append(comments[discussionID], c)
	}
	return comments, rows.Err()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
