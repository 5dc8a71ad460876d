package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/climate-hub/internal/apperror"
	"github.com/sakif/climate-hub/internal/model"
)

const discussionColumns = `id, title, content, author, avatar, date, likes, comment_count`

// Seed inserts discussions in catalogue order when the table is empty.
// Seeds without an id are numbered by their position, starting at 1.
func (db *DB) Seed(ctx context.Context, discussions []model.Discussion) (bool, error) {
	seeded := false
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM discussions`).Scan(&count); err != nil {
			return fmt.Errorf("sqlite: counting discussions: %w", err)
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

// Create numbers the discussion count+1 and places it ahead of every
// existing thread. Both reads happen inside the write transaction, so two
// concurrent creates can't observe the same count.
func (db *DB) Create(ctx context.Context, d *model.Discussion) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		var count, minPos int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*), COALESCE(MIN(position), 0) FROM discussions`,
		).Scan(&count, &minPos)
		if err != nil {
			return fmt.Errorf("sqlite: reading discussion count: %w", err)
		}

		d.ID = count + 1
		position := minPos - 1
		if count == 0 {
			position = 0
		}
		return insertDiscussion(ctx, tx, d, position)
	})
}

func insertDiscussion(ctx context.Context, q querier, d *model.Discussion, position int) error {
	d.CommentCount = len(d.Comments)

	_, err := q.ExecContext(ctx,
		`INSERT INTO discussions (id, position, title, content, author, avatar, date, likes, comment_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, position, d.Title, d.Content, d.Author, d.Avatar, d.Date, d.Likes, d.CommentCount,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting discussion %d: %w", d.ID, err)
	}

	for i, tag := range d.Tags {
		_, err := q.ExecContext(ctx,
			`INSERT INTO discussion_tags (discussion_id, position, tag) VALUES (?, ?, ?)`,
			d.ID, i, tag,
		)
		if err != nil {
			return fmt.Errorf("sqlite: tagging discussion %d: %w", d.ID, err)
		}
	}

	for i := range d.Comments {
		c := &d.Comments[i]
		if c.ID == 0 {
			c.ID = i + 1
		}
		if err := insertComment(ctx, q, d.ID, c); err != nil {
			return err
		}
	}
	return nil
}

func insertComment(ctx context.Context, q querier, discussionID int, c *model.Comment) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO comments (discussion_id, id, author, content, date) VALUES (?, ?, ?, ?, ?)`,
		discussionID, c.ID, c.Author, c.Content, c.Date,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting comment on discussion %d: %w", discussionID, err)
	}
	return nil
}

func (db *DB) List(ctx context.Context) ([]model.Discussion, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+discussionColumns+` FROM discussions ORDER BY position ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing discussions: %w", err)
	}
	defer rows.Close()

	discussions := make([]model.Discussion, 0)
	for rows.Next() {
		var d model.Discussion
		if err := scanDiscussion(rows, &d); err != nil {
			return nil, fmt.Errorf("sqlite: scanning discussion row: %w", err)
		}
		discussions = append(discussions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating discussions: %w", err)
	}
	rows.Close()

	tags, err := db.loadTags(ctx, `SELECT discussion_id, tag FROM discussion_tags ORDER BY discussion_id, position`)
	if err != nil {
		return nil, err
	}
	comments, err := db.loadComments(ctx, `SELECT discussion_id, id, author, content, date FROM comments ORDER BY discussion_id, id`)
	if err != nil {
		return nil, err
	}

	for i := range discussions {
		d := &discussions[i]
		d.Tags = nonNil(tags[d.ID])
		d.Comments = nonNil(comments[d.ID])
	}
	return discussions, nil
}

func (db *DB) GetByID(ctx context.Context, id int) (*model.Discussion, error) {
	var d model.Discussion
	err := scanDiscussion(db.conn.QueryRowContext(ctx,
		`SELECT `+discussionColumns+` FROM discussions WHERE id = ?`, id,
	), &d)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("discussion", id)
		}
		return nil, fmt.Errorf("sqlite: getting discussion %d: %w", id, err)
	}

	tags, err := db.loadTags(ctx,
		`SELECT discussion_id, tag FROM discussion_tags WHERE discussion_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	comments, err := db.loadComments(ctx,
		`SELECT discussion_id, id, author, content, date FROM comments WHERE discussion_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	d.Tags = nonNil(tags[id])
	d.Comments = nonNil(comments[id])
	return &d, nil
}

func (db *DB) AddComment(ctx context.Context, discussionID int, c *model.Comment) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		var count int
		err := tx.QueryRowContext(ctx,
			`SELECT comment_count FROM discussions WHERE id = ?`, discussionID,
		).Scan(&count)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.NotFound("discussion", discussionID)
			}
			return fmt.Errorf("sqlite: reading comment count for %d: %w", discussionID, err)
		}

		c.ID = count + 1
		if err := insertComment(ctx, tx, discussionID, c); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE discussions SET comment_count = ? WHERE id = ?`, c.ID, discussionID)
		if err != nil {
			return fmt.Errorf("sqlite: updating comment count for %d: %w", discussionID, err)
		}
		return nil
	})
}

func (db *DB) Like(ctx context.Context, id int) (int, error) {
	var likes int
	err := db.conn.QueryRowContext(ctx,
		`UPDATE discussions SET likes = likes + 1 WHERE id = ? RETURNING likes`, id,
	).Scan(&likes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperror.NotFound("discussion", id)
		}
		return 0, fmt.Errorf("sqlite: liking discussion %d: %w", id, err)
	}
	return likes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDiscussion(row rowScanner, d *model.Discussion) error {
	return row.Scan(
		&d.ID, &d.Title, &d.Content, &d.Author, &d.Avatar,
		&d.Date, &d.Likes, &d.CommentCount,
	)
}

func (db *DB) loadTags(ctx context.Context, query string, args ...any) (map[int][]string, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading tags: %w", err)
	}
	defer rows.Close()

	tags := make(map[int][]string)
	for rows.Next() {
		var id int
		var tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tag row: %w", err)
		}
		tags[id] = append(tags[id], tag)
	}
	return tags, rows.Err()
}

func (db *DB) loadComments(ctx context.Context, query string, args ...any) (map[int][]model.Comment, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading comments: %w", err)
	}
	defer rows.Close()

	comments := make(map[int][]model.Comment)
	for rows.Next() {
		var discussionID int
		var c model.Comment
		if err := rows.Scan(&discussionID, &c.ID, &c.Author, &c.Content, &c.Date); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments[discussionID] = append(comments[discussionID], c)
	}
	return comments, rows.Err()
}

// nonNil keeps JSON output as [] rather than null for empty threads.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
