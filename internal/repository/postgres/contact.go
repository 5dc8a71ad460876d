package postgres

import (
	"context"
	"fmt"

	"github.com/sakif/climate-hub/internal/model"
)

func (db *DB) SaveContact(ctx context.Context, msg *model.ContactMessage) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO contact_messages (id, name, email, message, created_at) VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.Name, msg.Email, msg.Message, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: saving contact message: %w", err)
	}
	return nil
}

func (db *DB) ListContacts(ctx context.Context) ([]model.ContactMessage, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, email, message, created_at FROM contact_messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing contact messages: %w", err)
	}
	defer rows.Close()

	msgs := make([]model.ContactMessage, 0)
	for rows.Next() {
		var m model.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scanning contact message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
