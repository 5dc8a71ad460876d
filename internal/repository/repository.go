// Package repository declares the data-access contracts the services depend on.
//
// Three backends implement them: memory (the default, state lives as long as
// the process), sqlite and postgres. Services only ever see these interfaces,
// so swapping the backend is a config change.
package repository

import (
	"context"

	"github.com/sakif/climate-hub/internal/model"
)

// DiscussionRepository is the forum state store.
//
// Implementations must:
//   - assign Discussion.ID = number of stored discussions + 1 on Create
//   - return List newest-first, with seeds keeping their catalogue order
//   - assign Comment.ID = len(thread comments) + 1 on AddComment and keep
//     CommentCount equal to len(Comments)
//   - return apperror.ErrNotFound for unknown ids
type DiscussionRepository interface {
	Create(ctx context.Context, d *model.Discussion) error
	List(ctx context.Context) ([]model.Discussion, error)
	GetByID(ctx context.Context, id int) (*model.Discussion, error)
	AddComment(ctx context.Context, discussionID int, c *model.Comment) error
	Like(ctx context.Context, id int) (int, error)

	// Seed stores the given discussions, in order, only if the store is empty.
	// It reports whether anything was written.
	Seed(ctx context.Context, discussions []model.Discussion) (bool, error)
}

type ContactRepository interface {
	SaveContact(ctx context.Context, msg *model.ContactMessage) error
	ListContacts(ctx context.Context) ([]model.ContactMessage, error)
}

type UserRepository interface {
	Upsert(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// ContentRepository serves the read-only site content.
type ContentRepository interface {
	Posts() []model.BlogPost
	PostBySlug(slug string) (*model.BlogPost, error)
	Projects() []model.Project
	Team() []model.TeamMember
	Stats() model.Stats
	Site() model.Site
	SeedDiscussions() []model.Discussion
}

// Store bundles the writable repositories a backend provides.
type Store interface {
	DiscussionRepository
	ContactRepository
	UserRepository
	Close() error
}
