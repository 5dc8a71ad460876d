// Package memory keeps forum state, contact messages and users in process
// memory. Nothing survives a restart, matching the site's original
// behaviour where every page load started from the seed threads.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/climate-hub/internal/apperror"
	"github.com/sakif/climate-hub/internal/model"
	"github.com/sakif/climate-hub/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Store is safe for concurrent use. Discussions are kept newest-first, so
// Create prepends and List returns the slice order unchanged.
type Store struct {
	mu          sync.RWMutex
	discussions []model.Discussion
	contacts    []model.ContactMessage
	users       map[string]*model.User
	byGitHubID  map[int64]string
}

func New() *Store {
	return &Store{
		users:      make(map[string]*model.User),
		byGitHubID: make(map[int64]string),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) Seed(_ context.Context, discussions []model.Discussion) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.discussions) > 0 {
		return false, nil
	}
	for _, d := range discussions {
		d = d.Clone()
		if d.Comments == nil {
			d.Comments = []model.Comment{}
		}
		if d.Tags == nil {
			d.Tags = []string{}
		}
		d.CommentCount = len(d.Comments)
		s.discussions = append(s.discussions, d)
	}
	return len(discussions) > 0, nil
}

func (s *Store) Create(_ context.Context, d *model.Discussion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = len(s.discussions) + 1
	d.CommentCount = len(d.Comments)
	s.discussions = slices.Insert(s.discussions, 0, d.Clone())
	return nil
}

func (s *Store) List(_ context.Context) ([]model.Discussion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Discussion, len(s.discussions))
	for i, d := range s.discussions {
		out[i] = d.Clone()
	}
	return out, nil
}

func (s *Store) GetByID(_ context.Context, id int) (*model.Discussion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, apperror.NotFound("discussion", id)
	}
	d := s.discussions[i].Clone()
	return &d, nil
}

func (s *Store) AddComment(_ context.Context, discussionID int, c *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(discussionID)
	if i < 0 {
		return apperror.NotFound("discussion", discussionID)
	}
	d := &s.discussions[i]
	c.ID = len(d.Comments) + 1
	d.Comments = append(d.Comments, *c)
	d.CommentCount = len(d.Comments)
	return nil
}

func (s *Store) Like(_ context.Context, id int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return 0, apperror.NotFound("discussion", id)
	}
	s.discussions[i].Likes++
	return s.discussions[i].Likes, nil
}

// indexOf returns the first position holding id, or -1. Callers hold mu.
func (s *Store) indexOf(id int) int {
	return slices.IndexFunc(s.discussions, func(d model.Discussion) bool { return d.ID == id })
}

func (s *Store) SaveContact(_ context.Context, msg *model.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.contacts = append(s.contacts, *msg)
	return nil
}

// ListContacts returns messages newest first.
func (s *Store) ListContacts(_ context.Context) ([]model.ContactMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.contacts)
	slices.Reverse(out)
	return out, nil
}

func (s *Store) Upsert(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if id, ok := s.byGitHubID[user.GitHubID]; ok {
		existing := s.users[id]
		existing.Login = user.Login
		existing.Email = user.Email
		existing.AvatarURL = user.AvatarURL
		existing.UpdatedAt = now
		*user = *existing
		return nil
	}

	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	s.users[user.ID] = &stored
	s.byGitHubID[user.GitHubID] = user.ID
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}
