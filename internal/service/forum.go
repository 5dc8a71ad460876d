// Package service contains the business logic layer of the hub.
//
// Handlers parse HTTP and render responses; services validate input, apply
// the forum's rules and call the repositories; repositories only store.
//
//	Handler (HTTP) → Service (rules) → Repository (memory / sqlite / postgres)
//
// Every service takes its repository as an interface, so tests pass the
// memory store or a hand-written fake instead of a database.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	strip "github.com/grokify/html-strip-tags-go"

	"github.com/sakif/climate-hub/internal/apperror"
	"github.com/sakif/climate-hub/internal/metrics"
	"github.com/sakif/climate-hub/internal/model"
	"github.com/sakif/climate-hub/internal/repository"
)

// Limits on visitor-supplied text, counted in runes after sanitising.
const (
	MaxTitleLength   = 200
	MaxContentLength = 10000
	MaxCommentLength = 5000
)

const (
	// AnonymousAuthor names posts made without signing in.
	AnonymousAuthor = "CurrentUser"
	// PlaceholderAvatar is used when the author has no avatar of their own.
	PlaceholderAvatar = "/static/img/placeholder.svg"
	// NewDiscussionTag is the only tag a visitor-created thread starts with.
	NewDiscussionTag = "New Discussion"
)

// ForumService implements the discussion forum: starting threads, tag
// filtering, comments and likes.
type ForumService struct {
	repo    repository.DiscussionRepository
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewForumService wires the forum. now supplies "today" for new posts; nil
// means time.Now.
func NewForumService(
	repo repository.DiscussionRepository,
	m *metrics.Metrics,
	logger *slog.Logger,
	now func() time.Time,
) *ForumService {
	if now == nil {
		now = time.Now
	}
	return &ForumService{
		repo:    repo,
		metrics: m,
		logger:  logger,
		now:     now,
	}
}

// NewDiscussionInput is what a visitor types into the "Start a New
// Discussion" form.
type NewDiscussionInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CreateDiscussion starts a thread. Title and content are stripped of
// markup and trimmed; either one ending up empty is a validation error and
// nothing is stored.
//
// author may be nil for anonymous visitors.
func (s *ForumService) CreateDiscussion(ctx context.Context, author *model.User, in NewDiscussionInput) (*model.Discussion, error) {
	title, err := sanitize("title", in.Title, MaxTitleLength)
	if err != nil {
		return nil, err
	}
	content, err := sanitize("content", in.Content, MaxContentLength)
	if err != nil {
		return nil, err
	}

	name, avatar := authorOf(author)
	d := &model.Discussion{
		Title:    title,
		Content:  content,
		Author:   name,
		Avatar:   avatar,
		Date:     s.today(),
		Likes:    0,
		Comments: []model.Comment{},
		Tags:     []string{NewDiscussionTag},
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("service/forum: creating discussion: %w", err)
	}
	s.metrics.DiscussionsCreated.Inc()

	s.logger.Info("discussion created",
		slog.Int("id", d.ID),
		slog.String("author", d.Author),
	)
	return d, nil
}

// List returns the discussions carrying tag, most recent first. An empty tag
// returns every discussion. Nothing is modified.
func (s *ForumService) List(ctx context.Context, tag string) ([]model.Discussion, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/forum: listing discussions: %w", err)
	}
	return model.FilterByTag(all, tag), nil
}

// Tags lists every tag in use, in the order the listing first shows it.
func (s *ForumService) Tags(ctx context.Context) ([]string, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/forum: listing discussions: %w", err)
	}
	return model.DistinctTags(all), nil
}

// Get returns one discussion with its comments, or apperror.ErrNotFound.
func (s *ForumService) Get(ctx context.Context, id int) (*model.Discussion, error) {
	if id <= 0 {
		return nil, apperror.NotFound("discussion", id)
	}
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/forum: getting discussion %d: %w", id, err)
	}
	return d, nil
}

// AddComment appends a reply to discussion id. The thread's comment count
// goes up by one.
func (s *ForumService) AddComment(ctx context.Context, author *model.User, id int, text string) (*model.Comment, error) {
	content, err := sanitize("comment", text, MaxCommentLength)
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, apperror.NotFound("discussion", id)
	}

	name, _ := authorOf(author)
	c := &model.Comment{
		Author:  name,
		Content: content,
		Date:    s.today(),
	}
	if err := s.repo.AddComment(ctx, id, c); err != nil {
		return nil, fmt.Errorf("service/forum: commenting on discussion %d: %w", id, err)
	}
	s.metrics.CommentsCreated.Inc()

	s.logger.Info("comment added",
		slog.Int("discussion", id),
		slog.Int("comment", c.ID),
		slog.String("author", c.Author),
	)
	return c, nil
}

// Like adds one like and returns the new total.
func (s *ForumService) Like(ctx context.Context, id int) (int, error) {
	if id <= 0 {
		return 0, apperror.NotFound("discussion", id)
	}
	likes, err := s.repo.Like(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("service/forum: liking discussion %d: %w", id, err)
	}
	s.metrics.Likes.Inc()
	return likes, nil
}

// Seed loads the starter threads into an empty store. A store that already
// holds discussions is left untouched.
func (s *ForumService) Seed(ctx context.Context, discussions []model.Discussion) error {
	seeded, err := s.repo.Seed(ctx, discussions)
	if err != nil {
		return fmt.Errorf("service/forum: seeding discussions: %w", err)
	}
	if seeded {
		s.logger.Info("forum seeded", slog.Int("discussions", len(discussions)))
	} else {
		s.logger.Debug("forum already populated, skipping seed")
	}
	return nil
}

func (s *ForumService) today() string {
	return s.now().Format(model.DateLayout)
}

func authorOf(u *model.User) (name, avatar string) {
	if u == nil || u.Login == "" {
		return AnonymousAuthor, PlaceholderAvatar
	}
	if u.AvatarURL == "" {
		return u.Login, PlaceholderAvatar
	}
	return u.Login, u.AvatarURL
}

// sanitize trims whitespace and enforces a rune limit. The text is kept as
// typed; templates escape it on output. Input that is nothing but markup,
// such as "<b></b>", counts as empty. field names the form input in any
// validation error.
func sanitize(field, raw string, maxLen int) (string, error) {
	clean := strings.TrimSpace(raw)
	if strings.TrimSpace(strip.StripTags(clean)) == "" {
		return "", apperror.ValidationFailed(field, field+" is required")
	}
	if utf8.RuneCountInString(clean) > maxLen {
		return "", apperror.ValidationFailed(field,
			fmt.Sprintf("%s must be at most %d characters", field, maxLen))
	}
	return clean, nil
}
