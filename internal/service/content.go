package service

import (
	"fmt"

	"github.com/sakif/climate-hub/internal/model"
	"github.com/sakif/climate-hub/internal/repository"
)

// ContentService serves the read-only pages: blog, portfolio, about and the
// home page figures.
type ContentService struct {
	repo repository.ContentRepository
}

func NewContentService(repo repository.ContentRepository) *ContentService {
	return &ContentService{repo: repo}
}

func (s *ContentService) Site() model.Site {
	return s.repo.Site()
}

func (s *ContentService) Posts() []model.BlogPost {
	return s.repo.Posts()
}

// Post looks a blog post up by its slug. Unknown slugs return
// apperror.ErrNotFound.
func (s *ContentService) Post(slug string) (*model.BlogPost, error) {
	p, err := s.repo.PostBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("service/content: %w", err)
	}
	return p, nil
}

func (s *ContentService) Projects() []model.Project {
	return s.repo.Projects()
}

func (s *ContentService) Team() []model.TeamMember {
	return s.repo.Team()
}

func (s *ContentService) Stats() model.Stats {
	return s.repo.Stats()
}

// SeedDiscussions returns the starter forum threads from the catalogue.
func (s *ContentService) SeedDiscussions() []model.Discussion {
	return s.repo.SeedDiscussions()
}
