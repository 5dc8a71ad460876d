// Package content loads the site's fixed copy (blog, portfolio, team, home
// page figures and the forum's seed threads) from a YAML catalogue.
//
// A catalogue is compiled into the binary; CONTENT_PATH points Load at a
// replacement file.
package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/sakif/climate-hub/internal/apperror"
	"github.com/sakif/climate-hub/internal/model"
	"github.com/sakif/climate-hub/internal/repository"
)

//go:embed content.yaml
var defaultCatalogue []byte

var _ repository.ContentRepository = (*Catalogue)(nil)

// Catalogue is an immutable, parsed content file. Accessors return copies.
type Catalogue struct {
	site        model.Site
	posts       []model.BlogPost
	projects    []model.Project
	team        []model.TeamMember
	stats       model.Stats
	discussions []model.Discussion
}

type catalogueFile struct {
	Site        model.Site         `yaml:"site"`
	Posts       []model.BlogPost   `yaml:"posts"`
	Projects    []model.Project    `yaml:"projects"`
	Team        []model.TeamMember `yaml:"team"`
	Stats       model.Stats        `yaml:"stats"`
	Discussions []model.Discussion `yaml:"discussions"`
}

// Load reads the catalogue at path, or the built-in one when path is empty.
func Load(path string) (*Catalogue, error) {
	if path == "" {
		return Parse(defaultCatalogue)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalogue document. Unknown keys are
// rejected so a typo doesn't silently blank a page.
func Parse(data []byte) (*Catalogue, error) {
	var f catalogueFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("content: decoding catalogue: %w", err)
	}

	seen := make(map[string]bool, len(f.Posts))
	for i, p := range f.Posts {
		if p.Slug == "" {
			return nil, fmt.Errorf("content: post %d (%q) has no slug", i, p.Title)
		}
		if seen[p.Slug] {
			return nil, fmt.Errorf("content: duplicate post slug %q", p.Slug)
		}
		seen[p.Slug] = true
	}

	// Ids become primary keys in the SQL stores, so duplicates are rejected
	// here rather than failing only on some backends.
	ids := make(map[int]bool, len(f.Discussions))
	for i := range f.Discussions {
		d := &f.Discussions[i]
		if d.ID == 0 {
			d.ID = i + 1
		}
		if d.ID < 0 {
			return nil, fmt.Errorf("content: discussion %q has negative id %d", d.Title, d.ID)
		}
		if ids[d.ID] {
			return nil, fmt.Errorf("content: duplicate discussion id %d", d.ID)
		}
		ids[d.ID] = true

		if d.Tags == nil {
			d.Tags = []string{}
		}
		if d.Comments == nil {
			d.Comments = []model.Comment{}
		}
		commentIDs := make(map[int]bool, len(d.Comments))
		for j := range d.Comments {
			c := &d.Comments[j]
			if c.ID == 0 {
				c.ID = j + 1
			}
			if commentIDs[c.ID] {
				return nil, fmt.Errorf("content: discussion %d has duplicate comment id %d", d.ID, c.ID)
			}
			commentIDs[c.ID] = true
		}
		d.CommentCount = len(d.Comments)
	}

	return &Catalogue{
		site:        f.Site,
		posts:       f.Posts,
		projects:    f.Projects,
		team:        f.Team,
		stats:       f.Stats,
		discussions: f.Discussions,
	}, nil
}

func (c *Catalogue) Site() model.Site {
	s := c.site
	s.Mission = slices.Clone(c.site.Mission)
	return s
}

func (c *Catalogue) Posts() []model.BlogPost {
	return slices.Clone(c.posts)
}

// PostBySlug returns apperror.ErrNotFound for unknown slugs.
func (c *Catalogue) PostBySlug(slug string) (*model.BlogPost, error) {
	i := slices.IndexFunc(c.posts, func(p model.BlogPost) bool { return p.Slug == slug })
	if i < 0 {
		return nil, apperror.NotFound("post", slug)
	}
	p := c.posts[i]
	return &p, nil
}

func (c *Catalogue) Projects() []model.Project {
	return slices.Clone(c.projects)
}

func (c *Catalogue) Team() []model.TeamMember {
	return slices.Clone(c.team)
}

func (c *Catalogue) Stats() model.Stats {
	return model.Stats{
		Temperature: slices.Clone(c.stats.Temperature),
		Emissions:   slices.Clone(c.stats.Emissions),
		Impact:      slices.Clone(c.stats.Impact),
		Counters:    slices.Clone(c.stats.Counters),
	}
}

// SeedDiscussions returns deep copies of the catalogue's forum threads.
func (c *Catalogue) SeedDiscussions() []model.Discussion {
	out := make([]model.Discussion, len(c.discussions))
	for i, d := range c.discussions {
		out[i] = d.Clone()
	}
	return out
}
