// Package model defines the data structures used throughout the hub.
// Structs carry json tags for the API and yaml tags where the content
// catalogue seeds them.
package model

import "slices"

// DateLayout is the ISO calendar date format used for every user-visible date.
const DateLayout = "2006-01-02"

// Discussion is a forum thread.
//
// ID is assigned by the store as the current number of discussions plus one.
// CommentCount always equals len(Comments) once a store has returned the
// record; the two are kept separate so list views can show the count without
// shipping every comment.
type Discussion struct {
	ID           int       `json:"id"           yaml:"id"`
	Title        string    `json:"title"        yaml:"title"`
	Content      string    `json:"content"      yaml:"content"`
	Author       string    `json:"author"       yaml:"author"`
	Avatar       string    `json:"avatar"       yaml:"avatar"`
	Date         string    `json:"date"         yaml:"date"`
	Likes        int       `json:"likes"        yaml:"likes"`
	CommentCount int       `json:"commentCount" yaml:"-"`
	Comments     []Comment `json:"comments"     yaml:"comments"`
	Tags         []string  `json:"tags"         yaml:"tags"`
}

// Comment is a reply inside a Discussion. IDs are 1-based positions
// within the owning thread.
type Comment struct {
	ID      int    `json:"id"      yaml:"id"`
	Author  string `json:"author"  yaml:"author"`
	Content string `json:"content" yaml:"content"`
	Date    string `json:"date"    yaml:"date"`
}

// HasTag reports whether the discussion carries tag (exact match).
func (d *Discussion) HasTag(tag string) bool {
	return slices.Contains(d.Tags, tag)
}

// Clone returns a deep copy so callers can't reach into a store's slices.
func (d Discussion) Clone() Discussion {
	d.Tags = slices.Clone(d.Tags)
	d.Comments = slices.Clone(d.Comments)
	return d
}

// FilterByTag returns the discussions tagged with tag, preserving order.
// An empty tag selects everything. The input slice is never modified.
func FilterByTag(discussions []Discussion, tag string) []Discussion {
	if tag == "" {
		return slices.Clone(discussions)
	}
	out := make([]Discussion, 0, len(discussions))
	for _, d := range discussions {
		if d.HasTag(tag) {
			out = append(out, d)
		}
	}
	return out
}

// DistinctTags lists every tag in first-appearance order.
func DistinctTags(discussions []Discussion) []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, d := range discussions {
		for _, t := range d.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	return tags
}
