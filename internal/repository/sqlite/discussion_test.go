package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/climate-hub/internal/apperror"
	"github.com/sakif/climate-hub/internal/model"
)

// newTestDB opens a fresh in-memory database per test.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedDiscussions() []model.Discussion {
	return []model.Discussion{
		{
			ID:      1,
			Title:   "Innovative Urban Farming Techniques",
			Content: "Vertical gardening and hydroponics for small urban spaces?",
			Author:  "GreenThumb",
			Date:    "2023-06-15",
			Likes:   24,
			Tags:    []string{"Urban Farming", "Sustainability"},
			Comments: []model.Comment{
				{ID: 1, Author: "UrbanGardener", Content: "Great success with vertical gardening!", Date: "2023-06-16"},
				{ID: 2, Author: "HydroFan", Content: "Hydroponics has been a game-changer.", Date: "2023-06-17"},
			},
		},
		{
			ID:      2,
			Title:   "The Future of Electric Vehicles",
			Content: "How will the EV landscape evolve?",
			Author:  "TechEnthusiast",
			Date:    "2023-06-14",
			Likes:   31,
			Tags:    []string{"Electric Vehicles", "Clean Energy"},
		},
	}
}

func newSeededDB(t *testing.T) *DB {
	t.Helper()
	db := newTestDB(t)
	seeded, err := db.Seed(context.Background(), seedDiscussions())
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if !seeded {
		t.Fatal("Seed() on empty db reported nothing written")
	}
	return db
}

func TestSeed_KeepsOrderAndComments(t *testing.T) {
	db := newSeededDB(t)

	all, err := db.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List() returned %d discussions, want 2", len(all))
	}
	if all[0].ID != 1 || all[1].ID != 2 {
		t.Errorf("order = [%d %d], want [1 2]", all[0].ID, all[1].ID)
	}
	if all[0].CommentCount != 2 || len(all[0].Comments) != 2 {
		t.Errorf("seed comments = %d/%d, want 2/2", all[0].CommentCount, len(all[0].Comments))
	}
	if got := all[0].Tags; len(got) != 2 || got[0] != "Urban Farming" {
		t.Errorf("tags = %v, want [Urban Farming Sustainability]", got)
	}
	if all[1].Comments == nil {
		t.Error("empty thread should have a non-nil comment slice")
	}
}

func TestSeed_SkipsWhenNotEmpty(t *testing.T) {
	db := newSeededDB(t)

	seeded, err := db.Seed(context.Background(), seedDiscussions())
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if seeded {
		t.Error("Seed() should not write into a populated store")
	}
}

func TestCreate_AssignsCountPlusOneAndPrepends(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()

	for i, title := range []string{"Test", "Second"} {
		d := &model.Discussion{
			Title: title, Content: "body", Author: "CurrentUser",
			Date: "2024-01-01", Tags: []string{"New Discussion"},
		}
		if err := db.Create(ctx, d); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if want := 3 + i; d.ID != want {
			t.Errorf("Create() ID = %d, want %d", d.ID, want)
		}
	}

	all, err := db.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	wantTitles := []string{"Second", "Test", "Innovative Urban Farming Techniques", "The Future of Electric Vehicles"}
	for i, want := range wantTitles {
		if all[i].Title != want {
			t.Errorf("List()[%d].Title = %q, want %q", i, all[i].Title, want)
		}
	}
}

func TestCreate_FirstIntoEmptyStore(t *testing.T) {
	db := newTestDB(t)

	d := &model.Discussion{Title: "Only", Content: "c", Author: "a", Date: "2024-01-01"}
	if err := db.Create(context.Background(), d); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if d.ID != 1 {
		t.Errorf("ID = %d, want 1", d.ID)
	}
}

func TestGetByID(t *testing.T) {
	db := newSeededDB(t)

	d, err := db.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if d.Title != "Innovative Urban Farming Techniques" {
		t.Errorf("Title = %q", d.Title)
	}
	if d.Likes != 24 {
		t.Errorf("Likes = %d, want 24", d.Likes)
	}
	if len(d.Comments) != 2 || d.Comments[1].Author != "HydroFan" {
		t.Errorf("Comments = %+v", d.Comments)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := newSeededDB(t)

	_, err := db.GetByID(context.Background(), 404)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestAddComment(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()

	tests := []struct {
		name         string
		discussionID int
		wantID       int
		wantErr      error
	}{
		{name: "appends after seeded comments", discussionID: 1, wantID: 3},
		{name: "first comment on empty thread", discussionID: 2, wantID: 1},
		{name: "second comment on same thread", discussionID: 2, wantID: 2},
		{name: "unknown discussion", discussionID: 77, wantErr: apperror.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &model.Comment{Author: "CurrentUser", Content: "hello", Date: "2024-01-02"}
			err := db.AddComment(ctx, tt.discussionID, c)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("AddComment() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("AddComment() error = %v", err)
			}
			if c.ID != tt.wantID {
				t.Errorf("comment ID = %d, want %d", c.ID, tt.wantID)
			}

			d, err := db.GetByID(ctx, tt.discussionID)
			if err != nil {
				t.Fatalf("GetByID() error = %v", err)
			}
			if d.CommentCount != len(d.Comments) {
				t.Errorf("CommentCount = %d but %d comments stored", d.CommentCount, len(d.Comments))
			}
		})
	}
}

func TestLike(t *testing.T) {
	db := newSeededDB(t)

	likes, err := db.Like(context.Background(), 2)
	if err != nil {
		t.Fatalf("Like() error = %v", err)
	}
	if likes != 32 {
		t.Errorf("Like() = %d, want 32", likes)
	}

	if _, err := db.Like(context.Background(), 99); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Like(unknown) error = %v, want ErrNotFound", err)
	}
}
