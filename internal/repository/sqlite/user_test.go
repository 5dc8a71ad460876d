package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/climate-hub/internal/apperror"
	"github.com/sakif/climate-hub/internal/model"
)

func TestUpsert_InsertsNewUser(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{GitHubID: 12345, Login: "greenthumb", Email: "gt@example.com"}
	if err := db.Upsert(context.Background(), user); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if user.ID == "" {
		t.Error("Upsert() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Upsert() did not set user.CreatedAt")
	}
}

func TestUpsert_UpdatesExistingProfile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := &model.User{GitHubID: 7, Login: "old-login"}
	if err := db.Upsert(ctx, first); err != nil {
		t.Fatalf("first Upsert() error = %v", err)
	}

	second := &model.User{GitHubID: 7, Login: "new-login", AvatarURL: "https://example.com/a.png"}
	if err := db.Upsert(ctx, second); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("ID changed on re-login: %q -> %q", first.ID, second.ID)
	}

	got, err := db.GetUserByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if got.Login != "new-login" {
		t.Errorf("Login = %q, want %q", got.Login, "new-login")
	}
	if got.AvatarURL != "https://example.com/a.png" {
		t.Errorf("AvatarURL = %q", got.AvatarURL)
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "nope")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}

func TestContacts_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"Ada", "Grace"} {
		msg := &model.ContactMessage{
			ID:        name + "-id",
			Name:      name,
			Email:     name + "@example.com",
			Message:   "How can I volunteer?",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.SaveContact(ctx, msg); err != nil {
			t.Fatalf("SaveContact() error = %v", err)
		}
	}

	got, err := db.ListContacts(ctx)
	if err != nil {
		t.Fatalf("ListContacts() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListContacts() returned %d messages, want 2", len(got))
	}
	if got[0].Name != "Grace" {
		t.Errorf("newest message = %q, want Grace", got[0].Name)
	}
}
