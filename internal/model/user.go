package model

import "time"

// User is a forum member who signed in with GitHub.
//
// ID is our own xid; GitHubID is the stable numeric id GitHub assigns and is
// unique per store. Login is what the forum prints as the author of
// discussions and comments the member posts.
type User struct {
	ID        string    `json:"id"`
	GitHubID  int64     `json:"githubId"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
