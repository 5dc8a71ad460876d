package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForumIndexListsSeeds(t *testing.T) {
	app := newTestApp(t, nil)

	status, body, _ := app.get(t, "/forum")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Innovative Urban Farming Techniques")
	assert.Contains(t, body, "The Future of Electric Vehicles")
	assert.Less(t,
		strings.Index(body, "Innovative Urban Farming Techniques"),
		strings.Index(body, "The Future of Electric Vehicles"),
		"seeds keep catalogue order")
}

func TestForumCreate(t *testing.T) {
	app := newTestApp(t, nil)

	status, _, location := app.postForm(t, "/forum", url.Values{
		"title":   {"Composting 101"},
		"content": {"Share <b>your</b> tips, if a<b and c>d"},
	})
	require.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/forum", location)

	status, body, _ := app.get(t, "/forum")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "was posted")
	assert.Contains(t, body, "Share &lt;b&gt;your&lt;/b&gt; tips, if a&lt;b and c&gt;d", "stored as typed, escaped on output")
	assert.Contains(t, body, "Posted by CurrentUser on 2024-03-14")
	assert.Less(t,
		strings.Index(body, "Composting 101"),
		strings.Index(body, "Innovative Urban Farming Techniques"),
		"new discussions come first")

	d, err := app.store.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Composting 101", d.Title)
	assert.Equal(t, "Share <b>your</b> tips, if a<b and c>d", d.Content)
	assert.Equal(t, []string{"New Discussion"}, d.Tags)

	// The flash is shown once.
	_, body, _ = app.get(t, "/forum")
	assert.NotContains(t, body, "was posted")
}

func TestForumCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
	}{
		{"empty title", "", "body"},
		{"whitespace content", "Title", "   "},
		{"markup only", "<br>", "body"},
		{"title too long", strings.Repeat("x", 201), "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, nil)

			status, body, _ := app.postForm(t, "/forum", url.Values{
				"title":   {tt.title},
				"content": {tt.content},
			})
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Contains(t, body, `role="alert"`)

			list, err := app.store.List(context.Background())
			require.NoError(t, err)
			assert.Len(t, list, 2, "nothing stored")
		})
	}
}

func TestForumCreateKeepsInputOnError(t *testing.T) {
	app := newTestApp(t, nil)

	status, body, _ := app.postForm(t, "/forum", url.Values{
		"title":   {""},
		"content": {"my draft"},
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "my draft")
}

func TestForumFilterByTag(t *testing.T) {
	app := newTestApp(t, nil)

	status, body, _ := app.get(t, "/forum?tag=Electric+Vehicles")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "The Future of Electric Vehicles")
	assert.NotContains(t, body, "Innovative Urban Farming Techniques")

	_, body, _ = app.get(t, "/forum?tag=Nonexistent")
	assert.Contains(t, body, "No discussions")
}

func TestForumShow(t *testing.T) {
	app := newTestApp(t, nil)

	status, body, _ := app.get(t, "/forum/1")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<title>Innovative Urban Farming Techniques")
}

func TestForumShowUnknownRedirects(t *testing.T) {
	for _, path := range []string{"/forum/99", "/forum/0", "/forum/abc"} {
		t.Run(path, func(t *testing.T) {
			app := newTestApp(t, nil)

			status, _, location := app.get(t, path)
			require.Equal(t, http.StatusSeeOther, status)
			assert.Equal(t, "/forum", location)

			_, body, _ := app.get(t, "/forum")
			assert.Contains(t, body, "Discussion not found.")
		})
	}
}

func TestForumComment(t *testing.T) {
	app := newTestApp(t, nil)

	status, _, location := app.postForm(t, "/forum/2/comments", url.Values{"comment": {"Great thread"}})
	require.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/forum/2", location)

	d, err := app.store.GetByID(context.Background(), 2)
	require.NoError(t, err)
	last := d.Comments[len(d.Comments)-1]
	assert.Equal(t, "Great thread", last.Content)
	assert.Equal(t, "CurrentUser", last.Author)
	assert.Equal(t, len(d.Comments), d.CommentCount)

	_, body, _ := app.get(t, "/forum/2")
	assert.Contains(t, body, "Comment posted.")
	assert.Contains(t, body, "Great thread")
}

func TestForumCommentErrors(t *testing.T) {
	app := newTestApp(t, nil)

	status, body, _ := app.postForm(t, "/forum/1/comments", url.Values{"comment": {"  "}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, `role="alert"`)

	status, _, location := app.postForm(t, "/forum/42/comments", url.Values{"comment": {"hi"}})
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/forum", location)
}

func TestForumLike(t *testing.T) {
	app := newTestApp(t, nil)
	before, err := app.store.GetByID(context.Background(), 1)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, app.server.URL+"/forum/1/like", nil)
	require.NoError(t, err)
	req.Header.Set("Referer", app.server.URL+"/forum?tag=Urban+Farming")
	resp, err := app.client.Do(req)
	require.NoError(t, err)
	status, _, location := readResponse(t, resp)

	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/forum?tag=Urban+Farming", location)

	after, err := app.store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, before.Likes+1, after.Likes)
}

func TestForumReturnPath(t *testing.T) {
	tests := []struct {
		referer string
		want    string
	}{
		{"", "/forum/1"},
		{"http://localhost/forum", "/forum"},
		{"http://localhost/forum/2", "/forum/2"},
		{"http://localhost/forum?tag=Energy", "/forum?tag=Energy"},
		{"https://evil.example/forum", "/forum"},
		{"http://localhost/blog", "/forum/1"},
		{"://bad", "/forum/1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, forumReturnPath(tt.referer, "/forum/1"), tt.referer)
	}
}
