package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPages(t *testing.T) {
	app := newTestApp(t, nil)

	tests := []struct {
		path string
		want string
	}{
		{"/", "Climate Action Hub"},
		{"/about", "Dr. Emily Green"},
		{"/blog", "Ocean Cleanup Drones"},
		{"/blog/rise-of-vertical-forests", "The Rise of Vertical Forests"},
		{"/portfolio", "Solar-Powered Community Center"},
		{"/contact", `action="/contact"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, body, _ := app.get(t, tt.path)
			require.Equal(t, http.StatusOK, status)
			assert.Contains(t, body, tt.want)
		})
	}
}

func TestBlogPostUnknownSlug(t *testing.T) {
	app := newTestApp(t, nil)

	status, body, _ := app.get(t, "/blog/no-such-post")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "Page not found")
}

func TestUnknownPath(t *testing.T) {
	app := newTestApp(t, nil)

	status, body, _ := app.get(t, "/does-not-exist")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "Page not found")
}

func TestSignInHiddenWhenDisabled(t *testing.T) {
	app := newTestApp(t, nil)

	_, body, _ := app.get(t, "/")
	assert.NotContains(t, body, "/auth/github/login")
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "DEG", initials("Dr. Emily Green"))
	assert.Equal(t, "JR", initials("john rivers"))
	assert.Equal(t, "", initials("  "))
}
