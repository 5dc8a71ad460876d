package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sakif/climate-hub/internal/auth"
	"github.com/sakif/climate-hub/internal/content"
	"github.com/sakif/climate-hub/internal/metrics"
	"github.com/sakif/climate-hub/internal/repository/memory"
	"github.com/sakif/climate-hub/internal/service"
	"github.com/sakif/climate-hub/web"
)

const testSecret = "handler-test-secret-0123456789"

var testDate = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testApp is the site mounted on an httptest server. The client keeps
// cookies and does not follow redirects, so tests see every 303.
type testApp struct {
	server *httptest.Server
	client *http.Client
	store  *memory.Store
	tokens *auth.TokenService
}

// newTestApp builds the site on a seeded memory store. A nil provider
// leaves sign-in disabled.
func newTestApp(t *testing.T, provider OAuthProvider) *testApp {
	t.Helper()
	logger := testLogger()

	catalogue, err := content.Load("")
	require.NoError(t, err)

	store := memory.New()
	m := metrics.NewNop()
	contentService := service.NewContentService(catalogue)
	forumService := service.NewForumService(store, m, logger, func() time.Time { return testDate })
	require.NoError(t, forumService.Seed(context.Background(), contentService.SeedDiscussions()))
	contactService := service.NewContactService(store, m, logger)

	var (
		tokens      *auth.TokenService
		authService *service.AuthService
	)
	if provider != nil {
		tokens, err = auth.NewTokenService(testSecret)
		require.NoError(t, err)
		authService = service.NewAuthService(store, tokens, logger)
	}

	sessions := scs.New()
	renderer, err := NewRenderer(web.FS, sessions, contentService, authService, logger)
	require.NoError(t, err)

	pages := NewPageHandler(contentService, renderer)
	forum := NewForumHandler(forumService, authService, renderer)
	contact := NewContactHandler(contactService, renderer, logger)
	api := NewAPIHandler(forumService, contentService, authService, logger)

	r := chi.NewRouter()
	if tokens != nil {
		r.Use(auth.OptionalAuth(tokens))
	}
	r.Group(func(r chi.Router) {
		r.Use(sessions.LoadAndSave)
		r.Get("/", pages.HandleHome)
		r.Get("/about", pages.HandleAbout)
		r.Get("/blog", pages.HandleBlog)
		r.Get("/blog/{slug}", pages.HandleBlogPost)
		r.Get("/portfolio", pages.HandlePortfolio)
		r.Get("/contact", contact.HandlePage)
		r.Post("/contact", contact.HandleSubmit)
		r.Get("/forum", forum.HandleIndex)
		r.Post("/forum", forum.HandleCreate)
		r.Get("/forum/{id}", forum.HandleShow)
		r.Post("/forum/{id}/comments", forum.HandleComment)
		r.Post("/forum/{id}/like", forum.HandleLike)
		if provider != nil {
			ah := NewAuthHandler(provider, authService, tokens, renderer, logger)
			r.Get("/auth/github/login", ah.HandleGitHubLogin)
			r.Get("/auth/github/callback", ah.HandleGitHubCallback)
			r.Post("/auth/logout", ah.HandleLogout)
			r.Get("/api/me", ah.HandleMe)
		}
		r.NotFound(pages.HandleNotFound)
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/discussions", api.HandleListDiscussions)
		r.Post("/discussions", api.HandleCreateDiscussion)
		r.Get("/discussions/{id}", api.HandleGetDiscussion)
		r.Post("/discussions/{id}/comments", api.HandleAddComment)
		r.Post("/discussions/{id}/like", api.HandleLike)
		r.Get("/tags", api.HandleTags)
		r.Get("/posts", api.HandlePosts)
		r.Get("/posts/{slug}", api.HandlePost)
		r.Get("/projects", api.HandleProjects)
		r.Post("/contact", contact.HandleAPISubmit)
		r.NotFound(api.HandleNotFound)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testApp{server: srv, client: client, store: store, tokens: tokens}
}

// get returns the status, body and Location header of a GET.
func (a *testApp) get(t *testing.T, path string) (int, string, string) {
	t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	require.NoError(t, err)
	return readResponse(t, resp)
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) (int, string, string) {
	t.Helper()
	resp, err := a.client.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	return readResponse(t, resp)
}

func (a *testApp) postJSON(t *testing.T, path, body string) (int, string) {
	t.Helper()
	resp, err := a.client.Post(a.server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	status, respBody, _ := readResponse(t, resp)
	return status, respBody
}

func readResponse(t *testing.T, resp *http.Response) (int, string, string) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), resp.Header.Get("Location")
}
