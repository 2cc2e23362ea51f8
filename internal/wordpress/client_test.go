package wordpress_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/models"
	"github.com/drijfveer/linkmanager/internal/wordpress"
)

// fakeSite is a minimal in-memory stand-in for the pages endpoint.
type fakeSite struct {
	mu         sync.Mutex
	content    string
	title      string
	getStatus  int
	postStatus int
	updates    []string
	user, pass string
	query      string
}

func (f *fakeSite) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/pages/49", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.user, f.pass, _ = r.BasicAuth()
		switch r.Method {
		case http.MethodGet:
			f.query = r.URL.RawQuery
			if f.getStatus != 0 {
				w.WriteHeader(f.getStatus)
				_, _ = w.Write([]byte(`{"code":"rest_forbidden","message":"Sorry"}`))
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":      49,
				"title":   map[string]string{"rendered": f.title},
				"content": map[string]string{"raw": f.content, "rendered": "<p>rendered</p>"},
			})
		case http.MethodPost:
			if f.postStatus != 0 {
				w.WriteHeader(f.postStatus)
				return
			}
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.updates = append(f.updates, body["content"])
			f.content = body["content"]
			_, _ = w.Write([]byte(`{"id":49}`))
		}
	})
	return mux
}

func newSite(srvURL string) *models.Website {
	return &models.Website{
		WebsiteURL:  srvURL,
		SiteName:    "Example",
		PageID:      49,
		Username:    "admin",
		AppPassword: "abcd efgh ijkl",
	}
}

func newClient(opts ...wordpress.Option) *wordpress.Client {
	return wordpress.NewClient(wordpress.Config{Timeout: 2 * time.Second}, infralogger.NewNop(), opts...)
}

func TestAddLink_AppendsAnchor(t *testing.T) {
	t.Parallel()

	fake := &fakeSite{content: "<p>Partners</p>"}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	var ops []string
	client := newClient(wordpress.WithObserver(func(op string, status int, _ time.Duration) {
		ops = append(ops, op)
		assert.Equal(t, http.StatusOK, status)
	}))

	resp := client.AddLink(context.Background(), newSite(srv.URL), "Best Shoes", "https://shoes.example/?a=1&b=2", 0)

	assert.True(t, resp.Success)
	assert.True(t, resp.LinkAdded)
	assert.Equal(t, wordpress.MsgLinkAdded, resp.Message)
	assert.Equal(t, 49, resp.PageID)
	require.Len(t, fake.updates, 1)
	assert.Equal(t, "<p>Partners</p>\n<a href=\"https://shoes.example/?a=1&amp;b=2\">Best Shoes</a><br>", fake.updates[0])
	assert.Equal(t, "admin", fake.user)
	assert.Equal(t, "abcdefghijkl", fake.pass)
	assert.Equal(t, "context=edit", fake.query)
	assert.Equal(t, []string{wordpress.OpGetPage, wordpress.OpUpdatePage}, ops)
}

func TestAddLink_Duplicate(t *testing.T) {
	t.Parallel()

	fake := &fakeSite{content: `<a href="https://shoes.example/">Shoes</a>`}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	resp := newClient().AddLink(context.Background(), newSite(srv.URL), "Shoes", "https://shoes.example/", 49)

	assert.True(t, resp.Success)
	assert.False(t, resp.LinkAdded)
	assert.Equal(t, wordpress.MsgLinkExists, resp.Message)
	assert.Empty(t, fake.updates)
}

func TestAddLink_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fake    *fakeSite
		message string
	}{
		{name: "fetch forbidden", fake: &fakeSite{getStatus: http.StatusForbidden}, message: "Failed to fetch page: HTTP 403"},
		{name: "update rejected", fake: &fakeSite{postStatus: http.StatusUnauthorized}, message: "Failed to update page: HTTP 401"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(tt.fake.handler(t))
			defer srv.Close()

			resp := newClient().AddLink(context.Background(), newSite(srv.URL), "a", "https://x.example/", 0)
			assert.False(t, resp.Success)
			assert.False(t, resp.LinkAdded)
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

func TestAddLink_ConnectionError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	resp := newClient().AddLink(context.Background(), newSite(addr), "a", "https://x.example/", 0)
	assert.False(t, resp.Success)
	assert.Equal(t, "Connection error", resp.Message)
}

func TestAddLink_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	client := wordpress.NewClient(wordpress.Config{Timeout: 50 * time.Millisecond}, infralogger.NewNop())
	resp := client.AddLink(context.Background(), newSite(srv.URL), "a", "https://x.example/", 0)
	assert.False(t, resp.Success)
	assert.Equal(t, "Request timeout", resp.Message)
}

func TestTestConnection(t *testing.T) {
	t.Parallel()

	ok := &fakeSite{title: "Partners"}
	srv := httptest.NewServer(ok.handler(t))
	defer srv.Close()

	res := newClient().TestConnection(context.Background(), newSite(srv.URL))
	assert.True(t, res.Success)
	assert.Equal(t, "Connection successful", res.Message)
	assert.Equal(t, "Partners", res.PageTitle)

	denied := &fakeSite{getStatus: http.StatusUnauthorized}
	srv2 := httptest.NewServer(denied.handler(t))
	defer srv2.Close()

	res = newClient().TestConnection(context.Background(), newSite(srv2.URL))
	assert.False(t, res.Success)
	assert.Equal(t, "HTTP 401", res.Message)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestTestConnection_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	client := wordpress.NewClient(wordpress.Config{Timeout: 50 * time.Millisecond}, infralogger.NewNop())
	res := client.TestConnection(context.Background(), newSite(srv.URL))
	assert.False(t, res.Success)
	assert.Equal(t, "Connection timeout", res.Message)
	assert.Equal(t, http.StatusRequestTimeout, res.StatusCode)
}

func TestExistingLinks(t *testing.T) {
	t.Parallel()

	fake := &fakeSite{content: `<p>x</p><a href=" https://a.example/ ">A </a><span><a href="https://b.example/">B</a></span><a name="x">no</a>`}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	links, err := newClient().ExistingLinks(context.Background(), newSite(srv.URL), 0)
	require.NoError(t, err)
	assert.Equal(t, []models.ExistingLink{
		{Href: "https://a.example/", Text: "A"},
		{Href: "https://b.example/", Text: "B"},
	}, links)
}

func TestContainsLink(t *testing.T) {
	t.Parallel()

	assert.True(t, wordpress.ContainsLink(`href="https://a.example/?x=1&amp;y=2"`, "https://a.example/?x=1&y=2"))
	assert.True(t, wordpress.ContainsLink("see https://a.example/", "https://a.example/"))
	assert.False(t, wordpress.ContainsLink("nothing here", "https://a.example/"))
}

func TestPosts(t *testing.T) {
	t.Parallel()

	var created map[string]any
	var deletedQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /wp-json/wp/v2/posts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`[{"id":7,"slug":"hello","status":"publish","title":{"raw":"Hello","rendered":"Hello"},"content":{"raw":"Body"},"tags":[3]}]`))
	})
	mux.HandleFunc("POST /wp-json/wp/v2/posts", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":8,"slug":"new-post","status":"draft","title":{"raw":"New Post"}}`))
	})
	mux.HandleFunc("POST /wp-json/wp/v2/posts/8", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":8,"status":"publish","title":{"raw":"New Post"}}`))
	})
	mux.HandleFunc("DELETE /wp-json/wp/v2/posts/8", func(w http.ResponseWriter, r *http.Request) {
		deletedQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"deleted":true}`))
	})
	mux.HandleFunc("DELETE /wp-json/wp/v2/posts/9", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"rest_post_invalid_id","message":"Invalid post ID."}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	site := newSite(srv.URL)
	client := newClient()

	posts, err := client.ListPosts(ctx, site, wordpress.ListPostsOptions{PerPage: 5})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	blog := posts[0].BlogPost(site)
	assert.Equal(t, "Hello", blog.Title)
	assert.Equal(t, "Body", blog.Content)
	assert.Equal(t, []int{3}, blog.Tags)
	assert.Equal(t, srv.URL, blog.WebsiteURL)

	title, status := "New Post", "draft"
	post, err := client.CreatePost(ctx, site, wordpress.PostInput{Title: &title, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, 8, post.ID)
	assert.Equal(t, "New Post", created["title"])
	assert.NotContains(t, created, "content")

	publish := "publish"
	post, err = client.UpdatePost(ctx, site, 8, wordpress.PostInput{Status: &publish})
	require.NoError(t, err)
	assert.Equal(t, "publish", post.Status)

	require.NoError(t, client.DeletePost(ctx, site, 8, true))
	assert.Equal(t, "force=true", deletedQuery)

	err = client.DeletePost(ctx, site, 9, false)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Invalid post ID."))
}

func TestGetPage_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := newClient().GetPage(context.Background(), newSite(srv.URL), 12)
	require.ErrorIs(t, err, wordpress.ErrPageNotFound)
}
