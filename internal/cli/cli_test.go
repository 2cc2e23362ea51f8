package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drijfveer/linkmanager/internal/cli"
	"github.com/drijfveer/linkmanager/internal/models"
)

type fakeAPI struct {
	mu       sync.Mutex
	sites    []models.PublicWebsite
	created  []models.WebsiteRequest
	links    []models.LinkRequest
	linkFail bool
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"healthy","websites_loaded":1}`))
	})
	mux.HandleFunc("GET /config-info", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(models.ConfigInfoResponse{ConfigSource: "csv", TotalWebsites: 1})
	})
	mux.HandleFunc("GET /websites", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(models.WebsiteListResponse{Websites: f.sites, Total: len(f.sites)})
	})
	mux.HandleFunc("POST /websites", func(w http.ResponseWriter, r *http.Request) {
		var req models.WebsiteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.mu.Lock()
		defer f.mu.Unlock()
		f.created = append(f.created, req)
		f.sites = append(f.sites, models.PublicWebsite{WebsiteURL: req.WebsiteURL, SiteName: req.SiteName, PageID: req.PageID})
		_ = json.NewEncoder(w).Encode(models.WebsiteResponse{Success: true, Message: "Website " + req.SiteName + " added successfully"})
	})
	mux.HandleFunc("POST /websites/metadata", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_ = json.NewEncoder(w).Encode(models.SiteMetadata{WebsiteURL: body["website_url"], SiteName: "Example Blog"})
	})
	mux.HandleFunc("POST /add-link", func(w http.ResponseWriter, r *http.Request) {
		var req models.LinkRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.mu.Lock()
		defer f.mu.Unlock()
		f.links = append(f.links, req)
		if f.linkFail {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"Failed to fetch page: HTTP 401"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(models.LinkResponse{
			Success: true, Message: "Link successfully added", WebsiteURL: req.WebsiteURL, LinkAdded: true,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := cli.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--api-url", srv.URL, "--delay", "0s"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func exampleSite() models.PublicWebsite {
	return models.PublicWebsite{WebsiteURL: "https://example.com", SiteName: "Example", PageID: 12}
}

func TestWebsitesList(t *testing.T) {
	api := &fakeAPI{sites: []models.PublicWebsite{exampleSite()}}
	out, err := run(t, api.server(t), "websites", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "https://example.com")
	assert.Contains(t, out, "Example")
}

func TestWebsitesList_Empty(t *testing.T) {
	api := &fakeAPI{}
	out, err := run(t, api.server(t), "websites", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No websites configured")
}

func TestWebsitesAdd_SuggestsName(t *testing.T) {
	api := &fakeAPI{}
	out, err := run(t, api.server(t), "websites", "add",
		"--url", "example.com", "--username", "admin", "--app-password", "abcd efgh")
	require.NoError(t, err)

	require.Len(t, api.created, 1)
	assert.Equal(t, "https://example.com", api.created[0].WebsiteURL)
	assert.Equal(t, "Example Blog", api.created[0].SiteName)
	assert.Equal(t, models.DefaultPageID, api.created[0].PageID)
	assert.Contains(t, out, `Using site name "Example Blog"`)
	assert.Contains(t, out, "Website Example Blog added successfully")
}

func TestWebsitesImport_CSV(t *testing.T) {
	api := &fakeAPI{}
	path := writeFile(t, "sites.csv", "website_url,site_name,page_id,username,app_password\n"+
		"https://one.example,One,10,admin,pw1\n"+
		"https://two.example,,11,admin,pw2\n"+
		"https://three.example,Three,12,admin,pw3\n")

	out, err := run(t, api.server(t), "websites", "import", path)
	require.NoError(t, err)

	require.Len(t, api.created, 2)
	assert.Equal(t, "https://one.example", api.created[0].WebsiteURL)
	assert.Equal(t, "https://three.example", api.created[1].WebsiteURL)
	assert.Contains(t, out, "Imported 2 websites, 0 failed, 1 rows rejected")
}

func TestWebsitesImport_UnsupportedFile(t *testing.T) {
	api := &fakeAPI{}
	path := writeFile(t, "sites.txt", "nope")
	_, err := run(t, api.server(t), "websites", "import", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func bulkFiles(t *testing.T, sources, anchors, targets string) []string {
	t.Helper()
	return []string{
		"--sources", writeFile(t, "sources.txt", sources),
		"--anchors", writeFile(t, "anchors.txt", anchors),
		"--targets", writeFile(t, "targets.txt", targets),
	}
}

func TestBulkRun_SubmitsMatchedRowsInOrder(t *testing.T) {
	api := &fakeAPI{sites: []models.PublicWebsite{exampleSite()}}
	args := append([]string{"bulk", "run"}, bulkFiles(t,
		"https://example.com/links/\nhttps://unknown.org/\nhttps://www.example.com/page/77\n",
		"First\nSecond\nThird\n",
		"https://target.test/a\nhttps://target.test/b\nhttps://target.test/c\n",
	)...)

	out, err := run(t, api.server(t), args...)
	require.NoError(t, err)

	require.Len(t, api.links, 2)
	assert.Equal(t, "https://example.com", api.links[0].WebsiteURL)
	assert.Equal(t, "First", api.links[0].AnchorText)
	assert.Equal(t, "https://target.test/c", api.links[1].LinkURL)
	require.NotNil(t, api.links[1].PageID)
	assert.Equal(t, 77, *api.links[1].PageID)

	assert.Contains(t, out, "2 valid, 1 invalid")
	assert.Contains(t, out, "[1/2] OK https://example.com")
	assert.Contains(t, out, "Completed: 2 succeeded, 0 failed")
}

func TestBulkRun_ReportsFailures(t *testing.T) {
	api := &fakeAPI{sites: []models.PublicWebsite{exampleSite()}, linkFail: true}
	args := append([]string{"bulk", "run"}, bulkFiles(t,
		"https://example.com/\n", "Anchor\n", "https://target.test/\n",
	)...)

	out, err := run(t, api.server(t), args...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 rows failed")
	assert.Contains(t, out, "Completed: 0 succeeded, 1 failed")
	assert.Contains(t, out, "failed: https://example.com")
}

func TestBulkParse_RejectsMismatch(t *testing.T) {
	api := &fakeAPI{sites: []models.PublicWebsite{exampleSite()}}
	args := append([]string{"bulk", "parse"}, bulkFiles(t,
		"https://example.com/\nhttps://example.com/2\n", "Only one\n", "https://target.test/\nhttps://target.test/2\n",
	)...)

	_, err := run(t, api.server(t), args...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line counts do not match: 2 source URLs, 1 anchor texts, 2 target URLs")
	assert.Empty(t, api.links)
}

func TestBulkParse_RequiresInput(t *testing.T) {
	api := &fakeAPI{}
	_, err := run(t, api.server(t), "bulk", "parse")
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	api := &fakeAPI{}
	out, err := run(t, api.server(t), "health")
	require.NoError(t, err)
	assert.Contains(t, out, "healthy")
	assert.Contains(t, out, "websites_loaded")
	assert.Contains(t, out, "csv")
}

func TestBlogsDelete_InvalidID(t *testing.T) {
	api := &fakeAPI{}
	_, err := run(t, api.server(t), "blogs", "delete", "abc", "--website-url", "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid post id "abc"`)
}
