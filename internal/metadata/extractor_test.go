package metadata_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/metadata"
)

func serve(t *testing.T, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExtract_NamePriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "og site name wins",
			html: `<html><head><meta property="og:site_name" content="Alpha Shop"><meta property="og:title" content="Home"><title>Alpha</title></head></html>`,
			want: "Alpha Shop",
		},
		{
			name: "og title",
			html: `<html><head><meta property="og:title" content=" Home "><title>Alpha</title></head></html>`,
			want: "Home",
		},
		{
			name: "title",
			html: `<html><head><title> Alpha Blog </title></head></html>`,
			want: "Alpha Blog",
		},
		{
			name: "host fallback",
			html: `<html><body>nothing</body></html>`,
			want: "127.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := serve(t, tt.html)

			meta, err := metadata.NewExtractor(infralogger.NewNop()).Extract(context.Background(), srv.URL+"/")
			require.NoError(t, err)
			assert.Equal(t, tt.want, meta.SiteName)
			assert.Equal(t, srv.URL, meta.WebsiteURL)
		})
	}
}

func TestExtract_Description(t *testing.T) {
	t.Parallel()

	srv := serve(t, `<html><head><meta name="description" content="Shoes and more"></head></html>`)
	meta, err := metadata.NewExtractor(infralogger.NewNop()).Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Shoes and more", meta.Description)
}

func TestExtract_Errors(t *testing.T) {
	t.Parallel()

	ext := metadata.NewExtractor(infralogger.NewNop())

	_, err := ext.Extract(context.Background(), "ftp://example.com")
	require.ErrorIs(t, err, metadata.ErrInvalidURL)

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	_, err = ext.Extract(context.Background(), srv.URL)
	require.Error(t, err)
}
