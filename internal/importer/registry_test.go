package importer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drijfveer/linkmanager/internal/importer"
	"github.com/drijfveer/linkmanager/internal/models"
)

func TestDecodeWebsitesJSON(t *testing.T) {
	t.Parallel()

	sites, err := importer.DecodeWebsitesJSON([]byte(`[
		{"website_url":"https://alpha.nl/","site_name":"Alpha","page_id":12,"username":"u","app_password":"p"}
	]`))
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "https://alpha.nl", sites[0].WebsiteURL)

	_, err = importer.DecodeWebsitesJSON([]byte(`[{"website_url":"https://alpha.nl"}]`))
	require.ErrorContains(t, err, "site_name is required")

	_, err = importer.DecodeWebsitesJSON([]byte(`{`))
	require.Error(t, err)
}

func TestWebsitesCSV_RoundTrip(t *testing.T) {
	t.Parallel()

	in := []models.Website{
		{WebsiteURL: "https://alpha.nl", SiteName: "Alpha, the site", PageID: 12, Username: "u1", AppPassword: "a b c"},
		{WebsiteURL: "https://beta.com", SiteName: "Beta", PageID: 49, Username: "u2", AppPassword: "p"},
	}

	var buf bytes.Buffer
	require.NoError(t, importer.EncodeWebsitesCSV(&buf, in))

	out, rowErrs, err := importer.DecodeWebsitesCSV(&buf)
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	assert.Equal(t, in, out)
}

func TestDecodeWebsitesCSV_RowErrorsAndColumns(t *testing.T) {
	t.Parallel()

	csv := "site_name,website_url,page_id,username,app_password\n" +
		"Alpha,https://alpha.nl,12,u,p\n" +
		"\n" +
		"Beta,https://beta.com,0,u,p\n"

	sites, rowErrs, err := importer.DecodeWebsitesCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "Alpha", sites[0].SiteName)
	require.Len(t, rowErrs, 1)
	assert.Equal(t, "page_id must be a positive integer", rowErrs[0].Error)

	_, _, err = importer.DecodeWebsitesCSV(strings.NewReader("website_url,site_name\n"))
	var missing *importer.MissingColumnError
	require.ErrorAs(t, err, &missing)

	sites, _, err = importer.DecodeWebsitesCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, sites)
}

func TestValidateWebsite(t *testing.T) {
	t.Parallel()

	valid := models.Website{WebsiteURL: "https://a.nl", SiteName: "A", PageID: 1, Username: "u", AppPassword: "p"}
	assert.Empty(t, importer.ValidateWebsite(valid))

	tests := map[string]func(w *models.Website){
		"website_url is required":                         func(w *models.Website) { w.WebsiteURL = " " },
		"website_url must start with http:// or https://": func(w *models.Website) { w.WebsiteURL = "ftp://a.nl" },
		"site_name is required":                           func(w *models.Website) { w.SiteName = "" },
		"page_id must be a positive integer":              func(w *models.Website) { w.PageID = -1 },
		"username is required":                            func(w *models.Website) { w.Username = "" },
		"app_password is required":                        func(w *models.Website) { w.AppPassword = "" },
	}
	for want, mutate := range tests {
		w := valid
		mutate(&w)
		assert.Equal(t, want, importer.ValidateWebsite(w))
	}
}
