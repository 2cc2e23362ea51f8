package importer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/drijfveer/linkmanager/internal/importer"
)

func buildSheet(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for r, values := range rows {
		for c, v := range values {
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", ref, v))
		}
	}

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

func TestParseLinkSheet(t *testing.T) {
	t.Parallel()

	buf := buildSheet(t, [][]string{
		{"Target_URL", "anchor_text", "source_url"},
		{"https://t.io/1", "first", "https://alpha.nl/page/9"},
		{"", "", ""},
		{"https://t.io/3", "third", "https://nowhere.dev"},
	})

	res, err := importer.ParseLinkSheet(buf, websites)
	require.NoError(t, err)

	require.Len(t, res.Links, 1)
	assert.Equal(t, 2, res.Links[0].Line)
	assert.Equal(t, "9", res.Links[0].PageID)
	assert.Equal(t, "first", res.Links[0].AnchorText)

	require.Len(t, res.Invalid, 1)
	assert.Equal(t, 4, res.Invalid[0].Line)
}

func TestParseLinkSheet_MissingColumn(t *testing.T) {
	t.Parallel()

	buf := buildSheet(t, [][]string{{"source_url", "anchor_text"}})

	_, err := importer.ParseLinkSheet(buf, websites)
	var missing *importer.MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, importer.HeaderTargetURL, missing.Column)
}

func TestParseLinkSheet_NotASpreadsheet(t *testing.T) {
	t.Parallel()

	_, err := importer.ParseLinkSheet(strings.NewReader("plain text"), websites)
	require.Error(t, err)
}

func TestParseWebsiteSheet(t *testing.T) {
	t.Parallel()

	buf := buildSheet(t, [][]string{
		importer.WebsiteSheetHeaders,
		{"https://alpha.nl/", " Alpha ", "12", "admin", "abcd efgh"},
		{"alpha.nl", "Alpha", "12", "admin", "pw"},
		{"https://beta.com", "Beta", "twelve", "admin", "pw"},
		{"https://gamma.org", "Gamma", "3", "admin"},
	})

	sites, rowErrs, err := importer.ParseWebsiteSheet(buf)
	require.NoError(t, err)

	require.Len(t, sites, 1)
	assert.Equal(t, "https://alpha.nl", sites[0].WebsiteURL)
	assert.Equal(t, "Alpha", sites[0].SiteName)
	assert.Equal(t, 12, sites[0].PageID)

	assert.Equal(t, []importer.ImportError{
		{Row: 3, Error: "website_url must start with http:// or https://"},
		{Row: 4, Error: "page_id must be a positive integer"},
		{Row: 5, Error: "app_password is required"},
	}, rowErrs)
}

func TestWriteLinkTemplate_RoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, importer.WriteLinkTemplate(&buf, [][]string{
		{"https://alpha.nl/artikel", "Alpha", "https://t.io"},
	}))

	res, err := importer.ParseLinkSheet(&buf, websites)
	require.NoError(t, err)
	require.Len(t, res.Links, 1)
	assert.Equal(t, "https://www.alpha.nl", res.Links[0].WebsiteURL)
}
