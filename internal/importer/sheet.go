package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/drijfveer/linkmanager/internal/models"
)

// Column headers recognised in spreadsheets, matched case-insensitively in
// any order.
const (
	HeaderSourceURL   = "source_url"
	HeaderAnchorText  = "anchor_text"
	HeaderTargetURL   = "target_url"
	HeaderWebsiteURL  = "website_url"
	HeaderSiteName    = "site_name"
	HeaderPageID      = "page_id"
	HeaderUsername    = "username"
	HeaderAppPassword = "app_password"

	headerRowIndex = 1
)

// LinkSheetHeaders and WebsiteSheetHeaders are the template column orders.
var (
	LinkSheetHeaders    = []string{HeaderSourceURL, HeaderAnchorText, HeaderTargetURL}
	WebsiteSheetHeaders = []string{HeaderWebsiteURL, HeaderSiteName, HeaderPageID, HeaderUsername, HeaderAppPassword}
)

var ErrEmptySheet = errors.New("spreadsheet has no rows")

// MissingColumnError names a required header absent from the sheet.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

// ParseLinkSheet reads the first worksheet of an .xlsx bulk import and applies
// the same row rules as ParseLines. Line numbers are spreadsheet rows.
func ParseLinkSheet(r io.Reader, websites []models.Website) (*ParseResult, error) {
	rows, cols, err := readSheet(r, LinkSheetHeaders)
	if err != nil {
		return nil, err
	}

	parsed := make([]row, 0, len(rows))
	for i, cells := range rows {
		source, anchor, target := cell(cells, cols[HeaderSourceURL]), cell(cells, cols[HeaderAnchorText]), cell(cells, cols[HeaderTargetURL])
		if source == "" && anchor == "" && target == "" {
			continue
		}
		parsed = append(parsed, row{line: i + headerRowIndex + 1, source: source, anchor: anchor, target: target})
	}
	return parseRows(parsed, websites), nil
}

// ParseWebsiteSheet reads an .xlsx website registry. Invalid rows are
// reported and skipped; an unreadable sheet is an error.
func ParseWebsiteSheet(r io.Reader) ([]models.Website, []ImportError, error) {
	rows, cols, err := readSheet(r, WebsiteSheetHeaders)
	if err != nil {
		return nil, nil, err
	}

	var (
		sites   []models.Website
		rowErrs []ImportError
	)
	for i, cells := range rows {
		rowNum := i + headerRowIndex + 1
		if isBlank(cells) {
			continue
		}
		site, msg := websiteFromFields(
			cell(cells, cols[HeaderWebsiteURL]),
			cell(cells, cols[HeaderSiteName]),
			cell(cells, cols[HeaderPageID]),
			cell(cells, cols[HeaderUsername]),
			cell(cells, cols[HeaderAppPassword]),
		)
		if msg != "" {
			rowErrs = append(rowErrs, ImportError{Row: rowNum, Error: msg})
			continue
		}
		sites = append(sites, site)
	}
	return sites, rowErrs, nil
}

func websiteFromFields(websiteURL, siteName, pageID, username, appPassword string) (models.Website, string) {
	site := models.Website{
		WebsiteURL:  websiteURL,
		SiteName:    siteName,
		Username:    username,
		AppPassword: appPassword,
	}
	if pageID != "" {
		n, err := strconv.Atoi(strings.TrimSpace(pageID))
		if err != nil {
			return models.Website{}, "page_id must be a positive integer"
		}
		site.PageID = n
	}
	site = NormalizeWebsite(site)
	if msg := ValidateWebsite(site); msg != "" {
		return models.Website{}, msg
	}
	return site, ""
}

// readSheet returns the data rows of the first worksheet and the index of
// each required header.
func readSheet(r io.Reader, required []string) ([][]string, map[string]int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrEmptySheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, ErrEmptySheet
	}

	cols := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	for _, h := range required {
		if _, ok := cols[h]; !ok {
			return nil, nil, &MissingColumnError{Column: h}
		}
	}
	return rows[1:], cols, nil
}

// cell tolerates the short rows excelize returns when trailing cells are empty.
func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteLinkTemplate writes an .xlsx with the bulk-import headers followed by
// the given example rows.
func WriteLinkTemplate(w io.Writer, examples [][]string) error {
	return writeTemplate(w, "Links", LinkSheetHeaders, examples)
}

// WriteWebsiteTemplate writes an .xlsx with the registry headers.
func WriteWebsiteTemplate(w io.Writer, examples [][]string) error {
	return writeTemplate(w, "Websites", WebsiteSheetHeaders, examples)
}

func writeTemplate(w io.Writer, sheet string, headers []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for r, values := range append([][]string{headers}, rows...) {
		for c, v := range values {
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, ref, v); err != nil {
				return fmt.Errorf("write %s: %w", ref, err)
			}
		}
	}
	if err := f.SetColWidth(sheet, "A", "E", 32); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write spreadsheet: %w", err)
	}
	return nil
}
