package importer

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/drijfveer/linkmanager/internal/models"
)

// DecodeWebsitesJSON parses the WEBSITES_CONFIG format: a JSON array of
// website objects. Entries failing validation are rejected as a whole.
func DecodeWebsitesJSON(data []byte) ([]models.Website, error) {
	var raw []models.Website
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode websites JSON: %w", err)
	}
	sites := make([]models.Website, 0, len(raw))
	for i, w := range raw {
		w = NormalizeWebsite(w)
		if msg := ValidateWebsite(w); msg != "" {
			return nil, fmt.Errorf("website %d: %s", i, msg)
		}
		sites = append(sites, w)
	}
	return sites, nil
}

// DecodeWebsitesCSV reads a registry CSV with a header row naming the
// WebsiteSheetHeaders columns. Bad rows are reported, not fatal.
func DecodeWebsitesCSV(r io.Reader) ([]models.Website, []ImportError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, h := range WebsiteSheetHeaders {
		if _, ok := cols[h]; !ok {
			return nil, nil, &MissingColumnError{Column: h}
		}
	}

	var (
		sites   []models.Website
		rowErrs []ImportError
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read CSV: %w", err)
		}
		rowNum, _ := cr.FieldPos(0)
		if isBlank(rec) {
			continue
		}
		site, msg := websiteFromFields(
			cell(rec, cols[HeaderWebsiteURL]),
			cell(rec, cols[HeaderSiteName]),
			cell(rec, cols[HeaderPageID]),
			cell(rec, cols[HeaderUsername]),
			cell(rec, cols[HeaderAppPassword]),
		)
		if msg != "" {
			rowErrs = append(rowErrs, ImportError{Row: rowNum, Error: msg})
			continue
		}
		sites = append(sites, site)
	}
	return sites, rowErrs, nil
}

// EncodeWebsitesCSV writes sites in the format DecodeWebsitesCSV reads.
func EncodeWebsitesCSV(w io.Writer, sites []models.Website) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(WebsiteSheetHeaders); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, s := range sites {
		rec := []string{s.WebsiteURL, s.SiteName, strconv.Itoa(s.PageID), s.Username, s.AppPassword}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write CSV row %s: %w", s.WebsiteURL, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
