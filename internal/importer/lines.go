// Package importer turns operator input (pasted line blocks, spreadsheets and
// registry files) into link and website records.
package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/drijfveer/linkmanager/internal/models"
	"github.com/drijfveer/linkmanager/internal/urlmatch"
)

// ErrLineCountMismatch rejects a bulk parse whose three inputs differ in length.
var ErrLineCountMismatch = errors.New("line counts do not match")

// LineCountMismatchError carries the three counts. It matches
// ErrLineCountMismatch under errors.Is.
type LineCountMismatchError struct {
	Sources int
	Anchors int
	Targets int
}

func (e *LineCountMismatchError) Error() string {
	return fmt.Sprintf("line counts do not match: %d source URLs, %d anchor texts, %d target URLs",
		e.Sources, e.Anchors, e.Targets)
}

func (e *LineCountMismatchError) Unwrap() error { return ErrLineCountMismatch }

// Reasons a row is skipped.
const (
	ReasonInvalidSource = "invalid source URL"
	ReasonInvalidTarget = "invalid target URL"
	ReasonEmptyAnchor   = "anchor text is empty"
	ReasonNoWebsite     = "no registered website matches source URL"
)

// InvalidRow is a skipped input row.
type InvalidRow struct {
	Line      int    `json:"line"`
	SourceURL string `json:"source_url"`
	Reason    string `json:"reason"`
}

// ParseResult holds the accepted rows in input order and the skipped ones.
type ParseResult struct {
	Links        []models.ParsedLink `json:"links"`
	Invalid      []InvalidRow        `json:"invalid"`
	ValidCount   int                 `json:"valid_count"`
	InvalidCount int                 `json:"invalid_count"`
}

type row struct {
	line                   int
	source, anchor, target string
}

// ParseLines zips three newline separated blocks into links. Lines are
// trimmed and trailing blank lines ignored; a blank line in the middle of a
// block is kept as an empty value. When the blocks differ in length the whole
// parse is rejected with a *LineCountMismatchError and no rows.
func ParseLines(sources, anchors, targets string, websites []models.Website) (*ParseResult, error) {
	s, a, t := splitLines(sources), splitLines(anchors), splitLines(targets)
	if len(s) != len(a) || len(a) != len(t) {
		return nil, &LineCountMismatchError{Sources: len(s), Anchors: len(a), Targets: len(t)}
	}

	rows := make([]row, len(s))
	for i := range s {
		rows[i] = row{line: i + 1, source: s[i], anchor: a[i], target: t[i]}
	}
	return parseRows(rows, websites), nil
}

func splitLines(block string) []string {
	lines := strings.Split(strings.ReplaceAll(block, "\r\n", "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	end := len(lines)
	for end > 0 && lines[end-1] == "" {
		end--
	}
	return lines[:end]
}

func parseRows(rows []row, websites []models.Website) *ParseResult {
	res := &ParseResult{Links: []models.ParsedLink{}, Invalid: []InvalidRow{}}

	for _, r := range rows {
		link, reason := parseRow(r, websites)
		if reason != "" {
			res.Invalid = append(res.Invalid, InvalidRow{Line: r.line, SourceURL: r.source, Reason: reason})
			continue
		}
		res.Links = append(res.Links, link)
	}

	res.ValidCount = len(res.Links)
	res.InvalidCount = len(res.Invalid)
	return res
}

func parseRow(r row, websites []models.Website) (models.ParsedLink, string) {
	if !urlmatch.IsValidURL(r.source) {
		return models.ParsedLink{}, ReasonInvalidSource
	}
	if !urlmatch.IsValidURL(r.target) {
		return models.ParsedLink{}, ReasonInvalidTarget
	}
	if r.anchor == "" {
		return models.ParsedLink{}, ReasonEmptyAnchor
	}
	site, ok := urlmatch.Match(r.source, websites)
	if !ok {
		return models.ParsedLink{}, ReasonNoWebsite
	}

	root, _ := urlmatch.RootURL(r.source)
	return models.ParsedLink{
		Line:              r.line,
		SourceURL:         root,
		OriginalSourceURL: r.source,
		AnchorText:        r.anchor,
		TargetURL:         r.target,
		WebsiteURL:        site.WebsiteURL,
		SiteName:          site.SiteName,
		PageID:            urlmatch.ResolvePageID(r.source, site),
	}, ""
}
