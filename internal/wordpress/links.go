package wordpress

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/drijfveer/linkmanager/internal/models"
)

// ExtractLinks lists every <a href> in an HTML fragment in document order.
func ExtractLinks(content string) ([]models.ExistingLink, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse page content: %w", err)
	}

	links := []models.ExistingLink{}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		links = append(links, models.ExistingLink{
			Href: strings.TrimSpace(href),
			Text: strings.TrimSpace(s.Text()),
		})
	})
	return links, nil
}
