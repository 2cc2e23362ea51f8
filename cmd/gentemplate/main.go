// Command gentemplate writes the spreadsheet templates accepted by the bulk
// link import and the website import.
//
//	go run ./cmd/gentemplate -dir templates
//
// It produces bulk_links_template.xlsx and websites_template.xlsx, each with
// the header row and a few example rows.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/drijfveer/linkmanager/internal/importer"
)

var (
	linkExamples = [][]string{
		{"https://example.com/linkpartners/", "Example Anchor", "https://target.example/"},
		{"https://blog.example.org/?page_id=12", "Another Anchor", "https://target.example/page"},
	}
	websiteExamples = [][]string{
		{"https://example.com", "Example Site", "49", "admin", "xxxx xxxx xxxx xxxx"},
	}
)

func write(dir, name string, fn func(io.Writer) error) error {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func main() {
	dir := flag.String("dir", ".", "output directory for templates")
	flag.Parse()

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err := write(*dir, "bulk_links_template.xlsx", func(w io.Writer) error {
		return importer.WriteLinkTemplate(w, linkExamples)
	})
	if err == nil {
		err = write(*dir, "websites_template.xlsx", func(w io.Writer) error {
			return importer.WriteWebsiteTemplate(w, websiteExamples)
		})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
