package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractFile reads a brand-guideline file and returns its plain text.
// HTML files are reduced to their main content; anything else is treated as
// plain text. Whitespace is normalised either way.
func ExtractFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open guideline file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return ExtractHTML(f)
	default:
		data, err := io.ReadAll(f)
		if err != nil {
			return "", fmt.Errorf("read guideline file: %w", err)
		}
		return cleanText(string(data)), nil
	}
}

// ExtractHTML extracts the main textual content from an HTML document,
// preferring dedicated content containers before falling back to body text.
func ExtractHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	selectors := []string{
		"main",
		"article",
		".content",
		"#content",
		".guidelines",
		"#guidelines",
	}

	var content string
	for _, selector := range selectors {
		if selected := doc.Find(selector); selected.Length() > 0 {
			content = selected.Text()
			break
		}
	}

	if content == "" {
		content = doc.Find("body").Text()
	}

	return cleanText(content), nil
}

func cleanText(text string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(text), " "))
}
