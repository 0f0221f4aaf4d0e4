package web

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxTextChars caps the extracted article text.
const maxTextChars = 20000

// excerptChars is the length of the short excerpt kept alongside the text.
const excerptChars = 500

// OpenGraph holds the og:* metadata found on a page.
type OpenGraph struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Meta bundles the structured metadata extracted from a page.
type Meta struct {
	OG     OpenGraph         `json:"og"`
	JSONLD []json.RawMessage `json:"json_ld"`
}

// Page is the normalized extraction of a fetched URL.
type Page struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Text    string `json:"text"`
	Excerpt string `json:"excerpt"`
	Meta    Meta   `json:"meta"`
}

// ExtractPage parses HTML and pulls out the title, paragraph text,
// OpenGraph tags, and raw JSON-LD blocks.
func ExtractPage(rawURL string, body io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse html for %s: %w", rawURL, err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	text := strings.Join(paragraphs, "\n\n")
	if len(text) > maxTextChars {
		text = text[:maxTextChars]
	}

	excerpt := text
	if len(excerpt) > excerptChars {
		excerpt = excerpt[:excerptChars]
	}

	page := &Page{
		URL:     rawURL,
		Title:   title,
		Text:    text,
		Excerpt: excerpt,
		Meta: Meta{
			OG:     extractOpenGraph(doc),
			JSONLD: extractJSONLD(doc),
		},
	}
	if page.Meta.JSONLD == nil {
		page.Meta.JSONLD = []json.RawMessage{}
	}
	return page, nil
}

func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if content, ok := doc.Find(sel).First().Attr("content"); ok && content != "" {
			return content
		}
	}
	return ""
}

func extractOpenGraph(doc *goquery.Document) OpenGraph {
	og := OpenGraph{
		Title:       metaContent(doc, `meta[property="og:title"]`, `meta[name="og:title"]`),
		Description: metaContent(doc, `meta[property="og:description"]`, `meta[name="og:description"]`),
		Image:       metaContent(doc, `meta[property="og:image"]`, `meta[name="og:image"]`),
	}
	if og.Image == "" {
		og.Image = metaContent(doc, `meta[name="twitter:image"]`)
	}
	return og
}

// extractJSONLD collects every parseable JSON-LD block, flattening top-level
// arrays. Broken blocks are skipped.
func extractJSONLD(doc *goquery.Document) []json.RawMessage {
	var blocks []json.RawMessage
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}
		var asList []json.RawMessage
		if err := json.Unmarshal([]byte(raw), &asList); err == nil {
			blocks = append(blocks, asList...)
			return
		}
		var asObject json.RawMessage
		if err := json.Unmarshal([]byte(raw), &asObject); err == nil {
			blocks = append(blocks, asObject)
		}
	})
	return blocks
}
