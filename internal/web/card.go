package web

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/example/commerce-agent/internal/card"
)

// productSchema is the subset of a schema.org Product block we read.
// Fields that sites encode inconsistently (brand, image, offers) stay raw
// and are normalized below.
type productSchema struct {
	Type   json.RawMessage `json:"@type"`
	Brand  json.RawMessage `json:"brand"`
	Image  json.RawMessage `json:"image"`
	Offers json.RawMessage `json:"offers"`
}

type offerSchema struct {
	Price         json.RawMessage `json:"price"`
	PriceCurrency string          `json:"priceCurrency"`
	Currency      string          `json:"currency"`
	Availability  string          `json:"availability"`
}

// ToProductCard converts an extracted page into a ProductCard. JSON-LD
// Product data wins over OpenGraph, which wins over the page title and text.
func ToProductCard(page *Page) card.ProductCard {
	if page == nil {
		return card.ProductCard{}
	}

	title := page.Title
	if title == "" {
		title = "Product"
	}
	description := page.Excerpt
	if description == "" {
		description = page.Text
	}

	c := card.ProductCard{
		ID:         webID(page.URL),
		Title:      title,
		PriceCents: 0,
		Currency:   "USD",
		Badges:     []string{"web-sourced"},
		Source:     card.SourceWeb,
		URL:        page.URL,
	}

	var image, brand string
	if schema := findProductSchema(page.Meta.JSONLD); schema != nil {
		brand = decodeBrand(schema.Brand)
		image = firstImage(schema.Image)
		if priceCents, currency, ok := decodeOffer(schema.Offers); ok {
			c.PriceCents = priceCents
			if currency != "" {
				c.Currency = currency
			}
		}
	}

	og := page.Meta.OG
	if og.Title != "" {
		c.Title = og.Title
	}
	if description == "" && og.Description != "" {
		description = og.Description
	}
	if image == "" {
		image = og.Image
	}

	if len(description) > 280 {
		description = strings.TrimSpace(description[:280])
	}
	c.Description = description
	c.Rationale = description
	c.Image = image
	if brand != "" {
		c.Badges = append([]string{brand}, c.Badges...)
	}
	if OutOfStock(page) {
		c.Badges = append(c.Badges, "out-of-stock")
	}
	return c
}

func webID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "web_" + hex.EncodeToString(sum[:])[:10]
}

// findProductSchema returns the first JSON-LD block whose @type mentions
// Product.
func findProductSchema(blocks []json.RawMessage) *productSchema {
	for _, block := range blocks {
		var schema productSchema
		if err := json.Unmarshal(block, &schema); err != nil {
			continue
		}
		if typeMentionsProduct(schema.Type) {
			return &schema
		}
	}
	return nil
}

func typeMentionsProduct(raw json.RawMessage) bool {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return strings.Contains(single, "Product")
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, t := range list {
			if strings.Contains(t, "Product") {
				return true
			}
		}
	}
	return false
}

// decodeBrand handles both `"brand": "Acme"` and `"brand": {"name": "Acme"}`.
func decodeBrand(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Name
	}
	return ""
}

// firstImage handles image as a string or a list of strings.
func firstImage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}

// decodeOffer reads the first offer's price into cents, tolerating string or
// numeric prices and offer lists.
func decodeOffer(raw json.RawMessage) (priceCents int, currency string, ok bool) {
	if len(raw) == 0 {
		return 0, "", false
	}
	var offer offerSchema
	if err := json.Unmarshal(raw, &offer); err != nil {
		var offers []offerSchema
		if err := json.Unmarshal(raw, &offers); err != nil || len(offers) == 0 {
			return 0, "", false
		}
		offer = offers[0]
	}

	price := 0.0
	if err := json.Unmarshal(offer.Price, &price); err != nil {
		var s string
		if err := json.Unmarshal(offer.Price, &s); err != nil {
			return 0, "", false
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, "", false
		}
		price = parsed
	}

	currency = offer.PriceCurrency
	if currency == "" {
		currency = offer.Currency
	}
	return int(price * 100), currency, true
}

// OutOfStock reports whether the page's Product offer declares the item
// unavailable.
func OutOfStock(page *Page) bool {
	if page == nil {
		return false
	}
	schema := findProductSchema(page.Meta.JSONLD)
	if schema == nil || len(schema.Offers) == 0 {
		return false
	}
	var offer offerSchema
	if err := json.Unmarshal(schema.Offers, &offer); err != nil {
		var offers []offerSchema
		if err := json.Unmarshal(schema.Offers, &offers); err != nil || len(offers) == 0 {
			return false
		}
		offer = offers[0]
	}
	return strings.Contains(offer.Availability, "OutOfStock")
}
