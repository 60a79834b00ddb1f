// Package seo describes page metadata and schema.org payloads.
package seo

import "strings"

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
}

type Twitter struct {
	Card  string
	Site  string
	Image string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
	Twitter     Twitter
	JSONLD      []string
}

// Page fills Meta for a page at path, defaulting the social cards to the page title.
func Page(siteTitle, baseURL, pagePath, title, description string) Meta {
	full := siteTitle
	if title != "" {
		full = title + " | " + siteTitle
	}
	canonical := ""
	if base := strings.TrimRight(baseURL, "/"); base != "" {
		canonical = base + pagePath
	}
	return Meta{
		Title:       full,
		Description: description,
		Canonical:   canonical,
		OG:          OpenGraph{Title: full, Description: description, Type: "website", URL: canonical},
		Twitter:     Twitter{Card: "summary_large_image"},
	}
}
