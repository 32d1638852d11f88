package views

import (
	"encoding/json"
	"html/template"
	"net/url"
	"path"
	"strings"
)

// BuildURL joins path segments onto a base URL, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// Paragraphs splits free text on blank lines, dropping empty paragraphs.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SafeImage admits embedded image data URLs and http(s) links as image
// sources. Anything else yields "" so templates skip the picture.
func SafeImage(src string) template.URL {
	switch {
	case strings.HasPrefix(src, "data:image/"):
		return template.URL(src)
	case strings.HasPrefix(src, "https://"), strings.HasPrefix(src, "http://"):
		return template.URL(src)
	}
	return ""
}

// TabClass returns CSS classes for a dashboard tab button, with active variant.
func TabClass(active bool) string {
	base := "tab-button"
	if active {
		base += " active"
	}
	return base
}

// OrganizationJsonLD produces a Schema.org EducationalOrganization block.
func OrganizationJsonLD(cfg SiteConfig) template.JS {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "EducationalOrganization",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return template.JS(b)
}
