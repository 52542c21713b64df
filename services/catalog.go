package services

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"salesdesk/sheets"
)

// SearchProducts filters products whose code, description or category
// contain every word of query, ignoring case and accents. A non-empty
// category must match exactly (after normalization).
func SearchProducts(products []Product, query, category string) []Product {
	terms := strings.Fields(sheets.Normalize(query))
	cat := sheets.Normalize(category)

	var out []Product
	for _, p := range products {
		if cat != "" && sheets.Normalize(p.Category) != cat {
			continue
		}
		haystack := sheets.Normalize(p.Code + " " + p.Description + " " + p.Category)
		if containsAll(haystack, terms) {
			out = append(out, p)
		}
	}
	return out
}

// SearchDocuments filters documents by title, category and description.
func SearchDocuments(docs []Document, query, category string) []Document {
	terms := strings.Fields(sheets.Normalize(query))
	cat := sheets.Normalize(category)

	var out []Document
	for _, d := range docs {
		if cat != "" && sheets.Normalize(d.Category) != cat {
			continue
		}
		if containsAll(sheets.Normalize(d.Title+" "+d.Category+" "+d.Description), terms) {
			out = append(out, d)
		}
	}
	return out
}

func containsAll(haystack string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

// ProductCategories returns the distinct product categories, sorted.
func ProductCategories(products []Product) []string {
	cats := make([]string, 0, len(products))
	for _, p := range products {
		cats = append(cats, p.Category)
	}
	return distinctSorted(cats)
}

// DocumentCategories returns the distinct document categories, sorted.
func DocumentCategories(docs []Document) []string {
	cats := make([]string, 0, len(docs))
	for _, d := range docs {
		cats = append(cats, d.Category)
	}
	return distinctSorted(cats)
}

func distinctSorted(values []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := sheets.Normalize(v)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return sheets.Normalize(out[i]) < sheets.Normalize(out[j]) })
	return out
}

// FindProduct looks up a product by code, case-insensitively.
func FindProduct(products []Product, code string) (Product, bool) {
	key := sheets.Normalize(code)
	if key == "" {
		return Product{}, false
	}
	for _, p := range products {
		if sheets.Normalize(p.Code) == key {
			return p, true
		}
	}
	return Product{}, false
}

// FindClient looks up a client by RUT, ignoring formatting.
func FindClient(clients []Client, rut string) (Client, bool) {
	for _, c := range clients {
		if ClientRUTMatches(c.RUT, rut) {
			return c, true
		}
	}
	return Client{}, false
}

var driveFilePath = regexp.MustCompile(`/(?:file/)?d/([A-Za-z0-9_-]+)`)

// DriveFileID extracts the file ID from a Google Drive link. Supported:
// /file/d/<id>/view, /open?id=<id>, /uc?id=<id>. A bare ID is returned as is.
func DriveFileID(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		if !strings.ContainsAny(link, "/?=") {
			return link
		}
		return ""
	}
	if !strings.HasSuffix(u.Hostname(), "google.com") {
		return ""
	}
	if m := driveFilePath.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	return u.Query().Get("id")
}

// DrivePreviewURL converts a Drive share link into the embeddable preview
// URL. Links that are not Drive files are returned unchanged.
func DrivePreviewURL(link string) string {
	id := DriveFileID(link)
	if id == "" {
		return link
	}
	return "https://drive.google.com/file/d/" + id + "/preview"
}
