// Package sheets reads tabular data from Google Sheets: the public CSV and
// XLSX export endpoints, the GViz JSON endpoint, and the authenticated
// Sheets API.
package sheets

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DocsBaseURL is the host serving export and GViz endpoints.
const DocsBaseURL = "https://docs.google.com"

var (
	ErrInvalidURL = errors.New("sheets: not a Google Sheets link")
	ErrEmptySheet = errors.New("sheets: sheet has no rows")
	ErrNoGViz     = errors.New("sheets: published sheets have no gviz endpoint")
)

var bareIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{20,}$`)

// Source identifies one tab of a spreadsheet.
type Source struct {
	ID    string
	GID   string // numeric tab id, "0" is the first tab
	Sheet string // tab title, used by gviz and the API when set

	// GID is left empty for links naming a tab by title only.

	// Published is set for "publish to web" links (/spreadsheets/d/e/...),
	// which only serve CSV.
	Published bool
}

// ParseURL extracts a Source from a Google Sheets link or a bare
// spreadsheet ID.
func ParseURL(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Source{}, ErrInvalidURL
	}
	if bareIDPattern.MatchString(raw) {
		return Source{ID: raw, GID: "0"}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Source{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Host != "docs.google.com" {
		return Source{}, ErrInvalidURL
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	// spreadsheets/d/<id>/... or spreadsheets/d/e/<pubid>/...
	if len(parts) < 3 || parts[0] != "spreadsheets" || parts[1] != "d" {
		return Source{}, ErrInvalidURL
	}

	src := Source{ID: parts[2]}
	if parts[2] == "e" {
		if len(parts) < 4 || parts[3] == "" {
			return Source{}, ErrInvalidURL
		}
		src.ID = parts[3]
		src.Published = true
	}
	if src.ID == "" {
		return Source{}, ErrInvalidURL
	}

	q := u.Query()
	src.GID = q.Get("gid")
	src.Sheet = q.Get("sheet")
	if src.GID == "" && u.Fragment != "" {
		if frag, err := url.ParseQuery(u.Fragment); err == nil {
			src.GID = frag.Get("gid")
		}
	}
	if src.GID == "" && src.Sheet == "" {
		src.GID = "0"
	}
	return src, nil
}

// NamedOnly reports whether the tab is identified by title alone. The CSV
// and XLSX exports only address tabs by gid, so such a source can only be
// read through gviz or the API.
func (s Source) NamedOnly() bool {
	return s.Sheet != "" && s.GID == "" && !s.Published
}

// CSVURL returns the CSV export link for the tab.
func (s Source) CSVURL() string { return s.csvURL(DocsBaseURL) }

// GVizURL returns the GViz JSON link for the tab, or "" for published sheets.
func (s Source) GVizURL() string { return s.gvizURL(DocsBaseURL) }

// XLSXURL returns the XLSX export link for the tab.
func (s Source) XLSXURL() string { return s.xlsxURL(DocsBaseURL) }

func (s Source) csvURL(base string) string {
	if s.Published {
		q := url.Values{}
		q.Set("gid", s.gid())
		q.Set("single", "true")
		q.Set("output", "csv")
		return fmt.Sprintf("%s/spreadsheets/d/e/%s/pub?%s", base, s.ID, q.Encode())
	}
	q := url.Values{}
	q.Set("format", "csv")
	q.Set("gid", s.gid())
	return fmt.Sprintf("%s/spreadsheets/d/%s/export?%s", base, s.ID, q.Encode())
}

func (s Source) gvizURL(base string) string {
	if s.Published {
		return ""
	}
	q := url.Values{}
	q.Set("tqx", "out:json")
	if s.Sheet != "" {
		q.Set("sheet", s.Sheet)
	} else {
		q.Set("gid", s.gid())
	}
	return fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?%s", base, s.ID, q.Encode())
}

func (s Source) xlsxURL(base string) string {
	if s.Published {
		q := url.Values{}
		q.Set("gid", s.gid())
		q.Set("single", "true")
		q.Set("output", "xlsx")
		return fmt.Sprintf("%s/spreadsheets/d/e/%s/pub?%s", base, s.ID, q.Encode())
	}
	q := url.Values{}
	q.Set("format", "xlsx")
	q.Set("gid", s.gid())
	return fmt.Sprintf("%s/spreadsheets/d/%s/export?%s", base, s.ID, q.Encode())
}

func (s Source) gid() string {
	if s.GID == "" {
		return "0"
	}
	return s.GID
}

func (s Source) String() string {
	if s.Sheet != "" {
		return s.ID + "/" + s.Sheet
	}
	return s.ID + "#gid=" + s.gid()
}
