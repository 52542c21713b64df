package sheets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// maxBody caps a single export download.
const maxBody = 16 << 20

var errBodyTooLarge = fmt.Errorf("sheets: export larger than %d MiB", maxBody>>20)

// Fetcher loads one sheet tab as a Table.
type Fetcher interface {
	Fetch(ctx context.Context, src Source) (*Table, error)
}

// Format is a public export format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatGViz Format = "gviz"
	FormatXLSX Format = "xlsx"
)

// HTTPClient reads publicly shared sheets without credentials. It tries
// each format in order and returns the first table that parses.
type HTTPClient struct {
	Client  *http.Client
	BaseURL string
	Formats []Format
}

// NewHTTPClient returns a client that tries the CSV export first and
// falls back to GViz.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		Client:  &http.Client{Timeout: timeout},
		BaseURL: DocsBaseURL,
		Formats: []Format{FormatCSV, FormatGViz},
	}
}

func (c *HTTPClient) Fetch(ctx context.Context, src Source) (*Table, error) {
	formats := c.Formats
	if len(formats) == 0 {
		formats = []Format{FormatCSV, FormatGViz}
	}
	if src.NamedOnly() {
		formats = []Format{FormatGViz}
	}

	var errs []error
	for i, f := range formats {
		t, err := c.fetchFormat(ctx, src, f)
		if err == nil {
			return t, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		errs = append(errs, fmt.Errorf("%s: %w", f, err))
		if i < len(formats)-1 {
			log.Printf("sheets: %s read failed for %s, trying %s: %v", f, src, formats[i+1], err)
		}
	}
	return nil, fmt.Errorf("fetch sheet %s: %w", src, errors.Join(errs...))
}

func (c *HTTPClient) fetchFormat(ctx context.Context, src Source, f Format) (*Table, error) {
	base := c.BaseURL
	if base == "" {
		base = DocsBaseURL
	}

	var link string
	switch f {
	case FormatCSV:
		link = src.csvURL(base)
	case FormatGViz:
		link = src.gvizURL(base)
		if link == "" {
			return nil, ErrNoGViz
		}
	case FormatXLSX:
		link = src.xlsxURL(base)
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}

	body, err := c.get(ctx, link)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatCSV:
		return ParseCSV(bytes.NewReader(body))
	case FormatGViz:
		return ParseGViz(body)
	default:
		return ParseXLSX(bytes.NewReader(body), src.Sheet)
	}
}

func (c *HTTPClient) get(ctx context.Context, link string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		return nil, errHTMLPage
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBody {
		return nil, errBodyTooLarge
	}
	return body, nil
}

// Chain tries each fetcher in turn.
type Chain []Fetcher

func (ch Chain) Fetch(ctx context.Context, src Source) (*Table, error) {
	if len(ch) == 0 {
		return nil, errors.New("sheets: no fetcher configured")
	}
	var errs []error
	for _, f := range ch {
		t, err := f.Fetch(ctx, src)
		if err == nil {
			return t, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}
