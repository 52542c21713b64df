package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// APIClient reads sheets through the Sheets API v4 with a service account.
// Private sheets shared with the service account's email work too.
type APIClient struct {
	svc *sheetsapi.Service
}

// NewAPIClient creates an APIClient from a service account JSON file.
func NewAPIClient(ctx context.Context, credentialsFile string) (*APIClient, error) {
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &APIClient{svc: svc}, nil
}

func (c *APIClient) Fetch(ctx context.Context, src Source) (*Table, error) {
	if src.Published {
		return nil, fmt.Errorf("sheets api: published link %s has no spreadsheet id", src)
	}

	title := src.Sheet
	if title == "" {
		var err error
		title, err = c.sheetTitle(ctx, src)
		if err != nil {
			return nil, err
		}
	}

	resp, err := c.svc.Spreadsheets.Values.Get(src.ID, quoteSheetName(title)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets api: read %s: %w", src, err)
	}
	return newTable(valuesToRows(resp.Values))
}

// sheetTitle resolves the tab title for src.GID.
func (c *APIClient) sheetTitle(ctx context.Context, src Source) (string, error) {
	gid, err := strconv.ParseInt(src.gid(), 10, 64)
	if err != nil {
		return "", fmt.Errorf("sheets api: invalid gid %q: %w", src.GID, err)
	}

	ss, err := c.svc.Spreadsheets.Get(src.ID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("sheets api: get spreadsheet %s: %w", src.ID, err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.SheetId == gid {
			return sh.Properties.Title, nil
		}
	}
	return "", fmt.Errorf("sheets api: no tab with gid %d in %s", gid, src.ID)
}

func valuesToRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, vr := range values {
		row := make([]string, len(vr))
		for j, v := range vr {
			row[j] = ToText(v)
		}
		rows[i] = row
	}
	return rows
}

func quoteSheetName(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
