package sheets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type gvizResponse struct {
	Status string      `json:"status"`
	Errors []gvizError `json:"errors"`
	Table  gvizTable   `json:"table"`
}

type gvizError struct {
	Reason          string `json:"reason"`
	Message         string `json:"message"`
	DetailedMessage string `json:"detailed_message"`
}

type gvizTable struct {
	Cols []gvizCol `json:"cols"`
	Rows []gvizRow `json:"rows"`
}

type gvizCol struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

type gvizRow struct {
	C []*gvizCell `json:"c"`
}

type gvizCell struct {
	V any    `json:"v"`
	F string `json:"f"`
}

// ParseGViz decodes a GViz "out:json" response. The payload is wrapped in a
// JavaScript call, google.visualization.Query.setResponse({...});, which is
// stripped first.
func ParseGViz(body []byte) (*Table, error) {
	payload, err := unwrapGViz(body)
	if err != nil {
		return nil, err
	}

	var resp gvizResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode gviz response: %w", err)
	}
	if resp.Status == "error" {
		msg := "unknown error"
		if len(resp.Errors) > 0 {
			msg = resp.Errors[0].Message
			if d := resp.Errors[0].DetailedMessage; d != "" {
				msg += ": " + d
			}
		}
		return nil, fmt.Errorf("gviz query failed: %s", msg)
	}

	cols := resp.Table.Cols
	raw := make([][]string, 0, len(resp.Table.Rows)+1)

	// Labels are empty when the sheet's header row was not detected; the
	// first data row then holds the headers.
	labelled := false
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Label
		if strings.TrimSpace(c.Label) != "" {
			labelled = true
		}
	}
	if labelled {
		raw = append(raw, headers)
	}

	for _, r := range resp.Table.Rows {
		row := make([]string, len(cols))
		for i := range cols {
			if i >= len(r.C) || r.C[i] == nil {
				continue
			}
			row[i] = gvizCellText(cols[i].Type, r.C[i])
		}
		raw = append(raw, row)
	}
	return newTable(raw)
}

func unwrapGViz(body []byte) ([]byte, error) {
	if looksLikeHTML(body) {
		return nil, errHTMLPage
	}
	start := bytes.IndexByte(body, '{')
	end := bytes.LastIndexByte(body, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("gviz response has no JSON payload")
	}
	return body[start : end+1], nil
}

// gvizCellText prefers the formatted value for dates and text, and the raw
// value for numbers so locale formatting does not leak into the table.
func gvizCellText(colType string, c *gvizCell) string {
	switch colType {
	case "number":
		if c.V != nil {
			return ToText(c.V)
		}
	case "date", "datetime", "timeofday", "boolean":
		if c.F != "" {
			return c.F
		}
	}
	if c.V == nil {
		return c.F
	}
	return ToText(c.V)
}
