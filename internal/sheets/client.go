// Package sheets reads the project spreadsheet through the Google Sheets API.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Client fetches one worksheet range as string rows.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	readRange     string
}

// NewClient builds a read-only Sheets client. credentialsFile may be empty,
// in which case application default credentials are used.
func NewClient(ctx context.Context, credentialsFile, spreadsheetID, readRange string) (*Client, error) {
	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, readRange: readRange}, nil
}

// Fetch pulls the configured range. Every cell comes back as its display
// string; missing trailing cells stay absent, rows keep their ragged widths.
func (c *Client) Fetch(ctx context.Context) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.readRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("reading range %q: %w", c.readRange, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
