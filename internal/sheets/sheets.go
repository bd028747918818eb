// Package sheets implements the Google Sheets append-only logging sink.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Worksheet is the tab rows are appended to.
const Worksheet = "conversations"

var spreadsheetURLRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// SpreadsheetID extracts the spreadsheet id from a full Sheets URL, or
// returns the input unchanged when it is already a bare id.
func SpreadsheetID(urlOrID string) string {
	if m := spreadsheetURLRe.FindStringSubmatch(urlOrID); m != nil {
		return m[1]
	}
	return urlOrID
}

// Sink appends rows to one worksheet of one spreadsheet.
type Sink struct {
	svc           *sheets.Service
	spreadsheetID string
}

// New authenticates with a service-account credentials file and opens the
// spreadsheet addressed by urlOrID.
func New(ctx context.Context, credsFile, urlOrID string) (*Sink, error) {
	if credsFile == "" {
		return nil, errors.New("credentials file not configured")
	}
	if urlOrID == "" {
		return nil, errors.New("spreadsheet location not configured")
	}

	data, err := os.ReadFile(credsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	conf, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Sink{
		svc:           svc,
		spreadsheetID: SpreadsheetID(urlOrID),
	}, nil
}

// AppendRow appends one row to the worksheet.
func (s *Sink) AppendRow(ctx context.Context, row []string) error {
	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}

	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, Worksheet, &sheets.ValueRange{
			Values: [][]interface{}{values},
		}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets append failed: %w", err)
	}
	return nil
}
