package sink

import (
	"context"
	"fmt"

	"devscan/internal/logger"
	"devscan/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// appendChunkSize bounds one append call to stay under API size limits.
const appendChunkSize = 200

// SheetsSink appends the table to a Google Sheet worksheet, skipping rows
// already stored under the same history key. The worksheet is created with
// a header row when missing, and reset when its header does not match.
type SheetsSink struct {
	svc           *sheets.Service
	log           *logger.Logger
	spreadsheetID string
	worksheet     string
}

// NewSheetsSink authenticates with service-account credentials JSON and
// targets one worksheet of the given spreadsheet.
func NewSheetsSink(ctx context.Context, credentialsJSON []byte, spreadsheetID, worksheet string, log *logger.Logger) (*SheetsSink, error) {
	jwt, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithTokenSource(jwt.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsSink{
		svc:           svc,
		log:           log.With("sink", "sheets", "spreadsheet", spreadsheetID),
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
	}, nil
}

// Write appends rows not yet present in the worksheet, in chunks. It returns
// the number of newly appended rows.
func (s *SheetsSink) Write(ctx context.Context, records []models.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	if err := s.ensureWorksheet(ctx); err != nil {
		return 0, err
	}

	existing, err := s.existingKeys(ctx)
	if err != nil {
		return 0, err
	}

	var newRows [][]interface{}

	for _, r := range records {
		if existing[HistoryKey(r.Date, r.Source, r.Title, r.Address)] {
			continue
		}

		newRows = append(newRows, []interface{}{
			r.Date, r.Source, r.Title, r.Address, r.Borough, r.DevelopersCell(), r.URL,
		})
	}

	appended := 0

	for start := 0; start < len(newRows); start += appendChunkSize {
		end := start + appendChunkSize
		if end > len(newRows) {
			end = len(newRows)
		}

		chunk := newRows[start:end]

		_, err := s.svc.Spreadsheets.Values.
			Append(s.spreadsheetID, s.worksheet, &sheets.ValueRange{Values: chunk}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return appended, fmt.Errorf("failed to append history rows: %w", err)
		}

		appended += len(chunk)
	}

	s.log.Debug("history appended", "rows", appended, "skipped", len(records)-appended)

	return appended, nil
}

// ensureWorksheet creates the worksheet with a header row when it does not
// exist yet.
func (s *SheetsSink) ensureWorksheet(ctx context.Context) error {
	sp, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to open spreadsheet: %w", err)
	}

	for _, sh := range sp.Sheets {
		if sh.Properties != nil && sh.Properties.Title == s.worksheet {
			return nil
		}
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: s.worksheet,
					GridProperties: &sheets.GridProperties{
						RowCount:    1000,
						ColumnCount: 20,
					},
				},
			},
		}},
	}

	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to create worksheet: %w", err)
	}

	return s.writeHeader(ctx)
}

// existingKeys loads the stored rows and builds the dedup key set. A header
// mismatch resets the worksheet to just the header.
func (s *SheetsSink) existingKeys(ctx context.Context) (map[string]bool, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.worksheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet: %w", err)
	}

	values := resp.Values

	if len(values) == 0 || !headerMatches(values[0]) {
		if _, err := s.svc.Spreadsheets.Values.
			Clear(s.spreadsheetID, s.worksheet, &sheets.ClearValuesRequest{}).
			Context(ctx).Do(); err != nil {
			return nil, fmt.Errorf("failed to reset worksheet: %w", err)
		}

		if err := s.writeHeader(ctx); err != nil {
			return nil, err
		}

		return map[string]bool{}, nil
	}

	keys := make(map[string]bool, len(values)-1)

	for _, row := range values[1:] {
		cells := padRow(row, len(models.Columns))
		keys[HistoryKey(cells[0], cells[1], cells[2], cells[3])] = true
	}

	return keys, nil
}

// writeHeader writes the column header into the first row.
func (s *SheetsSink) writeHeader(ctx context.Context) error {
	header := make([]interface{}, len(models.Columns))
	for i, c := range models.Columns {
		header[i] = c
	}

	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, s.worksheet+"!A1", &sheets.ValueRange{Values: [][]interface{}{header}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	return nil
}

// headerMatches reports whether the stored first row equals the column
// header.
func headerMatches(row []interface{}) bool {
	if len(row) != len(models.Columns) {
		return false
	}

	for i, cell := range row {
		s, ok := cell.(string)
		if !ok || s != models.Columns[i] {
			return false
		}
	}

	return true
}

// padRow widens a short row with empty cells and stringifies the rest.
func padRow(row []interface{}, width int) []string {
	cells := make([]string, width)

	for i := 0; i < width && i < len(row); i++ {
		if s, ok := row[i].(string); ok {
			cells[i] = s
		} else if row[i] != nil {
			cells[i] = fmt.Sprint(row[i])
		}
	}

	return cells
}
