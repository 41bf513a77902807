// Package google contains the Google Cloud adapters: the Sheets tabular
// store holding the tracked SKU rows, the Secret Manager credential store and
// the Cloud Storage checkpoint mirror.
package google

import (
	"context"
	"fmt"

	"golang.org/x/text/unicode/norm"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/secondary"
)

// SheetsStore implements secondary.TabularStore against the Google Sheets
// API.
type SheetsStore struct {
	svc *sheets.Service
}

// NewSheetsStore creates a Sheets client authenticated with the service
// account key file. keyFile may be empty to use application default
// credentials.
func NewSheetsStore(ctx context.Context, keyFile string) (*SheetsStore, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if keyFile != "" {
		opts = append(opts, option.WithCredentialsFile(keyFile))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return &SheetsStore{svc: svc}, nil
}

// GetRange reads rows from a sheet range. Cells are NFC-normalized: SKU
// codes are user-typed and sometimes arrive in decomposed form that would
// never match the codes the order API returns.
func (s *SheetsStore) GetRange(ctx context.Context, sheetID, rng string) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(sheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", rng, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, norm.NFC.String(fmt.Sprint(cell)))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// UpdateRange overwrites a sheet range with the given rows using RAW input
// semantics.
func (s *SheetsStore) UpdateRange(ctx context.Context, sheetID, rng string, rows [][]string) error {
	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cells := make([]interface{}, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cell)
		}
		values = append(values, cells)
	}

	vr := &sheets.ValueRange{Values: values}
	_, err := s.svc.Spreadsheets.Values.Update(sheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update range %s: %w", rng, err)
	}
	return nil
}

// Ensure SheetsStore implements the interface.
var _ secondary.TabularStore = (*SheetsStore)(nil)
