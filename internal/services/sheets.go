// Google Sheets API implementation of [RowStore]
//
// Request and response shapes based on https://developers.google.com/sheets/api/reference/rest
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/desertthunder/ytsheet/internal/models"
	"github.com/desertthunder/ytsheet/internal/shared"
)

const defaultSheetsBaseURL = "https://sheets.googleapis.com"

// valueRange is the body of a spreadsheets.values.get response.
type valueRange struct {
	Range          string  `json:"range"`
	MajorDimension string  `json:"majorDimension"`
	Values         [][]any `json:"values"`
}

type dimensionRange struct {
	SheetID    int64  `json:"sheetId"`
	Dimension  string `json:"dimension"`
	StartIndex int    `json:"startIndex"`
	EndIndex   int    `json:"endIndex"`
}

type deleteDimensionRequest struct {
	Range dimensionRange `json:"range"`
}

type batchRequest struct {
	DeleteDimension *deleteDimensionRequest `json:"deleteDimension,omitempty"`
}

type batchUpdateRequest struct {
	Requests []batchRequest `json:"requests"`
}

type googleError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// SheetsService implements [RowStore] for a single sheet of a Google spreadsheet.
type SheetsService struct {
	baseURL       string
	spreadsheetID string
	sheetID       int64
	readRange     string
	headerRows    int
	httpClient    *http.Client
}

// NewSheetsService creates a Sheets row store. The client must already carry Google credentials (see [NewGoogleClient]).
func NewSheetsService(cfg shared.SheetConfig, client *http.Client) *SheetsService {
	if client == nil {
		client = http.DefaultClient
	}

	return &SheetsService{
		baseURL:       defaultSheetsBaseURL,
		spreadsheetID: cfg.SpreadsheetID,
		sheetID:       cfg.SheetID,
		readRange:     cfg.Range,
		headerRows:    cfg.HeaderRows,
		httpClient:    client,
	}
}

// WithBaseURL points the service at a different API host.
func (s *SheetsService) WithBaseURL(baseURL string) *SheetsService {
	s.baseURL = baseURL
	return s
}

// Name returns the store name.
func (s *SheetsService) Name() string {
	return "Google Sheets"
}

// Fetch reads every data row in the configured range.
func (s *SheetsService) Fetch(ctx context.Context) ([]models.Row, error) {
	endpoint := fmt.Sprintf("/v4/spreadsheets/%s/values/%s?majorDimension=ROWS",
		url.PathEscape(s.spreadsheetID), url.PathEscape(s.readRange))

	var vr valueRange
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &vr); err != nil {
		return nil, err
	}

	rows := make([]models.Row, len(vr.Values))
	for i, raw := range vr.Values {
		cells := make([]string, len(raw))
		for j, cell := range raw {
			if cell != nil {
				cells[j] = fmt.Sprint(cell)
			}
		}
		rows[i] = models.NewRow(i, cells)
	}
	return rows, nil
}

// DeleteRanges issues one batchUpdate containing a deleteDimension request per range, in order.
//
// Ranges are in row positions; the header offset is added here. No request is made for an empty slice.
func (s *SheetsService) DeleteRanges(ctx context.Context, ranges []models.Range) error {
	if len(ranges) == 0 {
		return nil
	}

	body := batchUpdateRequest{Requests: make([]batchRequest, 0, len(ranges))}
	for _, r := range ranges {
		body.Requests = append(body.Requests, batchRequest{
			DeleteDimension: &deleteDimensionRequest{
				Range: dimensionRange{
					SheetID:    s.sheetID,
					Dimension:  "ROWS",
					StartIndex: r.Start + s.headerRows,
					EndIndex:   r.End + s.headerRows,
				},
			},
		})
	}

	endpoint := fmt.Sprintf("/v4/spreadsheets/%s:batchUpdate", url.PathEscape(s.spreadsheetID))
	return s.doRequest(ctx, http.MethodPost, endpoint, body, nil)
}

// doRequest performs an HTTP request against the Sheets API, encoding body and decoding the response into result when non-nil.
func (s *SheetsService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return s.responseError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func (s *SheetsService) responseError(resp *http.Response) error {
	sentinel := shared.ErrAPIRequest
	if resp.StatusCode == http.StatusUnauthorized {
		sentinel = shared.ErrNotAuthenticated
	}

	var gerr googleError
	data, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(data, &gerr); err == nil && gerr.Error.Message != "" {
		return fmt.Errorf("%w: status %d: %s", sentinel, resp.StatusCode, gerr.Error.Message)
	}
	return fmt.Errorf("%w: status %d", sentinel, resp.StatusCode)
}

var _ RowStore = (*SheetsService)(nil)
