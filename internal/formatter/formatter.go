// package formatter renders sync run reports and fetched rows as plain text, CSV, Markdown or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/desertthunder/ytsheet/internal/models"
	"github.com/desertthunder/ytsheet/internal/shared"
	"github.com/desertthunder/ytsheet/internal/tasks"
)

// Report is the printable summary of one sync run, built from a live result or from history.
type Report struct {
	RunID         string         `json:"run_id"`
	SpreadsheetID string         `json:"spreadsheet_id"`
	DryRun        bool           `json:"dry_run"`
	StartedAt     time.Time      `json:"started_at"`
	FinishedAt    *time.Time     `json:"finished_at,omitempty"`
	TotalRows     int            `json:"total_rows"`
	Succeeded     int            `json:"succeeded"`
	Failed        int            `json:"failed"`
	Ranges        []models.Range `json:"ranges"`
	Error         string         `json:"error,omitempty"`
	Rows          []ReportRow    `json:"rows"`
}

// ReportRow is one row outcome within a [Report].
type ReportRow struct {
	Position  int    `json:"position"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Locator   string `json:"locator"`
	Step      string `json:"step"`
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error,omitempty"`
}

// FromResult builds a report from a run that just finished. Rows keep processing order.
func FromResult(result *tasks.RunResult, spreadsheetID string, startedAt time.Time) *Report {
	finished := time.Now()
	r := &Report{
		RunID:         result.RunID,
		SpreadsheetID: spreadsheetID,
		DryRun:        result.DryRun,
		StartedAt:     startedAt,
		FinishedAt:    &finished,
		TotalRows:     len(result.Rows),
		Succeeded:     result.Succeeded,
		Failed:        result.Failed,
		Ranges:        result.Ranges,
		Rows:          make([]ReportRow, 0, len(result.Outcomes)),
	}
	if result.DeleteErr != nil {
		r.Error = result.DeleteErr.Error()
	}

	for _, o := range result.Outcomes {
		r.Rows = append(r.Rows, ReportRow{
			Position:  o.Row.Position,
			Title:     o.Row.Title,
			Artist:    o.Row.Artist,
			Locator:   o.Row.Locator,
			Step:      o.Step.String(),
			Succeeded: o.Succeeded(),
			Error:     o.ErrorText(),
		})
	}
	return r
}

// FromRun builds a report from a stored run and its outcome records.
func FromRun(run *models.Run, records []*models.OutcomeRecord) *Report {
	r := &Report{
		RunID:         run.ID(),
		SpreadsheetID: run.SpreadsheetID(),
		DryRun:        run.DryRun(),
		StartedAt:     run.StartedAt(),
		FinishedAt:    run.FinishedAt(),
		TotalRows:     run.TotalRows(),
		Succeeded:     run.Succeeded(),
		Failed:        run.Failed(),
		Ranges:        run.Ranges(),
		Error:         run.ErrorText(),
		Rows:          make([]ReportRow, 0, len(records)),
	}

	for _, rec := range records {
		r.Rows = append(r.Rows, ReportRow{
			Position:  rec.Position(),
			Title:     rec.Title(),
			Artist:    rec.Artist(),
			Locator:   rec.Locator(),
			Step:      rec.Step().String(),
			Succeeded: rec.Succeeded(),
			Error:     rec.ErrorText(),
		})
	}
	return r
}

// Status summarizes what happened to the row store.
func (r *Report) Status() string {
	switch {
	case r.FinishedAt == nil:
		return "incomplete"
	case r.Error != "":
		return "failed"
	case r.DryRun:
		return "dry run"
	case len(r.Ranges) == 0:
		return "nothing deleted"
	default:
		return "deleted"
	}
}

// Export renders the report in the named format: text (default), csv, markdown or json.
func Export(r *Report, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "text", "txt":
		return ExportToText(r)
	case "csv":
		return ExportToCSV(r)
	case "markdown", "md":
		return ExportToMarkdown(r)
	case "json":
		return ExportToJSON(r)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want text, csv, markdown or json)", shared.ErrInvalidArgument, format)
	}
}

// ExportToCSV converts a Report to CSV format with columns: Position, Title, Artist, Locator, Step, Succeeded, Error
func ExportToCSV(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Title", "Artist", "Locator", "Step", "Succeeded", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range r.Rows {
		record := []string{
			strconv.Itoa(row.Position),
			row.Title,
			row.Artist,
			row.Locator,
			row.Step,
			strconv.FormatBool(row.Succeeded),
			row.Error,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Report to a plain text summary followed by one line per row
func ExportToText(r *Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Run: %s\n", r.RunID)
	fmt.Fprintf(&buf, "Sheet: %s\n", r.SpreadsheetID)
	fmt.Fprintf(&buf, "Started: %s\n", r.StartedAt.Format(time.DateTime))
	fmt.Fprintf(&buf, "Status: %s\n", r.Status())
	fmt.Fprintf(&buf, "Rows: %d (%d succeeded, %d failed)\n", r.TotalRows, r.Succeeded, r.Failed)
	fmt.Fprintf(&buf, "Ranges: %s\n", RangesString(r.Ranges))
	if r.Error != "" {
		fmt.Fprintf(&buf, "Error: %s\n", r.Error)
	}

	if len(r.Rows) == 0 {
		return buf.Bytes(), nil
	}
	buf.WriteString("\n")

	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	for _, row := range r.Rows {
		mark := "✓"
		detail := ""
		if !row.Succeeded {
			mark = "✗"
			detail = fmt.Sprintf("%s: %s", row.Step, row.Error)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", mark, row.Position, row.Artist, row.Title, detail)
	}
	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write rows: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a Report to Markdown with a row table
func ExportToMarkdown(r *Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Run %s\n\n", r.RunID)
	fmt.Fprintf(&buf, "**Sheet**: %s\n", r.SpreadsheetID)
	fmt.Fprintf(&buf, "**Status**: %s\n", r.Status())
	fmt.Fprintf(&buf, "**Rows**: %d (%d succeeded, %d failed)\n", r.TotalRows, r.Succeeded, r.Failed)
	fmt.Fprintf(&buf, "**Ranges**: %s\n\n", RangesString(r.Ranges))
	if r.Error != "" {
		fmt.Fprintf(&buf, "> %s\n\n", r.Error)
	}

	buf.WriteString("| Position | Artist | Title | Step | Error |\n")
	buf.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, row := range r.Rows {
		fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s |\n", row.Position, escapeCell(row.Artist), escapeCell(row.Title), row.Step, escapeCell(row.Error))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a Report to indented JSON
func ExportToJSON(r *Report) ([]byte, error) {
	if r.Ranges == nil {
		r.Ranges = []models.Range{}
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

// RowsToText renders fetched rows as an aligned table with their positions
func RowsToText(rows []models.Row) ([]byte, error) {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "POS\tARTIST\tTITLE\tALBUM\tGENRE\tLOCATOR")
	for _, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", row.Position, row.Artist, row.Title, row.Album, row.Genre, row.Locator)
	}
	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write rows: %w", err)
	}
	return buf.Bytes(), nil
}

// RowsToJSON renders fetched rows as indented JSON
func RowsToJSON(rows []models.Row) ([]byte, error) {
	if rows == nil {
		rows = []models.Row{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rows: %w", err)
	}
	return append(data, '\n'), nil
}

// RangesString renders ranges as "[1,2) [2,4)", or "none".
func RangesString(ranges []models.Range) string {
	if len(ranges) == 0 {
		return "none"
	}
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ")
}

// WriteReport writes the report in the given format to path.
func WriteReport(r *Report, format, path string) error {
	data, err := Export(r, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}

// RunsToText renders stored runs as an aligned table, one line per run.
func RunsToText(runs []*models.Run) ([]byte, error) {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tSTARTED\tSHEET\tROWS\tOK\tFAILED\tSTATUS")
	for _, run := range runs {
		status := FromRun(run, nil).Status()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			shortID(run.ID()), run.StartedAt().Local().Format(time.DateTime), run.SpreadsheetID(),
			run.TotalRows(), run.Succeeded(), run.Failed(), status)
	}
	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write runs: %w", err)
	}
	return buf.Bytes(), nil
}

// shortID keeps enough of a UUID to pass back as a history prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
