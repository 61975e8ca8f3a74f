package models

import (
	"fmt"
	"strings"
)

// RowFields is the number of cells a data row carries: locator, title, artist, album, genre.
const RowFields = 5

// Row is one unit of work read from the row store.
//
// Position is the 0-based offset of the row among the fetched data rows (header rows excluded).
// It is captured at fetch time and never recomputed during a run.
type Row struct {
	Position int    `json:"position"`
	Locator  string `json:"locator"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Genre    string `json:"genre"`
}

// NewRow builds a Row from raw cells, padding missing trailing cells with empty strings and ignoring extra cells.
func NewRow(position int, cells []string) Row {
	padded := make([]string, RowFields)
	copy(padded, cells)
	for i := range padded {
		padded[i] = strings.TrimSpace(padded[i])
	}

	return Row{
		Position: position,
		Locator:  padded[0],
		Title:    padded[1],
		Artist:   padded[2],
		Album:    padded[3],
		Genre:    padded[4],
	}
}

// Tags returns the metadata written into the finished audio file.
func (r Row) Tags() Tags {
	return Tags{Artist: r.Artist, Album: r.Album, Genre: r.Genre}
}

// Label identifies the row in log lines and reports.
func (r Row) Label() string {
	if r.Title != "" {
		return r.Title
	}
	return fmt.Sprintf("row %d", r.Position)
}

// Tags is the metadata applied to an audio file.
type Tags struct {
	Artist string
	Album  string
	Genre  string
}

// Range is a span of positions [Start, End) to delete in one store operation.
//
// Values are relative to the store's state at the time this range is applied, i.e. after every earlier range in the same batch has already been deleted.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of positions the range deletes.
func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}
