package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/ytsheet/internal/models"
)

var _ list.Item = rowItem{}

// rowItem wraps [models.Row] to implement [list.Item].
type rowItem struct {
	row models.Row
}

func (i rowItem) FilterValue() string { return i.row.Title + " " + i.row.Artist }
func (i rowItem) Title() string       { return fmt.Sprintf("%d. %s", i.row.Position, i.row.Label()) }
func (i rowItem) Description() string {
	parts := []string{}
	for _, s := range []string{i.row.Artist, i.row.Album, i.row.Genre} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return i.row.Locator
	}
	return strings.Join(parts, " • ")
}

func rowItems(rows []models.Row) []list.Item {
	items := make([]list.Item, len(rows))
	for i, row := range rows {
		items[i] = rowItem{row: row}
	}
	return items
}
