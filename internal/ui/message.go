package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytsheet/internal/models"
	"github.com/desertthunder/ytsheet/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgRowsFetched MsgKind = iota
	MsgProgressUpdate
	MsgSyncComplete
)

type rowsFetched struct {
	rows []models.Row
	err  error
}

type syncComplete struct {
	result *tasks.RunResult
	err    error
}

// rowsFetchedMsg is the constructor for [MsgRowsFetched]
func rowsFetchedMsg(rows []models.Row, err error) Msg {
	return Msg{kind: MsgRowsFetched, data: rowsFetched{rows, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// syncCompleteMsg is the constructor for [MsgSyncComplete]
func syncCompleteMsg(result *tasks.RunResult, err error) Msg {
	return Msg{kind: MsgSyncComplete, data: syncComplete{result, err}}
}
