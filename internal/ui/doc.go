// Package ui implements the `sync run --tui` interface using bubbletea's Elm architecture.
//
// The TUI walks through one sync:
//  1. [LoadingView] : Fetch rows from the sheet
//  2. [PreviewView] : Browse and filter the rows that will be processed
//  3. [ConfirmView] : Confirm the run (or dry run)
//  4. [SyncView] : Spinner, progress bar and the latest row outcomes
//  5. [ResultView] : Counters, deletion status and failed rows
//
// The (view) [Model] implements the standard Init/Update/View pattern, receiving messages via the Msg union type.
// The engine runs in a goroutine and reports through a buffered progress channel; ctrl+c cancels its context.
//
// Logging must go to a file while the TUI owns the terminal.
package ui
