// Package tasks runs sheet-to-library sync runs with real-time progress reporting.
//
// # Core Operations
//
//  1. [RowProcessor.Process] : per-row pipeline
//     - Validates the row, then acquires, transcodes, tags and imports its media
//     - Removes temporary files
//     - Returns a [models.RowOutcome] naming the step where the row stopped
//
//  2. [CompactRanges] : deletion planning
//     - Groups sorted positions into contiguous half-open ranges
//     - Shifts every range left by the rows removed before it
//
//  3. [SyncEngine.Run] : full run
//     - Fetches every row once and processes them last to first
//     - Compacts the succeeded positions
//     - Deletes them from the row store in a single batched request
//
// # Deletion Ranges
//
// The row store applies ranges one at a time and closes the gap after each one,
// so [CompactRanges] output is only valid when applied in order against the
// state left by the previous ranges. [ApplyRanges] performs the same operation
// on a slice for previews and tests.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Run History
//
// The optional [RunRecorder] interface persists each run and row outcome (repositories.RunRepository).
// Recording errors are logged and never interrupt a run.
package tasks
