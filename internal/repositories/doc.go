// Package repositories implements SQLite persistence for sync run history.
//
// Key Implementations:
//   - [RunRepository] : one record per run with counters, deletion ranges and the delete error
//   - [OutcomeRepository] : one record per processed row, unique per (run, position)
//
// [RunRepository] is the engine's history recorder. History is reporting data only and is never read back to resume a run.
package repositories
