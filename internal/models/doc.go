// Package models defines the domain entities shared by the ytsheet packages.
//
// The package contains two categories of types:
//
// 1. Run values: immutable data produced and consumed within a single sync run
//   - [Row] : One sheet row with the position captured at fetch time
//   - [Range] : A shift-corrected, end-exclusive span of positions to delete
//   - [RowOutcome] : The result of running the pipeline for one row
//
// 2. Persistent Entities: Database-backed history records
//   - [Run] : One sync run with its counters and deletion ranges
//   - [OutcomeRecord] : One row outcome belonging to a run
//
// Persistent entities implement the [Model] interface providing ID, timestamps and validation.
package models
