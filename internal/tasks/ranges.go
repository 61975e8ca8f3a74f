package tasks

import (
	"fmt"

	"github.com/desertthunder/ytsheet/internal/models"
)

// CompactRanges converts ascending row positions into the deletion ranges to submit to the row store.
//
// The store deletes one range at a time and shifts every later row left by the size of the removed range.
// The returned ranges therefore must be applied in order: each range is only valid once all earlier ranges in the slice have been applied.
// Empty input yields no ranges.
func CompactRanges(positions []int) []models.Range {
	return ShiftRanges(GroupRanges(positions))
}

// GroupRanges collapses ascending positions into the minimal set of end-exclusive ranges covering exactly those positions.
//
// A position equal to the current range's last position is a duplicate and is ignored.
// The returned ranges are ascending and never adjacent or overlapping.
func GroupRanges(positions []int) []models.Range {
	if len(positions) == 0 {
		return nil
	}

	var ranges []models.Range
	lo, hi := positions[0], positions[0]

	for _, p := range positions[1:] {
		switch p {
		case hi: // duplicate
		case hi + 1:
			hi = p
		default:
			ranges = append(ranges, models.Range{Start: lo, End: hi + 1})
			lo, hi = p, p
		}
	}

	return append(ranges, models.Range{Start: lo, End: hi + 1})
}

// ShiftRanges offsets each ascending, disjoint range left by the number of positions deleted by the ranges before it.
//
// The input is not modified.
func ShiftRanges(ranges []models.Range) []models.Range {
	if len(ranges) == 0 {
		return nil
	}

	shifted := make([]models.Range, len(ranges))
	deleted := 0
	for i, r := range ranges {
		r.Start -= deleted
		r.End -= deleted
		deleted += r.Len()
		shifted[i] = r
	}
	return shifted
}

// UnshiftRanges reverses [ShiftRanges], returning ranges expressed in original fetch positions.
func UnshiftRanges(ranges []models.Range) []models.Range {
	if len(ranges) == 0 {
		return nil
	}

	original := make([]models.Range, len(ranges))
	deleted := 0
	for i, r := range ranges {
		r.Start += deleted
		r.End += deleted
		deleted += r.Len()
		original[i] = r
	}
	return original
}

// ApplyRanges simulates the store's delete primitive: for each range in order it removes End-Start elements starting at Start from a copy of items.
//
// Returns an error if a range does not fit the list as it stands when that range is applied.
func ApplyRanges[T any](items []T, ranges []models.Range) ([]T, error) {
	out := append([]T(nil), items...)
	for i, r := range ranges {
		if r.Start < 0 || r.End < r.Start || r.End > len(out) {
			return nil, fmt.Errorf("range %d %v out of bounds for %d rows", i, r, len(out))
		}
		out = append(out[:r.Start], out[r.End:]...)
	}
	return out, nil
}
