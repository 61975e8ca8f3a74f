package tasks

import (
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"

	"github.com/desertthunder/ytsheet/internal/models"
)

func TestGroupRanges(t *testing.T) {
	tests := []struct {
		name      string
		positions []int
		want      []models.Range
	}{
		{name: "empty", positions: nil, want: nil},
		{name: "single position", positions: []int{0}, want: []models.Range{{Start: 0, End: 1}}},
		{name: "contiguous", positions: []int{0, 1, 2}, want: []models.Range{{Start: 0, End: 3}}},
		{name: "gaps", positions: []int{1, 3, 4, 7}, want: []models.Range{{Start: 1, End: 2}, {Start: 3, End: 5}, {Start: 7, End: 8}}},
		{name: "duplicate ignored", positions: []int{2, 2, 3}, want: []models.Range{{Start: 2, End: 4}}},
		{name: "single gaps of size one", positions: []int{0, 2, 4, 6}, want: []models.Range{{Start: 0, End: 1}, {Start: 2, End: 3}, {Start: 4, End: 5}, {Start: 6, End: 7}}},
		{name: "trailing singleton", positions: []int{0, 1, 2, 9}, want: []models.Range{{Start: 0, End: 3}, {Start: 9, End: 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GroupRanges(tt.positions)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GroupRanges(%v) = %v, want %v", tt.positions, got, tt.want)
			}
		})
	}
}

func TestCompactRanges(t *testing.T) {
	tests := []struct {
		name      string
		positions []int
		want      []models.Range
	}{
		{name: "empty input yields no ranges", positions: []int{}, want: nil},
		{name: "single position", positions: []int{0}, want: []models.Range{{Start: 0, End: 1}}},
		{name: "all contiguous", positions: []int{0, 1, 2}, want: []models.Range{{Start: 0, End: 3}}},
		{
			name:      "later ranges shift by earlier sizes",
			positions: []int{1, 3, 4, 7},
			want:      []models.Range{{Start: 1, End: 2}, {Start: 2, End: 4}, {Start: 4, End: 5}},
		},
		{
			name:      "successes at 1, 3 and 4",
			positions: []int{1, 3, 4},
			want:      []models.Range{{Start: 1, End: 2}, {Start: 2, End: 4}},
		},
		{
			name:      "alternating rows",
			positions: []int{0, 2, 4, 6},
			want:      []models.Range{{Start: 0, End: 1}, {Start: 1, End: 2}, {Start: 2, End: 3}, {Start: 3, End: 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompactRanges(tt.positions)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CompactRanges(%v) = %v, want %v", tt.positions, got, tt.want)
			}
		})
	}
}

func TestShiftRanges(t *testing.T) {
	t.Run("does not modify input", func(t *testing.T) {
		input := []models.Range{{Start: 1, End: 2}, {Start: 3, End: 5}, {Start: 7, End: 8}}
		before := slices.Clone(input)

		ShiftRanges(input)
		if !reflect.DeepEqual(input, before) {
			t.Errorf("ShiftRanges modified its input: %v", input)
		}
	})

	t.Run("single range unchanged", func(t *testing.T) {
		got := ShiftRanges([]models.Range{{Start: 4, End: 9}})
		if !reflect.DeepEqual(got, []models.Range{{Start: 4, End: 9}}) {
			t.Errorf("ShiftRanges() = %v", got)
		}
	})

	t.Run("each later range strictly smaller by sum of earlier sizes", func(t *testing.T) {
		grouped := GroupRanges([]int{2, 3, 8, 12, 13, 14, 20})
		shifted := ShiftRanges(grouped)

		deleted := 0
		for i := range grouped {
			if shifted[i].Start != grouped[i].Start-deleted || shifted[i].End != grouped[i].End-deleted {
				t.Errorf("range %d: got %v, want %v shifted by %d", i, shifted[i], grouped[i], deleted)
			}
			deleted += grouped[i].Len()
		}
	})
}

func TestApplyRanges(t *testing.T) {
	t.Run("end to end example leaves failed rows", func(t *testing.T) {
		rows := []int{0, 1, 2, 3, 4}
		ranges := CompactRanges([]int{1, 3, 4})

		got, err := ApplyRanges(rows, ranges)
		if err != nil {
			t.Fatalf("ApplyRanges() error = %v", err)
		}
		if !reflect.DeepEqual(got, []int{0, 2}) {
			t.Errorf("remaining rows = %v, want [0 2]", got)
		}
	})

	t.Run("three ranges with gaps", func(t *testing.T) {
		rows := []int{0, 1, 2, 3, 4, 5, 6, 7}
		ranges := CompactRanges([]int{1, 3, 4, 7})
		if last := ranges[len(ranges)-1]; last != (models.Range{Start: 4, End: 5}) {
			t.Errorf("last range = %v, want [4,5)", last)
		}

		got, err := ApplyRanges(rows, ranges)
		if err != nil {
			t.Fatalf("ApplyRanges() error = %v", err)
		}
		if !reflect.DeepEqual(got, []int{0, 2, 5, 6}) {
			t.Errorf("remaining rows = %v, want [0 2 5 6]", got)
		}
	})

	t.Run("out of bounds", func(t *testing.T) {
		if _, err := ApplyRanges([]int{0, 1}, []models.Range{{Start: 1, End: 3}}); err == nil {
			t.Error("expected error for range past the end")
		}
	})

	t.Run("unshifted ranges would over-delete", func(t *testing.T) {
		rows := []int{0, 1, 2, 3, 4, 5, 6, 7}
		got, err := ApplyRanges(rows, GroupRanges([]int{1, 3, 4}))
		if err != nil {
			t.Fatalf("ApplyRanges() error = %v", err)
		}
		if reflect.DeepEqual(got, []int{0, 2, 5, 6, 7}) {
			t.Error("applying uncorrected ranges should not produce the intended result")
		}
	})

	t.Run("does not modify input", func(t *testing.T) {
		rows := []string{"a", "b", "c"}
		if _, err := ApplyRanges(rows, []models.Range{{Start: 0, End: 1}}); err != nil {
			t.Fatalf("ApplyRanges() error = %v", err)
		}
		if !reflect.DeepEqual(rows, []string{"a", "b", "c"}) {
			t.Errorf("input modified: %v", rows)
		}
	})
}

// randomPositions returns a strictly increasing subset of [0, n).
func randomPositions(r *rand.Rand, n int, density float64) []int {
	var positions []int
	for i := 0; i < n; i++ {
		if r.Float64() < density {
			positions = append(positions, i)
		}
	}
	return positions
}

func TestCompactRangesProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 42))

	cases := [][]int{
		{0, 2, 4, 6, 8, 10},
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 21},
		{5, 6, 7, 8, 9, 10, 11, 12, 30, 31, 32, 33, 34, 35, 36, 37, 38, 40},
		{99},
	}
	for i := 0; i < 200; i++ {
		cases = append(cases, randomPositions(r, 1+r.IntN(60), r.Float64()))
	}

	for _, positions := range cases {
		n := 100
		if len(positions) > 0 {
			n = positions[len(positions)-1] + 1 + r.IntN(5)
		}

		ranges := CompactRanges(positions)

		covered := []int{}
		for _, rg := range UnshiftRanges(ranges) {
			for p := rg.Start; p < rg.End; p++ {
				covered = append(covered, p)
			}
		}
		if !slices.Equal(covered, positions) && !(len(covered) == 0 && len(positions) == 0) {
			t.Fatalf("positions %v: union of ranges = %v", positions, covered)
		}

		original := UnshiftRanges(ranges)
		for i := 1; i < len(original); i++ {
			if original[i].Start <= original[i-1].End {
				t.Fatalf("positions %v: ranges %v and %v could be merged", positions, original[i-1], original[i])
			}
		}

		rows := make([]int, n)
		for i := range rows {
			rows[i] = i
		}
		remaining, err := ApplyRanges(rows, ranges)
		if err != nil {
			t.Fatalf("positions %v: %v", positions, err)
		}

		want := slices.DeleteFunc(slices.Clone(rows), func(p int) bool {
			_, found := slices.BinarySearch(positions, p)
			return found
		})
		if !slices.Equal(remaining, want) {
			t.Fatalf("positions %v: remaining %v, want %v", positions, remaining, want)
		}
	}
}
