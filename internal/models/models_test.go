package models

import (
	"errors"
	"testing"
)

func TestNewRow(t *testing.T) {
	tc := []struct {
		name  string
		cells []string
		want  Row
	}{
		{
			name:  "full row",
			cells: []string{"https://youtu.be/a", "Song", "Artist", "Album", "Rock"},
			want:  Row{Position: 2, Locator: "https://youtu.be/a", Title: "Song", Artist: "Artist", Album: "Album", Genre: "Rock"},
		},
		{
			name:  "trailing cells omitted",
			cells: []string{"https://youtu.be/a", "Song"},
			want:  Row{Position: 2, Locator: "https://youtu.be/a", Title: "Song"},
		},
		{
			name:  "extra cells ignored",
			cells: []string{"l", "t", "ar", "al", "g", "notes"},
			want:  Row{Position: 2, Locator: "l", Title: "t", Artist: "ar", Album: "al", Genre: "g"},
		},
		{
			name:  "whitespace trimmed",
			cells: []string{" l ", "  t"},
			want:  Row{Position: 2, Locator: "l", Title: "t"},
		},
		{
			name: "empty",
			want: Row{Position: 2},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NewRow(2, tt.cells)
			if got != tt.want {
				t.Errorf("NewRow() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRowLabel(t *testing.T) {
	if got := (Row{Position: 4, Title: "Song"}).Label(); got != "Song" {
		t.Errorf("Label() = %q, want Song", got)
	}
	if got := (Row{Position: 4}).Label(); got != "row 4" {
		t.Errorf("Label() = %q, want row 4", got)
	}
}

func TestRange(t *testing.T) {
	r := Range{Start: 2, End: 5}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	if r.String() != "[2,5)" {
		t.Errorf("String() = %q, want [2,5)", r.String())
	}
}

func TestRowOutcome(t *testing.T) {
	ok := RowOutcome{Step: StepDone}
	if !ok.Succeeded() || ok.ErrorText() != "" {
		t.Errorf("expected successful outcome, got %+v", ok)
	}

	failed := RowOutcome{Step: StepTranscode, Err: errors.New("boom")}
	if failed.Succeeded() {
		t.Error("expected failed outcome")
	}
	if failed.ErrorText() != "boom" {
		t.Errorf("ErrorText() = %q, want boom", failed.ErrorText())
	}

	incomplete := RowOutcome{Step: StepTag}
	if incomplete.Succeeded() {
		t.Error("an outcome that stopped before StepDone must not count as success")
	}
}

func TestStep(t *testing.T) {
	for s := StepValidate; s <= StepDone; s++ {
		if got := ParseStep(s.String()); got != s {
			t.Errorf("ParseStep(%q) = %v, want %v", s.String(), got, s)
		}
	}
	if ParseStep("bogus") != StepValidate {
		t.Error("expected unknown step to map to StepValidate")
	}
}

func TestRunValidate(t *testing.T) {
	run := NewRun("run-1", "sheet-1", false)
	if err := run.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	run.Finish(5, 3, 2, []Range{{Start: 1, End: 2}}, errors.New("delete failed"))
	if run.FinishedAt() == nil {
		t.Error("expected finished timestamp")
	}
	if run.ErrorText() != "delete failed" {
		t.Errorf("ErrorText() = %q", run.ErrorText())
	}

	if err := NewRun("", "sheet-1", false).Validate(); err == nil {
		t.Error("expected error for missing id")
	}
	if err := NewRun("run-1", "", false).Validate(); err == nil {
		t.Error("expected error for missing spreadsheet id")
	}
}

func TestNewOutcomeRecord(t *testing.T) {
	outcome := RowOutcome{
		Row:  Row{Position: 3, Locator: "loc", Title: "Song", Artist: "Artist"},
		Step: StepTag,
		Err:  errors.New("no tag"),
	}

	rec := NewOutcomeRecord("run-1", outcome)
	if rec.RunID() != "run-1" || rec.Position() != 3 || rec.Title() != "Song" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Succeeded() {
		t.Error("expected failed record")
	}
	if rec.Step() != StepTag || rec.ErrorText() != "no tag" {
		t.Errorf("unexpected step or error: %v %q", rec.Step(), rec.ErrorText())
	}
	if err := rec.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
