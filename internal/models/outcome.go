package models

// Step names a stage of the per-row pipeline.
type Step int

const (
	StepValidate Step = iota
	StepAcquire
	StepTranscode
	StepTag
	StepImport
	StepCleanup
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepValidate:
		return "validate"
	case StepAcquire:
		return "acquire"
	case StepTranscode:
		return "transcode"
	case StepTag:
		return "tag"
	case StepImport:
		return "import"
	case StepCleanup:
		return "cleanup"
	case StepDone:
		return "done"
	default:
		return ""
	}
}

// ParseStep is the inverse of [Step.String]. Unknown names map to [StepValidate].
func ParseStep(name string) Step {
	for s := StepValidate; s <= StepDone; s++ {
		if s.String() == name {
			return s
		}
	}
	return StepValidate
}

// RowOutcome is the result of running the pipeline for a single row.
//
// A failed outcome records the step that failed and why; a successful outcome has Step == [StepDone] and a nil Err.
type RowOutcome struct {
	Row       Row
	Step      Step
	Err       error
	Artifacts []string // temporary files created while processing the row
}

// Succeeded reports whether every pipeline step completed.
func (o RowOutcome) Succeeded() bool {
	return o.Err == nil && o.Step == StepDone
}

// ErrorText returns the failure message, or an empty string for a successful outcome.
func (o RowOutcome) ErrorText() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}
