package chop

import "errors"

// Status represents the current stage of a chopping run. The pipeline
// is strictly linear: any failure moves to StatusFailed and aborts.
type Status string

const (
	// StatusIdle indicates the run has not started.
	StatusIdle Status = "IDLE"
	// StatusParsing indicates the annotation file is being parsed.
	StatusParsing Status = "PARSING"
	// StatusPlanning indicates segment boundaries are being computed.
	StatusPlanning Status = "PLANNING"
	// StatusExtracting indicates segments are being sliced from the source.
	StatusExtracting Status = "EXTRACTING"
	// StatusWriting indicates output files are being written.
	StatusWriting Status = "WRITING"
	// StatusDone indicates the run finished successfully.
	StatusDone Status = "DONE"
	// StatusFailed indicates the run aborted on an error.
	StatusFailed Status = "FAILED"
)

// ErrInvalidTransition is returned when an invalid stage transition is attempted.
var ErrInvalidTransition = errors.New("invalid stage transition")

// validTransitions defines which stage transitions are allowed.
var validTransitions = map[Status][]Status{
	StatusIdle:       {StatusParsing, StatusFailed},
	StatusParsing:    {StatusPlanning, StatusFailed},
	StatusPlanning:   {StatusExtracting, StatusFailed},
	StatusExtracting: {StatusWriting, StatusFailed},
	StatusWriting:    {StatusExtracting, StatusDone, StatusFailed},
	StatusDone:       {},
	StatusFailed:     {},
}

// canTransition checks if a transition from one status to another is valid.
func canTransition(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}
