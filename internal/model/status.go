package model

import "fmt"

// Status is the current stage of an application's pipeline.
type Status string

const (
	StatusApplied            Status = "applied"
	StatusScreening          Status = "screening"
	StatusInterviewScheduled Status = "interview_scheduled"
	StatusInterviewed        Status = "interviewed"
	StatusOfferReceived      Status = "offer_received"
	StatusRejected           Status = "rejected"
	StatusWithdrawn          Status = "withdrawn"
	StatusAccepted           Status = "accepted"
)

// AllStatuses returns every status in typical pipeline order.
func AllStatuses() []Status {
	return []Status{
		StatusApplied,
		StatusScreening,
		StatusInterviewScheduled,
		StatusInterviewed,
		StatusOfferReceived,
		StatusRejected,
		StatusWithdrawn,
		StatusAccepted,
	}
}

// ParseStatus converts a raw string into a Status. Anything outside the
// closed set is rejected; status values are never free text.
func ParseStatus(s string) (Status, error) {
	for _, st := range AllStatuses() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

func (s Status) String() string { return string(s) }

// Terminal reports whether the status ends the pipeline; terminal
// applications are excluded from stale-application reports.
func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusWithdrawn, StatusAccepted:
		return true
	}
	return false
}

// Title returns a human-readable label, e.g. "Interview Scheduled".
func (s Status) Title() string {
	switch s {
	case StatusApplied:
		return "Applied"
	case StatusScreening:
		return "Screening"
	case StatusInterviewScheduled:
		return "Interview Scheduled"
	case StatusInterviewed:
		return "Interviewed"
	case StatusOfferReceived:
		return "Offer Received"
	case StatusRejected:
		return "Rejected"
	case StatusWithdrawn:
		return "Withdrawn"
	case StatusAccepted:
		return "Accepted"
	}
	return string(s)
}

// Color returns the ANSI escape sequence used for CLI rendering.
func (s Status) Color() string {
	switch s {
	case StatusApplied:
		return "\033[94m"
	case StatusScreening:
		return "\033[96m"
	case StatusInterviewScheduled:
		return "\033[93m"
	case StatusInterviewed:
		return "\033[95m"
	case StatusOfferReceived, StatusAccepted:
		return "\033[92m"
	case StatusRejected:
		return "\033[91m"
	case StatusWithdrawn:
		return "\033[90m"
	}
	return ""
}

// CSSClass returns the bootstrap badge class used by the web templates.
func (s Status) CSSClass() string {
	switch s {
	case StatusApplied:
		return "primary"
	case StatusScreening:
		return "info"
	case StatusInterviewScheduled:
		return "warning"
	case StatusInterviewed:
		return "secondary"
	case StatusOfferReceived, StatusAccepted:
		return "success"
	case StatusRejected:
		return "danger"
	case StatusWithdrawn:
		return "light"
	}
	return "secondary"
}
