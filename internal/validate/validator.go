package validate

import "github.com/quangtn/vietcal/internal/model"

// Severity classifies an issue
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one problem found in an extraction result
type Issue struct {
	Field    string   `json:"field"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// CheckResult inspects a result the way an add-event flow would before
// persisting it. The extraction core itself never rejects input; mandatory
// field enforcement happens here, at the application boundary.
func CheckResult(r *model.Result) []Issue {
	var issues []Issue

	if r == nil {
		return []Issue{{Field: "result", Severity: SeverityError, Message: "no result"}}
	}
	if r.EventName == "" {
		issues = append(issues, Issue{
			Field:    "event_name",
			Severity: SeverityError,
			Message:  "no event name could be extracted",
		})
	}
	if r.StartTime == nil {
		issues = append(issues, Issue{
			Field:    "start_time",
			Severity: SeverityError,
			Message:  "no start time could be resolved",
		})
	}
	if r.StartTime != nil && r.EndTime != nil && !r.EndTime.After(*r.StartTime) {
		issues = append(issues, Issue{
			Field:    "end_time",
			Severity: SeverityWarning,
			Message:  "end time is not after start time; possibly an overnight range",
		})
	}
	if r.ReminderMinutes < 0 {
		issues = append(issues, Issue{
			Field:    "reminder_minutes",
			Severity: SeverityError,
			Message:  "reminder offset is negative",
		})
	}

	return issues
}

// HasErrors reports whether any issue is severe enough to block saving
func HasErrors(issues []Issue) bool {
	for _, is := range issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}
