package pipeline

import (
	"strings"

	"github.com/quangtn/vietcal/internal/model"
)

// Merge combines the rule result with a secondary backend's result. Time,
// location and reminder always come from the rule side (measured as more
// reliable); the event name falls back to the secondary only when the rule
// produced none. Agreement scores are diagnostic and never gate acceptance.
func Merge(rule, sec *model.Result) *model.Result {
	out := *rule
	out.Backends = rule.Backends + "+" + sec.Backends
	if out.EventName == "" {
		out.EventName = sec.EventName
	}
	out.Agreement = &model.Agreement{
		Event:    textAgreement(rule.EventName, sec.EventName),
		Time:     timeAgreement(rule, sec),
		Location: textAgreement(rule.Location, sec.Location),
		Reminder: boolToScore(rule.ReminderMinutes == sec.ReminderMinutes),
	}
	return &out
}

// textAgreement scores two text fields: exact match 1.0, substring
// containment 0.7, otherwise 0.0. Two empty fields agree fully.
func textAgreement(a, b string) float64 {
	a = strings.TrimSpace(strings.ToLower(a))
	b = strings.TrimSpace(strings.ToLower(b))
	switch {
	case a == b:
		return 1.0
	case a == "" || b == "":
		return 0.0
	case strings.Contains(a, b) || strings.Contains(b, a):
		return 0.7
	}
	return 0.0
}

// timeAgreement compares start instants: equal 1.0, same calendar day 0.7
func timeAgreement(a, b *model.Result) float64 {
	switch {
	case a.StartTime == nil && b.StartTime == nil:
		return 1.0
	case a.StartTime == nil || b.StartTime == nil:
		return 0.0
	case a.StartTime.Equal(*b.StartTime):
		return 1.0
	}
	ay, am, ad := a.StartTime.Date()
	by, bm, bd := b.StartTime.Date()
	if ay == by && am == bm && ad == bd {
		return 0.7
	}
	return 0.0
}

func boolToScore(ok bool) float64 {
	if ok {
		return 1.0
	}
	return 0.0
}
