package validate

import (
	"testing"
	"time"

	"github.com/quangtn/vietcal/internal/model"
)

func TestCheckResult(t *testing.T) {
	start := time.Date(2025, 11, 7, 10, 0, 0, 0, time.UTC)
	earlier := start.Add(-2 * time.Hour)
	later := start.Add(time.Hour)

	tests := []struct {
		name      string
		res       *model.Result
		issues    int
		hasErrors bool
	}{
		{"complete", &model.Result{EventName: "họp nhóm", StartTime: &start}, 0, false},
		{"missing everything", &model.Result{}, 2, true},
		{"missing start", &model.Result{EventName: "họp"}, 1, true},
		{"overnight range", &model.Result{EventName: "trực đêm", StartTime: &start, EndTime: &earlier}, 1, false},
		{"valid range", &model.Result{EventName: "họp", StartTime: &start, EndTime: &later}, 0, false},
		{"nil", nil, 1, true},
	}
	for _, tt := range tests {
		issues := CheckResult(tt.res)
		if len(issues) != tt.issues {
			t.Errorf("%s: got %d issues %v, want %d", tt.name, len(issues), issues, tt.issues)
		}
		if HasErrors(issues) != tt.hasErrors {
			t.Errorf("%s: HasErrors = %v, want %v", tt.name, HasErrors(issues), tt.hasErrors)
		}
	}
}
