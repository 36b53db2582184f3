package models

import "testing"

func TestValidationReport_Passed(t *testing.T) {
	tests := []struct {
		name   string
		report ValidationReport
		want   bool
	}{
		{
			name:   "project and features pass",
			report: ValidationReport{ProjectCreated: true, FeaturesCompleted: 3, AllAgentsSucceeded: true},
			want:   true,
		},
		{
			name:   "agent failure is advisory",
			report: ValidationReport{ProjectCreated: true, FeaturesCompleted: 1, AllAgentsSucceeded: false, FailedAgent: "gfa-2"},
			want:   true,
		},
		{
			name:   "no project fails",
			report: ValidationReport{ProjectCreated: false, FeaturesCompleted: 3},
			want:   false,
		},
		{
			name:   "zero features fails",
			report: ValidationReport{ProjectCreated: true, FeaturesCompleted: 0, AllAgentsSucceeded: true},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.report.Passed(); got != tt.want {
				t.Errorf("Passed() = %v, want %v", got, tt.want)
			}
		})
	}
}
