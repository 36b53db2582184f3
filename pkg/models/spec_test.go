package models

import "testing"

func TestProjectSpec_EffectiveMaxParallel(t *testing.T) {
	tests := []struct {
		name string
		spec ProjectSpec
		want int
	}{
		{"unset defaults to 3", ProjectSpec{}, 3},
		{"explicit value wins", ProjectSpec{MaxParallel: 5}, 5},
		{"one is respected", ProjectSpec{MaxParallel: 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.EffectiveMaxParallel(); got != tt.want {
				t.Errorf("EffectiveMaxParallel() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProjectType_Valid(t *testing.T) {
	tests := []struct {
		name string
		typ  ProjectType
		want bool
	}{
		{"landing_page is valid", ProjectTypeLandingPage, true},
		{"saas_app is valid", ProjectTypeSaaSApp, true},
		{"unknown is valid", ProjectTypeUnknown, true},
		{"empty is invalid", ProjectType(""), false},
		{"arbitrary is invalid", ProjectType("mobile_app"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.Valid(); got != tt.want {
				t.Errorf("ProjectType(%q).Valid() = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}

func TestProjectType_Title(t *testing.T) {
	if got := ProjectTypeLandingPage.Title(); got != "Landing Page" {
		t.Errorf("Title() = %q, want %q", got, "Landing Page")
	}
	if got := ProjectTypeSaaSApp.Title(); got != "Saas App" {
		t.Errorf("Title() = %q, want %q", got, "Saas App")
	}
}
