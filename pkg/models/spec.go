package models

// DefaultMaxParallel is the feature-phase concurrency used when a
// ProjectSpec does not set one.
const DefaultMaxParallel = 3

// ProjectType classifies the kind of project being scaffolded.
type ProjectType string

const (
	// ProjectTypeLandingPage is a marketing / lead-generation site.
	ProjectTypeLandingPage ProjectType = "landing_page"
	// ProjectTypeSaaSApp is a multi-tenant application with auth and dashboards.
	ProjectTypeSaaSApp ProjectType = "saas_app"
	// ProjectTypeUnknown means no type has been determined yet.
	ProjectTypeUnknown ProjectType = "unknown"
)

// Valid returns true if the type is a known value.
func (t ProjectType) Valid() bool {
	switch t {
	case ProjectTypeLandingPage, ProjectTypeSaaSApp, ProjectTypeUnknown:
		return true
	default:
		return false
	}
}

// Title returns a human-readable form, e.g. "Landing Page".
func (t ProjectType) Title() string {
	switch t {
	case ProjectTypeLandingPage:
		return "Landing Page"
	case ProjectTypeSaaSApp:
		return "Saas App"
	default:
		return "Unknown"
	}
}

// ProjectSpec is the immutable input describing one project build request.
type ProjectSpec struct {
	// Name is an optional display name for the project. It never affects
	// planning; empty is fine.
	Name string `json:"name,omitempty"`
	// Description is the free-text project description.
	Description string `json:"description"`
	// Features lists requested feature names in order. Duplicates are
	// allowed and treated as independent work items.
	Features []string `json:"features"`
	// Type is an optional project-type hint; empty means detect it.
	Type ProjectType `json:"type,omitempty"`
	// MaxParallel caps feature-phase concurrency. Zero means unset
	// (DefaultMaxParallel applies); negative values are invalid.
	MaxParallel int `json:"max_parallel,omitempty"`
}

// EffectiveMaxParallel resolves the concurrency cap, applying the default
// when unset. Callers must validate the spec first; negative values are
// rejected by the planner, not here.
func (s *ProjectSpec) EffectiveMaxParallel() int {
	if s.MaxParallel == 0 {
		return DefaultMaxParallel
	}
	return s.MaxParallel
}
