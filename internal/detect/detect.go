package detect

import (
	"strings"

	"github.com/genesis-agents/genesis/pkg/models"
)

// ConfidenceThreshold is the minimum score a project type needs to win
// outright. Below it the detector falls back to the SaaS default.
const ConfidenceThreshold = 0.6

// DefaultConfidence is reported when neither type clears the threshold.
const DefaultConfidence = 0.5

// Scores holds the raw per-type scores, clamped to [0, 1].
type Scores struct {
	LandingPage float64 `json:"landing_page"`
	SaaSApp     float64 `json:"saas_app"`
}

// Detection is the outcome of classifying one project description.
type Detection struct {
	Type       models.ProjectType `json:"project_type"`
	Confidence float64            `json:"confidence"`
	Reasoning  string             `json:"reasoning"`
	Template   string             `json:"recommended_template"`
	Scores     Scores             `json:"scores"`
}

// Detect classifies a project description.
func Detect(description string) Detection {
	return DetectWithHints(description, "")
}

// DetectWithHints classifies a project description, additionally weighing
// free-text hints from an earlier repository survey. Hints mentioning
// marketing material boost the landing-page score; mentions of an
// application boost the SaaS score.
func DetectWithHints(description, hints string) Detection {
	desc := strings.ToLower(description)
	hint := strings.ToLower(hints)

	scores := Scores{
		LandingPage: landingPageScore(desc, hint),
		SaaSApp:     saasAppScore(desc, hint),
	}

	d := Detection{Scores: scores}
	switch {
	case scores.LandingPage > scores.SaaSApp && scores.LandingPage >= ConfidenceThreshold:
		d.Type = models.ProjectTypeLandingPage
		d.Confidence = scores.LandingPage
		d.Reasoning = explain(desc, LandingPageKeywords, "Landing page indicators found", "Project description suggests a landing page")
	case scores.SaaSApp > scores.LandingPage && scores.SaaSApp >= ConfidenceThreshold:
		d.Type = models.ProjectTypeSaaSApp
		d.Confidence = scores.SaaSApp
		d.Reasoning = explain(desc, SaaSAppKeywords, "SaaS app indicators found", "Project description suggests a SaaS application")
	default:
		// SaaS is the more common case, so it wins unclear calls.
		d.Type = models.ProjectTypeSaaSApp
		d.Confidence = DefaultConfidence
		d.Reasoning = "Defaulting to SaaS app (insufficient indicators for landing page)"
	}
	d.Template = TemplatePath(d.Type)
	return d
}

func landingPageScore(desc, hint string) float64 {
	score := 0.0
	for _, kw := range LandingPageKeywords {
		if strings.Contains(desc, kw) {
			score += 0.15
		}
	}
	for _, f := range LandingPageFeatures {
		if strings.Contains(desc, f) {
			score += 0.1
		}
	}
	// Strong opposing indicators pull the score down.
	for _, kw := range SaaSAppKeywords[:5] {
		if strings.Contains(desc, kw) {
			score -= 0.2
		}
	}
	if hint != "" && (strings.Contains(hint, "landing page") || strings.Contains(hint, "marketing")) {
		score += 0.2
	}
	return clamp01(score)
}

func saasAppScore(desc, hint string) float64 {
	score := 0.0
	for _, kw := range SaaSAppKeywords {
		if strings.Contains(desc, kw) {
			score += 0.15
		}
	}
	for _, f := range SaaSAppFeatures {
		if strings.Contains(desc, f) {
			score += 0.1
		}
	}
	for _, kw := range LandingPageKeywords[:5] {
		if strings.Contains(desc, kw) {
			score -= 0.15
		}
	}
	if hint != "" && (strings.Contains(hint, "saas") || strings.Contains(hint, "application")) {
		score += 0.2
	}
	return clamp01(score)
}

// explain quotes up to three matched keywords for the reasoning string.
func explain(desc string, keywords []string, prefix, fallback string) string {
	var found []string
	for _, kw := range keywords {
		if strings.Contains(desc, kw) {
			found = append(found, "'"+kw+"'")
			if len(found) >= 3 {
				break
			}
		}
	}
	if len(found) == 0 {
		return fallback
	}
	return prefix + ": " + strings.Join(found, ", ")
}

// TemplatePath maps a project type to its boilerplate directory.
func TemplatePath(t models.ProjectType) string {
	if t == models.ProjectTypeLandingPage {
		return "boilerplate/landing-page"
	}
	return "boilerplate/saas-app"
}

// SuggestFeatures recommends a starter feature set for a project type.
func SuggestFeatures(t models.ProjectType) []string {
	switch t {
	case models.ProjectTypeLandingPage:
		return []string{"hero_section", "features_showcase", "contact_form", "social_proof"}
	case models.ProjectTypeSaaSApp:
		return []string{"user_authentication", "user_dashboard", "settings_page", "api_routes"}
	default:
		return []string{"user_authentication", "dashboard"}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
