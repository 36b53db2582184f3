package pattern

import (
	"sort"
	"strings"

	"github.com/genesis-agents/genesis/pkg/models"
)

// GenericConfidence is the confidence assigned when no library pattern
// matches and a generic component pattern is synthesized instead.
const GenericConfidence = 0.3

// Match is the outcome of matching one feature request against the
// library.
type Match struct {
	Pattern      Pattern   `json:"pattern"`
	Confidence   float64   `json:"confidence"`
	Reasoning    string    `json:"reasoning"`
	Alternatives []Pattern `json:"alternatives,omitempty"`
}

// Generic reports whether this match is a synthesized fallback rather
// than a library pattern.
func (m Match) Generic() bool {
	return strings.HasPrefix(m.Pattern.ID, "custom_")
}

// Matcher maps feature requests onto library patterns with a confidence
// score. It never fails: when nothing in the library fits, it falls back
// to a generic single-component pattern.
type Matcher struct {
	library *Library
}

// NewMatcher creates a matcher over the given library.
func NewMatcher(library *Library) *Matcher {
	return &Matcher{library: library}
}

// Match finds the best pattern for a feature. projectType narrows the
// search when set; pass empty (or unknown) to search both categories.
func (m *Matcher) Match(featureName, description string, projectType models.ProjectType) Match {
	best := m.library.Find(featureName, description, projectType)
	if best == nil {
		return m.genericMatch(featureName, description, projectType)
	}

	return Match{
		Pattern:      *best,
		Confidence:   confidence(featureName, description, *best),
		Reasoning:    explainMatch(featureName, *best),
		Alternatives: m.alternatives(featureName, *best, projectType),
	}
}

// confidence blends three signals: keyword coverage (40%), name
// similarity (30%), and description word overlap (30%).
func confidence(featureName, description string, p Pattern) float64 {
	searchText := strings.ToLower(featureName + " " + description)
	lowerFeature := strings.ToLower(featureName)
	lowerPattern := strings.ToLower(p.Name)

	score := 0.0

	if len(p.Keywords) > 0 {
		matches := 0
		for _, kw := range p.Keywords {
			if strings.Contains(searchText, kw) {
				matches++
			}
		}
		score += float64(matches) / float64(len(p.Keywords)) * 0.4
	}

	if strings.Contains(lowerPattern, lowerFeature) {
		score += 0.3
	} else {
		for _, word := range strings.Fields(lowerFeature) {
			if strings.Contains(lowerPattern, word) {
				score += 0.15
				break
			}
		}
	}

	descWords := strings.Fields(strings.ToLower(description))
	if len(descWords) > 0 {
		patternWords := make(map[string]bool)
		for _, w := range strings.Fields(strings.ToLower(p.Description)) {
			patternWords[w] = true
		}
		common := 0
		seen := make(map[string]bool)
		for _, w := range descWords {
			if patternWords[w] && !seen[w] {
				common++
				seen[w] = true
			}
		}
		score += float64(common) / float64(len(descWords)) * 0.3
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}

func explainMatch(featureName string, p Pattern) string {
	lowerName := strings.ToLower(featureName)
	var matched []string
	for _, kw := range p.Keywords {
		if strings.Contains(lowerName, kw) {
			matched = append(matched, kw)
		}
	}
	if len(matched) > 3 {
		matched = matched[:3]
	}
	if len(matched) > 0 {
		return "Matched to '" + p.Name + "' pattern based on keywords: " + strings.Join(matched, ", ")
	}
	return "Matched to '" + p.Name + "' pattern based on feature description"
}

// alternatives lists up to three other patterns whose keywords appear in
// the feature name, strongest first.
func (m *Matcher) alternatives(featureName string, primary Pattern, projectType models.ProjectType) []Pattern {
	lowerName := strings.ToLower(featureName)
	count := func(p Pattern) int {
		n := 0
		for _, kw := range p.Keywords {
			if strings.Contains(lowerName, kw) {
				n++
			}
		}
		return n
	}

	var alts []Pattern
	for _, p := range m.library.All() {
		if p.ID == primary.ID || !categoryMatches(projectType, p.Category) {
			continue
		}
		if count(p) > 0 {
			alts = append(alts, p)
		}
	}
	sort.SliceStable(alts, func(i, j int) bool {
		return count(alts[i]) > count(alts[j])
	})
	if len(alts) > 3 {
		alts = alts[:3]
	}
	return alts
}

// genericMatch synthesizes a single-component pattern for features the
// library does not know.
func (m *Matcher) genericMatch(featureName, description string, projectType models.ProjectType) Match {
	category := projectType
	if category == "" || category == models.ProjectTypeUnknown {
		category = models.ProjectTypeSaaSApp
	}
	if description == "" {
		description = "Custom " + featureName + " implementation"
	}

	component := strings.ReplaceAll(featureName, " ", "")
	slug := strings.ReplaceAll(strings.ToLower(featureName), " ", "_")
	route := strings.ReplaceAll(strings.ToLower(featureName), " ", "-")

	return Match{
		Pattern: Pattern{
			ID:          "custom_" + slug,
			Name:        featureName,
			Category:    category,
			Description: description,
			Components:  []string{component},
			Files: []string{
				"components/" + component + ".tsx",
				"app/api/" + route + "/route.ts",
			},
			Dependencies:     []string{"tailwindcss"},
			EstimatedMinutes: 30,
			Complexity:       ComplexityMedium,
		},
		Confidence: GenericConfidence,
		Reasoning:  "No exact pattern match - using generic component pattern",
	}
}

// SuggestRelated proposes up to five not-yet-implemented patterns for the
// project type, simplest first.
func (m *Matcher) SuggestRelated(implemented []string, projectType models.ProjectType) []Pattern {
	done := make(map[string]bool, len(implemented))
	for _, f := range implemented {
		done[strings.ReplaceAll(strings.ToLower(f), " ", "_")] = true
	}

	var suggestions []Pattern
	for _, p := range m.library.ByCategory(projectType) {
		if !done[p.ID] {
			suggestions = append(suggestions, p)
		}
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Complexity.rank() < suggestions[j].Complexity.rank()
	})
	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}
	return suggestions
}

// FeatureEstimate is the per-feature slice of a time estimate.
type FeatureEstimate struct {
	Feature    string     `json:"feature"`
	Pattern    string     `json:"pattern"`
	Minutes    int        `json:"minutes"`
	Complexity Complexity `json:"complexity"`
}

// TimeEstimate compares sequential and parallel build times for a
// feature list.
type TimeEstimate struct {
	TotalFeatures   int               `json:"total_features"`
	SetupMinutes    int               `json:"setup_time_minutes"`
	SequentialTotal int               `json:"sequential_time_minutes"`
	ParallelTotal   int               `json:"parallel_time_minutes"`
	Speedup         float64           `json:"speedup"`
	Features        []FeatureEstimate `json:"feature_estimates"`
}

// EstimateTime projects how long a feature list takes sequentially vs
// spread over three parallel workers, including fixed setup overhead.
func (m *Matcher) EstimateTime(features []string, projectType models.ProjectType) TimeEstimate {
	est := TimeEstimate{
		TotalFeatures: len(features),
		SetupMinutes:  15,
	}

	total := 0
	for _, name := range features {
		match := m.Match(name, "", projectType)
		est.Features = append(est.Features, FeatureEstimate{
			Feature:    name,
			Pattern:    match.Pattern.Name,
			Minutes:    match.Pattern.EstimatedMinutes,
			Complexity: match.Pattern.Complexity,
		})
		total += match.Pattern.EstimatedMinutes
	}

	est.SequentialTotal = total
	est.ParallelTotal = est.SetupMinutes + total/3 + total%3
	if est.ParallelTotal > 0 {
		est.Speedup = float64(est.SequentialTotal) / float64(est.ParallelTotal)
	} else {
		est.Speedup = 1.0
	}
	return est
}
