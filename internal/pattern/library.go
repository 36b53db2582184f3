package pattern

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/genesis-agents/genesis/pkg/models"
)

// Complexity grades how much work a pattern is expected to take.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// rank orders complexities from least to most involved. Unknown values
// sort with medium.
func (c Complexity) rank() int {
	switch c {
	case ComplexitySimple:
		return 0
	case ComplexityComplex:
		return 2
	default:
		return 1
	}
}

// Pattern describes one proven implementation template: what to build,
// which files it produces, and what it pulls in.
type Pattern struct {
	ID               string             `json:"id" yaml:"id"`
	Name             string             `json:"name" yaml:"name"`
	Category         models.ProjectType `json:"category" yaml:"category"`
	Description      string             `json:"description" yaml:"description"`
	Keywords         []string           `json:"keywords" yaml:"keywords"`
	Components       []string           `json:"components" yaml:"components"`
	Files            []string           `json:"files_to_create" yaml:"files_to_create"`
	Dependencies     []string           `json:"dependencies" yaml:"dependencies"`
	EstimatedMinutes int                `json:"estimated_time_minutes" yaml:"estimated_time_minutes"`
	Complexity       Complexity         `json:"complexity" yaml:"complexity"`
}

// customFile is the on-disk shape of a user-supplied pattern file.
type customFile struct {
	Patterns []Pattern `yaml:"patterns"`
}

// Library is the registry of known patterns. Lookup order is stable:
// built-ins first, then custom patterns in load order.
type Library struct {
	mu       sync.RWMutex
	patterns map[string]Pattern
	order    []string
}

// NewLibrary creates a library preloaded with the built-in patterns.
func NewLibrary() *Library {
	l := &Library{patterns: make(map[string]Pattern, len(builtinPatterns))}
	for _, p := range builtinPatterns {
		l.patterns[p.ID] = p
		l.order = append(l.order, p.ID)
	}
	return l
}

// Find returns the best keyword match for a feature, or nil when nothing
// scores. Each keyword found in "name description" counts 1.0; the
// feature name appearing inside the pattern name adds 2.0. Ties keep the
// earlier pattern. A non-empty category restricts the search.
func (l *Library) Find(featureName, description string, category models.ProjectType) *Pattern {
	searchText := strings.ToLower(featureName + " " + description)
	lowerName := strings.ToLower(featureName)

	l.mu.RLock()
	defer l.mu.RUnlock()

	var best *Pattern
	bestScore := 0.0
	for _, id := range l.order {
		p := l.patterns[id]
		if !categoryMatches(category, p.Category) {
			continue
		}

		score := 0.0
		for _, kw := range p.Keywords {
			if strings.Contains(searchText, kw) {
				score += 1.0
			}
		}
		if strings.Contains(strings.ToLower(p.Name), lowerName) {
			score += 2.0
		}

		if score > bestScore {
			bestScore = score
			match := p
			best = &match
		}
	}
	return best
}

// ByID returns the pattern with the given id.
func (l *Library) ByID(id string) (Pattern, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.patterns[id]
	return p, ok
}

// ByCategory returns all patterns in a category, in library order.
func (l *Library) ByCategory(category models.ProjectType) []Pattern {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Pattern
	for _, id := range l.order {
		if p := l.patterns[id]; p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// All returns every pattern in library order.
func (l *Library) All() []Pattern {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Pattern, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.patterns[id])
	}
	return out
}

// Len returns the number of registered patterns.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.patterns)
}

// LoadFile reads custom patterns from a YAML file and adds them to the
// library. A custom pattern with an existing id replaces the built-in
// but keeps its lookup position.
func (l *Library) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file customFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse pattern file %s: %w", path, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range file.Patterns {
		if p.ID == "" || p.Name == "" {
			return fmt.Errorf("pattern file %s: every pattern needs an id and a name", path)
		}
		if !p.Category.Valid() || p.Category == models.ProjectTypeUnknown {
			return fmt.Errorf("pattern file %s: pattern %q has unknown category %q", path, p.ID, p.Category)
		}
		if _, exists := l.patterns[p.ID]; !exists {
			l.order = append(l.order, p.ID)
		}
		l.patterns[p.ID] = p
	}
	return nil
}

// categoryMatches applies the optional category filter. Empty and
// unknown act as "no filter".
func categoryMatches(filter, category models.ProjectType) bool {
	if filter == "" || filter == models.ProjectTypeUnknown {
		return true
	}
	return filter == category
}
