package pattern

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/genesis-agents/genesis/pkg/models"
)

func TestLibraryFind(t *testing.T) {
	lib := NewLibrary()

	tests := []struct {
		name        string
		feature     string
		description string
		category    models.ProjectType
		wantID      string
	}{
		{"hero by keyword", "hero", "", "", "lp_hero_section"},
		{"auth by keyword and name", "auth", "", "", "saas_authentication"},
		{"dashboard", "dashboard", "main overview page", "", "saas_dashboard"},
		{"description carries the signal", "social", "customer testimonials and reviews", "", "lp_social_proof"},
		{"category filter picks the landing pattern", "pricing", "", models.ProjectTypeLandingPage, "lp_pricing_table"},
		{"billing is saas only", "billing", "", models.ProjectTypeSaaSApp, "saas_billing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lib.Find(tt.feature, tt.description, tt.category)
			if got == nil {
				t.Fatalf("Find(%q) = nil, want %s", tt.feature, tt.wantID)
			}
			if got.ID != tt.wantID {
				t.Errorf("Find(%q) = %s, want %s", tt.feature, got.ID, tt.wantID)
			}
		})
	}
}

func TestLibraryFindNoMatch(t *testing.T) {
	lib := NewLibrary()
	if got := lib.Find("quantum flux capacitor", "", ""); got != nil {
		t.Errorf("Find() = %s, want nil for unmatched feature", got.ID)
	}
	// A landing-page-only search must not see saas patterns.
	if got := lib.Find("billing", "", models.ProjectTypeLandingPage); got != nil {
		t.Errorf("Find() = %s, want nil when category filters out the match", got.ID)
	}
}

func TestLibraryByCategory(t *testing.T) {
	lib := NewLibrary()

	landing := lib.ByCategory(models.ProjectTypeLandingPage)
	saas := lib.ByCategory(models.ProjectTypeSaaSApp)

	if len(landing) != 6 {
		t.Errorf("landing patterns = %d, want 6", len(landing))
	}
	if len(saas) != 7 {
		t.Errorf("saas patterns = %d, want 7", len(saas))
	}
	if lib.Len() != 13 {
		t.Errorf("Len() = %d, want 13", lib.Len())
	}
	if landing[0].ID != "lp_hero_section" {
		t.Errorf("first landing pattern = %s, want lp_hero_section (library order)", landing[0].ID)
	}
}

func TestLibraryLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patterns.yaml")
	content := `patterns:
  - id: lp_blog
    name: Blog Section
    category: landing_page
    description: Article list with detail pages
    keywords: ["blog", "articles", "posts"]
    components: ["BlogList", "BlogPost"]
    files_to_create:
      - components/BlogList.tsx
      - app/blog/[slug]/page.tsx
    dependencies: ["tailwindcss", "gray-matter"]
    estimated_time_minutes: 25
    complexity: medium
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	lib := NewLibrary()
	if err := lib.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if lib.Len() != 14 {
		t.Errorf("Len() = %d after load, want 14", lib.Len())
	}
	p, ok := lib.ByID("lp_blog")
	if !ok {
		t.Fatal("custom pattern not found by id")
	}
	if p.EstimatedMinutes != 25 || p.Complexity != ComplexityMedium {
		t.Errorf("custom pattern = %+v, mis-parsed", p)
	}
	if got := lib.Find("blog", "", models.ProjectTypeLandingPage); got == nil || got.ID != "lp_blog" {
		t.Errorf("Find(blog) should reach the custom pattern, got %v", got)
	}
}

func TestLibraryLoadFileReplacesByID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patterns.yaml")
	content := `patterns:
  - id: lp_faq
    name: FAQ Section
    category: landing_page
    description: Override with fewer files
    keywords: ["faq"]
    files_to_create: ["components/FAQ.tsx"]
    estimated_time_minutes: 10
    complexity: simple
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	lib := NewLibrary()
	if err := lib.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if lib.Len() != 13 {
		t.Errorf("Len() = %d, want 13 (override, not append)", lib.Len())
	}
	p, _ := lib.ByID("lp_faq")
	if p.EstimatedMinutes != 10 {
		t.Errorf("override EstimatedMinutes = %d, want 10", p.EstimatedMinutes)
	}
}

func TestLibraryLoadFileRejectsBadPatterns(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"missing id", "patterns:\n  - name: No ID\n    category: landing_page\n"},
		{"bad category", "patterns:\n  - id: x\n    name: X\n    category: mobile_app\n"},
		{"not yaml", "{{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if err := NewLibrary().LoadFile(path); err == nil {
				t.Error("LoadFile() should reject the file")
			}
		})
	}
}
