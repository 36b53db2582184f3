// Package scaffold writes generated project workspaces to disk: the
// project directory itself and stub source files for matched patterns.
package scaffold

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/genesis-agents/genesis/internal/pattern"
	"github.com/genesis-agents/genesis/pkg/models"
)

// GeneratedDir is the directory under the workspace root that holds all
// generated projects.
const GeneratedDir = "generated"

// Workspace creates and fills project directories under a root.
type Workspace struct {
	root     string
	debugLog func(format string, args ...interface{})
}

// Option configures a Workspace. Use With* functions to create Options.
type Option func(*Workspace)

// WithRoot sets the directory that holds the generated/ tree. Defaults
// to the current working directory.
func WithRoot(dir string) Option {
	return func(w *Workspace) {
		if dir != "" {
			w.root = dir
		}
	}
}

// WithDebugLog sets the debug log function.
func WithDebugLog(fn func(format string, args ...interface{})) Option {
	return func(w *Workspace) {
		if fn != nil {
			w.debugLog = fn
		}
	}
}

// New creates a Workspace rooted at the current directory unless
// overridden.
func New(opts ...Option) *Workspace {
	w := &Workspace{
		root:     ".",
		debugLog: func(format string, args ...interface{}) {},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ProjectDirName builds the directory name for a generated project.
func ProjectDirName(projectType models.ProjectType, projectID string) string {
	return fmt.Sprintf("genesis-%s-%s", projectType, projectID)
}

// InitProject creates the project directory and its README, returning
// the project path. Calling it again for the same project is a no-op.
func (w *Workspace) InitProject(projectType models.ProjectType, projectID string) (string, error) {
	name := ProjectDirName(projectType, projectID)
	path := filepath.Join(w.root, GeneratedDir, name)

	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("create project directory: %w", err)
	}
	w.debugLog("[scaffold] project directory %s", path)

	readme := filepath.Join(path, "README.md")
	if _, err := os.Stat(readme); os.IsNotExist(err) {
		content := fmt.Sprintf("# %s\n\nGenesis %s project\n", name, projectType)
		if err := os.WriteFile(readme, []byte(content), 0o644); err != nil {
			return "", fmt.Errorf("write README: %w", err)
		}
	}
	return path, nil
}

// InitGit initializes a git repository in the project directory with an
// initial commit covering the README. Skipped silently when the
// directory is already a repository.
func (w *Workspace) InitGit(projectPath string) error {
	if _, err := os.Stat(filepath.Join(projectPath, ".git")); err == nil {
		w.debugLog("[scaffold] git repository already exists in %s", projectPath)
		return nil
	}

	steps := [][]string{
		{"git", "init"},
		{"git", "add", "README.md"},
		{"git", "commit", "-m", "Initial commit: Genesis project setup"},
	}
	for _, step := range steps {
		cmd := exec.Command(step[0], step[1:]...)
		cmd.Dir = projectPath
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("%s: %w: %s", strings.Join(step, " "), err, strings.TrimSpace(string(out)))
		}
	}
	w.debugLog("[scaffold] initialized git repository in %s", projectPath)
	return nil
}

// FindProject locates an existing generated project directory by
// project id and recovers the project type from the directory name.
func (w *Workspace) FindProject(projectID string) (string, models.ProjectType, error) {
	matches, err := filepath.Glob(filepath.Join(w.root, GeneratedDir, "genesis-*-"+projectID))
	if err != nil {
		return "", models.ProjectTypeUnknown, err
	}
	if len(matches) == 0 {
		return "", models.ProjectTypeUnknown, fmt.Errorf("no project directory for %s under %s", projectID, filepath.Join(w.root, GeneratedDir))
	}

	name := filepath.Base(matches[0])
	typePart := strings.TrimSuffix(strings.TrimPrefix(name, "genesis-"), "-"+projectID)
	projectType := models.ProjectType(typePart)
	if !projectType.Valid() {
		projectType = models.ProjectTypeUnknown
	}
	return matches[0], projectType, nil
}

// EmitPattern writes stub files for every file a pattern declares,
// concurrently. Existing files are left untouched. Returns the relative
// paths actually written, in the pattern's declaration order.
func (w *Workspace) EmitPattern(ctx context.Context, projectPath string, p pattern.Pattern) ([]string, error) {
	written := make([]string, len(p.Files))

	g, ctx := errgroup.WithContext(ctx)
	for i, file := range p.Files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			target := filepath.Join(projectPath, filepath.FromSlash(file))
			if _, err := os.Stat(target); err == nil {
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create directory for %s: %w", file, err)
			}
			if err := os.WriteFile(target, []byte(stubContent(file)), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", file, err)
			}
			written[i] = file
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []string
	for _, file := range written {
		if file != "" {
			out = append(out, file)
		}
	}
	w.debugLog("[scaffold] pattern %s: wrote %d of %d files", p.ID, len(out), len(p.Files))
	return out, nil
}

// stubContent produces a placeholder implementation for a generated
// file, shaped by its role in a Next.js project.
func stubContent(file string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))

	switch {
	case strings.HasSuffix(file, "route.ts"):
		return "// Generated by genesis. Replace with the real implementation.\n" +
			"import { NextResponse } from \"next/server\";\n\n" +
			"export async function GET() {\n" +
			"  return NextResponse.json({ status: \"ok\" });\n" +
			"}\n"
	case strings.HasSuffix(file, ".tsx"):
		name := componentName(base)
		return "// Generated by genesis. Replace with the real implementation.\n" +
			"export default function " + name + "() {\n" +
			"  return (\n" +
			"    <section>\n" +
			"      <h2>" + name + "</h2>\n" +
			"    </section>\n" +
			"  );\n" +
			"}\n"
	case strings.HasSuffix(file, ".ts"):
		return "// Generated by genesis. Replace with the real implementation.\nexport {};\n"
	default:
		return "Generated by genesis.\n"
	}
}

// componentName turns a file base name into a valid exported component
// identifier.
func componentName(base string) string {
	var b strings.Builder
	for _, r := range base {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" || unicode.IsDigit(rune(name[0])) {
		return "Component"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
