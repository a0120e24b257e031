// Package indexer builds reference context for a remote GitHub repository.
//
// It is the --repo counterpart of the local tree scanner: instead of walking a
// directory it fetches the repository structure (file tree, language
// breakdown, key config files and files matching the active preset) via the
// GitHub API and serializes it in the same project/file_tree/files shape.
package indexer

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gogh "github.com/google/go-github/v68/github"

	"github.com/jxucoder/promptgen/model"
	"github.com/jxucoder/promptgen/scanner"
)

// keyFileNames are config / entry-point files whose content is always
// included (first ~100 lines) so the model understands the project setup.
var keyFileNames = map[string]bool{
	"README.md":          true,
	"package.json":       true,
	"go.mod":             true,
	"pyproject.toml":     true,
	"Cargo.toml":         true,
	"Makefile":           true,
	"Dockerfile":         true,
	"docker-compose.yml": true,
	"compose.yml":        true,
	"requirements.txt":   true,
	"tsconfig.json":      true,
}

// maxTreeDepth limits the indented tree to the top N directory levels.
const maxTreeDepth = 3

// maxKeyFileLines caps how many lines of each fetched file are included.
const maxKeyFileLines = 100

// maxPresetFiles caps how many preset-matching files are fetched.
const maxPresetFiles = 20

// maxDescriptionLen caps the repository description.
const maxDescriptionLen = 300

// RepoContext holds the structural summary of a repository.
type RepoContext struct {
	Name        string
	Preset      string
	Description string            // repo description from GitHub
	Tree        string            // indented file/directory listing
	Languages   map[string]int    // language name -> percentage
	Files       map[string]string // path -> content snippet
}

// String formats the context in the project/file_tree/files layout used by
// the local scanner.
func (rc *RepoContext) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "<project name=%q source=\"github\" preset=%q>\n", rc.Name, rc.Preset)

	if rc.Description != "" {
		fmt.Fprintf(&b, "<description>%s</description>\n", rc.Description)
	}

	if len(rc.Languages) > 0 {
		b.WriteString("<languages>\n")
		type langPct struct {
			name string
			pct  int
		}
		var langs []langPct
		for name, pct := range rc.Languages {
			langs = append(langs, langPct{name, pct})
		}
		sort.Slice(langs, func(i, j int) bool {
			if langs[i].pct != langs[j].pct {
				return langs[i].pct > langs[j].pct
			}
			return langs[i].name < langs[j].name
		})
		for _, l := range langs {
			fmt.Fprintf(&b, "- %s: %d%%\n", l.name, l.pct)
		}
		b.WriteString("</languages>\n")
	}

	fmt.Fprintf(&b, "<file_tree>\n%s\n</file_tree>\n", rc.Tree)

	if len(rc.Files) > 0 {
		paths := make([]string, 0, len(rc.Files))
		for p := range rc.Files {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		b.WriteString("<files>\n")
		for _, p := range paths {
			fmt.Fprintf(&b, "<file path=%q>\n%s\n</file>\n", p, strings.TrimRight(rc.Files[p], "\n"))
		}
		b.WriteString("</files>\n")
	}

	b.WriteString("</project>")
	return b.String()
}

// Indexer fetches repository snapshots from GitHub.
type Indexer struct {
	gh      *gogh.Client
	presets scanner.Presets
}

// New creates an Indexer. A nil client uses an unauthenticated default client.
func New(gh *gogh.Client, presets scanner.Presets) *Indexer {
	if gh == nil {
		gh = gogh.NewClient(nil)
	}
	return &Indexer{gh: gh, presets: presets}
}

// NewWithToken creates an Indexer authenticated with a personal access token.
func NewWithToken(token string, presets scanner.Presets) *Indexer {
	gh := gogh.NewClient(nil)
	if token != "" {
		gh = gh.WithAuthToken(token)
	}
	return New(gh, presets)
}

// Scan indexes repo ("owner/name") and returns its serialized context.
func (ix *Indexer) Scan(ctx context.Context, presetKey, repo string) (string, error) {
	rc, err := ix.Index(ctx, presetKey, repo)
	if err != nil {
		return "", err
	}
	return rc.String(), nil
}

// Index fetches repository metadata, file tree, key files and preset-matching
// files from the GitHub API.
func (ix *Indexer) Index(ctx context.Context, presetKey, repo string) (*RepoContext, error) {
	owner, repoName, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	preset, presetName := ix.presets.Lookup(presetKey)

	rc := &RepoContext{
		Name:      repoName,
		Preset:    presetName,
		Languages: make(map[string]int),
		Files:     make(map[string]string),
	}

	// 1. Get repo metadata (description, default branch).
	repoInfo, _, err := ix.gh.Repositories.Get(ctx, owner, repoName)
	if err != nil {
		return nil, fmt.Errorf("fetching repo info: %w", err)
	}
	rc.Description = model.Truncate(repoInfo.GetDescription(), maxDescriptionLen)
	defaultBranch := repoInfo.GetDefaultBranch()
	if defaultBranch == "" {
		defaultBranch = "main"
	}

	// 2. Get languages.
	languages, _, err := ix.gh.Repositories.ListLanguages(ctx, owner, repoName)
	if err == nil && len(languages) > 0 {
		var total int
		for _, bytes := range languages {
			total += bytes
		}
		if total > 0 {
			for lang, bytes := range languages {
				rc.Languages[lang] = (bytes * 100) / total
			}
		}
	}

	// 3. Get the recursive file tree.
	tree, _, err := ix.gh.Git.GetTree(ctx, owner, repoName, defaultBranch, true)
	if err != nil {
		return nil, fmt.Errorf("fetching file tree: %w", err)
	}

	rc.Tree = buildTreeString(repoName, tree.Entries)

	if preset.TreeOnly {
		return rc, nil
	}

	// 4. Fetch key files and preset-matching files.
	var fetched int
	for _, path := range selectFiles(tree.Entries, preset) {
		if !isKeyFile(path) {
			if fetched >= maxPresetFiles {
				continue
			}
			fetched++
		}
		content, err := fetchFileContent(ctx, ix.gh, owner, repoName, path, defaultBranch)
		if err != nil {
			log.Printf("indexer: skipping %s: %v", path, err)
			continue
		}
		if content != "" {
			rc.Files[path] = content
		}
	}

	return rc, nil
}

// selectFiles returns blob paths to fetch: top-level key files first, then
// files matching the preset, in tree order.
func selectFiles(entries []*gogh.TreeEntry, preset scanner.Preset) []string {
	var keys, matched []string
	for _, e := range entries {
		if e.GetType() != "blob" {
			continue
		}
		path := e.GetPath()
		switch {
		case isKeyFile(path):
			keys = append(keys, path)
		case matchAny(preset.Include, path) && !matchAny(preset.Exclude, path):
			matched = append(matched, path)
		}
	}
	return append(keys, matched...)
}

// isKeyFile reports whether path is a top-level key file.
func isKeyFile(path string) bool {
	return !strings.Contains(path, "/") && keyFileNames[path]
}

func matchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, path); err == nil && ok {
			return true
		}
	}
	return false
}

// buildTreeString formats tree entries as an indented file listing,
// limited to maxTreeDepth levels.
func buildTreeString(root string, entries []*gogh.TreeEntry) string {
	lines := []string{root + "/"}
	for _, e := range entries {
		path := e.GetPath()
		depth := strings.Count(path, "/")
		if depth >= maxTreeDepth {
			continue
		}

		indent := strings.Repeat("  ", depth+1)
		name := path
		if idx := strings.LastIndex(path, "/"); idx >= 0 {
			name = path[idx+1:]
		}

		if e.GetType() == "tree" {
			lines = append(lines, fmt.Sprintf("%s%s/", indent, name))
		} else {
			lines = append(lines, fmt.Sprintf("%s%s", indent, name))
		}
	}
	return strings.Join(lines, "\n")
}

// fetchFileContent retrieves a file's content from GitHub, truncated to
// maxKeyFileLines.
func fetchFileContent(ctx context.Context, gh *gogh.Client, owner, repo, path, ref string) (string, error) {
	opts := &gogh.RepositoryContentGetOptions{Ref: ref}
	file, _, _, err := gh.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		return "", err
	}
	if file == nil {
		return "", nil
	}

	// GetContent handles base64 decoding internally.
	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding content for %s: %w", path, err)
	}

	return truncateLines(content, maxKeyFileLines), nil
}

// truncateLines keeps only the first n lines of s.
func truncateLines(s string, n int) string {
	lines := strings.SplitN(s, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
		lines = append(lines, "... (truncated)")
	}
	return strings.Join(lines, "\n")
}

// splitRepo parses "owner/repo" into its components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || strings.Contains(parts[1], "/") {
		return "", "", fmt.Errorf("invalid repo format %q, expected \"owner/repo\"", fullName)
	}
	return parts[0], parts[1], nil
}
