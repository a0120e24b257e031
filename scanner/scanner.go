// Package scanner serializes a local source tree into a single text snapshot
// suitable for embedding in an LLM prompt.
//
// The snapshot holds an indented file tree followed by the content of every
// file selected by the active preset:
//
//	<project name="app" preset="rust">
//	<file_tree>
//	...
//	</file_tree>
//	<files>
//	<file path="src/main.rs">
//	...
//	</file>
//	</files>
//	</project>
package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/xlab/treeprint"
)

// maxFileSize skips files larger than this many bytes.
const maxFileSize = 100 * 1024

// binarySniffLen is how much of a file is inspected for NUL bytes.
const binarySniffLen = 8000

// skipDirNames are never descended into.
var skipDirNames = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
}

// Scanner walks local directories using a set of presets.
type Scanner struct {
	presets Presets
}

// New creates a Scanner. A nil presets map uses the built-in presets.
func New(presets Presets) (*Scanner, error) {
	if presets == nil {
		p, err := DefaultPresets()
		if err != nil {
			return nil, fmt.Errorf("loading built-in presets: %w", err)
		}
		presets = p
	}
	return &Scanner{presets: presets}, nil
}

// Presets returns the scanner's preset table.
func (s *Scanner) Presets() Presets { return s.presets }

// file is one entry selected by a scan.
type file struct {
	path    string // slash-separated, relative to root
	content string
	hasBody bool
}

// Scan walks root with the preset named presetKey and returns the serialized
// snapshot. Unknown preset keys fall back to the default preset.
func (s *Scanner) Scan(ctx context.Context, presetKey, root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return "", fmt.Errorf("reading scan root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("scan root %s is not a directory", absRoot)
	}

	preset, name := s.presets.Lookup(presetKey)

	ignored := loadGitignore(absRoot)

	files, err := collect(ctx, absRoot, preset, ignored)
	if err != nil {
		return "", err
	}

	return render(filepath.Base(absRoot), name, preset, files), nil
}

func collect(ctx context.Context, root string, preset Preset, ignored *ignore.GitIgnore) ([]file, error) {
	var files []file

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // skip entries we can't read
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			base := d.Name()
			if strings.HasPrefix(base, ".") || skipDirNames[base] {
				return filepath.SkipDir
			}
			if ignored != nil && (ignored.MatchesPath(rel) || ignored.MatchesPath(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if ignored != nil && ignored.MatchesPath(rel) {
			return nil
		}
		if matchAny(preset.Exclude, rel) {
			return nil
		}

		included := matchAny(preset.Include, rel)
		if !included && !matchAny(preset.IncludeInTree, rel) {
			return nil
		}

		f := file{path: rel}
		if included && !preset.TreeOnly {
			content, ok := readText(path)
			if ok {
				f.content = content
				f.hasBody = true
			}
		}
		files = append(files, f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].path < files[j].path })
	return files, nil
}

// readText returns the file content when it is small, valid UTF-8 text.
func readText(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || info.Size() > maxFileSize {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	sniff := data
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}
	if bytes.IndexByte(sniff, 0) >= 0 || !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("scanner: ignoring unreadable %s: %v", path, err)
		}
		return nil
	}
	return gi
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		ok, err := doublestar.Match(p, rel)
		if err != nil {
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

func render(rootName, presetName string, preset Preset, files []file) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<project name=%q preset=%q>\n", rootName, presetName)
	fmt.Fprintf(&b, "<file_tree>\n%s</file_tree>\n", buildTree(rootName, files))

	if !preset.TreeOnly {
		b.WriteString("<files>\n")
		for _, f := range files {
			if !f.hasBody {
				continue
			}
			fmt.Fprintf(&b, "<file path=%q>\n%s", f.path, f.content)
			if !strings.HasSuffix(f.content, "\n") {
				b.WriteString("\n")
			}
			b.WriteString("</file>\n")
		}
		b.WriteString("</files>\n")
	}

	b.WriteString("</project>")
	return b.String()
}

// buildTree renders the selected paths as an indented tree.
func buildTree(rootName string, files []file) string {
	tree := treeprint.NewWithRoot(rootName)
	branches := map[string]treeprint.Tree{"": tree}

	for _, f := range files {
		parts := strings.Split(f.path, "/")
		parent := tree
		dir := ""
		for _, part := range parts[:len(parts)-1] {
			if dir == "" {
				dir = part
			} else {
				dir = dir + "/" + part
			}
			br, ok := branches[dir]
			if !ok {
				br = parent.AddBranch(part)
				branches[dir] = br
			}
			parent = br
		}
		parent.AddNode(parts[len(parts)-1])
	}

	return strings.TrimRight(tree.String(), "\n") + "\n"
}
