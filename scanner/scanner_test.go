package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestScanner(t *testing.T) *Scanner {
	t.Helper()
	s, err := New(nil)
	require.NoError(t, err)
	return s
}

func TestScanRustPreset(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Cargo.toml", "[package]\nname = \"demo\"\n")
	writeFile(t, root, "src/main.rs", "fn main() {}\n")
	writeFile(t, root, "src/app/cli.rs", "pub struct Args;")
	writeFile(t, root, "README.md", "# demo\n")
	writeFile(t, root, "target/debug/build.rs", "// generated\n")

	out, err := newTestScanner(t).Scan(context.Background(), "rust", root)
	require.NoError(t, err)

	assert.Contains(t, out, `preset="rust"`)
	assert.Contains(t, out, "<file path=\"src/main.rs\">\nfn main() {}\n</file>")
	assert.Contains(t, out, "<file path=\"src/app/cli.rs\">\npub struct Args;\n</file>")
	assert.Contains(t, out, "<file path=\"Cargo.toml\">")
	assert.NotContains(t, out, "README.md")
	assert.NotContains(t, out, "build.rs")
	assert.Contains(t, out, "cli.rs")
}

func TestScanUnknownPresetFallsBackToDefault(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "notes.txt", "hello")
	writeFile(t, root, "package-lock.json", "{}")

	out, err := newTestScanner(t).Scan(context.Background(), "no-such-preset", root)
	require.NoError(t, err)

	assert.Contains(t, out, `preset="default"`)
	assert.Contains(t, out, "<file path=\"notes.txt\">\nhello\n</file>")
	assert.NotContains(t, out, "package-lock.json")
}

func TestScanHonoursGitignoreAndSkipDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "secret.txt\nbuild/\n")
	writeFile(t, root, "keep.txt", "keep")
	writeFile(t, root, "secret.txt", "nope")
	writeFile(t, root, "build/out.txt", "nope")
	writeFile(t, root, "node_modules/lib/index.js", "nope")
	writeFile(t, root, ".git/config", "nope")

	out, err := newTestScanner(t).Scan(context.Background(), "", root)
	require.NoError(t, err)

	assert.Contains(t, out, "<file path=\"keep.txt\">")
	assert.NotContains(t, out, "<file path=\"secret.txt\">")
	assert.NotContains(t, out, "out.txt")
	assert.NotContains(t, out, "index.js")
	assert.NotContains(t, out, "nope")
}

func TestScanSkipsBinaryAndLargeFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "blob.bin", "ab\x00cd")
	writeFile(t, root, "big.txt", strings.Repeat("x", maxFileSize+1))
	writeFile(t, root, "small.txt", "ok")

	out, err := newTestScanner(t).Scan(context.Background(), "", root)
	require.NoError(t, err)

	assert.Contains(t, out, "<file path=\"small.txt\">")
	assert.NotContains(t, out, "<file path=\"blob.bin\">")
	assert.NotContains(t, out, "<file path=\"big.txt\">")
	// Skipped bodies still appear in the tree.
	assert.Contains(t, out, "blob.bin")
}

func TestScanTreeOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/lib.rs", "pub fn x() {}")

	out, err := newTestScanner(t).Scan(context.Background(), "tree", root)
	require.NoError(t, err)

	assert.Contains(t, out, "<file_tree>")
	assert.Contains(t, out, "lib.rs")
	assert.NotContains(t, out, "<files>")
	assert.NotContains(t, out, "pub fn x")
}

func TestScanIncludeInTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main")
	writeFile(t, root, "docs/guide.md", "guide body")

	presets := Presets{
		"mixed": {Include: []string{"**/*.go"}, IncludeInTree: []string{"docs/**"}},
	}
	s, err := New(presets)
	require.NoError(t, err)

	out, err := s.Scan(context.Background(), "mixed", root)
	require.NoError(t, err)

	assert.Contains(t, out, "guide.md")
	assert.NotContains(t, out, "guide body")
	assert.Contains(t, out, "<file path=\"main.go\">\npackage main\n</file>")
}

func TestScanMissingRoot(t *testing.T) {
	_, err := newTestScanner(t).Scan(context.Background(), "", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestScanRootIsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "f.txt", "x")
	_, err := newTestScanner(t).Scan(context.Background(), "", filepath.Join(root, "f.txt"))
	assert.ErrorContains(t, err, "not a directory")
}

func TestScanCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestScanner(t).Scan(ctx, "", root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadPresetsOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
presets:
  rust:
    include: ["src/**/*.rs"]
  docs:
    tree_only: true
    include: ["**/*.md"]
`), 0o644))

	presets, err := LoadPresets(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/**/*.rs"}, presets["rust"].Include)
	assert.True(t, presets["docs"].TreeOnly)
	_, ok := presets["go"]
	assert.True(t, ok, "built-in presets are kept")
}

func TestLoadPresetsMissingFile(t *testing.T) {
	_, err := LoadPresets(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	presets, err := DefaultPresets()
	require.NoError(t, err)

	_, name := presets.Lookup("go")
	assert.Equal(t, "go", name)
	_, name = presets.Lookup("")
	assert.Equal(t, DefaultPresetName, name)
	_, name = presets.Lookup("unknown")
	assert.Equal(t, DefaultPresetName, name)
}
