// Package acquire builds the reference-code string embedded in prompts.
//
// A Facade delegates to a tree Scanner and, when a database URL is present
// in the environment, to a schema Reporter. Scan failures abort the run;
// schema failures are recorded inline and never abort it.
package acquire

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jxucoder/promptgen/internal/config"
	"github.com/jxucoder/promptgen/schema"
)

// Scanner serializes a source tree. presetKey may be empty.
type Scanner interface {
	Scan(ctx context.Context, presetKey, root string) (string, error)
}

// Reporter describes a database schema.
type Reporter interface {
	Report(ctx context.Context, cfg schema.Config) (string, error)
}

// ScanError is a hard failure of the tree scanner.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("failed to scan %s: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// SchemaError is a soft failure of the schema reporter. It is recorded in
// the reference string and logged, never returned from Acquire.
type SchemaError struct {
	Database string
	Err      error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema report for %s: %v", e.Database, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Facade acquires reference context for a prompt.
type Facade struct {
	Scanner  Scanner
	Reporter Reporter // nil disables schema reporting

	// EnvFile is loaded best-effort before the database URL is read.
	EnvFile string

	// Getenv reads environment variables (default os.Getenv).
	Getenv func(string) string
}

// Acquire scans root and appends a database schema section when a database
// URL is configured. preset may be empty.
func (f *Facade) Acquire(ctx context.Context, preset, root string) (string, error) {
	key := PresetKey(preset, root)

	reference, err := f.Scanner.Scan(ctx, key, root)
	if err != nil {
		return "", &ScanError{Root: root, Err: err}
	}

	if err := config.LoadDotEnv(f.EnvFile); err != nil {
		log.Printf("acquire: %v", err)
	}

	dbURL := f.getenv(config.EnvDatabaseURL)
	if dbURL == "" || f.Reporter == nil {
		return reference, nil
	}

	dbName := schema.DatabaseName(dbURL)
	report, err := f.Reporter.Report(ctx, schema.Config{
		ConnectionString: dbURL,
		DatabaseName:     dbName,
	})
	if err != nil {
		serr := &SchemaError{Database: dbName, Err: err}
		log.Printf("acquire: %v", serr)
		return reference + fmt.Sprintf("\n\n<!-- SQL Context Generation Failed: %s -->", commentSafe(err.Error())), nil
	}

	return reference + "\n\n<database_schema>\n" + report + "\n</database_schema>", nil
}

// commentSafe breaks up "--" so text cannot terminate an HTML comment.
func commentSafe(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "- -")
	}
	return s
}

func (f *Facade) getenv(key string) string {
	if f.Getenv != nil {
		return f.Getenv(key)
	}
	return os.Getenv(key)
}

// PresetKey resolves the preset to scan with: the explicit preset if given,
// else the last path segment of root, else empty. An "owner/name"
// repository resolves to name.
func PresetKey(preset, root string) string {
	if preset != "" {
		return preset
	}
	if root == "" {
		return ""
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return ""
	}
	base := filepath.Base(abs)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return base
}
