// Package model defines the core domain types shared across all promptgen packages.
// It has zero dependencies on other promptgen packages.
package model

// Defaults applied before a command reaches the renderer.
const (
	DefaultDescription = "A generic software project"
	DefaultFocus       = "General Code Health"
	DefaultStyle       = "Professional and Concise"
)

// Kind names a prompt command. The value doubles as the CLI subcommand name.
type Kind string

const (
	KindGeneric      Kind = "generic"
	KindArchitecture Kind = "architecture"
	KindCodeReview   Kind = "code-review"
	KindRefactor     Kind = "refactor"
	KindReadme       Kind = "readme"
)

// Command is the selected prompt task. Exactly one variant is active per
// invocation; the set of variants is closed.
type Command interface {
	Kind() Kind
	isCommand()
}

// Generic renders a free-text prompt verbatim.
type Generic struct {
	Prompt string
}

// Architecture asks for a full architecture and implementation plan.
type Architecture struct {
	Description string // optional
	Context     string // optional constraints
}

// CodeReview asks for a senior code review.
type CodeReview struct {
	Focus string
}

// Refactor asks for a refactoring toward a stated goal.
type Refactor struct {
	Goal string // required by the argument layer
}

// Readme asks for a README.md.
type Readme struct {
	Style   string
	Details string // optional constraints
}

func (Generic) Kind() Kind      { return KindGeneric }
func (Architecture) Kind() Kind { return KindArchitecture }
func (CodeReview) Kind() Kind   { return KindCodeReview }
func (Refactor) Kind() Kind     { return KindRefactor }
func (Readme) Kind() Kind       { return KindReadme }

func (Generic) isCommand()      {}
func (Architecture) isCommand() {}
func (CodeReview) isCommand()   {}
func (Refactor) isCommand()     {}
func (Readme) isCommand()       {}

// Args is the raw parsed command line. Empty strings mean "not supplied".
type Args struct {
	// Prompt is the top-level free-text prompt used when no subcommand is given.
	Prompt string

	// Preset selects a scan configuration by key.
	Preset string

	// Dir is the directory to scan (default ".").
	Dir string

	// Repo is an "owner/name" GitHub repository to index instead of Dir.
	Repo string

	// Stdin reads the description from standard input.
	Stdin bool

	// Command is the explicit subcommand, nil when none was given.
	Command Command
}

// GeneratorContext is the resolved, template-ready bundle.
type GeneratorContext struct {
	Description   string // never empty at render time
	Constraints   string
	ReferenceCode string
}

// Truncate shortens a string to maxLen runes, adding "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 3 {
		r := []rune(s)
		if len(r) <= maxLen {
			return s
		}
		return string(r[:maxLen])
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
