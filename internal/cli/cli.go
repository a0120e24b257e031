// Package cli declares the promptgen command line and wires parsing,
// resolution, context acquisition and rendering together.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jxucoder/promptgen/internal/acquire"
	"github.com/jxucoder/promptgen/internal/app"
	"github.com/jxucoder/promptgen/internal/config"
	"github.com/jxucoder/promptgen/internal/indexer"
	"github.com/jxucoder/promptgen/model"
	"github.com/jxucoder/promptgen/prompt"
	"github.com/jxucoder/promptgen/scanner"
	"github.com/jxucoder/promptgen/schema"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Options configures Execute. Zero values use the process defaults.
type Options struct {
	Version string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer

	// NewAcquirer builds the context acquirer for a run.
	NewAcquirer func(cfg *config.Config, args model.Args) (app.Acquirer, error)

	// Copy writes the prompt to the clipboard for --copy.
	Copy func(string) error
}

// runError marks a failure after argument parsing succeeded.
type runError struct{ err error }

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

// globalFlags are shared by the root command and every subcommand.
type globalFlags struct {
	prompt string
	preset string
	dir    string
	repo   string
	stdin  bool
	copy   bool
}

// Execute runs promptgen with argv (without the program name) and returns
// the process exit code.
func Execute(ctx context.Context, argv []string, opts Options) int {
	opts = withDefaults(opts)

	root := newRootCommand(&opts)
	root.SetArgs(argv)
	root.SetIn(opts.Stdin)
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return ExitOK
	}

	var re *runError
	if errors.As(err, &re) {
		fmt.Fprintf(opts.Stderr, "Error: %v\n", re.err)
		return ExitFailure
	}
	fmt.Fprintf(opts.Stderr, "Error: %v\nRun '%s --help' for usage.\n", err, cmd.CommandPath())
	return ExitUsage
}

func withDefaults(opts Options) Options {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.NewAcquirer == nil {
		opts.NewAcquirer = newAcquirer
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	return opts
}

func newRootCommand(opts *Options) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "promptgen",
		Short: "Generate structured LLM prompts for software-engineering tasks",
		Long: `promptgen builds structured prompts for a large-language-model from a task,
a short description and a snapshot of your source tree.

  promptgen --prompt "explain the build"            Generic prompt with code context
  promptgen architecture -d "a rate limiter"        Architecture and implementation plan
  promptgen code-review --focus "error handling"    Senior code review
  promptgen refactor --goal "split main.rs"         Refactoring plan
  promptgen readme --style Playful                  README.md generation

Set DATABASE_URL (or put it in .env) to append the database schema.`,
		Version:          opts.Version,
		Args:             cobra.NoArgs,
		SilenceErrors:    true,
		SilenceUsage:     true,
		TraverseChildren: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, flags, nil)
		},
	}

	// Root-only so it does not clash with generic's own --prompt; TraverseChildren
	// still accepts it ahead of a subcommand name.
	root.Flags().StringVar(&flags.prompt, "prompt", "", "Free-text prompt (renders the generic template)")

	pf := root.PersistentFlags()
	pf.StringVar(&flags.preset, "preset", "", "Scan preset key (default: name of the scanned directory)")
	pf.StringVar(&flags.dir, "dir", ".", "Directory to scan for code context")
	pf.StringVar(&flags.repo, "repo", "", "Index a GitHub repository (owner/repo) instead of --dir")
	pf.BoolVar(&flags.stdin, "stdin", false, "Read the description from standard input")
	pf.BoolVar(&flags.copy, "copy", false, "Also copy the prompt to the clipboard")

	root.AddCommand(
		newGenericCommand(opts, flags),
		newArchitectureCommand(opts, flags),
		newCodeReviewCommand(opts, flags),
		newRefactorCommand(opts, flags),
		newReadmeCommand(opts, flags),
	)
	return root
}

// run resolves, acquires and renders, then writes the prompt in one piece.
func run(cmd *cobra.Command, opts *Options, flags *globalFlags, command model.Command) error {
	args := model.Args{
		Prompt:  flags.prompt,
		Preset:  flags.preset,
		Dir:     flags.dir,
		Repo:    flags.repo,
		Stdin:   flags.stdin,
		Command: command,
	}

	res, err := app.Resolve(args, opts.Stdin)
	if errors.Is(err, app.ErrNoCommand) {
		return cmd.Help()
	}
	if err != nil {
		return &runError{err}
	}

	cfg, err := config.Load()
	if err != nil {
		return &runError{err}
	}

	runner := &app.Runner{
		Renderer: prompt.New(cfg.Stack),
		Status:   statusPrinter(opts.Stderr),
	}
	if res.Scan {
		if err := cfg.Validate(); err != nil {
			return &runError{err}
		}
		acq, err := opts.NewAcquirer(cfg, args)
		if err != nil {
			return &runError{err}
		}
		runner.Acquirer = acq
	}

	out, err := runner.Run(cmd.Context(), args, res)
	if err != nil {
		return &runError{err}
	}

	fmt.Fprintln(opts.Stdout, out)

	if flags.copy {
		if err := opts.Copy(out); err != nil {
			log.Printf("clipboard: %v", err)
		}
	}
	return nil
}

// newAcquirer builds the default facade: a local scanner, or the GitHub
// indexer when --repo is set, plus the schema reporter.
func newAcquirer(cfg *config.Config, args model.Args) (app.Acquirer, error) {
	presets, err := scanner.LoadPresets(cfg.PresetsFile)
	if err != nil {
		return nil, err
	}
	if args.Preset != "" {
		if _, ok := presets[args.Preset]; !ok {
			log.Printf("scanner: no preset %q, using %q", args.Preset, scanner.DefaultPresetName)
		}
	}

	var sc acquire.Scanner
	if args.Repo != "" {
		sc = indexer.NewWithToken(cfg.GitHubToken, presets)
	} else {
		local, err := scanner.New(presets)
		if err != nil {
			return nil, err
		}
		sc = local
	}

	return &acquire.Facade{
		Scanner:  sc,
		Reporter: schema.NewReporter(),
		EnvFile:  cfg.EnvFile,
	}, nil
}

func statusPrinter(w io.Writer) func(string, ...any) {
	c := color.New(color.FgCyan)
	return func(format string, args ...any) {
		c.Fprintf(w, "🔍 "+format+"\n", args...)
	}
}
