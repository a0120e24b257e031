// Package app resolves parsed arguments into a prompt and runs the
// generation pipeline: resolve, acquire context, render.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jxucoder/promptgen/model"
	"github.com/jxucoder/promptgen/prompt"
)

// ErrNoCommand means neither a subcommand nor a free-text prompt was given;
// the caller should print help and exit successfully.
var ErrNoCommand = errors.New("no command or prompt given")

// InputError is a failure reading standard input.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return fmt.Sprintf("reading stdin: %v", e.Err) }

func (e *InputError) Unwrap() error { return e.Err }

// Acquirer produces the reference-code string for a scan.
type Acquirer interface {
	Acquire(ctx context.Context, preset, root string) (string, error)
}

// Resolved is the outcome of argument resolution.
type Resolved struct {
	Command model.Command
	Context model.GeneratorContext // ReferenceCode is filled by Run
	Scan    bool
}

// Resolve picks the command, the description and whether a scan is needed.
//
// Description precedence: trimmed stdin (when args.Stdin), then the command's
// own primary text, then model.DefaultDescription.
func Resolve(args model.Args, stdin io.Reader) (*Resolved, error) {
	cmd := args.Command
	if cmd == nil {
		if args.Prompt == "" {
			return nil, ErrNoCommand
		}
		cmd = model.Generic{Prompt: args.Prompt}
	}

	description, err := resolveDescription(args.Stdin, cmd, stdin)
	if err != nil {
		return nil, err
	}

	return &Resolved{
		Command: cmd,
		Context: model.GeneratorContext{
			Description: description,
			Constraints: constraints(cmd),
		},
		Scan: NeedsScan(cmd),
	}, nil
}

// NeedsScan reports whether cmd needs reference context. Architecture works
// from the description and constraints alone.
func NeedsScan(cmd model.Command) bool {
	return cmd.Kind() != model.KindArchitecture
}

func resolveDescription(useStdin bool, cmd model.Command, stdin io.Reader) (string, error) {
	if useStdin {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", &InputError{Err: err}
		}
		if text := strings.TrimSpace(string(data)); text != "" {
			return text, nil
		}
		return model.DefaultDescription, nil
	}
	if text := primaryText(cmd); text != "" {
		return text, nil
	}
	return model.DefaultDescription, nil
}

// primaryText is the free-text field that feeds the template's main slot.
func primaryText(cmd model.Command) string {
	switch c := cmd.(type) {
	case model.Generic:
		return c.Prompt
	case model.Architecture:
		return c.Description
	case model.CodeReview:
		return c.Focus
	case model.Refactor:
		return c.Goal
	}
	return ""
}

func constraints(cmd model.Command) string {
	switch c := cmd.(type) {
	case model.Architecture:
		return c.Context
	case model.Readme:
		return c.Details
	}
	return ""
}

// Runner executes the pipeline for resolved arguments.
type Runner struct {
	Acquirer Acquirer
	Renderer *prompt.Renderer

	// Status is called before scanning; may be nil.
	Status func(format string, args ...any)
}

// Run acquires context when needed and renders the prompt. Nothing is
// returned on failure, so callers never emit partial output.
func (r *Runner) Run(ctx context.Context, args model.Args, res *Resolved) (string, error) {
	gctx := res.Context

	if res.Scan {
		root, what := args.Dir, "directory"
		if args.Repo != "" {
			root, what = args.Repo, "repository"
		}
		if root == "" {
			root = "."
		}
		if r.Status != nil {
			r.Status("Scanning %s: %s", what, root)
		}
		ref, err := r.Acquirer.Acquire(ctx, args.Preset, root)
		if err != nil {
			return "", err
		}
		gctx.ReferenceCode = ref
	}

	renderer := r.Renderer
	if renderer == nil {
		renderer = prompt.New("")
	}
	return renderer.Render(res.Command, gctx)
}
