// Package prompt renders the final prompt text for a resolved command.
//
// Rendering is pure: the same command and generator context always produce
// byte-identical output.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jxucoder/promptgen/model"
)

// ErrNoCommand is returned when Render is called without a command.
var ErrNoCommand = errors.New("no command selected")

// Renderer maps a command and its generator context to a prompt.
type Renderer struct {
	// Stack is the language named in role definitions (default DefaultStack).
	Stack string
}

// New creates a Renderer for the given stack. An empty stack uses DefaultStack.
func New(stack string) *Renderer {
	if stack == "" {
		stack = DefaultStack
	}
	return &Renderer{Stack: stack}
}

// Render renders cmd with the DefaultStack renderer.
func Render(cmd model.Command, gctx model.GeneratorContext) (string, error) {
	return New("").Render(cmd, gctx)
}

// Render selects the template for cmd and fills it from gctx.
func (r *Renderer) Render(cmd model.Command, gctx model.GeneratorContext) (string, error) {
	if cmd == nil {
		return "", ErrNoCommand
	}
	stack := r.Stack
	if stack == "" {
		stack = DefaultStack
	}
	description := gctx.Description
	if description == "" {
		description = model.DefaultDescription
	}

	switch c := cmd.(type) {
	case model.Generic:
		return renderGeneric(description, gctx), nil
	case model.Architecture:
		return renderArchitecture(stack, description, gctx), nil
	case model.CodeReview:
		return renderReview(stack, description, gctx), nil
	case model.Refactor:
		return renderRefactor(stack, description, gctx), nil
	case model.Readme:
		return renderReadme(c, description, gctx), nil
	default:
		return "", fmt.Errorf("unsupported command %q", cmd.Kind())
	}
}

func renderGeneric(description string, gctx model.GeneratorContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, genericHeader, description)
	b.WriteString(formatReference(gctx.ReferenceCode))
	return b.String()
}

func renderArchitecture(stack, description string, gctx model.GeneratorContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, architectureHeader, stack, description)
	b.WriteString(formatConstraints(gctx.Constraints))
	b.WriteString(formatReference(gctx.ReferenceCode))
	b.WriteString(architectureRequirements)
	return b.String()
}

func renderReview(stack, description string, gctx model.GeneratorContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, reviewHeader, stack, description)
	b.WriteString(formatConstraints(gctx.Constraints))
	b.WriteString(formatReference(gctx.ReferenceCode))
	fmt.Fprintf(&b, reviewGuidelines, stack)
	return b.String()
}

func renderRefactor(stack, description string, gctx model.GeneratorContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, refactorHeader, stack, description)
	b.WriteString(formatConstraints(gctx.Constraints))
	b.WriteString(formatReference(gctx.ReferenceCode))
	b.WriteString(refactorRules)
	return b.String()
}

func renderReadme(c model.Readme, description string, gctx model.GeneratorContext) string {
	style := c.Style
	if style == "" {
		style = model.DefaultStyle
	}

	task := fmt.Sprintf(readmeTask, description)
	if gctx.Constraints != "" {
		task += fmt.Sprintf("\n**Specific Constraints:**\n- %s\n", gctx.Constraints)
	}

	parts := []string{fmt.Sprintf(readmeRole, style), task}
	if gctx.ReferenceCode != "" {
		parts = append(parts, readmeContextHeader+fence(gctx.ReferenceCode, "xml"))
	}
	parts = append(parts, readmeRequirements)
	return strings.Join(parts, "\n\n")
}

// formatConstraints renders the constraints block, or nothing when empty.
func formatConstraints(constraints string) string {
	if constraints == "" {
		return ""
	}
	return fmt.Sprintf("\n## CONSTRAINTS\nUser provided:\n- %s\n", constraints)
}

// formatReference renders the reference codebase block, or nothing when empty.
func formatReference(code string) string {
	if code == "" {
		return ""
	}
	return "\n## REFERENCE CODEBASE\nThe user provided the following context:\n\n" + fence(code, "xml") + "\n"
}

// fence wraps content in a backtick fence strictly longer than any backtick
// run inside it, so embedded fences cannot close the block early.
func fence(content, info string) string {
	n := longestRun(content, '`') + 1
	if n < 3 {
		n = 3
	}
	delim := strings.Repeat("`", n)
	return delim + info + "\n" + content + "\n" + delim
}

func longestRun(s string, ch byte) int {
	longest, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == ch {
			cur++
			if cur > longest {
				longest = cur
			}
			continue
		}
		cur = 0
	}
	return longest
}
