package cli

import (
	"github.com/spf13/cobra"

	"github.com/jxucoder/promptgen/model"
)

func newGenericCommand(opts *Options, flags *globalFlags) *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   string(model.KindGeneric),
		Short: "Render a free-text prompt with code context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, flags, model.Generic{Prompt: text})
		},
	}
	cmd.Flags().StringVar(&text, "prompt", "", "Prompt text")
	cmd.MarkFlagRequired("prompt")
	return cmd
}

func newArchitectureCommand(opts *Options, flags *globalFlags) *cobra.Command {
	var c model.Architecture
	cmd := &cobra.Command{
		Use:   string(model.KindArchitecture),
		Short: "Generate a full project architecture and implementation plan",
		Long: `Generate a full project architecture and implementation plan.

Architecture prompts work from the description and constraints alone, so the
source tree is not scanned.`,
		Example: `  promptgen architecture -d "a CLI that syncs dotfiles" -c "no network access"
  cat idea.md | promptgen architecture --stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, flags, c)
		},
	}
	cmd.Flags().StringVarP(&c.Description, "description", "d", "", "Project description")
	cmd.Flags().StringVarP(&c.Context, "context", "c", "", "Specific constraints or library requirements")
	return cmd
}

func newCodeReviewCommand(opts *Options, flags *globalFlags) *cobra.Command {
	var c model.CodeReview
	cmd := &cobra.Command{
		Use:   string(model.KindCodeReview),
		Short: "Generate a prompt for reviewing existing code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, flags, c)
		},
	}
	cmd.Flags().StringVarP(&c.Focus, "focus", "f", model.DefaultFocus, "Review focus area")
	return cmd
}

func newRefactorCommand(opts *Options, flags *globalFlags) *cobra.Command {
	var c model.Refactor
	cmd := &cobra.Command{
		Use:     string(model.KindRefactor),
		Short:   "Generate a prompt for refactoring toward a goal",
		Example: `  promptgen refactor --goal "move logic out of main.rs" --preset rust`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, flags, c)
		},
	}
	cmd.Flags().StringVarP(&c.Goal, "goal", "g", "", "Refactoring goal")
	cmd.MarkFlagRequired("goal")
	return cmd
}

func newReadmeCommand(opts *Options, flags *globalFlags) *cobra.Command {
	var c model.Readme
	cmd := &cobra.Command{
		Use:   string(model.KindReadme),
		Short: "Generate a prompt for writing README.md",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, flags, c)
		},
	}
	cmd.Flags().StringVarP(&c.Style, "style", "s", model.DefaultStyle, "Tone of the README")
	cmd.Flags().StringVar(&c.Details, "details", "", "Extra details the README must cover")
	return cmd
}
