package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/storyspec/packages/core/parser"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>",
	Short: "Validate story files for syntax errors",
	Long: `Validate .story files for syntax errors without executing them.

Examples:
  storyspec validate checkout.story
  storyspec validate ./stories/`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := collectStoryFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .story files found")
	}

	p := parser.New()
	hasErrors := false
	for _, file := range files {
		text, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error reading %s: %v\n", file, err)
			hasErrors = true
			continue
		}
		if _, err := p.ParseStory(string(text), file); err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
		}
	}

	if hasErrors {
		os.Exit(ExitParseError)
	}
	return nil
}
