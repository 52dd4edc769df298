package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/storyspec/packages/core/parser"
)

var listCmd = &cobra.Command{
	Use:   "list <file|directory>",
	Short: "List scenarios in story files",
	Long: `List the scenarios defined in .story files without running them.

Examples:
  storyspec list checkout.story
  storyspec list ./stories/`,
	Args: cobra.MinimumNArgs(1),
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	files, err := collectStoryFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .story files found")
	}

	p := parser.New()
	for _, file := range files {
		text, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error reading %s: %v\n", file, err)
			continue
		}
		story, err := p.ParseStory(string(text), file)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error parsing %s: %v\n", file, err)
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%s:\n", file)
		for i := range story.Scenarios {
			scenario := &story.Scenarios[i]
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", scenario.Title)
			if names := scenario.Meta.Names(); len(names) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "    meta: %v\n", names)
			}
			if paths := scenario.GivenStories.Paths(); len(paths) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "    given: %v\n", paths)
			}
			if scenario.Parameterised() {
				fmt.Fprintf(cmd.OutOrStdout(), "    examples: %d rows\n", scenario.Table.RowCount())
			}
		}
	}
	return nil
}
