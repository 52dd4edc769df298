package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/storyspec/packages/core/model"
	"github.com/fatih/color"
)

// ConsoleReporter writes story lifecycle notifications to a terminal.
type ConsoleReporter struct {
	writer  io.Writer
	verbose bool
	noColor bool
	depth   int
}

type ConsoleOption func(*ConsoleReporter)

func NewConsoleReporter(opts ...ConsoleOption) *ConsoleReporter {
	r := &ConsoleReporter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.noColor {
		color.NoColor = true
	}
	return r
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(r *ConsoleReporter) {
		r.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(r *ConsoleReporter) {
		r.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(r *ConsoleReporter) {
		r.noColor = nc
	}
}

func (r *ConsoleReporter) indent() string {
	return strings.Repeat("  ", r.depth)
}

func (r *ConsoleReporter) BeforeStory(story *model.Story, givenStory bool) {
	bold := color.New(color.Bold).SprintFunc()
	if givenStory {
		r.depth++
		fmt.Fprintf(r.writer, "%s%s\n", r.indent(), bold("Given story: "+story.Path))
		return
	}
	fmt.Fprintf(r.writer, "\n%s\n", bold("Story: "+story.Path))
}

func (r *ConsoleReporter) AfterStory(givenStory bool) {
	if givenStory {
		r.depth--
		return
	}
	fmt.Fprintln(r.writer)
}

func (r *ConsoleReporter) Narrative(n model.Narrative) {
	if n.IsEmpty() || !r.verbose {
		return
	}
	faint := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(r.writer, "%s%s\n", r.indent(), faint("In order to "+n.InOrderTo))
	fmt.Fprintf(r.writer, "%s%s\n", r.indent(), faint("As a "+n.AsA))
	fmt.Fprintf(r.writer, "%s%s\n", r.indent(), faint("I want to "+n.IWantTo))
}

func (r *ConsoleReporter) StoryNotAllowed(story *model.Story, filter string) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(r.writer, "%s%s\n", r.indent(), yellow(fmt.Sprintf("- story excluded by filter %q", filter)))
}

func (r *ConsoleReporter) BeforeScenario(title string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(r.writer, "%s%s\n", r.indent(), cyan("Scenario: "+title))
}

func (r *ConsoleReporter) ScenarioMeta(meta model.Meta) {
	if meta.IsEmpty() || !r.verbose {
		return
	}
	faint := color.New(color.Faint).SprintFunc()
	var tags []string
	for _, name := range meta.Names() {
		if v := meta.Property(name); v != "" {
			tags = append(tags, "@"+name+" "+v)
		} else {
			tags = append(tags, "@"+name)
		}
	}
	fmt.Fprintf(r.writer, "%s%s\n", r.indent(), faint(strings.Join(tags, " ")))
}

func (r *ConsoleReporter) ScenarioNotAllowed(scenario *model.Scenario, filter string) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(r.writer, "%s%s\n", r.indent(), yellow(fmt.Sprintf("- scenario excluded by filter %q", filter)))
}

func (r *ConsoleReporter) AfterScenario() {}

func (r *ConsoleReporter) GivenStories(paths []string) {
	faint := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(r.writer, "%s%s\n", r.indent(), faint("GivenStories: "+strings.Join(paths, ", ")))
}

func (r *ConsoleReporter) BeforeExamples(steps []string, table model.ExamplesTable) {
	faint := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(r.writer, "%s%s\n", r.indent(), faint(fmt.Sprintf("Examples (%d rows):", table.RowCount())))
}

func (r *ConsoleReporter) Example(row map[string]string) {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+row[k])
	}
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(r.writer, "%s%s\n", r.indent(), cyan("| "+strings.Join(pairs, " | ")+" |"))
}

func (r *ConsoleReporter) AfterExamples() {}

func (r *ConsoleReporter) Successful(step string) {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(r.writer, "%s  %s %s\n", r.indent(), green("✓"), step)
}

func (r *ConsoleReporter) Pending(step string) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(r.writer, "%s  %s %s %s\n", r.indent(), yellow("?"), step, yellow("(PENDING)"))
}

func (r *ConsoleReporter) NotPerformed(step string) {
	faint := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(r.writer, "%s  %s %s %s\n", r.indent(), faint("-"), faint(step), faint("(NOT PERFORMED)"))
}

func (r *ConsoleReporter) Failed(step string, cause error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(r.writer, "%s  %s %s %s\n", r.indent(), red("✗"), step, red(fmt.Sprintf("(%v)", cause)))
}

func (r *ConsoleReporter) PendingMethods(methods []string) {
	if len(methods) == 0 {
		return
	}
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(r.writer, "%s%s\n", r.indent(), yellow("Missing step implementations:"))
	for _, m := range methods {
		fmt.Fprintf(r.writer, "%s%s\n", r.indent(), m)
	}
}

func (r *ConsoleReporter) Restarted(step string, reason error) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(r.writer, "%s  %s %s %s\n", r.indent(), yellow("↻"), step, yellow(fmt.Sprintf("(%v)", reason)))
}

func (r *ConsoleReporter) Cancelled() {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(r.writer, "%s%s\n", r.indent(), red("Run cancelled"))
}

func (r *ConsoleReporter) DryRun() {
	faint := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(r.writer, "%s%s\n", r.indent(), faint("(dry run)"))
}
