package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abdul-hamid-achik/storyspec/packages/core/config"
	"github.com/abdul-hamid-achik/storyspec/packages/core/engine"
	"github.com/abdul-hamid-achik/storyspec/packages/core/loader"
	"github.com/abdul-hamid-achik/storyspec/packages/core/parser"
	"github.com/abdul-hamid-achik/storyspec/packages/history"
	"github.com/abdul-hamid-achik/storyspec/packages/notify"
	"github.com/abdul-hamid-achik/storyspec/packages/output"
	"github.com/abdul-hamid-achik/storyspec/packages/stats"
	"github.com/abdul-hamid-achik/storyspec/packages/steps"
)

var runCmd = &cobra.Command{
	Use:   "run <file|directory>",
	Short: "Run stories from .story files",
	Long: `Run behaviour stories defined in .story files.

Examples:
  storyspec run checkout.story
  storyspec run ./stories/
  storyspec run ./stories/ --meta-filter "+smoke -wip"
  storyspec run checkout.story --output junit --output-file report.xml
  storyspec run ./stories/ --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	configFlag        string
	storyRootFlag     string
	metaFilterFlag    string
	verboseFlag       bool
	noColorFlag       bool
	dryRunFlag        bool
	outputFlag        string
	outputFileFlag    string
	watchFlag         bool
	debugFlag         bool
	timingsFlag       bool
	failOnPendingFlag bool
	silentFailureFlag bool
	skipAfterFailFlag bool
	resetBeforeStory  bool
	historyFlag       string
	webhookFlag       string
	notifyOnFlag      string
)

func init() {
	runCmd.Flags().StringVar(&configFlag, "config", getEnvString("STORYSPEC_CONFIG", ""), "Path to config file (env: STORYSPEC_CONFIG)")
	runCmd.Flags().StringVar(&storyRootFlag, "story-root", getEnvString("STORYSPEC_ROOT", ""), "Base directory for story paths (env: STORYSPEC_ROOT)")
	runCmd.Flags().StringVarP(&metaFilterFlag, "meta-filter", "m", getEnvString("STORYSPEC_META_FILTER", ""), "Meta filter expression, e.g. \"+smoke -skip\" (env: STORYSPEC_META_FILTER)")

	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("STORYSPEC_VERBOSE", false), "Verbose output (env: STORYSPEC_VERBOSE)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("STORYSPEC_NO_COLOR", false), "Disable colored output (env: STORYSPEC_NO_COLOR)")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("STORYSPEC_OUTPUT", "console"), "Output format: console, json, junit (env: STORYSPEC_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("STORYSPEC_OUTPUT_FILE", ""), "Write report to file (default: stdout) (env: STORYSPEC_OUTPUT_FILE)")
	runCmd.Flags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	runCmd.Flags().BoolVar(&timingsFlag, "timings", false, "Print step timing percentiles after the run")

	runCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Report steps without executing their implementations")
	runCmd.Flags().BoolVar(&failOnPendingFlag, "fail-on-pending", false, "Treat pending steps as failures")
	runCmd.Flags().BoolVar(&silentFailureFlag, "silent-failures", false, "Absorb failures instead of failing the run")
	runCmd.Flags().BoolVar(&skipAfterFailFlag, "skip-after-failure", false, "Skip remaining scenarios of a story once one fails")
	runCmd.Flags().BoolVar(&resetBeforeStory, "reset-before-story", false, "Reset execution state at every story boundary")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch story files for changes and re-run")

	runCmd.Flags().StringVar(&historyFlag, "history", getEnvString("STORYSPEC_HISTORY", ""), "SQLite database recording run history (env: STORYSPEC_HISTORY)")
	runCmd.Flags().StringVar(&webhookFlag, "webhook", getEnvString("STORYSPEC_WEBHOOK", ""), "Webhook URL notified with the run summary (env: STORYSPEC_WEBHOOK)")
	runCmd.Flags().StringVar(&notifyOnFlag, "notify-on", getEnvString("STORYSPEC_NOTIFY_ON", "failure"), "When to notify: always, failure, success (env: STORYSPEC_NOTIFY_ON)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func runCommand(cmd *cobra.Command, args []string) error {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "Error loading config: %v\n", err)
		os.Exit(ExitConfigError)
	}
	applyConfig(cmd, fileConfig)

	files, err := collectStoryFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .story files found")
	}

	log := zap.NewNop()
	if debugFlag {
		log, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer log.Sync()
	}

	var store *history.Store
	if historyFlag != "" {
		store, err = history.Open(historyFlag)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error opening history database: %v\n", err)
			os.Exit(ExitConfigError)
		}
		defer store.Close()
	}

	var notifier notify.Notifier
	if webhookFlag != "" {
		notifier = notify.NewWebhookNotifier(webhookFlag)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, failed, runErr := runStories(ctx, cmd, files, fileConfig, log, store, notifier)
	if runErr != nil {
		return runErr
	}

	if !watchFlag {
		if failed || !summary.Passed() {
			os.Exit(ExitStoryFailure)
		}
		return nil
	}

	return watchAndRerun(ctx, cmd, args, files, fileConfig, log, store, notifier)
}

// applyConfig fills in flags the user did not set from the config file.
func applyConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("story-root") && cfg.StoryRoot != "" {
		storyRootFlag = cfg.StoryRoot
	}
	if !flags.Changed("meta-filter") && cfg.MetaFilter != "" {
		metaFilterFlag = cfg.MetaFilter
	}
	if !flags.Changed("verbose") {
		verboseFlag = cfg.GetVerbose()
	}
	if !flags.Changed("no-color") {
		noColorFlag = cfg.GetNoColor()
	}
	if !flags.Changed("dry-run") {
		dryRunFlag = cfg.GetDryRun()
	}
	if !flags.Changed("fail-on-pending") {
		failOnPendingFlag = cfg.PendingStepStrategy == "failing"
	}
	if !flags.Changed("silent-failures") {
		silentFailureFlag = cfg.FailureStrategy == "silent"
	}
	if !flags.Changed("skip-after-failure") {
		skipAfterFailFlag = cfg.GetSkipScenariosAfterFailure()
	}
	if !flags.Changed("reset-before-story") {
		resetBeforeStory = cfg.GetResetStateBeforeStory()
	}
	if !flags.Changed("history") && cfg.HistoryDB != "" {
		historyFlag = cfg.HistoryDB
	}
	if !flags.Changed("webhook") && cfg.WebhookURL != "" {
		webhookFlag = cfg.WebhookURL
	}
	if !flags.Changed("notify-on") && cfg.NotifyOn != "" {
		notifyOnFlag = cfg.NotifyOn
	}
}

// runStories executes one full pass over the story files: before-stories
// hooks, every story in order, after-stories hooks, then report, history and
// notification plumbing. The bool reports whether any story's failure
// strategy escalated.
func runStories(ctx context.Context, cmd *cobra.Command, files []string, cfg *config.Config, log *zap.Logger, store *history.Store, notifier notify.Notifier) (*output.Summary, bool, error) {
	outWriter := cmd.OutOrStdout()
	reportWriter := outWriter
	if outputFileFlag != "" {
		f, err := os.Create(outputFileFlag)
		if err != nil {
			return nil, false, fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
		reportWriter = f
	}

	summary := output.NewSummary()
	reporters := []engine.Reporter{summary}
	var deferred *output.Deferred
	switch strings.ToLower(outputFlag) {
	case "json":
		deferred = output.NewDeferred(output.NewJSONReporter(output.JSONWithWriter(reportWriter)))
		reporters = append(reporters, deferred)
	case "junit":
		deferred = output.NewDeferred(output.NewJUnitReporter(output.JUnitWithWriter(reportWriter)))
		reporters = append(reporters, deferred)
	default:
		reporters = append(reporters, output.NewConsoleReporter(
			output.WithWriter(outWriter),
			output.WithVerbose(verboseFlag),
			output.WithNoColor(noColorFlag),
		))
	}
	reporter := output.NewMulti(reporters...)

	timing := stats.NewCollector()
	registry := steps.NewRegistry()
	steps.NewShellSteps(storyRootFlag).Register(registry)
	collector := steps.NewCollector(registry,
		steps.WithDryRun(dryRunFlag),
		steps.WithObserver(timing.Record),
	)

	runner := engine.NewRunner(engine.Configuration{
		Controls: engine.StoryControls{
			DryRun:                           dryRunFlag,
			ResetStateBeforeStory:            resetBeforeStory,
			ResetStateBeforeScenario:         cfg.GetResetStateBeforeScenario(),
			SkipScenariosAfterFailure:        skipAfterFailFlag,
			SkipScenarioHooksForGivenStories: cfg.GetSkipScenarioHooksForGivenStories(),
		},
		Collector:           collector,
		Loader:              loader.NewFileLoader(storyRootFlag),
		Parser:              parser.New(),
		PathCalculator:      loader.RelativePathCalculator{},
		ReporterFor:         func(string) engine.Reporter { return reporter },
		FailureStrategy:     failureStrategy(),
		PendingStepStrategy: pendingStrategy(),
		Log:                 log,
	})

	filter := engine.EmptyFilter
	if metaFilterFlag != "" {
		filter = engine.NewMetaFilter(metaFilterFlag)
	}

	state, err := runner.RunBeforeOrAfterStories(ctx, engine.StageBefore, nil)
	if err != nil && !isCancelled(ctx) {
		return nil, false, err
	}

	failed := false
	for _, file := range files {
		if isCancelled(ctx) {
			break
		}
		story, err := runner.StoryOfPath(file)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error parsing %s: %v\n", file, err)
			os.Exit(ExitParseError)
		}
		start := time.Now()
		runErr := runner.RunWithState(ctx, story, filter, &state)
		if runErr != nil && !isCancelled(ctx) {
			failed = true
		}
		if store != nil {
			recordRun(cmd, store, file, runErr, time.Since(start))
		}
	}

	if _, err := runner.RunBeforeOrAfterStories(ctx, engine.StageAfter, &state); err != nil && !isCancelled(ctx) {
		fmt.Fprintf(cmd.OutOrStderr(), "After-stories hooks failed: %v\n", err)
	}

	if deferred != nil {
		deferred.Flush()
	}
	if strings.ToLower(outputFlag) == "console" || outputFlag == "" {
		fmt.Fprintln(outWriter)
		summary.Print(outWriter)
	}
	if timingsFlag {
		timing.Print(outWriter)
	}

	if notifier != nil {
		sendNotification(cmd, notifier, summary)
	}
	return summary, failed, nil
}

func failureStrategy() engine.FailureStrategy {
	if silentFailureFlag {
		return engine.SilentlyAbsorb
	}
	return engine.Rethrow
}

func pendingStrategy() engine.FailureStrategy {
	if failOnPendingFlag {
		return engine.FailOnPendingSteps
	}
	return engine.PassOnPendingSteps
}

func recordRun(cmd *cobra.Command, store *history.Store, file string, runErr error, d time.Duration) {
	status := "passed"
	failure := ""
	if runErr != nil {
		status = "failed"
		failure = runErr.Error()
	}
	recCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := store.RecordRun(recCtx, history.RunRecord{
		StoryPath: file,
		Status:    status,
		Failure:   failure,
		Duration:  d,
	}); err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "warning: failed to record run history: %v\n", err)
	}
}

func sendNotification(cmd *cobra.Command, notifier notify.Notifier, s *output.Summary) {
	runSummary := notify.RunSummary{
		Stories:      s.Stories,
		Scenarios:    s.Scenarios,
		Performed:    s.StepsPerformed,
		Failed:       s.StepsFailed,
		Pending:      s.StepsPending,
		NotPerformed: s.StepsNotPerformed,
		Duration:     s.Duration(),
		Failures:     s.FailureMessages,
		Cancelled:    s.WasCancelled,
	}
	if !notify.ShouldNotify(notify.NotifyOn(notifyOnFlag), runSummary) {
		return
	}
	if err := notifier.Notify(runSummary); err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "warning: failed to send notification: %v\n", err)
	}
}

// watchAndRerun blocks watching the story files and re-running the whole
// pass on every change, until the context is cancelled.
func watchAndRerun(ctx context.Context, cmd *cobra.Command, args, files []string, cfg *config.Config, log *zap.Logger, store *history.Store, notifier notify.Notifier) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watchedDirs := make(map[string]bool)
	for _, file := range files {
		dir := filepath.Dir(file)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				fmt.Fprintf(cmd.OutOrStderr(), "failed to watch %s: %v\n", dir, err)
			}
			watchedDirs[dir] = true
		}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			_ = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() && !watchedDirs[path] {
					_ = watcher.Add(path)
					watchedDirs[path] = true
				}
				return nil
			})
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) && isStoryFile(event.Name) {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "\n\nFile changed: %s\nRe-running stories...\n\n", event.Name)
					if _, _, err := runStories(ctx, cmd, files, cfg, log, store, notifier); err != nil {
						fmt.Fprintf(cmd.OutOrStderr(), "Error: %v\n", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")
				})
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStderr(), "watcher error: %v\n", err)
		}
	}
}

func collectStoryFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if info.IsDir() {
			err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && isStoryFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else if isStoryFile(arg) {
			files = append(files, arg)
		}
	}
	return files, nil
}

func isStoryFile(path string) bool {
	return filepath.Ext(path) == ".story"
}

func isCancelled(ctx context.Context) bool {
	return ctx.Err() != nil
}
