package config

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		StoryRoot:                        "",
		DryRun:                           BoolPtr(false),
		ResetStateBeforeStory:            BoolPtr(false),
		ResetStateBeforeScenario:         BoolPtr(true),
		SkipScenariosAfterFailure:        BoolPtr(false),
		SkipScenarioHooksForGivenStories: BoolPtr(false),
		FailureStrategy:                  "rethrow",
		PendingStepStrategy:              "passing",
		Reporters:                        []string{"console"},
		OutputDir:                        "",
		NoColor:                          BoolPtr(false),
		Verbose:                          BoolPtr(false),
		NotifyOn:                         "failure",
	}
}
