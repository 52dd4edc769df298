package cmd

// Exit codes for the storyspec CLI
const (
	// ExitSuccess indicates all stories passed
	ExitSuccess = 0

	// ExitStoryFailure indicates one or more stories failed
	ExitStoryFailure = 1

	// ExitParseError indicates a story parsing error
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
