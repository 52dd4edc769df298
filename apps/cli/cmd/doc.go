// Package cmd implements the storyspec CLI commands.
package cmd
