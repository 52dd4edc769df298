// Package config loads and manages storyspec configuration: story controls,
// failure strategies, reporter selection, and output options. Config files
// are discovered as .storyspec.config.json / .storyspec.yaml and friends.
package config
