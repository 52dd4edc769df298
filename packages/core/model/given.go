package model

// GivenStory references another story to execute as a prerequisite of a
// scenario. Anchor holds the raw `#{...}` suffix of the reference when
// present, which marks the reference as requiring externally supplied
// parameters. Parameters are the overrides passed into the referenced story.
type GivenStory struct {
	Path       string
	Anchor     string
	Parameters map[string]string
}

// RequiresParameters reports whether the reference expects parameters to be
// supplied by the surrounding run.
func (g GivenStory) RequiresParameters() bool {
	return g.Anchor != ""
}

// GivenStories is the ordered list of prerequisite story references of a
// scenario.
type GivenStories struct {
	stories []GivenStory
}

// NewGivenStories builds a reference list.
func NewGivenStories(stories ...GivenStory) GivenStories {
	return GivenStories{stories: append([]GivenStory(nil), stories...)}
}

// Stories returns the references in order.
func (g GivenStories) Stories() []GivenStory {
	return append([]GivenStory(nil), g.stories...)
}

// Paths returns the referenced paths in order.
func (g GivenStories) Paths() []string {
	out := make([]string, 0, len(g.stories))
	for _, s := range g.stories {
		out = append(out, s.Path)
	}
	return out
}

// RequireParameters reports whether any reference requires externally
// supplied parameters.
func (g GivenStories) RequireParameters() bool {
	for _, s := range g.stories {
		if s.RequiresParameters() {
			return true
		}
	}
	return false
}
