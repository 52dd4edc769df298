package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.story"), []byte("Scenario: s\nGiven x\n"), 0o644))

	l := NewFileLoader(dir)
	text, err := l.LoadStoryText("a.story")
	require.NoError(t, err)
	assert.Contains(t, text, "Scenario: s")

	_, err = l.LoadStoryText("missing.story")
	assert.Error(t, err)
}

func TestFileLoaderAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.story")
	require.NoError(t, os.WriteFile(path, []byte("Given x\n"), 0o644))

	l := NewFileLoader("/somewhere/else")
	text, err := l.LoadStoryText(path)
	require.NoError(t, err)
	assert.Contains(t, text, "Given x")
}

func TestRelativePathCalculator(t *testing.T) {
	calc := RelativePathCalculator{}

	tests := []struct {
		name   string
		parent string
		child  string
		want   string
	}{
		{"sibling", "stories/checkout.story", "setup.story", "stories/setup.story"},
		{"subdirectory", "stories/checkout.story", "pre/cart.story", "stories/pre/cart.story"},
		{"rooted", "stories/checkout.story", "/shared/login.story", "shared/login.story"},
		{"parent at base", "checkout.story", "setup.story", "setup.story"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.Calculate(tt.parent, tt.child))
		})
	}
}
