package steps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ShellSteps provides builtin step implementations around shell commands so
// stories can be run standalone from the CLI:
//
//	When I run "make build"
//	Then the output should contain "ok"
//	Then the exit code should be 0
//
// State is confined to one ShellSteps value; use a separate value per
// concurrent story run.
type ShellSteps struct {
	dir string

	lastOutput string
	lastExit   int
}

// NewShellSteps builds shell steps executing in dir.
func NewShellSteps(dir string) *ShellSteps {
	return &ShellSteps{dir: dir}
}

// Register adds the shell step definitions to a registry.
func (s *ShellSteps) Register(r *Registry) {
	r.Given(`the working directory is "$dir"`, s.setDir)
	r.When(`I run "$command"`, s.run)
	r.Then(`the output should contain "$text"`, s.outputContains)
	r.Then(`the output should not contain "$text"`, s.outputNotContains)
	r.Then(`the exit code should be $code`, s.exitCodeIs)
}

func (s *ShellSteps) setDir(ctx context.Context, params map[string]string) error {
	dir := params["dir"]
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("working directory %q: %w", dir, err)
	}
	s.dir = dir
	return nil
}

func (s *ShellSteps) run(ctx context.Context, params map[string]string) error {
	cmdStr := strings.TrimSpace(params["command"])
	if cmdStr == "" {
		return nil
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", cmdStr)
	cmd.Dir = s.dir
	cmd.Env = os.Environ()

	output, err := cmd.CombinedOutput()
	s.lastOutput = string(output)
	s.lastExit = 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			s.lastExit = exitErr.ExitCode()
			return nil
		}
		return fmt.Errorf("command %q failed: %w", cmdStr, err)
	}
	return nil
}

func (s *ShellSteps) outputContains(ctx context.Context, params map[string]string) error {
	if !strings.Contains(s.lastOutput, params["text"]) {
		return fmt.Errorf("output %q does not contain %q", truncate(s.lastOutput, 200), params["text"])
	}
	return nil
}

func (s *ShellSteps) outputNotContains(ctx context.Context, params map[string]string) error {
	if strings.Contains(s.lastOutput, params["text"]) {
		return fmt.Errorf("output contains %q", params["text"])
	}
	return nil
}

func (s *ShellSteps) exitCodeIs(ctx context.Context, params map[string]string) error {
	want, err := strconv.Atoi(strings.TrimSpace(params["code"]))
	if err != nil {
		return fmt.Errorf("invalid exit code %q", params["code"])
	}
	if s.lastExit != want {
		return fmt.Errorf("exit code is %d, want %d", s.lastExit, want)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
