package vcs

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"testing"
	"time"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestParseLines(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected []string
	}{
		{
			name:     "empty input",
			input:    []byte(""),
			expected: nil,
		},
		{
			name:     "single line",
			input:    []byte("git version 2.39.0"),
			expected: []string{"git version 2.39.0"},
		},
		{
			name:     "lines with whitespace",
			input:    []byte("  line1  \n  line2  "),
			expected: []string{"line1", "line2"},
		},
		{
			name:     "empty lines filtered",
			input:    []byte("line1\n\nline2\n\n\nline3"),
			expected: []string{"line1", "line2", "line3"},
		},
		{
			name:     "trailing newline",
			input:    []byte("line1\nline2\n"),
			expected: []string{"line1", "line2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseLines(tt.input)

			if len(result) != len(tt.expected) {
				t.Fatalf("Expected %d lines, got %d", len(tt.expected), len(result))
			}

			for i, line := range result {
				if line != tt.expected[i] {
					t.Errorf("Line %d: expected '%s', got '%s'", i, tt.expected[i], line)
				}
			}
		})
	}
}

func TestSplitFirstLine(t *testing.T) {
	first, rest := SplitFirstLine([]byte("git version 2.39.0\nextra\n"))
	if first != "git version 2.39.0" {
		t.Errorf("Expected first line, got '%s'", first)
	}
	if len(rest) != 1 || rest[0] != "extra" {
		t.Errorf("Expected [extra], got %v", rest)
	}

	first, rest = SplitFirstLine(nil)
	if first != "" || rest != nil {
		t.Errorf("Expected empty result, got '%s' %v", first, rest)
	}
}

func TestTrimOutput(t *testing.T) {
	if got := TrimOutput([]byte("\n\n  content\n\n")); got != "content" {
		t.Errorf("Expected 'content', got '%s'", got)
	}
}

func TestMergeEnv(t *testing.T) {
	base := []string{"HOME=/home/u", "GIT_ASKPASS=/old", "PATH=/bin"}
	overlay := map[string]string{
		"GIT_ASKPASS":         "/new",
		"GIT_TERMINAL_PROMPT": "0",
	}

	got := MergeEnv(base, overlay)
	want := []string{"HOME=/home/u", "PATH=/bin", "GIT_ASKPASS=/new", "GIT_TERMINAL_PROMPT=0"}

	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if same := MergeEnv(base, nil); len(same) != len(base) {
		t.Errorf("Expected base unchanged, got %v", same)
	}
}

func TestExecContext(t *testing.T) {
	skipOnWindows(t)

	output, err := ExecContext(context.Background(), 5*time.Second, t.TempDir(), "echo", "test")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result := TrimOutput(output); result != "test" {
		t.Errorf("Expected 'test', got '%s'", result)
	}
}

func TestCommandOverlay(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	overlay := map[string]string{"GITBRIDGE_TEST_VALUE": "overlay"}
	cmd := Command(context.Background(), dir, overlay, "sh", "-c", "printf %s \"$GITBRIDGE_TEST_VALUE\"")
	if cmd.Dir != dir {
		t.Errorf("Expected dir %s, got %s", dir, cmd.Dir)
	}

	output, err := cmd.Output()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(output) != "overlay" {
		t.Errorf("Expected 'overlay', got '%s'", output)
	}
}

func TestExecContextStderr(t *testing.T) {
	skipOnWindows(t)

	_, err := ExecContext(context.Background(), 5*time.Second, t.TempDir(), "sh", "-c", "echo boom >&2; exit 3")
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("Expected stderr in error, got %v", err)
	}
	if code := GetExitCode(err); code != 3 {
		t.Errorf("Expected exit code 3, got %d", code)
	}
}

func TestExecContextTimeout(t *testing.T) {
	skipOnWindows(t)

	_, err := ExecContext(context.Background(), 100*time.Millisecond, t.TempDir(), "sleep", "2")
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Expected ErrTimeout, got %v", err)
	}
}

func TestIsExitError(t *testing.T) {
	skipOnWindows(t)

	if IsExitError(nil) {
		t.Error("Expected false for nil error")
	}

	if err := exec.Command("sh", "-c", "exit 0").Run(); IsExitError(err) {
		t.Error("Expected false for successful command")
	}

	if err := exec.Command("sh", "-c", "exit 1").Run(); !IsExitError(err) {
		t.Error("Expected true for failed command")
	}
}

func TestGetExitCode(t *testing.T) {
	skipOnWindows(t)

	if code := GetExitCode(nil); code != 0 {
		t.Errorf("Expected exit code 0 for nil error, got %d", code)
	}

	err := exec.Command("sh", "-c", "exit 42").Run()
	if code := GetExitCode(err); code != 42 {
		t.Errorf("Expected exit code 42, got %d", code)
	}

	if code := GetExitCode(errors.New("spawn failed")); code != -1 {
		t.Errorf("Expected -1 for non-exit error, got %d", code)
	}
}
