package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cinebox/internal/media"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	cmd := newRootCommand()
	cmd.SetArgs([]string{"config", "init", "--path", target})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[tmdb]") {
		t.Fatalf("sample missing tmdb section: %s", data)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# existing"), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	cmd := newRootCommand()
	cmd.SetArgs([]string{"config", "init", "--path", target})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}

func TestMaskKey(t *testing.T) {
	cases := map[string]string{
		"":             "(unset)",
		"abcd":         "****",
		"abcdefghijkl": "ab********kl",
	}
	for key, want := range cases {
		if got := maskKey(key); got != want {
			t.Errorf("maskKey(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(5400); got != "1h30m" {
		t.Errorf("formatDuration(5400) = %q", got)
	}
	if got := formatDuration(125); got != "2m" {
		t.Errorf("formatDuration(125) = %q", got)
	}
}

func TestFormatCounts(t *testing.T) {
	counts := map[media.Category]int{
		media.CategoryMovie: 2,
		media.CategoryTV:    1,
	}
	if got := formatCounts(counts); got != "movie: 2, tv: 1" {
		t.Errorf("formatCounts = %q", got)
	}
	if got := formatCounts(nil); got != "empty" {
		t.Errorf("formatCounts(nil) = %q", got)
	}
}
