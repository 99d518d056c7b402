package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tablemind-ai/tablemind/internal/config"
	"github.com/tablemind-ai/tablemind/internal/modelselect"
	"github.com/tablemind-ai/tablemind/internal/provider"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	for _, name := range []string{"run", "chat", "serve", "doctor", "config", "version"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Fatalf("find %s command: %v", name, err)
		}
		if sub == nil || sub.Name() != name {
			t.Fatalf("%s command not registered", name)
		}
	}
}

func TestRunCommandAnswersPrompt(t *testing.T) {
	home := createTestHome(t)
	writeValidConfig(t, home)

	origFactory := providerFactory
	defer func() { providerFactory = origFactory }()
	providerFactory = func(_ modelselect.Descriptor, _ config.LLMConfig) (provider.Provider, error) {
		return fakeProvider{
			resp: &provider.ChatResponse{Content: "There are 12 rows."},
		}, nil
	}

	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"run", "-p", "how many rows?"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute run command: %v", err)
	}

	if got := strings.TrimSpace(out.String()); got != "There are 12 rows." {
		t.Fatalf("expected answer output, got %q", got)
	}
}

func TestRunCommandRequiresPrompt(t *testing.T) {
	home := createTestHome(t)
	writeValidConfig(t, home)

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"run"})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "prompt is required") {
		t.Fatalf("expected missing prompt error, got %v", err)
	}
}

func TestRootCommandBootstrapsDataTree(t *testing.T) {
	home := createTestHome(t)
	writeValidConfig(t, home)

	origFactory := providerFactory
	defer func() { providerFactory = origFactory }()
	providerFactory = func(_ modelselect.Descriptor, _ config.LLMConfig) (provider.Provider, error) {
		return fakeProvider{resp: &provider.ChatResponse{Content: "ok"}}, nil
	}

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"run", "-p", "hi"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	for _, dir := range []string{"data", "outputs", "sessions"} {
		if _, err := os.Stat(filepath.Join(home, dir)); err != nil {
			t.Fatalf("expected bootstrap directory %q to exist: %v", dir, err)
		}
	}
	if _, err := os.Stat(filepath.Join(home, "sessions", "cli", "default.jsonl")); err != nil {
		t.Fatalf("expected session file to exist: %v", err)
	}
}

func TestConfigCommandPrintsMergedTOML(t *testing.T) {
	home := createTestHome(t)
	configBody := "[agent]\nmax_iterations = 5\n"
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(configBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"config"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute config command: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "max_iterations = 5") {
		t.Fatalf("expected file override in merged config, got %q", got)
	}
	if !strings.Contains(got, "listen_addr") {
		t.Fatalf("expected defaults in merged config, got %q", got)
	}
}

func TestVersionCommandPrintsVersion(t *testing.T) {
	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute version command: %v", err)
	}
	if !strings.Contains(out.String(), "tablemind") {
		t.Fatalf("expected version output, got %q", out.String())
	}
}
