package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/velalang/vela/internal/config"
)

func TestLoadOptionsMissingFile(t *testing.T) {
	opts, err := config.LoadOptions(filepath.Join(t.TempDir(), "vela.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if opts.MaxSpecializationRounds != config.MaxSpecializationRounds {
		t.Errorf("rounds = %d", opts.MaxSpecializationRounds)
	}
	if opts.Color != "auto" {
		t.Errorf("color = %q", opts.Color)
	}
	if opts.Entry != "" || len(opts.SearchPaths) != 0 {
		t.Errorf("unexpected defaults: %+v", opts)
	}
}

func TestLoadOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vela.yaml")
	err := os.WriteFile(path, []byte(`
entry: src/main.vela
search_paths:
  - lib
  - vendor/std
max_specialization_rounds: 12
color: never
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	opts, err := config.LoadOptions(path)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Entry != "src/main.vela" {
		t.Errorf("entry = %q", opts.Entry)
	}
	if len(opts.SearchPaths) != 2 || opts.SearchPaths[1] != "vendor/std" {
		t.Errorf("search paths = %v", opts.SearchPaths)
	}
	if opts.MaxSpecializationRounds != 12 {
		t.Errorf("rounds = %d", opts.MaxSpecializationRounds)
	}
	if opts.Color != "never" {
		t.Errorf("color = %q", opts.Color)
	}
}

func TestLoadOptionsClampsRounds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vela.yaml")
	if err := os.WriteFile(path, []byte("max_specialization_rounds: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := config.LoadOptions(path)
	if err != nil {
		t.Fatal(err)
	}
	if opts.MaxSpecializationRounds != config.MaxSpecializationRounds {
		t.Errorf("rounds = %d, want default", opts.MaxSpecializationRounds)
	}
}

func TestLoadOptionsBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vela.yaml")
	if err := os.WriteFile(path, []byte("entry: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.LoadOptions(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestFindProjectFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, config.ProjectFileName)
	if err := os.WriteFile(want, []byte("color: auto\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := config.FindProjectFile(nested); got != want {
		t.Errorf("FindProjectFile = %q, want %q", got, want)
	}
}

func TestFindProjectFileAbsent(t *testing.T) {
	// An empty temp dir has no vela.yaml anywhere up to its root.
	if got := config.FindProjectFile(t.TempDir()); got != "" {
		t.Skipf("found an unrelated project file at %q", got)
	}
}
