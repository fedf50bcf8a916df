package preferences

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	prefs, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if prefs.DarkMode != nil {
		t.Fatalf("DarkMode = %v; want unset", *prefs.DarkMode)
	}
	if !prefs.DarkModeOr(true) || prefs.DarkModeOr(false) {
		t.Fatalf("DarkModeOr should return the fallback when unset")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", FileName)

	prefs := &Preferences{}
	prefs.SetDarkMode(false)
	if err := prefs.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := string(data); got != "darkMode: false\n" {
		t.Fatalf("file = %q; want %q", got, "darkMode: false\n")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.DarkModeOr(true) {
		t.Fatalf("DarkModeOr(true) = true; want saved false")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("darkMode: [not a bool"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load of invalid YAML succeeded")
	}
}

func TestNilPreferences(t *testing.T) {
	var p *Preferences
	if !p.DarkModeOr(true) {
		t.Fatalf("nil preferences should use the fallback")
	}
}
