package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/algoviz/internal/scheduler"
	"github.com/san-kum/algoviz/internal/validate"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Algorithm != "bubble-sort" {
		t.Errorf("expected algorithm bubble-sort, got %s", cfg.Algorithm)
	}
	if cfg.Interval() != 200*time.Millisecond {
		t.Errorf("expected 200ms interval, got %s", cfg.Interval())
	}
	if cfg.SchedulerMode() != scheduler.Timed {
		t.Error("default mode should be timed")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "algoviz.yaml")
	cfg := DefaultConfig()
	cfg.Algorithm = "dijkstra"
	cfg.Mode = "manual"
	cfg.Input = map[string]string{validate.FieldGraph: `{"A":{"B":1}}`, validate.FieldStart: "A"}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Algorithm != "dijkstra" || got.SchedulerMode() != scheduler.Manual {
		t.Errorf("unexpected config: %+v", got)
	}
	if got.GetInput().Get(validate.FieldStart) != "A" {
		t.Errorf("input not preserved: %v", got.Input)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "algoviz.toml")
	data := "algorithm = \"lcs\"\ninterval_ms = 50\n\n[input]\nfirst = \"ABC\"\nsecond = \"AC\"\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Algorithm != "lcs" || cfg.Interval() != 50*time.Millisecond {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Theme != DefaultTheme {
		t.Errorf("defaults should survive partial files, theme = %q", cfg.Theme)
	}
	if cfg.GetInput().Get(validate.FieldSecond) != "AC" {
		t.Errorf("input not loaded: %v", cfg.Input)
	}

	out := filepath.Join(t.TempDir(), "copy.toml")
	if err := Save(out, cfg); err != nil {
		t.Fatalf("save toml: %v", err)
	}
	again, err := Load(out)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Algorithm != "lcs" {
		t.Errorf("toml round trip lost algorithm: %+v", again)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"mode.yaml":     "mode: warp\n",
		"interval.yaml": "interval_ms: 0\n",
		"syntax.yaml":   "algorithm: [\n",
	}
	for name, body := range tests {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	in := GetPreset("bubble-sort", "scenario")
	if in == nil {
		t.Fatal("expected preset, got nil")
	}
	if in.Get(validate.FieldArray) != "3,1,4,1,5,9" {
		t.Errorf("unexpected preset input: %v", in)
	}

	in[validate.FieldArray] = "changed"
	if GetPreset("bubble-sort", "scenario").Get(validate.FieldArray) == "changed" {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("bubble-sort", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "scenario") != nil {
		t.Error("expected nil for nonexistent algorithm")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("quick-sort")
	if len(presets) != 3 || presets[0] != "equal" {
		t.Errorf("unexpected presets: %v", presets)
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent algorithm")
	}
}

func TestLoadPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	body := "bubble-sort:\n  mine:\n    array: \"5,4\"\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { delete(Presets["bubble-sort"], "mine") })

	if err := LoadPresets(path); err != nil {
		t.Fatalf("load presets: %v", err)
	}
	if GetPreset("bubble-sort", "mine").Get(validate.FieldArray) != "5,4" {
		t.Error("user preset not merged")
	}
}
