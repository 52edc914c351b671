package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/algoviz/internal/step"
)

func sampleTrace() []step.Step {
	return []step.Step{
		{Kind: step.Compare, Indices: []int{0, 1}},
		{Kind: step.Swap, Indices: []int{0, 1}},
		{Kind: step.Relax, Node: "B", From: "A", Value: 3},
		{Kind: step.Pointer, Label: "pivot", Indices: []int{2}},
		{Kind: step.Find, Indices: []int{4, 2, 0}},
		step.Finish("sorted [1, 3], with a comma"),
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Algorithm: "bubble-sort",
		Mode:      "manual",
		Input:     map[string]string{"array": "3,1"},
		Outcome:   "done",
		Summary:   "sorted [1 3]",
		Metrics:   map[string]float64{"comparisons": 1},
	}
	runID, err := st.Save(meta, sampleTrace())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	got, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Algorithm != "bubble-sort" || got.Input["array"] != "3,1" {
		t.Errorf("unexpected metadata: %+v", got)
	}
	if got.Steps != len(sampleTrace()) {
		t.Errorf("expected %d steps, got %d", len(sampleTrace()), got.Steps)
	}
	if got.Metrics["comparisons"] != 1 {
		t.Errorf("expected comparisons 1, got %f", got.Metrics["comparisons"])
	}

	steps, err := st.LoadSteps(runID)
	if err != nil {
		t.Fatalf("load steps failed: %v", err)
	}
	want := sampleTrace()
	if len(steps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(steps))
	}
	for i := range want {
		if !steps[i].Equal(want[i]) {
			t.Errorf("step %d: got %v, want %v", i, steps[i], want[i])
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	st.Init()

	for _, alg := range []string{"bfs", "dfs"} {
		if _, err := st.Save(RunMetadata{Algorithm: alg}, sampleTrace()); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID == runs[1].ID {
		t.Error("run ids must be unique")
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	st.Init()

	runID, _ := st.Save(RunMetadata{Algorithm: "lcs"}, sampleTrace())
	runDir := filepath.Join(tmpDir, runID)

	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	data, err := os.ReadFile(filepath.Join(runDir, "steps.csv"))
	if err != nil {
		t.Fatal("steps.csv not created")
	}
	if !strings.HasPrefix(string(data), "index,kind,indices") {
		t.Errorf("unexpected csv header: %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestResolvePrefix(t *testing.T) {
	st := New(t.TempDir())
	st.Init()
	runID, _ := st.Save(RunMetadata{Algorithm: "bfs"}, sampleTrace())

	got, err := st.Resolve(runID[:8])
	if err != nil || got != runID {
		t.Errorf("resolve prefix: got %q, %v", got, err)
	}
	if _, err := st.Resolve("zzzz"); err == nil {
		t.Error("expected error for unknown run")
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	s := step.Step{Kind: step.Swap, Indices: []int{1, 2}}
	r.OnStep(s)
	s.Indices[0] = 9

	got := r.Steps()
	if len(got) != 1 || got[0].Indices[0] != 1 {
		t.Errorf("recorder should keep a copy, got %v", got)
	}
	got[0].Indices[1] = 7
	if r.Steps()[0].Indices[1] != 2 {
		t.Error("Steps must return copies")
	}

	r.Reset()
	if len(r.Steps()) != 0 {
		t.Error("reset should clear steps")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := RunMetadata{ID: "abc", Algorithm: "bfs", Outcome: "done"}
	if err := WriteJSON(&buf, meta, sampleTrace()); err != nil {
		t.Fatal(err)
	}

	var out ExportData
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.ID != "abc" || len(out.Trace) != len(sampleTrace()) {
		t.Errorf("unexpected export: %+v", out)
	}

	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, meta, sampleTrace()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}
