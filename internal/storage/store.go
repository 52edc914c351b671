// Package storage keeps recorded step traces on disk so runs can be listed,
// inspected and replayed later.
//
// Each run lives in its own directory under the store's base directory:
//
//	<base>/<id>/metadata.json
//	<base>/<id>/steps.csv
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/algoviz/internal/step"
)

const (
	metadataFile = "metadata.json"
	stepsFile    = "steps.csv"
)

var stepsHeader = []string{"index", "kind", "indices", "node", "from", "value", "label", "summary", "reason"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name,omitempty"`
	Algorithm string             `json:"algorithm"`
	Timestamp time.Time          `json:"timestamp"`
	Mode      string             `json:"mode"`
	Input     map[string]string  `json:"input"`
	Outcome   string             `json:"outcome"`
	Summary   string             `json:"summary,omitempty"`
	Reason    string             `json:"reason,omitempty"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes meta and the step trace under a fresh run ID. ID, Timestamp
// and Steps are filled in by Save.
func (s *Store) Save(meta RunMetadata, steps []step.Step) (string, error) {
	meta.ID = uuid.NewString()
	meta.Timestamp = time.Now()
	meta.Steps = len(steps)
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, stepsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(stepsHeader); err != nil {
		return "", err
	}
	for i, st := range steps {
		if err := w.Write(encodeStep(i, st)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func encodeStep(i int, st step.Step) []string {
	idx := make([]string, len(st.Indices))
	for j, v := range st.Indices {
		idx[j] = strconv.Itoa(v)
	}
	return []string{
		strconv.Itoa(i),
		string(st.Kind),
		strings.Join(idx, " "),
		st.Node,
		st.From,
		strconv.Itoa(st.Value),
		st.Label,
		st.Summary,
		st.Reason,
	}
}

func decodeStep(record []string) (step.Step, error) {
	if len(record) != len(stepsHeader) {
		return step.Step{}, fmt.Errorf("expected %d columns, got %d", len(stepsHeader), len(record))
	}
	st := step.Step{
		Kind:    step.Kind(record[1]),
		Node:    record[3],
		From:    record[4],
		Label:   record[6],
		Summary: record[7],
		Reason:  record[8],
	}
	if fields := strings.Fields(record[2]); len(fields) > 0 {
		st.Indices = make([]int, len(fields))
		for j, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return step.Step{}, fmt.Errorf("index %q: %w", f, err)
			}
			st.Indices[j] = v
		}
	}
	v, err := strconv.Atoi(record[5])
	if err != nil {
		return step.Step{}, fmt.Errorf("value %q: %w", record[5], err)
	}
	st.Value = v
	return st, nil
}

// List returns all stored runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSteps reads a run's recorded steps in delivery order.
func (s *Store) LoadSteps(runID string) ([]step.Step, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, stepsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []step.Step{}, nil
	}

	steps := make([]step.Step, 0, len(records)-1)
	for i, record := range records[1:] {
		st, err := decodeStep(record)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", stepsFile, i+1, err)
		}
		steps = append(steps, st)
	}
	return steps, nil
}

// Resolve finds a run by full ID or unique ID prefix.
func (s *Store) Resolve(prefix string) (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	var match string
	for _, r := range runs {
		if r.ID == prefix {
			return r.ID, nil
		}
		if strings.HasPrefix(r.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("run prefix %q is ambiguous", prefix)
			}
			match = r.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("run not found: %s", prefix)
	}
	return match, nil
}
