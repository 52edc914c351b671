package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/algoviz/internal/validate"
)

var Presets = map[string]map[string]validate.Input{
	"bubble-sort": {
		"scenario": {validate.FieldArray: "3,1,4,1,5,9"},
		"reversed": {validate.FieldArray: "9,8,7,6,5,4,3,2,1"},
		"sorted":   {validate.FieldArray: "1,2,3,4,5,6,7,8,9"},
	},
	"insertion-sort": {
		"scenario":   {validate.FieldArray: "3,1,4,1,5,9"},
		"nearly":     {validate.FieldArray: "1,2,4,3,5,6,8,7,9"},
		"duplicates": {validate.FieldArray: "5,3,5,1,3,5,1"},
	},
	"selection-sort": {
		"scenario": {validate.FieldArray: "3,1,4,1,5,9"},
		"negative": {validate.FieldArray: "0,-4,7,-1,3,-9,2"},
	},
	"merge-sort": {
		"scenario": {validate.FieldArray: "3,1,4,1,5,9"},
		"reversed": {validate.FieldArray: "16,15,14,13,12,11,10,9,8,7,6,5,4,3,2,1"},
	},
	"quick-sort": {
		"scenario":   {validate.FieldArray: "3,1,4,1,5,9"},
		"worst-case": {validate.FieldArray: "1,2,3,4,5,6,7,8,9,10"},
		"equal":      {validate.FieldArray: "4,4,4,4,4,4"},
	},
	"shuffle": {
		"deck": {validate.FieldArray: "1,2,3,4,5,6,7,8,9,10,11,12,13", validate.FieldSeed: "2024"},
	},
	"binary-search": {
		"hit":        {validate.FieldArray: "2,3,5,7,11,13,17,19,23", validate.FieldTarget: "13"},
		"miss":       {validate.FieldArray: "2,3,5,7,11,13,17,19,23", validate.FieldTarget: "4"},
		"duplicates": {validate.FieldArray: "1,2,2,2,2,3", validate.FieldTarget: "2"},
	},
	"pair-sum": {
		"hit":  {validate.FieldArray: "-3,0,2,4,8,10", validate.FieldTarget: "7"},
		"miss": {validate.FieldArray: "1,2,3,4", validate.FieldTarget: "50"},
	},
	"max-window-sum": {
		"ties":     {validate.FieldArray: "1,2,1,2,1,2", validate.FieldWindow: "2"},
		"negative": {validate.FieldArray: "-5,-2,-8,-1,-7", validate.FieldWindow: "2"},
	},
	"bfs": {
		"tree": {validate.FieldGraph: `{"1":["2","3"],"2":["4","5"],"3":["6","7"]}`, validate.FieldStart: "1"},
	},
	"dfs": {
		"tree":      {validate.FieldGraph: `{"1":["2","3"],"2":["4","5"],"3":["6","7"]}`, validate.FieldStart: "1"},
		"unreached": {validate.FieldGraph: `{"A":["B"],"B":[],"C":["A"]}`, validate.FieldStart: "A"},
	},
	"topological-sort": {
		"cycle":  {validate.FieldGraph: `{"A":["B"],"B":["C"],"C":["A"]}`},
		"course": {validate.FieldGraph: `{"calc":["physics"],"algebra":["calc","stats"],"stats":[],"physics":[]}`},
	},
	"dijkstra": {
		"grid": {validate.FieldGraph: `{"A":{"B":1,"D":4},"B":{"C":2,"E":6},"C":{"F":1},"D":{"E":1},"E":{"F":1},"F":{}}`, validate.FieldStart: "A"},
	},
	"bellman-ford": {
		"negative-cycle": {validate.FieldGraph: `{"A":{"B":1},"B":{"C":-1},"C":{"A":-1}}`, validate.FieldStart: "A"},
	},
	"floyd-warshall": {
		"negative-cycle": {validate.FieldMatrix: "0,1,inf; inf,0,-1; -1,inf,0"},
	},
	"knapsack": {
		"classic": {validate.FieldWeights: "10,20,30", validate.FieldValues: "60,100,120", validate.FieldCapacity: "50"},
	},
	"lcs": {
		"dna": {validate.FieldFirst: "AGGTAB", validate.FieldSecond: "GXTXAYB"},
	},
	"union-find": {
		"chain": {validate.FieldSize: "6", validate.FieldPairs: "0-1,1-2,2-3,3-4,4-5"},
	},
	"hash-insert": {
		"collisions": {validate.FieldSize: "7", validate.FieldKeys: "7,14,21,28,-7"},
	},
}

// GetPreset returns a copy of the named input preset, or nil.
func GetPreset(algorithm, preset string) validate.Input {
	algPresets, ok := Presets[algorithm]
	if !ok {
		return nil
	}
	in, ok := algPresets[preset]
	if !ok {
		return nil
	}
	return in.Clone()
}

// ListPresets returns preset names in sorted order.
func ListPresets(algorithm string) []string {
	algPresets, ok := Presets[algorithm]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(algPresets))
	for name := range algPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadPresets reads user presets from a YAML file shaped like Presets and
// merges them in, replacing built-ins of the same name.
func LoadPresets(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var extra map[string]map[string]map[string]string
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for alg, presets := range extra {
		if Presets[alg] == nil {
			Presets[alg] = make(map[string]validate.Input, len(presets))
		}
		for name, in := range presets {
			Presets[alg][name] = validate.Input(in)
		}
	}
	return nil
}
