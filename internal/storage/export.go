package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/algoviz/internal/step"
)

type ExportData struct {
	RunMetadata
	Trace []step.Step `json:"trace"`
}

func ExportJSON(path string, meta RunMetadata, steps []step.Step) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, steps)
}

func WriteJSON(w io.Writer, meta RunMetadata, steps []step.Step) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{RunMetadata: meta, Trace: steps})
}
