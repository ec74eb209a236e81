package corpus

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"gopkg.in/yaml.v3"
)

// corpusFile is the YAML shape of a corpus document set.
type corpusFile struct {
	Documents []struct {
		Domain string `yaml:"domain"`
		Text   string `yaml:"text"`
		Source string `yaml:"source"`
	} `yaml:"documents"`
}

// LoadBackend reads a YAML corpus file and builds a retrieval backend over
// it. An empty path yields an empty backend.
func LoadBackend(path string) (*Backend, error) {
	if path == "" {
		return NewBackend(nil), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file %s: %w", path, err)
	}
	var file corpusFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse corpus file %s: %w", path, err)
	}
	docs := make([]Doc, 0, len(file.Documents))
	for _, d := range file.Documents {
		docs = append(docs, Doc{
			ID:     uuid.New(),
			Domain: d.Domain,
			Text:   d.Text,
			Source: d.Source,
		})
	}
	return NewBackend(docs), nil
}
