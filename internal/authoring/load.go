package authoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type formatProbe struct {
	Format string `json:"format" yaml:"format"`
}

// LoadJSON reads a canonical or legacy table document from JSON.
func LoadJSON(r io.Reader) (*TableRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseJSON(data)
}

// ParseJSON is LoadJSON over an in-memory document.
func ParseJSON(data []byte) (*TableRecord, error) {
	var probe formatProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse table json: %w", err)
	}
	if probe.Format == FormatLegacy {
		var l LegacyTableRecord
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, fmt.Errorf("parse legacy table json: %w", err)
		}
		return l.Canonical()
	}

	var t TableRecord
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse table json: %w", err)
	}
	return &t, nil
}

// LoadYAML reads a canonical or legacy table document from YAML.
func LoadYAML(r io.Reader) (*TableRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseYAML(data)
}

// ParseYAML is LoadYAML over an in-memory document.
func ParseYAML(data []byte) (*TableRecord, error) {
	var probe formatProbe
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse table yaml: %w", err)
	}
	if probe.Format == FormatLegacy {
		var l LegacyTableRecord
		if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&l); err != nil {
			return nil, fmt.Errorf("parse legacy table yaml: %w", err)
		}
		return l.Canonical()
	}

	var t TableRecord
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&t); err != nil {
		return nil, fmt.Errorf("parse table yaml: %w", err)
	}
	return &t, nil
}

// LoadFile picks the decoder from the file extension.
func LoadFile(path string) (*TableRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(f)
	case ".yaml", ".yml":
		return LoadYAML(f)
	default:
		return nil, fmt.Errorf("unsupported authoring file extension: %s", path)
	}
}

// WriteYAML writes t as a YAML document.
func WriteYAML(w io.Writer, t *TableRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return err
	}
	return enc.Close()
}
