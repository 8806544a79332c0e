// Package preset reads and writes builds as YAML files.
package preset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/huangsam/dmgcalc/schema"
	"gopkg.in/yaml.v3"
)

// Preset is a named build stored on disk.
type Preset struct {
	Name        string              `yaml:"name"`
	Description string              `yaml:"description,omitempty"`
	Build       schema.ParameterSet `yaml:"build"`
}

// Load reads a preset from path. Fields missing from the file keep their
// value from base, so a preset may list only what it changes.
func Load(path string, base schema.ParameterSet) (Preset, error) {
	p := Preset{Build: base}

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("reading preset %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return p, fmt.Errorf("parsing preset %s: %w", path, err)
	}

	for _, f := range schema.Fields {
		v := f.Get(p.Build)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return p, fmt.Errorf("parsing preset %s: %s is not a finite number", path, f.Key)
		}
	}
	return p, nil
}

// Marshal encodes the preset with every field in schema order.
func Marshal(p Preset) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("encoding preset: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding preset: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the preset to path.
func Save(path string, p Preset) error {
	data, err := Marshal(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing preset %s: %w", path, err)
	}
	return nil
}
