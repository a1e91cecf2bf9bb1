package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads and parses the mapping file at path.
func LoadFile(path string) (*MappingFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mapping file: %w", err)
	}
	defer f.Close()

	mf, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return mf, nil
}

// Parse parses an in-memory mapping file.
func Parse(data []byte) (*MappingFile, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads one YAML document from r. Unknown keys are rejected and an
// empty document yields a file with defaults only.
func Decode(r io.Reader) (*MappingFile, error) {
	var mf MappingFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&mf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode mapping yaml: %w", err)
	}

	normalize(&mf)

	return &mf, nil
}

func normalize(mf *MappingFile) {
	if mf.Version == "" {
		mf.Version = CurrentVersion
	}

	mf.Matching = strings.TrimSpace(mf.Matching)

	for i := range mf.TypeMappings {
		tm := &mf.TypeMappings[i]
		tm.Source = strings.TrimSpace(tm.Source)
		tm.Target = strings.TrimSpace(tm.Target)

		if len(tm.OneToOne) == 0 {
			continue
		}

		renames := make(map[string]string, len(tm.OneToOne))
		for source, target := range tm.OneToOne {
			renames[strings.TrimSpace(source)] = strings.TrimSpace(target)
		}

		tm.OneToOne = renames
	}
}

// Marshal encodes mf as YAML.
func Marshal(mf *MappingFile) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(mf); err != nil {
		return nil, err
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
