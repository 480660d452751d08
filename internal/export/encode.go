package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// EncodeJSON writes the snapshot as indented JSON after validating it.
func EncodeJSON(w io.Writer, s *Snapshot) error {
	data, err := marshalValidated(s)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// EncodeYAML writes the snapshot as YAML after validating its JSON form.
func EncodeYAML(w io.Writer, s *Snapshot) error {
	if _, err := marshalValidated(s); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s.document()); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

func marshalValidated(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.document()); err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	data := bytes.TrimRight(buf.Bytes(), "\n")
	if err := Validate(data); err != nil {
		return nil, err
	}
	return data, nil
}
