// Package plistfile decodes Apple property list files (XML, binary and
// OpenStep encodings) into generic Go maps.
package plistfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"howett.net/plist"
)

// ErrNotDictionary is returned when a property list decodes to something
// other than a dictionary at its root.
var ErrNotDictionary = errors.New("plist root is not a dictionary")

// ParseError reports a document-level decode failure for a single file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parsing plist: %v", e.Err)
	}
	return fmt.Sprintf("parsing plist %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Decoder decodes property list files from disk. The zero value is ready to use.
type Decoder struct{}

// DecodeFile reads path and decodes it as a property list dictionary.
func (Decoder) DecodeFile(path string) (map[string]any, error) {
	return DecodeFile(path)
}

// DecodeFile reads path and decodes it as a property list dictionary.
// Read failures are returned wrapped; malformed content yields a *ParseError.
func DecodeFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	dict, err := Decode(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return dict, nil
}

// Decode decodes raw bytes as a property list whose root is a dictionary.
func Decode(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Err: errors.New("empty document")}
	}

	var root any
	if _, err := plist.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Err: err}
	}

	dict, ok := root.(map[string]any)
	if !ok {
		return nil, &ParseError{Err: ErrNotDictionary}
	}
	return dict, nil
}
