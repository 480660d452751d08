package export

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/snapshot.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// SchemaError lists the locations in a document that broke the schema.
type SchemaError struct {
	Issues []string
}

func (e *SchemaError) Error() string {
	return "snapshot does not match schema: " + strings.Join(e.Issues, "; ")
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("snapshot.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("snapshot.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks a JSON-encoded snapshot against the embedded schema.
// Schema violations are returned as *SchemaError.
func Validate(data []byte) error {
	schema, err := getSchema()
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("unexpected validation error type: %w", err)
	}
	return &SchemaError{Issues: collectIssues(verr)}
}

// collectIssues walks the error tree and keeps the leaves.
func collectIssues(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		if verr.ErrorKind == nil {
			return nil
		}
		loc := "/" + strings.Join(verr.InstanceLocation, "/")
		return []string{loc + ": " + verr.ErrorKind.LocalizedString(printer)}
	}
	var issues []string
	for _, cause := range verr.Causes {
		issues = append(issues, collectIssues(cause)...)
	}
	return issues
}
