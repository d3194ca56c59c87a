package cli

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

// stdinArg reads input from stdin instead of a file.
const stdinArg = "-"

// bundle is a set of extractions produced elsewhere for one document.
// On disk it is either a JSON array of extractions or an object with
// "document" and "extractions", checked against bundle.schema.json.
type bundle struct {
	Document    string                 `json:"document"`
	Extractions []domain.RawExtraction `json:"extractions"`
}

//go:embed bundle.schema.json
var bundleSchemaJSON []byte

// bundleSchema compiles the embedded bundle schema once.
var bundleSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("bundle.schema.json", bytes.NewReader(bundleSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add bundle schema: %w", err)
	}
	schema, err := compiler.Compile("bundle.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile bundle schema: %w", err)
	}
	return schema, nil
})

// decodeBundle parses a bundle. name is used when the bundle does not name
// its document.
func decodeBundle(data []byte, name string) (*bundle, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", domain.ErrInvalidInput)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode bundle: %w", domain.ErrInvalidInput, err)
	}
	schema, err := bundleSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: bundle does not match schema: %w", domain.ErrInvalidInput, err)
	}

	var b bundle
	if data[0] == '[' {
		err = json.Unmarshal(data, &b.Extractions)
	} else {
		err = json.Unmarshal(data, &b)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode bundle: %w", domain.ErrInvalidInput, err)
	}

	if b.Document == "" {
		b.Document = name
	}
	return &b, nil
}

// readInput reads a file argument, or stdin for "-".
func readInput(cmd *cobra.Command, arg string) ([]byte, error) {
	if arg == stdinArg {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", arg, err)
	}
	return data, nil
}

// loadBundle reads and decodes the bundle named by arg.
func loadBundle(cmd *cobra.Command, arg string) (*bundle, error) {
	data, err := readInput(cmd, arg)
	if err != nil {
		return nil, err
	}
	name := "stdin"
	if arg != stdinArg {
		name = bundleDocumentName(arg)
	}
	return decodeBundle(data, name)
}

// bundleDocumentName derives a document name from a bundle file name:
// "invoice.pdf.json" names "invoice.pdf".
func bundleDocumentName(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext == ".json" && len(base) > len(ext) {
		return base[:len(base)-len(ext)]
	}
	return base
}
