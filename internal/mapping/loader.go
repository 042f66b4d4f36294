package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"mapvet/internal/common"
)

// SchemaVersion is the only document version this loader understands.
const SchemaVersion = "1"

// ErrUnsupportedVersion is returned for documents declaring an unknown version.
var ErrUnsupportedVersion = errors.New("unsupported mapping document version")

// LoadFile loads every YAML document in the file at path.
func LoadFile(path string) ([]*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}
	defer f.Close()

	docs, err := ParseStream(f, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping file %s: %w", path, err)
	}

	return docs, nil
}

// Parse parses a single YAML mapping document.
func Parse(data []byte) (*Document, error) {
	docs, err := ParseStream(bytes.NewReader(data), "")
	if err != nil {
		return nil, err
	}

	if common.IsMultiple(docs) {
		return nil, fmt.Errorf("expected one mapping document, found %d", len(docs))
	}

	doc, ok := common.First(docs)
	if !ok {
		return nil, errors.New("empty mapping document")
	}

	return doc, nil
}

// ParseStream parses a stream of "---"-separated documents. file is
// recorded on each document for diagnostic locations.
func ParseStream(r io.Reader, file string) ([]*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var docs []*Document

	for {
		var doc Document

		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}

		if err != nil {
			return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
		}

		if err := applyDefaults(&doc); err != nil {
			return nil, err
		}

		doc.File = file
		docs = append(docs, &doc)
	}
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(doc *Document) error {
	if doc.Version == "" {
		doc.Version = SchemaVersion
	}

	if doc.Version != SchemaVersion {
		return fmt.Errorf("%w %q", ErrUnsupportedVersion, doc.Version)
	}

	return nil
}
