package schema

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Rana718/dictseed/internal/errs"
	"gopkg.in/yaml.v3"
)

// Load reads and validates a data-dictionary file. JSON and YAML are both
// accepted since the YAML decoder reads JSON documents as well.
func Load(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrKindNotFound, fmt.Sprintf("schema file %s", path), err)
		}
		return nil, errs.Wrap(errs.ErrKindInvalidInput, fmt.Sprintf("read schema file %s", path), err)
	}
	return Parse(data)
}

// Parse decodes a data-dictionary document, keeping the order in which
// tables are declared, and validates it.
func Parse(data []byte) (*Metadata, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "decode schema document", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errs.New(errs.ErrKindInvalidInput, "schema document is empty")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errs.New(errs.ErrKindInvalidInput, "schema document must be a mapping of table names")
	}

	meta := New("")
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]

		if key.Value == SchemaNameKey {
			if value.Kind != yaml.ScalarNode {
				return nil, errs.Newf(errs.ErrKindInvalidInput, "%s must be a string", SchemaNameKey)
			}
			meta.Name = value.Value
			continue
		}

		var table Table
		if err := value.Decode(&table); err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, fmt.Sprintf("decode table %s (line %d)", key.Value, key.Line), err)
		}
		meta.AddTable(key.Value, &table)
	}

	if err := meta.Validate(); err != nil {
		return nil, err
	}
	return meta, nil
}
